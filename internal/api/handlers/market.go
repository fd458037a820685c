package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finboard/finance-dashboard-backend/internal/api/response"
	"github.com/finboard/finance-dashboard-backend/internal/apperrors"
	"github.com/finboard/finance-dashboard-backend/internal/service"
	"github.com/finboard/finance-dashboard-backend/internal/validation"
)

// MarketHandler handles market data HTTP requests backed by the Yahoo
// Finance chart API: quotes, history, search, and the movers panels.
type MarketHandler struct {
	marketService *service.MarketService
}

// NewMarketHandler creates a new MarketHandler
func NewMarketHandler(marketService *service.MarketService) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
	}
}

// Quote handles GET requests for a symbol's latest quote.
//
// Endpoint: GET /api/market/quote/{symbol}
// Response: 200 OK with StockQuote
// Error: 404 Not Found if the symbol is unknown
// Error: 502/504 if the upstream provider fails
func (h *MarketHandler) Quote(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if err := validation.ValidateSymbol(symbol); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	quote, err := h.marketService.GetQuote(r.Context(), symbol)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveQuote)
		return
	}

	response.RespondJSON(w, http.StatusOK, quote)
}

// History handles GET requests for a symbol's daily OHLCV series.
//
// Endpoint: GET /api/market/history/{symbol}?period=1mo
// Response: 200 OK with PriceChart
// Error: 400 Bad Request if the period is not a named range
// Error: 404 Not Found if the symbol is unknown
// Error: 502/504 if the upstream provider fails
func (h *MarketHandler) History(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if err := validation.ValidateSymbol(symbol); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "1mo"
	}
	if err := validation.ValidatePeriod(period); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	chart, err := h.marketService.GetHistoricalData(r.Context(), symbol, period)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveHistory)
		return
	}

	response.RespondJSON(w, http.StatusOK, chart)
}

// Search handles GET requests for symbol search. An empty query returns an
// empty result set rather than an error.
//
// Endpoint: GET /api/market/search?q=apple
// Response: 200 OK with array of SearchHit
// Error: 502/504 if the upstream provider fails
func (h *MarketHandler) Search(w http.ResponseWriter, r *http.Request) {
	hits, err := h.marketService.SearchStocks(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSearchSymbols)
		return
	}

	response.RespondJSON(w, http.StatusOK, hits)
}

// Trending handles GET requests for the trending panel.
//
// Endpoint: GET /api/market/trending
// Response: 200 OK with array of StockQuote
// Error: 502 if every symbol lookup failed
func (h *MarketHandler) Trending(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.marketService.GetTrendingStocks(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveQuote)
		return
	}

	response.RespondJSON(w, http.StatusOK, quotes)
}

// Gainers handles GET requests for the daily gainers panel.
//
// Endpoint: GET /api/market/gainers
// Response: 200 OK with array of StockQuote, best performers first
// Error: 502 if every symbol lookup failed
func (h *MarketHandler) Gainers(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.marketService.GetDailyGainers(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveQuote)
		return
	}

	response.RespondJSON(w, http.StatusOK, quotes)
}

// Losers handles GET requests for the daily losers panel.
//
// Endpoint: GET /api/market/losers
// Response: 200 OK with array of StockQuote, worst performers first
// Error: 502 if every symbol lookup failed
func (h *MarketHandler) Losers(w http.ResponseWriter, r *http.Request) {
	quotes, err := h.marketService.GetDailyLosers(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveQuote)
		return
	}

	response.RespondJSON(w, http.StatusOK, quotes)
}

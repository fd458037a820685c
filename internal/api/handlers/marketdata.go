package handlers

import (
	"net/http"
	"strconv"

	"github.com/finboard/finance-dashboard-backend/internal/api/response"
	"github.com/finboard/finance-dashboard-backend/internal/apperrors"
	"github.com/finboard/finance-dashboard-backend/internal/finnhub"
	"github.com/finboard/finance-dashboard-backend/internal/validation"
)

// MarketDataHandler proxies Finnhub lookups through a single action-based
// endpoint so the dashboard never talks to Finnhub directly and the API key
// stays server-side.
type MarketDataHandler struct {
	finnhub finnhub.Client
}

// NewMarketDataHandler creates a new MarketDataHandler
func NewMarketDataHandler(client finnhub.Client) *MarketDataHandler {
	return &MarketDataHandler{
		finnhub: client,
	}
}

// Proxy handles GET requests for the Finnhub proxy. The action parameter
// selects the lookup; the remaining parameters depend on the action.
//
// Endpoint: GET /api/marketdata?action=quote&symbol=AAPL
// Actions:
//   - quote:   symbol
//   - candles: symbol, resolution, from, to (Unix seconds)
//   - profile: symbol
//   - search:  q
//   - news:    category (defaults to "general")
//
// Response: 200 OK with the action's payload
// Error: 400 Bad Request for an unknown action or missing parameters
// Error: 502/504 if the upstream provider fails
func (h *MarketDataHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	switch query.Get("action") {
	case "quote":
		symbol := query.Get("symbol")
		if err := validation.ValidateSymbol(symbol); err != nil {
			response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
			return
		}
		quote, err := h.finnhub.Quote(r.Context(), symbol)
		if err != nil {
			respondServiceError(w, err, apperrors.ErrFailedToRetrieveQuote)
			return
		}
		response.RespondJSON(w, http.StatusOK, quote)

	case "candles":
		symbol := query.Get("symbol")
		if err := validation.ValidateSymbol(symbol); err != nil {
			response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
			return
		}
		resolution := query.Get("resolution")
		if resolution == "" {
			resolution = "D"
		}
		from, err1 := strconv.ParseInt(query.Get("from"), 10, 64)
		to, err2 := strconv.ParseInt(query.Get("to"), 10, 64)
		if err1 != nil || err2 != nil || from >= to {
			response.RespondError(w, http.StatusBadRequest, "invalid from/to range", nil)
			return
		}
		candles, err := h.finnhub.Candles(r.Context(), symbol, resolution, from, to)
		if err != nil {
			respondServiceError(w, err, apperrors.ErrFailedToRetrieveHistory)
			return
		}
		response.RespondJSON(w, http.StatusOK, candles)

	case "profile":
		symbol := query.Get("symbol")
		if err := validation.ValidateSymbol(symbol); err != nil {
			response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
			return
		}
		profile, err := h.finnhub.Profile(r.Context(), symbol)
		if err != nil {
			respondServiceError(w, err, apperrors.ErrFailedToRetrieveQuote)
			return
		}
		response.RespondJSON(w, http.StatusOK, profile)

	case "search":
		q := query.Get("q")
		if q == "" {
			response.RespondJSON(w, http.StatusOK, []finnhub.SearchResult{})
			return
		}
		results, err := h.finnhub.Search(r.Context(), q)
		if err != nil {
			respondServiceError(w, err, apperrors.ErrFailedToSearchSymbols)
			return
		}
		response.RespondJSON(w, http.StatusOK, results)

	case "news":
		category := query.Get("category")
		if category == "" {
			category = "general"
		}
		news, err := h.finnhub.News(r.Context(), category)
		if err != nil {
			respondServiceError(w, err, apperrors.ErrFailedToRetrieveQuote)
			return
		}
		response.RespondJSON(w, http.StatusOK, news)

	default:
		response.RespondError(w, http.StatusBadRequest, "unknown action", nil)
	}
}

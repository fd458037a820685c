package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/finboard/finance-dashboard-backend/internal/api/middleware"
	"github.com/finboard/finance-dashboard-backend/internal/api/request"
	"github.com/finboard/finance-dashboard-backend/internal/api/response"
	"github.com/finboard/finance-dashboard-backend/internal/apperrors"
	"github.com/finboard/finance-dashboard-backend/internal/service"
	"github.com/finboard/finance-dashboard-backend/internal/validation"
)

// PortfolioHandler handles portfolio-related HTTP requests. It serves as the
// HTTP layer adapter, parsing requests and delegating business logic to the
// portfolioService. The acting user is taken from the session middleware.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// Snapshot handles GET requests for the user's primary portfolio: holdings
// with valuations, cash balance, and aggregate metrics. The primary portfolio
// is created on first access.
//
// Endpoint: GET /api/portfolio
// Response: 200 OK with PortfolioView
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	view, err := h.portfolioService.GetSnapshot(r.Context(), middleware.UserID(r))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveSnapshot)
		return
	}

	response.RespondJSON(w, http.StatusOK, view)
}

// Buy handles POST requests to purchase shares. An existing position in the
// same symbol is merged at the weighted-average price.
//
// Endpoint: POST /api/portfolio/buy
// Request Body: TradeRequest (symbol, name, shares, price, fromCash)
// Response: 201 Created with the resulting Holding
// Error: 400 Bad Request if validation fails or funds are insufficient
// Error: 500 Internal Server Error if the mutation fails
func (h *PortfolioHandler) Buy(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.TradeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateTrade(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	holding, err := h.portfolioService.BuyStock(r.Context(), middleware.UserID(r), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToApplyMutation)
		return
	}

	response.RespondJSON(w, http.StatusCreated, holding)
}

// Sell handles POST requests to sell shares. Selling the full position
// removes the holding; proceeds are credited to the cash balance.
//
// Endpoint: POST /api/portfolio/sell
// Request Body: TradeRequest (symbol, shares, price)
// Response: 204 No Content
// Error: 400 Bad Request if validation fails or shares are insufficient
// Error: 404 Not Found if the symbol is not held
// Error: 500 Internal Server Error if the mutation fails
func (h *PortfolioHandler) Sell(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.TradeRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateTrade(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if err := h.portfolioService.SellStock(r.Context(), middleware.UserID(r), req); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToApplyMutation)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// EditHolding handles PUT requests to manually correct a position's share
// count and average price. The cash balance is not touched.
//
// Endpoint: PUT /api/portfolio/holdings
// Request Body: EditHoldingRequest (symbol, shares, avgPrice)
// Response: 200 OK with the updated Holding
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the symbol is not held
// Error: 500 Internal Server Error if the mutation fails
func (h *PortfolioHandler) EditHolding(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.EditHoldingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateEditHolding(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	holding, err := h.portfolioService.EditHolding(r.Context(), middleware.UserID(r), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToApplyMutation)
		return
	}

	response.RespondJSON(w, http.StatusOK, holding)
}

// RemoveHolding handles DELETE requests to drop a position outright.
//
// Endpoint: DELETE /api/portfolio/holdings/{symbol}
// Response: 204 No Content
// Error: 404 Not Found if the symbol is not held
// Error: 500 Internal Server Error if the mutation fails
func (h *PortfolioHandler) RemoveHolding(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if err := validation.ValidateSymbol(symbol); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if err := h.portfolioService.RemoveHolding(r.Context(), middleware.UserID(r), symbol); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToApplyMutation)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Deposit handles POST requests to add funds to the cash balance.
//
// Endpoint: POST /api/portfolio/cash/deposit
// Request Body: CashRequest (amount, description)
// Response: 200 OK with the updated CashBalance
// Error: 400 Bad Request if validation fails
// Error: 500 Internal Server Error if the mutation fails
func (h *PortfolioHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CashRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCash(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	balance, err := h.portfolioService.Deposit(r.Context(), middleware.UserID(r), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToApplyMutation)
		return
	}

	response.RespondJSON(w, http.StatusOK, balance)
}

// Withdraw handles POST requests to remove funds from the cash balance.
// Withdrawing more than the current balance is rejected.
//
// Endpoint: POST /api/portfolio/cash/withdraw
// Request Body: CashRequest (amount, description)
// Response: 200 OK with the updated CashBalance
// Error: 400 Bad Request if validation fails or funds are insufficient
// Error: 500 Internal Server Error if the mutation fails
func (h *PortfolioHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CashRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCash(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	balance, err := h.portfolioService.Withdraw(r.Context(), middleware.UserID(r), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToApplyMutation)
		return
	}

	response.RespondJSON(w, http.StatusOK, balance)
}

// Transactions handles GET requests for the portfolio's ledger, newest first.
//
// Endpoint: GET /api/portfolio/transactions
// Response: 200 OK with array of Transaction
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.portfolioService.GetTransactions(r.Context(), middleware.UserID(r))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTransactions)
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

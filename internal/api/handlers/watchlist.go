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

// WatchlistHandler handles watchlist HTTP requests. The acting user is taken
// from the session middleware; each user has one default watchlist.
type WatchlistHandler struct {
	watchlistService *service.WatchlistService
}

// NewWatchlistHandler creates a new WatchlistHandler
func NewWatchlistHandler(watchlistService *service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{
		watchlistService: watchlistService,
	}
}

// Get handles GET requests for the user's default watchlist with live quotes.
//
// Endpoint: GET /api/watchlist
// Response: 200 OK with WatchlistView
// Error: 500 Internal Server Error if retrieval fails
func (h *WatchlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.watchlistService.GetWatchlist(r.Context(), middleware.UserID(r))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveWatchlist)
		return
	}

	response.RespondJSON(w, http.StatusOK, view)
}

// Add handles POST requests to add a symbol to the watchlist.
//
// Endpoint: POST /api/watchlist
// Request Body: AddWatchlistItemRequest (symbol, name)
// Response: 201 Created with WatchlistItem
// Error: 400 Bad Request if validation fails
// Error: 409 Conflict if the symbol is already on the list
func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.AddWatchlistItemRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateAddWatchlistItem(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	item, err := h.watchlistService.AddSymbol(r.Context(), middleware.UserID(r), req.Symbol, req.Name)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveWatchlist)
		return
	}

	response.RespondJSON(w, http.StatusCreated, item)
}

// Remove handles DELETE requests to drop a symbol from the watchlist.
//
// Endpoint: DELETE /api/watchlist/{symbol}
// Response: 204 No Content
// Error: 404 Not Found if the symbol is not on the list
func (h *WatchlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	if err := validation.ValidateSymbol(symbol); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if err := h.watchlistService.RemoveSymbol(r.Context(), middleware.UserID(r), symbol); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveWatchlist)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/finboard/finance-dashboard-backend/internal/api/response"
	"github.com/finboard/finance-dashboard-backend/internal/apperrors"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Failed to encode JSON: %v", err)
		}
	}
}

// parseJSON decodes a request body into the given type, rejecting unknown fields.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("invalid JSON body: %w", err)
	}
	return v, nil
}

// respondServiceError maps service-layer errors onto HTTP status codes.
// fallback names the failed operation for errors outside the typed taxonomy.
func respondServiceError(w http.ResponseWriter, err error, fallback error) {
	switch {
	case errors.Is(err, apperrors.ErrPortfolioNotFound),
		errors.Is(err, apperrors.ErrHoldingNotFound),
		errors.Is(err, apperrors.ErrTransactionNotFound),
		errors.Is(err, apperrors.ErrWatchlistNotFound),
		errors.Is(err, apperrors.ErrWatchlistItemNotFound),
		errors.Is(err, apperrors.ErrSymbolNotFound),
		errors.Is(err, apperrors.ErrSettingNotFound):
		response.RespondError(w, http.StatusNotFound, err.Error(), nil)

	case errors.Is(err, apperrors.ErrInsufficientShares),
		errors.Is(err, apperrors.ErrInsufficientFunds),
		errors.Is(err, apperrors.ErrNegativeAmount),
		errors.Is(err, apperrors.ErrInvalidSymbol),
		errors.Is(err, apperrors.ErrInvalidUUID),
		errors.Is(err, apperrors.ErrEmptyID):
		response.RespondError(w, http.StatusBadRequest, err.Error(), nil)

	case errors.Is(err, apperrors.ErrDuplicateEntry):
		response.RespondError(w, http.StatusConflict, err.Error(), nil)

	case errors.Is(err, apperrors.ErrProviderTimeout):
		response.RespondError(w, http.StatusGatewayTimeout, err.Error(), nil)

	case errors.Is(err, apperrors.ErrProviderUnavailable),
		errors.Is(err, apperrors.ErrNoData),
		errors.Is(err, apperrors.ErrMalformedResponse):
		response.RespondError(w, http.StatusBadGateway, err.Error(), nil)

	default:
		response.RespondError(w, http.StatusInternalServerError, fallback.Error(), err.Error())
	}
}

package handlers

import (
	"errors"
	"net/http"

	"github.com/finboard/finance-dashboard-backend/internal/api/request"
	"github.com/finboard/finance-dashboard-backend/internal/api/response"
	"github.com/finboard/finance-dashboard-backend/internal/apperrors"
	"github.com/finboard/finance-dashboard-backend/internal/service"
)

// SettingsHandler handles application settings HTTP requests. Secret values
// are never echoed back; responses only indicate whether a value is set.
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// SettingsResponse reports which settings have a value without exposing the
// values themselves.
type SettingsResponse struct {
	FinnhubAPIKeySet bool `json:"finnhubApiKeySet"`
}

// Get handles GET requests for the current settings state.
//
// Endpoint: GET /api/system/settings
// Response: 200 OK with SettingsResponse
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, err := h.settingsService.FinnhubKey(r.Context())
	if err != nil && !errors.Is(err, apperrors.ErrSettingNotFound) {
		respondServiceError(w, err, apperrors.ErrFailedToUpdateSettings)
		return
	}

	response.RespondJSON(w, http.StatusOK, SettingsResponse{
		FinnhubAPIKeySet: err == nil,
	})
}

// Update handles PUT requests to change application settings. Only provided
// fields are applied; the Finnhub key is encrypted before it is stored.
//
// Endpoint: PUT /api/system/settings
// Request Body: UpdateSettingsRequest
// Response: 200 OK with SettingsResponse
// Error: 400 Bad Request if the body is invalid
// Error: 500 Internal Server Error if the update fails
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateSettingsRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.FinnhubAPIKey != nil {
		if err := h.settingsService.SetFinnhubKey(r.Context(), *req.FinnhubAPIKey); err != nil {
			respondServiceError(w, err, apperrors.ErrFailedToUpdateSettings)
			return
		}
	}

	h.Get(w, r)
}

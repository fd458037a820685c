package request

// UpdateSettingsRequest represents the request body for updating application
// settings. Only provided fields are applied.
type UpdateSettingsRequest struct {
	FinnhubAPIKey *string `json:"finnhubApiKey,omitempty"`
}

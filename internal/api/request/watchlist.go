package request

// AddWatchlistItemRequest represents the request body for adding a symbol to
// the watchlist
type AddWatchlistItemRequest struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

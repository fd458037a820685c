package model

import "time"

// Watchlist represents a named list of symbols a user follows. Each user has
// one default watchlist, created implicitly on first access.
type Watchlist struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	IsDefault bool   `json:"isDefault"`
}

// WatchlistItem represents one symbol on a watchlist, unique per
// (watchlist, symbol).
type WatchlistItem struct {
	ID          string    `json:"id"`
	WatchlistID string    `json:"watchlistId"`
	Symbol      string    `json:"symbol"`
	Name        string    `json:"name"`
	AddedAt     time.Time `json:"addedAt"`
}

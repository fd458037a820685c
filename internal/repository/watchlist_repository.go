package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finboard/finance-dashboard-backend/internal/apperrors"
	"github.com/finboard/finance-dashboard-backend/internal/model"
)

// WatchlistRepository provides data access methods for the watchlists and
// watchlist_items tables.
type WatchlistRepository struct {
	db *sql.DB
}

// NewWatchlistRepository creates a new WatchlistRepository with the provided database connection.
func NewWatchlistRepository(db *sql.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

// GetOrCreateDefault returns the user's default watchlist, creating it when
// the user has none. Idempotent under concurrency via the partial unique index
// on watchlists(user_id) WHERE is_default.
func (s *WatchlistRepository) GetOrCreateDefault(ctx context.Context, userID string) (model.Watchlist, error) {
	w, err := s.getDefault(ctx, userID)
	if err == nil {
		return w, nil
	}
	if err != apperrors.ErrWatchlistNotFound {
		return model.Watchlist{}, err
	}

	insert := `
		INSERT INTO watchlists (id, user_id, name, is_default)
		VALUES (?, ?, ?, TRUE)
		ON CONFLICT(user_id) WHERE is_default DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, insert, uuid.New().String(), userID, "My Watchlist"); err != nil {
		return model.Watchlist{}, fmt.Errorf("failed to insert default watchlist: %w", err)
	}

	return s.getDefault(ctx, userID)
}

func (s *WatchlistRepository) getDefault(ctx context.Context, userID string) (model.Watchlist, error) {
	query := `
		SELECT id, user_id, name, is_default
		FROM watchlists
		WHERE user_id = ? AND is_default
	`

	var w model.Watchlist

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&w.ID,
		&w.UserID,
		&w.Name,
		&w.IsDefault,
	)
	if err == sql.ErrNoRows {
		return model.Watchlist{}, apperrors.ErrWatchlistNotFound
	}
	if err != nil {
		return model.Watchlist{}, fmt.Errorf("failed to query watchlists table: %w", err)
	}

	return w, nil
}

// AddItem puts a symbol on a watchlist. Adding a symbol that is already
// present returns ErrDuplicateEntry.
func (s *WatchlistRepository) AddItem(ctx context.Context, watchlistID, symbol, name string) (model.WatchlistItem, error) {
	item := model.WatchlistItem{
		ID:          uuid.New().String(),
		WatchlistID: watchlistID,
		Symbol:      symbol,
		Name:        name,
		AddedAt:     time.Now().UTC(),
	}

	query := `
		INSERT INTO watchlist_items (id, watchlist_id, symbol, name, added_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query, item.ID, item.WatchlistID, item.Symbol, item.Name, FormatTime(item.AddedAt))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return model.WatchlistItem{}, apperrors.ErrDuplicateEntry
		}
		return model.WatchlistItem{}, fmt.Errorf("failed to insert watchlist item: %w", err)
	}

	return item, nil
}

// RemoveItem deletes a symbol from a watchlist. Returns
// ErrWatchlistItemNotFound when the symbol was not on the list.
func (s *WatchlistRepository) RemoveItem(ctx context.Context, watchlistID, symbol string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM watchlist_items WHERE watchlist_id = ? AND symbol = ?`, watchlistID, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete watchlist item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrWatchlistItemNotFound
	}

	return nil
}

// ListItems retrieves the items of a watchlist in insertion order.
func (s *WatchlistRepository) ListItems(ctx context.Context, watchlistID string) ([]model.WatchlistItem, error) {
	query := `
		SELECT id, watchlist_id, symbol, name, added_at
		FROM watchlist_items
		WHERE watchlist_id = ?
		ORDER BY added_at ASC, symbol ASC
	`

	rows, err := s.db.QueryContext(ctx, query, watchlistID)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist_items table: %w", err)
	}
	defer rows.Close()

	items := []model.WatchlistItem{}

	for rows.Next() {
		var item model.WatchlistItem
		var addedAtStr string

		err := rows.Scan(
			&item.ID,
			&item.WatchlistID,
			&item.Symbol,
			&item.Name,
			&addedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan watchlist_items table results: %w", err)
		}

		item.AddedAt, err = ParseTime(addedAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse added_at: %w", err)
		}

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watchlist_items table: %w", err)
	}

	return items, nil
}

package service

import (
	"context"
	"strings"

	"github.com/finboard/finance-dashboard-backend/internal/apperrors"
	"github.com/finboard/finance-dashboard-backend/internal/model"
	"github.com/finboard/finance-dashboard-backend/internal/repository"
	"github.com/finboard/finance-dashboard-backend/internal/yahoo"
)

// WatchlistService manages the user's default watchlist. Like the primary
// portfolio, the default watchlist is created implicitly on first access.
type WatchlistService struct {
	watchlistRepo *repository.WatchlistRepository
	market        *MarketService
}

// NewWatchlistService creates a new WatchlistService with the provided
// repository and market service. The market service prices watchlist items on
// read.
func NewWatchlistService(watchlistRepo *repository.WatchlistRepository, market *MarketService) *WatchlistService {
	return &WatchlistService{watchlistRepo: watchlistRepo, market: market}
}

// WatchlistView is a watchlist with its items priced for display. Quote is
// nil for items whose lookup failed.
type WatchlistView struct {
	Watchlist model.Watchlist     `json:"watchlist"`
	Items     []WatchlistItemView `json:"items"`
}

// WatchlistItemView pairs a stored watchlist item with its live quote.
type WatchlistItemView struct {
	model.WatchlistItem
	Quote *yahoo.StockQuote `json:"quote,omitempty"`
}

// GetWatchlist returns the user's default watchlist with live quotes for each
// item. Quote failures leave the item unpriced instead of failing the list.
func (s *WatchlistService) GetWatchlist(ctx context.Context, userID string) (WatchlistView, error) {
	watchlist, err := s.watchlistRepo.GetOrCreateDefault(ctx, userID)
	if err != nil {
		return WatchlistView{}, err
	}

	items, err := s.watchlistRepo.ListItems(ctx, watchlist.ID)
	if err != nil {
		return WatchlistView{}, err
	}

	views := make([]WatchlistItemView, len(items))
	symbols := make([]string, len(items))
	for i, item := range items {
		views[i] = WatchlistItemView{WatchlistItem: item}
		symbols[i] = item.Symbol
	}

	if len(symbols) > 0 {
		quotes, err := s.market.fanOutQuotes(ctx, symbols)
		if err == nil {
			bySymbol := make(map[string]yahoo.StockQuote, len(quotes))
			for _, q := range quotes {
				bySymbol[q.Symbol] = q
			}
			for i := range views {
				if q, ok := bySymbol[views[i].Symbol]; ok {
					quote := q
					views[i].Quote = &quote
				}
			}
		}
	}

	return WatchlistView{Watchlist: watchlist, Items: views}, nil
}

// AddSymbol adds a symbol to the user's default watchlist. Adding a symbol
// that is already present returns ErrDuplicateEntry.
func (s *WatchlistService) AddSymbol(ctx context.Context, userID, symbol, name string) (model.WatchlistItem, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return model.WatchlistItem{}, apperrors.ErrInvalidSymbol
	}

	watchlist, err := s.watchlistRepo.GetOrCreateDefault(ctx, userID)
	if err != nil {
		return model.WatchlistItem{}, err
	}

	return s.watchlistRepo.AddItem(ctx, watchlist.ID, symbol, name)
}

// RemoveSymbol removes a symbol from the user's default watchlist.
func (s *WatchlistService) RemoveSymbol(ctx context.Context, userID, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return apperrors.ErrInvalidSymbol
	}

	watchlist, err := s.watchlistRepo.GetOrCreateDefault(ctx, userID)
	if err != nil {
		return err
	}

	return s.watchlistRepo.RemoveItem(ctx, watchlist.ID, symbol)
}

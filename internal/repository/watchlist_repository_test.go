package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/finboard/finance-dashboard-backend/internal/apperrors"
	"github.com/finboard/finance-dashboard-backend/internal/model"
	"github.com/finboard/finance-dashboard-backend/internal/repository"
	"github.com/finboard/finance-dashboard-backend/internal/testutil"
)

// TestGetOrCreateDefault tests implicit default watchlist creation.
//
// WHY: Mirrors the primary portfolio: one default watchlist per user, created
// on first access, stable under racing requests.
func TestGetOrCreateDefault(t *testing.T) {
	t.Run("creates the default watchlist on first access", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewWatchlistRepository(db)
		userID := testutil.MakeID()

		w, err := repo.GetOrCreateDefault(context.Background(), userID)
		if err != nil {
			t.Fatalf("GetOrCreateDefault() returned unexpected error: %v", err)
		}

		if w.UserID != userID {
			t.Errorf("Expected watchlist for user %s, got %s", userID, w.UserID)
		}
		if !w.IsDefault {
			t.Error("Expected the created watchlist to be the default")
		}
	})

	t.Run("converges to one watchlist under concurrent first loads", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewWatchlistRepository(db)
		userID := testutil.MakeID()

		const callers = 8
		results := make([]model.Watchlist, callers)
		errs := make([]error, callers)

		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = repo.GetOrCreateDefault(context.Background(), userID)
			}(i)
		}
		wg.Wait()

		for i := 0; i < callers; i++ {
			if errs[i] != nil {
				t.Fatalf("Caller %d failed: %v", i, errs[i])
			}
			if results[i].ID != results[0].ID {
				t.Errorf("Caller %d got watchlist %s, expected %s", i, results[i].ID, results[0].ID)
			}
		}
	})
}

// TestWatchlistItems tests item insertion, ordering, and removal.
func TestWatchlistItems(t *testing.T) {
	t.Run("lists items in insertion order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewWatchlistRepository(db)

		w, err := repo.GetOrCreateDefault(context.Background(), testutil.MakeID())
		if err != nil {
			t.Fatalf("GetOrCreateDefault() failed: %v", err)
		}

		for _, symbol := range []string{"MSFT", "AAPL", "GOOGL"} {
			if _, err := repo.AddItem(context.Background(), w.ID, symbol, symbol+" Inc."); err != nil {
				t.Fatalf("AddItem(%s) failed: %v", symbol, err)
			}
		}

		items, err := repo.ListItems(context.Background(), w.ID)
		if err != nil {
			t.Fatalf("ListItems() returned unexpected error: %v", err)
		}
		if len(items) != 3 {
			t.Fatalf("Expected 3 items, got %d", len(items))
		}

		// Same-second inserts tie-break alphabetically.
		got := []string{items[0].Symbol, items[1].Symbol, items[2].Symbol}
		want := []string{"AAPL", "GOOGL", "MSFT"}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Expected items %v, got %v", want, got)
				break
			}
		}
	})

	t.Run("rejects duplicate symbols on the same list", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewWatchlistRepository(db)

		w, err := repo.GetOrCreateDefault(context.Background(), testutil.MakeID())
		if err != nil {
			t.Fatalf("GetOrCreateDefault() failed: %v", err)
		}

		if _, err := repo.AddItem(context.Background(), w.ID, "AAPL", "Apple Inc."); err != nil {
			t.Fatalf("First AddItem() failed: %v", err)
		}
		_, err = repo.AddItem(context.Background(), w.ID, "AAPL", "Apple Inc.")
		if !errors.Is(err, apperrors.ErrDuplicateEntry) {
			t.Fatalf("Expected ErrDuplicateEntry, got: %v", err)
		}
	})

	t.Run("removal of an absent symbol reports not found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewWatchlistRepository(db)

		w, err := repo.GetOrCreateDefault(context.Background(), testutil.MakeID())
		if err != nil {
			t.Fatalf("GetOrCreateDefault() failed: %v", err)
		}

		err = repo.RemoveItem(context.Background(), w.ID, "AAPL")
		if !errors.Is(err, apperrors.ErrWatchlistItemNotFound) {
			t.Fatalf("Expected ErrWatchlistItemNotFound, got: %v", err)
		}
	})
}

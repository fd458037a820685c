package repository_test

import (
	"context"
	"sync"
	"testing"

	"github.com/finboard/finance-dashboard-backend/internal/model"
	"github.com/finboard/finance-dashboard-backend/internal/repository"
	"github.com/finboard/finance-dashboard-backend/internal/testutil"
)

// TestGetOrCreatePrimary tests implicit primary portfolio creation.
//
// WHY: The first request from a new user must create exactly one primary
// portfolio with a zero cash row, even when several requests race.
func TestGetOrCreatePrimary(t *testing.T) {
	t.Run("creates the primary portfolio with a zero cash row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)
		userID := testutil.MakeID()

		p, err := repo.GetOrCreatePrimary(context.Background(), userID)
		if err != nil {
			t.Fatalf("GetOrCreatePrimary() returned unexpected error: %v", err)
		}

		if p.UserID != userID {
			t.Errorf("Expected portfolio for user %s, got %s", userID, p.UserID)
		}
		if !p.IsPrimary {
			t.Error("Expected the created portfolio to be primary")
		}
		if p.Name != "My Portfolio" {
			t.Errorf("Expected default name, got %q", p.Name)
		}

		var balance float64
		err = db.QueryRow(`SELECT balance FROM cash_balances WHERE portfolio_id = ?`, p.ID).Scan(&balance)
		if err != nil {
			t.Fatalf("Expected a cash row for the new portfolio: %v", err)
		}
		if balance != 0 {
			t.Errorf("Expected zero starting balance, got %v", balance)
		}
	})

	t.Run("returns the same portfolio on repeated calls", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)
		userID := testutil.MakeID()

		first, err := repo.GetOrCreatePrimary(context.Background(), userID)
		if err != nil {
			t.Fatalf("First call failed: %v", err)
		}
		second, err := repo.GetOrCreatePrimary(context.Background(), userID)
		if err != nil {
			t.Fatalf("Second call failed: %v", err)
		}

		if first.ID != second.ID {
			t.Errorf("Expected the same portfolio, got %s and %s", first.ID, second.ID)
		}
	})

	t.Run("converges to one portfolio under concurrent first loads", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)
		userID := testutil.MakeID()

		const callers = 8
		results := make([]model.Portfolio, callers)
		errs := make([]error, callers)

		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = repo.GetOrCreatePrimary(context.Background(), userID)
			}(i)
		}
		wg.Wait()

		for i := 0; i < callers; i++ {
			if errs[i] != nil {
				t.Fatalf("Caller %d failed: %v", i, errs[i])
			}
			if results[i].ID != results[0].ID {
				t.Errorf("Caller %d got portfolio %s, expected %s", i, results[i].ID, results[0].ID)
			}
		}

		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM portfolios WHERE user_id = ?`, userID).Scan(&count); err != nil {
			t.Fatalf("Failed to count portfolios: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected exactly 1 portfolio, got %d", count)
		}
	})

	t.Run("isolates users from each other", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)

		a, err := repo.GetOrCreatePrimary(context.Background(), testutil.MakeID())
		if err != nil {
			t.Fatalf("First user failed: %v", err)
		}
		b, err := repo.GetOrCreatePrimary(context.Background(), testutil.MakeID())
		if err != nil {
			t.Fatalf("Second user failed: %v", err)
		}

		if a.ID == b.ID {
			t.Error("Expected distinct portfolios for distinct users")
		}
	})
}

// TestSnapshot tests the combined cash-and-holdings read.
func TestSnapshot(t *testing.T) {
	t.Run("reads cash and holdings ordered by symbol", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)

		p := testutil.NewPortfolio().Build(t, db)
		testutil.SetCash(t, db, p.ID, 2500)
		testutil.NewHolding(p.ID).WithSymbol("MSFT").Build(t, db)
		testutil.NewHolding(p.ID).WithSymbol("AAPL").Build(t, db)

		snapshot, err := repo.Snapshot(context.Background(), p.ID)
		if err != nil {
			t.Fatalf("Snapshot() returned unexpected error: %v", err)
		}

		if snapshot.CashBalance != 2500 {
			t.Errorf("Expected cash 2500, got %v", snapshot.CashBalance)
		}
		if len(snapshot.Holdings) != 2 {
			t.Fatalf("Expected 2 holdings, got %d", len(snapshot.Holdings))
		}
		if snapshot.Holdings[0].Symbol != "AAPL" || snapshot.Holdings[1].Symbol != "MSFT" {
			t.Errorf("Expected holdings ordered AAPL, MSFT, got %s, %s",
				snapshot.Holdings[0].Symbol, snapshot.Holdings[1].Symbol)
		}
	})

	t.Run("treats a missing cash row as zero", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		repo := repository.NewPortfolioRepository(db)

		p := testutil.NewPortfolio().Build(t, db)

		snapshot, err := repo.Snapshot(context.Background(), p.ID)
		if err != nil {
			t.Fatalf("Snapshot() returned unexpected error: %v", err)
		}
		if snapshot.CashBalance != 0 {
			t.Errorf("Expected zero cash without a cash row, got %v", snapshot.CashBalance)
		}
		if len(snapshot.Holdings) != 0 {
			t.Errorf("Expected no holdings, got %d", len(snapshot.Holdings))
		}
	})
}

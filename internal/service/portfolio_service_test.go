package service_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/finboard/finance-dashboard-backend/internal/api/request"
	"github.com/finboard/finance-dashboard-backend/internal/apperrors"
	"github.com/finboard/finance-dashboard-backend/internal/testutil"
)

// TestPortfolioService_GetSnapshot tests snapshot retrieval.
//
// WHY: The snapshot is the dashboard's primary read. It must create the
// portfolio on first access, price holdings from live quotes, and degrade to
// stale stored prices when individual lookups fail rather than erroring.
func TestPortfolioService_GetSnapshot(t *testing.T) {
	t.Run("creates primary portfolio on first access", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockYahooClient())
		userID := testutil.MakeID()

		view, err := svc.GetSnapshot(context.Background(), userID)
		if err != nil {
			t.Fatalf("GetSnapshot() returned unexpected error: %v", err)
		}

		if view.Portfolio.UserID != userID {
			t.Errorf("Expected portfolio owned by %s, got %s", userID, view.Portfolio.UserID)
		}
		if !view.Portfolio.IsPrimary {
			t.Error("Expected the created portfolio to be primary")
		}
		if len(view.Holdings) != 0 {
			t.Errorf("Expected no holdings, got %d", len(view.Holdings))
		}
	})

	t.Run("is idempotent across repeated access", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockYahooClient())
		userID := testutil.MakeID()

		first, err := svc.GetSnapshot(context.Background(), userID)
		if err != nil {
			t.Fatalf("First GetSnapshot() failed: %v", err)
		}
		second, err := svc.GetSnapshot(context.Background(), userID)
		if err != nil {
			t.Fatalf("Second GetSnapshot() failed: %v", err)
		}

		if first.Portfolio.ID != second.Portfolio.ID {
			t.Errorf("Expected the same portfolio, got %s then %s", first.Portfolio.ID, second.Portfolio.ID)
		}
	})

	t.Run("computes valuations from refreshed quotes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockYahooClient().WithSymbolPrices("AAPL", []float64{150, 160})
		svc := testutil.NewTestPortfolioService(t, db, mock)
		userID := testutil.MakeID()

		portfolio := testutil.NewPortfolio().ForUser(userID).Build(t, db)
		testutil.NewHolding(portfolio.ID).WithSymbol("AAPL").WithShares(10).WithAvgPrice(150).WithCurrentPrice(100).Build(t, db)
		testutil.SetCash(t, db, portfolio.ID, 1000)

		view, err := svc.GetSnapshot(context.Background(), userID)
		if err != nil {
			t.Fatalf("GetSnapshot() returned unexpected error: %v", err)
		}

		if len(view.Holdings) != 1 {
			t.Fatalf("Expected 1 holding, got %d", len(view.Holdings))
		}
		h := view.Holdings[0]
		if h.CurrentPrice != 160 {
			t.Errorf("Expected refreshed price 160, got %v", h.CurrentPrice)
		}
		if h.Value != 1600 {
			t.Errorf("Expected value 1600, got %v", h.Value)
		}
		if h.ReturnAmount != 100 {
			t.Errorf("Expected return 100, got %v", h.ReturnAmount)
		}
		if math.Abs(h.ReturnPct-100.0/1500*100) > 1e-9 {
			t.Errorf("Expected return pct %.4f, got %v", 100.0/1500*100, h.ReturnPct)
		}
		if view.Metrics.TotalValue != 2600 {
			t.Errorf("Expected total value 2600 (holdings + cash), got %v", view.Metrics.TotalValue)
		}
	})

	t.Run("marks holdings stale when their quote fails", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockYahooClient().
			WithSymbolPrices("AAPL", []float64{150, 160}).
			WithSymbolError("MSFT", apperrors.ErrProviderUnavailable)
		svc := testutil.NewTestPortfolioService(t, db, mock)
		userID := testutil.MakeID()

		portfolio := testutil.NewPortfolio().ForUser(userID).Build(t, db)
		testutil.NewHolding(portfolio.ID).WithSymbol("AAPL").Build(t, db)
		testutil.NewHolding(portfolio.ID).WithSymbol("MSFT").WithName("Microsoft").WithCurrentPrice(300).Build(t, db)

		view, err := svc.GetSnapshot(context.Background(), userID)
		if err != nil {
			t.Fatalf("Expected snapshot to survive a single quote failure, got: %v", err)
		}

		if len(view.Holdings) != 2 {
			t.Fatalf("Expected 2 holdings, got %d", len(view.Holdings))
		}
		for _, h := range view.Holdings {
			switch h.Symbol {
			case "AAPL":
				if h.Stale {
					t.Error("AAPL should not be stale, its quote succeeded")
				}
				if h.CurrentPrice != 160 {
					t.Errorf("Expected AAPL price 160, got %v", h.CurrentPrice)
				}
			case "MSFT":
				if !h.Stale {
					t.Error("MSFT should be stale, its quote failed")
				}
				if h.CurrentPrice != 300 {
					t.Errorf("Expected MSFT to keep stored price 300, got %v", h.CurrentPrice)
				}
			}
		}
	})
}

// TestPortfolioService_BuyStock tests share purchases.
//
// WHY: Buying drives the cost-basis math for every later valuation. Merging
// must use the weighted average and the cash debit plus ledger entry must
// land atomically with the holding change.
func TestPortfolioService_BuyStock(t *testing.T) {
	t.Run("creates a new holding and debits cash", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockYahooClient())
		userID := testutil.MakeID()

		portfolio := testutil.NewPortfolio().ForUser(userID).Build(t, db)
		testutil.SetCash(t, db, portfolio.ID, 2000)

		holding, err := svc.BuyStock(context.Background(), userID, request.TradeRequest{
			Symbol: "AAPL", Name: "Apple Inc.", Shares: 10, Price: 150,
		})
		if err != nil {
			t.Fatalf("BuyStock() returned unexpected error: %v", err)
		}

		if holding.Shares != 10 || holding.AvgPrice != 150 {
			t.Errorf("Expected 10 shares @ 150, got %v @ %v", holding.Shares, holding.AvgPrice)
		}

		var balance float64
		if err := db.QueryRow(`SELECT balance FROM cash_balances WHERE portfolio_id = ?`, portfolio.ID).Scan(&balance); err != nil {
			t.Fatalf("Failed to read cash balance: %v", err)
		}
		if balance != 500 {
			t.Errorf("Expected cash balance 500 after buy, got %v", balance)
		}

		if n := testutil.CountRows(t, db, "transactions", portfolio.ID); n != 1 {
			t.Errorf("Expected 1 ledger entry, got %d", n)
		}
	})

	t.Run("merges an existing position at the weighted average", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockYahooClient())
		userID := testutil.MakeID()

		portfolio := testutil.NewPortfolio().ForUser(userID).Build(t, db)
		testutil.NewHolding(portfolio.ID).WithSymbol("AAPL").WithShares(10).WithAvgPrice(100).Build(t, db)
		testutil.SetCash(t, db, portfolio.ID, 10000)

		holding, err := svc.BuyStock(context.Background(), userID, request.TradeRequest{
			Symbol: "AAPL", Shares: 10, Price: 200,
		})
		if err != nil {
			t.Fatalf("BuyStock() returned unexpected error: %v", err)
		}

		if holding.Shares != 20 {
			t.Errorf("Expected 20 shares after merge, got %v", holding.Shares)
		}
		if holding.AvgPrice != 150 {
			t.Errorf("Expected weighted average 150, got %v", holding.AvgPrice)
		}

		// Merging must not create a second row for the symbol.
		if n := testutil.CountRows(t, db, "holdings", portfolio.ID); n != 1 {
			t.Errorf("Expected 1 holding row, got %d", n)
		}
	})

	t.Run("rejects a buy exceeding the cash balance and rolls back", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockYahooClient())
		userID := testutil.MakeID()

		portfolio := testutil.NewPortfolio().ForUser(userID).Build(t, db)
		testutil.SetCash(t, db, portfolio.ID, 100)

		_, err := svc.BuyStock(context.Background(), userID, request.TradeRequest{
			Symbol: "AAPL", Shares: 10, Price: 150,
		})
		if !errors.Is(err, apperrors.ErrInsufficientFunds) {
			t.Fatalf("Expected ErrInsufficientFunds, got: %v", err)
		}

		if n := testutil.CountRows(t, db, "holdings", portfolio.ID); n != 0 {
			t.Errorf("Expected no holding after rejected buy, got %d", n)
		}
		if n := testutil.CountRows(t, db, "transactions", portfolio.ID); n != 0 {
			t.Errorf("Expected no ledger entry after rejected buy, got %d", n)
		}
	})

	t.Run("skips the cash debit when fromCash is false", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockYahooClient())
		userID := testutil.MakeID()

		portfolio := testutil.NewPortfolio().ForUser(userID).Build(t, db)
		testutil.SetCash(t, db, portfolio.ID, 100)

		fromCash := false
		_, err := svc.BuyStock(context.Background(), userID, request.TradeRequest{
			Symbol: "AAPL", Shares: 10, Price: 150, FromCash: &fromCash,
		})
		if err != nil {
			t.Fatalf("BuyStock() returned unexpected error: %v", err)
		}

		var balance float64
		if err := db.QueryRow(`SELECT balance FROM cash_balances WHERE portfolio_id = ?`, portfolio.ID).Scan(&balance); err != nil {
			t.Fatalf("Failed to read cash balance: %v", err)
		}
		if balance != 100 {
			t.Errorf("Expected untouched balance 100, got %v", balance)
		}
	})

	t.Run("rejects non-positive share counts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockYahooClient())

		_, err := svc.BuyStock(context.Background(), testutil.MakeID(), request.TradeRequest{
			Symbol: "AAPL", Shares: 0, Price: 150,
		})
		if !errors.Is(err, apperrors.ErrNegativeAmount) {
			t.Fatalf("Expected ErrNegativeAmount, got: %v", err)
		}
	})

	t.Run("rejects a zero price", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockYahooClient())
		userID := testutil.MakeID()

		_, err := svc.BuyStock(context.Background(), userID, request.TradeRequest{
			Symbol: "AAPL", Shares: 10, Price: 0,
		})
		if !errors.Is(err, apperrors.ErrNegativeAmount) {
			t.Fatalf("Expected ErrNegativeAmount, got: %v", err)
		}

		var n int
		if err := db.QueryRow(`SELECT COUNT(*) FROM holdings`).Scan(&n); err != nil {
			t.Fatalf("Failed to count holdings: %v", err)
		}
		if n != 0 {
			t.Errorf("Expected no holding created for a zero-price buy, got %d rows", n)
		}
	})
}

// TestPortfolioService_SellStock tests share sales.
//
// WHY: Selling the full position must delete the row instead of leaving a
// zero-share holding, and overselling must be rejected without side effects.
func TestPortfolioService_SellStock(t *testing.T) {
	t.Run("partial sell reduces shares and credits cash", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockYahooClient())
		userID := testutil.MakeID()

		portfolio := testutil.NewPortfolio().ForUser(userID).Build(t, db)
		testutil.NewHolding(portfolio.ID).WithSymbol("AAPL").WithShares(10).WithAvgPrice(100).Build(t, db)
		testutil.SetCash(t, db, portfolio.ID, 0)

		err := svc.SellStock(context.Background(), userID, request.TradeRequest{
			Symbol: "AAPL", Shares: 4, Price: 200,
		})
		if err != nil {
			t.Fatalf("SellStock() returned unexpected error: %v", err)
		}

		var shares float64
		if err := db.QueryRow(`SELECT shares FROM holdings WHERE portfolio_id = ?`, portfolio.ID).Scan(&shares); err != nil {
			t.Fatalf("Failed to read holding: %v", err)
		}
		if shares != 6 {
			t.Errorf("Expected 6 shares remaining, got %v", shares)
		}

		var balance float64
		if err := db.QueryRow(`SELECT balance FROM cash_balances WHERE portfolio_id = ?`, portfolio.ID).Scan(&balance); err != nil {
			t.Fatalf("Failed to read cash balance: %v", err)
		}
		if balance != 800 {
			t.Errorf("Expected proceeds of 800 credited, got %v", balance)
		}
	})

	t.Run("selling all shares deletes the holding row", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockYahooClient())
		userID := testutil.MakeID()

		portfolio := testutil.NewPortfolio().ForUser(userID).Build(t, db)
		testutil.NewHolding(portfolio.ID).WithSymbol("AAPL").WithShares(10).Build(t, db)
		testutil.SetCash(t, db, portfolio.ID, 0)

		err := svc.SellStock(context.Background(), userID, request.TradeRequest{
			Symbol: "AAPL", Shares: 10, Price: 160,
		})
		if err != nil {
			t.Fatalf("SellStock() returned unexpected error: %v", err)
		}

		if n := testutil.CountRows(t, db, "holdings", portfolio.ID); n != 0 {
			t.Errorf("Expected holding row deleted after full sell, got %d rows", n)
		}

		var balance float64
		if err := db.QueryRow(`SELECT balance FROM cash_balances WHERE portfolio_id = ?`, portfolio.ID).Scan(&balance); err != nil {
			t.Fatalf("Failed to read cash balance: %v", err)
		}
		if balance != 1600 {
			t.Errorf("Expected full proceeds of 1600 credited, got %v", balance)
		}

		var count int
		var amount float64
		err = db.QueryRow(
			`SELECT COUNT(*), COALESCE(SUM(amount), 0) FROM transactions WHERE portfolio_id = ? AND type = 'sell'`,
			portfolio.ID,
		).Scan(&count, &amount)
		if err != nil {
			t.Fatalf("Failed to read sell transactions: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected exactly one sell transaction, got %d", count)
		}
		if amount != 1600 {
			t.Errorf("Expected sell transaction amount 1600, got %v", amount)
		}
	})

	t.Run("rejects selling more shares than held", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockYahooClient())
		userID := testutil.MakeID()

		portfolio := testutil.NewPortfolio().ForUser(userID).Build(t, db)
		testutil.NewHolding(portfolio.ID).WithSymbol("AAPL").WithShares(5).Build(t, db)
		testutil.SetCash(t, db, portfolio.ID, 0)

		err := svc.SellStock(context.Background(), userID, request.TradeRequest{
			Symbol: "AAPL", Shares: 10, Price: 200,
		})
		if !errors.Is(err, apperrors.ErrInsufficientShares) {
			t.Fatalf("Expected ErrInsufficientShares, got: %v", err)
		}

		var balance float64
		if err := db.QueryRow(`SELECT balance FROM cash_balances WHERE portfolio_id = ?`, portfolio.ID).Scan(&balance); err != nil {
			t.Fatalf("Failed to read cash balance: %v", err)
		}
		if balance != 0 {
			t.Errorf("Expected balance untouched after rejected sell, got %v", balance)
		}
	})

	t.Run("rejects selling a symbol that is not held", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockYahooClient())

		err := svc.SellStock(context.Background(), testutil.MakeID(), request.TradeRequest{
			Symbol: "AAPL", Shares: 1, Price: 200,
		})
		if !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Fatalf("Expected ErrHoldingNotFound, got: %v", err)
		}
	})
}

// TestPortfolioService_EditHolding tests manual position corrections.
//
// WHY: Edits overwrite rather than merge, never touch cash, and only appear
// in the ledger when the service is configured to log them.
func TestPortfolioService_EditHolding(t *testing.T) {
	t.Run("overwrites shares and average price without touching cash", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockYahooClient())
		userID := testutil.MakeID()

		portfolio := testutil.NewPortfolio().ForUser(userID).Build(t, db)
		testutil.NewHolding(portfolio.ID).WithSymbol("AAPL").WithShares(10).WithAvgPrice(100).Build(t, db)
		testutil.SetCash(t, db, portfolio.ID, 500)

		holding, err := svc.EditHolding(context.Background(), userID, request.EditHoldingRequest{
			Symbol: "AAPL", Shares: 25, AvgPrice: 80,
		})
		if err != nil {
			t.Fatalf("EditHolding() returned unexpected error: %v", err)
		}

		if holding.Shares != 25 || holding.AvgPrice != 80 {
			t.Errorf("Expected 25 shares @ 80, got %v @ %v", holding.Shares, holding.AvgPrice)
		}

		var balance float64
		if err := db.QueryRow(`SELECT balance FROM cash_balances WHERE portfolio_id = ?`, portfolio.ID).Scan(&balance); err != nil {
			t.Fatalf("Failed to read cash balance: %v", err)
		}
		if balance != 500 {
			t.Errorf("Expected cash untouched by edit, got %v", balance)
		}

		if n := testutil.CountRows(t, db, "transactions", portfolio.ID); n != 0 {
			t.Errorf("Expected no ledger entry with edit logging off, got %d", n)
		}
	})

	t.Run("appends a ledger entry when edit logging is enabled", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioServiceLoggingEdits(t, db, testutil.NewMockYahooClient())
		userID := testutil.MakeID()

		portfolio := testutil.NewPortfolio().ForUser(userID).Build(t, db)
		testutil.NewHolding(portfolio.ID).WithSymbol("AAPL").Build(t, db)

		if _, err := svc.EditHolding(context.Background(), userID, request.EditHoldingRequest{
			Symbol: "AAPL", Shares: 5, AvgPrice: 120,
		}); err != nil {
			t.Fatalf("EditHolding() returned unexpected error: %v", err)
		}

		if n := testutil.CountRows(t, db, "transactions", portfolio.ID); n != 1 {
			t.Errorf("Expected 1 ledger entry with edit logging on, got %d", n)
		}
	})

	t.Run("rejects editing a symbol that is not held", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockYahooClient())

		_, err := svc.EditHolding(context.Background(), testutil.MakeID(), request.EditHoldingRequest{
			Symbol: "AAPL", Shares: 5, AvgPrice: 120,
		})
		if !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Fatalf("Expected ErrHoldingNotFound, got: %v", err)
		}
	})
}

// TestPortfolioService_Cash tests deposits and withdrawals.
//
// WHY: The cash balance may never go negative, and every accepted movement
// must land in the ledger.
func TestPortfolioService_Cash(t *testing.T) {
	t.Run("deposit then withdraw round-trips the balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockYahooClient())
		userID := testutil.MakeID()

		deposited, err := svc.Deposit(context.Background(), userID, request.CashRequest{Amount: 1000})
		if err != nil {
			t.Fatalf("Deposit() returned unexpected error: %v", err)
		}
		if deposited.Balance != 1000 {
			t.Errorf("Expected balance 1000 after deposit, got %v", deposited.Balance)
		}

		withdrawn, err := svc.Withdraw(context.Background(), userID, request.CashRequest{Amount: 1000})
		if err != nil {
			t.Fatalf("Withdraw() returned unexpected error: %v", err)
		}
		if withdrawn.Balance != 0 {
			t.Errorf("Expected balance 0 after withdrawal, got %v", withdrawn.Balance)
		}

		transactions, err := svc.GetTransactions(context.Background(), userID)
		if err != nil {
			t.Fatalf("GetTransactions() returned unexpected error: %v", err)
		}
		if len(transactions) != 2 {
			t.Errorf("Expected 2 ledger entries, got %d", len(transactions))
		}
	})

	t.Run("rejects withdrawing more than the balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockYahooClient())
		userID := testutil.MakeID()

		if _, err := svc.Deposit(context.Background(), userID, request.CashRequest{Amount: 100}); err != nil {
			t.Fatalf("Deposit() returned unexpected error: %v", err)
		}

		_, err := svc.Withdraw(context.Background(), userID, request.CashRequest{Amount: 200})
		if !errors.Is(err, apperrors.ErrInsufficientFunds) {
			t.Fatalf("Expected ErrInsufficientFunds, got: %v", err)
		}

		view, err := svc.GetSnapshot(context.Background(), userID)
		if err != nil {
			t.Fatalf("GetSnapshot() returned unexpected error: %v", err)
		}
		if view.Cash.Balance != 100 {
			t.Errorf("Expected balance still 100 after rejected withdrawal, got %v", view.Cash.Balance)
		}
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockYahooClient())

		if _, err := svc.Deposit(context.Background(), testutil.MakeID(), request.CashRequest{Amount: -5}); !errors.Is(err, apperrors.ErrNegativeAmount) {
			t.Fatalf("Expected ErrNegativeAmount, got: %v", err)
		}
	})
}

// TestPortfolioService_GetTransactions tests ledger ordering.
//
// WHY: The ledger is append-only and served newest first so the dashboard can
// render recent activity without sorting client-side.
func TestPortfolioService_GetTransactions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockYahooClient())
	userID := testutil.MakeID()

	if _, err := svc.Deposit(context.Background(), userID, request.CashRequest{Amount: 1000, Description: "first"}); err != nil {
		t.Fatalf("Deposit() returned unexpected error: %v", err)
	}
	if _, err := svc.BuyStock(context.Background(), userID, request.TradeRequest{Symbol: "AAPL", Shares: 2, Price: 100}); err != nil {
		t.Fatalf("BuyStock() returned unexpected error: %v", err)
	}

	transactions, err := svc.GetTransactions(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetTransactions() returned unexpected error: %v", err)
	}

	if len(transactions) != 2 {
		t.Fatalf("Expected 2 ledger entries, got %d", len(transactions))
	}
	// Newest first: the buy came after the deposit.
	if transactions[0].Type != "buy" {
		t.Errorf("Expected newest entry first (buy), got %s", transactions[0].Type)
	}
	if transactions[1].Type != "deposit" {
		t.Errorf("Expected deposit last, got %s", transactions[1].Type)
	}
}

// TestPortfolioService_RemoveHolding tests outright removal.
func TestPortfolioService_RemoveHolding(t *testing.T) {
	t.Run("removes the holding without a ledger entry", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockYahooClient())
		userID := testutil.MakeID()

		portfolio := testutil.NewPortfolio().ForUser(userID).Build(t, db)
		testutil.NewHolding(portfolio.ID).WithSymbol("AAPL").Build(t, db)

		if err := svc.RemoveHolding(context.Background(), userID, "AAPL"); err != nil {
			t.Fatalf("RemoveHolding() returned unexpected error: %v", err)
		}

		if n := testutil.CountRows(t, db, "holdings", portfolio.ID); n != 0 {
			t.Errorf("Expected holding removed, got %d rows", n)
		}
		if n := testutil.CountRows(t, db, "transactions", portfolio.ID); n != 0 {
			t.Errorf("Expected no ledger entry for removal, got %d", n)
		}
	})

	t.Run("returns not found for an unknown symbol", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db, testutil.NewMockYahooClient())

		err := svc.RemoveHolding(context.Background(), testutil.MakeID(), "AAPL")
		if !errors.Is(err, apperrors.ErrHoldingNotFound) {
			t.Fatalf("Expected ErrHoldingNotFound, got: %v", err)
		}
	})
}

// TestPortfolioService_RefreshPrices tests the scheduled refresh sweep.
//
// WHY: The background job must update every distinct held symbol and skip
// failing symbols without aborting the sweep.
func TestPortfolioService_RefreshPrices(t *testing.T) {
	db := testutil.SetupTestDB(t)
	mock := testutil.NewMockYahooClient().
		WithSymbolPrices("AAPL", []float64{150, 160}).
		WithSymbolPrices("MSFT", []float64{290, 300}).
		WithSymbolError("FAIL", errors.New("boom"))
	svc := testutil.NewTestPortfolioService(t, db, mock)

	portfolio := testutil.NewPortfolio().Build(t, db)
	testutil.NewHolding(portfolio.ID).WithSymbol("AAPL").WithCurrentPrice(1).Build(t, db)
	testutil.NewHolding(portfolio.ID).WithSymbol("MSFT").WithCurrentPrice(1).Build(t, db)
	testutil.NewHolding(portfolio.ID).WithSymbol("FAIL").WithCurrentPrice(1).Build(t, db)

	updated, err := svc.RefreshPrices(context.Background())
	if err != nil {
		t.Fatalf("RefreshPrices() returned unexpected error: %v", err)
	}
	if updated != 2 {
		t.Errorf("Expected 2 symbols updated, got %d", updated)
	}

	var price float64
	if err := db.QueryRow(`SELECT current_price FROM holdings WHERE symbol = 'AAPL'`).Scan(&price); err != nil {
		t.Fatalf("Failed to read refreshed price: %v", err)
	}
	if price != 160 {
		t.Errorf("Expected AAPL refreshed to 160, got %v", price)
	}

	if err := db.QueryRow(`SELECT current_price FROM holdings WHERE symbol = 'FAIL'`).Scan(&price); err != nil {
		t.Fatalf("Failed to read price of failing symbol: %v", err)
	}
	if price != 1 {
		t.Errorf("Expected failing symbol to keep its stored price, got %v", price)
	}
}

package testutil

import (
	"database/sql"
	"testing"

	"github.com/finboard/finance-dashboard-backend/internal/model"
)

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	// Simple creation with defaults
//	portfolio := testutil.NewPortfolio().Build(t, db)
//
//	// Customized portfolio
//	portfolio := testutil.NewPortfolio().
//	    ForUser(userID).
//	    WithName("Custom Portfolio").
//	    Build(t, db)
type PortfolioBuilder struct {
	ID        string
	UserID    string
	Name      string
	IsPrimary bool
}

// NewPortfolio creates a PortfolioBuilder with sensible defaults.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:        MakeID(),
		UserID:    MakeID(),
		Name:      "My Portfolio",
		IsPrimary: true,
	}
}

// ForUser sets the owning user.
func (b *PortfolioBuilder) ForUser(userID string) *PortfolioBuilder {
	b.UserID = userID
	return b
}

// WithID sets a custom ID.
func (b *PortfolioBuilder) WithID(id string) *PortfolioBuilder {
	b.ID = id
	return b
}

// WithName sets a custom name.
func (b *PortfolioBuilder) WithName(name string) *PortfolioBuilder {
	b.Name = name
	return b
}

// Secondary marks the portfolio as non-primary.
func (b *PortfolioBuilder) Secondary() *PortfolioBuilder {
	b.IsPrimary = false
	return b
}

// Build creates the portfolio in the database and returns it.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	query := `
		INSERT INTO portfolios (id, user_id, name, is_primary)
		VALUES (?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.UserID, b.Name, b.IsPrimary)
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return model.Portfolio{
		ID:        b.ID,
		UserID:    b.UserID,
		Name:      b.Name,
		IsPrimary: b.IsPrimary,
	}
}

// HoldingBuilder provides a fluent interface for creating test holdings.
//
// Example usage:
//
//	holding := testutil.NewHolding(portfolio.ID).
//	    WithSymbol("AAPL").
//	    WithShares(10).
//	    WithAvgPrice(150).
//	    Build(t, db)
type HoldingBuilder struct {
	ID           string
	PortfolioID  string
	Symbol       string
	Name         string
	Shares       float64
	AvgPrice     float64
	CurrentPrice float64
}

// NewHolding creates a HoldingBuilder with sensible defaults.
func NewHolding(portfolioID string) *HoldingBuilder {
	return &HoldingBuilder{
		ID:           MakeID(),
		PortfolioID:  portfolioID,
		Symbol:       "AAPL",
		Name:         "Apple Inc.",
		Shares:       10,
		AvgPrice:     150,
		CurrentPrice: 150,
	}
}

// WithSymbol sets the ticker symbol.
func (b *HoldingBuilder) WithSymbol(symbol string) *HoldingBuilder {
	b.Symbol = symbol
	return b
}

// WithName sets the instrument name.
func (b *HoldingBuilder) WithName(name string) *HoldingBuilder {
	b.Name = name
	return b
}

// WithShares sets the share count.
func (b *HoldingBuilder) WithShares(shares float64) *HoldingBuilder {
	b.Shares = shares
	return b
}

// WithAvgPrice sets the average purchase price.
func (b *HoldingBuilder) WithAvgPrice(price float64) *HoldingBuilder {
	b.AvgPrice = price
	return b
}

// WithCurrentPrice sets the stored current price.
func (b *HoldingBuilder) WithCurrentPrice(price float64) *HoldingBuilder {
	b.CurrentPrice = price
	return b
}

// Build creates the holding in the database and returns it.
func (b *HoldingBuilder) Build(t *testing.T, db *sql.DB) model.Holding {
	t.Helper()

	query := `
		INSERT INTO holdings (id, portfolio_id, symbol, name, shares, avg_price, current_price)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.PortfolioID, b.Symbol, b.Name, b.Shares, b.AvgPrice, b.CurrentPrice)
	if err != nil {
		t.Fatalf("Failed to create test holding: %v", err)
	}

	return model.Holding{
		ID:           b.ID,
		PortfolioID:  b.PortfolioID,
		Symbol:       b.Symbol,
		Name:         b.Name,
		Shares:       b.Shares,
		AvgPrice:     b.AvgPrice,
		CurrentPrice: b.CurrentPrice,
	}
}

// Convenience functions

// SetCash writes the USD cash balance of a portfolio directly.
func SetCash(t *testing.T, db *sql.DB, portfolioID string, balance float64) {
	t.Helper()

	query := `
		INSERT INTO cash_balances (id, portfolio_id, balance, currency)
		VALUES (?, ?, ?, 'USD')
		ON CONFLICT(portfolio_id, currency) DO UPDATE SET balance = excluded.balance
	`
	if _, err := db.Exec(query, MakeID(), portfolioID, balance); err != nil {
		t.Fatalf("Failed to set test cash balance: %v", err)
	}
}

// CountRows returns the number of rows in a table matching the portfolio ID.
func CountRows(t *testing.T, db *sql.DB, table, portfolioID string) int {
	t.Helper()

	var count int
	//nolint:gosec // table names come from test code, not user input
	err := db.QueryRow(`SELECT COUNT(*) FROM `+table+` WHERE portfolio_id = ?`, portfolioID).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}
	return count
}

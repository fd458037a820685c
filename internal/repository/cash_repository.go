package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/finboard/finance-dashboard-backend/internal/database"
	"github.com/finboard/finance-dashboard-backend/internal/model"
)

// CashRepository provides data access methods for the cash_balances table.
// This design models a single USD balance per portfolio.
type CashRepository struct {
	db *sql.DB
}

// NewCashRepository creates a new CashRepository with the provided database connection.
func NewCashRepository(db *sql.DB) *CashRepository {
	return &CashRepository{db: db}
}

// Get retrieves the USD cash balance of a portfolio. A portfolio without a
// cash row reads as a zero balance.
func (s *CashRepository) Get(ctx context.Context, q database.DBTX, portfolioID string) (model.CashBalance, error) {
	query := `
		SELECT id, portfolio_id, balance, currency
		FROM cash_balances
		WHERE portfolio_id = ? AND currency = 'USD'
	`

	var c model.CashBalance

	err := q.QueryRowContext(ctx, query, portfolioID).Scan(
		&c.ID,
		&c.PortfolioID,
		&c.Balance,
		&c.Currency,
	)
	if err == sql.ErrNoRows {
		return model.CashBalance{PortfolioID: portfolioID, Currency: "USD"}, nil
	}
	if err != nil {
		return model.CashBalance{}, fmt.Errorf("failed to query cash_balances table: %w", err)
	}

	return c, nil
}

// Set writes the USD cash balance of a portfolio, upserting on
// (portfolio_id, currency) in one atomic statement.
func (s *CashRepository) Set(ctx context.Context, q database.DBTX, portfolioID string, balance float64) error {
	query := `
		INSERT INTO cash_balances (id, portfolio_id, balance, currency)
		VALUES (?, ?, ?, 'USD')
		ON CONFLICT(portfolio_id, currency) DO UPDATE SET
			balance = excluded.balance,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := q.ExecContext(ctx, query, uuid.New().String(), portfolioID, balance); err != nil {
		return fmt.Errorf("failed to set cash balance: %w", err)
	}

	return nil
}

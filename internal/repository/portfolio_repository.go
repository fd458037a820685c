package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/finboard/finance-dashboard-backend/internal/apperrors"
	"github.com/finboard/finance-dashboard-backend/internal/model"
)

// PortfolioRepository provides data access methods for the portfolios table and
// the snapshot read spanning holdings and cash.
type PortfolioRepository struct {
	db *sql.DB
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// GetOrCreatePrimary returns the user's primary portfolio, creating it together
// with a zero USD cash row when the user has none yet.
//
// Idempotency under concurrent first loads is enforced by the partial unique
// index on portfolios(user_id) WHERE is_primary: both inserts use ON CONFLICT
// DO NOTHING, so two simultaneous calls converge on the same row and the
// re-select after insertion always returns it.
func (s *PortfolioRepository) GetOrCreatePrimary(ctx context.Context, userID string) (model.Portfolio, error) {
	p, err := s.getPrimary(ctx, userID)
	if err == nil {
		return p, nil
	}
	if err != apperrors.ErrPortfolioNotFound {
		return model.Portfolio{}, err
	}

	portfolioID := uuid.New().String()

	insertPortfolio := `
		INSERT INTO portfolios (id, user_id, name, is_primary)
		VALUES (?, ?, ?, TRUE)
		ON CONFLICT(user_id) WHERE is_primary DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, insertPortfolio, portfolioID, userID, "My Portfolio"); err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to insert primary portfolio: %w", err)
	}

	// Re-select: under a concurrent create the insert above may have been the
	// losing no-op, in which case the winner's row is returned.
	p, err = s.getPrimary(ctx, userID)
	if err != nil {
		return model.Portfolio{}, err
	}

	insertCash := `
		INSERT INTO cash_balances (id, portfolio_id, balance, currency)
		VALUES (?, ?, 0, 'USD')
		ON CONFLICT(portfolio_id, currency) DO NOTHING
	`
	if _, err := s.db.ExecContext(ctx, insertCash, uuid.New().String(), p.ID); err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to insert default cash balance: %w", err)
	}

	return p, nil
}

func (s *PortfolioRepository) getPrimary(ctx context.Context, userID string) (model.Portfolio, error) {
	query := `
		SELECT id, user_id, name, is_primary
		FROM portfolios
		WHERE user_id = ? AND is_primary
	`

	var p model.Portfolio

	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&p.IsPrimary,
	)
	if err == sql.ErrNoRows {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to query portfolios table: %w", err)
	}

	return p, nil
}

// Snapshot reads the portfolio's cash balance and all holdings in one pass.
// A missing cash row reads as zero rather than an error.
func (s *PortfolioRepository) Snapshot(ctx context.Context, portfolioID string) (model.PortfolioSnapshot, error) {
	snapshot := model.PortfolioSnapshot{PortfolioID: portfolioID}

	cashQuery := `
		SELECT balance
		FROM cash_balances
		WHERE portfolio_id = ? AND currency = 'USD'
	`
	err := s.db.QueryRowContext(ctx, cashQuery, portfolioID).Scan(&snapshot.CashBalance)
	if err != nil && err != sql.ErrNoRows {
		return model.PortfolioSnapshot{}, fmt.Errorf("failed to query cash_balances table: %w", err)
	}

	holdingQuery := `
		SELECT id, portfolio_id, symbol, name, shares, avg_price, current_price
		FROM holdings
		WHERE portfolio_id = ?
		ORDER BY symbol ASC
	`

	rows, err := s.db.QueryContext(ctx, holdingQuery, portfolioID)
	if err != nil {
		return model.PortfolioSnapshot{}, fmt.Errorf("failed to query holdings table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}

	for rows.Next() {
		var h model.Holding

		err := rows.Scan(
			&h.ID,
			&h.PortfolioID,
			&h.Symbol,
			&h.Name,
			&h.Shares,
			&h.AvgPrice,
			&h.CurrentPrice,
		)
		if err != nil {
			return model.PortfolioSnapshot{}, fmt.Errorf("failed to scan holdings table results: %w", err)
		}

		holdings = append(holdings, h)
	}

	if err = rows.Err(); err != nil {
		return model.PortfolioSnapshot{}, fmt.Errorf("error iterating holdings table: %w", err)
	}

	snapshot.Holdings = holdings

	return snapshot, nil
}

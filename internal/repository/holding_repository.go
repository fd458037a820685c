package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/finboard/finance-dashboard-backend/internal/apperrors"
	"github.com/finboard/finance-dashboard-backend/internal/database"
	"github.com/finboard/finance-dashboard-backend/internal/model"
)

// HoldingRepository provides data access methods for the holdings table.
// Mutating methods accept a database.DBTX so the service layer can group them
// with cash and ledger writes in a single transaction.
type HoldingRepository struct {
	db *sql.DB
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// GetBySymbol retrieves one holding keyed by (portfolio, symbol).
func (s *HoldingRepository) GetBySymbol(ctx context.Context, q database.DBTX, portfolioID, symbol string) (model.Holding, error) {
	query := `
		SELECT id, portfolio_id, symbol, name, shares, avg_price, current_price
		FROM holdings
		WHERE portfolio_id = ? AND symbol = ?
	`

	var h model.Holding

	err := q.QueryRowContext(ctx, query, portfolioID, symbol).Scan(
		&h.ID,
		&h.PortfolioID,
		&h.Symbol,
		&h.Name,
		&h.Shares,
		&h.AvgPrice,
		&h.CurrentPrice,
	)
	if err == sql.ErrNoRows {
		return model.Holding{}, apperrors.ErrHoldingNotFound
	}
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to query holdings table: %w", err)
	}

	return h, nil
}

// Upsert inserts or replaces a holding keyed by (portfolio_id, symbol) in one
// atomic statement.
func (s *HoldingRepository) Upsert(ctx context.Context, q database.DBTX, h model.Holding) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}

	query := `
		INSERT INTO holdings (id, portfolio_id, symbol, name, shares, avg_price, current_price)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(portfolio_id, symbol) DO UPDATE SET
			name = excluded.name,
			shares = excluded.shares,
			avg_price = excluded.avg_price,
			current_price = excluded.current_price,
			updated_at = CURRENT_TIMESTAMP
	`

	_, err := q.ExecContext(ctx, query, h.ID, h.PortfolioID, h.Symbol, h.Name, h.Shares, h.AvgPrice, h.CurrentPrice)
	if err != nil {
		return fmt.Errorf("failed to upsert holding: %w", err)
	}

	return nil
}

// Delete removes a holding. Returns ErrHoldingNotFound when no row matched.
func (s *HoldingRepository) Delete(ctx context.Context, q database.DBTX, portfolioID, symbol string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM holdings WHERE portfolio_id = ? AND symbol = ?`, portfolioID, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrHoldingNotFound
	}

	return nil
}

// UpdateCurrentPrice records the latest quote for one symbol within one
// portfolio. Single-row update, last writer wins.
func (s *HoldingRepository) UpdateCurrentPrice(ctx context.Context, portfolioID, symbol string, price float64) error {
	query := `
		UPDATE holdings
		SET current_price = ?, updated_at = CURRENT_TIMESTAMP
		WHERE portfolio_id = ? AND symbol = ?
	`

	if _, err := s.db.ExecContext(ctx, query, price, portfolioID, symbol); err != nil {
		return fmt.Errorf("failed to update current price: %w", err)
	}

	return nil
}

// UpdateCurrentPriceBySymbol records the latest quote for a symbol across all
// portfolios holding it. Used by the background refresh job.
func (s *HoldingRepository) UpdateCurrentPriceBySymbol(ctx context.Context, symbol string, price float64) error {
	query := `
		UPDATE holdings
		SET current_price = ?, updated_at = CURRENT_TIMESTAMP
		WHERE symbol = ?
	`

	if _, err := s.db.ExecContext(ctx, query, price, symbol); err != nil {
		return fmt.Errorf("failed to update current price by symbol: %w", err)
	}

	return nil
}

// DistinctSymbols lists every symbol held in any portfolio.
func (s *HoldingRepository) DistinctSymbols(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT symbol FROM holdings ORDER BY symbol ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings table: %w", err)
	}
	defer rows.Close()

	symbols := []string{}

	for rows.Next() {
		var symbol string
		if err := rows.Scan(&symbol); err != nil {
			return nil, fmt.Errorf("failed to scan holdings table results: %w", err)
		}
		symbols = append(symbols, symbol)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings table: %w", err)
	}

	return symbols, nil
}

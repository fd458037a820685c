package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/finboard/finance-dashboard-backend/internal/database"
	"github.com/finboard/finance-dashboard-backend/internal/model"
)

// TransactionRepository provides data access methods for the transactions
// table. The ledger is append-only: rows are inserted once and never updated
// or deleted.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new TransactionRepository with the provided database connection.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Append inserts one ledger entry. The caller passes the same transaction
// handle used for the holdings/cash writes of the mutation so the entry
// commits atomically with them.
func (s *TransactionRepository) Append(ctx context.Context, q database.DBTX, t *model.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO transactions (id, portfolio_id, type, symbol, name, shares, price, amount, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := q.ExecContext(ctx, query,
		t.ID,
		t.PortfolioID,
		t.Type,
		nullIfEmpty(t.Symbol),
		nullIfEmpty(t.Name),
		nullIfZero(t.Shares),
		nullIfZero(t.Price),
		t.Amount,
		nullIfEmpty(t.Description),
		FormatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}

	return nil
}

// ListByPortfolio retrieves the ledger of a portfolio, most recent first.
func (s *TransactionRepository) ListByPortfolio(ctx context.Context, portfolioID string) ([]model.Transaction, error) {
	query := `
		SELECT id, portfolio_id, type, symbol, name, shares, price, amount, description, created_at
		FROM transactions
		WHERE portfolio_id = ?
		ORDER BY created_at DESC, rowid DESC
	`

	rows, err := s.db.QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions table: %w", err)
	}

	return transactions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFields(sc rowScanner) (model.Transaction, error) {
	var t model.Transaction
	var symbol, name, description sql.NullString
	var shares, price sql.NullFloat64
	var createdAtStr string

	err := sc.Scan(
		&t.ID,
		&t.PortfolioID,
		&t.Type,
		&symbol,
		&name,
		&shares,
		&price,
		&t.Amount,
		&description,
		&createdAtStr,
	)
	if err != nil {
		return model.Transaction{}, err
	}

	t.Symbol = symbol.String
	t.Name = name.String
	t.Shares = shares.Float64
	t.Price = price.Float64
	t.Description = description.String

	t.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return t, nil
}

func scanTransaction(rows *sql.Rows) (model.Transaction, error) {
	t, err := scanFields(rows)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan transactions table results: %w", err)
	}
	return t, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullIfZero(f float64) any {
	if f == 0 {
		return nil
	}
	return f
}

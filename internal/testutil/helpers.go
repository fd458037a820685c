package testutil

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"

	"github.com/finboard/finance-dashboard-backend/internal/repository"
	"github.com/finboard/finance-dashboard-backend/internal/secrets"
	"github.com/finboard/finance-dashboard-backend/internal/service"
	"github.com/finboard/finance-dashboard-backend/internal/yahoo"
)

// NewTestPortfolioService creates a PortfolioService wired to the given
// database and market client. Pass a MockYahooClient to avoid real API calls.
func NewTestPortfolioService(t *testing.T, db *sql.DB, market yahoo.Client) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		db,
		repository.NewPortfolioRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewCashRepository(db),
		repository.NewTransactionRepository(db),
		market,
		false,
	)
}

// NewTestPortfolioServiceLoggingEdits is NewTestPortfolioService with edit
// ledger entries enabled.
func NewTestPortfolioServiceLoggingEdits(t *testing.T, db *sql.DB, market yahoo.Client) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		db,
		repository.NewPortfolioRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewCashRepository(db),
		repository.NewTransactionRepository(db),
		market,
		true,
	)
}

// NewTestMarketService creates a MarketService over the given market client.
func NewTestMarketService(t *testing.T, market yahoo.Client) *service.MarketService {
	t.Helper()

	return service.NewMarketService(market)
}

// NewTestWatchlistService creates a WatchlistService wired to the given
// database and market client.
func NewTestWatchlistService(t *testing.T, db *sql.DB, market yahoo.Client) *service.WatchlistService {
	t.Helper()

	return service.NewWatchlistService(
		repository.NewWatchlistRepository(db),
		service.NewMarketService(market),
	)
}

// NewTestSettingsService creates a SettingsService with a fresh encryption
// key and the given environment fallback.
func NewTestSettingsService(t *testing.T, db *sql.DB, envKey string) *service.SettingsService {
	t.Helper()

	key, err := secrets.GenerateKey()
	if err != nil {
		t.Fatalf("Failed to generate test encryption key: %v", err)
	}
	encryptor, err := secrets.NewEncryptor(key)
	if err != nil {
		t.Fatalf("Failed to create test encryptor: %v", err)
	}

	return service.NewSettingsService(repository.NewSettingsRepository(db), encryptor, envKey)
}

// NewTestSystemService creates a SystemService over the given database.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

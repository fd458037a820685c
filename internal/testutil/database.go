package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // SQLite driver
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Every pooled connection to ":memory:" gets its own database, so pin the
	// pool to a single connection to keep all statements on one schema.
	db.SetMaxOpenConns(1)

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the production migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Portfolio table: one primary portfolio per user
		CREATE TABLE portfolios (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			name VARCHAR(100) NOT NULL,
			is_primary BOOLEAN DEFAULT FALSE NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE UNIQUE INDEX ux_portfolios_primary_per_user
			ON portfolios(user_id) WHERE is_primary;

		-- Holdings table: one row per instrument per portfolio
		CREATE TABLE holdings (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			portfolio_id VARCHAR(36) NOT NULL,
			symbol VARCHAR(10) NOT NULL,
			name VARCHAR(255) NOT NULL,
			shares FLOAT NOT NULL,
			avg_price FLOAT NOT NULL,
			current_price FLOAT DEFAULT 0 NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(portfolio_id) REFERENCES portfolios(id) ON DELETE CASCADE,
			CONSTRAINT unique_portfolio_symbol UNIQUE (portfolio_id, symbol)
		);

		-- Cash balances table: single USD row per portfolio
		CREATE TABLE cash_balances (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			portfolio_id VARCHAR(36) NOT NULL,
			balance FLOAT DEFAULT 0 NOT NULL,
			currency VARCHAR(3) DEFAULT 'USD' NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(portfolio_id) REFERENCES portfolios(id) ON DELETE CASCADE,
			CONSTRAINT unique_portfolio_currency UNIQUE (portfolio_id, currency)
		);

		-- Transactions table: append-only ledger
		CREATE TABLE transactions (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			portfolio_id VARCHAR(36) NOT NULL,
			type VARCHAR(10) NOT NULL,
			symbol VARCHAR(10),
			name VARCHAR(255),
			shares FLOAT,
			price FLOAT,
			amount FLOAT NOT NULL,
			description TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(portfolio_id) REFERENCES portfolios(id) ON DELETE CASCADE
		);

		CREATE INDEX ix_transactions_portfolio_id ON transactions(portfolio_id);
		CREATE INDEX ix_transactions_created_at ON transactions(created_at);
		CREATE INDEX ix_holdings_portfolio_id ON holdings(portfolio_id);
		CREATE INDEX ix_holdings_symbol ON holdings(symbol);

		-- Watchlists: one default per user
		CREATE TABLE watchlists (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			user_id VARCHAR(36) NOT NULL,
			name VARCHAR(100) NOT NULL,
			is_default BOOLEAN DEFAULT FALSE NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE UNIQUE INDEX ux_watchlists_default_per_user
			ON watchlists(user_id) WHERE is_default;

		CREATE TABLE watchlist_items (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			watchlist_id VARCHAR(36) NOT NULL,
			symbol VARCHAR(10) NOT NULL,
			name VARCHAR(255) NOT NULL,
			added_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(watchlist_id) REFERENCES watchlists(id) ON DELETE CASCADE,
			CONSTRAINT unique_watchlist_symbol UNIQUE (watchlist_id, symbol)
		);

		-- Application settings: key/value store
		CREATE TABLE app_settings (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			"key" VARCHAR(50) NOT NULL UNIQUE,
			value VARCHAR(500) NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := db.Exec(schema)
	return err
}

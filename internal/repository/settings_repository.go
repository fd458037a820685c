package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/finboard/finance-dashboard-backend/internal/apperrors"
)

// Setting keys used by the application.
const (
	SettingFinnhubAPIKey = "finnhub_api_key"
)

// SettingsRepository provides data access methods for the app_settings table.
// Values are opaque strings; secret values are encrypted by the caller before
// they reach this layer.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository with the provided database connection.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get retrieves the value stored under key.
func (s *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var value string

	err := s.db.QueryRowContext(ctx, `SELECT value FROM app_settings WHERE "key" = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", apperrors.ErrSettingNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query app_settings table: %w", err)
	}

	return value, nil
}

// Set stores value under key, replacing any existing value.
func (s *SettingsRepository) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO app_settings (id, "key", value)
		VALUES (?, ?, ?)
		ON CONFLICT("key") DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := s.db.ExecContext(ctx, query, uuid.New().String(), key, value); err != nil {
		return fmt.Errorf("failed to set setting: %w", err)
	}

	return nil
}

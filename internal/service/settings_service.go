package service

import (
	"context"
	"errors"

	"github.com/finboard/finance-dashboard-backend/internal/apperrors"
	"github.com/finboard/finance-dashboard-backend/internal/repository"
	"github.com/finboard/finance-dashboard-backend/internal/secrets"
)

// SettingsService manages application settings. Secret values such as the
// Finnhub API key are encrypted before they touch the settings table and
// decrypted on read.
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
	encryptor    *secrets.Encryptor

	// envFinnhubKey is the key from the environment, used as a fallback when
	// no key has been stored through the API.
	envFinnhubKey string
}

// NewSettingsService creates a new SettingsService with the provided
// repository, encryptor, and environment fallback key.
func NewSettingsService(settingsRepo *repository.SettingsRepository, encryptor *secrets.Encryptor, envFinnhubKey string) *SettingsService {
	return &SettingsService{
		settingsRepo:  settingsRepo,
		encryptor:     encryptor,
		envFinnhubKey: envFinnhubKey,
	}
}

// FinnhubKey returns the Finnhub API key: the stored, encrypted setting when
// present, otherwise the key from the environment. Satisfies
// finnhub.KeyProvider.
func (s *SettingsService) FinnhubKey(ctx context.Context) (string, error) {
	stored, err := s.settingsRepo.Get(ctx, repository.SettingFinnhubAPIKey)
	if errors.Is(err, apperrors.ErrSettingNotFound) {
		if s.envFinnhubKey == "" {
			return "", apperrors.ErrSettingNotFound
		}
		return s.envFinnhubKey, nil
	}
	if err != nil {
		return "", err
	}

	return s.encryptor.Decrypt(stored)
}

// SetFinnhubKey encrypts and stores the Finnhub API key.
func (s *SettingsService) SetFinnhubKey(ctx context.Context, key string) error {
	if key == "" {
		return apperrors.ErrEmptyID
	}

	encrypted, err := s.encryptor.Encrypt(key)
	if err != nil {
		return err
	}

	return s.settingsRepo.Set(ctx, repository.SettingFinnhubAPIKey, encrypted)
}

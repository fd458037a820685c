package service

import (
	"database/sql"
	"runtime"

	"github.com/finboard/finance-dashboard-backend/internal/database"
	"github.com/finboard/finance-dashboard-backend/internal/model"
	"github.com/finboard/finance-dashboard-backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{
		db: db,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion reports the running build.
func (s *SystemService) CheckVersion() model.VersionInfo {
	return model.VersionInfo{
		Version:   version.Version,
		GoVersion: runtime.Version(),
	}
}

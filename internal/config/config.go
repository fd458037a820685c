package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	CORS       CORSConfig
	MarketData MarketDataConfig
	Portfolio  PortfolioConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// MarketDataConfig holds market-data provider configuration.
type MarketDataConfig struct {
	// FinnhubAPIKey is used when no encrypted key is stored in app_settings.
	FinnhubAPIKey string
	// SecretKey is the base64 fernet key encrypting stored provider keys.
	SecretKey string
	// RequestTimeout bounds each outbound provider call.
	RequestTimeout time.Duration
	// RefreshSchedule is the cron spec for the background price refresh.
	RefreshSchedule string
}

// PortfolioConfig holds portfolio behaviour toggles.
type PortfolioConfig struct {
	// LogEditTransactions controls whether direct share/price edits append a
	// ledger entry. The legacy flows disagreed on this, so it is explicit.
	LogEditTransactions bool
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/finance_dashboard.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		MarketData: MarketDataConfig{
			FinnhubAPIKey:   getEnv("FINNHUB_API_KEY", ""),
			SecretKey:       getEnv("SETTINGS_SECRET_KEY", ""),
			RequestTimeout:  getEnvDuration("MARKETDATA_TIMEOUT", 10*time.Second),
			RefreshSchedule: getEnv("PRICE_REFRESH_SCHEDULE", "*/15 * * * *"),
		},
		Portfolio: PortfolioConfig{
			LogEditTransactions: getEnvBool("LOG_EDIT_TRANSACTIONS", false),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvBool parses a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvDuration parses a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

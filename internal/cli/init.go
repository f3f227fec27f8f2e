// Package cli consolidates the initialization shared by cmd/societypay
// and cmd/sync-worker.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"societypay/internal/config"
	applog "societypay/internal/log"
	"societypay/internal/storage"
)

// SetupLogger initializes structured logging from LOG_LEVEL and
// LOG_FORMAT and sets the result as the process default.
func SetupLogger(component string) *applog.Logger {
	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(os.Getenv("LOG_LEVEL")),
		Format:    os.Getenv("LOG_FORMAT"),
		Component: component,
	})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// OpenRepository opens the SQLite store with the configured pool
// bounds, exiting on failure since the process is useless without it.
func OpenRepository(cfg *config.Config, logger *applog.Logger) *storage.Repository {
	repo, err := storage.NewRepository(cfg.SQLiteDBPath, storage.Options{
		Timeout:  cfg.StoreTimeout,
		MaxConns: cfg.StoreMaxConns,
	})
	if err != nil {
		logger.Error("Failed to open payment store", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Payment store ready", "path", cfg.SQLiteDBPath)
	return repo
}

// Package cli provides common bootstrap utilities for the taxprep
// command: logger setup, optional .env loading, config validation and
// store initialization.
package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ftaisdeal/small-biz-tax-prep/internal/config"
	"github.com/ftaisdeal/small-biz-tax-prep/internal/log"
	"github.com/ftaisdeal/small-biz-tax-prep/internal/storage"
)

// LoadEnvFile loads the .env file for local development. Errors are
// ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger initializes structured logging at the configured level
// and installs it as the process default.
func SetupLogger(level string) *log.Logger {
	logger := log.New(log.Config{
		Level:     parseLevel(level),
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadAndValidateConfig loads configuration and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// InitSQLite opens the repository, running migrations on first use.
func InitSQLite(dbPath string) (*storage.SQLiteRepository, error) {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		return nil, fmt.Errorf("init sqlite store: %w", err)
	}
	return repo, nil
}

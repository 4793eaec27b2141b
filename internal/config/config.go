package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CSV column layouts. Two incompatible bank export shapes exist in the
// wild and cannot be told apart by column count alone, so the active
// layout is an explicit configuration choice, never inferred.
const (
	// LayoutStatement: date, payee, amount (3 columns) or
	// date, payee, debit, credit (4+ columns).
	LayoutStatement = "statement"
	// LayoutDetailed: posted date, reference, payee, address, amount
	// (5 columns).
	LayoutDetailed = "detailed"
)

// Tax year sources. The original behavior stamps every imported row
// with the calendar year at import time, which misfiles January
// imports of December transactions; deriving from the transaction
// date is offered as the corrected alternative.
const (
	TaxYearFromImportTime = "import-time"
	TaxYearFromDate       = "transaction-date"
)

type Config struct {
	// Database
	DBPath string

	// Import defaults
	AccountID     int
	CSVLayout     string
	TaxYearSource string

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		DBPath:        getEnv("TAXPREP_DB_PATH", "./data/taxprep.db"),
		AccountID:     getEnvInt("TAXPREP_ACCOUNT_ID", 1),
		CSVLayout:     getEnv("TAXPREP_CSV_LAYOUT", LayoutStatement),
		TaxYearSource: getEnv("TAXPREP_TAX_YEAR_SOURCE", TaxYearFromImportTime),
		LogLevel:      getEnv("TAXPREP_LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if c.DBPath == "" {
		errs = append(errs, "database path cannot be empty")
	} else {
		dir := filepath.Dir(c.DBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AccountID < 1 {
		errs = append(errs, fmt.Sprintf("invalid account id %d: must be at least 1", c.AccountID))
	}

	switch c.CSVLayout {
	case LayoutStatement, LayoutDetailed:
	default:
		errs = append(errs, fmt.Sprintf("invalid csv layout '%s': must be one of [%s %s]", c.CSVLayout, LayoutStatement, LayoutDetailed))
	}

	switch c.TaxYearSource {
	case TaxYearFromImportTime, TaxYearFromDate:
	default:
		errs = append(errs, fmt.Sprintf("invalid tax year source '%s': must be one of [%s %s]", c.TaxYearSource, TaxYearFromImportTime, TaxYearFromDate))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

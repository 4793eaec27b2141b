package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.AccountID != 1 {
		t.Fatalf("expected default account 1, got %d", cfg.AccountID)
	}
	if cfg.CSVLayout != LayoutStatement {
		t.Fatalf("expected default layout %q, got %q", LayoutStatement, cfg.CSVLayout)
	}
	if cfg.TaxYearSource != TaxYearFromImportTime {
		t.Fatalf("expected default tax year source %q, got %q", TaxYearFromImportTime, cfg.TaxYearSource)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TAXPREP_ACCOUNT_ID", "2")
	t.Setenv("TAXPREP_CSV_LAYOUT", LayoutDetailed)
	t.Setenv("TAXPREP_TAX_YEAR_SOURCE", TaxYearFromDate)

	cfg := Load()
	if cfg.AccountID != 2 || cfg.CSVLayout != LayoutDetailed || cfg.TaxYearSource != TaxYearFromDate {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	valid := &Config{
		DBPath:        filepath.Join(t.TempDir(), "taxprep.db"),
		AccountID:     1,
		CSVLayout:     LayoutStatement,
		TaxYearSource: TaxYearFromImportTime,
		LogLevel:      "info",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	bad := *valid
	bad.AccountID = 0
	bad.CSVLayout = "guess"
	bad.TaxYearSource = "never"
	err := bad.Validate()
	if err == nil {
		t.Fatal("expected validation failure")
	}
	// All problems reported at once.
	for _, want := range []string{"account id", "csv layout", "tax year source"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to mention %q, got: %v", want, err)
		}
	}
}

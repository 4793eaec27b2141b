package importer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDetectFormatByExtension(t *testing.T) {
	cases := []struct {
		path   string
		format Format
	}{
		{"export.qif", FormatQIF},
		{"export.QIF", FormatQIF},
		{"statement.csv", FormatCSV},
		{"statement.CSV", FormatCSV},
	}
	for _, tc := range cases {
		got, err := DetectFormat(tc.path, nil)
		if err != nil || got != tc.format {
			t.Fatalf("%q: expected %q, got %q (err=%v)", tc.path, tc.format, got, err)
		}
	}
}

func TestDetectFormatByContent(t *testing.T) {
	qif := []byte("!Type:Bank\nD1/15'24\n^\n")
	got, err := DetectFormat("download.txt", qif)
	if err != nil || got != FormatQIF {
		t.Fatalf("expected qif by content, got %q (err=%v)", got, err)
	}

	delimited := []byte("01/15/2024,Coffee Shop,-42.50\n")
	got, err = DetectFormat("download.txt", delimited)
	if err != nil || got != FormatCSV {
		t.Fatalf("expected csv by content, got %q (err=%v)", got, err)
	}
}

func TestDetectFormatUnknownIsFatal(t *testing.T) {
	_, err := DetectFormat("mystery.dat", []byte("no structure here\n"))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "export.qif")
	content := "!Type:Bank\nD1/15'24\nT-42.50\nPCoffee Shop\n^\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	txns, format, err := testImporter().ParseFile(path, statementOpts())
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if format != FormatQIF {
		t.Fatalf("expected qif format, got %q", format)
	}
	if len(txns) != 1 || txns[0].Payee != "Coffee Shop" {
		t.Fatalf("unexpected transactions: %+v", txns)
	}
}

func TestOptionsTaxYearFor(t *testing.T) {
	opts := Options{TaxYear: 2024}
	if got := opts.taxYearFor("2021-06-01"); got != 2024 {
		t.Fatalf("import-time policy should ignore the date, got %d", got)
	}

	opts.TaxYearFromDate = true
	if got := opts.taxYearFor("2021-06-01"); got != 2021 {
		t.Fatalf("date policy should use the date, got %d", got)
	}
	if got := opts.taxYearFor("garbage"); got != 2024 {
		t.Fatalf("date policy should fall back when the date is raw, got %d", got)
	}
}

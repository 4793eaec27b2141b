// Package importer turns bank export files (delimited CSV and QIF)
// into canonical transaction records.
package importer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ftaisdeal/small-biz-tax-prep/internal/config"
	"github.com/ftaisdeal/small-biz-tax-prep/internal/core"
	"github.com/ftaisdeal/small-biz-tax-prep/internal/log"
)

// Format identifies an import file format.
type Format string

const (
	FormatCSV Format = "csv"
	FormatQIF Format = "qif"
)

// ErrUnknownFormat is the one fatal error class of an import: a file
// whose format cannot be detected surfaces to the user instead of
// degrading row by row.
var ErrUnknownFormat = errors.New("unrecognized import file format")

// Options control how rows map to transactions.
type Options struct {
	// Layout selects the CSV column mapping (config.LayoutStatement
	// or config.LayoutDetailed). Ignored for QIF.
	Layout string
	// AccountID is assigned to CSV rows. QIF derives the account
	// from its !Type: header instead.
	AccountID int
	// TaxYear stamps imported rows when TaxYearFromDate is false.
	// Zero means the current calendar year at import time.
	TaxYear int
	// TaxYearFromDate derives the tax year from each transaction's
	// own date when it normalized, falling back to TaxYear.
	TaxYearFromDate bool
}

// taxYearFor resolves the tax year for a row with the given
// (already normalized, possibly pass-through) date.
func (o Options) taxYearFor(date string) int {
	if o.TaxYearFromDate {
		if year := core.YearOf(date); year != 0 {
			return year
		}
	}
	if o.TaxYear != 0 {
		return o.TaxYear
	}
	return time.Now().Year()
}

// Importer parses import files into transaction records.
type Importer struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Importer {
	return &Importer{
		logger: logger.WithComponent(log.ComponentImporter),
	}
}

// ParseFile reads and parses one import file, detecting its format
// from the extension or, failing that, the content.
func (i *Importer) ParseFile(path string, opts Options) ([]core.Transaction, Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read import file: %w", err)
	}

	format, err := DetectFormat(path, data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	i.logger.Debug("detected file format", log.FieldFile, path, log.FieldFormat, format)

	var txns []core.Transaction
	switch format {
	case FormatQIF:
		txns, err = i.ParseQIF(data, opts)
	default:
		txns, err = i.ParseCSV(data, opts)
	}
	if err != nil {
		return nil, format, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return txns, format, nil
}

// DetectFormat decides between CSV and QIF. The extension wins when
// recognized; otherwise the content is sniffed: QIF files open with a
// "!" directive, delimited files show a delimiter in their first line.
func DetectFormat(path string, data []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".qif":
		return FormatQIF, nil
	case ".csv":
		return FormatCSV, nil
	}

	line := firstLine(data)
	if strings.HasPrefix(line, "!") {
		return FormatQIF, nil
	}
	for _, cand := range delimiterCandidates {
		if strings.ContainsRune(line, cand) {
			return FormatCSV, nil
		}
	}
	return "", ErrUnknownFormat
}

func firstLine(data []byte) string {
	sample := data
	if len(sample) > sniffSample {
		sample = sample[:sniffSample]
	}
	for _, raw := range bytes.Split(sample, []byte("\n")) {
		line := strings.TrimSpace(string(raw))
		if line != "" {
			return line
		}
	}
	return ""
}

// DefaultOptions builds Options from configuration, stamping rows with
// the current calendar year unless the config derives it from the
// transaction date.
func DefaultOptions(cfg *config.Config) Options {
	return Options{
		Layout:          cfg.CSVLayout,
		AccountID:       cfg.AccountID,
		TaxYearFromDate: cfg.TaxYearSource == config.TaxYearFromDate,
	}
}

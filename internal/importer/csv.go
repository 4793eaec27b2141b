package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/ftaisdeal/small-biz-tax-prep/internal/config"
	"github.com/ftaisdeal/small-biz-tax-prep/internal/core"
	"github.com/ftaisdeal/small-biz-tax-prep/internal/log"
)

// headerTokens mark the first CSV row as a header when any cell equals
// one of them case-insensitively.
var headerTokens = []string{"date", "description", "amount", "payee"}

// sniffSample is how much of the file the delimiter sniffer inspects.
const sniffSample = 1024

var delimiterCandidates = []rune{',', ';', '\t', '|'}

// ParseCSV maps delimited rows to transactions.
//
// The delimiter is sniffed from the first kilobyte. The first row is
// skipped as a header only when it carries a recognized header token;
// otherwise it is data. Which columns mean what is decided by
// opts.Layout — the two observed bank export shapes are incompatible
// and cannot be told apart by column count when a row has four or more
// columns.
//
// Row-level problems (short rows, malformed amounts or dates) degrade
// per the lenient-parsing policy: logged, never fatal.
func (i *Importer) ParseCSV(data []byte, opts Options) ([]core.Transaction, error) {
	delimiter := sniffDelimiter(data)

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delimiter
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	start := 0
	if isHeaderRow(records[0]) {
		start = 1
	}

	txns := make([]core.Transaction, 0, len(records)-start)
	for n := start; n < len(records); n++ {
		txn, ok := i.csvRow(records[n], n, opts)
		if !ok {
			continue
		}
		txns = append(txns, txn)
	}

	i.logger.Info("csv parsed",
		log.FieldCount, len(txns),
		"rows", len(records),
		log.FieldLayout, opts.Layout)
	return txns, nil
}

// csvRow maps one record to a transaction, or reports ok=false when
// the row is too short for the active layout.
func (i *Importer) csvRow(rec []string, n int, opts Options) (core.Transaction, bool) {
	var dateRaw, payee, reference, address string
	var amount core.Money

	switch opts.Layout {
	case config.LayoutDetailed:
		// posted date, reference, payee, address, amount
		if len(rec) < 5 {
			i.logger.Debug("row too short for detailed layout, skipping", log.FieldRow, n)
			return core.Transaction{}, false
		}
		dateRaw = rec[0]
		reference = strings.TrimSpace(rec[1])
		payee = strings.TrimSpace(rec[2])
		address = strings.TrimSpace(rec[3])
		amount = i.parseAmount(rec[4], n)
	default:
		// date, payee, amount -- or date, payee, debit, credit
		if len(rec) < 3 {
			i.logger.Debug("row too short, skipping", log.FieldRow, n)
			return core.Transaction{}, false
		}
		dateRaw = rec[0]
		payee = strings.TrimSpace(rec[1])
		if len(rec) == 3 {
			amount = i.parseAmount(rec[2], n)
		} else {
			amount = core.CombineDebitCredit(rec[2], rec[3])
		}
	}

	date, ok := core.NormalizeDate(dateRaw)
	if !ok {
		i.logger.Warn("unrecognized date format, keeping raw value",
			log.FieldRow, n, log.FieldRawValue, date)
	}

	return core.Transaction{
		AccountID: opts.AccountID,
		Date:      date,
		Payee:     payee,
		Reference: reference,
		Address:   address,
		Amount:    amount,
		TaxYear:   opts.taxYearFor(date),
	}, true
}

func (i *Importer) parseAmount(raw string, n int) core.Money {
	amount, ok := core.ParseAmount(raw)
	if !ok {
		i.logger.Warn("malformed amount, defaulting to zero",
			log.FieldRow, n, log.FieldRawValue, strings.TrimSpace(raw))
	}
	return amount
}

// isHeaderRow reports whether any cell equals a header token.
func isHeaderRow(rec []string) bool {
	for _, cell := range rec {
		cell = strings.ToLower(strings.TrimSpace(cell))
		for _, token := range headerTokens {
			if cell == token {
				return true
			}
		}
	}
	return false
}

// sniffDelimiter picks the candidate delimiter occurring most often in
// the first line of the sample. Ties and absent candidates fall back
// to the comma.
func sniffDelimiter(data []byte) rune {
	sample := data
	if len(sample) > sniffSample {
		sample = sample[:sniffSample]
	}
	if idx := bytes.IndexByte(sample, '\n'); idx >= 0 {
		sample = sample[:idx]
	}

	best := ','
	bestCount := 0
	for _, cand := range delimiterCandidates {
		if count := bytes.Count(sample, []byte(string(cand))); count > bestCount {
			best = cand
			bestCount = count
		}
	}
	return best
}

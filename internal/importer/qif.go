package importer

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/ftaisdeal/small-biz-tax-prep/internal/core"
	"github.com/ftaisdeal/small-biz-tax-prep/internal/log"
)

// qifEntry accumulates the tagged fields of one QIF record.
type qifEntry struct {
	date      string
	amountRaw string
	reference string
	payee     string
	memo      string
	address   []string
	seen      bool
}

// ParseQIF walks QIF's line-tagged record format.
//
// A !Type: header sets the active account: Bank is the checking
// account, CCard the credit card. Any other kind deactivates the
// account, and every entry until the next recognized header is
// silently discarded. A line of "^" terminates the current entry,
// emitting it only when an account is active. An unterminated entry at
// end of file is never emitted.
func (i *Importer) ParseQIF(data []byte, opts Options) ([]core.Transaction, error) {
	var txns []core.Transaction
	account := core.AccountNone
	var entry qifEntry

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "!Type:") {
			kind := strings.TrimSpace(strings.TrimPrefix(line, "!Type:"))
			switch strings.ToLower(kind) {
			case "bank":
				account = core.AccountBank
			case "ccard":
				account = core.AccountCreditCard
			default:
				account = core.AccountNone
				i.logger.Warn("unrecognized qif account type, discarding entries",
					log.FieldRawValue, kind)
			}
			continue
		}

		if line == "^" {
			if entry.seen && account != core.AccountNone {
				txns = append(txns, i.qifTransaction(entry, account, opts))
			}
			entry = qifEntry{}
			continue
		}

		if len(line) < 2 {
			continue
		}
		value := strings.TrimSpace(line[1:])
		switch line[0] {
		case 'D':
			entry.date = value
		case 'T':
			entry.amountRaw = value
		case 'N':
			entry.reference = value
		case 'P':
			entry.payee = value
		case 'M':
			entry.memo = value
		case 'A':
			// QIF's multi-line address convention: repeated A lines
			// join with a single space.
			entry.address = append(entry.address, value)
		case 'C':
			// cleared status carries no ledger meaning here
		default:
			continue
		}
		entry.seen = true
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	i.logger.Info("qif parsed", log.FieldCount, len(txns))
	return txns, nil
}

func (i *Importer) qifTransaction(entry qifEntry, account int, opts Options) core.Transaction {
	date, ok := core.NormalizeQIFDate(entry.date)
	if !ok {
		i.logger.Warn("unrecognized qif date format, keeping raw value",
			log.FieldRawValue, date)
	}

	amountRaw := strings.ReplaceAll(entry.amountRaw, ",", "")
	amount, ok := core.ParseAmount(amountRaw)
	if !ok {
		i.logger.Warn("malformed qif amount, defaulting to zero",
			log.FieldRawValue, entry.amountRaw)
	}

	return core.Transaction{
		AccountID: account,
		Date:      date,
		Payee:     entry.payee,
		Reference: entry.reference,
		Address:   strings.Join(entry.address, " "),
		Amount:    amount,
		Note:      entry.memo,
		TaxYear:   opts.taxYearFor(date),
	}
}

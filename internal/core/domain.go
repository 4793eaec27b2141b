package core

import (
	"errors"
	"strings"
)

// Account identifiers. Accounts are not a rich entity; a small integer
// id is all the ledger tracks. QIF import derives the id from the
// !Type: header, CSV import takes it from configuration.
const (
	AccountNone       = 0
	AccountBank       = 1
	AccountCreditCard = 2
)

// CategoryIncome is the reserved category name whose assignments count
// as revenue. All other categories are expense buckets.
const CategoryIncome = "income"

// CategoryNone is the seeded catch-all bucket for expenses the user
// chose not to classify further.
const CategoryNone = "no category"

type (
	// Transaction is the canonical record produced by the importers
	// and persisted by the store. Date is an ISO YYYY-MM-DD string,
	// except when a raw date failed to normalize, in which case the
	// trimmed original is carried through unchanged.
	Transaction struct {
		ID        int64
		AccountID int
		Date      string
		Payee     string
		Reference string // optional
		Address   string // optional
		Amount    Money
		Note      string // optional
		TaxYear   int
	}

	// Category is static reference data seeded by migration. Names
	// are lowercase by convention.
	Category struct {
		ID   int64
		Name string
	}
)

var (
	ErrNoAccount   = errors.New("transaction has no account")
	ErrEmptyDate   = errors.New("transaction date is empty")
	ErrInvalidYear = errors.New("invalid tax year")
)

// Validate checks the fields an importer must always fill. Optional
// fields and a non-ISO pass-through date are acceptable here; the
// lenient parsing policy already logged those.
func (t Transaction) Validate() error {
	if t.AccountID <= 0 {
		return ErrNoAccount
	}
	if strings.TrimSpace(t.Date) == "" {
		return ErrEmptyDate
	}
	if t.TaxYear < 0 {
		return ErrInvalidYear
	}
	return nil
}

package core

import (
	"errors"
	"testing"
)

func TestTransactionValidate(t *testing.T) {
	valid := Transaction{
		AccountID: AccountBank,
		Date:      "2024-01-15",
		Payee:     "Coffee Shop",
		Amount:    Money{Cents: -4250},
		TaxYear:   2024,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid transaction rejected: %v", err)
	}

	noAccount := valid
	noAccount.AccountID = AccountNone
	if err := noAccount.Validate(); !errors.Is(err, ErrNoAccount) {
		t.Fatalf("expected ErrNoAccount, got %v", err)
	}

	noDate := valid
	noDate.Date = "   "
	if err := noDate.Validate(); !errors.Is(err, ErrEmptyDate) {
		t.Fatalf("expected ErrEmptyDate, got %v", err)
	}
}

func TestYearSummaryProfit(t *testing.T) {
	s := YearSummary{
		TaxYear:  2024,
		Revenue:  Money{Cents: 1000000},
		Expenses: Money{Cents: -250000},
	}
	if got := s.Profit(); got.Cents != 750000 {
		t.Fatalf("expected 750000, got %d", got.Cents)
	}
}

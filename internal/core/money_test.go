package core

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"$1,234.56", 123456, true},
		{"(1,234.56)", -123456, true},
		{"1234.56", 123456, true},
		{"-42.50", -4250, true},
		{"+42.50", 4250, true},
		{"($99.00)", -9900, true},
		{" 2.50 ", 250, true},
		{"0", 0, true},
		{"0.00", 0, true},
		{"1.005", 101, true}, // half-up rounding
		{"1.004", 100, true},
		{"$ 12", 1200, true},
		{"", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"$", 0, false},
		{"()", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseAmount(tc.in)
		if ok != tc.ok {
			t.Fatalf("%q: expected ok=%v, got %v", tc.in, tc.ok, ok)
		}
		if got.Cents != tc.cents {
			t.Fatalf("%q: expected %d cents, got %d", tc.in, tc.cents, got.Cents)
		}
	}
}

func TestParseAmountParensBeatSign(t *testing.T) {
	// A parenthesized amount is negative even if cleaning left no sign.
	got, ok := ParseAmount("($1,000.00)")
	if !ok || got.Cents != -100000 {
		t.Fatalf("expected -100000, got %d (ok=%v)", got.Cents, ok)
	}
}

func TestCombineDebitCredit(t *testing.T) {
	cases := []struct {
		debit, credit string
		cents         int64
	}{
		{"100.00", "", -10000},
		{"", "250.00", 25000},
		{"100.00", "250.00", 15000},
		{"", "", 0},
		{"bogus", "10.00", 1000}, // malformed debit degrades to zero
	}
	for _, tc := range cases {
		got := CombineDebitCredit(tc.debit, tc.credit)
		if got.Cents != tc.cents {
			t.Fatalf("debit=%q credit=%q: expected %d, got %d", tc.debit, tc.credit, tc.cents, got.Cents)
		}
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := []struct {
		cents int64
		out   string
	}{
		{123456, "$1,234.56"},
		{-123456, "($1,234.56)"},
		{0, "$0.00"},
		{5, "$0.05"},
		{100000000, "$1,000,000.00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).Format(); got != tc.out {
			t.Fatalf("%d: expected %q, got %q", tc.cents, tc.out, got)
		}
	}
}

func TestMoneyProfitArithmetic(t *testing.T) {
	revenue := Money{Cents: 500000}
	expenses := Money{Cents: -123400}
	if got := revenue.Add(expenses); got.Cents != 376600 {
		t.Fatalf("expected 376600, got %d", got.Cents)
	}
	if !expenses.IsDebit() || revenue.IsDebit() {
		t.Fatal("IsDebit misclassified amounts")
	}
}

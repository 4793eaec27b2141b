// Package core holds the domain types shared by the importers, the
// storage layer, and the reporting queries.
//
// This file contains money parsing and formatting. Amounts are kept as
// int64 cents so that aggregation sums exactly; floats only appear at
// the display boundary.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// Money is a signed currency amount in cents. Negative values are
// expenses/debits, positive values are income/credits.
type Money struct {
	Cents int64
}

// Add returns the sum of two amounts.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// IsDebit reports whether the amount is an expense.
func (m Money) IsDebit() bool {
	return m.Cents < 0
}

// Dollars returns the amount as a float64 for display purposes.
// Use cents for calculations.
func (m Money) Dollars() float64 {
	return float64(m.Cents) / 100.0
}

// Format renders the amount as a US currency string with thousands
// separators, e.g. 123456 -> "$1,234.56", -123456 -> "($1,234.56)".
func (m Money) Format() string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := cents / 100
	frac := cents % 100

	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	s := "$" + b.String() + "." + twoDigits(frac)
	if neg {
		return "(" + s + ")"
	}
	return s
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

// ParseAmount converts a free-text currency string into Money.
//
// Currency symbols, thousands separators, surrounding whitespace and
// parentheses are stripped. A string containing both "(" and ")" is
// negative regardless of any sign characters. A third decimal digit
// rounds half-up.
//
// Parsing is deliberately lenient: a string that does not clean up to a
// number yields Money{0} and ok=false so a multi-row import can log the
// field and keep going instead of aborting the batch.
func ParseAmount(raw string) (Money, bool) {
	parenNegative := strings.Contains(raw, "(") && strings.Contains(raw, ")")

	s := cleanAmount(raw)
	if s == "" || s == "." {
		return Money{}, false
	}

	sign := int64(1)
	switch s[0] {
	case '-':
		sign = -1
		s = s[1:]
	case '+':
		s = s[1:]
	}
	cents, ok := decimalCents(s)
	if !ok {
		return Money{}, false
	}
	if parenNegative {
		sign = -1
	}
	return Money{Cents: sign * cents}, true
}

// CombineDebitCredit computes credit - debit for CSV layouts that carry
// separate debit and credit columns. Blank cells count as zero;
// malformed cells degrade to zero like ParseAmount.
func CombineDebitCredit(debitRaw, creditRaw string) Money {
	var debit, credit Money
	if strings.TrimSpace(debitRaw) != "" {
		debit, _ = ParseAmount(debitRaw)
	}
	if strings.TrimSpace(creditRaw) != "" {
		credit, _ = ParseAmount(creditRaw)
	}
	return Money{Cents: credit.Cents - debit.Cents}
}

// cleanAmount strips currency symbols, thousands separators,
// whitespace and parentheses, keeping digits, sign and decimal point.
func cleanAmount(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r == '$' || r == ',' || r == '(' || r == ')':
		case unicode.IsSpace(r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// decimalCents parses an unsigned decimal string into cents with
// half-up rounding on the third decimal place.
func decimalCents(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, false
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, false
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, false
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, false
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, false
	}
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	return iv*100 + fracCents, true
}

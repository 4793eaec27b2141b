package core

// CategoryTotal is an expense amount aggregated by category name.
type CategoryTotal struct {
	Name   string
	Amount Money
}

// YearSummary is the Schedule C style rollup for one tax year.
// TaxYear 0 means all years (the legacy unscoped variant).
type YearSummary struct {
	TaxYear    int
	Revenue    Money // transactions assigned to the "income" category
	Expenses   Money // assigned transactions with negative amounts
	ByCategory []CategoryTotal
}

// Profit returns net profit or loss. Expenses are stored negative, so
// plain addition yields the net.
func (s YearSummary) Profit() Money {
	return s.Revenue.Add(s.Expenses)
}

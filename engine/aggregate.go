/*
aggregate.go - Per-month income and expense totals

PURPOSE:
  Sums everything that applies to one calendar month: incomes whose
  recurrence occurs in it, expenses due inside it, and credit-card
  invoices keyed to it.

KEY INSIGHT:
  Expenses and invoices are additive and independent sources. An
  expense and an invoice are never deduplicated against each other,
  even when they describe the same real-world bill; the planner owns
  that distinction, not the engine.

TOLERANCE:
  A record whose stored date does not parse is silently excluded from
  the sum. This keeps one malformed legacy row from poisoning every
  total that touches it.

SEE ALSO:
  - recurrence.go: which months an income occurs in
  - balance.go: folds monthly nets into the accumulated balance
*/
package engine

import "github.com/shopspring/decimal"

// MonthlyTotals is the aggregate for one calendar month.
type MonthlyTotals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
	Net      decimal.Decimal
}

// MonthlyIncome sums every active income occurring in the month.
func MonthlyIncome(incomes []Income, ym YearMonth) decimal.Decimal {
	total := decimal.Zero
	for _, inc := range incomes {
		if !inc.Active {
			continue
		}
		start, ok := parseDate(inc.StartDate)
		if !ok {
			continue
		}
		if inc.Recurrence.OccursIn(start, ym) {
			total = total.Add(inc.Amount)
		}
	}
	return total
}

// MonthlyExpenses sums expenses due inside the month plus invoices
// whose stored month key equals the month's canonical key.
func MonthlyExpenses(expenses []Expense, invoices []Invoice, ym YearMonth) decimal.Decimal {
	total := decimal.Zero
	for _, exp := range expenses {
		due, ok := parseDate(exp.DueDate)
		if !ok {
			continue
		}
		if ym.Contains(due) {
			total = total.Add(exp.Amount)
		}
	}
	key := ym.Key()
	for _, inv := range invoices {
		if inv.Month == key {
			total = total.Add(inv.AmountDue)
		}
	}
	return total
}

// TotalsFor computes the month's full aggregate.
func TotalsFor(s Snapshot, ym YearMonth) MonthlyTotals {
	income := MonthlyIncome(s.Incomes, ym)
	expenses := MonthlyExpenses(s.Expenses, s.Invoices, ym)
	return MonthlyTotals{
		Income:   income,
		Expenses: expenses,
		Net:      income.Sub(expenses),
	}
}

// MonthlyNet is income minus expenses for the month; may be negative.
func MonthlyNet(s Snapshot, ym YearMonth) decimal.Decimal {
	return TotalsFor(s, ym).Net
}

// TotalsByMonth computes aggregates for every month in the window,
// keyed by canonical month key.
func TotalsByMonth(s Snapshot, months []YearMonth) map[string]MonthlyTotals {
	out := make(map[string]MonthlyTotals, len(months))
	for _, ym := range months {
		out[ym.Key()] = TotalsFor(s, ym)
	}
	return out
}

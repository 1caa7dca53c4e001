package engine_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/plannerhq/finance-planner/engine"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func money(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func salary(amount int64, startDate string, r engine.Recurrence) engine.Income {
	return engine.Income{
		Description: "Salary",
		Type:        "fixed",
		Amount:      money(amount),
		StartDate:   startDate,
		Recurrence:  r,
		Active:      true,
	}
}

func bill(amount int64, dueDate string) engine.Expense {
	return engine.Expense{
		Description: "Utility bill",
		Category:    "Utilities",
		Amount:      money(amount),
		DueDate:     dueDate,
	}
}

func invoice(amount int64, month, dueDate string) engine.Invoice {
	return engine.Invoice{
		CardID:    "card-1",
		CardLabel: "Acme Bank - Platinum",
		Month:     month,
		AmountDue: money(amount),
		DueDate:   dueDate,
	}
}

func assertEqualDecimal(t *testing.T, want, got decimal.Decimal) {
	t.Helper()
	if !want.Equal(got) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

// =============================================================================
// MONTHLY INCOME
// =============================================================================

func TestMonthlyIncome_RecurringSalary(t *testing.T) {
	incomes := []engine.Income{
		salary(5000, "2024-01-01", engine.Recurrence{Kind: engine.RecurMonthly}),
	}
	assertEqualDecimal(t, money(5000), engine.MonthlyIncome(incomes, ym(2024, time.June)))
	assertEqualDecimal(t, money(0), engine.MonthlyIncome(incomes, ym(2023, time.December)))
}

func TestMonthlyIncome_SkipsInactive(t *testing.T) {
	inc := salary(5000, "2024-01-01", engine.Recurrence{Kind: engine.RecurMonthly})
	inc.Active = false

	assertEqualDecimal(t, money(0), engine.MonthlyIncome([]engine.Income{inc}, ym(2024, time.June)))
}

func TestMonthlyIncome_SkipsMalformedStartDate(t *testing.T) {
	// One broken row must not poison the rest of the sum.
	incomes := []engine.Income{
		salary(5000, "2024-01-01", engine.Recurrence{Kind: engine.RecurMonthly}),
		salary(700, "not-a-date", engine.Recurrence{Kind: engine.RecurMonthly}),
	}
	assertEqualDecimal(t, money(5000), engine.MonthlyIncome(incomes, ym(2024, time.June)))
}

func TestMonthlyIncome_MixedRecurrences(t *testing.T) {
	incomes := []engine.Income{
		salary(5000, "2024-01-01", engine.Recurrence{Kind: engine.RecurMonthly}),
		salary(1200, "2024-03-10", engine.Recurrence{Kind: engine.RecurOnce}),
		salary(300, "2024-02-01", engine.Recurrence{Kind: engine.RecurXMonths, Months: 2}),
	}

	tests := []struct {
		target engine.YearMonth
		want   int64
	}{
		{ym(2024, time.January), 5000},
		{ym(2024, time.February), 5300},
		{ym(2024, time.March), 6500},
		{ym(2024, time.April), 5000},
	}
	for _, tt := range tests {
		assertEqualDecimal(t, money(tt.want), engine.MonthlyIncome(incomes, tt.target))
	}
}

// =============================================================================
// MONTHLY EXPENSES
// =============================================================================

func TestMonthlyExpenses_MatchesDueDateMonth(t *testing.T) {
	expenses := []engine.Expense{
		bill(250, "2024-06-10"),
		bill(90, "2024-07-01"),
		bill(40, "garbage"),
	}
	assertEqualDecimal(t, money(250), engine.MonthlyExpenses(expenses, nil, ym(2024, time.June)))
}

func TestMonthlyExpenses_InvoiceIsAdditive(t *testing.T) {
	expenses := []engine.Expense{bill(250, "2024-06-10")}

	without := engine.MonthlyExpenses(expenses, nil, ym(2024, time.June))
	with := engine.MonthlyExpenses(expenses, []engine.Invoice{invoice(800, "2024-06", "2024-06-15")}, ym(2024, time.June))

	assertEqualDecimal(t, without.Add(money(800)), with)
}

func TestMonthlyExpenses_InvoiceMatchedByExactKey(t *testing.T) {
	invoices := []engine.Invoice{
		invoice(800, "2024-06", "2024-06-15"),
		invoice(100, "2024-6", "2024-06-15"), // non-canonical key never matches
	}
	assertEqualDecimal(t, money(800), engine.MonthlyExpenses(nil, invoices, ym(2024, time.June)))
}

// =============================================================================
// TOTALS
// =============================================================================

func TestTotalsFor_NetMayBeNegative(t *testing.T) {
	s := engine.Snapshot{
		Incomes:  []engine.Income{salary(1000, "2024-06-01", engine.Recurrence{Kind: engine.RecurOnce})},
		Expenses: []engine.Expense{bill(1500, "2024-06-20")},
	}

	totals := engine.TotalsFor(s, ym(2024, time.June))
	assertEqualDecimal(t, money(1000), totals.Income)
	assertEqualDecimal(t, money(1500), totals.Expenses)
	assertEqualDecimal(t, money(-500), totals.Net)
}

func TestTotalsByMonth_KeyedCanonically(t *testing.T) {
	s := engine.Snapshot{
		Incomes: []engine.Income{salary(5000, "2024-01-01", engine.Recurrence{Kind: engine.RecurMonthly})},
	}
	window := engine.MonthWindow(date(2024, time.January, 15), 1, 1)

	totals := engine.TotalsByMonth(s, window)
	if len(totals) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(totals))
	}
	assertEqualDecimal(t, money(0), totals["2023-12"].Income)
	assertEqualDecimal(t, money(5000), totals["2024-01"].Income)
	assertEqualDecimal(t, money(5000), totals["2024-02"].Income)
}

func TestTotalsFor_EmptySnapshotIsZero(t *testing.T) {
	totals := engine.TotalsFor(engine.Snapshot{}, ym(2024, time.June))
	assertEqualDecimal(t, money(0), totals.Income)
	assertEqualDecimal(t, money(0), totals.Expenses)
	assertEqualDecimal(t, money(0), totals.Net)
}

package engine_test

import (
	"testing"
	"time"

	"github.com/plannerhq/finance-planner/engine"
)

func adjustment(amount int64, day string, kind engine.AdjustmentKind) engine.Adjustment {
	return engine.Adjustment{
		Description: "Adjustment",
		Amount:      money(amount),
		Date:        day,
		Kind:        kind,
	}
}

func TestProjectBalance_PastMonthsOnlyInCurrentBalance(t *testing.T) {
	// GIVEN: 5000/month recurring since January 2024, nothing else
	// WHEN: projecting on 2024-06-15 with the default window
	// THEN: the current balance covers January through May only;
	//       June itself is part of the projection
	s := engine.Snapshot{
		Incomes: []engine.Income{salary(5000, "2024-01-01", engine.Recurrence{Kind: engine.RecurMonthly})},
	}
	today := date(2024, time.June, 15)

	got := engine.ProjectBalanceDefault(s, today)

	assertEqualDecimal(t, money(25000), got.Current)
	// Projection adds June 2024 through June 2025: 13 more months.
	assertEqualDecimal(t, money(25000+13*5000), got.Projected)
}

func TestProjectBalance_AdjustmentDatedTodayIsPast(t *testing.T) {
	s := engine.Snapshot{
		Adjustments: []engine.Adjustment{
			adjustment(1000, "2024-06-15", engine.AdjustmentContribution), // exactly today
			adjustment(400, "2024-06-16", engine.AdjustmentContribution),  // strictly after
		},
	}
	today := date(2024, time.June, 15)

	got := engine.ProjectBalanceDefault(s, today)

	assertEqualDecimal(t, money(1000), got.Current)
	assertEqualDecimal(t, money(1400), got.Projected)
}

func TestProjectBalance_AdjustmentSigns(t *testing.T) {
	s := engine.Snapshot{
		Adjustments: []engine.Adjustment{
			adjustment(1000, "2024-05-01", engine.AdjustmentContribution),
			adjustment(300, "2024-05-20", engine.AdjustmentExpense),
			adjustment(50, "2024-04-01", "mystery"), // unknown kind contributes nothing
		},
	}
	today := date(2024, time.June, 15)

	got := engine.ProjectBalanceDefault(s, today)
	assertEqualDecimal(t, money(700), got.Current)
	assertEqualDecimal(t, money(700), got.Projected)
}

func TestProjectBalance_MalformedAdjustmentDateSkipped(t *testing.T) {
	s := engine.Snapshot{
		Adjustments: []engine.Adjustment{
			adjustment(1000, "2024-05-01", engine.AdjustmentContribution),
			adjustment(999, "yesterday-ish", engine.AdjustmentContribution),
		},
	}

	got := engine.ProjectBalanceDefault(s, date(2024, time.June, 15))
	assertEqualDecimal(t, money(1000), got.Current)
}

func TestProjectBalance_EmptySnapshotIsZero(t *testing.T) {
	got := engine.ProjectBalanceDefault(engine.Snapshot{}, date(2024, time.June, 15))
	assertEqualDecimal(t, money(0), got.Current)
	assertEqualDecimal(t, money(0), got.Projected)
}

func TestProjectBalance_ZeroWidthWindowKeepsCurrentMonthInProjection(t *testing.T) {
	s := engine.Snapshot{
		Incomes: []engine.Income{salary(5000, "2024-06-01", engine.Recurrence{Kind: engine.RecurOnce})},
	}

	got := engine.ProjectBalance(s, date(2024, time.June, 15), 0, 0)
	assertEqualDecimal(t, money(0), got.Current)
	assertEqualDecimal(t, money(5000), got.Projected)
}

func TestProjectBalance_Idempotent(t *testing.T) {
	s := engine.Snapshot{
		Incomes:  []engine.Income{salary(5000, "2024-01-01", engine.Recurrence{Kind: engine.RecurMonthly})},
		Expenses: []engine.Expense{bill(1200, "2024-03-10")},
		Invoices: []engine.Invoice{invoice(800, "2024-05", "2024-05-12")},
		Adjustments: []engine.Adjustment{
			adjustment(1000, "2024-02-01", engine.AdjustmentContribution),
		},
	}
	today := date(2024, time.June, 15)

	first := engine.ProjectBalanceDefault(s, today)
	second := engine.ProjectBalanceDefault(s, today)

	assertEqualDecimal(t, first.Current, second.Current)
	assertEqualDecimal(t, first.Projected, second.Projected)
}

/*
Package engine provides the core cash-flow projection engine.

PURPOSE:
  This package contains the pure algorithms behind the finance planner:
  deciding whether a recurring income contributes to a calendar month,
  aggregating monthly income/expense totals, building due-soon alerts,
  and projecting the accumulated balance forward and backward in time.

KEY CONCEPTS IN THIS FILE (types.go):
  - Income/Expense/Invoice/Adjustment: plain record snapshots handed in
    by the storage collaborator
  - Dates as stored strings: records keep their persisted "2006-01-02"
    form and are parsed on use, so one malformed row degrades to a zero
    contribution instead of failing the whole computation

DESIGN PRINCIPLES:
  1. Purity: every function is a closed function of its inputs; the
     engine holds no state between calls and never mutates a record
  2. Precision: uses decimal.Decimal to avoid floating-point errors
  3. Degradation over failure: malformed rows are skipped, unknown
     recurrence kinds never occur, empty snapshots aggregate to zero

SEE ALSO:
  - calendar.go: month-index arithmetic and windows
  - recurrence.go: occurrence rules for recurring incomes
  - aggregate.go: per-month totals
  - balance.go: accumulated balance projection
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the persisted form of every calendar date crossing the
// storage boundary.
const DateLayout = "2006-01-02"

// parseDate parses a stored date string. The second return is false for
// malformed input; callers skip the record rather than fail.
func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// =============================================================================
// RECORD SNAPSHOTS - Read-only inputs from the storage collaborator
// =============================================================================

// Income is a registered income source. Recurrence decides which months
// it contributes to, anchored at StartDate.
type Income struct {
	ID          string
	Description string
	Type        string
	Amount      decimal.Decimal
	StartDate   string // "2006-01-02" as persisted
	Recurrence  Recurrence
	Active      bool
}

// Expense is a single bill due on one calendar date. Recurring expenses
// are materialized as independent records, one per installment.
type Expense struct {
	ID          string
	Description string
	Category    string
	Amount      decimal.Decimal
	DueDate     string // "2006-01-02" as persisted
	Paid        bool
}

// Invoice is one month's credit-card statement. Month is the stored
// "2006-01" key and must match the canonical month key exactly.
type Invoice struct {
	ID        string
	CardID    string
	CardLabel string // "Bank - Card", resolved by storage
	Month     string // "2006-01" as persisted
	AmountDue decimal.Decimal
	DueDate   string // "2006-01-02" as persisted
	Paid      bool
}

// AdjustmentKind determines the sign of a balance adjustment.
type AdjustmentKind string

const (
	AdjustmentContribution AdjustmentKind = "contribution" // adds to balance
	AdjustmentExpense      AdjustmentKind = "expense"      // draws from balance
)

// Adjustment is a one-off movement against the accumulated balance,
// outside the monthly income/expense flow.
type Adjustment struct {
	ID          string
	Description string
	Amount      decimal.Decimal // non-negative; sign carried by Kind
	Date        string          // "2006-01-02" as persisted
	Kind        AdjustmentKind
}

// Signed returns the adjustment's effect on the balance. Unknown kinds
// contribute nothing.
func (a Adjustment) Signed() decimal.Decimal {
	switch a.Kind {
	case AdjustmentContribution:
		return a.Amount
	case AdjustmentExpense:
		return a.Amount.Neg()
	default:
		return decimal.Zero
	}
}

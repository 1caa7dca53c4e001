package engine

// =============================================================================
// SNAPSHOT - One planner's records, passed by value into every call
// =============================================================================

// Snapshot carries the complete record set of one planner. The engine
// treats it as an immutable value: no function mutates a snapshot or
// retains a reference into it, so calling the same computation twice on
// an unchanged snapshot yields identical results.
type Snapshot struct {
	Incomes     []Income
	Expenses    []Expense
	Invoices    []Invoice
	Adjustments []Adjustment
}

// Clone returns a deep copy. Storage implementations use it to hand out
// snapshots without sharing ownership of their internal slices.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Incomes:     make([]Income, len(s.Incomes)),
		Expenses:    make([]Expense, len(s.Expenses)),
		Invoices:    make([]Invoice, len(s.Invoices)),
		Adjustments: make([]Adjustment, len(s.Adjustments)),
	}
	copy(out.Incomes, s.Incomes)
	copy(out.Expenses, s.Expenses)
	copy(out.Invoices, s.Invoices)
	copy(out.Adjustments, s.Adjustments)
	return out
}

/*
store.go - Persistence interface for planner records

PURPOSE:
  Defines the boundary between the projection engine and whatever holds
  the records. The engine itself never touches storage; it consumes the
  Snapshot a Store hands back and returns computed aggregates.

IMPLEMENTATIONS:
  - store/memory.go: in-memory, for tests and development
  - store/sqlite (top-level): production SQLite

SNAPSHOT CONTRACT:
  Snapshot must return a consistent, complete copy of one planner's
  records with no retained reference into store internals. Mutating a
  returned snapshot never affects the store.

SEE ALSO:
  - service.go: the consumer of this interface
*/
package planner

import (
	"context"
	"errors"

	"github.com/plannerhq/finance-planner/engine"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrPlannerNotFound is returned when a referenced planner doesn't exist.
	ErrPlannerNotFound = errors.New("planner not found")

	// ErrCardNotFound is returned when an invoice references a missing card.
	ErrCardNotFound = errors.New("credit card not found")

	// ErrRecordNotFound is returned when a delete or update targets a
	// record that doesn't exist under the given planner.
	ErrRecordNotFound = errors.New("record not found")

	// ErrMissingDescription is returned when a record is created without
	// a description.
	ErrMissingDescription = errors.New("description is required")
)

// IsNotFound reports whether the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPlannerNotFound) ||
		errors.Is(err, ErrCardNotFound) ||
		errors.Is(err, ErrRecordNotFound)
}

// =============================================================================
// STORE - Record persistence
// =============================================================================

// Store persists planner records. Implementations assign IDs on insert
// when the given record carries none, and return the stored form.
type Store interface {
	// Planners
	CreatePlanner(ctx context.Context, p Planner) (Planner, error)
	GetPlanner(ctx context.Context, id string) (Planner, error)
	ListPlanners(ctx context.Context) ([]Planner, error)

	// Incomes. ListIncomes returns active records only.
	AddIncome(ctx context.Context, plannerID string, inc engine.Income) (engine.Income, error)
	ListIncomes(ctx context.Context, plannerID string) ([]engine.Income, error)
	DeleteIncome(ctx context.Context, plannerID, incomeID string) error

	// Expenses
	AddExpense(ctx context.Context, plannerID string, exp engine.Expense) (engine.Expense, error)
	ListExpenses(ctx context.Context, plannerID string) ([]engine.Expense, error)
	DeleteExpense(ctx context.Context, plannerID, expenseID string) error
	SetExpensePaid(ctx context.Context, plannerID, expenseID string, paid bool) error

	// Credit cards and invoices. AddInvoice resolves the card's label
	// onto the stored invoice.
	AddCard(ctx context.Context, card CreditCard) (CreditCard, error)
	ListCards(ctx context.Context, plannerID string) ([]CreditCard, error)
	AddInvoice(ctx context.Context, cardID string, inv engine.Invoice) (engine.Invoice, error)
	ListInvoices(ctx context.Context, plannerID string) ([]engine.Invoice, error)
	DeleteInvoice(ctx context.Context, plannerID, invoiceID string) error
	SetInvoicePaid(ctx context.Context, plannerID, invoiceID string, paid bool) error

	// Balance adjustments
	AddAdjustment(ctx context.Context, plannerID string, adj engine.Adjustment) (engine.Adjustment, error)
	ListAdjustments(ctx context.Context, plannerID string) ([]engine.Adjustment, error)
	DeleteAdjustment(ctx context.Context, plannerID, adjustmentID string) error

	// Snapshot returns a consistent copy of the planner's full record
	// set for the engine.
	Snapshot(ctx context.Context, plannerID string) (engine.Snapshot, error)
}

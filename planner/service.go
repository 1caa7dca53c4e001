/*
service.go - Planner-facing operations over the projection engine

PURPOSE:
  The Service is what the API layer talks to. It validates records on
  the write path, loads snapshots from the Store, and runs the engine
  for the read path: dashboard KPIs, monthly series, due-soon alerts,
  balances, and expense composition.

EXPLICIT CONTEXT:
  Every operation takes the planner ID and the reference date ("today")
  as arguments. There is no ambient current-planner or clock state;
  the same call with the same inputs always produces the same result.

SEE ALSO:
  - store.go: the persistence boundary
  - engine: the pure computations this service orchestrates
*/
package planner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/plannerhq/finance-planner/engine"
)

// DefaultLookaheadDays is the due-soon alert window used by the
// dashboard.
const DefaultLookaheadDays = 5

// Service orchestrates validation, storage, and the engine.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// =============================================================================
// WRITE PATH - Validation before persistence
// =============================================================================

// CreatePlanner applies defaults and persists a new planner.
func (s *Service) CreatePlanner(ctx context.Context, p Planner) (Planner, error) {
	if p.Name == "" {
		return Planner{}, fmt.Errorf("%w: planner name", ErrMissingDescription)
	}
	if p.Type == "" {
		p.Type = TypePersonal
	}
	if p.AlertThreshold <= 0 {
		p.AlertThreshold = DefaultAlertThreshold
	}
	if p.Currency == "" {
		p.Currency = DefaultCurrency
	}
	return s.store.CreatePlanner(ctx, p)
}

// AddIncome validates and persists an income record. The record is
// active from creation.
func (s *Service) AddIncome(ctx context.Context, plannerID string, inc engine.Income) (engine.Income, error) {
	if inc.Description == "" {
		return engine.Income{}, ErrMissingDescription
	}
	if inc.Amount.IsNegative() {
		return engine.Income{}, fmt.Errorf("income %q: %w", inc.Description, engine.ErrNegativeAmount)
	}
	if _, err := time.Parse(engine.DateLayout, inc.StartDate); err != nil {
		return engine.Income{}, fmt.Errorf("income start date %q: %w", inc.StartDate, engine.ErrInvalidDate)
	}
	rec, err := engine.ParseRecurrence(string(inc.Recurrence.Kind), inc.Recurrence.Months)
	if err != nil {
		return engine.Income{}, err
	}
	inc.Recurrence = rec
	inc.Active = true
	return s.store.AddIncome(ctx, plannerID, inc)
}

// AddExpense validates and persists one installment.
func (s *Service) AddExpense(ctx context.Context, plannerID string, exp engine.Expense) (engine.Expense, error) {
	if exp.Description == "" {
		return engine.Expense{}, ErrMissingDescription
	}
	if exp.Amount.IsNegative() {
		return engine.Expense{}, fmt.Errorf("expense %q: %w", exp.Description, engine.ErrNegativeAmount)
	}
	if _, err := time.Parse(engine.DateLayout, exp.DueDate); err != nil {
		return engine.Expense{}, fmt.Errorf("expense due date %q: %w", exp.DueDate, engine.ErrInvalidDate)
	}
	return s.store.AddExpense(ctx, plannerID, exp)
}

// AddCard persists a credit card under the planner.
func (s *Service) AddCard(ctx context.Context, card CreditCard) (CreditCard, error) {
	if card.BankName == "" {
		return CreditCard{}, fmt.Errorf("%w: bank name", ErrMissingDescription)
	}
	return s.store.AddCard(ctx, card)
}

// AddInvoice validates and persists a credit-card invoice. The month
// key must already be canonical; a malformed key would otherwise never
// match any month and silently vanish from every total.
func (s *Service) AddInvoice(ctx context.Context, cardID string, inv engine.Invoice) (engine.Invoice, error) {
	if ym, err := engine.ParseMonthKey(inv.Month); err != nil {
		return engine.Invoice{}, fmt.Errorf("invoice month %q: %w", inv.Month, engine.ErrInvalidMonthKey)
	} else if ym.Key() != inv.Month {
		return engine.Invoice{}, fmt.Errorf("invoice month %q is not canonical: %w", inv.Month, engine.ErrInvalidMonthKey)
	}
	if inv.AmountDue.IsNegative() {
		return engine.Invoice{}, fmt.Errorf("invoice amount: %w", engine.ErrNegativeAmount)
	}
	if _, err := time.Parse(engine.DateLayout, inv.DueDate); err != nil {
		return engine.Invoice{}, fmt.Errorf("invoice due date %q: %w", inv.DueDate, engine.ErrInvalidDate)
	}
	return s.store.AddInvoice(ctx, cardID, inv)
}

// AddAdjustment validates and persists a balance adjustment.
func (s *Service) AddAdjustment(ctx context.Context, plannerID string, adj engine.Adjustment) (engine.Adjustment, error) {
	if adj.Description == "" {
		return engine.Adjustment{}, ErrMissingDescription
	}
	if adj.Amount.IsNegative() {
		return engine.Adjustment{}, fmt.Errorf("adjustment %q: %w", adj.Description, engine.ErrNegativeAmount)
	}
	if _, err := time.Parse(engine.DateLayout, adj.Date); err != nil {
		return engine.Adjustment{}, fmt.Errorf("adjustment date %q: %w", adj.Date, engine.ErrInvalidDate)
	}
	switch adj.Kind {
	case engine.AdjustmentContribution, engine.AdjustmentExpense:
	default:
		return engine.Adjustment{}, fmt.Errorf("adjustment kind %q: %w", adj.Kind, engine.ErrUnknownRecurrence)
	}
	return s.store.AddAdjustment(ctx, plannerID, adj)
}

// =============================================================================
// RECORD ACCESS - Thin pass-throughs to the store
// =============================================================================

func (s *Service) GetPlanner(ctx context.Context, id string) (Planner, error) {
	return s.store.GetPlanner(ctx, id)
}

func (s *Service) ListPlanners(ctx context.Context) ([]Planner, error) {
	return s.store.ListPlanners(ctx)
}

func (s *Service) ListIncomes(ctx context.Context, plannerID string) ([]engine.Income, error) {
	return s.store.ListIncomes(ctx, plannerID)
}

func (s *Service) DeleteIncome(ctx context.Context, plannerID, incomeID string) error {
	return s.store.DeleteIncome(ctx, plannerID, incomeID)
}

func (s *Service) ListExpenses(ctx context.Context, plannerID string) ([]engine.Expense, error) {
	return s.store.ListExpenses(ctx, plannerID)
}

func (s *Service) DeleteExpense(ctx context.Context, plannerID, expenseID string) error {
	return s.store.DeleteExpense(ctx, plannerID, expenseID)
}

func (s *Service) SetExpensePaid(ctx context.Context, plannerID, expenseID string, paid bool) error {
	return s.store.SetExpensePaid(ctx, plannerID, expenseID, paid)
}

func (s *Service) ListCards(ctx context.Context, plannerID string) ([]CreditCard, error) {
	return s.store.ListCards(ctx, plannerID)
}

func (s *Service) ListInvoices(ctx context.Context, plannerID string) ([]engine.Invoice, error) {
	return s.store.ListInvoices(ctx, plannerID)
}

func (s *Service) DeleteInvoice(ctx context.Context, plannerID, invoiceID string) error {
	return s.store.DeleteInvoice(ctx, plannerID, invoiceID)
}

func (s *Service) SetInvoicePaid(ctx context.Context, plannerID, invoiceID string, paid bool) error {
	return s.store.SetInvoicePaid(ctx, plannerID, invoiceID, paid)
}

func (s *Service) ListAdjustments(ctx context.Context, plannerID string) ([]engine.Adjustment, error) {
	return s.store.ListAdjustments(ctx, plannerID)
}

func (s *Service) DeleteAdjustment(ctx context.Context, plannerID, adjustmentID string) error {
	return s.store.DeleteAdjustment(ctx, plannerID, adjustmentID)
}

// =============================================================================
// READ PATH - Engine-backed aggregates
// =============================================================================

// MonthSummary is one month's totals with its canonical key.
type MonthSummary struct {
	Key    string
	Totals engine.MonthlyTotals
}

// Dashboard is the planner overview: previous/current/next month
// totals, deltas, threshold warning, balances, and due-soon alerts.
type Dashboard struct {
	Planner  Planner
	Previous MonthSummary
	Current  MonthSummary
	Next     MonthSummary

	// Percent change of the current month vs the previous one; nil
	// when the previous month's value is zero.
	IncomeDeltaPct  *float64
	ExpenseDeltaPct *float64

	// Current month expense-to-income ratio against the planner's
	// alert threshold.
	ExpenseRatio  float64
	OverThreshold bool

	Balance engine.BalanceSnapshot
	Alerts  []DueAlert
}

// Dashboard builds the overview for the month containing today.
func (s *Service) Dashboard(ctx context.Context, plannerID string, today time.Time) (Dashboard, error) {
	p, err := s.store.GetPlanner(ctx, plannerID)
	if err != nil {
		return Dashboard{}, err
	}
	snap, err := s.store.Snapshot(ctx, plannerID)
	if err != nil {
		return Dashboard{}, err
	}

	window := engine.MonthWindow(today, 1, 1)
	summaries := make([]MonthSummary, len(window))
	for i, ym := range window {
		summaries[i] = MonthSummary{Key: ym.Key(), Totals: engine.TotalsFor(snap, ym)}
	}
	prev, curr, next := summaries[0], summaries[1], summaries[2]

	ratio := 0.0
	if !curr.Totals.Income.IsZero() {
		ratio = curr.Totals.Expenses.Div(curr.Totals.Income).InexactFloat64()
	}

	return Dashboard{
		Planner:         p,
		Previous:        prev,
		Current:         curr,
		Next:            next,
		IncomeDeltaPct:  pctChange(prev.Totals.Income, curr.Totals.Income),
		ExpenseDeltaPct: pctChange(prev.Totals.Expenses, curr.Totals.Expenses),
		ExpenseRatio:    ratio,
		OverThreshold:   ratio > p.AlertThreshold,
		Balance:         engine.ProjectBalanceDefault(snap, today),
		Alerts:          annotateAlerts(engine.DueSoon(snap.Expenses, snap.Invoices, today, DefaultLookaheadDays), today),
	}, nil
}

func pctChange(prev, curr decimal.Decimal) *float64 {
	if prev.IsZero() {
		return nil
	}
	delta := curr.Sub(prev).Div(prev).Mul(decimal.NewFromInt(100)).InexactFloat64()
	return &delta
}

// MonthlySeries returns ordered per-month totals for charting, back
// months before today's month through forward months after.
func (s *Service) MonthlySeries(ctx context.Context, plannerID string, today time.Time, back, forward int) ([]MonthSummary, error) {
	snap, err := s.store.Snapshot(ctx, plannerID)
	if err != nil {
		return nil, err
	}
	window := engine.MonthWindow(today, back, forward)
	series := make([]MonthSummary, len(window))
	for i, ym := range window {
		series[i] = MonthSummary{Key: ym.Key(), Totals: engine.TotalsFor(snap, ym)}
	}
	return series, nil
}

// Balances projects the accumulated balance with the default window.
func (s *Service) Balances(ctx context.Context, plannerID string, today time.Time) (engine.BalanceSnapshot, error) {
	snap, err := s.store.Snapshot(ctx, plannerID)
	if err != nil {
		return engine.BalanceSnapshot{}, err
	}
	return engine.ProjectBalanceDefault(snap, today), nil
}

// =============================================================================
// DUE-SOON ALERTS - Engine alerts annotated for display
// =============================================================================

// DueAlert is an engine alert with a days-until-due annotation.
type DueAlert struct {
	engine.Alert
	DaysUntil int
	Status    string
}

// DueAlerts returns unpaid bills due within lookaheadDays of today.
func (s *Service) DueAlerts(ctx context.Context, plannerID string, today time.Time, lookaheadDays int) ([]DueAlert, error) {
	snap, err := s.store.Snapshot(ctx, plannerID)
	if err != nil {
		return nil, err
	}
	return annotateAlerts(engine.DueSoon(snap.Expenses, snap.Invoices, today, lookaheadDays), today), nil
}

func annotateAlerts(alerts []engine.Alert, today time.Time) []DueAlert {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	out := make([]DueAlert, len(alerts))
	for i, a := range alerts {
		days := int(a.DueDate.Sub(day).Hours() / 24)
		out[i] = DueAlert{Alert: a, DaysUntil: days, Status: dueStatus(days)}
	}
	return out
}

func dueStatus(days int) string {
	switch {
	case days < 0:
		return "overdue"
	case days == 0:
		return "due today"
	case days == 1:
		return "due tomorrow"
	default:
		return fmt.Sprintf("due in %d days", days)
	}
}

// =============================================================================
// EXPENSE COMPOSITION
// =============================================================================

// BreakdownSlice is one slice of the month's expense composition:
// expenses grouped by category, invoices grouped by card.
type BreakdownSlice struct {
	Kind   string // "expense" or "card"
	Label  string
	Amount decimal.Decimal
}

// CategoryBreakdown groups the month's expenses by category and its
// invoices by card label, sorted by label within each kind.
func (s *Service) CategoryBreakdown(ctx context.Context, plannerID string, ym engine.YearMonth) ([]BreakdownSlice, error) {
	snap, err := s.store.Snapshot(ctx, plannerID)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string]decimal.Decimal)
	for _, exp := range snap.Expenses {
		due, err := time.Parse(engine.DateLayout, exp.DueDate)
		if err != nil || !ym.Contains(due) {
			continue
		}
		byCategory[exp.Category] = byCategory[exp.Category].Add(exp.Amount)
	}

	byCard := make(map[string]decimal.Decimal)
	key := ym.Key()
	for _, inv := range snap.Invoices {
		if inv.Month != key {
			continue
		}
		byCard[inv.CardLabel] = byCard[inv.CardLabel].Add(inv.AmountDue)
	}

	slices := make([]BreakdownSlice, 0, len(byCategory)+len(byCard))
	for label, amount := range byCategory {
		slices = append(slices, BreakdownSlice{Kind: "expense", Label: label, Amount: amount})
	}
	for label, amount := range byCard {
		slices = append(slices, BreakdownSlice{Kind: "card", Label: label, Amount: amount})
	}
	sort.Slice(slices, func(i, j int) bool {
		if slices[i].Kind != slices[j].Kind {
			return slices[i].Kind < slices[j].Kind
		}
		return slices[i].Label < slices[j].Label
	})
	return slices, nil
}

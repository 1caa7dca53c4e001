// Package store provides planner.Store implementations.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/plannerhq/finance-planner/engine"
	"github.com/plannerhq/finance-planner/planner"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu          sync.RWMutex
	planners    map[string]planner.Planner
	incomes     map[string][]engine.Income
	expenses    map[string][]engine.Expense
	invoices    map[string][]engine.Invoice
	adjustments map[string][]engine.Adjustment
	cards       map[string][]planner.CreditCard
	cardOwner   map[string]string // card ID -> planner ID
}

func NewMemory() *Memory {
	return &Memory{
		planners:    make(map[string]planner.Planner),
		incomes:     make(map[string][]engine.Income),
		expenses:    make(map[string][]engine.Expense),
		invoices:    make(map[string][]engine.Invoice),
		adjustments: make(map[string][]engine.Adjustment),
		cards:       make(map[string][]planner.CreditCard),
		cardOwner:   make(map[string]string),
	}
}

var _ planner.Store = (*Memory)(nil)

// =============================================================================
// PLANNERS
// =============================================================================

func (m *Memory) CreatePlanner(_ context.Context, p planner.Planner) (planner.Planner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	m.planners[p.ID] = p
	return p, nil
}

func (m *Memory) GetPlanner(_ context.Context, id string) (planner.Planner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.planners[id]
	if !ok {
		return planner.Planner{}, planner.ErrPlannerNotFound
	}
	return p, nil
}

func (m *Memory) ListPlanners(_ context.Context) ([]planner.Planner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]planner.Planner, 0, len(m.planners))
	for _, p := range m.planners {
		out = append(out, p)
	}
	return out, nil
}

func (m *Memory) requirePlannerLocked(id string) error {
	if _, ok := m.planners[id]; !ok {
		return planner.ErrPlannerNotFound
	}
	return nil
}

// =============================================================================
// INCOMES
// =============================================================================

func (m *Memory) AddIncome(_ context.Context, plannerID string, inc engine.Income) (engine.Income, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requirePlannerLocked(plannerID); err != nil {
		return engine.Income{}, err
	}
	if inc.ID == "" {
		inc.ID = uuid.NewString()
	}
	m.incomes[plannerID] = append(m.incomes[plannerID], inc)
	return inc, nil
}

func (m *Memory) ListIncomes(_ context.Context, plannerID string) ([]engine.Income, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.requirePlannerLocked(plannerID); err != nil {
		return nil, err
	}
	var out []engine.Income
	for _, inc := range m.incomes[plannerID] {
		if inc.Active {
			out = append(out, inc)
		}
	}
	return out, nil
}

func (m *Memory) DeleteIncome(_ context.Context, plannerID, incomeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := m.incomes[plannerID]
	for i, inc := range records {
		if inc.ID == incomeID {
			m.incomes[plannerID] = append(records[:i:i], records[i+1:]...)
			return nil
		}
	}
	return planner.ErrRecordNotFound
}

// =============================================================================
// EXPENSES
// =============================================================================

func (m *Memory) AddExpense(_ context.Context, plannerID string, exp engine.Expense) (engine.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requirePlannerLocked(plannerID); err != nil {
		return engine.Expense{}, err
	}
	if exp.ID == "" {
		exp.ID = uuid.NewString()
	}
	m.expenses[plannerID] = append(m.expenses[plannerID], exp)
	return exp, nil
}

func (m *Memory) ListExpenses(_ context.Context, plannerID string) ([]engine.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.requirePlannerLocked(plannerID); err != nil {
		return nil, err
	}
	out := make([]engine.Expense, len(m.expenses[plannerID]))
	copy(out, m.expenses[plannerID])
	return out, nil
}

func (m *Memory) DeleteExpense(_ context.Context, plannerID, expenseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := m.expenses[plannerID]
	for i, exp := range records {
		if exp.ID == expenseID {
			m.expenses[plannerID] = append(records[:i:i], records[i+1:]...)
			return nil
		}
	}
	return planner.ErrRecordNotFound
}

func (m *Memory) SetExpensePaid(_ context.Context, plannerID, expenseID string, paid bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := m.expenses[plannerID]
	for i := range records {
		if records[i].ID == expenseID {
			records[i].Paid = paid
			return nil
		}
	}
	return planner.ErrRecordNotFound
}

// =============================================================================
// CARDS AND INVOICES
// =============================================================================

func (m *Memory) AddCard(_ context.Context, card planner.CreditCard) (planner.CreditCard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requirePlannerLocked(card.PlannerID); err != nil {
		return planner.CreditCard{}, err
	}
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	m.cards[card.PlannerID] = append(m.cards[card.PlannerID], card)
	m.cardOwner[card.ID] = card.PlannerID
	return card, nil
}

func (m *Memory) ListCards(_ context.Context, plannerID string) ([]planner.CreditCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.requirePlannerLocked(plannerID); err != nil {
		return nil, err
	}
	out := make([]planner.CreditCard, len(m.cards[plannerID]))
	copy(out, m.cards[plannerID])
	return out, nil
}

func (m *Memory) AddInvoice(_ context.Context, cardID string, inv engine.Invoice) (engine.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	plannerID, ok := m.cardOwner[cardID]
	if !ok {
		return engine.Invoice{}, planner.ErrCardNotFound
	}
	for _, card := range m.cards[plannerID] {
		if card.ID == cardID {
			inv.CardLabel = card.Label()
			break
		}
	}
	inv.CardID = cardID
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	m.invoices[plannerID] = append(m.invoices[plannerID], inv)
	return inv, nil
}

func (m *Memory) ListInvoices(_ context.Context, plannerID string) ([]engine.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.requirePlannerLocked(plannerID); err != nil {
		return nil, err
	}
	out := make([]engine.Invoice, len(m.invoices[plannerID]))
	copy(out, m.invoices[plannerID])
	return out, nil
}

func (m *Memory) DeleteInvoice(_ context.Context, plannerID, invoiceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := m.invoices[plannerID]
	for i, inv := range records {
		if inv.ID == invoiceID {
			m.invoices[plannerID] = append(records[:i:i], records[i+1:]...)
			return nil
		}
	}
	return planner.ErrRecordNotFound
}

func (m *Memory) SetInvoicePaid(_ context.Context, plannerID, invoiceID string, paid bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := m.invoices[plannerID]
	for i := range records {
		if records[i].ID == invoiceID {
			records[i].Paid = paid
			return nil
		}
	}
	return planner.ErrRecordNotFound
}

// =============================================================================
// ADJUSTMENTS
// =============================================================================

func (m *Memory) AddAdjustment(_ context.Context, plannerID string, adj engine.Adjustment) (engine.Adjustment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requirePlannerLocked(plannerID); err != nil {
		return engine.Adjustment{}, err
	}
	if adj.ID == "" {
		adj.ID = uuid.NewString()
	}
	m.adjustments[plannerID] = append(m.adjustments[plannerID], adj)
	return adj, nil
}

func (m *Memory) ListAdjustments(_ context.Context, plannerID string) ([]engine.Adjustment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.requirePlannerLocked(plannerID); err != nil {
		return nil, err
	}
	out := make([]engine.Adjustment, len(m.adjustments[plannerID]))
	copy(out, m.adjustments[plannerID])
	return out, nil
}

func (m *Memory) DeleteAdjustment(_ context.Context, plannerID, adjustmentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := m.adjustments[plannerID]
	for i, adj := range records {
		if adj.ID == adjustmentID {
			m.adjustments[plannerID] = append(records[:i:i], records[i+1:]...)
			return nil
		}
	}
	return planner.ErrRecordNotFound
}

// =============================================================================
// SNAPSHOT
// =============================================================================

// Snapshot copies the planner's full record set. Inactive incomes are
// excluded, matching ListIncomes.
func (m *Memory) Snapshot(_ context.Context, plannerID string) (engine.Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.requirePlannerLocked(plannerID); err != nil {
		return engine.Snapshot{}, err
	}

	snap := engine.Snapshot{
		Expenses:    m.expenses[plannerID],
		Invoices:    m.invoices[plannerID],
		Adjustments: m.adjustments[plannerID],
	}
	for _, inc := range m.incomes[plannerID] {
		if inc.Active {
			snap.Incomes = append(snap.Incomes, inc)
		}
	}
	return snap.Clone(), nil
}

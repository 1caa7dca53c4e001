/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

AMOUNTS:
  Monetary amounts cross the wire as decimal strings ("1234.56").
  JSON numbers are float64 to most clients, which is exactly the
  precision loss the decimal type exists to avoid.

VALIDATION:
  Validation is done in the service layer, not in DTOs. DTOs are pure
  data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - planner/service.go: The domain types these map to
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/plannerhq/finance-planner/engine"
	"github.com/plannerhq/finance-planner/planner"
)

// =============================================================================
// PLANNERS
// =============================================================================

// PlannerDTO represents a planner in API responses.
type PlannerDTO struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	AlertThreshold float64 `json:"alert_threshold"`
	Currency       string  `json:"currency"`
	CreatedAt      string  `json:"created_at,omitempty"`
}

// CreatePlannerRequest is the request to create a planner.
type CreatePlannerRequest struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	AlertThreshold float64 `json:"alert_threshold"`
	Currency       string  `json:"currency"`
}

func toPlannerDTO(p planner.Planner) PlannerDTO {
	return PlannerDTO{
		ID:             p.ID,
		Name:           p.Name,
		Type:           string(p.Type),
		AlertThreshold: p.AlertThreshold,
		Currency:       p.Currency,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}

// =============================================================================
// RECORDS
// =============================================================================

// IncomeDTO represents an income record.
type IncomeDTO struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Type        string `json:"type,omitempty"`
	Amount      string `json:"amount"`
	StartDate   string `json:"start_date"`
	Recurrence  string `json:"recurrence"`
	Months      int    `json:"months,omitempty"`
}

// CreateIncomeRequest is the request to add an income.
type CreateIncomeRequest struct {
	Description string `json:"description"`
	Type        string `json:"type"`
	Amount      string `json:"amount"`
	StartDate   string `json:"start_date"`
	Recurrence  string `json:"recurrence"`
	Months      int    `json:"months"`
}

func toIncomeDTO(inc engine.Income) IncomeDTO {
	return IncomeDTO{
		ID:          inc.ID,
		Description: inc.Description,
		Type:        inc.Type,
		Amount:      inc.Amount.String(),
		StartDate:   inc.StartDate,
		Recurrence:  string(inc.Recurrence.Kind),
		Months:      inc.Recurrence.Months,
	}
}

// ExpenseDTO represents an expense record.
type ExpenseDTO struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	Amount      string `json:"amount"`
	DueDate     string `json:"due_date"`
	Paid        bool   `json:"paid"`
}

// CreateExpenseRequest is the request to add an expense.
type CreateExpenseRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	DueDate     string `json:"due_date"`
	Paid        bool   `json:"paid"`
}

func toExpenseDTO(exp engine.Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:          exp.ID,
		Description: exp.Description,
		Category:    exp.Category,
		Amount:      exp.Amount.String(),
		DueDate:     exp.DueDate,
		Paid:        exp.Paid,
	}
}

// CardDTO represents a credit card.
type CardDTO struct {
	ID       string `json:"id"`
	BankName string `json:"bank_name"`
	CardName string `json:"card_name,omitempty"`
	Label    string `json:"label"`
}

// CreateCardRequest is the request to add a credit card.
type CreateCardRequest struct {
	BankName string `json:"bank_name"`
	CardName string `json:"card_name"`
}

func toCardDTO(c planner.CreditCard) CardDTO {
	return CardDTO{ID: c.ID, BankName: c.BankName, CardName: c.CardName, Label: c.Label()}
}

// InvoiceDTO represents a credit-card invoice.
type InvoiceDTO struct {
	ID        string `json:"id"`
	CardID    string `json:"card_id"`
	CardLabel string `json:"card_label"`
	Month     string `json:"month"`
	AmountDue string `json:"amount_due"`
	DueDate   string `json:"due_date"`
	Paid      bool   `json:"paid"`
}

// CreateInvoiceRequest is the request to add an invoice to a card.
type CreateInvoiceRequest struct {
	Month     string `json:"month"`
	AmountDue string `json:"amount_due"`
	DueDate   string `json:"due_date"`
	Paid      bool   `json:"paid"`
}

func toInvoiceDTO(inv engine.Invoice) InvoiceDTO {
	return InvoiceDTO{
		ID:        inv.ID,
		CardID:    inv.CardID,
		CardLabel: inv.CardLabel,
		Month:     inv.Month,
		AmountDue: inv.AmountDue.String(),
		DueDate:   inv.DueDate,
		Paid:      inv.Paid,
	}
}

// AdjustmentDTO represents a balance adjustment.
type AdjustmentDTO struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Kind        string `json:"kind"`
}

// CreateAdjustmentRequest is the request to add a balance adjustment.
type CreateAdjustmentRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
	Kind        string `json:"kind"`
}

func toAdjustmentDTO(adj engine.Adjustment) AdjustmentDTO {
	return AdjustmentDTO{
		ID:          adj.ID,
		Description: adj.Description,
		Amount:      adj.Amount.String(),
		Date:        adj.Date,
		Kind:        string(adj.Kind),
	}
}

// SetPaidRequest toggles the paid flag on an expense or invoice.
type SetPaidRequest struct {
	Paid bool `json:"paid"`
}

// =============================================================================
// AGGREGATES
// =============================================================================

// MonthSummaryDTO is one month's totals.
type MonthSummaryDTO struct {
	Month    string `json:"month"`
	Income   string `json:"income"`
	Expenses string `json:"expenses"`
	Net      string `json:"net"`
}

func toMonthSummaryDTO(ms planner.MonthSummary) MonthSummaryDTO {
	return MonthSummaryDTO{
		Month:    ms.Key,
		Income:   ms.Totals.Income.String(),
		Expenses: ms.Totals.Expenses.String(),
		Net:      ms.Totals.Net.String(),
	}
}

// BalanceDTO is the accumulated balance projection.
type BalanceDTO struct {
	Current   string `json:"current"`
	Projected string `json:"projected"`
}

func toBalanceDTO(b engine.BalanceSnapshot) BalanceDTO {
	return BalanceDTO{Current: b.Current.String(), Projected: b.Projected.String()}
}

// AlertDTO is one due-soon alert.
type AlertDTO struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	Amount      string `json:"amount"`
	DueDate     string `json:"due_date"`
	DaysUntil   int    `json:"days_until"`
	Status      string `json:"status"`
}

func toAlertDTO(a planner.DueAlert) AlertDTO {
	return AlertDTO{
		Kind:        string(a.Kind),
		Description: a.Description,
		Category:    a.Category,
		Amount:      a.Amount.String(),
		DueDate:     a.DueDate.Format(engine.DateLayout),
		DaysUntil:   a.DaysUntil,
		Status:      a.Status,
	}
}

// BreakdownSliceDTO is one slice of the expense composition.
type BreakdownSliceDTO struct {
	Kind   string `json:"kind"`
	Label  string `json:"label"`
	Amount string `json:"amount"`
}

// DashboardDTO is the planner overview response.
type DashboardDTO struct {
	Planner         PlannerDTO      `json:"planner"`
	Previous        MonthSummaryDTO `json:"previous"`
	Current         MonthSummaryDTO `json:"current"`
	Next            MonthSummaryDTO `json:"next"`
	IncomeDeltaPct  *float64        `json:"income_delta_pct"`
	ExpenseDeltaPct *float64        `json:"expense_delta_pct"`
	ExpenseRatio    float64         `json:"expense_ratio"`
	OverThreshold   bool            `json:"over_threshold"`
	Balance         BalanceDTO      `json:"balance"`
	Alerts          []AlertDTO      `json:"alerts"`
}

func toDashboardDTO(d planner.Dashboard) DashboardDTO {
	alerts := make([]AlertDTO, len(d.Alerts))
	for i, a := range d.Alerts {
		alerts[i] = toAlertDTO(a)
	}
	return DashboardDTO{
		Planner:         toPlannerDTO(d.Planner),
		Previous:        toMonthSummaryDTO(d.Previous),
		Current:         toMonthSummaryDTO(d.Current),
		Next:            toMonthSummaryDTO(d.Next),
		IncomeDeltaPct:  d.IncomeDeltaPct,
		ExpenseDeltaPct: d.ExpenseDeltaPct,
		ExpenseRatio:    d.ExpenseRatio,
		OverThreshold:   d.OverThreshold,
		Balance:         toBalanceDTO(d.Balance),
		Alerts:          alerts,
	}
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// parseAmountField parses a decimal amount from a request field.
func parseAmountField(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

/*
handlers.go - HTTP API handlers for the finance planner

PURPOSE:
  Exposes the planner service via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Planners:
    GET    /api/planners                     List planners
    POST   /api/planners                     Create planner
    GET    /api/planners/{id}                Get planner
    GET    /api/planners/{id}/dashboard      Overview KPIs + alerts
    GET    /api/planners/{id}/series         Monthly totals for charting
    GET    /api/planners/{id}/balances       Accumulated balance projection
    GET    /api/planners/{id}/alerts         Due-soon alerts
    GET    /api/planners/{id}/breakdown      Expense composition for a month

  Records:
    GET/POST     /api/planners/{id}/incomes
    DELETE       /api/planners/{id}/incomes/{incomeID}
    GET/POST     /api/planners/{id}/expenses
    DELETE       /api/planners/{id}/expenses/{expenseID}
    PUT          /api/planners/{id}/expenses/{expenseID}/paid
    GET/POST     /api/planners/{id}/cards
    POST         /api/cards/{cardID}/invoices
    GET          /api/planners/{id}/invoices
    DELETE       /api/planners/{id}/invoices/{invoiceID}
    PUT          /api/planners/{id}/invoices/{invoiceID}/paid
    GET/POST     /api/planners/{id}/adjustments
    DELETE       /api/planners/{id}/adjustments/{adjustmentID}

  Demo:
    POST   /api/demo                         Seed demo data

REFERENCE DATE:
  Read endpoints accept an optional ?as_of=YYYY-MM-DD query parameter
  overriding "today". Without it the server clock is used. This keeps
  every projection reproducible in tests and lets clients browse other
  dates.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/plannerhq/finance-planner/engine"
	"github.com/plannerhq/finance-planner/planner"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Service       *planner.Service
	Logger        *zap.Logger
	LookaheadDays int

	// now is the server clock; overridable in tests.
	now func() time.Time
}

// NewHandler creates a new handler over the given service.
func NewHandler(svc *planner.Service, logger *zap.Logger, lookaheadDays int) *Handler {
	if lookaheadDays <= 0 {
		lookaheadDays = planner.DefaultLookaheadDays
	}
	return &Handler{
		Service:       svc,
		Logger:        logger,
		LookaheadDays: lookaheadDays,
		now:           time.Now,
	}
}

// asOf resolves the reference date: ?as_of=YYYY-MM-DD or the server
// clock.
func (h *Handler) asOf(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return h.now(), nil
	}
	return time.Parse(engine.DateLayout, raw)
}

// =============================================================================
// PLANNER HANDLERS
// =============================================================================

// ListPlanners returns all planners.
func (h *Handler) ListPlanners(w http.ResponseWriter, r *http.Request) {
	planners, err := h.Service.ListPlanners(r.Context())
	if err != nil {
		h.writeDomainError(w, "Failed to list planners", err)
		return
	}
	dtos := make([]PlannerDTO, len(planners))
	for i, p := range planners {
		dtos[i] = toPlannerDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreatePlanner creates a planner.
func (h *Handler) CreatePlanner(w http.ResponseWriter, r *http.Request) {
	var req CreatePlannerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	p, err := h.Service.CreatePlanner(r.Context(), planner.Planner{
		Name:           req.Name,
		Type:           planner.PlannerType(req.Type),
		AlertThreshold: req.AlertThreshold,
		Currency:       req.Currency,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to create planner", err)
		return
	}
	h.Logger.Info("planner created", zap.String("planner_id", p.ID), zap.String("name", p.Name))
	writeJSON(w, http.StatusCreated, toPlannerDTO(p))
}

// GetPlanner returns one planner.
func (h *Handler) GetPlanner(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.GetPlanner(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to get planner", err)
		return
	}
	writeJSON(w, http.StatusOK, toPlannerDTO(p))
}

// =============================================================================
// INCOME HANDLERS
// =============================================================================

// ListIncomes returns the planner's active incomes.
func (h *Handler) ListIncomes(w http.ResponseWriter, r *http.Request) {
	incomes, err := h.Service.ListIncomes(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to list incomes", err)
		return
	}
	dtos := make([]IncomeDTO, len(incomes))
	for i, inc := range incomes {
		dtos[i] = toIncomeDTO(inc)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateIncome adds an income record.
func (h *Handler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	var req CreateIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := parseAmountField(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	inc, err := h.Service.AddIncome(r.Context(), chi.URLParam(r, "id"), engine.Income{
		Description: req.Description,
		Type:        req.Type,
		Amount:      amount,
		StartDate:   req.StartDate,
		Recurrence:  engine.Recurrence{Kind: engine.RecurrenceKind(req.Recurrence), Months: req.Months},
	})
	if err != nil {
		h.writeDomainError(w, "Failed to add income", err)
		return
	}
	writeJSON(w, http.StatusCreated, toIncomeDTO(inc))
}

// DeleteIncome deactivates an income record.
func (h *Handler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteIncome(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "incomeID"))
	if err != nil {
		h.writeDomainError(w, "Failed to delete income", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// EXPENSE HANDLERS
// =============================================================================

// ListExpenses returns the planner's expenses.
func (h *Handler) ListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := h.Service.ListExpenses(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to list expenses", err)
		return
	}
	dtos := make([]ExpenseDTO, len(expenses))
	for i, exp := range expenses {
		dtos[i] = toExpenseDTO(exp)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateExpense adds an expense.
func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req CreateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := parseAmountField(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	exp, err := h.Service.AddExpense(r.Context(), chi.URLParam(r, "id"), engine.Expense{
		Description: req.Description,
		Category:    req.Category,
		Amount:      amount,
		DueDate:     req.DueDate,
		Paid:        req.Paid,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to add expense", err)
		return
	}
	writeJSON(w, http.StatusCreated, toExpenseDTO(exp))
}

// DeleteExpense removes an expense.
func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteExpense(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "expenseID"))
	if err != nil {
		h.writeDomainError(w, "Failed to delete expense", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetExpensePaid toggles the paid flag on an expense.
func (h *Handler) SetExpensePaid(w http.ResponseWriter, r *http.Request) {
	var req SetPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	err := h.Service.SetExpensePaid(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "expenseID"), req.Paid)
	if err != nil {
		h.writeDomainError(w, "Failed to update expense", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CARD AND INVOICE HANDLERS
// =============================================================================

// ListCards returns the planner's credit cards.
func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards, err := h.Service.ListCards(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to list cards", err)
		return
	}
	dtos := make([]CardDTO, len(cards))
	for i, c := range cards {
		dtos[i] = toCardDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateCard adds a credit card.
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	card, err := h.Service.AddCard(r.Context(), planner.CreditCard{
		PlannerID: chi.URLParam(r, "id"),
		BankName:  req.BankName,
		CardName:  req.CardName,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to add card", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCardDTO(card))
}

// CreateInvoice adds an invoice to a card.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := parseAmountField(req.AmountDue)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	inv, err := h.Service.AddInvoice(r.Context(), chi.URLParam(r, "cardID"), engine.Invoice{
		Month:     req.Month,
		AmountDue: amount,
		DueDate:   req.DueDate,
		Paid:      req.Paid,
	})
	if err != nil {
		h.writeDomainError(w, "Failed to add invoice", err)
		return
	}
	writeJSON(w, http.StatusCreated, toInvoiceDTO(inv))
}

// ListInvoices returns the planner's invoices.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.Service.ListInvoices(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to list invoices", err)
		return
	}
	dtos := make([]InvoiceDTO, len(invoices))
	for i, inv := range invoices {
		dtos[i] = toInvoiceDTO(inv)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// DeleteInvoice removes an invoice.
func (h *Handler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteInvoice(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "invoiceID"))
	if err != nil {
		h.writeDomainError(w, "Failed to delete invoice", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetInvoicePaid toggles the paid flag on an invoice.
func (h *Handler) SetInvoicePaid(w http.ResponseWriter, r *http.Request) {
	var req SetPaidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	err := h.Service.SetInvoicePaid(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "invoiceID"), req.Paid)
	if err != nil {
		h.writeDomainError(w, "Failed to update invoice", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// ADJUSTMENT HANDLERS
// =============================================================================

// ListAdjustments returns the planner's balance adjustments.
func (h *Handler) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	adjustments, err := h.Service.ListAdjustments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, "Failed to list adjustments", err)
		return
	}
	dtos := make([]AdjustmentDTO, len(adjustments))
	for i, adj := range adjustments {
		dtos[i] = toAdjustmentDTO(adj)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateAdjustment adds a balance adjustment.
func (h *Handler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req CreateAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	amount, err := parseAmountField(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	adj, err := h.Service.AddAdjustment(r.Context(), chi.URLParam(r, "id"), engine.Adjustment{
		Description: req.Description,
		Amount:      amount,
		Date:        req.Date,
		Kind:        engine.AdjustmentKind(req.Kind),
	})
	if err != nil {
		h.writeDomainError(w, "Failed to add adjustment", err)
		return
	}
	writeJSON(w, http.StatusCreated, toAdjustmentDTO(adj))
}

// DeleteAdjustment removes an adjustment.
func (h *Handler) DeleteAdjustment(w http.ResponseWriter, r *http.Request) {
	err := h.Service.DeleteAdjustment(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "adjustmentID"))
	if err != nil {
		h.writeDomainError(w, "Failed to delete adjustment", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// READ-MODEL HANDLERS
// =============================================================================

// GetDashboard returns the planner overview.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	today, err := h.asOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date", err)
		return
	}
	dash, err := h.Service.Dashboard(r.Context(), chi.URLParam(r, "id"), today)
	if err != nil {
		h.writeDomainError(w, "Failed to build dashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, toDashboardDTO(dash))
}

// GetSeries returns monthly totals for charting.
// Query: ?back=N&forward=M (default 6 each).
func (h *Handler) GetSeries(w http.ResponseWriter, r *http.Request) {
	today, err := h.asOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date", err)
		return
	}
	back := queryInt(r, "back", 6)
	forward := queryInt(r, "forward", 6)

	series, err := h.Service.MonthlySeries(r.Context(), chi.URLParam(r, "id"), today, back, forward)
	if err != nil {
		h.writeDomainError(w, "Failed to build series", err)
		return
	}
	dtos := make([]MonthSummaryDTO, len(series))
	for i, ms := range series {
		dtos[i] = toMonthSummaryDTO(ms)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetBalances returns the accumulated balance projection.
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	today, err := h.asOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date", err)
		return
	}
	balance, err := h.Service.Balances(r.Context(), chi.URLParam(r, "id"), today)
	if err != nil {
		h.writeDomainError(w, "Failed to project balances", err)
		return
	}
	writeJSON(w, http.StatusOK, toBalanceDTO(balance))
}

// GetAlerts returns due-soon alerts.
// Query: ?days=N overrides the configured lookahead.
func (h *Handler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	today, err := h.asOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date", err)
		return
	}
	days := queryInt(r, "days", h.LookaheadDays)

	alerts, err := h.Service.DueAlerts(r.Context(), chi.URLParam(r, "id"), today, days)
	if err != nil {
		h.writeDomainError(w, "Failed to compute alerts", err)
		return
	}
	dtos := make([]AlertDTO, len(alerts))
	for i, a := range alerts {
		dtos[i] = toAlertDTO(a)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetBreakdown returns the expense composition for a month.
// Query: ?month=YYYY-MM (defaults to the as_of month).
func (h *Handler) GetBreakdown(w http.ResponseWriter, r *http.Request) {
	today, err := h.asOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date", err)
		return
	}
	ym := engine.MonthOf(today)
	if raw := r.URL.Query().Get("month"); raw != "" {
		ym, err = engine.ParseMonthKey(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid month key", err)
			return
		}
	}

	slices, err := h.Service.CategoryBreakdown(r.Context(), chi.URLParam(r, "id"), ym)
	if err != nil {
		h.writeDomainError(w, "Failed to compute breakdown", err)
		return
	}
	dtos := make([]BreakdownSliceDTO, len(slices))
	for i, s := range slices {
		dtos[i] = BreakdownSliceDTO{Kind: s.Kind, Label: s.Label, Amount: s.Amount.String()}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// DEMO
// =============================================================================

// LoadDemo seeds the store with demo data.
func (h *Handler) LoadDemo(w http.ResponseWriter, r *http.Request) {
	today, err := h.asOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid as_of date", err)
		return
	}
	p, err := planner.SeedDemo(r.Context(), h.Service, today)
	if err != nil {
		h.writeDomainError(w, "Failed to seed demo data", err)
		return
	}
	h.Logger.Info("demo data loaded", zap.String("planner_id", p.ID))
	writeJSON(w, http.StatusCreated, toPlannerDTO(p))
}

// =============================================================================
// HELPERS
// =============================================================================

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

// writeDomainError maps service errors to HTTP statuses.
func (h *Handler) writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case planner.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case engine.IsValidationError(err) || isInputError(err):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		h.Logger.Error(message, zap.Error(err))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func isInputError(err error) bool {
	return errors.Is(err, planner.ErrMissingDescription)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

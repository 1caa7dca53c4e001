package planner_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plannerhq/finance-planner/engine"
	"github.com/plannerhq/finance-planner/planner"
	"github.com/plannerhq/finance-planner/planner/store"
)

func newTestService(t *testing.T) (*planner.Service, planner.Planner) {
	t.Helper()
	svc := planner.NewService(store.NewMemory())
	p, err := svc.CreatePlanner(context.Background(), planner.Planner{Name: "Test Planner"})
	require.NoError(t, err)
	return svc, p
}

func dec(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// =============================================================================
// WRITE PATH
// =============================================================================

func TestCreatePlanner_AppliesDefaults(t *testing.T) {
	svc := planner.NewService(store.NewMemory())

	p, err := svc.CreatePlanner(context.Background(), planner.Planner{Name: "Household"})
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, planner.TypePersonal, p.Type)
	assert.Equal(t, planner.DefaultAlertThreshold, p.AlertThreshold)
	assert.Equal(t, planner.DefaultCurrency, p.Currency)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestCreatePlanner_RequiresName(t *testing.T) {
	svc := planner.NewService(store.NewMemory())

	_, err := svc.CreatePlanner(context.Background(), planner.Planner{})
	assert.ErrorIs(t, err, planner.ErrMissingDescription)
}

func TestAddIncome_Validation(t *testing.T) {
	svc, p := newTestService(t)
	ctx := context.Background()

	valid := engine.Income{
		Description: "Salary",
		Amount:      dec(5000),
		StartDate:   "2024-01-01",
		Recurrence:  engine.Recurrence{Kind: engine.RecurMonthly},
	}

	tests := []struct {
		name    string
		mutate  func(*engine.Income)
		wantErr error
	}{
		{"missing description", func(i *engine.Income) { i.Description = "" }, planner.ErrMissingDescription},
		{"negative amount", func(i *engine.Income) { i.Amount = dec(-1) }, engine.ErrNegativeAmount},
		{"malformed start date", func(i *engine.Income) { i.StartDate = "01/2024" }, engine.ErrInvalidDate},
		{"unknown recurrence", func(i *engine.Income) { i.Recurrence.Kind = "biweekly" }, engine.ErrUnknownRecurrence},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inc := valid
			tt.mutate(&inc)
			_, err := svc.AddIncome(ctx, p.ID, inc)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	inc, err := svc.AddIncome(ctx, p.ID, valid)
	require.NoError(t, err)
	assert.NotEmpty(t, inc.ID)
	assert.True(t, inc.Active, "new income starts active")
}

func TestAddIncome_UnknownPlanner(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AddIncome(context.Background(), "nope", engine.Income{
		Description: "Salary",
		Amount:      dec(1),
		StartDate:   "2024-01-01",
		Recurrence:  engine.Recurrence{Kind: engine.RecurOnce},
	})
	assert.True(t, planner.IsNotFound(err))
}

func TestAddInvoice_RejectsNonCanonicalMonth(t *testing.T) {
	svc, p := newTestService(t)
	ctx := context.Background()

	card, err := svc.AddCard(ctx, planner.CreditCard{PlannerID: p.ID, BankName: "Acme Bank", CardName: "Gold"})
	require.NoError(t, err)

	for _, month := range []string{"2024-6", "06-2024", "June 2024", ""} {
		_, err := svc.AddInvoice(ctx, card.ID, engine.Invoice{
			Month: month, AmountDue: dec(100), DueDate: "2024-06-10",
		})
		assert.ErrorIs(t, err, engine.ErrInvalidMonthKey, "month %q", month)
	}

	inv, err := svc.AddInvoice(ctx, card.ID, engine.Invoice{
		Month: "2024-06", AmountDue: dec(100), DueDate: "2024-06-10",
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Bank - Gold", inv.CardLabel)
}

func TestAddAdjustment_RejectsUnknownKind(t *testing.T) {
	svc, p := newTestService(t)

	_, err := svc.AddAdjustment(context.Background(), p.ID, engine.Adjustment{
		Description: "Mystery", Amount: dec(10), Date: "2024-06-01", Kind: "transfer",
	})
	assert.Error(t, err)
}

// =============================================================================
// DASHBOARD
// =============================================================================

func TestDashboard_KPIsAndThreshold(t *testing.T) {
	svc, p := newTestService(t)
	ctx := context.Background()
	today := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	// 5000/month income since January; expenses 2000 in May, 4500 in June.
	_, err := svc.AddIncome(ctx, p.ID, engine.Income{
		Description: "Salary", Amount: dec(5000), StartDate: "2024-01-01",
		Recurrence: engine.Recurrence{Kind: engine.RecurMonthly},
	})
	require.NoError(t, err)
	_, err = svc.AddExpense(ctx, p.ID, engine.Expense{
		Description: "Rent", Category: "Housing", Amount: dec(2000), DueDate: "2024-05-05",
	})
	require.NoError(t, err)
	_, err = svc.AddExpense(ctx, p.ID, engine.Expense{
		Description: "Rent + repairs", Category: "Housing", Amount: dec(4500), DueDate: "2024-06-05",
	})
	require.NoError(t, err)

	dash, err := svc.Dashboard(ctx, p.ID, today)
	require.NoError(t, err)

	assert.Equal(t, "2024-05", dash.Previous.Key)
	assert.Equal(t, "2024-06", dash.Current.Key)
	assert.Equal(t, "2024-07", dash.Next.Key)

	assert.True(t, dash.Current.Totals.Income.Equal(dec(5000)))
	assert.True(t, dash.Current.Totals.Expenses.Equal(dec(4500)))
	assert.True(t, dash.Current.Totals.Net.Equal(dec(500)))

	// Income flat month over month, expenses up 125%.
	require.NotNil(t, dash.IncomeDeltaPct)
	assert.InDelta(t, 0.0, *dash.IncomeDeltaPct, 1e-9)
	require.NotNil(t, dash.ExpenseDeltaPct)
	assert.InDelta(t, 125.0, *dash.ExpenseDeltaPct, 1e-9)

	// 4500/5000 = 0.9 > default 0.8 threshold.
	assert.InDelta(t, 0.9, dash.ExpenseRatio, 1e-9)
	assert.True(t, dash.OverThreshold)
}

func TestDashboard_DeltaNilWhenPreviousZero(t *testing.T) {
	svc, p := newTestService(t)
	ctx := context.Background()
	today := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	// Income starts this month; previous month has none.
	_, err := svc.AddIncome(ctx, p.ID, engine.Income{
		Description: "Salary", Amount: dec(5000), StartDate: "2024-06-01",
		Recurrence: engine.Recurrence{Kind: engine.RecurMonthly},
	})
	require.NoError(t, err)

	dash, err := svc.Dashboard(ctx, p.ID, today)
	require.NoError(t, err)

	assert.Nil(t, dash.IncomeDeltaPct)
	assert.Nil(t, dash.ExpenseDeltaPct)
	assert.False(t, dash.OverThreshold)
}

func TestDashboard_UnknownPlanner(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Dashboard(context.Background(), "ghost", time.Now())
	assert.ErrorIs(t, err, planner.ErrPlannerNotFound)
}

// =============================================================================
// ALERTS
// =============================================================================

func TestDueAlerts_StatusAnnotation(t *testing.T) {
	svc, p := newTestService(t)
	ctx := context.Background()
	today := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	bills := []struct {
		desc string
		due  string
	}{
		{"Water", "2024-06-15"},
		{"Internet", "2024-06-16"},
		{"Electricity", "2024-06-18"},
	}
	for _, b := range bills {
		_, err := svc.AddExpense(ctx, p.ID, engine.Expense{
			Description: b.desc, Category: "Utilities", Amount: dec(100), DueDate: b.due,
		})
		require.NoError(t, err)
	}

	alerts, err := svc.DueAlerts(ctx, p.ID, today, 5)
	require.NoError(t, err)
	require.Len(t, alerts, 3)

	assert.Equal(t, "Water", alerts[0].Description)
	assert.Equal(t, 0, alerts[0].DaysUntil)
	assert.Equal(t, "due today", alerts[0].Status)

	assert.Equal(t, "Internet", alerts[1].Description)
	assert.Equal(t, "due tomorrow", alerts[1].Status)

	assert.Equal(t, "Electricity", alerts[2].Description)
	assert.Equal(t, 3, alerts[2].DaysUntil)
	assert.Equal(t, "due in 3 days", alerts[2].Status)
}

func TestDueAlerts_IncludesUnpaidInvoices(t *testing.T) {
	svc, p := newTestService(t)
	ctx := context.Background()
	today := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	card, err := svc.AddCard(ctx, planner.CreditCard{PlannerID: p.ID, BankName: "Acme Bank", CardName: "Platinum"})
	require.NoError(t, err)
	_, err = svc.AddInvoice(ctx, card.ID, engine.Invoice{
		Month: "2024-06", AmountDue: dec(900), DueDate: "2024-06-17",
	})
	require.NoError(t, err)

	alerts, err := svc.DueAlerts(ctx, p.ID, today, 5)
	require.NoError(t, err)
	require.Len(t, alerts, 1)

	assert.Equal(t, engine.AlertInvoice, alerts[0].Kind)
	assert.Equal(t, "Acme Bank - Platinum (2024-06)", alerts[0].Description)
	assert.Equal(t, "due in 2 days", alerts[0].Status)
}

// =============================================================================
// BREAKDOWN
// =============================================================================

func TestCategoryBreakdown_GroupsAndSorts(t *testing.T) {
	svc, p := newTestService(t)
	ctx := context.Background()

	for _, e := range []engine.Expense{
		{Description: "Rent", Category: "Housing", Amount: dec(2000), DueDate: "2024-06-05"},
		{Description: "Repairs", Category: "Housing", Amount: dec(300), DueDate: "2024-06-20"},
		{Description: "Groceries", Category: "Food", Amount: dec(600), DueDate: "2024-06-10"},
		{Description: "Rent", Category: "Housing", Amount: dec(2000), DueDate: "2024-07-05"}, // next month, excluded
	} {
		_, err := svc.AddExpense(ctx, p.ID, e)
		require.NoError(t, err)
	}

	card, err := svc.AddCard(ctx, planner.CreditCard{PlannerID: p.ID, BankName: "Acme Bank", CardName: "Platinum"})
	require.NoError(t, err)
	_, err = svc.AddInvoice(ctx, card.ID, engine.Invoice{Month: "2024-06", AmountDue: dec(900), DueDate: "2024-06-12"})
	require.NoError(t, err)

	slices, err := svc.CategoryBreakdown(ctx, p.ID, engine.YearMonth{Year: 2024, Month: time.June})
	require.NoError(t, err)
	require.Len(t, slices, 3)

	// Cards sort before expense categories, then labels alphabetically.
	assert.Equal(t, "card", slices[0].Kind)
	assert.Equal(t, "Acme Bank - Platinum", slices[0].Label)
	assert.True(t, slices[0].Amount.Equal(dec(900)))

	assert.Equal(t, "expense", slices[1].Kind)
	assert.Equal(t, "Food", slices[1].Label)
	assert.True(t, slices[1].Amount.Equal(dec(600)))

	assert.Equal(t, "Housing", slices[2].Label)
	assert.True(t, slices[2].Amount.Equal(dec(2300)), "July rent excluded")
}

// =============================================================================
// DEMO SEED
// =============================================================================

func TestSeedDemo_DashboardIsPopulated(t *testing.T) {
	svc := planner.NewService(store.NewMemory())
	ctx := context.Background()
	today := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	p, err := planner.SeedDemo(ctx, svc, today)
	require.NoError(t, err)
	assert.Equal(t, planner.DemoPlannerName, p.Name)

	dash, err := svc.Dashboard(ctx, p.ID, today)
	require.NoError(t, err)

	assert.True(t, dash.Current.Totals.Income.IsPositive())
	assert.True(t, dash.Current.Totals.Expenses.IsPositive())
	assert.NotEmpty(t, dash.Alerts, "demo data includes bills due within the lookahead")
	assert.True(t, dash.Balance.Projected.IsPositive())
}

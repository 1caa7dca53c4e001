/*
demo.go - Demo data loader for development and demonstrations

PURPOSE:

	Seeds a store with a realistic personal planner: a salary, a few
	installment purchases, a credit card with invoices, and savings
	adjustments. All dates are derived from the reference date so the
	dashboard always has something in the previous, current, and next
	month no matter when the demo is loaded.

NOTE:

	Only use in development/demo environments.

SEE ALSO:
  - cmd/server: the -demo flag wires this in at startup
*/
package planner

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/plannerhq/finance-planner/engine"
)

// DemoPlannerName identifies the seeded planner.
const DemoPlannerName = "Demo Household"

// SeedDemo populates the store with a demo planner anchored at today
// and returns it. Safe to call on a fresh store only; it does not reset
// existing data.
func SeedDemo(ctx context.Context, svc *Service, today time.Time) (Planner, error) {
	p, err := svc.CreatePlanner(ctx, Planner{
		Name: DemoPlannerName,
		Type: TypePersonal,
	})
	if err != nil {
		return Planner{}, err
	}

	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	day := func(months, dayOfMonth int) string {
		d := engine.ShiftMonths(monthStart, months)
		return time.Date(d.Year(), d.Month(), dayOfMonth, 0, 0, 0, 0, time.UTC).Format(engine.DateLayout)
	}

	incomes := []engine.Income{
		{
			Description: "Salary",
			Type:        "salary",
			Amount:      decimal.NewFromInt(6500),
			StartDate:   day(-6, 1),
			Recurrence:  engine.Recurrence{Kind: engine.RecurMonthly},
		},
		{
			Description: "Freelance project",
			Type:        "extra",
			Amount:      decimal.NewFromInt(1200),
			StartDate:   day(-1, 15),
			Recurrence:  engine.Recurrence{Kind: engine.RecurXMonths, Months: 3},
		},
		{
			Description: "Tax refund",
			Type:        "extra",
			Amount:      decimal.NewFromInt(850),
			StartDate:   day(0, 20),
			Recurrence:  engine.Recurrence{Kind: engine.RecurOnce},
		},
	}
	for _, inc := range incomes {
		if _, err := svc.AddIncome(ctx, p.ID, inc); err != nil {
			return Planner{}, err
		}
	}

	expenses := []engine.Expense{
		{Description: "Rent", Category: "Housing", Amount: decimal.NewFromInt(2200), DueDate: day(0, 5), Paid: true},
		{Description: "Rent", Category: "Housing", Amount: decimal.NewFromInt(2200), DueDate: day(1, 5)},
		{Description: "Electricity", Category: "Utilities", Amount: decimal.NewFromInt(140), DueDate: day(0, today.Day()+3)},
		{Description: "Internet", Category: "Utilities", Amount: decimal.NewFromInt(80), DueDate: day(0, today.Day()+1)},
		{Description: "Car insurance", Category: "Transport", Amount: decimal.NewFromInt(310), DueDate: day(-1, 12), Paid: true},
		{Description: "Gym", Category: "Health", Amount: decimal.NewFromInt(60), DueDate: day(0, 28)},
	}
	for _, exp := range expenses {
		if _, err := svc.AddExpense(ctx, p.ID, exp); err != nil {
			return Planner{}, err
		}
	}

	card, err := svc.AddCard(ctx, CreditCard{
		PlannerID: p.ID,
		BankName:  "Acme Bank",
		CardName:  "Platinum",
	})
	if err != nil {
		return Planner{}, err
	}

	invoices := []engine.Invoice{
		{Month: engine.MonthOf(engine.ShiftMonths(monthStart, -1)).Key(), AmountDue: decimal.NewFromInt(940), DueDate: day(-1, 10), Paid: true},
		{Month: engine.MonthOf(monthStart).Key(), AmountDue: decimal.NewFromInt(1180), DueDate: day(0, today.Day()+2)},
		{Month: engine.MonthOf(engine.ShiftMonths(monthStart, 1)).Key(), AmountDue: decimal.NewFromInt(670), DueDate: day(1, 10)},
	}
	for _, inv := range invoices {
		if _, err := svc.AddInvoice(ctx, card.ID, inv); err != nil {
			return Planner{}, err
		}
	}

	adjustments := []engine.Adjustment{
		{Description: "Emergency fund top-up", Amount: decimal.NewFromInt(2000), Date: day(-4, 3), Kind: engine.AdjustmentContribution},
		{Description: "Laptop repair", Amount: decimal.NewFromInt(450), Date: day(-2, 18), Kind: engine.AdjustmentExpense},
	}
	for _, adj := range adjustments {
		if _, err := svc.AddAdjustment(ctx, p.ID, adj); err != nil {
			return Planner{}, err
		}
	}

	return p, nil
}

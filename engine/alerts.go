package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DUE-SOON ALERTS - Unpaid bills inside a lookahead window
// =============================================================================

// AlertKind identifies the source of a due-soon alert.
type AlertKind string

const (
	AlertExpense AlertKind = "expense"
	AlertInvoice AlertKind = "invoice"
)

// Alert is one unpaid bill due within the lookahead window.
type Alert struct {
	Kind        AlertKind
	Description string
	Category    string
	Amount      decimal.Decimal
	DueDate     time.Time
}

// DueSoon selects unpaid expenses and invoices due between today and
// today + lookaheadDays, inclusive on both ends. A bill due exactly
// today or exactly on the boundary day counts. The merged list is
// sorted ascending by due date; ties keep source order. An empty
// result means nothing is due, not an error.
func DueSoon(expenses []Expense, invoices []Invoice, today time.Time, lookaheadDays int) []Alert {
	day := truncateToDay(today)
	limit := day.AddDate(0, 0, lookaheadDays)

	var alerts []Alert
	for _, exp := range expenses {
		if exp.Paid {
			continue
		}
		due, ok := parseDate(exp.DueDate)
		if !ok {
			continue
		}
		if inWindow(due, day, limit) {
			alerts = append(alerts, Alert{
				Kind:        AlertExpense,
				Description: exp.Description,
				Category:    exp.Category,
				Amount:      exp.Amount,
				DueDate:     due,
			})
		}
	}
	for _, inv := range invoices {
		if inv.Paid {
			continue
		}
		due, ok := parseDate(inv.DueDate)
		if !ok {
			continue
		}
		if inWindow(due, day, limit) {
			alerts = append(alerts, Alert{
				Kind:        AlertInvoice,
				Description: fmt.Sprintf("%s (%s)", inv.CardLabel, inv.Month),
				Category:    "Credit card",
				Amount:      inv.AmountDue,
				DueDate:     due,
			})
		}
	}

	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].DueDate.Before(alerts[j].DueDate)
	})
	return alerts
}

func inWindow(due, from, to time.Time) bool {
	return !due.Before(from) && !due.After(to)
}

// truncateToDay normalizes to midnight UTC so comparisons against
// parsed stored dates are pure calendar-date comparisons.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

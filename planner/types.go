// Package planner ties the projection engine to planner-owned records.
// A planner owns incomes, expenses, credit cards with invoices, and
// balance adjustments; the Service assembles snapshots from a Store and
// runs the engine over them.
package planner

import (
	"time"
)

// PlannerType distinguishes personal from business planners. It only
// affects presentation; the engine treats both identically.
type PlannerType string

const (
	TypePersonal PlannerType = "personal"
	TypeBusiness PlannerType = "business"
)

// Default planner settings, applied when a planner is created without
// explicit values.
const (
	DefaultAlertThreshold = 0.8
	DefaultCurrency       = "$"
)

// Planner owns a complete record set. AlertThreshold is the
// expense-to-income ratio above which the dashboard raises a warning;
// Currency is a display hint passed through to clients.
type Planner struct {
	ID             string
	Name           string
	Type           PlannerType
	AlertThreshold float64
	Currency       string
	CreatedAt      time.Time
}

// CreditCard groups invoices under a bank and an optional nickname.
type CreditCard struct {
	ID        string
	PlannerID string
	BankName  string
	CardName  string
}

// Label is the display form used on invoices and alerts.
func (c CreditCard) Label() string {
	name := c.CardName
	if name == "" {
		name = "Card"
	}
	return c.BankName + " - " + name
}

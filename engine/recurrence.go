/*
recurrence.go - Occurrence rules for recurring incomes

PURPOSE:
  Decides whether an income record contributes to a given calendar
  month. This is the single place where recurrence semantics live;
  the aggregator and the balance projector both build on it.

SEMANTICS:
  monthsDiff = (targetYear - startYear)*12 + (targetMonth - startMonth)

  Negative monthsDiff never occurs: incomes are not backdated.

  once:      occurs only in the start month (monthsDiff == 0)
  monthly:   open-ended when Months == 0, otherwise limited
  x_months:  occurs in exactly Months consecutive months starting at
             the start month (0 <= monthsDiff < Months)

  The limit is inclusive of the start month and exclusive of the end
  boundary: an income starting in March with Months = 3 occurs in
  March, April and May only.

FAIL CLOSED:
  Unknown kinds and malformed start dates never occur. Malformed data
  under-counts income rather than over-counts it.

SEE ALSO:
  - aggregate.go: sums occurring incomes per month
*/
package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// RECURRENCE - Closed set of occurrence policies
// =============================================================================

// RecurrenceKind is the occurrence policy of an income.
type RecurrenceKind string

const (
	RecurOnce    RecurrenceKind = "once"
	RecurMonthly RecurrenceKind = "monthly"
	RecurXMonths RecurrenceKind = "x_months"
)

// Recurrence pairs a kind with its occurrence limit. Months is the
// number of occurrences for RecurXMonths (and optionally for
// RecurMonthly); zero means unlimited for RecurMonthly and is invalid
// for RecurXMonths.
type Recurrence struct {
	Kind   RecurrenceKind
	Months int
}

// ParseRecurrence validates a persisted (kind, months) pair. Data that
// fails here still flows through OccursIn as "never occurs"; parsing is
// for write-path validation, not a precondition of evaluation.
func ParseRecurrence(kind string, months int) (Recurrence, error) {
	switch RecurrenceKind(kind) {
	case RecurOnce:
		return Recurrence{Kind: RecurOnce}, nil
	case RecurMonthly:
		if months < 0 {
			return Recurrence{}, fmt.Errorf("%w: negative month limit %d", ErrUnknownRecurrence, months)
		}
		return Recurrence{Kind: RecurMonthly, Months: months}, nil
	case RecurXMonths:
		if months < 1 {
			return Recurrence{}, fmt.Errorf("%w: x_months requires a positive month count, got %d", ErrUnknownRecurrence, months)
		}
		return Recurrence{Kind: RecurXMonths, Months: months}, nil
	default:
		return Recurrence{}, fmt.Errorf("%w: %q", ErrUnknownRecurrence, kind)
	}
}

// OccursIn reports whether an income starting at start contributes to
// the target month.
func (r Recurrence) OccursIn(start time.Time, target YearMonth) bool {
	monthsDiff := target.Index() - MonthOf(start).Index()
	if monthsDiff < 0 {
		return false
	}
	switch r.Kind {
	case RecurOnce:
		return monthsDiff == 0
	case RecurMonthly:
		if r.Months == 0 {
			return true
		}
		return monthsDiff < r.Months
	case RecurXMonths:
		if r.Months < 1 {
			return false
		}
		return monthsDiff < r.Months
	default:
		return false
	}
}

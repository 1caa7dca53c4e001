/*
balance.go - Accumulated balance projection

PURPOSE:
  Answers "what is my running balance as of now, and what will it be
  N months from now". Walks a window of months through the aggregator,
  splits the nets into past and future relative to today, and folds in
  one-off balance adjustments.

KEY INSIGHT:
  The current month belongs to the FUTURE partition. "Balance as of
  now" freezes history strictly before the current month; the current
  month's expected net only shows up in the projection. Adjustments
  split differently: one dated today is already realized, so it counts
  as past.

  This asymmetry is intentional. The balance is a planner-wide fact
  anchored to real today, independent of whichever month a dashboard
  happens to be displaying.

SEE ALSO:
  - aggregate.go: per-month nets
  - calendar.go: the month window
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// Default projection window: one year back, one year forward.
const (
	DefaultMonthsPast   = 12
	DefaultMonthsFuture = 12
)

// BalanceSnapshot is the result of a balance projection.
type BalanceSnapshot struct {
	// Current is the sum of all fully-past monthly nets plus every
	// adjustment dated on or before today.
	Current decimal.Decimal

	// Projected is Current plus the nets of the current and future
	// window months and every adjustment dated after today.
	Projected decimal.Decimal
}

// ProjectBalance computes the accumulated and projected balances for
// the window of monthsPast months back through monthsFuture months
// forward around today. An empty snapshot yields zero balances.
func ProjectBalance(s Snapshot, today time.Time, monthsPast, monthsFuture int) BalanceSnapshot {
	current := MonthOf(today)

	pastNet, futureNet := decimal.Zero, decimal.Zero
	for _, ym := range MonthWindow(today, monthsPast, monthsFuture) {
		net := MonthlyNet(s, ym)
		if ym.Before(current) {
			pastNet = pastNet.Add(net)
		} else {
			futureNet = futureNet.Add(net)
		}
	}

	day := truncateToDay(today)
	pastAdj, futureAdj := decimal.Zero, decimal.Zero
	for _, adj := range s.Adjustments {
		at, ok := parseDate(adj.Date)
		if !ok {
			continue
		}
		if at.After(day) {
			futureAdj = futureAdj.Add(adj.Signed())
		} else {
			pastAdj = pastAdj.Add(adj.Signed())
		}
	}

	currentBalance := pastNet.Add(pastAdj)
	return BalanceSnapshot{
		Current:   currentBalance,
		Projected: currentBalance.Add(futureNet).Add(futureAdj),
	}
}

// ProjectBalanceDefault applies the standard one-year window in each
// direction.
func ProjectBalanceDefault(s Snapshot, today time.Time) BalanceSnapshot {
	return ProjectBalance(s, today, DefaultMonthsPast, DefaultMonthsFuture)
}

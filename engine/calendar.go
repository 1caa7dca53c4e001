package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// YEAR-MONTH - Calendar month identity and index arithmetic
// =============================================================================

// YearMonth identifies one calendar month. All month matching in the
// engine is by numeric (year, month) pair; Key produces the canonical
// string form used for invoice keys and result maps.
type YearMonth struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseMonthKey parses a canonical "2006-01" key.
func ParseMonthKey(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid month key %q: %w", s, err)
	}
	return MonthOf(t), nil
}

// Key returns the canonical "2006-01" form.
func (ym YearMonth) Key() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// Index maps the month onto a continuous integer axis so that
// consecutive months differ by exactly one, across year boundaries.
func (ym YearMonth) Index() int {
	return ym.Year*12 + int(ym.Month) - 1
}

// Add returns the month n steps away (negative allowed).
func (ym YearMonth) Add(n int) YearMonth {
	idx := ym.Index() + n
	y, m := idx/12, idx%12
	if m < 0 {
		y--
		m += 12
	}
	return YearMonth{Year: y, Month: time.Month(m + 1)}
}

// Before reports whether ym precedes other chronologically.
func (ym YearMonth) Before(other YearMonth) bool {
	return ym.Index() < other.Index()
}

// Contains reports whether t falls inside this calendar month.
func (ym YearMonth) Contains(t time.Time) bool {
	return t.Year() == ym.Year && t.Month() == ym.Month
}

func (ym YearMonth) String() string { return ym.Key() }

// =============================================================================
// MONTH ARITHMETIC - Shifting and windows
// =============================================================================

// ShiftMonths returns date moved by n months (negative allowed), with
// the day-of-month clamped to the last valid day of the target month.
// Jan 31 + 1 month lands on the last day of February, never March.
func ShiftMonths(date time.Time, n int) time.Time {
	target := MonthOf(date).Add(n)
	day := date.Day()
	if last := lastDayOfMonth(target.Year, target.Month); day > last {
		day = last
	}
	return time.Date(target.Year, target.Month, day, 0, 0, 0, 0, date.Location())
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day zero of the following month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthWindow returns the ordered months from `back` months before
// center's month through `forward` months after, inclusive. The window
// always contains center's own month, even with back == forward == 0.
func MonthWindow(center time.Time, back, forward int) []YearMonth {
	anchor := MonthOf(center)
	months := make([]YearMonth, 0, back+forward+1)
	for i := -back; i <= forward; i++ {
		months = append(months, anchor.Add(i))
	}
	return months
}

// MonthsBetween returns every month from start's through end's month,
// inclusive and chronological. An inverted range yields nil: there are
// no months in range, which is not an error.
func MonthsBetween(start, end time.Time) []YearMonth {
	first, last := MonthOf(start), MonthOf(end)
	if last.Before(first) {
		return nil
	}
	months := make([]YearMonth, 0, last.Index()-first.Index()+1)
	for ym := first; !last.Before(ym); ym = ym.Add(1) {
		months = append(months, ym)
	}
	return months
}

package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/plannerhq/finance-planner/engine"
)

func ym(year int, month time.Month) engine.YearMonth {
	return engine.YearMonth{Year: year, Month: month}
}

func TestRecurrence_NeverOccursBeforeStartMonth(t *testing.T) {
	start := date(2024, time.March, 10)
	target := engine.YearMonth{Year: 2024, Month: time.February}

	kinds := []engine.Recurrence{
		{Kind: engine.RecurOnce},
		{Kind: engine.RecurMonthly},
		{Kind: engine.RecurMonthly, Months: 6},
		{Kind: engine.RecurXMonths, Months: 3},
	}
	for _, r := range kinds {
		if r.OccursIn(start, target) {
			t.Errorf("%s must not occur before its start month", r.Kind)
		}
	}
}

func TestRecurrence_OnceOccursInExactlyOneMonth(t *testing.T) {
	start := date(2024, time.March, 15)
	r := engine.Recurrence{Kind: engine.RecurOnce}

	// Scan a wide window around the start; only the start month hits.
	occurrences := 0
	for _, ym := range engine.MonthWindow(start, 30, 30) {
		if r.OccursIn(start, ym) {
			occurrences++
			if ym.Key() != "2024-03" {
				t.Errorf("once occurred in %s, expected only 2024-03", ym.Key())
			}
		}
	}
	if occurrences != 1 {
		t.Errorf("expected exactly 1 occurrence, got %d", occurrences)
	}
}

func TestRecurrence_XMonthsOccursInExactlyKConsecutiveMonths(t *testing.T) {
	start := date(2024, time.March, 1)
	r := engine.Recurrence{Kind: engine.RecurXMonths, Months: 3}

	var hits []string
	for _, ym := range engine.MonthWindow(start, 24, 24) {
		if r.OccursIn(start, ym) {
			hits = append(hits, ym.Key())
		}
	}

	want := []string{"2024-03", "2024-04", "2024-05"}
	if len(hits) != len(want) {
		t.Fatalf("expected %v, got %v", want, hits)
	}
	for i := range want {
		if hits[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, hits)
		}
	}
}

func TestRecurrence_MonthlyTable(t *testing.T) {
	start := date(2024, time.January, 5)
	tests := []struct {
		name   string
		r      engine.Recurrence
		target engine.YearMonth
		want   bool
	}{
		{"unlimited in start month", engine.Recurrence{Kind: engine.RecurMonthly}, ym(2024, time.January), true},
		{"unlimited years later", engine.Recurrence{Kind: engine.RecurMonthly}, ym(2027, time.September), true},
		{"limited inside limit", engine.Recurrence{Kind: engine.RecurMonthly, Months: 3}, ym(2024, time.March), true},
		{"limited at boundary", engine.Recurrence{Kind: engine.RecurMonthly, Months: 3}, ym(2024, time.April), false},
		{"x_months without limit never occurs", engine.Recurrence{Kind: engine.RecurXMonths}, ym(2024, time.January), false},
		{"unknown kind never occurs", engine.Recurrence{Kind: "weekly"}, ym(2024, time.January), false},
		{"empty kind never occurs", engine.Recurrence{}, ym(2024, time.January), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.OccursIn(start, tt.target); got != tt.want {
				t.Errorf("OccursIn(%v) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

func TestParseRecurrence(t *testing.T) {
	tests := []struct {
		name    string
		kind    string
		months  int
		wantErr bool
	}{
		{"once", "once", 0, false},
		{"monthly unlimited", "monthly", 0, false},
		{"monthly limited", "monthly", 6, false},
		{"x_months", "x_months", 3, false},
		{"x_months without count", "x_months", 0, true},
		{"negative monthly limit", "monthly", -1, true},
		{"unknown kind", "weekly", 0, true},
		{"empty kind", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.ParseRecurrence(tt.kind, tt.months)
			if tt.wantErr {
				if !errors.Is(err, engine.ErrUnknownRecurrence) {
					t.Errorf("expected ErrUnknownRecurrence, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

package scheduling

import (
	"testing"
	"time"

	"assistec_backend/internal/shared/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNextDue_MonthlyKeepsDayOfMonth(t *testing.T) {
	next := NextDue(date(2024, time.January, 15), domain.FrequencyMensal)
	if !next.Equal(date(2024, time.February, 15)) {
		t.Fatalf("expected 2024-02-15, got %s", next.Format(time.DateOnly))
	}
}

func TestNextDue_FrequencyIntervals(t *testing.T) {
	anchor := date(2024, time.March, 10)

	cases := []struct {
		frequency domain.Frequency
		want      time.Time
	}{
		{domain.FrequencyMensal, date(2024, time.April, 10)},
		{domain.FrequencyTrimestral, date(2024, time.June, 10)},
		{domain.FrequencySemestral, date(2024, time.September, 10)},
		{domain.FrequencyAnual, date(2025, time.March, 10)},
	}

	for _, tc := range cases {
		got := NextDue(anchor, tc.frequency)
		if !got.Equal(tc.want) {
			t.Fatalf("frequency %s: expected %s, got %s",
				tc.frequency, tc.want.Format(time.DateOnly), got.Format(time.DateOnly))
		}
	}
}

func TestClassify_OverdueOnOrBeforeToday(t *testing.T) {
	// Monthly schedule last performed 2024-01-15, evaluated on 2024-02-16.
	next := NextDue(date(2024, time.January, 15), domain.FrequencyMensal)
	state := Classify(next, date(2024, time.February, 16), 0)
	if state != Overdue {
		t.Fatalf("expected overdue, got %s", state)
	}

	// Due exactly today also counts as overdue.
	if got := Classify(date(2024, time.February, 16), date(2024, time.February, 16), 0); got != Overdue {
		t.Fatalf("expected overdue on the due date itself, got %s", got)
	}
}

func TestClassify_DueSoonWithinWindow(t *testing.T) {
	today := date(2024, time.February, 10)

	if got := Classify(date(2024, time.February, 11), today, 0); got != DueSoon {
		t.Fatalf("expected due_soon one day ahead, got %s", got)
	}
	if got := Classify(date(2024, time.February, 17), today, 0); got != DueSoon {
		t.Fatalf("expected due_soon at window edge, got %s", got)
	}
	if got := Classify(date(2024, time.February, 18), today, 0); got != NotDue {
		t.Fatalf("expected not_due past window, got %s", got)
	}
}

func TestClassify_CustomWindow(t *testing.T) {
	today := date(2024, time.June, 1)
	window := 48 * time.Hour

	if got := Classify(date(2024, time.June, 3), today, window); got != DueSoon {
		t.Fatalf("expected due_soon within custom window, got %s", got)
	}
	if got := Classify(date(2024, time.June, 4), today, window); got != NotDue {
		t.Fatalf("expected not_due outside custom window, got %s", got)
	}
}

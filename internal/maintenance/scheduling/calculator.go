// Package scheduling computes maintenance due dates and due-state
// classification. Everything here is pure: callers inject "today" so results
// are deterministic and testable.
package scheduling

import (
	"time"

	"assistec_backend/internal/shared/domain"
)

// DueState classifies a schedule relative to the current date.
type DueState int

const (
	// NotDue means the next due date is beyond the due-soon window.
	NotDue DueState = iota
	// DueSoon means the next due date falls within the due-soon window.
	DueSoon
	// Overdue means the next due date is on or before the current date.
	Overdue
)

// String returns the wire representation of the due state.
func (s DueState) String() string {
	switch s {
	case DueSoon:
		return "due_soon"
	case Overdue:
		return "overdue"
	}
	return "not_due"
}

// DefaultDueSoonWindow is how far ahead a schedule is flagged as due soon.
const DefaultDueSoonWindow = 7 * 24 * time.Hour

// NextDue advances the anchor date by one frequency interval using
// calendar-month arithmetic, so a monthly plan anchored on the 15th stays on
// the 15th regardless of month length.
func NextDue(anchor time.Time, frequency domain.Frequency) time.Time {
	return anchor.AddDate(0, frequency.Months(), 0)
}

// Classify determines the due state of a next-due date as of today.
// A zero window falls back to DefaultDueSoonWindow.
func Classify(nextDue, today time.Time, window time.Duration) DueState {
	if window <= 0 {
		window = DefaultDueSoonWindow
	}

	if !nextDue.After(today) {
		return Overdue
	}
	if !nextDue.After(today.Add(window)) {
		return DueSoon
	}
	return NotDue
}

// OverdueBy returns how far past its next-due date a schedule is.
// Zero or negative means the schedule is not overdue.
func OverdueBy(nextDue, today time.Time) time.Duration {
	return today.Sub(nextDue)
}

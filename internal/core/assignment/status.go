// Package assignment contains the pure business logic for meter-reading
// assignments. Guards are pure functions that evaluate preconditions
// without side effects.
package assignment

import "time"

// Status represents the possible states of an assignment.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// Active reports whether the assignment still counts toward the cycle's
// coverage. Completed assignments remain active for coverage purposes;
// only cancellation removes an assignment's units from the cycle.
func (s Status) Active() bool {
	return s != StatusCancelled
}

// Open reports whether the assignment can still be worked or cancelled.
func (s Status) Open() bool {
	return s == StatusPending || s == StatusInProgress
}

// InitialStatus returns the status assigned to a newly created assignment.
func InitialStatus() Status {
	return StatusPending
}

// IsOverdue reports whether the assignment's end date has passed without
// completion. Overdue is advisory and derived on read; it never gates a
// transition. Date comparison is at day precision: an assignment is
// overdue starting the day after endDate.
func IsOverdue(status Status, endDate, now time.Time) bool {
	if !status.Open() {
		return false
	}
	end := endDate.Truncate(24 * time.Hour)
	today := now.UTC().Truncate(24 * time.Hour)
	return today.After(end)
}

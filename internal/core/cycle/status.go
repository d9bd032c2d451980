// Package cycle contains the pure business logic for reading-cycle
// operations. Guards are pure functions that evaluate preconditions
// without side effects.
package cycle

// Status represents the possible states of a reading cycle.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Active reports whether the cycle is still open for work.
func (s Status) Active() bool {
	return s == StatusOpen || s == StatusInProgress
}

// InitialStatus returns the status assigned to a newly created cycle.
func InitialStatus() Status {
	return StatusOpen
}

// DeriveStatus computes the externally visible status from the stored
// status and the number of assignments under the cycle. A stored OPEN
// cycle with at least one assignment reads as IN_PROGRESS; the transition
// is never written, only derived, so there is a single source of truth.
func DeriveStatus(stored Status, assignmentCount int) Status {
	if stored == StatusOpen && assignmentCount > 0 {
		return StatusInProgress
	}
	return stored
}

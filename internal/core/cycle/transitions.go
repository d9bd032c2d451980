package cycle

import "time"

// StatusTransitionResult captures a status write together with its side
// effects (timestamps to set alongside the new status).
type StatusTransitionResult struct {
	NewStatus   Status
	CompletedAt *time.Time
	CancelledAt *time.Time
}

// ApplyStatusTransition returns the persistence effects of moving a cycle
// to newStatus. The caller supplies the clock so the function stays pure.
func ApplyStatusTransition(newStatus Status, now time.Time) StatusTransitionResult {
	result := StatusTransitionResult{NewStatus: newStatus}

	switch newStatus {
	case StatusCompleted:
		result.CompletedAt = &now
	case StatusCancelled:
		result.CancelledAt = &now
	}

	return result
}

// Package export contains the pure business logic gating cycle export.
package export

import (
	"fmt"

	"github.com/example/meterdesk/internal/core/cycle"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// ExportContext provides context for export guards. Status is the cycle's
// derived status; EligibleNow is cycle.CanCompleteCycle's verdict computed
// from a fresh progress snapshot at the point of mutation.
type ExportContext struct {
	CycleID     string
	Status      cycle.Status
	EligibleNow bool
}

// CanExport evaluates whether a cycle may be exported to invoices.
//
// Export-on-eligible rule: export is allowed either on an already
// COMPLETED cycle, or on a cycle that currently satisfies every
// completion condition even though it has not been explicitly completed.
// The OR is deliberate product behavior, not an accidental duplication:
// operators may export directly without a separate finalize step.
func CanExport(ctx ExportContext) GuardResult {
	if ctx.Status == cycle.StatusCompleted {
		return GuardResult{Allowed: true}
	}
	if ctx.EligibleNow {
		return GuardResult{Allowed: true}
	}

	if ctx.Status == cycle.StatusCancelled {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cycle %s is cancelled and cannot be exported", ctx.CycleID),
		}
	}
	return GuardResult{
		Allowed: false,
		Reason:  fmt.Sprintf("cycle %s is not fully read: all assignments must be complete and no unit unassigned", ctx.CycleID),
	}
}

package assignment

import (
	"fmt"
	"strings"

	"github.com/example/meterdesk/internal/core/cycle"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	// OverlapUnits carries the conflicting unit IDs when creation is
	// rejected for double-assignment.
	OverlapUnits []string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CreateAssignmentContext provides context for assignment creation guards.
// ResolvedUnits is the unit set computed by ResolveUnits; OverlapUnits is
// the intersection with active assignments computed by Overlap.
type CreateAssignmentContext struct {
	CycleID       string
	CycleExists   bool
	CycleStatus   cycle.Status
	AssignedTo    string
	ResolvedUnits []string
	OverlapUnits  []string
}

// CanCreateAssignment evaluates whether an assignment can be created.
// Rules:
// - Cycle must exist and be OPEN or IN_PROGRESS
// - A staff member must be assigned
// - The resolved unit set must not be empty
// - The resolved unit set must be disjoint from every active assignment
//   in the cycle
func CanCreateAssignment(ctx CreateAssignmentContext) GuardResult {
	if !ctx.CycleExists {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cycle %s not found", ctx.CycleID),
		}
	}

	if !ctx.CycleStatus.Active() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cycle %s is %s and cannot take new assignments", ctx.CycleID, ctx.CycleStatus),
		}
	}

	if strings.TrimSpace(ctx.AssignedTo) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "assignment must name a staff member",
		}
	}

	if len(ctx.ResolvedUnits) == 0 {
		return GuardResult{
			Allowed: false,
			Reason:  "no billable units match the requested building and floor range",
		}
	}

	if len(ctx.OverlapUnits) > 0 {
		return GuardResult{
			Allowed:      false,
			Reason:       fmt.Sprintf("%d units already assigned: %s", len(ctx.OverlapUnits), strings.Join(ctx.OverlapUnits, ", ")),
			OverlapUnits: ctx.OverlapUnits,
		}
	}

	return GuardResult{Allowed: true}
}

// CancelAssignmentContext provides context for assignment cancellation guards.
type CancelAssignmentContext struct {
	AssignmentID string
	Status       Status
}

// CanCancelAssignment evaluates whether an assignment can be cancelled.
// Rule: only PENDING or IN_PROGRESS assignments can be cancelled.
func CanCancelAssignment(ctx CancelAssignmentContext) GuardResult {
	if !ctx.Status.Open() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("assignment %s is %s and cannot be cancelled", ctx.AssignmentID, ctx.Status),
		}
	}
	return GuardResult{Allowed: true}
}

// CompleteAssignmentContext provides context for assignment completion
// guards. Remaining is the number of units still lacking a qualifying
// reading, recomputed by the caller at the point of mutation.
type CompleteAssignmentContext struct {
	AssignmentID string
	Status       Status
	Remaining    int
}

// CanCompleteAssignment evaluates whether an assignment can be completed.
// Rules:
// - Assignment must be PENDING or IN_PROGRESS; a second completion of an
//   already-completed assignment is rejected, never silently re-applied
// - Every unit in the frozen set must have a qualifying reading
func CanCompleteAssignment(ctx CompleteAssignmentContext) GuardResult {
	if !ctx.Status.Open() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("assignment %s is %s and cannot be completed", ctx.AssignmentID, ctx.Status),
		}
	}
	if ctx.Remaining > 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("assignment %s has %d units without a qualifying reading", ctx.AssignmentID, ctx.Remaining),
		}
	}
	return GuardResult{Allowed: true}
}

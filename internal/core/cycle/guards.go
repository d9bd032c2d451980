package cycle

import (
	"fmt"
	"strings"
	"time"
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

// NormalizeName returns the canonical form of a cycle name used for
// storage and duplicate comparison.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// namesEqual compares two cycle names under the uniqueness rule:
// case-insensitive after trimming.
func namesEqual(a, b string) bool {
	return strings.EqualFold(NormalizeName(a), NormalizeName(b))
}

// CreateCycleContext provides context for cycle creation guards.
// ExistingNames holds the names of all cycles for the same service.
type CreateCycleContext struct {
	Name          string
	PeriodFrom    time.Time
	PeriodTo      time.Time
	ExistingNames []string
}

// CanCreateCycle evaluates whether a cycle can be created.
// Rules:
// - Name must not be blank
// - Name must be unique (case-insensitive, trimmed) within the service
// - PeriodFrom must not be after PeriodTo
func CanCreateCycle(ctx CreateCycleContext) GuardResult {
	if NormalizeName(ctx.Name) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "cycle name must not be blank",
		}
	}

	for _, existing := range ctx.ExistingNames {
		if namesEqual(ctx.Name, existing) {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("cycle name %q already exists for this service", NormalizeName(ctx.Name)),
			}
		}
	}

	if ctx.PeriodFrom.After(ctx.PeriodTo) {
		return GuardResult{
			Allowed: false,
			Reason:  "period start must not be after period end",
		}
	}

	return GuardResult{Allowed: true}
}

// UpdateCycleContext provides context for cycle update guards.
// OtherNames holds the names of all other cycles for the same service,
// excluding the cycle being updated. Period order is intentionally not
// re-checked on update.
type UpdateCycleContext struct {
	CycleID    string
	Name       string
	Status     Status
	OtherNames []string
}

// CanUpdateCycle evaluates whether a cycle can be updated.
// Rules:
// - Cycle must not be in a terminal state
// - Name must not be blank
// - Name must be unique among the other cycles of the service
func CanUpdateCycle(ctx UpdateCycleContext) GuardResult {
	if ctx.Status.Terminal() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cycle %s is %s and can no longer be updated", ctx.CycleID, ctx.Status),
		}
	}

	if NormalizeName(ctx.Name) == "" {
		return GuardResult{
			Allowed: false,
			Reason:  "cycle name must not be blank",
		}
	}

	for _, other := range ctx.OtherNames {
		if namesEqual(ctx.Name, other) {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("cycle name %q already exists for this service", NormalizeName(ctx.Name)),
			}
		}
	}

	return GuardResult{Allowed: true}
}

// CancelCycleContext provides context for cycle cancellation guards.
// Status is the derived status, not the stored one.
type CancelCycleContext struct {
	CycleID string
	Status  Status
}

// CanCancelCycle evaluates whether a cycle can be cancelled.
// Rule: only OPEN or IN_PROGRESS cycles can be cancelled.
func CanCancelCycle(ctx CancelCycleContext) GuardResult {
	if !ctx.Status.Active() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cycle %s is %s and cannot be cancelled", ctx.CycleID, ctx.Status),
		}
	}
	return GuardResult{Allowed: true}
}

// CompleteCycleContext provides context for cycle completion guards.
type CompleteCycleContext struct {
	CycleID     string
	Status      Status
	AllComplete bool
}

// CanCompleteCycle evaluates whether a cycle can be marked complete.
// Rules:
// - Cycle must be OPEN or IN_PROGRESS
// - Every active assignment must be fully read and no unit unassigned
func CanCompleteCycle(ctx CompleteCycleContext) GuardResult {
	if !ctx.Status.Active() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cycle %s is %s and cannot be completed", ctx.CycleID, ctx.Status),
		}
	}
	if !ctx.AllComplete {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cycle %s still has unread or unassigned units", ctx.CycleID),
		}
	}
	return GuardResult{Allowed: true}
}

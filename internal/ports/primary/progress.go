package primary

import "context"

// ProgressService defines the primary port for progress reads. Every call
// recomputes from the meter registry's current readings; nothing is
// cached, and results may be stale by the time the caller acts on them.
// Gated mutations always re-check through their own service.
type ProgressService interface {
	// AssignmentProgress computes one assignment's completion state.
	AssignmentProgress(ctx context.Context, assignmentID string) (*AssignmentProgress, error)

	// CycleProgress computes per-assignment and whole-cycle completion.
	CycleProgress(ctx context.Context, cycleID string) (*CycleProgress, error)

	// ComputeUnassigned reports the billable units in the cycle's scope
	// not covered by any active assignment.
	ComputeUnassigned(ctx context.Context, cycleID string) (*UnassignedInfo, error)
}

// AssignmentProgress is the completion state of one assignment.
type AssignmentProgress struct {
	AssignmentID string `json:"assignmentId"`
	Status       string `json:"status"`
	TotalUnits   int    `json:"totalUnits"`
	ReadingsDone int    `json:"readingsDone"`
	Remaining    int    `json:"remaining"`
	Percent      int    `json:"percent"`
}

// CycleProgress aggregates assignment progress for a cycle. AllComplete
// is true iff every active assignment has remaining zero and no eligible
// unit is unassigned.
type CycleProgress struct {
	CycleID         string                `json:"cycleId"`
	Assignments     []*AssignmentProgress `json:"assignments"`
	TotalUnassigned int                   `json:"totalUnassigned"`
	AllComplete     bool                  `json:"allComplete"`
}

// UnassignedInfo reports the units of a cycle's scope with no active
// assignment. Scope is the set of buildings touched by at least one
// active assignment.
type UnassignedInfo struct {
	CycleID         string   `json:"cycleId"`
	TotalUnassigned int      `json:"totalUnassigned"`
	UnitIDs         []string `json:"unitIds"`
}

// Package primary defines the primary ports (driving interfaces) of the
// application: the service contracts the API and CLI layers call into.
package primary

import "context"

// CycleService defines the primary port for reading-cycle operations.
type CycleService interface {
	// CreateCycle creates a new reading cycle in OPEN state.
	CreateCycle(ctx context.Context, req CreateCycleRequest) (*Cycle, error)

	// UpdateCycle updates name, period, and description of a cycle.
	UpdateCycle(ctx context.Context, req UpdateCycleRequest) (*Cycle, error)

	// CancelCycle cancels a cycle and every open assignment under it.
	CancelCycle(ctx context.Context, cycleID string) (*Cycle, error)

	// CompleteCycle marks a fully read cycle COMPLETED.
	CompleteCycle(ctx context.Context, cycleID string) (*Cycle, error)

	// GetCycle retrieves a cycle with its derived status.
	GetCycle(ctx context.Context, cycleID string) (*Cycle, error)

	// ListCycles lists cycles with optional filters.
	ListCycles(ctx context.Context, filters CycleFilters) ([]*Cycle, error)
}

// CreateCycleRequest contains parameters for creating a cycle.
// Dates use the YYYY-MM-DD format.
type CreateCycleRequest struct {
	ServiceID   string `json:"serviceId"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PeriodFrom  string `json:"periodFrom"`
	PeriodTo    string `json:"periodTo"`
}

// UpdateCycleRequest contains parameters for updating a cycle. Period
// order is intentionally not re-validated on update.
type UpdateCycleRequest struct {
	CycleID     string `json:"-"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	PeriodFrom  string `json:"periodFrom"`
	PeriodTo    string `json:"periodTo"`
}

// Cycle represents a reading cycle at the port boundary. Status is the
// derived status: a stored OPEN cycle with assignments reads IN_PROGRESS.
type Cycle struct {
	ID              string `json:"id"`
	ServiceID       string `json:"serviceId"`
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	PeriodFrom      string `json:"periodFrom"`
	PeriodTo        string `json:"periodTo"`
	Status          string `json:"status"`
	AssignmentCount int    `json:"assignmentCount"`
	CreatedAt       string `json:"createdAt"`
	CompletedAt     string `json:"completedAt,omitempty"`
	CancelledAt     string `json:"cancelledAt,omitempty"`
}

// CycleFilters contains filter options for listing cycles.
type CycleFilters struct {
	ServiceID string
	Status    string
	// OverlapFrom/OverlapTo restrict to cycles whose period overlaps the
	// given date range.
	OverlapFrom string
	OverlapTo   string
}

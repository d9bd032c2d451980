package primary

import "context"

// AssignmentService defines the primary port for assignment operations,
// including the gated completion transition.
type AssignmentService interface {
	// CreateAssignment partitions part of a cycle's unit set to a staff
	// member, freezing the resolved unit set onto the assignment.
	CreateAssignment(ctx context.Context, req CreateAssignmentRequest) (*Assignment, error)

	// CancelAssignment cancels a PENDING or IN_PROGRESS assignment.
	CancelAssignment(ctx context.Context, assignmentID string) (*Assignment, error)

	// CompleteAssignment marks an assignment COMPLETED after the gate
	// re-checks that every unit has a qualifying reading.
	CompleteAssignment(ctx context.Context, assignmentID string) (*Assignment, error)

	// GetAssignment retrieves an assignment with its derived overdue flag.
	GetAssignment(ctx context.Context, assignmentID string) (*Assignment, error)

	// ListAssignments lists a cycle's assignments.
	ListAssignments(ctx context.Context, cycleID string) ([]*Assignment, error)
}

// CreateAssignmentRequest contains parameters for creating an assignment.
// FloorFrom/FloorTo are an inclusive range; leaving both nil covers all
// floors. Dates use the YYYY-MM-DD format.
type CreateAssignmentRequest struct {
	CycleID    string `json:"cycleId"`
	BuildingID string `json:"buildingId"`
	FloorFrom  *int   `json:"floorFrom,omitempty"`
	FloorTo    *int   `json:"floorTo,omitempty"`
	AssignedTo string `json:"assignedTo"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

// Assignment represents an assignment at the port boundary. Overdue is
// derived from EndDate on every read and never gates transitions.
type Assignment struct {
	ID          string   `json:"id"`
	CycleID     string   `json:"cycleId"`
	ServiceID   string   `json:"serviceId"`
	BuildingID  string   `json:"buildingId"`
	FloorFrom   *int     `json:"floorFrom,omitempty"`
	FloorTo     *int     `json:"floorTo,omitempty"`
	AssignedTo  string   `json:"assignedTo"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Status      string   `json:"status"`
	Overdue     bool     `json:"overdue"`
	UnitIDs     []string `json:"unitIds"`
	CreatedAt   string   `json:"createdAt"`
	CompletedAt string   `json:"completedAt,omitempty"`
}

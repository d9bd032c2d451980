// Package secondary defines the secondary ports (driven adapters) for the
// application: persistence and the upstream property-management services.
package secondary

import "context"

// CycleRepository defines the secondary port for reading-cycle persistence.
type CycleRepository interface {
	// Create persists a new cycle.
	Create(ctx context.Context, cycle *CycleRecord) error

	// GetByID retrieves a cycle by its ID.
	GetByID(ctx context.Context, id string) (*CycleRecord, error)

	// List retrieves cycles matching the given filters.
	List(ctx context.Context, filters CycleFilters) ([]*CycleRecord, error)

	// ListNames returns id/name pairs for every cycle of a service,
	// used for duplicate-name checks.
	ListNames(ctx context.Context, serviceID string) ([]CycleName, error)

	// Update updates name, period, and description of a cycle.
	Update(ctx context.Context, cycle *CycleRecord) error

	// UpdateStatus updates the stored status and, when requested, the
	// matching terminal timestamp.
	UpdateStatus(ctx context.Context, id, status string, setCompleted, setCancelled bool) error

	// GetNextID returns the next available cycle ID.
	GetNextID(ctx context.Context) (string, error)
}

// CycleRecord represents a cycle as stored in persistence. Dates use the
// YYYY-MM-DD wire format; timestamps use RFC 3339.
type CycleRecord struct {
	ID          string
	ServiceID   string
	Name        string
	Description string
	PeriodFrom  string
	PeriodTo    string
	Status      string
	CreatedAt   string
	UpdatedAt   string
	CompletedAt string
	CancelledAt string
}

// CycleName is the projection used for duplicate-name checks.
type CycleName struct {
	ID   string
	Name string
}

// CycleFilters contains filter options for querying cycles.
type CycleFilters struct {
	ServiceID string
	Status    string
	// OverlapFrom/OverlapTo select cycles whose period overlaps the
	// given date range (inclusive). Both must be set together.
	OverlapFrom string
	OverlapTo   string
}

// AssignmentRepository defines the secondary port for assignment
// persistence. Unit sets are frozen at creation and stored alongside the
// assignment row.
type AssignmentRepository interface {
	// Create persists a new assignment together with its frozen unit set.
	Create(ctx context.Context, assignment *AssignmentRecord) error

	// GetByID retrieves an assignment, including its unit set.
	GetByID(ctx context.Context, id string) (*AssignmentRecord, error)

	// ListByCycle retrieves a cycle's assignments, including unit sets.
	// When activeOnly is set, cancelled assignments are excluded.
	ListByCycle(ctx context.Context, cycleID string, activeOnly bool) ([]*AssignmentRecord, error)

	// CountByCycle returns the number of assignments under a cycle.
	CountByCycle(ctx context.Context, cycleID string) (int, error)

	// UpdateStatus updates the status and optionally the completed_at
	// timestamp.
	UpdateStatus(ctx context.Context, id, status string, setCompleted bool) error

	// CancelOpenByCycle marks every PENDING or IN_PROGRESS assignment of
	// the cycle CANCELLED and returns how many were cancelled.
	CancelOpenByCycle(ctx context.Context, cycleID string) (int, error)

	// GetNextID returns the next available assignment ID.
	GetNextID(ctx context.Context) (string, error)
}

// AssignmentRecord represents an assignment as stored in persistence.
// FloorFrom/FloorTo are nil when the assignment covers all floors.
type AssignmentRecord struct {
	ID          string
	CycleID     string
	ServiceID   string
	BuildingID  string
	FloorFrom   *int
	FloorTo     *int
	AssignedTo  string
	StartDate   string
	EndDate     string
	Status      string
	UnitIDs     []string
	CreatedAt   string
	UpdatedAt   string
	CompletedAt string
}

// ExportReceiptRepository defines the secondary port for export receipts.
// Receipts are observability for the duplicate-invoice risk of re-export;
// they never gate anything.
type ExportReceiptRepository interface {
	// Create persists a receipt for a successful export.
	Create(ctx context.Context, receipt *ExportReceiptRecord) error

	// ListByCycle retrieves all receipts for a cycle, newest first.
	ListByCycle(ctx context.Context, cycleID string) ([]*ExportReceiptRecord, error)
}

// ExportReceiptRecord represents one successful export run.
type ExportReceiptRecord struct {
	ID              string
	CycleID         string
	TotalReadings   int
	InvoicesCreated int
	CreatedAt       string
}

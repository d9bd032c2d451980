package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/meterdesk/internal/core/assignment"
	"github.com/example/meterdesk/internal/core/cycle"
	"github.com/example/meterdesk/internal/faults"
	"github.com/example/meterdesk/internal/locking"
	"github.com/example/meterdesk/internal/ports/primary"
	"github.com/example/meterdesk/internal/ports/secondary"
)

// AssignmentServiceImpl implements the AssignmentService interface.
type AssignmentServiceImpl struct {
	cycleRepo      secondary.CycleRepository
	assignmentRepo secondary.AssignmentRepository
	units          secondary.UnitDirectory
	progress       primary.ProgressService
	locks          *locking.Keyed
	now            func() time.Time
}

// NewAssignmentService creates a new AssignmentService with injected
// dependencies.
func NewAssignmentService(
	cycleRepo secondary.CycleRepository,
	assignmentRepo secondary.AssignmentRepository,
	units secondary.UnitDirectory,
	progress primary.ProgressService,
	locks *locking.Keyed,
) *AssignmentServiceImpl {
	return &AssignmentServiceImpl{
		cycleRepo:      cycleRepo,
		assignmentRepo: assignmentRepo,
		units:          units,
		progress:       progress,
		locks:          locks,
		now:            time.Now,
	}
}

// CreateAssignment partitions part of a cycle's unit set to a staff
// member. The resolved unit set is frozen onto the assignment at creation
// and never recomputed, even if the building's unit list later changes.
func (s *AssignmentServiceImpl) CreateAssignment(ctx context.Context, req primary.CreateAssignmentRequest) (*primary.Assignment, error) {
	if req.BuildingID == "" {
		return nil, faults.Validationf("buildingId is required")
	}
	if (req.FloorFrom == nil) != (req.FloorTo == nil) {
		return nil, faults.Validationf("floorFrom and floorTo must be provided together")
	}
	if req.FloorFrom != nil && *req.FloorFrom > *req.FloorTo {
		return nil, faults.Validationf("floorFrom must not be greater than floorTo")
	}
	if _, err := parseDate("startDate", req.StartDate); err != nil {
		return nil, err
	}
	if _, err := parseDate("endDate", req.EndDate); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(req.CycleID)
	defer unlock()

	cycleRecord, err := s.cycleRepo.GetByID(ctx, req.CycleID)
	if err != nil {
		return nil, err
	}
	if cycleRecord == nil {
		return nil, faults.NotFound("cycle", req.CycleID)
	}
	count, err := s.assignmentRepo.CountByCycle(ctx, req.CycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to count assignments: %w", err)
	}
	derived := cycle.DeriveStatus(cycle.Status(cycleRecord.Status), count)

	buildingUnits, err := s.units.ListUnits(ctx, req.BuildingID)
	if err != nil {
		return nil, err
	}

	var floors *assignment.FloorRange
	if req.FloorFrom != nil {
		floors = &assignment.FloorRange{From: *req.FloorFrom, To: *req.FloorTo}
	}
	resolved := assignment.ResolveUnits(toUnitInfos(buildingUnits), floors)

	active, err := s.assignmentRepo.ListByCycle(ctx, req.CycleID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list active assignments: %w", err)
	}
	taken := make([][]string, len(active))
	for i, a := range active {
		taken[i] = a.UnitIDs
	}
	overlap := assignment.Overlap(resolved, taken)

	guard := assignment.CanCreateAssignment(assignment.CreateAssignmentContext{
		CycleID:       req.CycleID,
		CycleExists:   true,
		CycleStatus:   derived,
		AssignedTo:    req.AssignedTo,
		ResolvedUnits: resolved,
		OverlapUnits:  overlap,
	})
	if !guard.Allowed {
		switch {
		case len(guard.OverlapUnits) > 0:
			return nil, &faults.ConflictError{
				Msg:     fmt.Sprintf("%d units already assigned", len(guard.OverlapUnits)),
				UnitIDs: guard.OverlapUnits,
			}
		case !derived.Active():
			return nil, &faults.InvalidStateError{Msg: guard.Reason}
		default:
			return nil, &faults.ValidationError{Msg: guard.Reason}
		}
	}

	id, err := s.assignmentRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate assignment ID: %w", err)
	}

	record := &secondary.AssignmentRecord{
		ID:         id,
		CycleID:    req.CycleID,
		ServiceID:  cycleRecord.ServiceID,
		BuildingID: req.BuildingID,
		FloorFrom:  req.FloorFrom,
		FloorTo:    req.FloorTo,
		AssignedTo: req.AssignedTo,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Status:     string(assignment.InitialStatus()),
		UnitIDs:    resolved,
	}
	if err := s.assignmentRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create assignment: %w", err)
	}

	return s.GetAssignment(ctx, id)
}

// CancelAssignment cancels a PENDING or IN_PROGRESS assignment.
func (s *AssignmentServiceImpl) CancelAssignment(ctx context.Context, assignmentID string) (*primary.Assignment, error) {
	record, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, faults.NotFound("assignment", assignmentID)
	}

	unlock := s.locks.Lock(record.CycleID)
	defer unlock()

	// Re-read inside the lock; the first read only located the cycle.
	record, err = s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	guard := assignment.CanCancelAssignment(assignment.CancelAssignmentContext{
		AssignmentID: assignmentID,
		Status:       assignment.Status(record.Status),
	})
	if !guard.Allowed {
		return nil, &faults.InvalidStateError{Msg: guard.Reason}
	}

	if err := s.assignmentRepo.UpdateStatus(ctx, assignmentID, string(assignment.StatusCancelled), false); err != nil {
		return nil, fmt.Errorf("failed to cancel assignment: %w", err)
	}

	return s.GetAssignment(ctx, assignmentID)
}

// CompleteAssignment marks an assignment COMPLETED. Progress is
// recomputed inside the per-cycle lock; a caller's earlier progress read
// is never trusted. Completing an already-completed assignment is
// rejected, not silently re-applied.
func (s *AssignmentServiceImpl) CompleteAssignment(ctx context.Context, assignmentID string) (*primary.Assignment, error) {
	record, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, faults.NotFound("assignment", assignmentID)
	}

	unlock := s.locks.Lock(record.CycleID)
	defer unlock()

	record, err = s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	status := assignment.Status(record.Status)
	if !status.Open() {
		return nil, faults.InvalidStatef("assignment %s is %s and cannot be completed", assignmentID, status)
	}

	prog, err := s.progress.AssignmentProgress(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	guard := assignment.CanCompleteAssignment(assignment.CompleteAssignmentContext{
		AssignmentID: assignmentID,
		Status:       status,
		Remaining:    prog.Remaining,
	})
	if !guard.Allowed {
		return nil, &faults.PreconditionFailedError{Msg: guard.Reason}
	}

	if err := s.assignmentRepo.UpdateStatus(ctx, assignmentID, string(assignment.StatusCompleted), true); err != nil {
		return nil, fmt.Errorf("failed to complete assignment: %w", err)
	}

	return s.GetAssignment(ctx, assignmentID)
}

// GetAssignment retrieves an assignment with its derived overdue flag.
func (s *AssignmentServiceImpl) GetAssignment(ctx context.Context, assignmentID string) (*primary.Assignment, error) {
	record, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, faults.NotFound("assignment", assignmentID)
	}
	return s.toAssignment(record), nil
}

// ListAssignments lists a cycle's assignments.
func (s *AssignmentServiceImpl) ListAssignments(ctx context.Context, cycleID string) ([]*primary.Assignment, error) {
	cycleRecord, err := s.cycleRepo.GetByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if cycleRecord == nil {
		return nil, faults.NotFound("cycle", cycleID)
	}

	records, err := s.assignmentRepo.ListByCycle(ctx, cycleID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	assignments := make([]*primary.Assignment, 0, len(records))
	for _, record := range records {
		assignments = append(assignments, s.toAssignment(record))
	}
	return assignments, nil
}

func (s *AssignmentServiceImpl) toAssignment(record *secondary.AssignmentRecord) *primary.Assignment {
	overdue := false
	if endDate, err := time.Parse(dateLayout, record.EndDate); err == nil {
		overdue = assignment.IsOverdue(assignment.Status(record.Status), endDate, s.now())
	}

	return &primary.Assignment{
		ID:          record.ID,
		CycleID:     record.CycleID,
		ServiceID:   record.ServiceID,
		BuildingID:  record.BuildingID,
		FloorFrom:   record.FloorFrom,
		FloorTo:     record.FloorTo,
		AssignedTo:  record.AssignedTo,
		StartDate:   record.StartDate,
		EndDate:     record.EndDate,
		Status:      record.Status,
		Overdue:     overdue,
		UnitIDs:     record.UnitIDs,
		CreatedAt:   record.CreatedAt,
		CompletedAt: record.CompletedAt,
	}
}

func toUnitInfos(units []secondary.Unit) []assignment.UnitInfo {
	infos := make([]assignment.UnitInfo, len(units))
	for i, u := range units {
		infos[i] = assignment.UnitInfo{
			ID:     u.ID,
			Floor:  u.Floor,
			Active: u.Status == secondary.UnitStatusActive,
		}
	}
	return infos
}

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/meterdesk/internal/core/assignment"
	"github.com/example/meterdesk/internal/core/progress"
	"github.com/example/meterdesk/internal/faults"
	"github.com/example/meterdesk/internal/ports/primary"
	"github.com/example/meterdesk/internal/ports/secondary"
)

// ProgressServiceImpl implements the ProgressService interface. All
// results are recomputed from the meter registry on every call; readings
// arrive asynchronously and may change between any two reads.
type ProgressServiceImpl struct {
	cycleRepo      secondary.CycleRepository
	assignmentRepo secondary.AssignmentRepository
	units          secondary.UnitDirectory
	meters         secondary.MeterRegistry
}

// NewProgressService creates a new ProgressService with injected
// dependencies.
func NewProgressService(
	cycleRepo secondary.CycleRepository,
	assignmentRepo secondary.AssignmentRepository,
	units secondary.UnitDirectory,
	meters secondary.MeterRegistry,
) *ProgressServiceImpl {
	return &ProgressServiceImpl{
		cycleRepo:      cycleRepo,
		assignmentRepo: assignmentRepo,
		units:          units,
		meters:         meters,
	}
}

// AssignmentProgress computes one assignment's completion state.
func (s *ProgressServiceImpl) AssignmentProgress(ctx context.Context, assignmentID string) (*primary.AssignmentProgress, error) {
	record, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, faults.NotFound("assignment", assignmentID)
	}

	cycleRecord, err := s.cycleRepo.GetByID(ctx, record.CycleID)
	if err != nil {
		return nil, err
	}
	if cycleRecord == nil {
		return nil, faults.NotFound("cycle", record.CycleID)
	}

	periodFrom, periodTo, err := cyclePeriod(cycleRecord)
	if err != nil {
		return nil, err
	}

	lastRead, err := s.lastReadDates(ctx, record.BuildingID, record.ServiceID)
	if err != nil {
		return nil, err
	}

	snap := progress.Compute(record.UnitIDs, lastRead, periodFrom, periodTo)
	return toAssignmentProgress(record, snap), nil
}

// CycleProgress computes per-assignment and whole-cycle completion.
// AllComplete requires every active assignment fully read and zero
// unassigned units; a cycle with no active assignments is never complete.
func (s *ProgressServiceImpl) CycleProgress(ctx context.Context, cycleID string) (*primary.CycleProgress, error) {
	cycleRecord, err := s.cycleRepo.GetByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if cycleRecord == nil {
		return nil, faults.NotFound("cycle", cycleID)
	}

	periodFrom, periodTo, err := cyclePeriod(cycleRecord)
	if err != nil {
		return nil, err
	}

	active, err := s.assignmentRepo.ListByCycle(ctx, cycleID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list active assignments: %w", err)
	}

	// One meter-registry call per building, shared across assignments.
	readByBuilding := make(map[string]map[string]time.Time)
	snapshots := make([]progress.Snapshot, 0, len(active))
	result := make([]*primary.AssignmentProgress, 0, len(active))
	for _, record := range active {
		lastRead, ok := readByBuilding[record.BuildingID]
		if !ok {
			lastRead, err = s.lastReadDates(ctx, record.BuildingID, record.ServiceID)
			if err != nil {
				return nil, err
			}
			readByBuilding[record.BuildingID] = lastRead
		}

		snap := progress.Compute(record.UnitIDs, lastRead, periodFrom, periodTo)
		snapshots = append(snapshots, snap)
		result = append(result, toAssignmentProgress(record, snap))
	}

	unassigned, err := s.computeUnassigned(ctx, active)
	if err != nil {
		return nil, err
	}

	return &primary.CycleProgress{
		CycleID:         cycleID,
		Assignments:     result,
		TotalUnassigned: len(unassigned),
		AllComplete:     progress.AllComplete(snapshots, len(unassigned)),
	}, nil
}

// ComputeUnassigned reports the billable units in the cycle's scope with
// no active assignment. Scope is the distinct buildings touched by at
// least one active assignment, with their current unit lists fetched live
// from the unit directory.
func (s *ProgressServiceImpl) ComputeUnassigned(ctx context.Context, cycleID string) (*primary.UnassignedInfo, error) {
	cycleRecord, err := s.cycleRepo.GetByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if cycleRecord == nil {
		return nil, faults.NotFound("cycle", cycleID)
	}

	active, err := s.assignmentRepo.ListByCycle(ctx, cycleID, true)
	if err != nil {
		return nil, fmt.Errorf("failed to list active assignments: %w", err)
	}

	missing, err := s.computeUnassigned(ctx, active)
	if err != nil {
		return nil, err
	}

	return &primary.UnassignedInfo{
		CycleID:         cycleID,
		TotalUnassigned: len(missing),
		UnitIDs:         missing,
	}, nil
}

func (s *ProgressServiceImpl) computeUnassigned(ctx context.Context, active []*secondary.AssignmentRecord) ([]string, error) {
	buildings := make(map[string]bool)
	assigned := make([][]string, 0, len(active))
	for _, record := range active {
		buildings[record.BuildingID] = true
		assigned = append(assigned, record.UnitIDs)
	}

	var eligible []string
	for buildingID := range buildings {
		units, err := s.units.ListUnits(ctx, buildingID)
		if err != nil {
			return nil, err
		}
		eligible = append(eligible, assignment.ResolveUnits(toUnitInfos(units), nil)...)
	}

	return assignment.Subtract(eligible, assigned), nil
}

// lastReadDates maps each unit of a building to its meter's most recent
// reading date. Units never read are absent from the map.
func (s *ProgressServiceImpl) lastReadDates(ctx context.Context, buildingID, serviceID string) (map[string]time.Time, error) {
	meters, err := s.meters.ListMeters(ctx, buildingID, serviceID)
	if err != nil {
		return nil, err
	}

	lastRead := make(map[string]time.Time, len(meters))
	for _, m := range meters {
		if m.LastReadingDate == "" {
			continue
		}
		readAt, err := time.Parse(dateLayout, m.LastReadingDate)
		if err != nil {
			return nil, faults.Upstream("meter registry", fmt.Errorf("meter %s has malformed reading date %q", m.ID, m.LastReadingDate))
		}
		lastRead[m.UnitID] = readAt
	}
	return lastRead, nil
}

func cyclePeriod(record *secondary.CycleRecord) (time.Time, time.Time, error) {
	periodFrom, err := time.Parse(dateLayout, record.PeriodFrom)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("cycle %s has malformed period start %q", record.ID, record.PeriodFrom)
	}
	periodTo, err := time.Parse(dateLayout, record.PeriodTo)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("cycle %s has malformed period end %q", record.ID, record.PeriodTo)
	}
	return periodFrom, periodTo, nil
}

func toAssignmentProgress(record *secondary.AssignmentRecord, snap progress.Snapshot) *primary.AssignmentProgress {
	return &primary.AssignmentProgress{
		AssignmentID: record.ID,
		Status:       record.Status,
		TotalUnits:   snap.TotalUnits,
		ReadingsDone: snap.ReadingsDone,
		Remaining:    snap.Remaining,
		Percent:      snap.Percent,
	}
}

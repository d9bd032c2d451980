package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/meterdesk/internal/core/cycle"
	"github.com/example/meterdesk/internal/faults"
	"github.com/example/meterdesk/internal/locking"
	"github.com/example/meterdesk/internal/logging"
	"github.com/example/meterdesk/internal/ports/primary"
	"github.com/example/meterdesk/internal/ports/secondary"
)

// CycleServiceImpl implements the CycleService interface.
type CycleServiceImpl struct {
	cycleRepo      secondary.CycleRepository
	assignmentRepo secondary.AssignmentRepository
	progress       primary.ProgressService
	locks          *locking.Keyed
}

// NewCycleService creates a new CycleService with injected dependencies.
func NewCycleService(
	cycleRepo secondary.CycleRepository,
	assignmentRepo secondary.AssignmentRepository,
	progress primary.ProgressService,
	locks *locking.Keyed,
) *CycleServiceImpl {
	return &CycleServiceImpl{
		cycleRepo:      cycleRepo,
		assignmentRepo: assignmentRepo,
		progress:       progress,
		locks:          locks,
	}
}

// CreateCycle creates a new reading cycle in OPEN state.
func (s *CycleServiceImpl) CreateCycle(ctx context.Context, req primary.CreateCycleRequest) (*primary.Cycle, error) {
	if req.ServiceID == "" {
		return nil, faults.Validationf("serviceId is required")
	}

	periodFrom, err := parseDate("periodFrom", req.PeriodFrom)
	if err != nil {
		return nil, err
	}
	periodTo, err := parseDate("periodTo", req.PeriodTo)
	if err != nil {
		return nil, err
	}

	names, err := s.cycleRepo.ListNames(ctx, req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to check cycle names: %w", err)
	}
	existing := make([]string, len(names))
	for i, n := range names {
		existing[i] = n.Name
	}

	guard := cycle.CanCreateCycle(cycle.CreateCycleContext{
		Name:          req.Name,
		PeriodFrom:    periodFrom,
		PeriodTo:      periodTo,
		ExistingNames: existing,
	})
	if !guard.Allowed {
		return nil, &faults.ValidationError{Msg: guard.Reason}
	}

	id, err := s.cycleRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate cycle ID: %w", err)
	}

	record := &secondary.CycleRecord{
		ID:          id,
		ServiceID:   req.ServiceID,
		Name:        cycle.NormalizeName(req.Name),
		Description: req.Description,
		PeriodFrom:  req.PeriodFrom,
		PeriodTo:    req.PeriodTo,
		Status:      string(cycle.InitialStatus()),
	}
	if err := s.cycleRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create cycle: %w", err)
	}

	return s.GetCycle(ctx, id)
}

// UpdateCycle updates name, period, and description of a cycle. Period
// order is deliberately not re-validated here; only the create path
// enforces it.
func (s *CycleServiceImpl) UpdateCycle(ctx context.Context, req primary.UpdateCycleRequest) (*primary.Cycle, error) {
	unlock := s.locks.Lock(req.CycleID)
	defer unlock()

	record, derived, err := s.load(ctx, req.CycleID)
	if err != nil {
		return nil, err
	}
	if derived.Terminal() {
		return nil, faults.InvalidStatef("cycle %s is %s and can no longer be updated", req.CycleID, derived)
	}

	if _, err := parseDate("periodFrom", req.PeriodFrom); err != nil {
		return nil, err
	}
	if _, err := parseDate("periodTo", req.PeriodTo); err != nil {
		return nil, err
	}

	names, err := s.cycleRepo.ListNames(ctx, record.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to check cycle names: %w", err)
	}
	var others []string
	for _, n := range names {
		if n.ID != req.CycleID {
			others = append(others, n.Name)
		}
	}

	guard := cycle.CanUpdateCycle(cycle.UpdateCycleContext{
		CycleID:    req.CycleID,
		Name:       req.Name,
		Status:     derived,
		OtherNames: others,
	})
	if !guard.Allowed {
		return nil, &faults.ValidationError{Msg: guard.Reason}
	}

	record.Name = cycle.NormalizeName(req.Name)
	record.Description = req.Description
	record.PeriodFrom = req.PeriodFrom
	record.PeriodTo = req.PeriodTo
	if err := s.cycleRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update cycle: %w", err)
	}

	return s.GetCycle(ctx, req.CycleID)
}

// CancelCycle cancels a cycle and every open assignment under it.
func (s *CycleServiceImpl) CancelCycle(ctx context.Context, cycleID string) (*primary.Cycle, error) {
	unlock := s.locks.Lock(cycleID)
	defer unlock()

	_, derived, err := s.load(ctx, cycleID)
	if err != nil {
		return nil, err
	}

	guard := cycle.CanCancelCycle(cycle.CancelCycleContext{CycleID: cycleID, Status: derived})
	if !guard.Allowed {
		return nil, &faults.InvalidStateError{Msg: guard.Reason}
	}

	effects := cycle.ApplyStatusTransition(cycle.StatusCancelled, time.Now().UTC())
	if err := s.cycleRepo.UpdateStatus(ctx, cycleID, string(effects.NewStatus), effects.CompletedAt != nil, effects.CancelledAt != nil); err != nil {
		return nil, fmt.Errorf("failed to cancel cycle: %w", err)
	}

	cancelled, err := s.assignmentRepo.CancelOpenByCycle(ctx, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel assignments of cycle %s: %w", cycleID, err)
	}
	logging.Log.WithField("cycleId", cycleID).WithField("assignmentsCancelled", cancelled).Info("cycle cancelled")

	return s.GetCycle(ctx, cycleID)
}

// CompleteCycle marks a fully read cycle COMPLETED. The progress check
// runs inside the per-cycle lock so the verdict cannot go stale between
// check and write.
func (s *CycleServiceImpl) CompleteCycle(ctx context.Context, cycleID string) (*primary.Cycle, error) {
	unlock := s.locks.Lock(cycleID)
	defer unlock()

	_, derived, err := s.load(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if !derived.Active() {
		return nil, faults.InvalidStatef("cycle %s is %s and cannot be completed", cycleID, derived)
	}

	prog, err := s.progress.CycleProgress(ctx, cycleID)
	if err != nil {
		return nil, err
	}

	guard := cycle.CanCompleteCycle(cycle.CompleteCycleContext{
		CycleID:     cycleID,
		Status:      derived,
		AllComplete: prog.AllComplete,
	})
	if !guard.Allowed {
		return nil, &faults.PreconditionFailedError{Msg: guard.Reason}
	}

	effects := cycle.ApplyStatusTransition(cycle.StatusCompleted, time.Now().UTC())
	if err := s.cycleRepo.UpdateStatus(ctx, cycleID, string(effects.NewStatus), effects.CompletedAt != nil, effects.CancelledAt != nil); err != nil {
		return nil, fmt.Errorf("failed to complete cycle: %w", err)
	}

	return s.GetCycle(ctx, cycleID)
}

// GetCycle retrieves a cycle with its derived status.
func (s *CycleServiceImpl) GetCycle(ctx context.Context, cycleID string) (*primary.Cycle, error) {
	record, _, err := s.load(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	return s.toCycle(ctx, record)
}

// ListCycles lists cycles with optional filters.
func (s *CycleServiceImpl) ListCycles(ctx context.Context, filters primary.CycleFilters) ([]*primary.Cycle, error) {
	records, err := s.cycleRepo.List(ctx, secondary.CycleFilters{
		ServiceID:   filters.ServiceID,
		Status:      filters.Status,
		OverlapFrom: filters.OverlapFrom,
		OverlapTo:   filters.OverlapTo,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list cycles: %w", err)
	}

	cycles := make([]*primary.Cycle, 0, len(records))
	for _, record := range records {
		c, err := s.toCycle(ctx, record)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, c)
	}
	return cycles, nil
}

// load fetches a cycle record and its derived status.
func (s *CycleServiceImpl) load(ctx context.Context, cycleID string) (*secondary.CycleRecord, cycle.Status, error) {
	record, err := s.cycleRepo.GetByID(ctx, cycleID)
	if err != nil {
		return nil, "", err
	}
	if record == nil {
		return nil, "", faults.NotFound("cycle", cycleID)
	}

	count, err := s.assignmentRepo.CountByCycle(ctx, cycleID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to count assignments: %w", err)
	}

	return record, cycle.DeriveStatus(cycle.Status(record.Status), count), nil
}

func (s *CycleServiceImpl) toCycle(ctx context.Context, record *secondary.CycleRecord) (*primary.Cycle, error) {
	count, err := s.assignmentRepo.CountByCycle(ctx, record.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count assignments: %w", err)
	}

	return &primary.Cycle{
		ID:              record.ID,
		ServiceID:       record.ServiceID,
		Name:            record.Name,
		Description:     record.Description,
		PeriodFrom:      record.PeriodFrom,
		PeriodTo:        record.PeriodTo,
		Status:          string(cycle.DeriveStatus(cycle.Status(record.Status), count)),
		AssignmentCount: count,
		CreatedAt:       record.CreatedAt,
		CompletedAt:     record.CompletedAt,
		CancelledAt:     record.CancelledAt,
	}, nil
}

package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/example/meterdesk/internal/ports/secondary"
)

// Ensure the fakes implement the secondary ports
var (
	_ secondary.CycleRepository         = (*fakeCycleRepo)(nil)
	_ secondary.AssignmentRepository    = (*fakeAssignmentRepo)(nil)
	_ secondary.ExportReceiptRepository = (*fakeReceiptRepo)(nil)
	_ secondary.UnitDirectory           = (*fakeUnitDirectory)(nil)
	_ secondary.MeterRegistry           = (*fakeMeterRegistry)(nil)
	_ secondary.InvoiceExporter         = (*fakeExporter)(nil)
)

// fakeCycleRepo implements secondary.CycleRepository in memory.
type fakeCycleRepo struct {
	cycles map[string]*secondary.CycleRecord
	nextID int
	err    error
}

func newFakeCycleRepo() *fakeCycleRepo {
	return &fakeCycleRepo{cycles: make(map[string]*secondary.CycleRecord), nextID: 1}
}

func (r *fakeCycleRepo) Create(ctx context.Context, c *secondary.CycleRecord) error {
	if r.err != nil {
		return r.err
	}
	cp := *c
	if cp.CreatedAt == "" {
		cp.CreatedAt = "2025-03-01T09:00:00Z"
	}
	r.cycles[c.ID] = &cp
	return nil
}

func (r *fakeCycleRepo) GetByID(ctx context.Context, id string) (*secondary.CycleRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	c, ok := r.cycles[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCycleRepo) List(ctx context.Context, filters secondary.CycleFilters) ([]*secondary.CycleRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*secondary.CycleRecord
	for _, c := range r.cycles {
		if filters.ServiceID != "" && c.ServiceID != filters.ServiceID {
			continue
		}
		if filters.Status != "" && c.Status != filters.Status {
			continue
		}
		if filters.OverlapFrom != "" && filters.OverlapTo != "" {
			if c.PeriodTo < filters.OverlapFrom || c.PeriodFrom > filters.OverlapTo {
				continue
			}
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCycleRepo) ListNames(ctx context.Context, serviceID string) ([]secondary.CycleName, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []secondary.CycleName
	for _, c := range r.cycles {
		if c.ServiceID == serviceID {
			out = append(out, secondary.CycleName{ID: c.ID, Name: c.Name})
		}
	}
	return out, nil
}

func (r *fakeCycleRepo) Update(ctx context.Context, c *secondary.CycleRecord) error {
	if r.err != nil {
		return r.err
	}
	cp := *c
	r.cycles[c.ID] = &cp
	return nil
}

func (r *fakeCycleRepo) UpdateStatus(ctx context.Context, id, status string, setCompleted, setCancelled bool) error {
	if r.err != nil {
		return r.err
	}
	c, ok := r.cycles[id]
	if !ok {
		return fmt.Errorf("cycle %s not found", id)
	}
	c.Status = status
	if setCompleted {
		c.CompletedAt = "2025-04-01T12:00:00Z"
	}
	if setCancelled {
		c.CancelledAt = "2025-04-01T12:00:00Z"
	}
	return nil
}

func (r *fakeCycleRepo) GetNextID(ctx context.Context) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	id := fmt.Sprintf("CYC-%03d", r.nextID)
	r.nextID++
	return id, nil
}

// fakeAssignmentRepo implements secondary.AssignmentRepository in memory.
type fakeAssignmentRepo struct {
	assignments map[string]*secondary.AssignmentRecord
	nextID      int
	err         error
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{assignments: make(map[string]*secondary.AssignmentRecord), nextID: 1}
}

func (r *fakeAssignmentRepo) Create(ctx context.Context, a *secondary.AssignmentRecord) error {
	if r.err != nil {
		return r.err
	}
	cp := *a
	if cp.CreatedAt == "" {
		cp.CreatedAt = "2025-03-02T09:00:00Z"
	}
	r.assignments[a.ID] = &cp
	return nil
}

func (r *fakeAssignmentRepo) GetByID(ctx context.Context, id string) (*secondary.AssignmentRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	a, ok := r.assignments[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAssignmentRepo) ListByCycle(ctx context.Context, cycleID string, activeOnly bool) ([]*secondary.AssignmentRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*secondary.AssignmentRecord
	for _, a := range r.assignments {
		if a.CycleID != cycleID {
			continue
		}
		if activeOnly && a.Status == "CANCELLED" {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAssignmentRepo) CountByCycle(ctx context.Context, cycleID string) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	count := 0
	for _, a := range r.assignments {
		if a.CycleID == cycleID {
			count++
		}
	}
	return count, nil
}

func (r *fakeAssignmentRepo) UpdateStatus(ctx context.Context, id, status string, setCompleted bool) error {
	if r.err != nil {
		return r.err
	}
	a, ok := r.assignments[id]
	if !ok {
		return fmt.Errorf("assignment %s not found", id)
	}
	a.Status = status
	if setCompleted {
		a.CompletedAt = "2025-04-01T12:00:00Z"
	}
	return nil
}

func (r *fakeAssignmentRepo) CancelOpenByCycle(ctx context.Context, cycleID string) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	cancelled := 0
	for _, a := range r.assignments {
		if a.CycleID == cycleID && (a.Status == "PENDING" || a.Status == "IN_PROGRESS") {
			a.Status = "CANCELLED"
			cancelled++
		}
	}
	return cancelled, nil
}

func (r *fakeAssignmentRepo) GetNextID(ctx context.Context) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	id := fmt.Sprintf("ASG-%03d", r.nextID)
	r.nextID++
	return id, nil
}

// fakeReceiptRepo implements secondary.ExportReceiptRepository in memory,
// newest first.
type fakeReceiptRepo struct {
	receipts []*secondary.ExportReceiptRecord
	err      error
}

func (r *fakeReceiptRepo) Create(ctx context.Context, receipt *secondary.ExportReceiptRecord) error {
	if r.err != nil {
		return r.err
	}
	cp := *receipt
	if cp.CreatedAt == "" {
		cp.CreatedAt = "2025-04-01T12:00:00Z"
	}
	r.receipts = append([]*secondary.ExportReceiptRecord{&cp}, r.receipts...)
	return nil
}

func (r *fakeReceiptRepo) ListByCycle(ctx context.Context, cycleID string) ([]*secondary.ExportReceiptRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*secondary.ExportReceiptRecord
	for _, rec := range r.receipts {
		if rec.CycleID == cycleID {
			out = append(out, rec)
		}
	}
	return out, nil
}

// fakeUnitDirectory serves canned unit lists per building.
type fakeUnitDirectory struct {
	units map[string][]secondary.Unit
	err   error
}

func (d *fakeUnitDirectory) ListUnits(ctx context.Context, buildingID string) ([]secondary.Unit, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.units[buildingID], nil
}

// fakeMeterRegistry serves canned meters per building.
type fakeMeterRegistry struct {
	meters map[string][]secondary.Meter
	err    error
}

func (m *fakeMeterRegistry) ListMeters(ctx context.Context, buildingID, serviceID string) ([]secondary.Meter, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.meters[buildingID], nil
}

// fakeExporter records export calls and returns a canned summary.
type fakeExporter struct {
	summary *secondary.ExportSummary
	err     error
	calls   int
	refIDs  []string
}

func (e *fakeExporter) Export(ctx context.Context, cycleID, referenceID string) (*secondary.ExportSummary, error) {
	e.calls++
	e.refIDs = append(e.refIDs, referenceID)
	if e.err != nil {
		return nil, e.err
	}
	if e.summary != nil {
		return e.summary, nil
	}
	return &secondary.ExportSummary{TotalReadings: 8, InvoicesCreated: 8}, nil
}

func activeUnit(id string, floor int) secondary.Unit {
	return secondary.Unit{ID: id, Code: id, Floor: floor, Status: secondary.UnitStatusActive}
}

func readMeter(unitID, date string) secondary.Meter {
	return secondary.Meter{ID: "MTR-" + unitID, UnitID: unitID, LastReadingDate: date}
}

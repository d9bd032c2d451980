package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/meterdesk/internal/faults"
	"github.com/example/meterdesk/internal/locking"
	"github.com/example/meterdesk/internal/ports/primary"
	"github.com/example/meterdesk/internal/ports/secondary"
)

// fixture wires every service onto one set of in-memory fakes so tests
// can drive whole flows.
type fixture struct {
	cycleRepo      *fakeCycleRepo
	assignmentRepo *fakeAssignmentRepo
	receiptRepo    *fakeReceiptRepo
	units          *fakeUnitDirectory
	meters         *fakeMeterRegistry
	exporter       *fakeExporter

	cycles      *CycleServiceImpl
	assignments *AssignmentServiceImpl
	progress    *ProgressServiceImpl
	exports     *ExportServiceImpl
}

func newFixture() *fixture {
	f := &fixture{
		cycleRepo:      newFakeCycleRepo(),
		assignmentRepo: newFakeAssignmentRepo(),
		receiptRepo:    &fakeReceiptRepo{},
		units:          &fakeUnitDirectory{units: make(map[string][]secondary.Unit)},
		meters:         &fakeMeterRegistry{meters: make(map[string][]secondary.Meter)},
		exporter:       &fakeExporter{},
	}
	locks := locking.NewKeyed()
	f.progress = NewProgressService(f.cycleRepo, f.assignmentRepo, f.units, f.meters)
	f.cycles = NewCycleService(f.cycleRepo, f.assignmentRepo, f.progress, locks)
	f.assignments = NewAssignmentService(f.cycleRepo, f.assignmentRepo, f.units, f.progress, locks)
	f.exports = NewExportService(f.cycleRepo, f.assignmentRepo, f.receiptRepo, f.exporter, f.progress, locks)
	return f
}

func (f *fixture) createCycle(t *testing.T, name string) *primary.Cycle {
	t.Helper()
	cyc, err := f.cycles.CreateCycle(context.Background(), primary.CreateCycleRequest{
		ServiceID:  "SVC-WATER",
		Name:       name,
		PeriodFrom: "2025-03-01",
		PeriodTo:   "2025-03-31",
	})
	require.NoError(t, err)
	return cyc
}

func (f *fixture) createAssignment(t *testing.T, cycleID, buildingID, staff string) *primary.Assignment {
	t.Helper()
	asg, err := f.assignments.CreateAssignment(context.Background(), primary.CreateAssignmentRequest{
		CycleID:    cycleID,
		BuildingID: buildingID,
		AssignedTo: staff,
		StartDate:  "2025-03-03",
		EndDate:    "2025-03-20",
	})
	require.NoError(t, err)
	return asg
}

func TestCreateCycle(t *testing.T) {
	f := newFixture()

	cyc := f.createCycle(t, "  March water  ")

	assert.Equal(t, "CYC-001", cyc.ID)
	assert.Equal(t, "March water", cyc.Name)
	assert.Equal(t, "OPEN", cyc.Status)
	assert.Equal(t, 0, cyc.AssignmentCount)
}

func TestCreateCycleValidation(t *testing.T) {
	f := newFixture()
	f.createCycle(t, "March water")

	tests := []struct {
		name string
		req  primary.CreateCycleRequest
	}{
		{
			name: "blank name",
			req: primary.CreateCycleRequest{
				ServiceID: "SVC-WATER", Name: "   ",
				PeriodFrom: "2025-03-01", PeriodTo: "2025-03-31",
			},
		},
		{
			name: "duplicate name ignoring case",
			req: primary.CreateCycleRequest{
				ServiceID: "SVC-WATER", Name: "march WATER",
				PeriodFrom: "2025-04-01", PeriodTo: "2025-04-30",
			},
		},
		{
			name: "period end before start",
			req: primary.CreateCycleRequest{
				ServiceID: "SVC-WATER", Name: "April water",
				PeriodFrom: "2025-04-30", PeriodTo: "2025-04-01",
			},
		},
		{
			name: "malformed date",
			req: primary.CreateCycleRequest{
				ServiceID: "SVC-WATER", Name: "April water",
				PeriodFrom: "01.04.2025", PeriodTo: "2025-04-30",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.cycles.CreateCycle(context.Background(), tt.req)
			var validation *faults.ValidationError
			require.ErrorAs(t, err, &validation)
		})
	}
}

func TestCreateCycleSameNameOtherService(t *testing.T) {
	f := newFixture()
	f.createCycle(t, "March readings")

	// Names only collide within one utility service.
	_, err := f.cycles.CreateCycle(context.Background(), primary.CreateCycleRequest{
		ServiceID:  "SVC-GAS",
		Name:       "March readings",
		PeriodFrom: "2025-03-01",
		PeriodTo:   "2025-03-31",
	})
	assert.NoError(t, err)
}

func TestUpdateCycle(t *testing.T) {
	f := newFixture()
	cyc := f.createCycle(t, "March water")

	updated, err := f.cycles.UpdateCycle(context.Background(), primary.UpdateCycleRequest{
		CycleID:    cyc.ID,
		Name:       "March water, revised",
		PeriodFrom: "2025-03-05",
		PeriodTo:   "2025-03-31",
	})
	require.NoError(t, err)
	assert.Equal(t, "March water, revised", updated.Name)
	assert.Equal(t, "2025-03-05", updated.PeriodFrom)
}

func TestUpdateCycleTerminal(t *testing.T) {
	f := newFixture()
	cyc := f.createCycle(t, "March water")
	_, err := f.cycles.CancelCycle(context.Background(), cyc.ID)
	require.NoError(t, err)

	_, err = f.cycles.UpdateCycle(context.Background(), primary.UpdateCycleRequest{
		CycleID:    cyc.ID,
		Name:       "Renamed",
		PeriodFrom: "2025-03-01",
		PeriodTo:   "2025-03-31",
	})
	var invalidState *faults.InvalidStateError
	require.ErrorAs(t, err, &invalidState)
}

func TestUpdateCycleDuplicateNameExcludesSelf(t *testing.T) {
	f := newFixture()
	cyc := f.createCycle(t, "March water")
	f.createCycle(t, "April water")

	// Keeping its own name is not a collision.
	_, err := f.cycles.UpdateCycle(context.Background(), primary.UpdateCycleRequest{
		CycleID:    cyc.ID,
		Name:       "March water",
		PeriodFrom: "2025-03-01",
		PeriodTo:   "2025-03-31",
	})
	assert.NoError(t, err)

	// Taking a sibling's name is.
	_, err = f.cycles.UpdateCycle(context.Background(), primary.UpdateCycleRequest{
		CycleID:    cyc.ID,
		Name:       "april water",
		PeriodFrom: "2025-03-01",
		PeriodTo:   "2025-03-31",
	})
	var validation *faults.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestCycleStatusDerivedFromAssignments(t *testing.T) {
	f := newFixture()
	f.units.units["BLD-A"] = []secondary.Unit{activeUnit("U-101", 1), activeUnit("U-102", 1)}
	cyc := f.createCycle(t, "March water")

	f.createAssignment(t, cyc.ID, "BLD-A", "R. Osei")

	got, err := f.cycles.GetCycle(context.Background(), cyc.ID)
	require.NoError(t, err)
	assert.Equal(t, "IN_PROGRESS", got.Status)
	assert.Equal(t, 1, got.AssignmentCount)
}

func TestCancelCycleCascades(t *testing.T) {
	f := newFixture()
	f.units.units["BLD-A"] = []secondary.Unit{activeUnit("U-101", 1), activeUnit("U-102", 2)}
	f.units.units["BLD-B"] = []secondary.Unit{activeUnit("U-201", 1)}
	cyc := f.createCycle(t, "March water")
	a1 := f.createAssignment(t, cyc.ID, "BLD-A", "R. Osei")
	a2 := f.createAssignment(t, cyc.ID, "BLD-B", "M. Haddad")

	cancelled, err := f.cycles.CancelCycle(context.Background(), cyc.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED", cancelled.Status)
	assert.NotEmpty(t, cancelled.CancelledAt)

	for _, id := range []string{a1.ID, a2.ID} {
		asg, err := f.assignments.GetAssignment(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", asg.Status)
	}

	// Cancelling again is rejected.
	_, err = f.cycles.CancelCycle(context.Background(), cyc.ID)
	var invalidState *faults.InvalidStateError
	require.ErrorAs(t, err, &invalidState)
}

func TestCancelCycleSkipsCompletedAssignments(t *testing.T) {
	f := newFixture()
	f.units.units["BLD-A"] = []secondary.Unit{activeUnit("U-101", 1)}
	f.meters.meters["BLD-A"] = []secondary.Meter{readMeter("U-101", "2025-03-10")}
	cyc := f.createCycle(t, "March water")
	asg := f.createAssignment(t, cyc.ID, "BLD-A", "R. Osei")

	_, err := f.assignments.CompleteAssignment(context.Background(), asg.ID)
	require.NoError(t, err)

	_, err = f.cycles.CancelCycle(context.Background(), cyc.ID)
	require.NoError(t, err)

	got, err := f.assignments.GetAssignment(context.Background(), asg.ID)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", got.Status)
}

func TestCompleteCycleBlockedUntilAllRead(t *testing.T) {
	f := newFixture()
	f.units.units["BLD-A"] = []secondary.Unit{activeUnit("U-101", 1), activeUnit("U-102", 2)}
	f.meters.meters["BLD-A"] = []secondary.Meter{readMeter("U-101", "2025-03-10")}
	cyc := f.createCycle(t, "March water")
	f.createAssignment(t, cyc.ID, "BLD-A", "R. Osei")

	_, err := f.cycles.CompleteCycle(context.Background(), cyc.ID)
	var precondition *faults.PreconditionFailedError
	require.ErrorAs(t, err, &precondition)

	// The second unit gets read; completion now passes.
	f.meters.meters["BLD-A"] = append(f.meters.meters["BLD-A"], readMeter("U-102", "2025-03-12"))

	completed, err := f.cycles.CompleteCycle(context.Background(), cyc.ID)
	require.NoError(t, err)
	assert.Equal(t, "COMPLETED", completed.Status)
	assert.NotEmpty(t, completed.CompletedAt)
}

func TestCompleteCycleWithoutAssignments(t *testing.T) {
	f := newFixture()
	cyc := f.createCycle(t, "March water")

	// Zero assignments means nothing was partitioned, never complete.
	_, err := f.cycles.CompleteCycle(context.Background(), cyc.ID)
	var precondition *faults.PreconditionFailedError
	require.ErrorAs(t, err, &precondition)
}

func TestCompleteCycleBlockedByUnassignedUnits(t *testing.T) {
	f := newFixture()
	f.units.units["BLD-A"] = []secondary.Unit{activeUnit("U-101", 1), activeUnit("U-102", 2), activeUnit("U-103", 3)}
	f.meters.meters["BLD-A"] = []secondary.Meter{
		readMeter("U-101", "2025-03-10"),
		readMeter("U-102", "2025-03-11"),
		readMeter("U-103", "2025-03-12"),
	}
	cyc := f.createCycle(t, "March water")

	floor1, floor2 := 1, 2
	_, err := f.assignments.CreateAssignment(context.Background(), primary.CreateAssignmentRequest{
		CycleID:    cyc.ID,
		BuildingID: "BLD-A",
		FloorFrom:  &floor1,
		FloorTo:    &floor2,
		AssignedTo: "R. Osei",
		StartDate:  "2025-03-03",
		EndDate:    "2025-03-20",
	})
	require.NoError(t, err)

	// U-103 on floor 3 is read but unassigned, which blocks the gate.
	_, err = f.cycles.CompleteCycle(context.Background(), cyc.ID)
	var precondition *faults.PreconditionFailedError
	require.ErrorAs(t, err, &precondition)
}

func TestGetCycleNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.cycles.GetCycle(context.Background(), "CYC-404")
	var notFound *faults.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestListCyclesFilters(t *testing.T) {
	f := newFixture()
	f.createCycle(t, "March water")
	_, err := f.cycles.CreateCycle(context.Background(), primary.CreateCycleRequest{
		ServiceID:  "SVC-GAS",
		Name:       "March gas",
		PeriodFrom: "2025-03-01",
		PeriodTo:   "2025-03-31",
	})
	require.NoError(t, err)

	all, err := f.cycles.ListCycles(context.Background(), primary.CycleFilters{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	water, err := f.cycles.ListCycles(context.Background(), primary.CycleFilters{ServiceID: "SVC-WATER"})
	require.NoError(t, err)
	require.Len(t, water, 1)
	assert.Equal(t, "March water", water[0].Name)

	none, err := f.cycles.ListCycles(context.Background(), primary.CycleFilters{
		OverlapFrom: "2025-05-01",
		OverlapTo:   "2025-05-31",
	})
	require.NoError(t, err)
	assert.Empty(t, none)
}

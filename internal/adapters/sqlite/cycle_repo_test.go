package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/meterdesk/internal/adapters/sqlite"
	"github.com/example/meterdesk/internal/ports/secondary"
)

func TestCycleRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCycleRepository(db)
	ctx := context.Background()

	cycle := &secondary.CycleRecord{
		ID:          "CYC-001",
		ServiceID:   "water",
		Name:        "Jan-2025-Water",
		Description: "January water billing",
		PeriodFrom:  "2025-01-01",
		PeriodTo:    "2025-01-31",
		Status:      "OPEN",
	}

	if err := repo.Create(ctx, cycle); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, "CYC-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if retrieved == nil {
		t.Fatal("GetByID returned nil for existing cycle")
	}
	if retrieved.Name != "Jan-2025-Water" {
		t.Errorf("expected name 'Jan-2025-Water', got '%s'", retrieved.Name)
	}
	if retrieved.Status != "OPEN" {
		t.Errorf("expected status 'OPEN', got '%s'", retrieved.Status)
	}
	if retrieved.PeriodFrom != "2025-01-01" || retrieved.PeriodTo != "2025-01-31" {
		t.Errorf("unexpected period: %s..%s", retrieved.PeriodFrom, retrieved.PeriodTo)
	}
	if retrieved.CreatedAt == "" {
		t.Error("expected created_at to be set")
	}
	if retrieved.CompletedAt != "" {
		t.Errorf("expected empty completed_at, got '%s'", retrieved.CompletedAt)
	}
}

func TestCycleRepository_GetByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCycleRepository(db)

	retrieved, err := repo.GetByID(context.Background(), "CYC-999")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if retrieved != nil {
		t.Errorf("expected nil for missing cycle, got %+v", retrieved)
	}
}

func TestCycleRepository_List_Filters(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCycleRepository(db)
	ctx := context.Background()

	seedCycle(t, db, "CYC-001", "water", "Jan-2025-Water")
	seedCycle(t, db, "CYC-002", "electricity", "Jan-2025-Power")

	water, err := repo.List(ctx, secondary.CycleFilters{ServiceID: "water"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(water) != 1 || water[0].ID != "CYC-001" {
		t.Errorf("expected only CYC-001 for water, got %d cycles", len(water))
	}

	all, err := repo.List(ctx, secondary.CycleFilters{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 cycles, got %d", len(all))
	}
}

func TestCycleRepository_List_PeriodOverlap(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCycleRepository(db)
	ctx := context.Background()

	seedCycle(t, db, "CYC-001", "water", "Jan-2025-Water") // 2025-01-01..2025-01-31

	overlapping, err := repo.List(ctx, secondary.CycleFilters{OverlapFrom: "2025-01-20", OverlapTo: "2025-02-10"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(overlapping) != 1 {
		t.Errorf("expected 1 overlapping cycle, got %d", len(overlapping))
	}

	disjoint, err := repo.List(ctx, secondary.CycleFilters{OverlapFrom: "2025-02-01", OverlapTo: "2025-02-28"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(disjoint) != 0 {
		t.Errorf("expected no overlapping cycles, got %d", len(disjoint))
	}
}

func TestCycleRepository_ListNames(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCycleRepository(db)
	ctx := context.Background()

	seedCycle(t, db, "CYC-001", "water", "Jan-2025-Water")
	seedCycle(t, db, "CYC-002", "water", "Feb-2025-Water")
	seedCycle(t, db, "CYC-003", "electricity", "Jan-2025-Power")

	names, err := repo.ListNames(ctx, "water")
	if err != nil {
		t.Fatalf("ListNames failed: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("expected 2 names for water, got %d", len(names))
	}
}

func TestCycleRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCycleRepository(db)
	ctx := context.Background()

	seedCycle(t, db, "CYC-001", "water", "Jan-2025-Water")

	err := repo.Update(ctx, &secondary.CycleRecord{
		ID:          "CYC-001",
		Name:        "Jan-2025-Water-Rev2",
		Description: "revised",
		PeriodFrom:  "2025-01-05",
		PeriodTo:    "2025-02-05",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, "CYC-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if retrieved.Name != "Jan-2025-Water-Rev2" {
		t.Errorf("expected updated name, got '%s'", retrieved.Name)
	}
	if retrieved.PeriodFrom != "2025-01-05" {
		t.Errorf("expected updated period_from, got '%s'", retrieved.PeriodFrom)
	}
}

func TestCycleRepository_UpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCycleRepository(db)
	ctx := context.Background()

	seedCycle(t, db, "CYC-001", "water", "Jan-2025-Water")

	if err := repo.UpdateStatus(ctx, "CYC-001", "COMPLETED", true, false); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}

	retrieved, err := repo.GetByID(ctx, "CYC-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if retrieved.Status != "COMPLETED" {
		t.Errorf("expected status 'COMPLETED', got '%s'", retrieved.Status)
	}
	if retrieved.CompletedAt == "" {
		t.Error("expected completed_at to be set")
	}
	if retrieved.CancelledAt != "" {
		t.Error("expected cancelled_at to remain unset")
	}
}

func TestCycleRepository_GetNextID(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewCycleRepository(db)
	ctx := context.Background()

	id, err := repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "CYC-001" {
		t.Errorf("expected 'CYC-001', got '%s'", id)
	}

	seedCycle(t, db, "CYC-001", "water", "Jan-2025-Water")

	id, err = repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "CYC-002" {
		t.Errorf("expected 'CYC-002', got '%s'", id)
	}
}

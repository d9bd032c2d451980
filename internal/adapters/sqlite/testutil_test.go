// Package sqlite_test contains integration tests for SQLite repositories.
//
// This file is the single point where the database schema is loaded for
// tests. All test setup uses db.GetSchemaSQL() so tests run against the
// authoritative schema and cannot drift from production. Do not hardcode
// CREATE TABLE statements in test files; use setupTestDB and the seed*
// helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/meterdesk/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedCycle inserts a test cycle and returns its ID.
func seedCycle(t *testing.T, db *sql.DB, id, serviceID, name string) string {
	t.Helper()
	if id == "" {
		id = "CYC-001"
	}
	if serviceID == "" {
		serviceID = "water"
	}
	if name == "" {
		name = "Jan-2025-Water"
	}
	_, err := db.Exec(
		"INSERT INTO cycles (id, service_id, name, period_from, period_to, status) VALUES (?, ?, ?, '2025-01-01', '2025-01-31', 'OPEN')",
		id, serviceID, name,
	)
	if err != nil {
		t.Fatalf("failed to seed cycle: %v", err)
	}
	return id
}

// seedAssignment inserts a test assignment with the given units.
func seedAssignment(t *testing.T, db *sql.DB, id, cycleID, status string, unitIDs ...string) string {
	t.Helper()
	if id == "" {
		id = "ASG-001"
	}
	if status == "" {
		status = "PENDING"
	}
	_, err := db.Exec(
		"INSERT INTO assignments (id, cycle_id, service_id, building_id, assigned_to, start_date, end_date, status) VALUES (?, ?, 'water', 'B-01', 'staff-7', '2025-01-02', '2025-01-20', ?)",
		id, cycleID, status,
	)
	if err != nil {
		t.Fatalf("failed to seed assignment: %v", err)
	}
	for _, unitID := range unitIDs {
		_, err := db.Exec("INSERT INTO assignment_units (assignment_id, unit_id) VALUES (?, ?)", id, unitID)
		if err != nil {
			t.Fatalf("failed to seed assignment unit: %v", err)
		}
	}
	return id
}

package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures: two
// cycles in different states, assignments with frozen unit sets, and one
// export receipt. Intended for a throwaway local database only.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().Format(time.RFC3339)

	cycles := []struct {
		id, serviceID, name, from, to, status string
	}{
		{"CYC-001", "SVC-WATER", "February water", "2025-02-01", "2025-02-28", "COMPLETED"},
		{"CYC-002", "SVC-WATER", "March water", "2025-03-01", "2025-03-31", "OPEN"},
	}
	for _, c := range cycles {
		if _, err := database.Exec(
			"INSERT INTO cycles (id, service_id, name, period_from, period_to, status, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			c.id, c.serviceID, c.name, c.from, c.to, c.status, now,
		); err != nil {
			return fmt.Errorf("seed cycles: %w", err)
		}
	}
	if _, err := database.Exec(
		"UPDATE cycles SET completed_at = ? WHERE id = 'CYC-001'", now,
	); err != nil {
		return fmt.Errorf("seed cycles: %w", err)
	}

	assignments := []struct {
		id, cycleID, buildingID, staff, start, end, status string
		units                                              []string
	}{
		{"ASG-001", "CYC-001", "BLD-NORTH", "R. Osei", "2025-02-03", "2025-02-20", "COMPLETED",
			[]string{"U-101", "U-102", "U-103"}},
		{"ASG-002", "CYC-002", "BLD-NORTH", "R. Osei", "2025-03-03", "2025-03-20", "PENDING",
			[]string{"U-101", "U-102", "U-103"}},
		{"ASG-003", "CYC-002", "BLD-SOUTH", "M. Haddad", "2025-03-03", "2025-03-20", "IN_PROGRESS",
			[]string{"U-201", "U-202"}},
	}
	for _, a := range assignments {
		if _, err := database.Exec(
			"INSERT INTO assignments (id, cycle_id, service_id, building_id, assigned_to, start_date, end_date, status, created_at) VALUES (?, ?, 'SVC-WATER', ?, ?, ?, ?, ?, ?)",
			a.id, a.cycleID, a.buildingID, a.staff, a.start, a.end, a.status, now,
		); err != nil {
			return fmt.Errorf("seed assignments: %w", err)
		}
		for _, unitID := range a.units {
			if _, err := database.Exec(
				"INSERT INTO assignment_units (assignment_id, unit_id) VALUES (?, ?)",
				a.id, unitID,
			); err != nil {
				return fmt.Errorf("seed assignment units: %w", err)
			}
		}
	}

	if _, err := database.Exec(
		"INSERT INTO export_receipts (id, cycle_id, total_readings, invoices_created, created_at) VALUES (?, 'CYC-001', 3, 3, ?)",
		"9be0ad45-6f70-4a9b-a65e-32cf82f5a1f8", now,
	); err != nil {
		return fmt.Errorf("seed export receipts: %w", err)
	}

	return nil
}

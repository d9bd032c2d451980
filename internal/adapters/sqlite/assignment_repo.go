package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/meterdesk/internal/ports/secondary"
)

// AssignmentRepository implements secondary.AssignmentRepository with
// SQLite. The frozen unit set lives in assignment_units and is written in
// the same transaction as the assignment row.
type AssignmentRepository struct {
	db *sql.DB
}

// NewAssignmentRepository creates a new SQLite assignment repository.
func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

const assignmentSelectCols = "id, cycle_id, service_id, building_id, floor_from, floor_to, assigned_to, start_date, end_date, status, created_at, updated_at, completed_at"

// scanAssignment scans an assignment row into an AssignmentRecord.
// The unit set is loaded separately.
func scanAssignment(scanner interface {
	Scan(dest ...any) error
}) (*secondary.AssignmentRecord, error) {
	var (
		floorFrom   sql.NullInt64
		floorTo     sql.NullInt64
		createdAt   time.Time
		updatedAt   time.Time
		completedAt sql.NullTime
	)

	record := &secondary.AssignmentRecord{}
	err := scanner.Scan(
		&record.ID, &record.CycleID, &record.ServiceID, &record.BuildingID,
		&floorFrom, &floorTo, &record.AssignedTo,
		&record.StartDate, &record.EndDate, &record.Status,
		&createdAt, &updatedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	if floorFrom.Valid {
		v := int(floorFrom.Int64)
		record.FloorFrom = &v
	}
	if floorTo.Valid {
		v := int(floorTo.Int64)
		record.FloorTo = &v
	}
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	if completedAt.Valid {
		record.CompletedAt = completedAt.Time.Format(time.RFC3339)
	}

	return record, nil
}

// Create persists a new assignment together with its frozen unit set.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *secondary.AssignmentRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var floorFrom, floorTo sql.NullInt64
	if assignment.FloorFrom != nil {
		floorFrom = sql.NullInt64{Int64: int64(*assignment.FloorFrom), Valid: true}
	}
	if assignment.FloorTo != nil {
		floorTo = sql.NullInt64{Int64: int64(*assignment.FloorTo), Valid: true}
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO assignments (id, cycle_id, service_id, building_id, floor_from, floor_to, assigned_to, start_date, end_date, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		assignment.ID, assignment.CycleID, assignment.ServiceID, assignment.BuildingID,
		floorFrom, floorTo, assignment.AssignedTo,
		assignment.StartDate, assignment.EndDate, assignment.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	for _, unitID := range assignment.UnitIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO assignment_units (assignment_id, unit_id) VALUES (?, ?)",
			assignment.ID, unitID,
		)
		if err != nil {
			return fmt.Errorf("failed to store assignment unit %s: %w", unitID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit assignment: %w", err)
	}

	return nil
}

// GetByID retrieves an assignment, including its unit set.
func (r *AssignmentRepository) GetByID(ctx context.Context, id string) (*secondary.AssignmentRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+assignmentSelectCols+" FROM assignments WHERE id = ?",
		id,
	)

	record, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	record.UnitIDs, err = r.loadUnits(ctx, id)
	if err != nil {
		return nil, err
	}

	return record, nil
}

// ListByCycle retrieves a cycle's assignments, including unit sets.
func (r *AssignmentRepository) ListByCycle(ctx context.Context, cycleID string, activeOnly bool) ([]*secondary.AssignmentRecord, error) {
	query := "SELECT " + assignmentSelectCols + " FROM assignments WHERE cycle_id = ?"
	if activeOnly {
		query += " AND status != 'CANCELLED'"
	}
	query += " ORDER BY created_at ASC"

	rows, err := r.db.QueryContext(ctx, query, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*secondary.AssignmentRecord
	for rows.Next() {
		record, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, a := range assignments {
		a.UnitIDs, err = r.loadUnits(ctx, a.ID)
		if err != nil {
			return nil, err
		}
	}

	return assignments, nil
}

// CountByCycle returns the number of assignments under a cycle.
func (r *AssignmentRepository) CountByCycle(ctx context.Context, cycleID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM assignments WHERE cycle_id = ?",
		cycleID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count assignments: %w", err)
	}
	return count, nil
}

// UpdateStatus updates the status and optionally completed_at.
func (r *AssignmentRepository) UpdateStatus(ctx context.Context, id, status string, setCompleted bool) error {
	query := "UPDATE assignments SET status = ?, updated_at = CURRENT_TIMESTAMP"
	args := []any{status}

	if setCompleted {
		query += ", completed_at = CURRENT_TIMESTAMP"
	}

	query += " WHERE id = ?"
	args = append(args, id)

	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update assignment status: %w", err)
	}

	return nil
}

// CancelOpenByCycle marks every PENDING or IN_PROGRESS assignment of the
// cycle CANCELLED.
func (r *AssignmentRepository) CancelOpenByCycle(ctx context.Context, cycleID string) (int, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE assignments SET status = 'CANCELLED', updated_at = CURRENT_TIMESTAMP WHERE cycle_id = ? AND status IN ('PENDING', 'IN_PROGRESS')",
		cycleID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to cancel assignments: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count cancelled assignments: %w", err)
	}

	return int(affected), nil
}

// GetNextID returns the next available assignment ID.
func (r *AssignmentRepository) GetNextID(ctx context.Context) (string, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM assignments").Scan(&count)
	if err != nil {
		return "", fmt.Errorf("failed to count assignments: %w", err)
	}
	return fmt.Sprintf("ASG-%03d", count+1), nil
}

func (r *AssignmentRepository) loadUnits(ctx context.Context, assignmentID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT unit_id FROM assignment_units WHERE assignment_id = ? ORDER BY unit_id ASC",
		assignmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignment units: %w", err)
	}
	defer rows.Close()

	var units []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan assignment unit: %w", err)
		}
		units = append(units, id)
	}

	return units, rows.Err()
}

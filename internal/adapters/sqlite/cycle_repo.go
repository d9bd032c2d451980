// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/meterdesk/internal/ports/secondary"
)

// CycleRepository implements secondary.CycleRepository with SQLite.
type CycleRepository struct {
	db *sql.DB
}

// NewCycleRepository creates a new SQLite cycle repository.
func NewCycleRepository(db *sql.DB) *CycleRepository {
	return &CycleRepository{db: db}
}

const cycleSelectCols = "id, service_id, name, description, period_from, period_to, status, created_at, updated_at, completed_at, cancelled_at"

// scanCycle scans a cycle row into a CycleRecord.
func scanCycle(scanner interface {
	Scan(dest ...any) error
}) (*secondary.CycleRecord, error) {
	var (
		desc        sql.NullString
		createdAt   time.Time
		updatedAt   time.Time
		completedAt sql.NullTime
		cancelledAt sql.NullTime
	)

	record := &secondary.CycleRecord{}
	err := scanner.Scan(
		&record.ID, &record.ServiceID, &record.Name, &desc,
		&record.PeriodFrom, &record.PeriodTo, &record.Status,
		&createdAt, &updatedAt, &completedAt, &cancelledAt,
	)
	if err != nil {
		return nil, err
	}

	record.Description = desc.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)
	if completedAt.Valid {
		record.CompletedAt = completedAt.Time.Format(time.RFC3339)
	}
	if cancelledAt.Valid {
		record.CancelledAt = cancelledAt.Time.Format(time.RFC3339)
	}

	return record, nil
}

// Create persists a new cycle.
func (r *CycleRepository) Create(ctx context.Context, cycle *secondary.CycleRecord) error {
	var desc sql.NullString
	if cycle.Description != "" {
		desc = sql.NullString{String: cycle.Description, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO cycles (id, service_id, name, description, period_from, period_to, status) VALUES (?, ?, ?, ?, ?, ?, ?)",
		cycle.ID, cycle.ServiceID, cycle.Name, desc, cycle.PeriodFrom, cycle.PeriodTo, cycle.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to create cycle: %w", err)
	}

	return nil
}

// GetByID retrieves a cycle by its ID.
func (r *CycleRepository) GetByID(ctx context.Context, id string) (*secondary.CycleRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+cycleSelectCols+" FROM cycles WHERE id = ?",
		id,
	)

	record, err := scanCycle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cycle: %w", err)
	}

	return record, nil
}

// List retrieves cycles matching the given filters.
func (r *CycleRepository) List(ctx context.Context, filters secondary.CycleFilters) ([]*secondary.CycleRecord, error) {
	query := "SELECT " + cycleSelectCols + " FROM cycles WHERE 1=1"
	args := []any{}

	if filters.ServiceID != "" {
		query += " AND service_id = ?"
		args = append(args, filters.ServiceID)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.OverlapFrom != "" && filters.OverlapTo != "" {
		// Periods overlap when neither lies fully before the other.
		query += " AND period_from <= ? AND period_to >= ?"
		args = append(args, filters.OverlapTo, filters.OverlapFrom)
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cycles: %w", err)
	}
	defer rows.Close()

	var cycles []*secondary.CycleRecord
	for rows.Next() {
		record, err := scanCycle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cycle: %w", err)
		}
		cycles = append(cycles, record)
	}

	return cycles, rows.Err()
}

// ListNames returns id/name pairs for every cycle of a service.
func (r *CycleRepository) ListNames(ctx context.Context, serviceID string) ([]secondary.CycleName, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name FROM cycles WHERE service_id = ?",
		serviceID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cycle names: %w", err)
	}
	defer rows.Close()

	var names []secondary.CycleName
	for rows.Next() {
		var n secondary.CycleName
		if err := rows.Scan(&n.ID, &n.Name); err != nil {
			return nil, fmt.Errorf("failed to scan cycle name: %w", err)
		}
		names = append(names, n)
	}

	return names, rows.Err()
}

// Update updates name, period, and description of a cycle.
func (r *CycleRepository) Update(ctx context.Context, cycle *secondary.CycleRecord) error {
	var desc sql.NullString
	if cycle.Description != "" {
		desc = sql.NullString{String: cycle.Description, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		"UPDATE cycles SET name = ?, description = ?, period_from = ?, period_to = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		cycle.Name, desc, cycle.PeriodFrom, cycle.PeriodTo, cycle.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cycle: %w", err)
	}

	return nil
}

// UpdateStatus updates the stored status and terminal timestamps.
func (r *CycleRepository) UpdateStatus(ctx context.Context, id, status string, setCompleted, setCancelled bool) error {
	query := "UPDATE cycles SET status = ?, updated_at = CURRENT_TIMESTAMP"
	args := []any{status}

	if setCompleted {
		query += ", completed_at = CURRENT_TIMESTAMP"
	}
	if setCancelled {
		query += ", cancelled_at = CURRENT_TIMESTAMP"
	}

	query += " WHERE id = ?"
	args = append(args, id)

	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update cycle status: %w", err)
	}

	return nil
}

// GetNextID returns the next available cycle ID.
func (r *CycleRepository) GetNextID(ctx context.Context) (string, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cycles").Scan(&count)
	if err != nil {
		return "", fmt.Errorf("failed to count cycles: %w", err)
	}
	return fmt.Sprintf("CYC-%03d", count+1), nil
}

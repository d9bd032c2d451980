package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/meterdesk/internal/ports/secondary"
)

// ExportReceiptRepository implements secondary.ExportReceiptRepository
// with SQLite.
type ExportReceiptRepository struct {
	db *sql.DB
}

// NewExportReceiptRepository creates a new SQLite export receipt repository.
func NewExportReceiptRepository(db *sql.DB) *ExportReceiptRepository {
	return &ExportReceiptRepository{db: db}
}

// Create persists a receipt for a successful export.
func (r *ExportReceiptRepository) Create(ctx context.Context, receipt *secondary.ExportReceiptRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO export_receipts (id, cycle_id, total_readings, invoices_created) VALUES (?, ?, ?, ?)",
		receipt.ID, receipt.CycleID, receipt.TotalReadings, receipt.InvoicesCreated,
	)
	if err != nil {
		return fmt.Errorf("failed to create export receipt: %w", err)
	}

	return nil
}

// ListByCycle retrieves all receipts for a cycle, newest first.
func (r *ExportReceiptRepository) ListByCycle(ctx context.Context, cycleID string) ([]*secondary.ExportReceiptRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, cycle_id, total_readings, invoices_created, created_at FROM export_receipts WHERE cycle_id = ? ORDER BY created_at DESC",
		cycleID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list export receipts: %w", err)
	}
	defer rows.Close()

	var receipts []*secondary.ExportReceiptRecord
	for rows.Next() {
		var createdAt time.Time
		record := &secondary.ExportReceiptRecord{}
		if err := rows.Scan(&record.ID, &record.CycleID, &record.TotalReadings, &record.InvoicesCreated, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan export receipt: %w", err)
		}
		record.CreatedAt = createdAt.Format(time.RFC3339)
		receipts = append(receipts, record)
	}

	return receipts, rows.Err()
}

package app

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/example/meterdesk/internal/core/cycle"
	"github.com/example/meterdesk/internal/core/export"
	"github.com/example/meterdesk/internal/faults"
	"github.com/example/meterdesk/internal/locking"
	"github.com/example/meterdesk/internal/logging"
	"github.com/example/meterdesk/internal/ports/primary"
	"github.com/example/meterdesk/internal/ports/secondary"
)

// ExportServiceImpl implements the ExportService interface.
type ExportServiceImpl struct {
	cycleRepo      secondary.CycleRepository
	assignmentRepo secondary.AssignmentRepository
	receipts       secondary.ExportReceiptRepository
	exporter       secondary.InvoiceExporter
	progress       primary.ProgressService
	locks          *locking.Keyed
}

// NewExportService creates a new ExportService with injected dependencies.
func NewExportService(
	cycleRepo secondary.CycleRepository,
	assignmentRepo secondary.AssignmentRepository,
	receipts secondary.ExportReceiptRepository,
	exporter secondary.InvoiceExporter,
	progress primary.ProgressService,
	locks *locking.Keyed,
) *ExportServiceImpl {
	return &ExportServiceImpl{
		cycleRepo:      cycleRepo,
		assignmentRepo: assignmentRepo,
		receipts:       receipts,
		exporter:       exporter,
		progress:       progress,
		locks:          locks,
	}
}

// ExportCycle sends a gated-complete cycle to the invoicing service. The
// gate re-checks inside the per-cycle lock. On invoicing failure the
// error surfaces as ExportFailedError and no state changes; re-exporting
// an already-exported cycle is not blocked, only recorded.
func (s *ExportServiceImpl) ExportCycle(ctx context.Context, cycleID string) (*primary.ExportResult, error) {
	unlock := s.locks.Lock(cycleID)
	defer unlock()

	cycleRecord, err := s.cycleRepo.GetByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if cycleRecord == nil {
		return nil, faults.NotFound("cycle", cycleID)
	}

	count, err := s.assignmentRepo.CountByCycle(ctx, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to count assignments: %w", err)
	}
	derived := cycle.DeriveStatus(cycle.Status(cycleRecord.Status), count)

	// An already-completed cycle needs no progress re-check; an active
	// one is eligible only if it would pass completion right now.
	eligibleNow := false
	if derived.Active() {
		prog, err := s.progress.CycleProgress(ctx, cycleID)
		if err != nil {
			return nil, err
		}
		eligibleNow = prog.AllComplete
	}

	guard := export.CanExport(export.ExportContext{
		CycleID:     cycleID,
		Status:      derived,
		EligibleNow: eligibleNow,
	})
	if !guard.Allowed {
		return nil, &faults.PreconditionFailedError{Msg: guard.Reason}
	}

	referenceID := uuid.NewString()
	summary, err := s.exporter.Export(ctx, cycleID, referenceID)
	if err != nil {
		return nil, err
	}

	receipt := &secondary.ExportReceiptRecord{
		ID:              referenceID,
		CycleID:         cycleID,
		TotalReadings:   summary.TotalReadings,
		InvoicesCreated: summary.InvoicesCreated,
	}
	if err := s.receipts.Create(ctx, receipt); err != nil {
		// The export itself succeeded; a missing receipt only loses
		// audit visibility.
		logging.Log.WithField("cycleId", cycleID).WithError(err).Warn("failed to record export receipt")
	}

	logging.Log.WithField("cycleId", cycleID).
		WithField("referenceId", referenceID).
		WithField("invoicesCreated", summary.InvoicesCreated).
		Info("cycle exported")

	return &primary.ExportResult{
		CycleID:         cycleID,
		ReferenceID:     referenceID,
		TotalReadings:   summary.TotalReadings,
		InvoicesCreated: summary.InvoicesCreated,
	}, nil
}

// ListExports lists the export receipts recorded for a cycle.
func (s *ExportServiceImpl) ListExports(ctx context.Context, cycleID string) ([]*primary.ExportReceipt, error) {
	cycleRecord, err := s.cycleRepo.GetByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if cycleRecord == nil {
		return nil, faults.NotFound("cycle", cycleID)
	}

	records, err := s.receipts.ListByCycle(ctx, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list export receipts: %w", err)
	}

	receipts := make([]*primary.ExportReceipt, 0, len(records))
	for _, record := range records {
		receipts = append(receipts, &primary.ExportReceipt{
			ReferenceID:     record.ID,
			CycleID:         record.CycleID,
			TotalReadings:   record.TotalReadings,
			InvoicesCreated: record.InvoicesCreated,
			ExportedAt:      record.CreatedAt,
		})
	}
	return receipts, nil
}

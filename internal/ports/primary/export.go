package primary

import "context"

// ExportService defines the primary port for the export trigger. Export
// is all-or-nothing from this core's perspective: on invoicing-service
// failure the error is surfaced and no state changes.
type ExportService interface {
	// ExportCycle sends a gated-complete cycle to the invoicing service
	// and returns its summary counts.
	ExportCycle(ctx context.Context, cycleID string) (*ExportResult, error)

	// ListExports lists the export receipts recorded for a cycle,
	// newest first.
	ListExports(ctx context.Context, cycleID string) ([]*ExportReceipt, error)
}

// ExportResult is the outcome of one export run.
type ExportResult struct {
	CycleID         string `json:"cycleId"`
	ReferenceID     string `json:"referenceId"`
	TotalReadings   int    `json:"totalReadings"`
	InvoicesCreated int    `json:"invoicesCreated"`
}

// ExportReceipt is a recorded past export run. Receipts exist so that
// re-exports, which this core does not block, are at least visible.
type ExportReceipt struct {
	ReferenceID     string `json:"referenceId"`
	CycleID         string `json:"cycleId"`
	TotalReadings   int    `json:"totalReadings"`
	InvoicesCreated int    `json:"invoicesCreated"`
	ExportedAt      string `json:"exportedAt"`
}

package upstream

import (
	"context"
	"time"

	"github.com/example/meterdesk/internal/faults"
	"github.com/example/meterdesk/internal/ports/secondary"
)

// InvoiceExporterClient implements secondary.InvoiceExporter over HTTP.
type InvoiceExporterClient struct {
	client
}

// NewInvoiceExporterClient creates an invoicing-service client against
// baseURL.
func NewInvoiceExporterClient(baseURL string, timeout time.Duration) *InvoiceExporterClient {
	return &InvoiceExporterClient{client: newClient(baseURL, timeout)}
}

// Export asks the invoicing service to bill the cycle. Any failure after
// this point is an ExportFailedError; the caller leaves cycle and
// assignment state untouched when it sees one.
func (c *InvoiceExporterClient) Export(ctx context.Context, cycleID, referenceID string) (*secondary.ExportSummary, error) {
	body := struct {
		CycleID     string `json:"cycleId"`
		ReferenceID string `json:"referenceId"`
	}{CycleID: cycleID, ReferenceID: referenceID}

	var summary secondary.ExportSummary
	if err := c.postJSON(ctx, "/exports", body, &summary); err != nil {
		return nil, faults.ExportFailed(cycleID, err)
	}
	return &summary, nil
}

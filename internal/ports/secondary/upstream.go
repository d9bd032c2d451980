package secondary

import "context"

// UnitDirectory defines the secondary port onto the unit-directory
// service, the authoritative source of billable units. The core only
// reads from it.
type UnitDirectory interface {
	// ListUnits retrieves all units of a building.
	ListUnits(ctx context.Context, buildingID string) ([]Unit, error)
}

// Unit is a billable unit as reported by the unit directory.
type Unit struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Floor  int    `json:"floor"`
	Status string `json:"status"`
}

// UnitStatusActive marks a unit as billable. Anything else is excluded
// from assignment scope resolution.
const UnitStatusActive = "ACTIVE"

// MeterRegistry defines the secondary port onto the meter-registry
// service. Reading submission happens in field-staff flows outside this
// core; only the resulting last-reading dates are observed here.
type MeterRegistry interface {
	// ListMeters retrieves the meters of a building for one service,
	// one meter per unit.
	ListMeters(ctx context.Context, buildingID, serviceID string) ([]Meter, error)
}

// Meter is a unit's meter as reported by the meter registry.
// LastReadingDate is a YYYY-MM-DD date, empty when never read.
type Meter struct {
	ID              string `json:"id"`
	UnitID          string `json:"unitId"`
	LastReadingDate string `json:"lastReadingDate"`
}

// InvoiceExporter defines the secondary port onto the invoicing service
// that converts a completed cycle into invoices.
type InvoiceExporter interface {
	// Export asks the invoicing service to bill the cycle. ReferenceID
	// identifies this export run to the invoicing service.
	Export(ctx context.Context, cycleID, referenceID string) (*ExportSummary, error)
}

// ExportSummary is the invoicing service's report of one export run.
type ExportSummary struct {
	TotalReadings   int `json:"totalReadings"`
	InvoicesCreated int `json:"invoicesCreated"`
}

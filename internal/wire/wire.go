// Package wire provides dependency injection for the application. It
// creates singleton services with lazy initialization.
package wire

import (
	"log"
	"sync"

	"github.com/example/meterdesk/internal/adapters/sqlite"
	"github.com/example/meterdesk/internal/adapters/upstream"
	"github.com/example/meterdesk/internal/app"
	"github.com/example/meterdesk/internal/config"
	"github.com/example/meterdesk/internal/db"
	"github.com/example/meterdesk/internal/locking"
	"github.com/example/meterdesk/internal/ports/primary"
)

var (
	cfg               *config.Config
	cycleService      primary.CycleService
	assignmentService primary.AssignmentService
	progressService   primary.ProgressService
	exportService     primary.ExportService
	once              sync.Once
)

// Init stores the loaded configuration. Must be called before any
// service accessor.
func Init(c *config.Config) {
	cfg = c
	if c.DBPath != "" {
		db.SetPath(c.DBPath)
	}
}

// Config returns the configuration passed to Init.
func Config() *config.Config {
	return cfg
}

// CycleService returns the singleton CycleService instance.
func CycleService() primary.CycleService {
	once.Do(initServices)
	return cycleService
}

// AssignmentService returns the singleton AssignmentService instance.
func AssignmentService() primary.AssignmentService {
	once.Do(initServices)
	return assignmentService
}

// ProgressService returns the singleton ProgressService instance.
func ProgressService() primary.ProgressService {
	once.Do(initServices)
	return progressService
}

// ExportService returns the singleton ExportService instance.
func ExportService() primary.ExportService {
	once.Do(initServices)
	return exportService
}

// initServices initializes all services and their dependencies.
// This is called once via sync.Once.
func initServices() {
	if cfg == nil {
		log.Fatal("wire.Init was not called")
	}

	database, err := db.GetDB()
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// Repository adapters (secondary ports) with injected DB
	cycleRepo := sqlite.NewCycleRepository(database)
	assignmentRepo := sqlite.NewAssignmentRepository(database)
	receiptRepo := sqlite.NewExportReceiptRepository(database)

	// Upstream HTTP clients
	units := upstream.NewUnitDirectoryClient(cfg.UnitDirectoryURL, cfg.UpstreamTimeout)
	meters := upstream.NewMeterRegistryClient(cfg.MeterRegistryURL, cfg.UpstreamTimeout)
	exporter := upstream.NewInvoiceExporterClient(cfg.InvoiceExportURL, cfg.UpstreamTimeout)

	// One lock table serializes gated mutations per cycle across all
	// services.
	locks := locking.NewKeyed()

	progressService = app.NewProgressService(cycleRepo, assignmentRepo, units, meters)
	cycleService = app.NewCycleService(cycleRepo, assignmentRepo, progressService, locks)
	assignmentService = app.NewAssignmentService(cycleRepo, assignmentRepo, units, progressService, locks)
	exportService = app.NewExportService(cycleRepo, assignmentRepo, receiptRepo, exporter, progressService, locks)
}

package db

// SchemaSQL is the complete schema for fresh meterdesk installs.
//
// This is the single source of truth for the database schema. All tests
// load it via GetSchemaSQL() so repository code and tests can never drift:
// a repository referencing a missing column fails immediately with
// "no such column" at test time.
const SchemaSQL = `
-- Reading cycles (billing periods)
CREATE TABLE IF NOT EXISTS cycles (
	id TEXT PRIMARY KEY,
	service_id TEXT NOT NULL,
	name TEXT NOT NULL,
	description TEXT,
	period_from TEXT NOT NULL,
	period_to TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('OPEN', 'COMPLETED', 'CANCELLED')) DEFAULT 'OPEN',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	completed_at DATETIME,
	cancelled_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_cycles_service ON cycles(service_id);

-- Meter reading assignments (partitions of a cycle's unit set)
CREATE TABLE IF NOT EXISTS assignments (
	id TEXT PRIMARY KEY,
	cycle_id TEXT NOT NULL,
	service_id TEXT NOT NULL,
	building_id TEXT NOT NULL,
	floor_from INTEGER,
	floor_to INTEGER,
	assigned_to TEXT NOT NULL,
	start_date TEXT NOT NULL,
	end_date TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('PENDING', 'IN_PROGRESS', 'COMPLETED', 'CANCELLED')) DEFAULT 'PENDING',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	completed_at DATETIME,
	FOREIGN KEY (cycle_id) REFERENCES cycles(id)
);

CREATE INDEX IF NOT EXISTS idx_assignments_cycle ON assignments(cycle_id);

-- Frozen unit sets, resolved once at assignment creation
CREATE TABLE IF NOT EXISTS assignment_units (
	assignment_id TEXT NOT NULL,
	unit_id TEXT NOT NULL,
	PRIMARY KEY (assignment_id, unit_id),
	FOREIGN KEY (assignment_id) REFERENCES assignments(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_assignment_units_unit ON assignment_units(unit_id);

-- Export receipts (one row per successful export run)
CREATE TABLE IF NOT EXISTS export_receipts (
	id TEXT PRIMARY KEY,
	cycle_id TEXT NOT NULL,
	total_readings INTEGER NOT NULL,
	invoices_created INTEGER NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (cycle_id) REFERENCES cycles(id)
);

CREATE INDEX IF NOT EXISTS idx_export_receipts_cycle ON export_receipts(cycle_id);
`

// GetSchemaSQL returns the authoritative schema. Tests use this instead of
// hardcoding CREATE TABLE statements.
func GetSchemaSQL() string {
	return SchemaSQL
}

// InitSchema creates all tables if they do not exist.
func InitSchema() error {
	database, err := GetDB()
	if err != nil {
		return err
	}

	_, err = database.Exec(SchemaSQL)
	return err
}

package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

var db *sql.DB

var dbInitialized bool

// dbPath overrides the default database location when set via SetPath.
var dbPath string

// SetPath overrides the database file location. Must be called before the
// first GetDB; wire calls it with the configured path.
func SetPath(path string) {
	dbPath = path
}

// GetDB returns the database connection, initializing if needed
func GetDB() (*sql.DB, error) {
	if db != nil {
		return db, nil
	}

	path, err := resolvePath()
	if err != nil {
		return nil, err
	}

	// Ensure the parent directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Open database connection
	db, err = sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	// Run migrations on first connection (but avoid recursion)
	if !dbInitialized {
		dbInitialized = true
		if err := InitSchema(); err != nil {
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	return db, nil
}

// Close closes the database connection
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// GetDBPath returns the path to the database file
func GetDBPath() (string, error) {
	return resolvePath()
}

func resolvePath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".meterdesk", "meterdesk.db"), nil
}

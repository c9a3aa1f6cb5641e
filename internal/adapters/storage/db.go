package storage

import (
	"database/sql"
	"fmt"
)

// baselineSchema is the schema created by migration 1.
const baselineSchema = `
	CREATE TABLE IF NOT EXISTS storage_slot (
		slot TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

// InitDB initializes the database schema.
// PRE: db is a valid database connection
// POST: All tables are created, WAL mode enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(baselineSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// migration applies one schema version step.
type migration struct {
	version int
	apply   func(db *sql.DB) error
}

// migrations is the ordered chain of schema changes. Append only.
var migrations = []migration{
	{
		version: 1,
		apply: func(db *sql.DB) error {
			_, err := db.Exec(baselineSchema)
			return err
		},
	},
}

// LatestSchemaVersion returns the highest migration version.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion reports the current schema version, 0 for an untracked database.
// PRE: db is a valid database connection
// POST: Returns the highest applied version
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&exists)
	if err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, nil
	}
	var version int
	err = db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	return version, err
}

// MigrateDB brings the database up to the latest schema version.
// The dsn is used only for log context, migrations run on db.
// PRE: db is a valid database connection
// POST: All pending migrations applied, version recorded per step
func MigrateDB(db *sql.DB, dsn string) error {
	if err := InitDB(db); err != nil {
		return err
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := m.apply(db); err != nil {
			return fmt.Errorf("migration %d failed for %s: %w", m.version, dsn, err)
		}
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
	}

	return nil
}

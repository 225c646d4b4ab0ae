package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

type DB struct {
	*sql.DB
}

// OpenDB opens a connection to the SQLite database at path without touching
// the schema. Use this when migrations manage the schema (e.g. the migrate
// subcommand).
func OpenDB(path string) (*DB, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	db := &DB{sqldb}
	if err := db.applyPragmas(); err != nil {
		sqldb.Close()
		return nil, err
	}
	return db, nil
}

// NewDB opens the database and ensures the base schema exists. Fresh
// databases get the full current schema; existing databases are left to the
// migration machinery.
func NewDB(path string) (*DB, error) {
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS incidents (
			id                TEXT PRIMARY KEY,
			fir_number        TEXT,
			title             TEXT,
			description       TEXT,
			crime_type        TEXT,
			crime_category    TEXT,
			severity_level    TEXT,
			status            TEXT,
			location          TEXT,
			police_station    TEXT,
			latitude          DOUBLE,
			longitude         DOUBLE,
			incident_date     TEXT,
			created_at        TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
		);
		CREATE INDEX IF NOT EXISTS idx_incidents_created_at ON incidents(created_at);
		CREATE INDEX IF NOT EXISTS idx_incidents_crime_type ON incidents(crime_type);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialise schema: %w", err)
	}

	return db, nil
}

// applyPragmas sets the connection options used for every database handle.
// WAL keeps the seeder and the API server from blocking each other;
// busy_timeout papers over the brief write locks WAL still takes.
func (db *DB) applyPragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 5000;",
		"PRAGMA foreign_keys = ON;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}
	return nil
}

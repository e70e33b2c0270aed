// Package db provides the SQLite connection and schema for stripd.
package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite database connection
type DB struct {
	*sql.DB
}

// Open opens the database and initializes the schema
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &DB{db}, nil
}

// initSchema creates all required tables
func initSchema(db *sql.DB) error {
	// Non-volatile regions - one fixed-size blob per region, rewritten on commit
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS nvram (
			name TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			commits INTEGER NOT NULL DEFAULT 0,
			updated_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create nvram table: %w", err)
	}

	// Command journal - append-only history of handled commands
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS command_journal (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			request_id TEXT NOT NULL,
			command TEXT NOT NULL,
			source TEXT,
			args TEXT,
			outcome TEXT NOT NULL,
			error TEXT,
			timestamp INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_journal_ts ON command_journal(timestamp);
		CREATE INDEX IF NOT EXISTS idx_journal_command_ts ON command_journal(command, timestamp);
	`)
	if err != nil {
		return fmt.Errorf("failed to create command_journal table: %w", err)
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

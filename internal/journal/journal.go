// Package journal keeps an append-only history of handled commands.
package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// Outcome of a handled command.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeInvalid Outcome = "invalid"
	OutcomeUnknown Outcome = "unknown"
	OutcomeFailed  Outcome = "failed"
)

// Entry is one journaled command
type Entry struct {
	ID        int64
	RequestID string
	Command   string
	Source    string
	Args      map[string]string
	Outcome   Outcome
	Error     string
	Timestamp time.Time
}

// Journal appends and queries command history
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a Journal on an open database
func New(db *sql.DB) *Journal {
	return &Journal{db: db, now: time.Now}
}

// Append records a handled command
func (j *Journal) Append(e Entry) error {
	var argsJSON []byte
	if len(e.Args) > 0 {
		var err error
		argsJSON, err = json.Marshal(e.Args)
		if err != nil {
			return fmt.Errorf("failed to marshal args: %w", err)
		}
	}

	ts := e.Timestamp
	if ts.IsZero() {
		ts = j.now()
	}

	_, err := j.db.Exec(`
		INSERT INTO command_journal (request_id, command, source, args, outcome, error, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.RequestID, e.Command, e.Source, string(argsJSON), string(e.Outcome), e.Error, ts.UTC().Unix())
	return err
}

// Recent returns the latest entries, newest first
func (j *Journal) Recent(limit int) ([]*Entry, error) {
	rows, err := j.db.Query(`
		SELECT id, request_id, command, source, args, outcome, error, timestamp
		FROM command_journal
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// ByCommand returns the latest entries for one command, newest first
func (j *Journal) ByCommand(command string, limit int) ([]*Entry, error) {
	rows, err := j.db.Query(`
		SELECT id, request_id, command, source, args, outcome, error, timestamp
		FROM command_journal
		WHERE command = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, command, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// DeleteOlderThan removes entries older than retention
func (j *Journal) DeleteOlderThan(retention time.Duration) (int64, error) {
	cutoff := j.now().Add(-retention).Unix()
	result, err := j.db.Exec(`DELETE FROM command_journal WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanEntries(rows *sql.Rows) ([]*Entry, error) {
	var entries []*Entry
	for rows.Next() {
		var entry Entry
		var source, args, errStr sql.NullString
		var timestamp int64

		err := rows.Scan(
			&entry.ID, &entry.RequestID, &entry.Command, &source, &args, &entry.Outcome, &errStr, &timestamp,
		)
		if err != nil {
			return nil, err
		}

		entry.Timestamp = time.Unix(timestamp, 0).UTC()
		entry.Source = source.String
		entry.Error = errStr.String

		if args.Valid && args.String != "" {
			if err := json.Unmarshal([]byte(args.String), &entry.Args); err != nil {
				return nil, fmt.Errorf("failed to unmarshal args: %w", err)
			}
		}

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

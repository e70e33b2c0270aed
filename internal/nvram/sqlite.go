package nvram

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// SQLite is a Storage persisted as a single blob row in the nvram table.
type SQLite struct {
	shadow
	db   *sql.DB
	name string
}

// OpenSQLite loads the region called name. A missing row, a read failure or a
// blob of the wrong size all yield an erased region: content validity is the
// persistence layer's concern, not the medium's.
func OpenSQLite(db *sql.DB, name string, size int) *SQLite {
	s := &SQLite{
		shadow: newShadow(size),
		db:     db,
		name:   name,
	}

	var data []byte
	err := db.QueryRow(`SELECT data FROM nvram WHERE name = ?`, name).Scan(&data)
	switch {
	case err == sql.ErrNoRows:
		log.Debug().Str("region", name).Msg("NV region not found, starting erased")
	case err != nil:
		log.Warn().Err(err).Str("region", name).Msg("Failed to read NV region, starting erased")
	case len(data) != size:
		log.Warn().
			Str("region", name).
			Int("stored_size", len(data)).
			Int("size", size).
			Msg("NV region size changed, starting erased")
	default:
		copy(s.data, data)
	}

	return s
}

// Commit writes the shadow image back when it changed.
func (s *SQLite) Commit() error {
	if !s.dirty {
		return nil
	}

	now := time.Now().UTC().Unix()
	_, err := s.db.Exec(`
		INSERT INTO nvram (name, data, commits, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(name) DO UPDATE SET
			data = excluded.data,
			commits = commits + 1,
			updated_at = excluded.updated_at
	`, s.name, s.data, now)
	if err != nil {
		return fmt.Errorf("failed to commit NV region %q: %w", s.name, err)
	}

	s.dirty = false
	log.Debug().Str("region", s.name).Int("size", len(s.data)).Msg("NV region committed")
	return nil
}

// Erase resets the region and commits.
func (s *SQLite) Erase() error {
	s.shadow.Erase()
	return s.Commit()
}

package store

import (
	"database/sql"
	"time"

	"github.com/soundslike/guesstrack/internal/domain"
)

// StartSession closes any open session row and opens a new one, returning
// the new session id.
func (db *DB) StartSession(now time.Time) (int64, error) {
	if _, err := db.Exec(`UPDATE sessions SET end_time = ? WHERE end_time IS NULL`, now.UTC()); err != nil {
		return 0, err
	}
	res, err := db.Exec(`INSERT INTO sessions (start_time) VALUES (?)`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// CurrentSession returns the open session row, or nil when none is open.
func (db *DB) CurrentSession() (*domain.Session, error) {
	query := `SELECT session_id, start_time, end_time FROM sessions
		WHERE end_time IS NULL ORDER BY session_id DESC LIMIT 1`

	var sess domain.Session
	err := db.Get(&sess, query)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

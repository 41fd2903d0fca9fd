package store

import (
	"database/sql"
	"time"

	"github.com/soundslike/guesstrack/internal/domain"
)

// CreateGameHistory opens the audit row for a newly started game and returns
// its assigned game id.
func (db *DB) CreateGameHistory(track, artist string, startTime time.Time) (int64, error) {
	query := `INSERT INTO game_history (track, artist, start_time, total_guesses) VALUES (?, ?, ?, 0)`
	res, err := db.Exec(query, track, artist, startTime.UTC())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// IncrementGuessCount bumps the per-game guess counter.
func (db *DB) IncrementGuessCount(gameID int64) error {
	_, err := db.Exec(`UPDATE game_history SET total_guesses = total_guesses + 1 WHERE game_id = ?`, gameID)
	return err
}

// CloseGameHistory stamps the end of a game. solver is empty for games that
// ended without being solved.
func (db *DB) CloseGameHistory(gameID int64, endReason string, solver string, endTime time.Time) error {
	var solverArg interface{}
	if solver != "" {
		solverArg = solver
	}
	query := `UPDATE game_history SET end_time = ?, end_reason = ?, solver_username = ? WHERE game_id = ?`
	_, err := db.Exec(query, endTime.UTC(), endReason, solverArg, gameID)
	return err
}

// GetGameHistory returns one game's audit row, or nil when unknown.
func (db *DB) GetGameHistory(gameID int64) (*domain.GameHistory, error) {
	query := `SELECT game_id, track, artist, start_time, end_time, end_reason, solver_username, total_guesses
		FROM game_history WHERE game_id = ?`

	var hist domain.GameHistory
	err := db.Get(&hist, query, gameID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &hist, nil
}

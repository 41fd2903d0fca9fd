package store

import (
	"database/sql"

	"github.com/soundslike/guesstrack/internal/domain"
)

// AppendGuess writes one row of the append-only guess log and fills in the
// record's assigned id.
func (db *DB) AppendGuess(rec *domain.GuessRecord) error {
	query := `INSERT INTO guesses (game_id, username, guess, guess_type, correct, points_awarded, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := db.Exec(query,
		rec.GameID, rec.Username, rec.Guess, string(rec.GuessType),
		rec.Correct, rec.PointsAwarded, rec.Timestamp.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = id
	return nil
}

// LatestGuess returns the most recent guess for a game, or nil when the game
// has no guesses yet.
func (db *DB) LatestGuess(gameID int64) (*domain.GuessRecord, error) {
	query := `SELECT id, game_id, username, guess, guess_type, correct, points_awarded, timestamp
		FROM guesses WHERE game_id = ? ORDER BY id DESC LIMIT 1`

	var rec domain.GuessRecord
	err := db.Get(&rec, query, gameID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GuessesForGame returns a game's guess log in insertion order.
func (db *DB) GuessesForGame(gameID int64) ([]domain.GuessRecord, error) {
	query := `SELECT id, game_id, username, guess, guess_type, correct, points_awarded, timestamp
		FROM guesses WHERE game_id = ? ORDER BY id ASC`

	var recs []domain.GuessRecord
	if err := db.Select(&recs, query, gameID); err != nil {
		return nil, err
	}
	return recs, nil
}

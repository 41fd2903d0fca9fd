package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/soundslike/guesstrack/internal/domain"
)

// leaderboardColumns whitelists the score/solve column pair per leaderboard
// kind. The caller's kind string is never interpolated into SQL directly.
var leaderboardColumns = map[domain.LeaderboardKind]struct {
	score  string
	solves string
}{
	domain.LeaderboardSession: {score: "session_score", solves: "session_solves"},
	domain.LeaderboardAllTime: {score: "all_time_score", solves: "all_time_solves"},
}

// ApplyGuessToScore upserts a user's counters for one processed guess:
// points added to both scopes, guess counters incremented, solve counters
// incremented when the guess completed a game.
func (db *DB) ApplyGuessToScore(username string, points int, solved bool, now time.Time) error {
	solveInc := 0
	if solved {
		solveInc = 1
	}
	query := `INSERT INTO user_scores
		(username, session_score, all_time_score, session_solves, all_time_solves, session_guesses, all_time_guesses, last_updated)
		VALUES (?, ?, ?, ?, ?, 1, 1, ?)
		ON CONFLICT(username) DO UPDATE SET
			session_score = session_score + excluded.session_score,
			all_time_score = all_time_score + excluded.all_time_score,
			session_solves = session_solves + excluded.session_solves,
			all_time_solves = all_time_solves + excluded.all_time_solves,
			session_guesses = session_guesses + 1,
			all_time_guesses = all_time_guesses + 1,
			last_updated = excluded.last_updated`
	_, err := db.Exec(query, username, points, points, solveInc, solveInc, now.UTC())
	return err
}

// GetUserStats returns a user's counters, or nil for an unknown user.
// Lookup is case-insensitive via the column collation.
func (db *DB) GetUserStats(username string) (*domain.UserScore, error) {
	query := `SELECT username, session_score, all_time_score, session_solves, all_time_solves,
		session_guesses, all_time_guesses, last_updated
		FROM user_scores WHERE username = ?`

	var score domain.UserScore
	err := db.Get(&score, query, username)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &score, nil
}

// Leaderboard returns up to limit users ordered by score descending, ties
// broken by solve count descending, ranked 1..N.
func (db *DB) Leaderboard(kind domain.LeaderboardKind, limit int) ([]domain.LeaderboardEntry, error) {
	cols, ok := leaderboardColumns[kind]
	if !ok {
		return nil, fmt.Errorf("unknown leaderboard kind: %s", kind)
	}

	query := fmt.Sprintf(`SELECT username, %s AS score, %s AS solves
		FROM user_scores ORDER BY score DESC, solves DESC LIMIT ?`, cols.score, cols.solves)

	var entries []domain.LeaderboardEntry
	if err := db.Select(&entries, query, limit); err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

// ResetSessionScores zeroes every user's session-scoped counters, leaving
// the all-time counters untouched.
func (db *DB) ResetSessionScores() error {
	_, err := db.Exec(`UPDATE user_scores SET session_score = 0, session_solves = 0, session_guesses = 0`)
	return err
}

// ClearScores removes every user row. Destructive; used by the
// administrative leaderboard clear.
func (db *DB) ClearScores() error {
	_, err := db.Exec(`DELETE FROM user_scores`)
	return err
}

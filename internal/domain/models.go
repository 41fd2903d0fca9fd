package domain

import (
	"time"
)

// Game is the singleton current-game row. Exactly one row exists at a time;
// StartNewGame replaces it wholesale rather than merging fields.
type Game struct {
	ID              int        `json:"id" db:"id"`
	Track           string     `json:"track" db:"track"`
	Artist          string     `json:"artist" db:"artist"`
	MaskedTrack     string     `json:"masked_track" db:"masked_track"`
	MaskedArtist    string     `json:"masked_artist" db:"masked_artist"`
	RevealedLetters LetterSet  `json:"revealed_letters" db:"-"`
	StartTime       time.Time  `json:"start_time" db:"start_time"`
	Status          GameStatus `json:"status" db:"status"`
	MaxDuration     int        `json:"max_duration" db:"max_duration"`
	GameID          int64      `json:"game_id" db:"game_id"`
	DifficultyBonus bool       `json:"difficulty_bonus" db:"difficulty_bonus"`
	TrackSolved     bool       `json:"track_solved" db:"track_solved"`
	ArtistSolved    bool       `json:"artist_solved" db:"artist_solved"`
}

// GuessRecord is one row of the append-only guess log.
type GuessRecord struct {
	ID            int64     `json:"id" db:"id"`
	GameID        int64     `json:"game_id" db:"game_id"`
	Username      string    `json:"username" db:"username"`
	Guess         string    `json:"guess" db:"guess"`
	GuessType     GuessType `json:"guess_type" db:"guess_type"`
	Correct       bool      `json:"correct" db:"correct"`
	PointsAwarded int       `json:"points_awarded" db:"points_awarded"`
	Timestamp     time.Time `json:"timestamp" db:"timestamp"`
}

// UserScore holds a user's cumulative counters. Usernames are case-insensitive.
type UserScore struct {
	Username       string    `json:"username" db:"username"`
	SessionScore   int       `json:"session_score" db:"session_score"`
	AllTimeScore   int       `json:"all_time_score" db:"all_time_score"`
	SessionSolves  int       `json:"session_solves" db:"session_solves"`
	AllTimeSolves  int       `json:"all_time_solves" db:"all_time_solves"`
	SessionGuesses int       `json:"session_guesses" db:"session_guesses"`
	AllTimeGuesses int       `json:"all_time_guesses" db:"all_time_guesses"`
	LastUpdated    time.Time `json:"last_updated" db:"last_updated"`
}

// GameHistory is the audit row for one started game.
type GameHistory struct {
	GameID         int64      `json:"game_id" db:"game_id"`
	Track          string     `json:"track" db:"track"`
	Artist         string     `json:"artist" db:"artist"`
	StartTime      time.Time  `json:"start_time" db:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty" db:"end_time"`
	EndReason      *string    `json:"end_reason,omitempty" db:"end_reason"`
	SolverUsername *string    `json:"solver_username,omitempty" db:"solver_username"`
	TotalGuesses   int        `json:"total_guesses" db:"total_guesses"`
}

// Session marks a session boundary for session-vs-all-time partitioning.
type Session struct {
	SessionID int64      `json:"session_id" db:"session_id"`
	StartTime time.Time  `json:"start_time" db:"start_time"`
	EndTime   *time.Time `json:"end_time,omitempty" db:"end_time"`
}

// GuessResult is the classifier's verdict for a single processed guess.
type GuessResult struct {
	Correct        bool      `json:"correct"`
	GuessType      GuessType `json:"guess_type"`
	Points         int       `json:"points"`
	MaskedTrack    string    `json:"masked_track"`
	MaskedArtist   string    `json:"masked_artist"`
	Solved         bool      `json:"solved"`
	TrackSolved    bool      `json:"track_solved"`
	ArtistSolved   bool      `json:"artist_solved"`
	SolveType      SolveType `json:"solve_type,omitempty"`
	AlreadyGuessed bool      `json:"already_guessed"`
}

// StateSnapshot is the broadcast payload for the current game.
// Track, Artist and SolverUsername stay empty while the game is active so the
// answer never leaks into a live broadcast.
type StateSnapshot struct {
	Status           GameStatus   `json:"status"`
	MaskedTrack      string       `json:"masked_track"`
	MaskedArtist     string       `json:"masked_artist"`
	ElapsedSeconds   int          `json:"elapsed_seconds"`
	RemainingSeconds int          `json:"remaining_seconds"`
	Track            string       `json:"track,omitempty"`
	Artist           string       `json:"artist,omitempty"`
	SolverUsername   string       `json:"solver_username,omitempty"`
	LastGuess        *GuessRecord `json:"last_guess,omitempty"`
}

// LeaderboardEntry is one ranked row of a leaderboard payload.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Solves   int    `json:"solves"`
}

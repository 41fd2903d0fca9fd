package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/soundslike/guesstrack/internal/constants"
	"github.com/soundslike/guesstrack/internal/domain"
)

// gameRow mirrors the current_game table; revealed_letters is stored as a
// JSON array of single-character strings.
type gameRow struct {
	ID              int       `db:"id"`
	Track           string    `db:"track"`
	Artist          string    `db:"artist"`
	MaskedTrack     string    `db:"masked_track"`
	MaskedArtist    string    `db:"masked_artist"`
	RevealedLetters string    `db:"revealed_letters"`
	StartTime       time.Time `db:"start_time"`
	Status          string    `db:"status"`
	MaxDuration     int       `db:"max_duration"`
	GameID          int64     `db:"game_id"`
	DifficultyBonus bool      `db:"difficulty_bonus"`
	TrackSolved     bool      `db:"track_solved"`
	ArtistSolved    bool      `db:"artist_solved"`
}

func (row *gameRow) toDomain() (*domain.Game, error) {
	var letters []string
	if err := json.Unmarshal([]byte(row.RevealedLetters), &letters); err != nil {
		return nil, fmt.Errorf("failed to decode revealed letters: %w", err)
	}
	return &domain.Game{
		ID:              row.ID,
		Track:           row.Track,
		Artist:          row.Artist,
		MaskedTrack:     row.MaskedTrack,
		MaskedArtist:    row.MaskedArtist,
		RevealedLetters: domain.NewLetterSet(letters...),
		StartTime:       row.StartTime,
		Status:          domain.GameStatus(row.Status),
		MaxDuration:     row.MaxDuration,
		GameID:          row.GameID,
		DifficultyBonus: row.DifficultyBonus,
		TrackSolved:     row.TrackSolved,
		ArtistSolved:    row.ArtistSolved,
	}, nil
}

func encodeLetters(set domain.LetterSet) (string, error) {
	data, err := json.Marshal(set.Letters())
	if err != nil {
		return "", fmt.Errorf("failed to encode revealed letters: %w", err)
	}
	return string(data), nil
}

// GetCurrentGame returns the singleton game row, or nil when no game has
// been started yet.
func (db *DB) GetCurrentGame() (*domain.Game, error) {
	query := `SELECT id, track, artist, masked_track, masked_artist, revealed_letters,
		start_time, status, max_duration, game_id, difficulty_bonus, track_solved, artist_solved
		FROM current_game WHERE id = ?`

	var row gameRow
	err := db.Get(&row, query, constants.CurrentGameKey)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return row.toDomain()
}

// ReplaceCurrentGame replaces the singleton row wholesale.
func (db *DB) ReplaceCurrentGame(g *domain.Game) error {
	letters, err := encodeLetters(g.RevealedLetters)
	if err != nil {
		return err
	}
	query := `INSERT OR REPLACE INTO current_game
		(id, track, artist, masked_track, masked_artist, revealed_letters,
		start_time, status, max_duration, game_id, difficulty_bonus, track_solved, artist_solved)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = db.Exec(query,
		constants.CurrentGameKey, g.Track, g.Artist, g.MaskedTrack, g.MaskedArtist, letters,
		g.StartTime.UTC(), string(g.Status), g.MaxDuration, g.GameID,
		g.DifficultyBonus, g.TrackSolved, g.ArtistSolved)
	return err
}

// UpdateCurrentGame persists the fields a processed guess can change.
func (db *DB) UpdateCurrentGame(g *domain.Game) error {
	letters, err := encodeLetters(g.RevealedLetters)
	if err != nil {
		return err
	}
	query := `UPDATE current_game SET masked_track = ?, masked_artist = ?, revealed_letters = ?,
		status = ?, track_solved = ?, artist_solved = ? WHERE id = ?`
	_, err = db.Exec(query,
		g.MaskedTrack, g.MaskedArtist, letters,
		string(g.Status), g.TrackSolved, g.ArtistSolved, constants.CurrentGameKey)
	return err
}

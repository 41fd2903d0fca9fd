package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/soundslike/guesstrack/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewSQLiteDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaVersion(t *testing.T) {
	db := newTestDB(t)

	var version int
	if err := db.Get(&version, `SELECT version FROM schema_version`); err != nil {
		t.Fatalf("Failed to read schema version: %v", err)
	}
	if version != 1 {
		t.Errorf("Expected schema version 1, got %d", version)
	}
}

func TestDB_CurrentGame(t *testing.T) {
	db := newTestDB(t)

	// No game yet
	g, err := db.GetCurrentGame()
	if err != nil {
		t.Fatalf("GetCurrentGame failed: %v", err)
	}
	if g != nil {
		t.Fatalf("Expected nil game, got %+v", g)
	}

	game := &domain.Game{
		Track:           "House of the Rising Sun",
		Artist:          "The Animals",
		MaskedTrack:     "_____ __ ___ ______ ___",
		MaskedArtist:    "___ _______",
		RevealedLetters: domain.NewLetterSet(),
		StartTime:       time.Now(),
		Status:          domain.GameStatusActive,
		MaxDuration:     120,
		GameID:          1,
		DifficultyBonus: true,
	}
	if err := db.ReplaceCurrentGame(game); err != nil {
		t.Fatalf("ReplaceCurrentGame failed: %v", err)
	}

	fetched, err := db.GetCurrentGame()
	if err != nil {
		t.Fatalf("GetCurrentGame failed: %v", err)
	}
	if fetched == nil {
		t.Fatal("Expected a game, got nil")
	}
	if fetched.Track != game.Track {
		t.Errorf("Expected track %q, got %q", game.Track, fetched.Track)
	}
	if fetched.Status != domain.GameStatusActive {
		t.Errorf("Expected status active, got %s", fetched.Status)
	}
	if !fetched.DifficultyBonus {
		t.Error("Expected difficulty bonus flag to survive the round trip")
	}

	// Mutate and update
	fetched.RevealedLetters.Add('h')
	fetched.RevealedLetters.Add('s')
	fetched.MaskedTrack = "H___s__ __ ___ ___s___ S__"
	fetched.Status = domain.GameStatusSolved
	fetched.TrackSolved = true
	if err := db.UpdateCurrentGame(fetched); err != nil {
		t.Fatalf("UpdateCurrentGame failed: %v", err)
	}

	again, err := db.GetCurrentGame()
	if err != nil {
		t.Fatalf("GetCurrentGame failed: %v", err)
	}
	if !again.RevealedLetters.Has('h') || !again.RevealedLetters.Has('s') {
		t.Errorf("Expected revealed letters to persist, got %v", again.RevealedLetters.Letters())
	}
	if again.Status != domain.GameStatusSolved {
		t.Errorf("Expected status solved, got %s", again.Status)
	}
	if !again.TrackSolved {
		t.Error("Expected track_solved to persist")
	}

	// A replace swaps the row wholesale
	game2 := &domain.Game{
		Track:           "Breezeblocks",
		Artist:          "Alt-J",
		MaskedTrack:     "____________",
		MaskedArtist:    "___-_",
		RevealedLetters: domain.NewLetterSet(),
		StartTime:       time.Now(),
		Status:          domain.GameStatusActive,
		MaxDuration:     120,
		GameID:          2,
	}
	if err := db.ReplaceCurrentGame(game2); err != nil {
		t.Fatalf("ReplaceCurrentGame failed: %v", err)
	}
	replaced, _ := db.GetCurrentGame()
	if replaced.Track != "Breezeblocks" || replaced.TrackSolved {
		t.Errorf("Expected a fresh row, got %+v", replaced)
	}
}

func TestDB_Guesses(t *testing.T) {
	db := newTestDB(t)

	rec := &domain.GuessRecord{
		GameID:        1,
		Username:      "Viewer1",
		Guess:         "house",
		GuessType:     domain.GuessTypeWord,
		Correct:       true,
		PointsAwarded: 10,
		Timestamp:     time.Now(),
	}
	if err := db.AppendGuess(rec); err != nil {
		t.Fatalf("AppendGuess failed: %v", err)
	}
	if rec.ID == 0 {
		t.Error("Expected AppendGuess to assign an id")
	}

	rec2 := &domain.GuessRecord{GameID: 1, Username: "viewer2", Guess: "z", GuessType: domain.GuessTypeLetter, Timestamp: time.Now()}
	if err := db.AppendGuess(rec2); err != nil {
		t.Fatalf("AppendGuess failed: %v", err)
	}

	latest, err := db.LatestGuess(1)
	if err != nil {
		t.Fatalf("LatestGuess failed: %v", err)
	}
	if latest == nil || latest.Guess != "z" {
		t.Errorf("Expected latest guess %q, got %+v", "z", latest)
	}

	all, err := db.GuessesForGame(1)
	if err != nil {
		t.Fatalf("GuessesForGame failed: %v", err)
	}
	if len(all) != 2 || all[0].Guess != "house" {
		t.Errorf("Expected guess log in insertion order, got %+v", all)
	}

	none, err := db.LatestGuess(99)
	if err != nil || none != nil {
		t.Errorf("Expected no guess for unknown game, got %+v, err %v", none, err)
	}
}

func TestDB_Scores(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	if err := db.ApplyGuessToScore("Alice", 10, false, now); err != nil {
		t.Fatalf("ApplyGuessToScore failed: %v", err)
	}
	// Same user, different case: must hit the same row.
	if err := db.ApplyGuessToScore("alice", 100, true, now); err != nil {
		t.Fatalf("ApplyGuessToScore failed: %v", err)
	}

	stats, err := db.GetUserStats("ALICE")
	if err != nil {
		t.Fatalf("GetUserStats failed: %v", err)
	}
	if stats == nil {
		t.Fatal("Expected stats, got nil")
	}
	if stats.SessionScore != 110 || stats.AllTimeScore != 110 {
		t.Errorf("Expected score 110/110, got %d/%d", stats.SessionScore, stats.AllTimeScore)
	}
	if stats.SessionSolves != 1 || stats.SessionGuesses != 2 {
		t.Errorf("Expected 1 solve and 2 guesses, got %d/%d", stats.SessionSolves, stats.SessionGuesses)
	}

	missing, err := db.GetUserStats("nobody")
	if err != nil || missing != nil {
		t.Errorf("Expected nil stats for unknown user, got %+v, err %v", missing, err)
	}
}

func TestDB_Leaderboard(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	db.ApplyGuessToScore("alice", 30, false, now)
	db.ApplyGuessToScore("bob", 50, true, now)
	db.ApplyGuessToScore("carol", 10, false, now)
	// dave ties alice on score but has a solve: ranks above her.
	db.ApplyGuessToScore("dave", 30, true, now)

	entries, err := db.Leaderboard(domain.LeaderboardSession, 10)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("Expected 4 entries, got %d", len(entries))
	}
	wantOrder := []string{"bob", "dave", "alice", "carol"}
	for i, want := range wantOrder {
		if entries[i].Username != want {
			t.Errorf("Expected rank %d to be %s, got %s", i+1, want, entries[i].Username)
		}
		if entries[i].Rank != i+1 {
			t.Errorf("Expected rank %d, got %d", i+1, entries[i].Rank)
		}
	}

	limited, err := db.Leaderboard(domain.LeaderboardAllTime, 2)
	if err != nil {
		t.Fatalf("Leaderboard failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("Expected limit to apply, got %d entries", len(limited))
	}

	if _, err := db.Leaderboard("weekly", 10); err == nil {
		t.Error("Expected error for unknown leaderboard kind")
	}
}

func TestDB_LeaderboardEmpty(t *testing.T) {
	db := newTestDB(t)

	entries, err := db.Leaderboard(domain.LeaderboardSession, 10)
	if err != nil {
		t.Fatalf("Leaderboard on empty table failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected empty leaderboard, got %d entries", len(entries))
	}
}

func TestDB_SessionReset(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	db.ApplyGuessToScore("alice", 42, true, now)
	if err := db.ResetSessionScores(); err != nil {
		t.Fatalf("ResetSessionScores failed: %v", err)
	}

	stats, _ := db.GetUserStats("alice")
	if stats.SessionScore != 0 || stats.SessionSolves != 0 || stats.SessionGuesses != 0 {
		t.Errorf("Expected session counters zeroed, got %+v", stats)
	}
	if stats.AllTimeScore != 42 || stats.AllTimeSolves != 1 || stats.AllTimeGuesses != 1 {
		t.Errorf("Expected all-time counters untouched, got %+v", stats)
	}

	if err := db.ClearScores(); err != nil {
		t.Fatalf("ClearScores failed: %v", err)
	}
	gone, _ := db.GetUserStats("alice")
	if gone != nil {
		t.Errorf("Expected user gone after clear, got %+v", gone)
	}
}

func TestDB_GameHistory(t *testing.T) {
	db := newTestDB(t)
	start := time.Now()

	id, err := db.CreateGameHistory("Test", "Artist", start)
	if err != nil {
		t.Fatalf("CreateGameHistory failed: %v", err)
	}
	if id == 0 {
		t.Fatal("Expected a non-zero game id")
	}

	db.IncrementGuessCount(id)
	db.IncrementGuessCount(id)

	end := start.Add(30 * time.Second)
	if err := db.CloseGameHistory(id, "solved", "alice", end); err != nil {
		t.Fatalf("CloseGameHistory failed: %v", err)
	}

	hist, err := db.GetGameHistory(id)
	if err != nil {
		t.Fatalf("GetGameHistory failed: %v", err)
	}
	if hist.TotalGuesses != 2 {
		t.Errorf("Expected 2 guesses, got %d", hist.TotalGuesses)
	}
	if hist.EndReason == nil || *hist.EndReason != "solved" {
		t.Errorf("Expected end reason solved, got %v", hist.EndReason)
	}
	if hist.SolverUsername == nil || *hist.SolverUsername != "alice" {
		t.Errorf("Expected solver alice, got %v", hist.SolverUsername)
	}
	if hist.EndTime == nil {
		t.Error("Expected end time to be set")
	}

	// Unsolved close leaves the solver NULL.
	id2, _ := db.CreateGameHistory("Other", "Artist", start)
	db.CloseGameHistory(id2, "timeout", "", end)
	hist2, _ := db.GetGameHistory(id2)
	if hist2.SolverUsername != nil {
		t.Errorf("Expected nil solver, got %v", *hist2.SolverUsername)
	}

	none, err := db.GetGameHistory(999)
	if err != nil || none != nil {
		t.Errorf("Expected nil history for unknown game, got %+v, err %v", none, err)
	}
}

func TestDB_Sessions(t *testing.T) {
	db := newTestDB(t)
	now := time.Now()

	id1, err := db.StartSession(now)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	sess, err := db.CurrentSession()
	if err != nil {
		t.Fatalf("CurrentSession failed: %v", err)
	}
	if sess == nil || sess.SessionID != id1 {
		t.Errorf("Expected open session %d, got %+v", id1, sess)
	}

	// A new session closes the previous one.
	id2, err := db.StartSession(now.Add(time.Hour))
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	sess, _ = db.CurrentSession()
	if sess == nil || sess.SessionID != id2 {
		t.Errorf("Expected open session %d, got %+v", id2, sess)
	}
}

func TestDB_RunInTxRollback(t *testing.T) {
	db := newTestDB(t)
	boom := errors.New("boom")

	err := db.RunInTx(context.Background(), func(tx *DB) error {
		if err := tx.ApplyGuessToScore("alice", 10, false, time.Now()); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected the callback error, got %v", err)
	}

	stats, _ := db.GetUserStats("alice")
	if stats != nil {
		t.Errorf("Expected rollback to discard the write, got %+v", stats)
	}
}

// Package app hosts the game lifecycle controller: the only component that
// writes the shared store. Every mutating operation runs as one transaction
// with retry-with-backoff on contention, so independent processes (track
// poller, chat bot, web broadcaster) can share the database file safely.
package app

import (
	"context"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/soundslike/guesstrack/internal/clock"
	"github.com/soundslike/guesstrack/internal/config"
	"github.com/soundslike/guesstrack/internal/constants"
	"github.com/soundslike/guesstrack/internal/domain"
	"github.com/soundslike/guesstrack/internal/game"
	"github.com/soundslike/guesstrack/internal/logger"
	"github.com/soundslike/guesstrack/internal/masking"
	"github.com/soundslike/guesstrack/internal/store"
)

type GameService struct {
	Repo   *store.DB
	Cfg    config.GuessConfig
	Logger *logger.Logger
	Clock  clock.Clock
}

func NewGameService(repo *store.DB, cfg config.GuessConfig, log *logger.Logger) *GameService {
	return &GameService{
		Repo:   repo,
		Cfg:    cfg,
		Logger: log.WithComponent("guess-engine"),
		Clock:  clock.New(),
	}
}

// withRetry runs op as a transaction, retrying transient SQLite contention
// with jittered exponential backoff. Non-busy errors fail immediately.
func (s *GameService) withRetry(ctx context.Context, op func(tx *store.DB) error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = constants.BusyRetryInitial
	bo.MaxInterval = constants.BusyRetryMaxInterval

	return backoff.Retry(func() error {
		err := s.Repo.RunInTx(ctx, op)
		if err != nil && !store.IsBusy(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(bo, constants.BusyRetryMax), ctx))
}

// StartNewGame replaces the current game with a fresh active one for the
// given track. Returns false when the feature is disabled, an argument is
// empty, or the store failed.
func (s *GameService) StartNewGame(ctx context.Context, track, artist string) bool {
	if !s.Cfg.Enabled {
		return false
	}
	track = strings.TrimSpace(track)
	artist = strings.TrimSpace(artist)
	if track == "" || artist == "" {
		return false
	}

	now := s.Clock.Now()
	var gameID int64
	err := s.withRetry(ctx, func(tx *store.DB) error {
		// Close the replaced game's audit row if it never finished.
		prev, err := tx.GetCurrentGame()
		if err != nil {
			return err
		}
		if prev != nil && prev.Status == domain.GameStatusActive {
			if err := tx.CloseGameHistory(prev.GameID, string(domain.GameStatusTrackChange), "", now); err != nil {
				return err
			}
		}

		gameID, err = tx.CreateGameHistory(track, artist, now)
		if err != nil {
			return err
		}

		revealed := domain.NewLetterSet()
		difficulty := masking.Difficulty(track, artist, revealed)
		g := &domain.Game{
			ID:              constants.CurrentGameKey,
			Track:           track,
			Artist:          artist,
			MaskedTrack:     masking.Mask(track, revealed, s.Cfg.AutoRevealCommonWords),
			MaskedArtist:    masking.Mask(artist, revealed, s.Cfg.AutoRevealCommonWords),
			RevealedLetters: revealed,
			StartTime:       now,
			Status:          domain.GameStatusActive,
			MaxDuration:     s.Cfg.MaxDuration,
			GameID:          gameID,
			DifficultyBonus: difficulty >= s.Cfg.DifficultyThreshold,
		}
		return tx.ReplaceCurrentGame(g)
	})
	if err != nil {
		s.Logger.Error("Failed to start game", "track", track, "artist", artist, "error", err)
		return false
	}
	s.Logger.WithGame(gameID).Info("Game started", "track", track, "artist", artist)
	return true
}

// ProcessGuess scores one chat guess against the current game. Returns nil
// when the feature is disabled, the guess is empty, there is no game, or the
// game ended longer than the grace period ago.
func (s *GameService) ProcessGuess(ctx context.Context, username, text string) *domain.GuessResult {
	if !s.Cfg.Enabled {
		return nil
	}
	username = strings.TrimSpace(username)
	guess := strings.TrimSpace(text)
	if username == "" || guess == "" {
		return nil
	}

	now := s.Clock.Now()
	var result *domain.GuessResult
	err := s.withRetry(ctx, func(tx *store.DB) error {
		result = nil

		g, err := tx.GetCurrentGame()
		if err != nil {
			return err
		}
		if g == nil {
			return nil
		}

		wasActive := g.Status == domain.GameStatusActive
		if !wasActive {
			expired, err := s.graceExpired(tx, g, now)
			if err != nil {
				return err
			}
			if expired {
				return nil
			}
		}

		res := game.Evaluate(g, s.Cfg, guess)

		rec := &domain.GuessRecord{
			GameID:        g.GameID,
			Username:      username,
			Guess:         guess,
			GuessType:     res.GuessType,
			Correct:       res.Correct,
			PointsAwarded: res.Points,
			Timestamp:     now,
		}
		if err := tx.AppendGuess(rec); err != nil {
			return err
		}
		if err := tx.ApplyGuessToScore(username, res.Points, res.Solved, now); err != nil {
			return err
		}
		if err := tx.IncrementGuessCount(g.GameID); err != nil {
			return err
		}

		if res.Solved && wasActive {
			g.Status = domain.GameStatusSolved
			if err := tx.CloseGameHistory(g.GameID, string(domain.GameStatusSolved), username, now); err != nil {
				return err
			}
		}
		if err := tx.UpdateCurrentGame(g); err != nil {
			return err
		}

		result = &res
		return nil
	})
	if err != nil {
		s.Logger.Error("Failed to process guess", "username", username, "error", err)
		return nil
	}
	if result != nil && result.Solved {
		s.Logger.WithUser(username).Info("Game solved", "points", result.Points)
	}
	return result
}

// EndGame forces the current game into a terminal state. Returns false when
// there is no active game or the reason is not a terminal status.
func (s *GameService) EndGame(ctx context.Context, reason domain.GameStatus) bool {
	if !reason.Terminal() {
		return false
	}

	now := s.Clock.Now()
	var ended bool
	err := s.withRetry(ctx, func(tx *store.DB) error {
		ended = false
		g, err := tx.GetCurrentGame()
		if err != nil {
			return err
		}
		if g == nil || g.Status != domain.GameStatusActive {
			return nil
		}
		if err := s.endGameTx(tx, g, reason, now); err != nil {
			return err
		}
		ended = true
		return nil
	})
	if err != nil {
		s.Logger.Error("Failed to end game", "reason", reason, "error", err)
		return false
	}
	if ended {
		s.Logger.Info("Game ended", "reason", reason)
	}
	return ended
}

// CheckGameTimeout ends the active game when its max duration has elapsed.
// Meant to be driven by an external periodic tick.
func (s *GameService) CheckGameTimeout(ctx context.Context) bool {
	now := s.Clock.Now()
	var timedOut bool
	err := s.withRetry(ctx, func(tx *store.DB) error {
		timedOut = false
		g, err := tx.GetCurrentGame()
		if err != nil {
			return err
		}
		if g == nil || g.Status != domain.GameStatusActive {
			return nil
		}
		elapsed := now.Sub(g.StartTime)
		if elapsed < 0 {
			elapsed = 0
		}
		if elapsed < time.Duration(g.MaxDuration)*time.Second {
			return nil
		}
		if err := s.endGameTx(tx, g, domain.GameStatusTimeout, now); err != nil {
			return err
		}
		timedOut = true
		return nil
	})
	if err != nil {
		s.Logger.Error("Failed to check game timeout", "error", err)
		return false
	}
	if timedOut {
		s.Logger.Info("Game timed out")
	}
	return timedOut
}

func (s *GameService) endGameTx(tx *store.DB, g *domain.Game, reason domain.GameStatus, now time.Time) error {
	g.Status = reason
	if err := tx.UpdateCurrentGame(g); err != nil {
		return err
	}
	return tx.CloseGameHistory(g.GameID, string(reason), "", now)
}

// ResetSession opens a new session row and zeroes every user's session
// counters. All-time counters are untouched.
func (s *GameService) ResetSession(ctx context.Context) bool {
	now := s.Clock.Now()
	err := s.withRetry(ctx, func(tx *store.DB) error {
		if _, err := tx.StartSession(now); err != nil {
			return err
		}
		return tx.ResetSessionScores()
	})
	if err != nil {
		s.Logger.Error("Failed to reset session", "error", err)
		return false
	}
	s.Logger.Info("Session reset")
	return true
}

// ClearLeaderboards wipes every user score. Destructive.
func (s *GameService) ClearLeaderboards(ctx context.Context) bool {
	err := s.withRetry(ctx, func(tx *store.DB) error {
		return tx.ClearScores()
	})
	if err != nil {
		s.Logger.Error("Failed to clear leaderboards", "error", err)
		return false
	}
	s.Logger.Info("Leaderboards cleared")
	return true
}

// GetCurrentState builds the broadcast snapshot. The true track/artist and
// the solver only appear once the game is no longer active.
func (s *GameService) GetCurrentState(ctx context.Context) domain.StateSnapshot {
	g, err := s.Repo.GetCurrentGame()
	if err != nil {
		s.Logger.Error("Failed to read current game", "error", err)
		return domain.StateSnapshot{Status: domain.GameStatusWaiting}
	}
	if g == nil {
		return domain.StateSnapshot{Status: domain.GameStatusWaiting}
	}

	elapsed := int(s.Clock.Now().Sub(g.StartTime).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := g.MaxDuration - elapsed
	if remaining < 0 {
		remaining = 0
	}

	snap := domain.StateSnapshot{
		Status:           g.Status,
		MaskedTrack:      g.MaskedTrack,
		MaskedArtist:     g.MaskedArtist,
		ElapsedSeconds:   elapsed,
		RemainingSeconds: remaining,
	}
	if g.Status == domain.GameStatusActive {
		return snap
	}

	snap.Track = g.Track
	snap.Artist = g.Artist
	if g.Status == domain.GameStatusSolved {
		if hist, err := s.Repo.GetGameHistory(g.GameID); err == nil && hist != nil && hist.SolverUsername != nil {
			snap.SolverUsername = *hist.SolverUsername
		}
	}
	if last, err := s.Repo.LatestGuess(g.GameID); err == nil {
		snap.LastGuess = last
	}
	return snap
}

// GetLeaderboard returns the ranked leaderboard for the given kind. The
// configured leaderboard size is the default when the caller passes no
// limit, not a cap on explicit ones. Unknown kinds and storage faults
// degrade to an empty list.
func (s *GameService) GetLeaderboard(ctx context.Context, kind domain.LeaderboardKind, limit int) []domain.LeaderboardEntry {
	if limit <= 0 {
		limit = s.Cfg.LeaderboardSize
	}
	entries, err := s.Repo.Leaderboard(kind, limit)
	if err != nil {
		s.Logger.Warn("Failed to read leaderboard", "kind", kind, "error", err)
		return []domain.LeaderboardEntry{}
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	return entries
}

// GetUserStats returns a user's counters, nil for unknown users.
func (s *GameService) GetUserStats(ctx context.Context, username string) *domain.UserScore {
	stats, err := s.Repo.GetUserStats(strings.TrimSpace(username))
	if err != nil {
		s.Logger.Error("Failed to read user stats", "username", username, "error", err)
		return nil
	}
	return stats
}

// GetGuessLog returns the guess log of the given game in order.
func (s *GameService) GetGuessLog(ctx context.Context, gameID int64) []domain.GuessRecord {
	recs, err := s.Repo.GuessesForGame(gameID)
	if err != nil {
		s.Logger.Error("Failed to read guess log", "game_id", gameID, "error", err)
		return []domain.GuessRecord{}
	}
	return recs
}

// graceExpired reports whether a terminal game's grace window has passed.
// An end time marginally in the future (clock skew between processes)
// counts as zero elapsed rather than extending or shortening the window.
func (s *GameService) graceExpired(tx *store.DB, g *domain.Game, now time.Time) (bool, error) {
	hist, err := tx.GetGameHistory(g.GameID)
	if err != nil {
		return false, err
	}
	if hist == nil || hist.EndTime == nil {
		// Terminal status without a recorded end; treat as just ended.
		return false, nil
	}
	elapsed := now.Sub(*hist.EndTime)
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed > time.Duration(s.Cfg.GracePeriod)*time.Second, nil
}

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundslike/guesstrack/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.False(t, cfg.Guess.Enabled)
	assert.Equal(t, 120, cfg.Guess.MaxDuration)
	assert.Equal(t, 0.70, cfg.Guess.DifficultyThreshold)
	assert.Equal(t, domain.SolveModeSeparate, cfg.Guess.SolveMode)
	assert.False(t, cfg.Guess.AutoRevealCommonWords)
	assert.Equal(t, 5, cfg.Guess.GracePeriod)
	assert.Equal(t, 1, cfg.Guess.PointsCommonLetter)
	assert.Equal(t, 2, cfg.Guess.PointsUncommonLetter)
	assert.Equal(t, 3, cfg.Guess.PointsRareLetter)
	assert.Equal(t, 10, cfg.Guess.PointsCorrectWord)
	assert.Equal(t, -1, cfg.Guess.PointsWrongWord)
	assert.Equal(t, 100, cfg.Guess.PointsCompleteSolve)
	assert.Equal(t, 50, cfg.Guess.PointsFirstSolver)
	assert.Equal(t, 10, cfg.Guess.LeaderboardSize)

	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("GUESS_ENABLED", "true")
	t.Setenv("GUESS_MAXDURATION", "180")
	t.Setenv("GUESS_SOLVE_MODE", "either")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.True(t, cfg.Guess.Enabled)
	assert.Equal(t, 180, cfg.Guess.MaxDuration)
	assert.Equal(t, domain.SolveModeEither, cfg.Guess.SolveMode)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load(t.TempDir())
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad solve mode", func(c *Config) { c.Guess.SolveMode = "speedrun" }, "solve_mode"},
		{"bad port", func(c *Config) { c.Server.Port = "nope" }, "server.port"},
		{"port out of range", func(c *Config) { c.Server.Port = "70000" }, "server.port"},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"negative grace period", func(c *Config) { c.Guess.GracePeriod = -1 }, "grace_period"},
		{"zero max duration", func(c *Config) { c.Guess.MaxDuration = 0 }, "maxduration"},
		{"threshold above one", func(c *Config) { c.Guess.DifficultyThreshold = 1.5 }, "difficulty_threshold"},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDefaultGuessMatchesLoad(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, DefaultGuess(), cfg.Guess)
}

// Package config provides configuration management using viper.
// It supports loading from YAML files and environment variable overrides.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/soundslike/guesstrack/internal/constants"
	"github.com/soundslike/guesstrack/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Guess    GuessConfig    `mapstructure:"guess"`
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

// GuessConfig holds the guess game's point table and behavior toggles.
type GuessConfig struct {
	Enabled               bool             `mapstructure:"enabled"`
	MaxDuration           int              `mapstructure:"maxduration"`
	DifficultyThreshold   float64          `mapstructure:"difficulty_threshold"`
	SolveMode             domain.SolveMode `mapstructure:"solve_mode"`
	AutoRevealCommonWords bool             `mapstructure:"auto_reveal_common_words"`
	GracePeriod           int              `mapstructure:"grace_period"`
	PointsCommonLetter    int              `mapstructure:"points_common_letter"`
	PointsUncommonLetter  int              `mapstructure:"points_uncommon_letter"`
	PointsRareLetter      int              `mapstructure:"points_rare_letter"`
	PointsCorrectWord     int              `mapstructure:"points_correct_word"`
	PointsWrongWord       int              `mapstructure:"points_wrong_word"`
	PointsCompleteSolve   int              `mapstructure:"points_complete_solve"`
	PointsFirstSolver     int              `mapstructure:"points_first_solver"`
	LeaderboardSize       int              `mapstructure:"leaderboard_size"`
}

// DatabaseConfig holds the SQLite store configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ServerConfig holds the HTTP API configuration.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// LogConfig holds logger configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// WorkerConfig holds the timeout poller configuration.
type WorkerConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
}

// Load reads configuration from file and environment variables.
// It looks for config.yaml in the given directory; a missing file is fine,
// environment variables can provide everything.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables use underscore separators and uppercase,
	// e.g. GUESS_ENABLED, DATABASE_PATH, SERVER_PORT.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Guess game defaults
	v.SetDefault("guess.enabled", false)
	v.SetDefault("guess.maxduration", 120)
	v.SetDefault("guess.difficulty_threshold", 0.70)
	v.SetDefault("guess.solve_mode", string(domain.SolveModeSeparate))
	v.SetDefault("guess.auto_reveal_common_words", false)
	v.SetDefault("guess.grace_period", 5)
	v.SetDefault("guess.points_common_letter", 1)
	v.SetDefault("guess.points_uncommon_letter", 2)
	v.SetDefault("guess.points_rare_letter", 3)
	v.SetDefault("guess.points_correct_word", 10)
	v.SetDefault("guess.points_wrong_word", -1)
	v.SetDefault("guess.points_complete_solve", 100)
	v.SetDefault("guess.points_first_solver", 50)
	v.SetDefault("guess.leaderboard_size", 10)

	// Infrastructure defaults
	v.SetDefault("database.path", constants.DefaultDBPath)
	v.SetDefault("server.port", constants.DefaultPort)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("worker.poll_interval", constants.DefaultPollInterval)
}

// DefaultGuess returns the documented guess game defaults. Useful for tests
// and for callers that configure the engine programmatically.
func DefaultGuess() GuessConfig {
	return GuessConfig{
		Enabled:               false,
		MaxDuration:           120,
		DifficultyThreshold:   0.70,
		SolveMode:             domain.SolveModeSeparate,
		AutoRevealCommonWords: false,
		GracePeriod:           5,
		PointsCommonLetter:    1,
		PointsUncommonLetter:  2,
		PointsRareLetter:      3,
		PointsCorrectWord:     10,
		PointsWrongWord:       -1,
		PointsCompleteSolve:   100,
		PointsFirstSolver:     50,
		LeaderboardSize:       10,
	}
}

// Validate validates the configuration and returns detailed errors.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Server.Port); err != nil {
		errs = append(errs, fmt.Sprintf("server.port must be a valid number, got: %s", c.Server.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be between 1 and 65535, got: %d", port))
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path cannot be empty")
	}

	switch c.Guess.SolveMode {
	case domain.SolveModeSeparate, domain.SolveModeEither, domain.SolveModeBothRequired:
	default:
		errs = append(errs, fmt.Sprintf("guess.solve_mode must be one of: separate_solves, either, both_required, got: %s", c.Guess.SolveMode))
	}

	if c.Guess.MaxDuration <= 0 {
		errs = append(errs, fmt.Sprintf("guess.maxduration must be positive, got: %d", c.Guess.MaxDuration))
	}
	if c.Guess.DifficultyThreshold < 0 || c.Guess.DifficultyThreshold > 1 {
		errs = append(errs, fmt.Sprintf("guess.difficulty_threshold must be between 0 and 1, got: %g", c.Guess.DifficultyThreshold))
	}
	if c.Guess.GracePeriod < 0 {
		errs = append(errs, fmt.Sprintf("guess.grace_period cannot be negative, got: %d", c.Guess.GracePeriod))
	}
	if c.Guess.LeaderboardSize <= 0 {
		errs = append(errs, fmt.Sprintf("guess.leaderboard_size must be positive, got: %d", c.Guess.LeaderboardSize))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level must be one of: debug, info, warn, error, got: %s", c.Log.Level))
	}
	validLogFormats := map[string]bool{"text": true, "json": true}
	if !validLogFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format must be one of: text, json, got: %s", c.Log.Format))
	}

	if c.Worker.PollInterval <= 0 {
		errs = append(errs, fmt.Sprintf("worker.poll_interval must be positive, got: %s", c.Worker.PollInterval))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

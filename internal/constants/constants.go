// Package constants contains application-wide constants to avoid magic numbers and strings.
package constants

import "time"

// Application defaults
const (
	DefaultPort         = "8080"
	DefaultDBPath       = "guesstrack.db"
	DefaultPollInterval = 2 * time.Second
)

// CurrentGameKey is the fixed primary key of the singleton current_game row.
const CurrentGameKey = 1

// SchemaVersion tracks the persisted table shapes.
const SchemaVersion = 1

// Busy-retry policy for cross-process SQLite contention.
const (
	BusyRetryMax         = 10
	BusyRetryInitial     = 25 * time.Millisecond
	BusyRetryMaxInterval = 250 * time.Millisecond
)

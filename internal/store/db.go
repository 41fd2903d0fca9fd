package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/soundslike/guesstrack/internal/constants"
)

// querier is the subset of sqlx operations shared by *sqlx.DB and *sqlx.Tx,
// so every query method works both standalone and inside RunInTx.
type querier interface {
	Get(dest interface{}, query string, args ...interface{}) error
	Select(dest interface{}, query string, args ...interface{}) error
	Exec(query string, args ...interface{}) (sql.Result, error)
}

type DB struct {
	querier
	root *sqlx.DB
}

// NewSQLiteDB opens (and if necessary creates) the shared game database.
// WAL mode plus a busy timeout make the file safe to open from the poller,
// chat-bot and web processes at the same time.
func NewSQLiteDB(dsn string) (*DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	// Set pragmas for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	// Apply schema
	if _, err := db.Exec(Schema); err != nil {
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	if _, err := db.Exec(`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, constants.SchemaVersion); err != nil {
		return nil, fmt.Errorf("failed to record schema version: %w", err)
	}

	return &DB{querier: db, root: db}, nil
}

func (db *DB) Close() error {
	return db.root.Close()
}

// RunInTx runs fn inside a single transaction. The DB handed to fn routes
// every query through that transaction, so a mutating operation's
// read-decide-write sequence commits or rolls back as one unit.
func (db *DB) RunInTx(ctx context.Context, fn func(tx *DB) error) error {
	tx, err := db.root.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // deferred cleanup

	txDB := &DB{querier: tx, root: db.root}
	if err := fn(txDB); err != nil {
		return err
	}
	return tx.Commit()
}

// IsBusy reports whether err looks like transient SQLite contention that a
// retry with backoff can resolve.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "SQLITE_BUSY")
}

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

type Config struct {
	// Path is the sqlite database file; ":memory:" keeps everything
	// in-process, which the batch CLI and tests use.
	Path        string
	BusyTimeout time.Duration
}

const schema = `
CREATE TABLE IF NOT EXISTS unknown_abbreviations (
	abbreviation TEXT PRIMARY KEY,
	count        INTEGER NOT NULL,
	values_json  TEXT NOT NULL,
	contexts_json TEXT NOT NULL,
	first_seen   TIMESTAMP NOT NULL,
	last_seen    TIMESTAMP NOT NULL
);`

// Open opens (creating if needed) the sqlite learning store and applies the
// schema.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Path == "" {
		cfg.Path = ":memory:"
	}
	if cfg.BusyTimeout <= 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", cfg.Path, cfg.BusyTimeout.Milliseconds())
	logger.Info("store.open", "path", cfg.Path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		logger.Error("store.open.failed", "path", cfg.Path, "error", err)
		return nil, err
	}
	// a single writer avoids SQLITE_BUSY churn under concurrent trackers
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		logger.Error("store.ping.failed", "path", cfg.Path, "error", err)
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		logger.Error("store.migrate.failed", "error", err)
		_ = db.Close()
		return nil, err
	}

	logger.Info("store.ready", "path", cfg.Path)
	return db, nil
}

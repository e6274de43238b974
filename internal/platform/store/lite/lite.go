// Package lite opens a SQLite file through modernc.org/sqlite (pure Go, no cgo)
package lite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// Config configures the file store
type Config struct {
	// Path is a file path or ":memory:"
	Path string
	// BusyTimeoutMs is how long a writer waits on a locked file; 0 means 5000
	BusyTimeoutMs int
}

// Open opens and pings the database with foreign keys on and WAL journaling
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, fmt.Errorf("sqlite: empty path")
	}
	busy := cfg.BusyTimeoutMs
	if busy <= 0 {
		busy = 5000
	}
	// _time_format=sqlite writes time.Time as "YYYY-MM-DD HH:MM:SS..." so date
	// columns stay comparable as text
	dsn := fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(%d)&_time_format=sqlite", path, busy)
	if path != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	// one writer at a time; readers share the same handle
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	return db, nil
}

package store

import (
	"context"
	"fmt"
	"time"

	"fieldnote/internal/core/version"
	"fieldnote/internal/platform/store/ch"
	"fieldnote/internal/platform/store/lite"
	"fieldnote/internal/platform/store/pg"
)

var sleep = time.Sleep

// openPG creates the pool and pings it with capped exponential backoff so the
// api can start before the database container is ready
func openPG(ctx context.Context, cfg PGConfig, s *Store) (*pgAdapter, error) {
	p, err := pg.Open(ctx, pg.Config{URL: cfg.URL, MaxConns: cfg.MaxConns, AppName: version.UserAgent()}, nil)
	if err != nil {
		return nil, err
	}

	attempts := cfg.ConnectRetries
	if attempts <= 0 {
		attempts = 20
	}
	timeout := cfg.PingTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	backoff := 150 * time.Millisecond
	var lastErr error
	for i := 0; i < attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		lastErr = p.Pool.Ping(pctx)
		cancel()
		if lastErr == nil {
			return newPGAdapter(p, traceFor(s, cfg.LogSQL, cfg.SlowQueryMs)), nil
		}
		if ctx.Err() != nil {
			p.Close()
			return nil, ctx.Err()
		}
		s.Log.Warn().Err(lastErr).Int("attempt", i+1).Dur("backoff", backoff).Msg("postgres not ready")
		sleep(backoff)
		backoff = min(backoff*2, 2*time.Second)
	}
	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}

func openSQLite(ctx context.Context, cfg SQLiteConfig, s *Store) (*liteAdapter, error) {
	db, err := lite.Open(ctx, lite.Config{Path: cfg.Path})
	if err != nil {
		return nil, err
	}
	return newLiteAdapter(db, traceFor(s, cfg.LogSQL, cfg.SlowQueryMs)), nil
}

func openCH(ctx context.Context, cfg CHConfig) (*clickhouseAdapter, error) {
	c, err := ch.Open(ctx, ch.Config{URL: cfg.URL, ClientName: cfg.ClientName, ClientTag: cfg.ClientTag})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}

func traceFor(s *Store, logSQL bool, slowMs int) trace {
	t := trace{slowUS: int64(slowMs) * 1000}
	if logSQL {
		t.tracer = Tracer(s.Log)
	}
	return t
}

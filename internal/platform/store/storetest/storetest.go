// Package storetest opens throwaway stores for repository and service tests
package storetest

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"fieldnote/internal/platform/store"

	"github.com/rs/zerolog"
)

// Quiet is a logger that drops everything, for deterministic test output
func Quiet() zerolog.Logger { return zerolog.New(io.Discard) }

// SQLite opens a fresh file store under t.TempDir and runs schema on it
func SQLite(t *testing.T, schema ...string) *store.Store {
	t.Helper()
	ctx := context.Background()
	s, err := store.Open(ctx, store.Config{
		Backend: store.BackendSQLite,
		SQLite:  store.SQLiteConfig{Path: filepath.Join(t.TempDir(), "fieldnote.db")},
	}, store.WithLogger(Quiet()))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(ctx) })
	Exec(t, s.DB, schema...)
	return s
}

// Exec runs each statement or fails the test
func Exec(t *testing.T, q store.RowQuerier, stmts ...string) {
	t.Helper()
	for _, st := range stmts {
		if _, err := q.Exec(context.Background(), st); err != nil {
			t.Fatalf("exec %q: %v", st, err)
		}
	}
}

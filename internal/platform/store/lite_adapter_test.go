package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fieldnote/internal/platform/logger"
)

func openTestLite(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, Config{
		Backend: BackendSQLite,
		SQLite:  SQLiteConfig{Path: filepath.Join(t.TempDir(), "field.db"), LogSQL: true},
	}, WithLogger(*logger.Get()))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(ctx) })
	return s
}

func TestLite_ExecQueryTx(t *testing.T) {
	ctx := context.Background()
	s := openTestLite(t)
	if s.Backend != BackendSQLite {
		t.Fatalf("backend = %q", s.Backend)
	}
	if err := s.Guard(ctx); err != nil {
		t.Fatalf("Guard: %v", err)
	}

	if _, err := s.DB.Exec(ctx, `CREATE TABLE kits (sample_id TEXT PRIMARY KEY, note TEXT)`); err != nil {
		t.Fatal(err)
	}
	tag, err := s.DB.Exec(ctx, `INSERT INTO kits (sample_id, note) VALUES ($1, $2)`, "EC-0001_ECCC0001", nil)
	if err != nil || tag.RowsAffected() != 1 {
		t.Fatalf("insert: %v %v", tag, err)
	}

	// rolled back tx leaves nothing behind
	boom := errors.New("boom")
	err = s.DB.Tx(ctx, func(q RowQuerier) error {
		if _, err := q.Exec(ctx, `INSERT INTO kits (sample_id) VALUES ($1)`, "EC-0001_ECCC0002"); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Tx err = %v", err)
	}

	err = s.DB.Tx(ctx, func(q RowQuerier) error {
		_, err := q.Exec(ctx, `INSERT INTO kits (sample_id) VALUES ($1)`, "EC-0001_ECCC0003")
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	ids, err := Column[string](ctx, s.DB, `SELECT sample_id FROM kits ORDER BY sample_id`)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "EC-0001_ECCC0001" || ids[1] != "EC-0001_ECCC0003" {
		t.Fatalf("ids = %v", ids)
	}

	var note *string
	if err := s.DB.QueryRow(ctx, `SELECT note FROM kits WHERE sample_id = $1`, "EC-0001_ECCC0001").Scan(&note); err != nil || note != nil {
		t.Fatalf("note = %v, %v", note, err)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, err := Open(context.Background(), Config{Backend: "mysql"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestGuard_NilStore(t *testing.T) {
	var s *Store
	if err := s.Guard(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

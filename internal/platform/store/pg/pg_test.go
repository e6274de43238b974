package pg

import (
	"context"
	"errors"
	"testing"

	kit "fieldnote/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
)

func TestOpen_ParseError(t *testing.T) {
	if _, err := Open(context.Background(), Config{URL: "postgres://%zz"}, nil); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestOpen_AppliesConfig(t *testing.T) {
	var seen *pgxpool.Config
	kit.Swap(t, &newPool, func(_ context.Context, c *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = c
		return nil, errors.New("no db in unit tests")
	})

	mutated := false
	_, err := Open(context.Background(), Config{
		URL:      "postgres://u:p@localhost:5432/field?sslmode=disable",
		MaxConns: 3,
		AppName:  "fieldnote-test",
	}, func(*pgxpool.Config) { mutated = true })
	if err == nil {
		t.Fatal("expected pool error")
	}
	if seen == nil || seen.MaxConns != 3 || !mutated {
		t.Fatalf("config not applied: %+v mutated=%v", seen, mutated)
	}
	if got := seen.ConnConfig.RuntimeParams["application_name"]; got != "fieldnote-test" {
		t.Fatalf("application_name = %q", got)
	}
}

func TestClose_NilSafe(t *testing.T) {
	var p *PG
	p.Close()
	(&PG{}).Close()
}

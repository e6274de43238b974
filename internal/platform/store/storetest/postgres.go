//go:build integration_pg

package storetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fieldnote/internal/platform/store"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Postgres launches a disposable postgres:16-alpine, opens a pg store on it
// and runs schema; everything is torn down with t
func Postgres(t *testing.T, schema ...string) *store.Store {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	t.Cleanup(cancel)

	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "postgres",
				"POSTGRES_DB":       "fieldnote",
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := c.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("mapped port: %v", err)
	}

	s, err := store.Open(ctx, store.Config{
		Backend: store.BackendPG,
		PG: store.PGConfig{
			URL:      fmt.Sprintf("postgres://postgres:postgres@%s:%s/fieldnote?sslmode=disable", host, port.Port()),
			MaxConns: 4,
		},
	}, store.WithLogger(Quiet()))
	if err != nil {
		t.Fatalf("open pg store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	Exec(t, s.DB, schema...)
	return s
}

package ch

import (
	"context"
	"testing"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	kit "fieldnote/internal/platform/testkit"
)

func TestOpen_BadDSN(t *testing.T) {
	if _, err := Open(context.Background(), Config{URL: "://nope"}); err == nil {
		t.Fatal("expected dsn error")
	}
}

func TestOpen_StampsClientInfo(t *testing.T) {
	var got *clickhouse.Options
	kit.Swap(t, &openConn, func(o *clickhouse.Options) (driver.Conn, error) {
		got = o
		return nil, nil
	})
	if _, err := Open(context.Background(), Config{
		URL:        "clickhouse://default:@localhost:9000/audit",
		ClientName: "fieldnote",
		ClientTag:  "api",
	}); err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Auth.Database != "audit" {
		t.Fatalf("options not parsed: %+v", got)
	}
	p := got.ClientInfo.Products
	if len(p) == 0 || p[0].Name != "fieldnote" || p[0].Version != "api" {
		t.Fatalf("client info = %+v", p)
	}
}

func TestBuildClientInfo_DefaultName(t *testing.T) {
	ci := BuildClientInfo(" ", "worker")
	if ci.Products[0].Name != "fieldnote" || ci.Products[0].Version != "worker" {
		t.Fatalf("products = %+v", ci.Products)
	}
}

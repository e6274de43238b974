package repo

import (
	"context"
	"testing"

	perr "fieldnote/internal/platform/errors"
	"fieldnote/internal/platform/store/storetest"
	"fieldnote/internal/services/api/lookups/domain"
)

var schema = []string{
	`create table stations (siteid text primary key, name text, latitude real)`,
	`create table instrument_history (serial text, model text, active text)`,
	`create table flags (flag text, description text)`,
	`create table users (email text, name text)`,
	`create table databases (label text, active boolean)`,
	`insert into stations values ('S001', 'Lake Site', 45.5), ('S002', 'River Site', null)`,
	`insert into instrument_history values ('PAS-1', 'passive', 'True'), ('PAS-2', 'passive', 'False')`,
	`insert into flags values ('V0', 'valid')`,
	`insert into users values ('jdoe@example.org', 'J Doe')`,
	`insert into databases values ('mercury', true), ('ozone', false), ('arctic', true)`,
}

func TestRead(t *testing.T) {
	s := storetest.SQLite(t, schema...)
	r := New().Bind(s.DB)
	ctx := context.Background()

	sites, err := r.Read(ctx, domain.Sites)
	if err != nil {
		t.Fatal(err)
	}
	if len(sites) != 2 || sites[0]["siteid"] != "S001" || sites[1]["latitude"] != nil {
		t.Fatalf("sites = %v", sites)
	}

	inst, err := r.Read(ctx, domain.Instruments)
	if err != nil {
		t.Fatal(err)
	}
	if len(inst) != 1 || inst[0]["serial"] != "PAS-1" {
		t.Fatalf("only active instruments expected, got %v", inst)
	}

	if _, err := r.Read(ctx, domain.Table("bogus")); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("unknown table err = %v", err)
	}
}

func TestProjects(t *testing.T) {
	s := storetest.SQLite(t, schema...)
	got, err := New().Bind(s.DB).Projects(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "arctic" || got[1] != "mercury" {
		t.Fatalf("projects = %v", got)
	}
}

func TestRead_MissingTableIsStoreError(t *testing.T) {
	s := storetest.SQLite(t)
	_, err := New().Bind(s.DB).Read(context.Background(), domain.Flags)
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("err = %v", err)
	}
}

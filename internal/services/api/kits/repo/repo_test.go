package repo

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fieldnote/internal/core/batch"
	perr "fieldnote/internal/platform/errors"
	"fieldnote/internal/platform/store"
	"fieldnote/internal/platform/store/storetest"
	"fieldnote/internal/services/api/kits/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

const trackingDDL = `create table passive_mercury_tracking (
	sample_start timestamp,
	sample_end timestamp,
	sample_id text,
	kit_id text,
	sampler_id text,
	site_id text,
	shipped_location text,
	shipped_date date,
	return_date date,
	sample_type text,
	note text
)`

func storeRows(t *testing.T, recs ...batch.Record) [][]any {
	t.Helper()
	rows, err := batch.StoreRows(recs)
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestSQLite_InsertExistingKit(t *testing.T) {
	s := storetest.SQLite(t, trackingDDL)
	r := New(store.BackendSQLite, "passive_mercury_tracking").Bind(s.DB)
	ctx := context.Background()

	a := batch.Record{KitID: "EC-0001", SamplerID: "ECCC0002", SampleType: "Sample",
		SampleStart: "2024-05-01 10:00:00", ShippedDate: "2024-05-03", Note: "lid cracked"}
	b := batch.Record{KitID: "EC-0001", SamplerID: "ECCC0001", SampleType: "Blank"}
	other := batch.Record{KitID: "EC-0002", SamplerID: "ECCC0009"}

	n, err := r.Insert(ctx, storeRows(t, a, b, other))
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("inserted = %d", n)
	}

	keys, err := r.ExistingKeys(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"EC-0001_ECCC0001", "EC-0001_ECCC0002", "EC-0002_ECCC0009"} {
		if _, ok := keys[k]; !ok {
			t.Fatalf("missing key %s in %v", k, keys)
		}
	}

	got, err := r.Kit(ctx, " EC-0001 ")
	if err != nil {
		t.Fatal(err)
	}
	want := []batch.Record{
		{SampleID: "EC-0001_ECCC0001", KitID: "EC-0001", SamplerID: "ECCC0001", SampleType: "Blank"},
		{SampleStart: "2024-05-01 10:00:00", SampleID: "EC-0001_ECCC0002", KitID: "EC-0001", SamplerID: "ECCC0002",
			ShippedDate: "2024-05-03", SampleType: "Sample", Note: "lid cracked"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Kit (-want +got):\n%s", diff)
	}

	none, err := r.Kit(ctx, "EC-9999")
	if err != nil || len(none) != 0 {
		t.Fatalf("unknown kit = %v, %v", none, err)
	}
}

func TestSQLite_UniqueViolationIsDuplicateKey(t *testing.T) {
	s := storetest.SQLite(t, trackingDDL, `create unique index tracking_sample_id on passive_mercury_tracking (sample_id)`)
	r := New(store.BackendSQLite, "passive_mercury_tracking").Bind(s.DB)
	rows := storeRows(t, batch.Record{KitID: "EC-0001", SamplerID: "ECCC0001"})

	if _, err := r.Insert(context.Background(), rows); err != nil {
		t.Fatal(err)
	}
	_, err := r.Insert(context.Background(), rows)
	if !perr.IsDuplicateKey(err) {
		t.Fatalf("err = %v, want duplicate key", err)
	}
}

func TestSQLite_TxRollsBack(t *testing.T) {
	s := storetest.SQLite(t, trackingDDL)
	b := New(store.BackendSQLite, "passive_mercury_tracking")
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.DB.Tx(ctx, func(q store.RowQuerier) error {
		if _, err := b.Bind(q).Insert(ctx, storeRows(t, batch.Record{KitID: "EC-0001", SamplerID: "ECCC0001"})); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	keys, err := b.Bind(s.DB).ExistingKeys(ctx)
	if err != nil || len(keys) != 0 {
		t.Fatalf("rolled back rows visible: %v %v", keys, err)
	}
}

func TestInsert_RejectsShortRows(t *testing.T) {
	s := storetest.SQLite(t, trackingDDL)
	r := New(store.BackendSQLite, "passive_mercury_tracking").Bind(s.DB)
	_, err := r.Insert(context.Background(), [][]any{{"x"}})
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("err = %v", err)
	}
}

func TestTable(t *testing.T) {
	t.Parallel()
	if got := Table("public.passive_mercury_tracking"); got != `"public"."passive_mercury_tracking"` {
		t.Fatalf("Table = %s", got)
	}
	if got := Table(`we"ird`); got != `"we""ird"` {
		t.Fatalf("Table = %s", got)
	}
}

func TestPGInsertPlaceholders(t *testing.T) {
	t.Parallel()
	row := make([]any, len(batch.Columns))
	sql, args := pgInsert(`"t"`, [][]any{row, row})
	if len(args) != 2*len(batch.Columns) {
		t.Fatalf("args = %d", len(args))
	}
	if !strings.HasPrefix(sql, `insert into "t" (sample_start, sample_end, sample_id,`) {
		t.Fatalf("sql = %s", sql)
	}
	if !strings.Contains(sql, "($12, ") || !strings.HasSuffix(sql, "$22)") {
		t.Fatalf("placeholders = %s", sql)
	}
}

func TestLockHook(t *testing.T) {
	t.Parallel()
	if hooks := LockHook(store.BackendSQLite, "t"); hooks != nil {
		t.Fatalf("sqlite hooks = %d", len(hooks))
	}
	if hooks := LockHook(store.BackendPG, "t"); len(hooks) != 1 {
		t.Fatalf("pg hooks = %d", len(hooks))
	}
}

type fakeCH struct {
	execs []string
	table string
	rows  [][]any
	err   error
}

func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.execs = append(f.execs, sql)
	return f.err
}

func (f *fakeCH) Insert(_ context.Context, table string, rows [][]any) error {
	f.table, f.rows = table, append(f.rows, rows...)
	return nil
}

func (f *fakeCH) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (f *fakeCH) Ping(context.Context) error                                { return nil }
func (f *fakeCH) Close() error                                              { return nil }

func TestCHAudit_CreatesOnceThenInserts(t *testing.T) {
	t.Parallel()
	f := &fakeCH{}
	sink := Audit(f, "", nil)
	ev := domain.AuditEvent{
		At: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), Session: "s1", User: "jdoe",
		Kind: domain.AuditEdit, KitID: "EC-0001", Row: 2, Column: "note", Old: "", New: "ok",
	}
	for range 2 {
		if err := sink.Record(context.Background(), ev); err != nil {
			t.Fatal(err)
		}
	}
	if len(f.execs) != 1 || !strings.Contains(f.execs[0], "fieldnote_audit") {
		t.Fatalf("ddl = %v", f.execs)
	}
	if f.table != DefaultAuditTable || len(f.rows) != 2 || f.rows[0][5] != int32(2) {
		t.Fatalf("inserted %q %v", f.table, f.rows)
	}
}

func TestCHAudit_DDLFailureRetries(t *testing.T) {
	t.Parallel()
	f := &fakeCH{err: errors.New("down")}
	sink := NewCHAudit(f, "audit")
	if err := sink.Record(context.Background(), domain.AuditEvent{}); err == nil {
		t.Fatal("want error")
	}
	f.err = nil
	if err := sink.Record(context.Background(), domain.AuditEvent{}); err != nil {
		t.Fatal(err)
	}
	if len(f.execs) != 2 || len(f.rows) != 1 {
		t.Fatalf("execs %d rows %d", len(f.execs), len(f.rows))
	}
}

func TestLogAudit(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	l := zerolog.New(&buf)
	sink := Audit(nil, "", &l)
	err := sink.Record(context.Background(), domain.AuditEvent{
		Kind: domain.AuditEdit, KitID: "EC-0001", Column: "note", New: "ok", Message: `note in row 0 changed from "" to "ok"`,
	})
	if err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{`"audit":"edit"`, `"kit_id":"EC-0001"`, `"column":"note"`, `changed from`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log %s missing %s", out, want)
		}
	}
}

func TestSQLite_MissingTableIsUnavailable(t *testing.T) {
	s := storetest.SQLite(t)
	r := New(store.BackendSQLite, "not_there").Bind(s.DB)
	_, err := r.ExistingKeys(context.Background())
	if perr.CodeOf(err) != perr.ErrorCodeUnavailable || !strings.Contains(err.Error(), "KITS_TRACKING_TABLE") {
		t.Fatalf("err = %v", err)
	}
}

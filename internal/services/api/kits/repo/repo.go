// Package repo reads and appends rows of the sample tracking table
package repo

import (
	"context"
	"fmt"
	"strings"

	"fieldnote/internal/core/batch"
	"fieldnote/internal/modkit/repokit"
	perr "fieldnote/internal/platform/errors"
	"fieldnote/internal/platform/store"

	"github.com/jackc/pgx/v5"
)

// Repo is the tracking table seam of the kits workflow
type Repo interface {
	// ExistingKeys returns every sample_id already tracked
	ExistingKeys(ctx context.Context) (map[string]struct{}, error)
	// Insert appends rows in batch.Columns order and returns how many were written
	Insert(ctx context.Context, rows [][]any) (int, error)
	// Kit returns the tracked records of one kit, ordered by sample_id
	Kit(ctx context.Context, kitID string) ([]batch.Record, error)
}

// pgChunk keeps one insert well under the Postgres bind parameter limit
const pgChunk = 500

// Table quotes a possibly schema qualified table name
func Table(name string) string {
	return pgx.Identifier(strings.Split(strings.TrimSpace(name), ".")).Sanitize()
}

// New returns the binder for backend writing to table
func New(backend, table string) repokit.Binder[Repo] {
	t := Table(table)
	return repokit.ByBackend[Repo](backend,
		repokit.BindFunc[Repo](func(q repokit.Queryer) Repo { return &pgRepo{sqlRepo{q: q, table: t}} }),
		repokit.BindFunc[Repo](func(q repokit.Queryer) Repo { return &liteRepo{sqlRepo{q: q, table: t}} }),
	)
}

// sqlRepo holds the reads both dialects share
type sqlRepo struct {
	q     repokit.Queryer
	table string
}

func (r sqlRepo) ExistingKeys(ctx context.Context) (map[string]struct{}, error) {
	keys, err := store.Column[string](ctx, r.q, "select sample_id from "+r.table+" where sample_id is not null")
	if err != nil {
		return nil, storeErr(err, r.table, "read tracked sample ids")
	}
	out := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		out[k] = struct{}{}
	}
	return out, nil
}

func (r sqlRepo) kit(ctx context.Context, sql, kitID string) ([]batch.Record, error) {
	rows, err := r.q.Query(ctx, sql, strings.TrimSpace(kitID))
	if err != nil {
		return nil, storeErr(err, r.table, "read kit "+kitID)
	}
	defer rows.Close()

	out := []batch.Record{}
	for rows.Next() {
		vals := make([]any, len(batch.Columns))
		ptrs := make([]any, len(vals))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, perr.FromPostgresf(err, "scan kit %s", kitID)
		}
		cells := make([]string, len(vals))
		for i, c := range batch.Columns {
			cells[i] = batch.StoredText(c, vals[i])
		}
		out = append(out, batch.FromStored(cells))
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgresf(err, "read kit %s", kitID)
	}
	return out, nil
}

// storeErr maps a missing tracking table to Unavailable so a bad
// KITS_TRACKING_TABLE reads as configuration, not as a failed query
func storeErr(err error, table, msg string) error {
	if perr.IsUndefinedTable(err) {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "tracking table %s does not exist; check KITS_TRACKING_TABLE", table)
	}
	return perr.FromPostgres(err, msg)
}

func columnList() string {
	names := make([]string, len(batch.Columns))
	for i, c := range batch.Columns {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

func kitSQL(table, placeholder string) string {
	return fmt.Sprintf("select %s from %s where kit_id = %s order by sample_id", columnList(), table, placeholder)
}

func checkWidth(rows [][]any) error {
	for i, r := range rows {
		if len(r) != len(batch.Columns) {
			return perr.InvalidArgf("row %d has %d values, want %d", i, len(r), len(batch.Columns))
		}
	}
	return nil
}

// pgRepo appends with multi row inserts and $n placeholders
type pgRepo struct{ sqlRepo }

func (r *pgRepo) Kit(ctx context.Context, kitID string) ([]batch.Record, error) {
	return r.kit(ctx, kitSQL(r.table, "$1"), kitID)
}

func (r *pgRepo) Insert(ctx context.Context, rows [][]any) (int, error) {
	if err := checkWidth(rows); err != nil {
		return 0, err
	}
	n := 0
	for start := 0; start < len(rows); start += pgChunk {
		end := min(start+pgChunk, len(rows))
		sql, args := pgInsert(r.table, rows[start:end])
		tag, err := r.q.Exec(ctx, sql, args...)
		if err != nil {
			return n, perr.FromPostgresf(err, "append %d rows", end-start)
		}
		n += int(tag.RowsAffected())
	}
	return n, nil
}

func pgInsert(table string, rows [][]any) (string, []any) {
	width := len(batch.Columns)
	var b strings.Builder
	fmt.Fprintf(&b, "insert into %s (%s) values ", table, columnList())
	args := make([]any, 0, len(rows)*width)
	for i, r := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for j := range r {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", i*width+j+1)
		}
		b.WriteByte(')')
		args = append(args, r...)
	}
	return b.String(), args
}

// liteRepo appends one row per statement with ? placeholders
type liteRepo struct{ sqlRepo }

func (r *liteRepo) Kit(ctx context.Context, kitID string) ([]batch.Record, error) {
	return r.kit(ctx, kitSQL(r.table, "?"), kitID)
}

func (r *liteRepo) Insert(ctx context.Context, rows [][]any) (int, error) {
	if err := checkWidth(rows); err != nil {
		return 0, err
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(batch.Columns)), ", ")
	sql := fmt.Sprintf("insert into %s (%s) values (%s)", r.table, columnList(), marks)
	n := 0
	for i, row := range rows {
		tag, err := r.q.Exec(ctx, sql, row...)
		if err != nil {
			return n, perr.FromPostgresf(err, "append row %d", i)
		}
		n += int(tag.RowsAffected())
	}
	return n, nil
}

// LockHook blocks concurrent fieldnote uploads for the rest of the transaction
// so the sample_id read and the append see the same table. Writers outside
// fieldnote are not covered unless sample_id carries a unique constraint.
// SQLite serializes writers on its single connection and needs no hook
func LockHook(backend, table string) []repokit.BeginHook {
	if backend != store.BackendPG && backend != "" {
		return nil
	}
	sql := "lock table " + Table(table) + " in share row exclusive mode"
	return []repokit.BeginHook{func(ctx context.Context, q repokit.Queryer) error {
		if _, err := q.Exec(ctx, sql); err != nil {
			return perr.FromPostgres(err, "lock tracking table")
		}
		return nil
	}}
}

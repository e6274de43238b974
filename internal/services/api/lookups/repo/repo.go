// Package repo reads the reference tables the entry form needs
package repo

import (
	"context"

	"fieldnote/internal/modkit/repokit"
	perr "fieldnote/internal/platform/errors"
	"fieldnote/internal/platform/store"
	"fieldnote/internal/services/api/lookups/domain"
)

// Repo reads reference tables
type Repo interface {
	Read(ctx context.Context, t domain.Table) ([]domain.Record, error)
	Projects(ctx context.Context) ([]string, error)
}

// queries are plain SQL both backends accept
var queries = map[domain.Table]string{
	domain.Sites:       `select * from stations`,
	domain.Instruments: `select * from instrument_history where active = 'True'`,
	domain.Flags:       `select * from flags`,
	domain.Users:       `select * from users`,
}

const projectsSQL = `select label from databases where active = true order by label`

type (
	// SQL implements Repo for Postgres and SQLite
	SQL struct{}

	sqlRepo struct{ q repokit.Queryer }
)

// New returns the binder
func New() repokit.Binder[Repo] { return SQL{} }

// Bind binds a Queryer to the Repo implementation
func (SQL) Bind(q repokit.Queryer) Repo { return &sqlRepo{q: q} }

func (r *sqlRepo) Read(ctx context.Context, t domain.Table) ([]domain.Record, error) {
	sql, ok := queries[t]
	if !ok {
		return nil, perr.InvalidArgf("unknown lookup table %q", t)
	}
	rows, err := r.q.Query(ctx, sql)
	if err != nil {
		return nil, perr.FromPostgresf(err, "read %s", t)
	}
	defer rows.Close()

	cols := rows.Columns()
	out := []domain.Record{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, perr.FromPostgresf(err, "scan %s", t)
		}
		rec := make(domain.Record, len(cols))
		for i, c := range cols {
			rec[c] = plain(vals[i])
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, perr.FromPostgresf(err, "read %s", t)
	}
	return out, nil
}

func (r *sqlRepo) Projects(ctx context.Context) ([]string, error) {
	out, err := store.Column[string](ctx, r.q, projectsSQL)
	if err != nil {
		return nil, perr.FromPostgres(err, "read projects")
	}
	return out, nil
}

// plain turns driver byte slices into text so records encode as JSON strings
func plain(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

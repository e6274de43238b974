package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// liteAdapter puts database/sql (modernc sqlite) behind TxRunner
type liteAdapter struct {
	trace
	db *sql.DB
}

func newLiteAdapter(db *sql.DB, t trace) *liteAdapter {
	t.backend = BackendSQLite
	return &liteAdapter{trace: t, db: db}
}

func (a *liteAdapter) Ping(ctx context.Context) error { return a.db.PingContext(ctx) }

func (a *liteAdapter) Close() error { return a.db.Close() }

func (a *liteAdapter) Exec(ctx context.Context, q string, args ...any) (CommandTag, error) {
	return sqlExec(ctx, a.trace, a.db, q, args)
}

func (a *liteAdapter) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	return sqlQuery(ctx, a.trace, a.db, q, args)
}

func (a *liteAdapter) QueryRow(ctx context.Context, q string, args ...any) Row {
	return sqlQueryRow(ctx, a.trace, a.db, q, args)
}

func (a *liteAdapter) Tx(ctx context.Context, fn func(q RowQuerier) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(liteTx{trace: a.trace, tx: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// sqlConn is what both *sql.DB and *sql.Tx offer
type sqlConn interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func sqlExec(ctx context.Context, t trace, c sqlConn, q string, args []any) (CommandTag, error) {
	start := time.Now()
	res, err := c.ExecContext(ctx, q, args...)
	t.emit(ctx, q, args, start, err)
	if err != nil {
		return sqlTag{}, err
	}
	n, _ := res.RowsAffected()
	return sqlTag{n: n}, nil
}

func sqlQuery(ctx context.Context, t trace, c sqlConn, q string, args []any) (Rows, error) {
	start := time.Now()
	rs, err := c.QueryContext(ctx, q, args...)
	t.emit(ctx, q, args, start, err)
	if err != nil {
		return nil, err
	}
	return &sqlRows{r: rs}, nil
}

func sqlQueryRow(ctx context.Context, t trace, c sqlConn, q string, args []any) Row {
	start := time.Now()
	return sqlRow{r: c.QueryRowContext(ctx, q, args...), after: func(err error) { t.emit(ctx, q, args, start, err) }}
}

type liteTx struct {
	trace
	tx *sql.Tx
}

func (t liteTx) Exec(ctx context.Context, q string, args ...any) (CommandTag, error) {
	return sqlExec(ctx, t.trace, t.tx, q, args)
}

func (t liteTx) Query(ctx context.Context, q string, args ...any) (Rows, error) {
	return sqlQuery(ctx, t.trace, t.tx, q, args)
}

func (t liteTx) QueryRow(ctx context.Context, q string, args ...any) Row {
	return sqlQueryRow(ctx, t.trace, t.tx, q, args)
}

type sqlRow struct {
	r     *sql.Row
	after func(error)
}

func (x sqlRow) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	x.after(err)
	return err
}

// sqlRows keeps the first Err from Close so callers see it through Err
type sqlRows struct {
	r   *sql.Rows
	err error
}

func (x *sqlRows) Next() bool            { return x.r.Next() }
func (x *sqlRows) Scan(dst ...any) error { return x.r.Scan(dst...) }
func (x *sqlRows) Close()                { x.err = x.r.Close() }
func (x *sqlRows) Err() error {
	if err := x.r.Err(); err != nil {
		return err
	}
	return x.err
}
func (x *sqlRows) Columns() []string {
	cols, _ := x.r.Columns()
	return cols
}

type sqlTag struct{ n int64 }

func (t sqlTag) String() string      { return fmt.Sprintf("ROWS %d", t.n) }
func (t sqlTag) RowsAffected() int64 { return t.n }

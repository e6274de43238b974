package store

import (
	"context"
	"errors"
	"testing"

	perr "fieldnote/internal/platform/errors"
)

// fakeRows iterates a fixed table of single values
type fakeRows struct {
	vals    [][]any
	i       int
	err     error
	closed  bool
	scanErr error
}

func (f *fakeRows) Next() bool {
	if f.i >= len(f.vals) {
		return false
	}
	f.i++
	return true
}

func (f *fakeRows) Scan(dst ...any) error {
	if f.scanErr != nil {
		return f.scanErr
	}
	row := f.vals[f.i-1]
	for i := range dst {
		switch d := dst[i].(type) {
		case *string:
			*d = row[i].(string)
		case *int:
			*d = row[i].(int)
		}
	}
	return nil
}

func (f *fakeRows) Err() error        { return f.err }
func (f *fakeRows) Close()            { f.closed = true }
func (f *fakeRows) Columns() []string { return []string{"c"} }

type fakeQ struct {
	rows *fakeRows
	err  error
}

func (q fakeQ) Exec(context.Context, string, ...any) (CommandTag, error) { return sqlTag{}, q.err }
func (q fakeQ) Query(context.Context, string, ...any) (Rows, error) {
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}
func (q fakeQ) QueryRow(context.Context, string, ...any) Row { return q.rows }

func TestScalar(t *testing.T) {
	ctx := context.Background()
	rows := &fakeRows{vals: [][]any{{7}}}
	n, err := Scalar[int](ctx, fakeQ{rows: rows}, "select 7")
	if err != nil || n != 7 || !rows.closed {
		t.Fatalf("Scalar = %d, %v closed=%v", n, err, rows.closed)
	}
	_, err = Scalar[int](ctx, fakeQ{rows: &fakeRows{}}, "select none")
	if !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestColumn(t *testing.T) {
	ctx := context.Background()
	got, err := Column[string](ctx, fakeQ{rows: &fakeRows{vals: [][]any{{"EC-1_A"}, {"EC-1_B"}}}}, "select sample_id")
	if err != nil || len(got) != 2 || got[1] != "EC-1_B" {
		t.Fatalf("Column = %v, %v", got, err)
	}
	empty, err := Column[string](ctx, fakeQ{rows: &fakeRows{}}, "select sample_id")
	if err != nil || empty == nil || len(empty) != 0 {
		t.Fatalf("empty Column = %#v, %v", empty, err)
	}
}

func TestMany_Errors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	if _, err := Column[string](ctx, fakeQ{err: boom}, "x"); !errors.Is(err, boom) {
		t.Fatalf("query error lost: %v", err)
	}
	if _, err := Column[string](ctx, fakeQ{rows: &fakeRows{vals: [][]any{{"a"}}, scanErr: boom}}, "x"); !errors.Is(err, boom) {
		t.Fatalf("scan error lost: %v", err)
	}
	if _, err := Column[string](ctx, fakeQ{rows: &fakeRows{err: boom}}, "x"); !errors.Is(err, boom) {
		t.Fatalf("rows error lost: %v", err)
	}
}

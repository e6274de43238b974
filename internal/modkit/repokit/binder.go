package repokit

import (
	"fmt"

	"fieldnote/internal/platform/store"
)

// Binder binds a domain repo to a Queryer (the pool, or a tx)
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc lets you create a Binder from a function
type BindFunc[T any] func(Queryer) T

// Bind calls the underlying function
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// MustBind panics on a nil q then binds
func MustBind[T any](b Binder[T], q Queryer) T {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return b.Bind(q)
}

// ByBackend picks the binder for the SQL dialect behind the store
// an empty backend means Postgres
func ByBackend[T any](backend string, pg, lite Binder[T]) Binder[T] {
	switch backend {
	case store.BackendPG, "":
		return pg
	case store.BackendSQLite:
		return lite
	}
	panic(fmt.Sprintf("repokit: no binder for backend %q", backend))
}

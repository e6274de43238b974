package module

import (
	"slices"
	"sync"
)

// ports of every mounted module, keyed by module name
type registry struct {
	sync.RWMutex
	byName map[string]any
}

var mounted = &registry{byName: map[string]any{}}

// Register records the port bundle the named module exports. A nil bundle
// still marks the module as mounted
func Register(name string, ports any) {
	mounted.Lock()
	defer mounted.Unlock()
	mounted.byName[name] = ports
}

// Lookup returns the bundle registered under name as T
func Lookup[T any](name string) (T, bool) {
	mounted.RLock()
	v, ok := mounted.byName[name]
	mounted.RUnlock()
	if !ok {
		var zero T
		return zero, false
	}
	return From[T](v)
}

// Names lists the mounted modules in order
func Names() []string {
	mounted.RLock()
	defer mounted.RUnlock()
	out := make([]string, 0, len(mounted.byName))
	for n := range mounted.byName {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Reset forgets every module; tests use it between mounts
func Reset() {
	mounted.Lock()
	defer mounted.Unlock()
	mounted.byName = map[string]any{}
}

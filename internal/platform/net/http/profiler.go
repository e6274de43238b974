package http

import (
	mw "github.com/go-chi/chi/v5/middleware"
)

// MountProfiler mounts chi's pprof bundle under prefix (e.g. "/debug") when enabled
func MountProfiler(r Router, prefix string, enabled bool) {
	if !enabled {
		return
	}
	r.Mount(prefix, mw.Profiler())
}

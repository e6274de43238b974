// Package http exposes the lookup snapshot
package http

import (
	"net/http"

	"fieldnote/internal/modkit/httpkit"
	"fieldnote/internal/services/api/lookups/domain"
)

// Register mounts the lookup endpoints
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/", h.snapshot)
	for _, t := range []domain.Table{domain.Sites, domain.Instruments, domain.Flags, domain.Users} {
		httpkit.Get(r, "/"+string(t), h.table(t))
	}
	httpkit.Get(r, "/projects", h.projects)
	httpkit.Post(r, "/refresh", h.refresh)
}

type handlers struct{ svc domain.ServicePort }

func (h *handlers) snapshot(r *http.Request) (any, error) {
	return h.svc.Snapshot(r.Context())
}

func (h *handlers) table(t domain.Table) func(*http.Request) (any, error) {
	return func(r *http.Request) (any, error) {
		snap, err := h.svc.Snapshot(r.Context())
		if err != nil {
			return nil, err
		}
		return snap.Pick(t), nil
	}
}

func (h *handlers) projects(r *http.Request) (any, error) {
	snap, err := h.svc.Snapshot(r.Context())
	if err != nil {
		return nil, err
	}
	return snap.Projects, nil
}

func (h *handlers) refresh(r *http.Request) (any, error) {
	return h.svc.Refresh(r.Context())
}

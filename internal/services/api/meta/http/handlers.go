// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"fieldnote/internal/core/version"
	"fieldnote/internal/modkit/httpkit"
)

// Pinger is satisfied by store adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Deps are the handler dependencies; a nil or non Pinger dependency is skipped
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	Backend     string
	DB          any
	CH          any
	// Modules lists what is mounted; ready reports it when set
	Modules func() []string
}

type handlers struct {
	deps Deps
	now  func() time.Time
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d, now: func() time.Time { return time.Now().UTC() }}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/identity", h.identity)
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Started string `json:"started"`
	Uptime  int64  `json:"uptime"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"`
	Status string `json:"status"` // ok fail skipped
	Error  string `json:"error,omitempty"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status  string       `json:"status"` // ok fail
	Checks  []ReadyCheck `json:"checks"`
	Modules []string     `json:"modules,omitempty"`
	Now     string       `json:"now"`
}

func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(h.now().Sub(h.deps.StartedAt) / time.Second),
	}, nil
}

// ready pings the relational store and the audit sink; the sink being off is fine
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	check := func(name string, c any) ReadyCheck {
		p, ok := c.(Pinger)
		if c == nil || !ok {
			return ReadyCheck{Name: name, Status: "skipped"}
		}
		if err := p.Ping(ctx); err != nil {
			return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
		}
		return ReadyCheck{Name: name, Status: "ok"}
	}

	db := h.deps.Backend
	if db == "" {
		db = "db"
	}
	checks := []ReadyCheck{check(db, h.deps.DB), check("clickhouse", h.deps.CH)}
	overall := "ok"
	if checks[0].Status != "ok" || checks[1].Status == "fail" {
		overall = "fail"
	}
	res := ReadyResponse{Status: overall, Checks: checks, Now: h.now().Format(time.RFC3339)}
	if h.deps.Modules != nil {
		res.Modules = h.deps.Modules()
	}
	return res, nil
}

func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// identity tells the front end whether the user field is locked to the proxy header
func (h *handlers) identity(r *http.Request) (any, error) {
	return httpkit.Identity(r), nil
}

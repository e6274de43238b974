// Package module wires meta endpoints into the API
package module

import (
	"time"

	"fieldnote/internal/core/version"
	modkit "fieldnote/internal/modkit"
	"fieldnote/internal/modkit/httpkit"
	"fieldnote/internal/modkit/module"

	metahttp "fieldnote/internal/services/api/meta/http"
)

// Module implements modkit.Module
type Module struct {
	modkit.Base
	startedAt time.Time
}

// New constructs the meta module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	m := &Module{startedAt: time.Now().UTC()}
	hd := metahttp.Deps{
		ServiceName: version.Info().Service,
		StartedAt:   m.startedAt,
		Backend:     deps.Backend,
		DB:          deps.DB,
		CH:          deps.CH,
		Modules:     module.Names,
	}
	m.Base = modkit.NewBase(b, func(r httpkit.Router) { metahttp.Register(r, hd) })
	return m
}

// Ports implements modkit.Module; meta exports nothing
func (m *Module) Ports() any { return nil }

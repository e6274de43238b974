// Package module wires the lookup cache into the API
package module

import (
	modkit "fieldnote/internal/modkit"
	"fieldnote/internal/modkit/httpkit"
	"fieldnote/internal/services/api/lookups/domain"
	lookupshttp "fieldnote/internal/services/api/lookups/http"
	lookupsrepo "fieldnote/internal/services/api/lookups/repo"
	lookupssvc "fieldnote/internal/services/api/lookups/service"
)

// Ports is what lookups exports to other modules
type Ports struct {
	Lookups domain.ServicePort
}

// Module implements modkit.Module
type Module struct {
	modkit.Base
	svc *lookupssvc.Svc
}

// New constructs the lookups module; LOOKUPS_TTL sets cache freshness
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("lookups"),
		modkit.WithPrefix("/lookups"),
	}, opts...)...)

	svc := lookupssvc.New(deps.DB, lookupsrepo.New(), lookupssvc.Options{
		TTL: deps.Cfg.MayDuration("LOOKUPS_TTL", lookupssvc.DefaultTTL),
	})
	m := &Module{svc: svc}
	m.Base = modkit.NewBase(b, func(r httpkit.Router) { lookupshttp.Register(r, svc) })
	return m
}

// Ports implements modkit.Module
func (m *Module) Ports() any { return Ports{Lookups: m.svc} }

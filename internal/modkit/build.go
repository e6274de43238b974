package modkit

import (
	"net/http"

	"fieldnote/internal/modkit/httpkit"
	pstrings "fieldnote/internal/platform/strings"
)

// Built is the resolved option set
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  any
}

// Build applies opts over defaults (later options win)
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	return Built{
		Name:   pstrings.MustString(c.name, "module name"),
		Prefix: pstrings.MustPrefix(c.prefix),
		Mw:     append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:  c.ports,
	}
}

// Base carries the Built fields and implements the routing half of Module
type Base struct {
	Built
	routes func(httpkit.Router)
}

// NewBase returns a Base whose MountRoutes mounts routes under the module prefix
func NewBase(b Built, routes func(httpkit.Router)) Base {
	return Base{Built: b, routes: routes}
}

// MountRoutes mounts the module under its prefix with its middlewares
func (b Base) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, b.Prefix, b.Mw, func(sub httpkit.Router) {
		if b.routes != nil {
			b.routes(sub)
		}
	})
}

// Name returns the module name
func (b Base) Name() string { return b.Built.Name }

// Package module defines the contract API modules satisfy and how they find each other's ports
package module

import (
	phttp "fieldnote/internal/platform/net/http"
)

// Module mounts routes and exports a port bundle other modules may consume
// it lives apart from modkit so a module can export its own ports type without an import knot
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

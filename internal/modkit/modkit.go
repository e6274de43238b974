package modkit

import (
	"fieldnote/internal/modkit/module"
)

// Module is the surface every API module implements
type Module = module.Module

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module

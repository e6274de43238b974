// Package api composes the fieldnote HTTP API from its modules
package api

import (
	"context"
	"time"

	"fieldnote/internal/platform/config"
	"fieldnote/internal/platform/logger"
	phttp "fieldnote/internal/platform/net/http"
	"fieldnote/internal/platform/net/middleware"
	"fieldnote/internal/platform/store"

	"fieldnote/internal/modkit"
	"fieldnote/internal/modkit/httpkit"
	"fieldnote/internal/modkit/module"
	"fieldnote/internal/modkit/swaggerkit"

	kitsmod "fieldnote/internal/services/api/kits/module"
	lookupsmod "fieldnote/internal/services/api/lookups/module"
	metamod "fieldnote/internal/services/api/meta/module"
)

// Options are the API options
type Options struct {
	// Config is the CORE_API_ view
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount builds every module and mounts it under /api/v1. The returned
// function sweeps idle kit sessions until its context ends
func Mount(r phttp.Router, opt Options) (sweep func(ctx context.Context)) {
	deps := modkit.FromStore(opt.Config, opt.Logger, opt.Store)

	lookups := lookupsmod.New(deps)
	kits := kitsmod.New(deps, modkit.WithPorts(module.MustPortsOf[lookupsmod.Ports](lookups)))

	mods := []module.Module{
		metamod.New(deps),
		lookups,
		kits,
	}

	stack := httpkit.CommonStack(httpkit.StackOptions{
		IdentityHeader: opt.Config.MayString("IDENTITY_HEADER", middleware.DefaultIdentityHeader),
		CORS: middleware.CORSOptions{
			AllowedOrigins: opt.Config.MayCSV("CORS_ORIGINS", nil),
		},
		Timeout:     opt.Config.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		SlowRequest: opt.Config.MayDuration("SLOW_REQUEST", 500*time.Millisecond),
	})

	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	every := opt.Config.MayDuration("KITS_SWEEP_EVERY", 10*time.Minute)
	return func(ctx context.Context) { kits.(*kitsmod.Module).Sweep(ctx, every) }
}

// Package module wires kit entry sessions into the API
package module

import (
	"context"
	"time"

	"fieldnote/internal/core/entry"
	modkit "fieldnote/internal/modkit"
	"fieldnote/internal/modkit/httpkit"
	"fieldnote/internal/modkit/module"
	"fieldnote/internal/modkit/repokit"
	"fieldnote/internal/platform/config"
	"fieldnote/internal/platform/net/middleware"
	"fieldnote/internal/services/api/kits/domain"
	kitshttp "fieldnote/internal/services/api/kits/http"
	kitsrepo "fieldnote/internal/services/api/kits/repo"
	kitssvc "fieldnote/internal/services/api/kits/service"
	"fieldnote/internal/services/api/kits/session"
	lookups "fieldnote/internal/services/api/lookups/domain"
)

// DefaultTrackingTable is where uploaded samples are appended
const DefaultTrackingTable = "passive_mercury_tracking"

// DefaultMaxBody bounds one kits request body
const DefaultMaxBody = 1 << 20

// Ports is what kits exports to other modules
type Ports struct {
	Kits domain.ServicePort
}

// Module implements modkit.Module
type Module struct {
	modkit.Base
	svc *kitssvc.Svc
}

// New constructs the kits module. The lookups port must be handed in with
// modkit.WithPorts. KITS_TRACKING_TABLE, KITS_COMPLETION_LEN, KITS_SESSION_TTL
// and KITS_MAX_BODY tune it; SERVICE_CLICKHOUSE_AUDIT_TABLE names the audit table
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	kc := deps.Cfg.Prefix("KITS_")
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("kits"),
		modkit.WithPrefix("/kits"),
		modkit.WithMiddlewares(middleware.MaxBody(int64(kc.MayInt("MAX_BODY", DefaultMaxBody)))),
	}, opts...)...)

	lk, ok := module.From[lookups.ServicePort](b.Ports)
	if !ok {
		panic("kits module requires the lookups port (modkit.WithPorts)")
	}

	table := kc.MayString("TRACKING_TABLE", DefaultTrackingTable)
	log := deps.Logger().With().Str("component", "kits").Logger()
	auditTable := config.New().Prefix("SERVICE_CLICKHOUSE_").MayString("AUDIT_TABLE", kitsrepo.DefaultAuditTable)

	svc := kitssvc.New(
		repokit.WithBeginHooks(deps.DB, kitsrepo.LockHook(deps.Backend, table)...),
		kitsrepo.New(deps.Backend, table),
		lk,
		kitssvc.Options{
			Policy:     entry.Policy{CompletionLen: kc.MayInt("COMPLETION_LEN", entry.DefaultCompletionLen)},
			SessionTTL: kc.MayDuration("SESSION_TTL", session.DefaultTTL),
			Audit:      kitsrepo.Audit(deps.CH, auditTable, &log),
		},
	)
	log.Info().Str("table", table).Str("backend", deps.Backend).Bool("clickhouse_audit", deps.CH != nil).Msg("kits module ready")

	m := &Module{svc: svc}
	m.Base = modkit.NewBase(b, func(r httpkit.Router) { kitshttp.Register(r, svc) })
	return m
}

// Ports implements modkit.Module
func (m *Module) Ports() any { return Ports{Kits: m.svc} }

// Sweep drops idle sessions every interval until ctx ends
func (m *Module) Sweep(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.svc.Sessions().Sweep()
		}
	}
}

// @title         FieldNote API
// @version       0.1.0
// @description   Sample kit entry, validation and append upload for field technicians

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"fieldnote/internal/core/version"
	"fieldnote/internal/modkit/repokit"
	"fieldnote/internal/platform/config"
	"fieldnote/internal/platform/logger"
	phttp "fieldnote/internal/platform/net/http"
	"fieldnote/internal/platform/net/middleware"
	"fieldnote/internal/platform/store"

	"fieldnote/internal/services/api"

	"github.com/go-chi/chi/v5"
)

func main() {
	// service-scoped config for HTTP and modules (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	storeCfg := root.Prefix("SERVICE_STORE_")
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	liteCfg := root.Prefix("SERVICE_SQLITE_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	// bring up logging early
	l := logger.Get()
	info := version.Info()
	l.Info().Str("version", info.Version).Str("commit", info.Commit).Msg("fieldnote starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := store.Config{
		Backend: storeCfg.MayEnum("BACKEND", store.BackendPG, store.BackendPG, store.BackendSQLite),
	}
	switch cfg.Backend {
	case store.BackendPG:
		cfg.PG = store.PGConfig{
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", true),
		}
	case store.BackendSQLite:
		cfg.SQLite = store.SQLiteConfig{
			Path:        liteCfg.MayString("PATH", "fieldnote.db"),
			SlowQueryMs: liteCfg.MayInt("SLOW_MS", 500),
			LogSQL:      liteCfg.MayBool("LOG_SQL", false),
		}
	}
	if chCfg.MayBool("ENABLED", false) {
		cfg.CH = store.CHConfig{
			Enabled:    true,
			URL:        chCfg.MustString("DBURL"),
			ClientName: "fieldnote",
			ClientTag:  "api",
		}
	}

	st, err := store.Open(ctx, cfg, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	gctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	repokit.MustGuard(gctx, st)
	cancel()

	// http server (reads CORE_API_API_PORT)
	srv := phttp.NewServer(apiCfg, func(m *chi.Mux) { m.Use(middleware.Heartbeat("/ping")) })

	sweep := api.Mount(
		srv.Router(),
		api.Options{
			Config:         apiCfg,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)
	go sweep(ctx)

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}

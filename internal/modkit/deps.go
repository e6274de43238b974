// Package modkit wires API modules: shared deps, build options and the module contract
package modkit

import (
	"fieldnote/internal/modkit/repokit"
	"fieldnote/internal/platform/config"
	"fieldnote/internal/platform/logger"
	"fieldnote/internal/platform/store"
)

// Deps holds what every module may use; CH is nil when the audit sink is off
type Deps struct {
	Log     *logger.Logger
	Cfg     config.Conf
	DB      repokit.TxRunner
	Backend string
	CH      store.Clickhouse
}

// FromStore fills the store fields of Deps
func FromStore(cfg config.Conf, log *logger.Logger, s *store.Store) Deps {
	d := Deps{Cfg: cfg, Log: log}
	if s != nil {
		d.DB, d.Backend, d.CH = s.DB, s.Backend, s.CH
	}
	return d
}

// Logger returns Log or the root logger
func (d Deps) Logger() *logger.Logger {
	if d.Log == nil {
		return logger.Get()
	}
	return d.Log
}

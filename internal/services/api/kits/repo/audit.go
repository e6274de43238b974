package repo

import (
	"context"
	"fmt"
	"sync"

	"fieldnote/internal/platform/logger"
	"fieldnote/internal/platform/store"
	"fieldnote/internal/services/api/kits/domain"
)

// DefaultAuditTable is the ClickHouse table audit events land in
const DefaultAuditTable = "fieldnote_audit"

const auditDDL = `create table if not exists %s (
	at          DateTime64(3, 'UTC'),
	session     String,
	user        String,
	kind        LowCardinality(String),
	kit_id      String,
	row_index   Int32,
	column_name String,
	old_value   String,
	new_value   String,
	reverted    Bool,
	message     String
) engine = MergeTree order by (kit_id, at)`

// CHAudit appends audit events to ClickHouse, creating the table on first use
type CHAudit struct {
	ch    store.Clickhouse
	table string

	mu    sync.Mutex
	ready bool
}

// NewCHAudit returns a sink writing to table through ch
func NewCHAudit(ch store.Clickhouse, table string) *CHAudit {
	if table == "" {
		table = DefaultAuditTable
	}
	return &CHAudit{ch: ch, table: table}
}

func (a *CHAudit) ensure(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.ready {
		return nil
	}
	if err := a.ch.Exec(ctx, fmt.Sprintf(auditDDL, a.table)); err != nil {
		return fmt.Errorf("create %s: %w", a.table, err)
	}
	a.ready = true
	return nil
}

// Record implements domain.AuditSink
func (a *CHAudit) Record(ctx context.Context, ev domain.AuditEvent) error {
	if err := a.ensure(ctx); err != nil {
		return err
	}
	return a.ch.Insert(ctx, a.table, [][]any{{
		ev.At.UTC(), ev.Session, ev.User, string(ev.Kind), ev.KitID,
		int32(ev.Row), ev.Column, ev.Old, ev.New, ev.Reverted, ev.Message,
	}})
}

// LogAudit writes audit events to the structured log
type LogAudit struct{ Log *logger.Logger }

// Record implements domain.AuditSink
func (a LogAudit) Record(ctx context.Context, ev domain.AuditEvent) error {
	l := a.Log
	if l == nil {
		l = logger.C(ctx)
	}
	e := l.Info().
		Str("audit", string(ev.Kind)).
		Str("session", ev.Session).
		Str("user", ev.User).
		Str("kit_id", ev.KitID).
		Time("at", ev.At)
	if ev.Column != "" {
		e = e.Int("row", ev.Row).Str("column", ev.Column).Str("old", ev.Old).Str("new", ev.New).Bool("reverted", ev.Reverted)
	}
	e.Msg(ev.Message)
	return nil
}

// Audit picks the ClickHouse sink when ch is configured and the log otherwise
func Audit(ch store.Clickhouse, table string, log *logger.Logger) domain.AuditSink {
	if ch == nil {
		return LogAudit{Log: log}
	}
	return NewCHAudit(ch, table)
}

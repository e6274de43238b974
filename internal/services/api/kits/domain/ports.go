package domain

import (
	"context"
	"time"

	pnet "fieldnote/internal/platform/net"
)

// ServicePort is the kits workflow: one session per open form, commands serialized per session
type ServicePort interface {
	Open(ctx context.Context, who pnet.Identity, in OpenInput) (OpenResult, error)
	View(ctx context.Context, id string) (SessionView, error)
	Done(ctx context.Context, id string) (SessionView, error)
	Reset(ctx context.Context, id string) (SessionView, error)

	AddRow(ctx context.Context, id string) (SessionView, error)
	SetRowValue(ctx context.Context, id string, index int, in RowValueInput) (SessionView, error)
	SetRowType(ctx context.Context, id string, index int, in RowTypeInput) (SessionView, error)
	DeleteRow(ctx context.Context, id string, index int) (SessionView, error)

	Finalize(ctx context.Context, id string, in FinalizeInput) (SessionView, error)
	Load(ctx context.Context, id string, in LoadInput) (SessionView, error)
	Edit(ctx context.Context, id string, in CellEditInput) (EditResult, error)
	Upload(ctx context.Context, id string) (UploadReport, error)
}

// AuditKind names what an audit event records
type AuditKind string

const (
	AuditEdit     AuditKind = "edit"
	AuditFinalize AuditKind = "finalize"
	AuditLoad     AuditKind = "load"
	AuditUpload   AuditKind = "upload"
)

// AuditEvent is one line of the kit audit trail
type AuditEvent struct {
	At       time.Time `json:"at"`
	Session  string    `json:"session"`
	User     string    `json:"user"`
	Kind     AuditKind `json:"kind"`
	KitID    string    `json:"kit_id"`
	Row      int       `json:"row"`
	Column   string    `json:"column,omitempty"`
	Old      string    `json:"old,omitempty"`
	New      string    `json:"new,omitempty"`
	Reverted bool      `json:"reverted"`
	Message  string    `json:"message"`
}

// AuditSink stores audit events
type AuditSink interface {
	Record(ctx context.Context, ev AuditEvent) error
}

// Package domain holds the kits DTOs, views and ports
package domain

import (
	"time"

	"fieldnote/internal/core/batch"
	"fieldnote/internal/core/entry"
	lookups "fieldnote/internal/services/api/lookups/domain"
)

// Severity grades a feedback message for the front end
type Severity string

const (
	Success Severity = "success"
	Info    Severity = "info"
	Warning Severity = "warning"
	Danger  Severity = "danger"
)

// Feedback is the message shown after a command
type Feedback struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// OpenInput starts a session; User is ignored when the identity header is present
type OpenInput struct {
	User string `json:"user,omitempty" validate:"omitempty,max=200" example:"jdoe@example.org"`
}

// RowValueInput is typed text for one sampler row
type RowValueInput struct {
	Value string `json:"value" validate:"max=64" example:"ECCC0001"`
}

// RowTypeInput picks Sample or Blank for one row
type RowTypeInput struct {
	Type entry.Type `json:"type" validate:"omitempty,oneof=Sample Blank" example:"Sample"`
}

// FinalizeInput names the kit the rows belong to; the id is checked with the rows
type FinalizeInput struct {
	KitID string `json:"kit_id" example:"EC-0001"`
}

// LoadInput names a stored kit to edit
type LoadInput struct {
	KitID string `json:"kit_id" validate:"required,kit_id" example:"EC-0001"`
}

// CellEditInput edits one cell of the batch; Row is the zero based record position
type CellEditInput struct {
	Row    int    `json:"row" validate:"min=0" example:"0"`
	Column string `json:"column" validate:"required" example:"sample_start"`
	Value  string `json:"value" example:"2024-05-01 10:00:00"`
}

// SessionView is the state the front end renders
type SessionView struct {
	ID            string         `json:"id"`
	User          string         `json:"user"`
	Locked        bool           `json:"locked"`
	Rows          []entry.Row    `json:"rows"`
	Next          int            `json:"next"`
	KitID         string         `json:"kit_id,omitempty"`
	Batch         []batch.Record `json:"batch"`
	UploadEnabled bool           `json:"upload_enabled"`
	Feedback      *Feedback      `json:"feedback,omitempty"`
	ExpiresAt     time.Time      `json:"expires_at"`
}

// OpenResult is a new session plus the reference tables
type OpenResult struct {
	Session SessionView      `json:"session"`
	Lookups lookups.Snapshot `json:"lookups"`
}

// EditResult reports one cell edit
// a rejected timestamp is not an HTTP error: Reverted is set and Error names the expected format
type EditResult struct {
	Row      int           `json:"row"`
	Column   string        `json:"column"`
	Record   *batch.Record `json:"record,omitempty"`
	Audit    string        `json:"audit"`
	Notice   string        `json:"notice,omitempty"`
	Reverted bool          `json:"reverted"`
	Error    string        `json:"error,omitempty"`
	Field    string        `json:"field,omitempty"`
	Severity Severity      `json:"severity"`
}

// UploadReport is the outcome of an append upload
type UploadReport struct {
	Inserted int      `json:"inserted"`
	Skipped  []string `json:"skipped"`
	Internal []string `json:"internal_duplicates"`
	Existing []string `json:"existing"`
	Excluded int      `json:"excluded_blank"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Error    string   `json:"error,omitempty"`
}

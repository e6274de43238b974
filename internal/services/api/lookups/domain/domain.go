// Package domain holds the lookup snapshot and its ports
package domain

import (
	"context"
	"time"
)

// Record is one reference row keyed by column name
// reference tables are read whole, so their columns are whatever the store has
type Record = map[string]any

// Snapshot is every reference table as of LoadedAt
type Snapshot struct {
	Sites       []Record  `json:"sites"`
	Instruments []Record  `json:"instruments"`
	Flags       []Record  `json:"flags"`
	Users       []Record  `json:"users"`
	Projects    []string  `json:"projects"`
	LoadedAt    time.Time `json:"loaded_at"`
}

// Table names a reference set served on its own endpoint
type Table string

const (
	Sites       Table = "sites"
	Instruments Table = "instruments"
	Flags       Table = "flags"
	Users       Table = "users"
)

// Pick returns the records of t
func (s Snapshot) Pick(t Table) []Record {
	switch t {
	case Sites:
		return s.Sites
	case Instruments:
		return s.Instruments
	case Flags:
		return s.Flags
	case Users:
		return s.Users
	}
	return nil
}

// ServicePort is what other modules consume: a cached snapshot and a forced reload
type ServicePort interface {
	Snapshot(ctx context.Context) (Snapshot, error)
	Refresh(ctx context.Context) (Snapshot, error)
}

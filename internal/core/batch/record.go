// Package batch turns validated entry rows into sample records, applies grid
// edits to them and decides which records are safe to append to the tracking table
package batch

import (
	"strings"

	"fieldnote/internal/core/entry"
)

// Layouts accepted for time and date cells
const (
	TimestampLayout = "2006-01-02 15:04:05"
	TimestampFormat = "YYYY-MM-DD HH:MM:SS"
	DateLayout      = "2006-01-02"
	DateFormat      = "YYYY-MM-DD"
)

// Column names a record field; values match the tracking table columns
type Column string

// Tracking table columns
const (
	ColSampleStart     Column = "sample_start"
	ColSampleEnd       Column = "sample_end"
	ColSampleID        Column = "sample_id"
	ColKitID           Column = "kit_id"
	ColSamplerID       Column = "sampler_id"
	ColSiteID          Column = "site_id"
	ColShippedLocation Column = "shipped_location"
	ColShippedDate     Column = "shipped_date"
	ColReturnDate      Column = "return_date"
	ColSampleType      Column = "sample_type"
	ColNote            Column = "note"
)

// Columns lists every column in tracking table order
var Columns = []Column{
	ColSampleStart,
	ColSampleEnd,
	ColSampleID,
	ColKitID,
	ColSamplerID,
	ColSiteID,
	ColShippedLocation,
	ColShippedDate,
	ColReturnDate,
	ColSampleType,
	ColNote,
}

// ParseColumn resolves a column name
func ParseColumn(s string) (Column, bool) {
	c := Column(strings.TrimSpace(s))
	for _, k := range Columns {
		if k == c {
			return c, true
		}
	}
	return "", false
}

func (c Column) timestamp() bool { return c == ColSampleStart || c == ColSampleEnd }

func (c Column) date() bool { return c == ColShippedDate || c == ColReturnDate }

func (c Column) identity() bool { return c == ColKitID || c == ColSamplerID }

// Record is one sample row of a kit. Every field is held as grid text;
// an empty string means no value
type Record struct {
	SampleStart     string `json:"sample_start"`
	SampleEnd       string `json:"sample_end"`
	SampleID        string `json:"sample_id"`
	KitID           string `json:"kit_id"`
	SamplerID       string `json:"sampler_id"`
	SiteID          string `json:"site_id"`
	ShippedLocation string `json:"shipped_location"`
	ShippedDate     string `json:"shipped_date"`
	ReturnDate      string `json:"return_date"`
	SampleType      string `json:"sample_type"`
	Note            string `json:"note"`
}

// SampleID derives the tracking key of a sampler inside a kit
func SampleID(kitID, samplerID string) string { return kitID + "_" + samplerID }

// Key is the record's derived sample id computed from its current fields
func (r Record) Key() string { return SampleID(r.KitID, r.SamplerID) }

// Get returns the text of column c
func (r Record) Get(c Column) string {
	switch c {
	case ColSampleStart:
		return r.SampleStart
	case ColSampleEnd:
		return r.SampleEnd
	case ColSampleID:
		return r.SampleID
	case ColKitID:
		return r.KitID
	case ColSamplerID:
		return r.SamplerID
	case ColSiteID:
		return r.SiteID
	case ColShippedLocation:
		return r.ShippedLocation
	case ColShippedDate:
		return r.ShippedDate
	case ColReturnDate:
		return r.ReturnDate
	case ColSampleType:
		return r.SampleType
	case ColNote:
		return r.Note
	}
	return ""
}

func (r *Record) set(c Column, v string) {
	switch c {
	case ColSampleStart:
		r.SampleStart = v
	case ColSampleEnd:
		r.SampleEnd = v
	case ColSampleID:
		r.SampleID = v
	case ColKitID:
		r.KitID = v
	case ColSamplerID:
		r.SamplerID = v
	case ColSiteID:
		r.SiteID = v
	case ColShippedLocation:
		r.ShippedLocation = v
	case ColShippedDate:
		r.ShippedDate = v
	case ColReturnDate:
		r.ReturnDate = v
	case ColSampleType:
		r.SampleType = v
	case ColNote:
		r.Note = v
	}
}

// Materialize builds one record per non-blank row, in row order
// kit and sampler ids are trimmed; every other field starts empty
func Materialize(kitID string, rows []entry.Row) []Record {
	kit := strings.TrimSpace(kitID)
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		sampler := strings.TrimSpace(row.Value)
		if sampler == "" {
			continue
		}
		out = append(out, Record{
			SampleID:   SampleID(kit, sampler),
			KitID:      kit,
			SamplerID:  sampler,
			SampleType: string(row.Type),
		})
	}
	return out
}

// Clone copies a record slice so callers can edit without aliasing
func Clone(in []Record) []Record {
	if in == nil {
		return []Record{}
	}
	out := make([]Record, len(in))
	copy(out, in)
	return out
}

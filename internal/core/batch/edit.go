package batch

import (
	"fmt"
	"strings"
	"time"

	perr "fieldnote/internal/platform/errors"
)

// Outcome describes what a single cell edit did to the batch
type Outcome struct {
	Row       int    `json:"row"`
	Column    Column `json:"column"`
	Old       string `json:"old"`
	Attempted string `json:"attempted"`
	Committed string `json:"committed"`
	Reverted  bool   `json:"reverted"`

	// SampleIDChanged is set when a kit or sampler edit moved the derived key
	SampleIDChanged bool   `json:"sample_id_changed"`
	Notice          string `json:"notice,omitempty"`

	// Audit is the human readable audit line; always set for an accepted request
	Audit string `json:"audit"`

	Record Record `json:"record"`
}

// Edit applies value to column col of record row and returns the new batch
// records is never mutated. A malformed timestamp reverts the cell: the
// returned batch equals the input, the outcome is still filled in and err is a
// validation error naming the column. Read only or unknown columns and rows
// outside the batch return an invalid argument error and a zero outcome
func Edit(records []Record, row int, col Column, value string) ([]Record, Outcome, error) {
	if row < 0 || row >= len(records) {
		return records, Outcome{}, perr.InvalidArgf("row %d out of range (batch has %d records)", row, len(records))
	}
	if _, ok := ParseColumn(string(col)); !ok {
		return records, Outcome{}, perr.WithField(perr.InvalidArgf("unknown column %q", col), "column")
	}
	if col == ColSampleID {
		return records, Outcome{}, perr.WithField(perr.InvalidArgf("sample_id is derived and cannot be edited"), string(col))
	}

	out := Clone(records)
	rec := &out[row]
	oc := Outcome{
		Row:       row,
		Column:    col,
		Old:       rec.Get(col),
		Attempted: value,
	}

	if col.timestamp() && strings.TrimSpace(value) != "" {
		if _, err := time.Parse(TimestampLayout, value); err != nil {
			oc.Reverted = true
			oc.Committed = oc.Old
			oc.Record = *rec
			oc.Audit = fmt.Sprintf("%s in row %d rejected %q (expected %s), kept %q", col, row, value, TimestampFormat, oc.Old)
			verr := perr.WithField(
				perr.Wrapf(err, perr.ErrorCodeValidation, "%s must be %s, got %q", col, TimestampFormat, value),
				string(col),
			)
			return records, oc, verr
		}
	}

	if col.timestamp() && strings.TrimSpace(value) == "" {
		value = ""
	}
	rec.set(col, value)
	oc.Committed = value
	oc.Audit = fmt.Sprintf("%s in row %d changed from %q to %q", col, row, oc.Old, value)

	if col.identity() {
		next := rec.Key()
		if next != rec.SampleID {
			oc.SampleIDChanged = true
			oc.Notice = fmt.Sprintf("sample_id in row %d updated from %q to %q", row, rec.SampleID, next)
			rec.SampleID = next
		}
	}

	oc.Record = *rec
	return out, oc, nil
}

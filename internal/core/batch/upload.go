package batch

import (
	"fmt"
	"strings"
	"time"

	"fieldnote/internal/core/textnorm"
	perr "fieldnote/internal/platform/errors"
)

// StoreRow converts a record into tracking table values in Columns order
// empty cells become nil; filled time and date cells become time.Time and
// notes are normalized
func StoreRow(r Record, row int) ([]any, error) {
	vals := make([]any, 0, len(Columns))
	for _, c := range Columns {
		raw := r.Get(c)
		if c == ColSampleID {
			raw = r.Key()
		}
		switch {
		case c.timestamp():
			v, err := parseCell(raw, TimestampLayout, TimestampFormat, c, row)
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
		case c.date():
			v, err := parseCell(raw, DateLayout, DateFormat, c, row)
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
		case c == ColNote:
			vals = append(vals, nullText(textnorm.Note(raw)))
		default:
			vals = append(vals, nullText(raw))
		}
	}
	return vals, nil
}

// StoreRows converts every record; the first unparsable cell aborts
func StoreRows(records []Record) ([][]any, error) {
	out := make([][]any, 0, len(records))
	for i, r := range records {
		vals, err := StoreRow(r, i)
		if err != nil {
			return nil, err
		}
		out = append(out, vals)
	}
	return out, nil
}

func parseCell(raw, layout, human string, c Column, row int) (any, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return nil, perr.WithField(
			perr.Wrapf(err, perr.ErrorCodeValidation, "row %d: %s must be %s, got %q", row, c, human, raw),
			string(c),
		)
	}
	return t, nil
}

// FormatTimestamp renders a stored timestamp as grid text
func FormatTimestamp(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(TimestampLayout)
}

// FormatDate renders a stored date as grid text
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// StoredText renders a value read back from the tracking table as grid text
// drivers hand dates back as time.Time or as text depending on the backend
func StoredText(c Column, v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case time.Time:
		return formatAs(c, x)
	case *time.Time:
		if x == nil {
			return ""
		}
		return formatAs(c, *x)
	case []byte:
		return storedString(c, string(x))
	case string:
		return storedString(c, x)
	default:
		return fmt.Sprint(x)
	}
}

func storedString(c Column, s string) string {
	if !c.timestamp() && !c.date() {
		return s
	}
	for _, l := range storedLayouts {
		if t, err := time.Parse(l, strings.TrimSpace(s)); err == nil {
			return formatAs(c, t)
		}
	}
	return s
}

var storedLayouts = []string{
	TimestampLayout,
	DateLayout,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
}

func formatAs(c Column, t time.Time) string {
	if c.date() {
		return FormatDate(&t)
	}
	return FormatTimestamp(&t)
}

func nullText(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}

// FromStored builds a record from stored cell text in Columns order
// the sample id is recomputed from kit and sampler
func FromStored(cells []string) Record {
	var r Record
	for i, c := range Columns {
		if i < len(cells) {
			r.set(c, cells[i])
		}
	}
	r.SampleID = r.Key()
	return r
}

// Package kitid validates kit and sampler identifiers before a batch is built
package kitid

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"fieldnote/internal/core/entry"
	perr "fieldnote/internal/platform/errors"
)

var (
	kitPattern     = regexp.MustCompile(`^EC-[0-9]{4}$`)
	samplerPattern = regexp.MustCompile(`^ECCC[0-9]{4}$`)
)

const (
	// KitFormat is the human form of the kit id pattern
	KitFormat = "EC-####"
	// SamplerFormat is the human form of the sampler id pattern
	SamplerFormat = "ECCC####"
)

// ValidKit reports whether s (trimmed) is a kit id
func ValidKit(s string) bool { return kitPattern.MatchString(strings.TrimSpace(s)) }

// ValidSampler reports whether s (trimmed) is a sampler id
func ValidSampler(s string) bool { return samplerPattern.MatchString(strings.TrimSpace(s)) }

// Blank reports whether a row holds no usable text
func Blank(s string) bool { return strings.TrimSpace(s) == "" }

// InvalidSamplerIDsError lists every rejected sampler id, in row order
type InvalidSamplerIDsError struct {
	Values []string
}

func (e *InvalidSamplerIDsError) Error() string {
	quoted := make([]string, len(e.Values))
	for i, v := range e.Values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return fmt.Sprintf("invalid sampler ids %s (expected %s)", strings.Join(quoted, ", "), SamplerFormat)
}

// Validate checks the kit id and every non-blank row
// the returned error is a validation *perr.Error; sampler failures wrap an
// *InvalidSamplerIDsError naming all offending values
func Validate(kitID string, rows []entry.Row) error {
	if !ValidKit(kitID) {
		return perr.WithField(
			perr.Validationf("invalid kit id %q (expected %s)", strings.TrimSpace(kitID), KitFormat),
			"kit_id",
		)
	}

	var bad []string
	for _, r := range rows {
		if Blank(r.Value) {
			continue
		}
		if !ValidSampler(r.Value) {
			bad = append(bad, strings.TrimSpace(r.Value))
		}
	}
	if len(bad) > 0 {
		inv := &InvalidSamplerIDsError{Values: bad}
		return perr.WithField(perr.Wrap(inv, perr.ErrorCodeValidation, inv.Error()), "sampler_id")
	}
	return nil
}

// IsInvalidKit reports whether err rejected the kit id
func IsInvalidKit(err error) bool {
	e, ok := perr.As(err)
	return ok && e.Code() == perr.ErrorCodeValidation && e.Field() == "kit_id"
}

// InvalidSamplers returns the rejected sampler ids carried by err, if any
func InvalidSamplers(err error) ([]string, bool) {
	var inv *InvalidSamplerIDsError
	if !errors.As(err, &inv) {
		return nil, false
	}
	return inv.Values, true
}

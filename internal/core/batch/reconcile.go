package batch

import (
	"slices"
	"strings"
)

// Plan is the result of reconciling a batch against the tracking table
type Plan struct {
	// Insert holds the records to append, in batch order
	Insert []Record `json:"insert"`
	// Skipped is every sample id left out because of a duplicate, sorted
	Skipped []string `json:"skipped"`
	// Internal lists ids that occur more than once inside the batch
	Internal []string `json:"internal"`
	// Existing lists ids that are already tracked
	Existing []string `json:"existing"`
	// Excluded counts records dropped for an empty sampler id
	Excluded int `json:"excluded"`
}

// BlankSamplers counts records without a sampler id; upload leaves them out
func BlankSamplers(records []Record) int {
	n := 0
	for _, r := range records {
		if strings.TrimSpace(r.SamplerID) == "" {
			n++
		}
	}
	return n
}

// Reconcile decides which records may be appended
// keys are recomputed from kit and sampler so edited rows are judged by their
// current identity. Every copy of an id that repeats inside the batch is
// skipped, as is any id in existing
func Reconcile(records []Record, existing map[string]struct{}) Plan {
	counts := make(map[string]int, len(records))
	kept := make([]Record, 0, len(records))
	p := Plan{Insert: []Record{}, Skipped: []string{}, Internal: []string{}, Existing: []string{}}

	for _, r := range records {
		if strings.TrimSpace(r.SamplerID) == "" {
			p.Excluded++
			continue
		}
		counts[r.Key()]++
		kept = append(kept, r)
	}

	skipped := map[string]struct{}{}
	for _, r := range kept {
		k := r.Key()
		_, tracked := existing[k]
		dup := counts[k] > 1
		if !tracked && !dup {
			r.SampleID = k
			p.Insert = append(p.Insert, r)
			continue
		}
		if _, seen := skipped[k]; seen {
			continue
		}
		skipped[k] = struct{}{}
		p.Skipped = append(p.Skipped, k)
		if dup {
			p.Internal = append(p.Internal, k)
		}
		if tracked {
			p.Existing = append(p.Existing, k)
		}
	}

	slices.Sort(p.Skipped)
	slices.Sort(p.Internal)
	slices.Sort(p.Existing)
	return p
}

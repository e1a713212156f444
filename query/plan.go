package query

import (
	"github.com/guileen/doclitedb/index"
)

// PlanResult is the outcome of pure planning: the clauses the index consumed
// and the disjoint, sorted scan ranges. Zero ranges means no clause mapped
// onto the index's leading field and a full partition scan is required.
type PlanResult struct {
	// Used holds the consumed clauses in their original order.
	Used []Clause
	// used flags the consumed clauses by position in the planned slice.
	used []bool
	// Ranges are the composed scan regions, sorted and mutually disjoint.
	Ranges []IndexRange
	// Empty reports that a consumed clause admits no value at all, so the
	// plan matches no key. Distinct from zero Ranges, which means no
	// clause mapped onto the leading field and a full scan is required.
	Empty bool
}

// clone copies the mutable clause bookkeeping so a cached plan can be
// extended by residual narrowing without touching the shared entry. Ranges
// are immutable after planning and shared as-is.
func (p PlanResult) clone() PlanResult {
	out := PlanResult{Ranges: p.Ranges, Empty: p.Empty}
	out.Used = append([]Clause(nil), p.Used...)
	out.used = append([]bool(nil), p.used...)
	return out
}

// Unused returns the clauses the plan did not consume, in original order.
func (p PlanResult) Unused(clauses []Clause) []Clause {
	var out []Clause
	for i, c := range clauses {
		if i >= len(p.used) || !p.used[i] {
			out = append(out, c)
		}
	}
	return out
}

// Plan translates filter clauses into scan ranges over the given index.
//
// Index fields are visited in declared order; the first field without a
// constraint ends the prefix, since a gap would need one scan per distinct
// value of the skipped field. The prefix also ends right after the first
// field anchored by a range comparator: later fields could only widen a
// contiguous byte range past what their clauses allow, so their clauses are
// left for residual narrowing instead.
//
// Planning is pure: the used-clause accumulator is local to this call.
func Plan(clauses []Clause, meta index.Metadata) (PlanResult, error) {
	order := classify(clauses)
	used := make([]bool, len(clauses))

	var perField []fieldBounds
	for _, field := range meta.Fields {
		fb, constrained, err := extractFieldBounds(field, order, clauses, used)
		if err != nil {
			return PlanResult{}, err
		}
		if !constrained {
			break
		}
		perField = append(perField, fb)
		if !fb.point {
			break
		}
	}

	result := PlanResult{used: used}
	if len(perField) == 0 {
		return result, nil
	}

	// An in clause over zero values admits nothing; its field contributes
	// zero boundary pairs and the whole conjunction matches no key.
	for _, fb := range perField {
		if len(fb.starts) == 0 {
			result.Empty = true
			break
		}
	}
	if !result.Empty {
		result.Ranges = composeRanges(perField)
	}
	for i, c := range clauses {
		if used[i] {
			result.Used = append(result.Used, c)
		}
	}
	return result, nil
}

// composeRanges computes the lock-step cartesian product of the per-field
// start and end lists. The product is indexed arithmetic over fixed list
// lengths; earlier (outer) index fields vary slowest, which keeps the
// resulting ranges in ascending key order.
func composeRanges(perField []fieldBounds) []IndexRange {
	total := 1
	for _, fb := range perField {
		total *= len(fb.starts)
	}

	ranges := make([]IndexRange, 0, total)
	for i := 0; i < total; i++ {
		start := make(Boundary, len(perField))
		end := make(Boundary, len(perField))
		rest := i
		for f := len(perField) - 1; f >= 0; f-- {
			n := len(perField[f].starts)
			pick := rest % n
			rest /= n
			start[f] = perField[f].starts[pick]
			end[f] = perField[f].ends[pick]
		}
		ranges = append(ranges, IndexRange{Start: start, End: end})
	}
	return ranges
}

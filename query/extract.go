package query

import (
	"sort"

	"github.com/guileen/doclitedb/codec"
	errs "github.com/guileen/doclitedb/engine/errors"
)

// fieldBounds holds the parallel per-value start/end element lists one field
// contributes to range composition, plus whether the anchoring clause was a
// point (EQ/IN) constraint. Only point-anchored fields keep the composite
// range exact when further fields are appended.
type fieldBounds struct {
	starts []BoundaryElem
	ends   []BoundaryElem
	point  bool
}

// extractFieldBounds inspects the classified clauses addressing one field
// and produces its boundary lists. The first clause in specificity order is
// the anchor; a range anchor may additionally consume one complementary
// bound clause. Consumed clauses are flagged in used.
//
// The second return value is false when no clause addresses the field, which
// tells the composer to stop extending the scan prefix.
func extractFieldBounds(field string, order []int, clauses []Clause, used []bool) (fieldBounds, bool, error) {
	anchor := -1
	for _, i := range order {
		if !used[i] && clauses[i].Field == field {
			anchor = i
			break
		}
	}
	if anchor == -1 {
		return fieldBounds{}, false, nil
	}

	c := clauses[anchor]
	used[anchor] = true

	switch c.Cmp {
	case EQ, IN:
		fb, err := extractPointBounds(c)
		return fb, true, err
	case GT, GTE, LT, LTE:
		fb, err := extractRangeBounds(c, anchor, order, clauses, used)
		return fb, true, err
	default:
		return fieldBounds{}, false, errs.Errorf(errs.ErrCodeUnsupportedComparator,
			"comparator %s is not index-usable", c.Cmp)
	}
}

func extractPointBounds(c Clause) (fieldBounds, error) {
	var operands []any
	if c.Cmp == IN {
		arr, ok := c.Value.([]any)
		if !ok {
			return fieldBounds{}, errs.Errorf(errs.ErrCodeInvalidOperand,
				"in comparator on %s needs an array operand, got %T", c.Field, c.Value)
		}
		operands = arr
	} else {
		operands = []any{c.Value}
	}

	values := make([]codec.Value, 0, len(operands)+1)
	sawNull := false
	for _, op := range operands {
		v, err := scalarOperand(c, op)
		if err != nil {
			return fieldBounds{}, err
		}
		values = append(values, v)
		if v.IsNull() {
			sawNull = true
		}
	}
	// eq null must also match documents where the field is absent; absence
	// is stored as the undefined marker, a distinct key position.
	if sawNull {
		values = append(values, codec.Undefined)
	}

	// Composed ranges concatenate without merging, which requires them
	// sorted and disjoint even when the operand list was not.
	sort.Slice(values, func(i, j int) bool {
		return codec.Compare(values[i], values[j]) < 0
	})
	fb := fieldBounds{point: true}
	for i, v := range values {
		if i > 0 && v.Equal(values[i-1]) {
			continue
		}
		fb.starts = append(fb.starts, valueElem(v))
		fb.ends = append(fb.ends, edgeAfter(v))
	}
	return fb, nil
}

func extractRangeBounds(c Clause, anchor int, order []int, clauses []Clause, used []bool) (fieldBounds, error) {
	v, err := scalarOperand(c, c.Value)
	if err != nil {
		return fieldBounds{}, err
	}

	var start, end BoundaryElem
	switch c.Cmp {
	case LT, LTE:
		if c.Cmp == LT {
			end = edgeBefore(v)
		} else {
			end = edgeAfter(v)
		}
		if comp, ok := complementOf(c.Field, GTE, anchor, order, clauses, used); ok {
			cv, err := scalarOperand(clauses[comp], clauses[comp].Value)
			if err != nil {
				return fieldBounds{}, err
			}
			used[comp] = true
			start = valueElem(cv)
		} else if comp, ok := complementOf(c.Field, GT, anchor, order, clauses, used); ok {
			cv, err := scalarOperand(clauses[comp], clauses[comp].Value)
			if err != nil {
				return fieldBounds{}, err
			}
			used[comp] = true
			start = edgeAfter(cv)
		} else if v.IsNull() {
			start = valueElem(codec.NegativeInfinity)
		} else {
			// Null and absent values stay out of open-ended range
			// comparisons unless null was asked for explicitly.
			start = edgeAfter(codec.Undefined)
		}
	case GT, GTE:
		if c.Cmp == GT {
			start = edgeAfter(v)
		} else {
			start = valueElem(v)
		}
		if comp, ok := complementOf(c.Field, LTE, anchor, order, clauses, used); ok {
			cv, err := scalarOperand(clauses[comp], clauses[comp].Value)
			if err != nil {
				return fieldBounds{}, err
			}
			used[comp] = true
			end = edgeAfter(cv)
		} else if comp, ok := complementOf(c.Field, LT, anchor, order, clauses, used); ok {
			cv, err := scalarOperand(clauses[comp], clauses[comp].Value)
			if err != nil {
				return fieldBounds{}, err
			}
			used[comp] = true
			end = edgeBefore(cv)
		} else if v.IsNull() {
			end = edgeAfter(codec.Null)
		} else {
			end = valueElem(codec.PositiveInfinity)
		}
	}

	return fieldBounds{
		starts: []BoundaryElem{start},
		ends:   []BoundaryElem{end},
	}, nil
}

// complementOf finds the first unused clause pairing the anchor's field with
// the wanted opposite-direction comparator. Duplicate same-comparator
// clauses are never reconciled; only the first match counts.
func complementOf(field string, want Comparator, anchor int, order []int, clauses []Clause, used []bool) (int, bool) {
	for _, i := range order {
		if i == anchor || used[i] {
			continue
		}
		if clauses[i].Field == field && clauses[i].Cmp == want {
			return i, true
		}
	}
	return 0, false
}

// scalarOperand converts a clause operand into a domain value, rejecting
// arrays and objects where a scalar is required.
func scalarOperand(c Clause, op any) (codec.Value, error) {
	switch op.(type) {
	case []any, map[string]any:
		return codec.Value{}, errs.Errorf(errs.ErrCodeInvalidOperand,
			"%s comparator on %s needs a scalar operand, got %T", c.Cmp, c.Field, op)
	}
	v, err := codec.FromAny(op)
	if err != nil {
		return codec.Value{}, errs.Wrap(err, errs.ErrCodeInvalidOperand, "convert operand")
	}
	if v.IsSentinel() || v.IsUndefined() {
		return codec.Value{}, errs.Errorf(errs.ErrCodeInvalidOperand,
			"%s is not a queryable operand", v)
	}
	return v, nil
}

package query

import (
	"sort"
)

// isIndexUsable reports whether a comparator can ever be answered by a range
// scan. NE and NIN describe complements of ranges and are never usable.
func isIndexUsable(cmp Comparator) bool {
	switch cmp {
	case EQ, IN, GT, GTE, LT, LTE:
		return true
	default:
		return false
	}
}

// isPointComparator reports whether a comparator constrains a field to
// individual values rather than a span.
func isPointComparator(cmp Comparator) bool {
	return cmp == EQ || cmp == IN
}

// classify returns the positions of the index-usable clauses, stable-sorted
// so that equality and membership clauses precede range comparators. Ties
// keep their original relative order; two clauses on the same field with the
// same comparator are never reconciled, the earlier one wins.
func classify(clauses []Clause) []int {
	order := make([]int, 0, len(clauses))
	for i, c := range clauses {
		if isIndexUsable(c.Cmp) {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa := isPointComparator(clauses[order[a]].Cmp)
		pb := isPointComparator(clauses[order[b]].Cmp)
		return pa && !pb
	})
	return order
}

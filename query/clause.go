// Package query plans and executes field-filter queries against a composite
// sorted index stored in an ordered key-value engine. Planning translates
// filter clauses into the minimal set of disjoint key ranges over the index
// partition; execution scans those ranges lazily and applies any residual
// clauses against data already present in the index keys.
package query

import (
	"fmt"
	"strings"
)

// Comparator identifies a filter operator.
type Comparator string

const (
	EQ  Comparator = "eq"
	IN  Comparator = "in"
	GT  Comparator = "gt"
	GTE Comparator = "gte"
	LT  Comparator = "lt"
	LTE Comparator = "lte"
	NE  Comparator = "ne"
	NIN Comparator = "nin"
)

// Clause is one filter condition over a dotted field path. The operand is a
// scalar, or a []any for IN and NIN. Clauses are immutable once constructed.
type Clause struct {
	Field string
	Cmp   Comparator
	Value any
}

func (c Clause) String() string {
	return fmt.Sprintf("%s %s %v", c.Field, c.Cmp, c.Value)
}

// signature is a canonical representation used as a plan cache key
// component. Operand type is included so 1 and "1" never collide.
func (c Clause) signature() string {
	var sb strings.Builder
	sb.WriteString(c.Field)
	sb.WriteByte('|')
	sb.WriteString(string(c.Cmp))
	sb.WriteByte('|')
	switch v := c.Value.(type) {
	case []any:
		for _, el := range v {
			fmt.Fprintf(&sb, "%T:%v;", el, el)
		}
	default:
		fmt.Fprintf(&sb, "%T:%v", v, v)
	}
	return sb.String()
}

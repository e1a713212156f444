package query

import (
	"fmt"

	"github.com/guileen/doclitedb/codec"
)

// EdgeKind tags a boundary element as a plain value or a synthetic edge
// around it.
type EdgeKind uint8

const (
	// EdgeNone marks a plain value element.
	EdgeNone EdgeKind = iota
	// EdgeAfter marks the smallest boundary strictly greater than every
	// key whose component equals the element's value.
	EdgeAfter
	// EdgeBefore marks the largest boundary strictly smaller than every
	// key whose component equals the element's value.
	EdgeBefore
)

// BoundaryElem is one per-field component of a scan boundary.
type BoundaryElem struct {
	Value codec.Value
	Edge  EdgeKind
}

func valueElem(v codec.Value) BoundaryElem {
	return BoundaryElem{Value: v}
}

// edgeAfter builds the exclusive-upper edge of v. Never called with
// PositiveInfinity: no key sorts above it, so the edge does not exist.
func edgeAfter(v codec.Value) BoundaryElem {
	return BoundaryElem{Value: v, Edge: EdgeAfter}
}

// edgeBefore builds the boundary just below every key carrying v. It only
// appears in end positions, where it encodes as the bare value: the bare
// encoding sorts below every full key whose component equals v, so an
// exclusive scan end needs no marker byte.
func edgeBefore(v codec.Value) BoundaryElem {
	return BoundaryElem{Value: v, Edge: EdgeBefore}
}

func (e BoundaryElem) String() string {
	switch e.Edge {
	case EdgeAfter:
		return fmt.Sprintf("after(%s)", e.Value)
	case EdgeBefore:
		return fmt.Sprintf("before(%s)", e.Value)
	default:
		return e.Value.String()
	}
}

// Boundary is one scan boundary: one element per composed index field, in
// field order.
type Boundary []BoundaryElem

// IndexRange is one contiguous scan region, start inclusive, end exclusive
// once encoded. Ranges composed into one plan are mutually disjoint and
// sorted, so scan results concatenate without a merge step.
type IndexRange struct {
	Start Boundary
	End   Boundary
}

// encodeBoundary renders a boundary into engine key bytes under the index
// partition prefix.
//
// An EdgeAfter materializes as a marker byte appended after its value, but
// only for the terminal element: everything the scan pins through earlier
// fields is already fixed byte-for-byte, so an interior edge reduces to its
// base value and the marker would only cut off the later fields' bytes.
// EdgeBefore always encodes as the bare value; it never appears in a start
// boundary, and as an exclusive end the bare encoding already sits below
// every key carrying the value.
func encodeBoundary(indexID int64, b Boundary) []byte {
	buf := codec.PartitionStart(indexID)
	for i, elem := range b {
		buf = codec.AppendValue(buf, elem.Value)
		if i == len(b)-1 && elem.Edge == EdgeAfter {
			buf = codec.AppendEdgeMarker(buf)
		}
	}
	return buf
}

package codec

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Kind identifies a member of the ordered value domain. The declared order
// of the kinds is the sort order of the encoding:
//
//	NegativeInfinity < Null < Undefined < Bool < Number < String < Bytes < PositiveInfinity
//
// The three sentinel kinds never appear inside stored index keys except for
// Undefined, which is how an absent field is materialized in an entry.
type Kind uint8

const (
	KindNegativeInfinity Kind = iota
	KindNull
	KindUndefined
	KindBool
	KindNumber
	KindString
	KindBytes
	KindPositiveInfinity
)

func (k Kind) String() string {
	switch k {
	case KindNegativeInfinity:
		return "-inf"
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindPositiveInfinity:
		return "+inf"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a closed tagged variant over the encoding domain. Sentinels and
// real scalars share the type so boundary arithmetic stays exhaustive.
type Value struct {
	kind Kind
	b    bool
	num  float64
	str  string
	raw  []byte
}

// Sentinel values of the domain.
var (
	NegativeInfinity = Value{kind: KindNegativeInfinity}
	Null             = Value{kind: KindNull}
	Undefined        = Value{kind: KindUndefined}
	PositiveInfinity = Value{kind: KindPositiveInfinity}
)

func Bool(v bool) Value      { return Value{kind: KindBool, b: v} }
func Number(v float64) Value { return Value{kind: KindNumber, num: v} }
func String(s string) Value  { return Value{kind: KindString, str: s} }

func Bytes(b []byte) Value {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Value{kind: KindBytes, raw: cp}
}

// UUID encodes a uuid as its 16 raw bytes, ordered like any other byte value.
func UUID(u uuid.UUID) Value { return Bytes(u[:]) }

// FromAny converts a Go scalar into a Value. nil maps to Null.
// Integral types are widened to float64; the domain is the document-database
// numeric domain, not Go's.
func FromAny(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null, nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return Number(float64(x)), nil
	case int8:
		return Number(float64(x)), nil
	case int16:
		return Number(float64(x)), nil
	case int32:
		return Number(float64(x)), nil
	case int64:
		return Number(float64(x)), nil
	case uint:
		return Number(float64(x)), nil
	case uint8:
		return Number(float64(x)), nil
	case uint16:
		return Number(float64(x)), nil
	case uint32:
		return Number(float64(x)), nil
	case uint64:
		return Number(float64(x)), nil
	case float32:
		return Number(float64(x)), nil
	case float64:
		return Number(x), nil
	case string:
		return String(x), nil
	case []byte:
		return Bytes(x), nil
	case uuid.UUID:
		return UUID(x), nil
	default:
		return Value{}, fmt.Errorf("unsupported value type: %T", v)
	}
}

func (v Value) Kind() Kind        { return v.kind }
func (v Value) IsNull() bool      { return v.kind == KindNull }
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

// IsSentinel reports whether v is one of the non-storable rail values.
func (v Value) IsSentinel() bool {
	return v.kind == KindNegativeInfinity || v.kind == KindPositiveInfinity
}

// Interface returns the Go representation of a decoded value. Undefined
// decodes to nil like Null; callers that care consult Kind.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindBytes:
		return v.raw
	default:
		return nil
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return fmt.Sprintf("%v", v.b)
	case KindNumber:
		return fmt.Sprintf("%v", v.num)
	case KindString:
		return fmt.Sprintf("%q", v.str)
	case KindBytes:
		return fmt.Sprintf("0x%x", v.raw)
	default:
		return v.kind.String()
	}
}

// Equal reports value equality under the domain's total order.
func (v Value) Equal(o Value) bool { return Compare(v, o) == 0 }

// Compare orders two values consistently with their encoded byte order.
func Compare(a, b Value) int {
	if a.kind != b.kind {
		if a.kind < b.kind {
			return -1
		}
		return 1
	}
	switch a.kind {
	case KindBool:
		if a.b == b.b {
			return 0
		}
		if !a.b {
			return -1
		}
		return 1
	case KindNumber:
		au, bu := orderedFloatBits(a.num), orderedFloatBits(b.num)
		if au < bu {
			return -1
		}
		if au > bu {
			return 1
		}
		return 0
	case KindString:
		if a.str < b.str {
			return -1
		}
		if a.str > b.str {
			return 1
		}
		return 0
	case KindBytes:
		return compareBytes(a.raw, b.raw)
	default:
		return 0
	}
}

func compareBytes(a, b []byte) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// orderedFloatBits maps a float64 onto uint64 such that the integer order
// matches the numeric order. Same transform the encoder applies.
func orderedFloatBits(f float64) uint64 {
	u := math.Float64bits(f)
	if u&(1<<63) != 0 {
		return ^u
	}
	return u | (1 << 63)
}

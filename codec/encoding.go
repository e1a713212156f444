package codec

import (
	"fmt"
)

// Flag bytes lead every encoded value. Their numeric order realizes the
// domain order NegativeInfinity < Null < Undefined < scalars < PositiveInfinity.
const (
	negativeInfinityFlag byte = 0x00
	nullFlag             byte = 0x01
	undefinedFlag        byte = 0x02
	boolFlag             byte = 0x03
	numberFlag           byte = 0x04
	stringFlag           byte = 0x05
	bytesFlag            byte = 0x06
	positiveInfinityFlag byte = 0xFA

	// edgeFlag is appended after a complete value encoding to form an
	// exclusive upper bound ("edge after"). It is greater than every flag
	// byte, so enc(v)+edgeFlag sorts above every key that begins with
	// enc(v) and below the encoding of any value greater than v.
	edgeFlag byte = 0xFF
)

type KeyType byte

const (
	KeyTypeIndex KeyType = 'i'
	KeyTypeMeta  KeyType = 'm'
)

// AppendValue appends the order-preserving encoding of v to buf.
func AppendValue(buf []byte, v Value) []byte {
	switch v.kind {
	case KindNegativeInfinity:
		return append(buf, negativeInfinityFlag)
	case KindNull:
		return append(buf, nullFlag)
	case KindUndefined:
		return append(buf, undefinedFlag)
	case KindBool:
		if v.b {
			return append(buf, boolFlag, 0x01)
		}
		return append(buf, boolFlag, 0x00)
	case KindNumber:
		buf = append(buf, numberFlag)
		return appendOrderedUint64(buf, orderedFloatBits(v.num))
	case KindString:
		buf = append(buf, stringFlag)
		return appendEscapedBytes(buf, []byte(v.str))
	case KindBytes:
		buf = append(buf, bytesFlag)
		return appendEscapedBytes(buf, v.raw)
	case KindPositiveInfinity:
		return append(buf, positiveInfinityFlag)
	default:
		// Closed variant; unreachable for values built via constructors.
		panic(fmt.Sprintf("codec: invalid value kind %d", v.kind))
	}
}

// EncodeValue returns the standalone encoding of v.
func EncodeValue(v Value) []byte {
	return AppendValue(make([]byte, 0, 16), v)
}

// AppendEdgeMarker appends the synthetic edge byte that turns a complete
// value encoding into the boundary just past every key beginning with it.
func AppendEdgeMarker(buf []byte) []byte {
	return append(buf, edgeFlag)
}

// DecodeValue decodes one value from the front of data and reports how many
// bytes it consumed.
func DecodeValue(data []byte) (Value, int, error) {
	if len(data) == 0 {
		return Value{}, 0, fmt.Errorf("empty value encoding")
	}
	switch data[0] {
	case negativeInfinityFlag:
		return NegativeInfinity, 1, nil
	case nullFlag:
		return Null, 1, nil
	case undefinedFlag:
		return Undefined, 1, nil
	case boolFlag:
		if len(data) < 2 {
			return Value{}, 0, fmt.Errorf("truncated bool encoding")
		}
		return Bool(data[1] != 0x00), 2, nil
	case numberFlag:
		if len(data) < 9 {
			return Value{}, 0, fmt.Errorf("truncated number encoding")
		}
		return Number(floatFromOrderedBits(readOrderedUint64(data[1:9]))), 9, nil
	case stringFlag:
		raw, n, err := decodeEscapedBytes(data[1:])
		if err != nil {
			return Value{}, 0, fmt.Errorf("string encoding: %w", err)
		}
		return Value{kind: KindString, str: string(raw)}, 1 + n, nil
	case bytesFlag:
		raw, n, err := decodeEscapedBytes(data[1:])
		if err != nil {
			return Value{}, 0, fmt.Errorf("bytes encoding: %w", err)
		}
		return Value{kind: KindBytes, raw: raw}, 1 + n, nil
	case positiveInfinityFlag:
		return PositiveInfinity, 1, nil
	default:
		return Value{}, 0, fmt.Errorf("invalid value flag 0x%02x", data[0])
	}
}

// EncodeKeyPrefix builds the leading segment shared by every key of one index.
func EncodeKeyPrefix(indexID int64) []byte {
	buf := make([]byte, 0, 9)
	buf = append(buf, byte(KeyTypeIndex))
	return appendOrderedInt64(buf, indexID)
}

// EncodeEntryKey builds a full index entry key: prefix, one encoded value per
// indexed field, then the document id suffix.
func EncodeEntryKey(indexID int64, values []Value, docID string) ([]byte, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("entry key needs at least one value")
	}
	buf := EncodeKeyPrefix(indexID)
	for _, v := range values {
		if v.IsSentinel() {
			return nil, fmt.Errorf("sentinel %s cannot be stored in an entry key", v.kind)
		}
		buf = AppendValue(buf, v)
	}
	return appendEscapedBytes(buf, []byte(docID)), nil
}

// PartitionStart is the smallest possible key of an index partition.
func PartitionStart(indexID int64) []byte {
	return EncodeKeyPrefix(indexID)
}

// PartitionEnd is a key strictly greater than every key of an index
// partition and strictly smaller than any other partition's keys.
func PartitionEnd(indexID int64) []byte {
	return append(EncodeKeyPrefix(indexID), edgeFlag)
}

// DecodeEntryValues decodes the per-field values and the document id out of
// a full entry key produced by EncodeEntryKey.
func DecodeEntryValues(key []byte, fieldCount int) ([]Value, string, error) {
	prefixLen := 9 // key type byte + ordered int64 index id
	if len(key) <= prefixLen {
		return nil, "", fmt.Errorf("entry key too short: %d bytes", len(key))
	}
	offset := prefixLen
	values := make([]Value, 0, fieldCount)
	for i := 0; i < fieldCount; i++ {
		v, n, err := DecodeValue(key[offset:])
		if err != nil {
			return nil, "", fmt.Errorf("field %d: %w", i, err)
		}
		values = append(values, v)
		offset += n
	}
	docID, _, err := decodeEscapedBytes(key[offset:])
	if err != nil {
		return nil, "", fmt.Errorf("document id suffix: %w", err)
	}
	return values, string(docID), nil
}

// ValueAt decodes only the value at field position pos of an entry key,
// skipping earlier fields without materializing them.
func ValueAt(key []byte, pos int) (Value, error) {
	offset := 9
	for i := 0; ; i++ {
		if offset >= len(key) {
			return Value{}, fmt.Errorf("entry key exhausted before field %d", pos)
		}
		v, n, err := DecodeValue(key[offset:])
		if err != nil {
			return Value{}, fmt.Errorf("field %d: %w", i, err)
		}
		if i == pos {
			return v, nil
		}
		offset += n
	}
}

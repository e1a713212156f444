package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

func appendOrderedInt64(buf []byte, v int64) []byte {
	var tmp [8]byte
	u := uint64(v)
	u ^= 0x8000000000000000
	binary.BigEndian.PutUint64(tmp[:], u)
	return append(buf, tmp[:]...)
}

func appendOrderedUint64(buf []byte, u uint64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], u)
	return append(buf, tmp[:]...)
}

func readOrderedUint64(data []byte) uint64 {
	return binary.BigEndian.Uint64(data[:8])
}

func readOrderedInt64(data []byte) int64 {
	return int64(binary.BigEndian.Uint64(data[:8]) ^ 0x8000000000000000)
}

func floatFromOrderedBits(u uint64) float64 {
	if u&(1<<63) != 0 {
		u &^= 1 << 63
	} else {
		u = ^u
	}
	return math.Float64frombits(u)
}

// appendEscapedBytes writes b such that byte order is preserved across
// values of different lengths: 0x00 is escaped as 0x00 0xFF and the value is
// terminated by 0x00 0x00.
func appendEscapedBytes(buf []byte, b []byte) []byte {
	for _, ch := range b {
		buf = append(buf, ch)
		if ch == 0x00 {
			buf = append(buf, 0xFF)
		}
	}
	return append(buf, 0x00, 0x00)
}

// decodeEscapedBytes reverses appendEscapedBytes, returning the raw bytes
// and the encoded length consumed (terminator included).
func decodeEscapedBytes(data []byte) ([]byte, int, error) {
	out := make([]byte, 0, len(data))
	i := 0
	for i < len(data) {
		if data[i] != 0x00 {
			out = append(out, data[i])
			i++
			continue
		}
		if i+1 >= len(data) {
			return nil, 0, fmt.Errorf("dangling escape byte")
		}
		switch data[i+1] {
		case 0xFF:
			out = append(out, 0x00)
			i += 2
		case 0x00:
			return out, i + 2, nil
		default:
			return nil, 0, fmt.Errorf("invalid escape sequence 0x00 0x%02x", data[i+1])
		}
	}
	return nil, 0, fmt.Errorf("unterminated byte encoding")
}

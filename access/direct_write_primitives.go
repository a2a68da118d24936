package access

import (
	"encoding/binary"
	"math"

	"github.com/quickwritereader/PackNet/types"
)

// The Put* helpers write at pos into storage the caller has already sized and
// return the position after the value. They never grow.

// PutUint8 writes a single byte.
func PutUint8(buffer []byte, pos int, v uint8) int {
	buffer[pos] = v
	return pos + 1
}

// PutBool writes a boolean value as a single byte to the buffer.
func PutBool(buffer []byte, pos int, v bool) int {
	var b byte
	if v {
		b = 1
	}
	buffer[pos] = b
	return pos + 1
}

// PutUint16 writes a uint16 value to the buffer.
func PutUint16(buffer []byte, pos int, v uint16) int {
	binary.LittleEndian.PutUint16(buffer[pos:], v)
	return pos + 2
}

// PutUint32 writes a uint32 value to the buffer.
func PutUint32(buffer []byte, pos int, v uint32) int {
	binary.LittleEndian.PutUint32(buffer[pos:], v)
	return pos + 4
}

// PutUint64 writes a uint64 value to the buffer.
func PutUint64(buffer []byte, pos int, v uint64) int {
	binary.LittleEndian.PutUint64(buffer[pos:], v)
	return pos + 8
}

// PutFloat32 writes the IEEE-754 bit pattern of v.
func PutFloat32(buffer []byte, pos int, v float32) int {
	return PutUint32(buffer, pos, math.Float32bits(v))
}

// PutFloat64 writes the IEEE-754 bit pattern of v.
func PutFloat64(buffer []byte, pos int, v float64) int {
	return PutUint64(buffer, pos, math.Float64bits(v))
}

// PutPackedWhole writes the control byte for v's PackRate followed by the
// low-order bytes of v, least significant first. Requires types.PackedWholeSize(v)
// bytes of room.
func PutPackedWhole(buffer []byte, pos int, v uint64) int {
	rate := types.ResolvePackRate(v)
	buffer[pos] = byte(rate)
	pos++
	switch rate {
	case types.OneByte:
		buffer[pos] = byte(v)
		return pos + 1
	case types.TwoBytes:
		return PutUint16(buffer, pos, uint16(v))
	case types.FourBytes:
		return PutUint32(buffer, pos, uint32(v))
	default:
		return PutUint64(buffer, pos, v)
	}
}

package access

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/errors"

	"github.com/quickwritereader/PackNet/types"
)

// WritePackedWhole writes v as one control byte plus 1, 2, 4 or 8 data bytes.
func (w *Writer) WritePackedWhole(v uint64) {
	w.ensure(types.PackedWholeSize(v))
	w.advance(PutPackedWhole(w.buf, w.position, v))
}

// WriteBool writes 0x00 or 0x01.
func (w *Writer) WriteBool(v bool) {
	w.ensure(1)
	w.advance(PutBool(w.buf, w.position, v))
}

// WriteUint8 writes one raw byte.
func (w *Writer) WriteUint8(v uint8) {
	w.ensure(1)
	w.advance(PutUint8(w.buf, w.position, v))
}

// WriteInt8 writes the two's-complement byte of v.
func (w *Writer) WriteInt8(v int8) {
	w.WriteUint8(uint8(v))
}

func (w *Writer) WriteUint16(v uint16, pack types.AutoPackType) {
	if pack == types.Packed {
		w.WritePackedWhole(uint64(v))
		return
	}
	w.ensure(2)
	w.advance(PutUint16(w.buf, w.position, v))
}

// WriteInt16 reinterprets v as uint16 before encoding.
func (w *Writer) WriteInt16(v int16, pack types.AutoPackType) {
	w.WriteUint16(uint16(v), pack)
}

func (w *Writer) WriteUint32(v uint32, pack types.AutoPackType) {
	if pack == types.Packed {
		w.WritePackedWhole(uint64(v))
		return
	}
	w.ensure(4)
	w.advance(PutUint32(w.buf, w.position, v))
}

// WriteInt32 reinterprets v as uint32 before encoding, so -1 packs as FourBytes.
func (w *Writer) WriteInt32(v int32, pack types.AutoPackType) {
	w.WriteUint32(uint32(v), pack)
}

func (w *Writer) WriteUint64(v uint64, pack types.AutoPackType) {
	if pack == types.Packed {
		w.WritePackedWhole(v)
		return
	}
	w.ensure(8)
	w.advance(PutUint64(w.buf, w.position, v))
}

// WriteInt64 reinterprets v as uint64 before encoding.
func (w *Writer) WriteInt64(v int64, pack types.AutoPackType) {
	w.WriteUint64(uint64(v), pack)
}

// WriteFloat32 writes the bit pattern of v: raw when Unpacked, as a packed
// whole when Packed. Both are lossless.
func (w *Writer) WriteFloat32(v float32, pack types.AutoPackType) {
	w.WriteUint32(math.Float32bits(v), pack)
}

func (w *Writer) WriteFloat64(v float64, pack types.AutoPackType) {
	w.WriteUint64(math.Float64bits(v), pack)
}

// WriteChar writes r as one UTF-16 code unit. Runes outside the Basic
// Multilingual Plane are written as U+FFFD.
func (w *Writer) WriteChar(r rune) {
	if r < 0 || r > 0xFFFF || (r >= 0xD800 && r <= 0xDFFF) {
		r = utf8.RuneError
	}
	w.WriteUint16(uint16(r), types.Unpacked)
}

// payloadLength panics before anything is written when n does not fit the
// int32 length prefix.
func payloadLength(op string, n int) int32 {
	if n > math.MaxInt32 {
		panic(errors.Wrapf(ErrInvalidLength, "%s: %d bytes exceed the int32 length prefix", op, n))
	}
	return int32(n)
}

// WriteString writes a packed int32 byte length followed by the UTF-8 bytes.
// Invalid UTF-8 sequences are replaced with U+FFFD. Strings of 2 GiB or more
// panic with an error matching ErrInvalidLength.
func (w *Writer) WriteString(s string) {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, string(utf8.RuneError))
	}
	w.WriteInt32(payloadLength("WriteString", len(s)), types.Packed)
	if len(s) == 0 {
		return
	}
	w.ensure(len(s))
	n := copy(w.buf[w.position:], s)
	w.advance(w.position + n)
}

// WriteNullableString writes -1 for nil, otherwise the same bytes as WriteString.
func (w *Writer) WriteNullableString(s *string) {
	if s == nil {
		w.WriteInt32(-1, types.Packed)
		return
	}
	w.WriteString(*s)
}

// WriteBytesAndSize writes a packed int32 length then b; nil writes -1.
// Like WriteString it panics on payloads the prefix cannot describe.
func (w *Writer) WriteBytesAndSize(b []byte) {
	if b == nil {
		w.WriteInt32(-1, types.Packed)
		return
	}
	w.WriteInt32(payloadLength("WriteBytesAndSize", len(b)), types.Packed)
	w.WriteBytes(b, 0, len(b))
}

// WriteTime writes t as a packed int64 of nanoseconds since the Unix epoch, in UTC.
// Monotonic clock readings and the location are not carried.
func (w *Writer) WriteTime(t time.Time) {
	w.WriteInt64(t.UnixNano(), types.Packed)
}

// WriteDuration writes d as a packed int64 nanosecond count.
func (w *Writer) WriteDuration(d time.Duration) {
	w.WriteInt64(int64(d), types.Packed)
}

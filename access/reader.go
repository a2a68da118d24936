package access

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/quickwritereader/PackNet/log"
	"github.com/quickwritereader/PackNet/types"
)

// Reader decodes a segment produced by Writer. Reads must mirror the writes
// call-for-call and type-for-type; the format carries no type tags.
type Reader struct {
	buf      []byte
	position int
	cfg      readerConfig
}

func NewReader(segment []byte, opts ...ReaderOption) *Reader {
	cfg := readerConfig{
		maxCollection: DefaultMaxCollectionLength,
		maxString:     DefaultMaxStringLength,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Reader{buf: segment, cfg: cfg}
}

func (r *Reader) log() *zap.Logger {
	if r.cfg.logger != nil {
		return r.cfg.logger
	}
	return log.L()
}

func (r *Reader) codecs() *Registry {
	if r.cfg.registry != nil {
		return r.cfg.registry
	}
	return DefaultRegistry
}

func (r *Reader) resolver(op string) (ObjectResolver, error) {
	if r.cfg.resolver == nil {
		return nil, errors.Wrap(ErrNoResolver, op)
	}
	return r.cfg.resolver, nil
}

// Position is the offset of the next unread byte.
func (r *Reader) Position() int { return r.position }

// Remaining is the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.buf) - r.position }

// Reset points the reader at a new segment.
func (r *Reader) Reset(segment []byte) {
	r.buf = segment
	r.position = 0
}

// take returns the next n bytes and advances past them.
func (r *Reader) take(op string, n int) ([]byte, error) {
	if n < 0 || r.position+n > len(r.buf) {
		return nil, eofError(op, r.position, n, len(r.buf))
	}
	b := r.buf[r.position : r.position+n]
	r.position += n
	return b, nil
}

// ReadPackedWhole decodes a control byte and its data bytes.
func (r *Reader) ReadPackedWhole() (uint64, error) {
	ctl, err := r.take("ReadPackedWhole", 1)
	if err != nil {
		return 0, err
	}
	rate := types.PackRate(ctl[0])
	if !rate.Valid() {
		return 0, errors.Wrapf(ErrInvalidPackRate, "ReadPackedWhole: control byte %d at %d", ctl[0], r.position-1)
	}
	data, err := r.take("ReadPackedWhole", rate.Size())
	if err != nil {
		return 0, err
	}
	switch rate {
	case types.OneByte:
		return uint64(data[0]), nil
	case types.TwoBytes:
		return uint64(binary.LittleEndian.Uint16(data)), nil
	case types.FourBytes:
		return uint64(binary.LittleEndian.Uint32(data)), nil
	default:
		return binary.LittleEndian.Uint64(data), nil
	}
}

// readPackedWidth decodes a packed whole and checks it fits in max.
func (r *Reader) readPackedWidth(op string, max uint64) (uint64, error) {
	v, err := r.ReadPackedWhole()
	if err != nil {
		return 0, err
	}
	if v > max {
		return 0, errors.Wrapf(ErrOverflow, "%s: %d > %d", op, v, max)
	}
	return v, nil
}

func (r *Reader) ReadBool() (bool, error) {
	b, err := r.take("ReadBool", 1)
	if err != nil {
		return false, err
	}
	return b[0] != 0, nil
}

func (r *Reader) ReadUint8() (uint8, error) {
	b, err := r.take("ReadUint8", 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

func (r *Reader) ReadUint16(pack types.AutoPackType) (uint16, error) {
	if pack == types.Packed {
		v, err := r.readPackedWidth("ReadUint16", math.MaxUint16)
		return uint16(v), err
	}
	b, err := r.take("ReadUint16", 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) ReadInt16(pack types.AutoPackType) (int16, error) {
	v, err := r.ReadUint16(pack)
	return int16(v), err
}

func (r *Reader) ReadUint32(pack types.AutoPackType) (uint32, error) {
	if pack == types.Packed {
		v, err := r.readPackedWidth("ReadUint32", math.MaxUint32)
		return uint32(v), err
	}
	b, err := r.take("ReadUint32", 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadInt32(pack types.AutoPackType) (int32, error) {
	v, err := r.ReadUint32(pack)
	return int32(v), err
}

func (r *Reader) ReadUint64(pack types.AutoPackType) (uint64, error) {
	if pack == types.Packed {
		return r.ReadPackedWhole()
	}
	b, err := r.take("ReadUint64", 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *Reader) ReadInt64(pack types.AutoPackType) (int64, error) {
	v, err := r.ReadUint64(pack)
	return int64(v), err
}

func (r *Reader) ReadFloat32(pack types.AutoPackType) (float32, error) {
	bits, err := r.ReadUint32(pack)
	return math.Float32frombits(bits), err
}

func (r *Reader) ReadFloat64(pack types.AutoPackType) (float64, error) {
	bits, err := r.ReadUint64(pack)
	return math.Float64frombits(bits), err
}

func (r *Reader) ReadChar() (rune, error) {
	v, err := r.ReadUint16(types.Unpacked)
	return rune(v), err
}

// readLength decodes a packed int32 length prefix. null is true for -1.
func (r *Reader) readLength(op string, limit int) (n int, null bool, err error) {
	v, err := r.ReadInt32(types.Packed)
	if err != nil {
		return 0, false, err
	}
	switch {
	case v == -1:
		return 0, true, nil
	case v < 0:
		return 0, false, errors.Wrapf(ErrInvalidLength, "%s: %d", op, v)
	case int(v) > limit:
		return 0, false, errors.Wrapf(ErrLengthLimitExceeded, "%s: %d > %d", op, v, limit)
	}
	return int(v), false, nil
}

// ReadString decodes a string. A null string decodes as "".
func (r *Reader) ReadString() (string, error) {
	s, err := r.ReadNullableString()
	if s == nil || err != nil {
		return "", err
	}
	return *s, nil
}

// ReadNullableString returns nil for the -1 sentinel.
func (r *Reader) ReadNullableString() (*string, error) {
	n, null, err := r.readLength("ReadString", r.cfg.maxString)
	if err != nil || null {
		return nil, err
	}
	b, err := r.take("ReadString", n)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// ReadBytesAndSize returns nil for the -1 sentinel and a copy otherwise.
func (r *Reader) ReadBytesAndSize() ([]byte, error) {
	n, null, err := r.readLength("ReadBytesAndSize", r.cfg.maxString)
	if err != nil || null {
		return nil, err
	}
	b, err := r.take("ReadBytesAndSize", n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadBytes returns the next count raw bytes. The slice aliases the segment.
func (r *Reader) ReadBytes(count int) ([]byte, error) {
	return r.take("ReadBytes", count)
}

// ReadTime decodes a time written by WriteTime, in UTC.
func (r *Reader) ReadTime() (time.Time, error) {
	ns, err := r.ReadInt64(types.Packed)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, ns).UTC(), nil
}

func (r *Reader) ReadDuration() (time.Duration, error) {
	ns, err := r.ReadInt64(types.Packed)
	return time.Duration(ns), err
}

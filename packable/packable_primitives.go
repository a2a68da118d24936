package packable

import (
	"time"

	"github.com/quickwritereader/PackNet/access"
	"github.com/quickwritereader/PackNet/types"
)

// Integral wrappers use packed encoding, matching the registry defaults.
// Floats are written unpacked.

func packedSize(v uint64) int { return types.PackedWholeSize(v) }

// PackBool implements access.Packable for bool.
type PackBool bool

func (p PackBool) ValueSize() int { return 1 }
func (p PackBool) PackInto(w *access.Writer) error {
	w.WriteBool(bool(p))
	return nil
}
func (p *PackBool) UnpackFrom(r *access.Reader) error {
	v, err := r.ReadBool()
	*p = PackBool(v)
	return err
}

// PackInt8 implements access.Packable for int8.
type PackInt8 int8

func (p PackInt8) ValueSize() int { return 1 }
func (p PackInt8) PackInto(w *access.Writer) error {
	w.WriteInt8(int8(p))
	return nil
}
func (p *PackInt8) UnpackFrom(r *access.Reader) error {
	v, err := r.ReadInt8()
	*p = PackInt8(v)
	return err
}

// PackUint8 implements access.Packable for uint8.
type PackUint8 uint8

func (p PackUint8) ValueSize() int { return 1 }
func (p PackUint8) PackInto(w *access.Writer) error {
	w.WriteUint8(uint8(p))
	return nil
}
func (p *PackUint8) UnpackFrom(r *access.Reader) error {
	v, err := r.ReadUint8()
	*p = PackUint8(v)
	return err
}

// PackInt16 implements access.Packable for int16.
type PackInt16 int16

func (p PackInt16) ValueSize() int { return packedSize(uint64(uint16(p))) }
func (p PackInt16) PackInto(w *access.Writer) error {
	w.WriteInt16(int16(p), types.Packed)
	return nil
}
func (p *PackInt16) UnpackFrom(r *access.Reader) error {
	v, err := r.ReadInt16(types.Packed)
	*p = PackInt16(v)
	return err
}

// PackUint16 implements access.Packable for uint16.
type PackUint16 uint16

func (p PackUint16) ValueSize() int { return packedSize(uint64(p)) }
func (p PackUint16) PackInto(w *access.Writer) error {
	w.WriteUint16(uint16(p), types.Packed)
	return nil
}
func (p *PackUint16) UnpackFrom(r *access.Reader) error {
	v, err := r.ReadUint16(types.Packed)
	*p = PackUint16(v)
	return err
}

// PackInt32 implements access.Packable for int32.
type PackInt32 int32

func (p PackInt32) ValueSize() int { return packedSize(uint64(uint32(p))) }
func (p PackInt32) PackInto(w *access.Writer) error {
	w.WriteInt32(int32(p), types.Packed)
	return nil
}
func (p *PackInt32) UnpackFrom(r *access.Reader) error {
	v, err := r.ReadInt32(types.Packed)
	*p = PackInt32(v)
	return err
}

// PackUint32 implements access.Packable for uint32.
type PackUint32 uint32

func (p PackUint32) ValueSize() int { return packedSize(uint64(p)) }
func (p PackUint32) PackInto(w *access.Writer) error {
	w.WriteUint32(uint32(p), types.Packed)
	return nil
}
func (p *PackUint32) UnpackFrom(r *access.Reader) error {
	v, err := r.ReadUint32(types.Packed)
	*p = PackUint32(v)
	return err
}

// PackInt64 implements access.Packable for int64.
type PackInt64 int64

func (p PackInt64) ValueSize() int { return packedSize(uint64(p)) }
func (p PackInt64) PackInto(w *access.Writer) error {
	w.WriteInt64(int64(p), types.Packed)
	return nil
}
func (p *PackInt64) UnpackFrom(r *access.Reader) error {
	v, err := r.ReadInt64(types.Packed)
	*p = PackInt64(v)
	return err
}

// PackUint64 implements access.Packable for uint64.
type PackUint64 uint64

func (p PackUint64) ValueSize() int { return packedSize(uint64(p)) }
func (p PackUint64) PackInto(w *access.Writer) error {
	w.WriteUint64(uint64(p), types.Packed)
	return nil
}
func (p *PackUint64) UnpackFrom(r *access.Reader) error {
	v, err := r.ReadUint64(types.Packed)
	*p = PackUint64(v)
	return err
}

// PackFloat32 implements access.Packable for float32.
type PackFloat32 float32

func (p PackFloat32) ValueSize() int { return 4 }
func (p PackFloat32) PackInto(w *access.Writer) error {
	w.WriteFloat32(float32(p), types.Unpacked)
	return nil
}
func (p *PackFloat32) UnpackFrom(r *access.Reader) error {
	v, err := r.ReadFloat32(types.Unpacked)
	*p = PackFloat32(v)
	return err
}

// PackFloat64 implements access.Packable for float64.
type PackFloat64 float64

func (p PackFloat64) ValueSize() int { return 8 }
func (p PackFloat64) PackInto(w *access.Writer) error {
	w.WriteFloat64(float64(p), types.Unpacked)
	return nil
}
func (p *PackFloat64) UnpackFrom(r *access.Reader) error {
	v, err := r.ReadFloat64(types.Unpacked)
	*p = PackFloat64(v)
	return err
}

// PackChar writes one UTF-16 code unit.
type PackChar rune

func (p PackChar) ValueSize() int { return 2 }
func (p PackChar) PackInto(w *access.Writer) error {
	w.WriteChar(rune(p))
	return nil
}
func (p *PackChar) UnpackFrom(r *access.Reader) error {
	v, err := r.ReadChar()
	*p = PackChar(v)
	return err
}

// PackString implements access.Packable for string. The size assumes valid UTF-8.
type PackString string

func (p PackString) ValueSize() int { return packedSize(uint64(len(p))) + len(p) }
func (p PackString) PackInto(w *access.Writer) error {
	w.WriteString(string(p))
	return nil
}
func (p *PackString) UnpackFrom(r *access.Reader) error {
	v, err := r.ReadString()
	*p = PackString(v)
	return err
}

// PackByteArrayRef packs a byte slice with its length; a nil slice writes -1.
// It holds a pointer so boxing it into access.Packable does not copy the
// slice header to the heap.
type PackByteArrayRef struct {
	ref *[]byte
}

func PackByteArray(b []byte) PackByteArrayRef {
	return PackByteArrayRef{ref: &b}
}

// Bytes returns the packed or unpacked slice.
func (p PackByteArrayRef) Bytes() []byte {
	if p.ref == nil {
		return nil
	}
	return *p.ref
}

func (p PackByteArrayRef) ValueSize() int {
	b := p.Bytes()
	if b == nil {
		return packedSize(uint64(^uint32(0)))
	}
	return packedSize(uint64(len(b))) + len(b)
}
func (p PackByteArrayRef) PackInto(w *access.Writer) error {
	w.WriteBytesAndSize(p.Bytes())
	return nil
}
func (p *PackByteArrayRef) UnpackFrom(r *access.Reader) error {
	b, err := r.ReadBytesAndSize()
	p.ref = &b
	return err
}

// PackTime writes nanoseconds since the Unix epoch.
type PackTime time.Time

func (p PackTime) ValueSize() int { return packedSize(uint64(time.Time(p).UnixNano())) }
func (p PackTime) PackInto(w *access.Writer) error {
	w.WriteTime(time.Time(p))
	return nil
}
func (p *PackTime) UnpackFrom(r *access.Reader) error {
	v, err := r.ReadTime()
	*p = PackTime(v)
	return err
}

type PackDuration time.Duration

func (p PackDuration) ValueSize() int { return packedSize(uint64(p)) }
func (p PackDuration) PackInto(w *access.Writer) error {
	w.WriteDuration(time.Duration(p))
	return nil
}
func (p *PackDuration) UnpackFrom(r *access.Reader) error {
	v, err := r.ReadDuration()
	*p = PackDuration(v)
	return err
}

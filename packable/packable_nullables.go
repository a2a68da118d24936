package packable

import (
	"github.com/quickwritereader/PackNet/access"
)

// PackableNullable writes a presence byte (true means nil) and then the value
// with its registered codec.
type PackableNullable[T any] struct{ V *T }

func PackNullable[T any](v *T) PackableNullable[T] { return PackableNullable[T]{V: v} }

func (p PackableNullable[T]) PackInto(w *access.Writer) error {
	return access.WriteNullable(w, p.V)
}
func (p *PackableNullable[T]) UnpackFrom(r *access.Reader) error {
	v, err := access.ReadNullable[T](r)
	p.V = v
	return err
}

func PackNullableInt8(v *int8) PackableNullable[int8]          { return PackNullable(v) }
func PackNullableUint8(v *uint8) PackableNullable[uint8]       { return PackNullable(v) }
func PackNullableInt16(v *int16) PackableNullable[int16]       { return PackNullable(v) }
func PackNullableUint16(v *uint16) PackableNullable[uint16]    { return PackNullable(v) }
func PackNullableInt32(v *int32) PackableNullable[int32]       { return PackNullable(v) }
func PackNullableUint32(v *uint32) PackableNullable[uint32]    { return PackNullable(v) }
func PackNullableInt64(v *int64) PackableNullable[int64]       { return PackNullable(v) }
func PackNullableUint64(v *uint64) PackableNullable[uint64]    { return PackNullable(v) }
func PackNullableFloat32(v *float32) PackableNullable[float32] { return PackNullable(v) }
func PackNullableFloat64(v *float64) PackableNullable[float64] { return PackNullable(v) }
func PackNullableBool(v *bool) PackableNullable[bool]          { return PackNullable(v) }

// PackableNullableString uses the string's own -1 length sentinel instead of
// a presence byte.
type PackableNullableString struct{ V *string }

func PackNullableString(v *string) PackableNullableString { return PackableNullableString{V: v} }

func (p PackableNullableString) ValueSize() int {
	if p.V == nil {
		return packedSize(uint64(^uint32(0)))
	}
	return PackString(*p.V).ValueSize()
}
func (p PackableNullableString) PackInto(w *access.Writer) error {
	w.WriteNullableString(p.V)
	return nil
}
func (p *PackableNullableString) UnpackFrom(r *access.Reader) error {
	v, err := r.ReadNullableString()
	p.V = v
	return err
}

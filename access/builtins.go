package access

import (
	"time"

	"github.com/quickwritereader/PackNet/types"
)

// infallible adapts a Writer method that cannot fail to a WriteFunc.
func infallible[T any](f func(*Writer, T)) WriteFunc[T] {
	return func(w *Writer, v T) error {
		f(w, v)
		return nil
	}
}

func infalliblePacked[T any](f func(*Writer, T, types.AutoPackType)) PackedWriteFunc[T] {
	return func(w *Writer, v T, pack types.AutoPackType) error {
		f(w, v, pack)
		return nil
	}
}

func registerBuiltins(reg *Registry) {
	Register(reg, infallible((*Writer).WriteBool), (*Reader).ReadBool)
	Register(reg, infallible((*Writer).WriteUint8), (*Reader).ReadUint8)
	Register(reg, infallible((*Writer).WriteInt8), (*Reader).ReadInt8)

	RegisterPacked(reg, infalliblePacked((*Writer).WriteUint16), (*Reader).ReadUint16, types.Packed)
	RegisterPacked(reg, infalliblePacked((*Writer).WriteInt16), (*Reader).ReadInt16, types.Packed)
	RegisterPacked(reg, infalliblePacked((*Writer).WriteUint32), (*Reader).ReadUint32, types.Packed)
	RegisterPacked(reg, infalliblePacked((*Writer).WriteInt32), (*Reader).ReadInt32, types.Packed)
	RegisterPacked(reg, infalliblePacked((*Writer).WriteUint64), (*Reader).ReadUint64, types.Packed)
	RegisterPacked(reg, infalliblePacked((*Writer).WriteInt64), (*Reader).ReadInt64, types.Packed)

	// int and uint travel as 64-bit so both ends agree regardless of platform.
	RegisterPacked(reg,
		func(w *Writer, v int, pack types.AutoPackType) error {
			w.WriteInt64(int64(v), pack)
			return nil
		},
		func(r *Reader, pack types.AutoPackType) (int, error) {
			v, err := r.ReadInt64(pack)
			return int(v), err
		}, types.Packed)
	RegisterPacked(reg,
		func(w *Writer, v uint, pack types.AutoPackType) error {
			w.WriteUint64(uint64(v), pack)
			return nil
		},
		func(r *Reader, pack types.AutoPackType) (uint, error) {
			v, err := r.ReadUint64(pack)
			return uint(v), err
		}, types.Packed)

	RegisterPacked(reg, infalliblePacked((*Writer).WriteFloat32), (*Reader).ReadFloat32, types.Unpacked)
	RegisterPacked(reg, infalliblePacked((*Writer).WriteFloat64), (*Reader).ReadFloat64, types.Unpacked)

	Register(reg, infallible((*Writer).WriteString), (*Reader).ReadString)
	Register(reg, infallible((*Writer).WriteNullableString), (*Reader).ReadNullableString)
	Register(reg, infallible((*Writer).WriteBytesAndSize), (*Reader).ReadBytesAndSize)

	Register(reg, infallible((*Writer).WriteVector2), (*Reader).ReadVector2)
	Register(reg, infallible((*Writer).WriteVector3), (*Reader).ReadVector3)
	Register(reg, infallible((*Writer).WriteVector4), (*Reader).ReadVector4)
	RegisterPacked(reg, infalliblePacked((*Writer).WriteVector2Int), (*Reader).ReadVector2Int, types.Packed)
	RegisterPacked(reg, infalliblePacked((*Writer).WriteVector3Int), (*Reader).ReadVector3Int, types.Packed)
	Register(reg, infallible((*Writer).WriteQuaternion), (*Reader).ReadQuaternion)
	RegisterPacked(reg, infalliblePacked((*Writer).WriteColor), (*Reader).ReadColor, types.Packed)
	Register(reg, infallible((*Writer).WriteColor32), (*Reader).ReadColor32)
	Register(reg, infallible((*Writer).WriteMatrix4x4), (*Reader).ReadMatrix4x4)
	Register(reg, infallible((*Writer).WriteRect), (*Reader).ReadRect)
	Register(reg, infallible((*Writer).WriteRay), (*Reader).ReadRay)
	Register(reg, infallible((*Writer).WritePlane), (*Reader).ReadPlane)

	Register(reg, infallible((*Writer).WriteTime), (*Reader).ReadTime)
	RegisterPacked(reg,
		func(w *Writer, d time.Duration, pack types.AutoPackType) error {
			w.WriteInt64(int64(d), pack)
			return nil
		},
		func(r *Reader, pack types.AutoPackType) (time.Duration, error) {
			v, err := r.ReadInt64(pack)
			return time.Duration(v), err
		}, types.Packed)
}

package access

import (
	"github.com/quickwritereader/PackNet/types"
)

func (w *Writer) WriteVector2(v types.Vector2) {
	w.ensure(8)
	pos := PutFloat32(w.buf, w.position, v.X)
	w.advance(PutFloat32(w.buf, pos, v.Y))
}

func (w *Writer) WriteVector3(v types.Vector3) {
	w.ensure(12)
	pos := PutFloat32(w.buf, w.position, v.X)
	pos = PutFloat32(w.buf, pos, v.Y)
	w.advance(PutFloat32(w.buf, pos, v.Z))
}

func (w *Writer) WriteVector4(v types.Vector4) {
	w.ensure(16)
	pos := PutFloat32(w.buf, w.position, v.X)
	pos = PutFloat32(w.buf, pos, v.Y)
	pos = PutFloat32(w.buf, pos, v.Z)
	w.advance(PutFloat32(w.buf, pos, v.W))
}

func (w *Writer) WriteVector2Int(v types.Vector2Int, pack types.AutoPackType) {
	w.WriteInt32(v.X, pack)
	w.WriteInt32(v.Y, pack)
}

func (w *Writer) WriteVector3Int(v types.Vector3Int, pack types.AutoPackType) {
	w.WriteInt32(v.X, pack)
	w.WriteInt32(v.Y, pack)
	w.WriteInt32(v.Z, pack)
}

// WriteQuaternion writes the 4-byte smallest-three compression of q.
func (w *Writer) WriteQuaternion(q types.Quaternion) {
	w.WriteUint32(types.CompressQuaternion(q), types.Unpacked)
}

// WriteColor writes 4 bytes (each component ×100, truncated) when Packed,
// or 4 raw float32 when Unpacked.
func (w *Writer) WriteColor(c types.Color, pack types.AutoPackType) {
	if pack == types.Packed {
		w.ensure(4)
		pos := PutUint8(w.buf, w.position, colorByte(c.R))
		pos = PutUint8(w.buf, pos, colorByte(c.G))
		pos = PutUint8(w.buf, pos, colorByte(c.B))
		w.advance(PutUint8(w.buf, pos, colorByte(c.A)))
		return
	}
	w.WriteVector4(types.Vector4{X: c.R, Y: c.G, Z: c.B, W: c.A})
}

// colorByte clamps to the byte range rather than wrapping.
func colorByte(f float32) uint8 {
	v := f * 100
	switch {
	case v <= 0 || v != v: // NaN
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v)
}

func (w *Writer) WriteColor32(c types.Color32) {
	w.ensure(4)
	pos := PutUint8(w.buf, w.position, c.R)
	pos = PutUint8(w.buf, pos, c.G)
	pos = PutUint8(w.buf, pos, c.B)
	w.advance(PutUint8(w.buf, pos, c.A))
}

// WriteMatrix4x4 writes 16 float32 in row-major order.
func (w *Writer) WriteMatrix4x4(m types.Matrix4x4) {
	w.ensure(64)
	pos := w.position
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			pos = PutFloat32(w.buf, pos, m.M[row][col])
		}
	}
	w.advance(pos)
}

func (w *Writer) WriteRect(r types.Rect) {
	w.WriteVector4(types.Vector4{X: r.X, Y: r.Y, Z: r.Width, W: r.Height})
}

func (w *Writer) WriteRay(r types.Ray) {
	w.WriteVector3(r.Origin)
	w.WriteVector3(r.Direction)
}

func (w *Writer) WritePlane(p types.Plane) {
	w.WriteVector4(types.Vector4{X: p.Normal.X, Y: p.Normal.Y, Z: p.Normal.Z, W: p.Distance})
}

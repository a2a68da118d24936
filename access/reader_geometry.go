package access

import (
	"encoding/binary"
	"math"

	"github.com/cockroachdb/errors"

	"github.com/quickwritereader/PackNet/types"
)

// readFloats fills dst from consecutive raw float32 values.
func (r *Reader) readFloats(op string, dst []float32) error {
	b, err := r.take(op, 4*len(dst))
	if err != nil {
		return err
	}
	for i := range dst {
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return nil
}

func (r *Reader) ReadVector2() (types.Vector2, error) {
	var f [2]float32
	err := r.readFloats("ReadVector2", f[:])
	return types.Vector2{X: f[0], Y: f[1]}, err
}

func (r *Reader) ReadVector3() (types.Vector3, error) {
	var f [3]float32
	err := r.readFloats("ReadVector3", f[:])
	return types.Vector3{X: f[0], Y: f[1], Z: f[2]}, err
}

func (r *Reader) ReadVector4() (types.Vector4, error) {
	var f [4]float32
	err := r.readFloats("ReadVector4", f[:])
	return types.Vector4{X: f[0], Y: f[1], Z: f[2], W: f[3]}, err
}

func (r *Reader) ReadVector2Int(pack types.AutoPackType) (types.Vector2Int, error) {
	var v types.Vector2Int
	var err error
	if v.X, err = r.ReadInt32(pack); err != nil {
		return v, err
	}
	v.Y, err = r.ReadInt32(pack)
	return v, err
}

func (r *Reader) ReadVector3Int(pack types.AutoPackType) (types.Vector3Int, error) {
	var v types.Vector3Int
	var err error
	if v.X, err = r.ReadInt32(pack); err != nil {
		return v, err
	}
	if v.Y, err = r.ReadInt32(pack); err != nil {
		return v, err
	}
	v.Z, err = r.ReadInt32(pack)
	return v, err
}

func (r *Reader) ReadQuaternion() (types.Quaternion, error) {
	packed, err := r.ReadUint32(types.Unpacked)
	if err != nil {
		return types.Quaternion{}, err
	}
	return types.DecompressQuaternion(packed), nil
}

func (r *Reader) ReadColor(pack types.AutoPackType) (types.Color, error) {
	if pack == types.Packed {
		b, err := r.take("ReadColor", 4)
		if err != nil {
			return types.Color{}, err
		}
		return types.Color{
			R: float32(b[0]) / 100,
			G: float32(b[1]) / 100,
			B: float32(b[2]) / 100,
			A: float32(b[3]) / 100,
		}, nil
	}
	v, err := r.ReadVector4()
	return types.Color{R: v.X, G: v.Y, B: v.Z, A: v.W}, err
}

func (r *Reader) ReadColor32() (types.Color32, error) {
	b, err := r.take("ReadColor32", 4)
	if err != nil {
		return types.Color32{}, err
	}
	return types.Color32{R: b[0], G: b[1], B: b[2], A: b[3]}, nil
}

func (r *Reader) ReadMatrix4x4() (types.Matrix4x4, error) {
	var m types.Matrix4x4
	var f [16]float32
	if err := r.readFloats("ReadMatrix4x4", f[:]); err != nil {
		return m, err
	}
	for i, v := range f {
		m.M[i/4][i%4] = v
	}
	return m, nil
}

func (r *Reader) ReadRect() (types.Rect, error) {
	v, err := r.ReadVector4()
	return types.Rect{X: v.X, Y: v.Y, Width: v.Z, Height: v.W}, err
}

func (r *Reader) ReadRay() (types.Ray, error) {
	var f [6]float32
	err := r.readFloats("ReadRay", f[:])
	return types.Ray{
		Origin:    types.Vector3{X: f[0], Y: f[1], Z: f[2]},
		Direction: types.Vector3{X: f[3], Y: f[4], Z: f[5]},
	}, err
}

func (r *Reader) ReadPlane() (types.Plane, error) {
	v, err := r.ReadVector4()
	return types.Plane{Normal: types.Vector3{X: v.X, Y: v.Y, Z: v.Z}, Distance: v.W}, err
}

// ReadNetworkObjectID returns the raw identity; ok is false for the null sentinel.
func (r *Reader) ReadNetworkObjectID() (id int16, ok bool, err error) {
	id, err = r.ReadInt16(types.Unpacked)
	if err != nil {
		return 0, false, err
	}
	return id, id != NullObjectID, nil
}

// ReadNetworkObject resolves the identity through res. The null sentinel
// decodes as a nil object; an identity res does not know is ErrUnknownObject.
func (r *Reader) ReadNetworkObject(res ObjectResolver) (NetworkObject, error) {
	id, ok, err := r.ReadNetworkObjectID()
	if err != nil || !ok {
		return nil, err
	}
	obj, found := res.Object(id)
	if !found {
		return nil, errors.Wrapf(ErrUnknownObject, "ReadNetworkObject: id %d", id)
	}
	return obj, nil
}

// ReadNetworkBehaviourID returns the owner identity and component index; the
// component byte is only consumed when the identity is present.
func (r *Reader) ReadNetworkBehaviourID() (id int16, component uint8, ok bool, err error) {
	id, ok, err = r.ReadNetworkObjectID()
	if err != nil || !ok {
		return id, 0, false, err
	}
	component, err = r.ReadUint8()
	if err != nil {
		return 0, 0, false, err
	}
	return id, component, true, nil
}

func (r *Reader) ReadNetworkBehaviour(res ObjectResolver) (NetworkBehaviour, error) {
	id, component, ok, err := r.ReadNetworkBehaviourID()
	if err != nil || !ok {
		return nil, err
	}
	b, found := res.Behaviour(id, component)
	if !found {
		return nil, errors.Wrapf(ErrUnknownObject, "ReadNetworkBehaviour: id %d component %d", id, component)
	}
	return b, nil
}

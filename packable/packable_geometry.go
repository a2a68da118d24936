package packable

import (
	"github.com/quickwritereader/PackNet/access"
	"github.com/quickwritereader/PackNet/types"
)

type PackVector2 types.Vector2

func (p PackVector2) ValueSize() int { return 8 }
func (p PackVector2) PackInto(w *access.Writer) error {
	w.WriteVector2(types.Vector2(p))
	return nil
}
func (p *PackVector2) UnpackFrom(r *access.Reader) error {
	v, err := r.ReadVector2()
	*p = PackVector2(v)
	return err
}

type PackVector3 types.Vector3

func (p PackVector3) ValueSize() int { return 12 }
func (p PackVector3) PackInto(w *access.Writer) error {
	w.WriteVector3(types.Vector3(p))
	return nil
}
func (p *PackVector3) UnpackFrom(r *access.Reader) error {
	v, err := r.ReadVector3()
	*p = PackVector3(v)
	return err
}

type PackVector4 types.Vector4

func (p PackVector4) ValueSize() int { return 16 }
func (p PackVector4) PackInto(w *access.Writer) error {
	w.WriteVector4(types.Vector4(p))
	return nil
}
func (p *PackVector4) UnpackFrom(r *access.Reader) error {
	v, err := r.ReadVector4()
	*p = PackVector4(v)
	return err
}

// PackVector3Int writes packed int32 components.
type PackVector3Int types.Vector3Int

func (p PackVector3Int) ValueSize() int {
	return packedSize(uint64(uint32(p.X))) + packedSize(uint64(uint32(p.Y))) + packedSize(uint64(uint32(p.Z)))
}
func (p PackVector3Int) PackInto(w *access.Writer) error {
	w.WriteVector3Int(types.Vector3Int(p), types.Packed)
	return nil
}
func (p *PackVector3Int) UnpackFrom(r *access.Reader) error {
	v, err := r.ReadVector3Int(types.Packed)
	*p = PackVector3Int(v)
	return err
}

// PackQuaternion writes the compressed 4-byte form; decoding loses precision.
type PackQuaternion types.Quaternion

func (p PackQuaternion) ValueSize() int { return 4 }
func (p PackQuaternion) PackInto(w *access.Writer) error {
	w.WriteQuaternion(types.Quaternion(p))
	return nil
}
func (p *PackQuaternion) UnpackFrom(r *access.Reader) error {
	v, err := r.ReadQuaternion()
	*p = PackQuaternion(v)
	return err
}

// PackColor writes the packed 4-byte form.
type PackColor types.Color

func (p PackColor) ValueSize() int { return 4 }
func (p PackColor) PackInto(w *access.Writer) error {
	w.WriteColor(types.Color(p), types.Packed)
	return nil
}
func (p *PackColor) UnpackFrom(r *access.Reader) error {
	v, err := r.ReadColor(types.Packed)
	*p = PackColor(v)
	return err
}

// PackObjectRef writes a network object reference.
type PackObjectRef struct {
	Object access.NetworkObject
}

func (p PackObjectRef) ValueSize() int { return 2 }
func (p PackObjectRef) PackInto(w *access.Writer) error {
	w.WriteNetworkObject(p.Object)
	return nil
}

// PackBehaviourRef writes a behaviour reference: 2 bytes, 3 when present.
type PackBehaviourRef struct {
	Behaviour access.NetworkBehaviour
}

func (p PackBehaviourRef) PackInto(w *access.Writer) error {
	w.WriteNetworkBehaviour(p.Behaviour)
	return nil
}

package access

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/quickwritereader/PackNet/types"
)

// NullObjectID is the identity written for an absent reference.
const NullObjectID int16 = -1

// NetworkObject is an entity with a network identity, assigned by the
// object/connection system. Only spawned objects have a usable identity.
type NetworkObject interface {
	ObjectID() int16
	IsSpawned() bool
}

// NetworkBehaviour is a component attached to a NetworkObject.
type NetworkBehaviour interface {
	NetworkObject() NetworkObject
	ComponentIndex() uint8
}

// ObjectResolver maps decoded identities back to local entities.
type ObjectResolver interface {
	Object(id int16) (NetworkObject, bool)
	Behaviour(id int16, component uint8) (NetworkBehaviour, bool)
}

// isNil also catches typed nil pointers stored in an interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// objectIdentity returns the id to put on the wire, NullObjectID when obj is
// nil or not spawned. The two cases are indistinguishable to the reader.
func (w *Writer) objectIdentity(obj NetworkObject) int16 {
	if isNil(obj) {
		return NullObjectID
	}
	if !obj.IsSpawned() {
		w.log().Warn("writing reference to object that is not spawned, reader will see nil",
			zap.Int16("objectId", obj.ObjectID()))
		return NullObjectID
	}
	return obj.ObjectID()
}

// WriteNetworkObject writes a fixed int16 identity, or -1.
func (w *Writer) WriteNetworkObject(obj NetworkObject) {
	w.WriteInt16(w.objectIdentity(obj), types.Unpacked)
}

// WriteNetworkBehaviour writes the owner's identity and, only when it is
// present, one byte for the component index.
func (w *Writer) WriteNetworkBehaviour(b NetworkBehaviour) {
	if isNil(b) {
		w.WriteInt16(NullObjectID, types.Unpacked)
		return
	}
	id := w.objectIdentity(b.NetworkObject())
	w.WriteInt16(id, types.Unpacked)
	if id != NullObjectID {
		w.WriteUint8(b.ComponentIndex())
	}
}

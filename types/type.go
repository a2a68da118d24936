package types

// Kind names a wire encoding. It is what payload descriptions refer to and what
// decode errors report; the wire format itself carries no kind tags.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindUint8
	KindInt8
	KindUint16
	KindInt16
	KindUint32
	KindInt32
	KindUint64
	KindInt64
	KindFloat32
	KindFloat64
	KindChar
	KindString
	KindBytes
	KindVector2
	KindVector3
	KindVector4
	KindVector2Int
	KindVector3Int
	KindColor
	KindColor32
	KindQuaternion
	KindMatrix4x4
	KindRect
	KindRay
	KindPlane
	KindObjectRef
	KindBehaviourRef
	KindTuple
	KindList
	KindDictionary
	KindNullable
	KindTime
	KindDuration
)

var kindNames = [...]string{
	KindInvalid:      "invalid",
	KindBool:         "bool",
	KindUint8:        "uint8",
	KindInt8:         "int8",
	KindUint16:       "uint16",
	KindInt16:        "int16",
	KindUint32:       "uint32",
	KindInt32:        "int32",
	KindUint64:       "uint64",
	KindInt64:        "int64",
	KindFloat32:      "float32",
	KindFloat64:      "float64",
	KindChar:         "char",
	KindString:       "string",
	KindBytes:        "bytes",
	KindVector2:      "vector2",
	KindVector3:      "vector3",
	KindVector4:      "vector4",
	KindVector2Int:   "vector2int",
	KindVector3Int:   "vector3int",
	KindColor:        "color",
	KindColor32:      "color32",
	KindQuaternion:   "quaternion",
	KindMatrix4x4:    "matrix4x4",
	KindRect:         "rect",
	KindRay:          "ray",
	KindPlane:        "plane",
	KindObjectRef:    "objectref",
	KindBehaviourRef: "behaviourref",
	KindTuple:        "tuple",
	KindList:         "list",
	KindDictionary:   "dictionary",
	KindNullable:     "nullable",
	KindTime:         "time",
	KindDuration:     "duration",
}

// String returns the human-readable name of the kind
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// ParseKind maps a kind name back to its Kind. Names are case-sensitive.
func ParseKind(name string) (Kind, bool) {
	for i, n := range kindNames {
		if i != int(KindInvalid) && n == name {
			return Kind(i), true
		}
	}
	return KindInvalid, false
}

// PackAware reports whether values of this kind take a pack mode.
func (k Kind) PackAware() bool {
	switch k {
	case KindUint16, KindInt16, KindUint32, KindInt32, KindUint64, KindInt64,
		KindFloat32, KindFloat64, KindVector2Int, KindVector3Int, KindColor, KindDuration:
		return true
	}
	return false
}

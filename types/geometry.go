package types

// Vector2 is a pair of float32 components.
type Vector2 struct {
	X, Y float32
}

type Vector3 struct {
	X, Y, Z float32
}

type Vector4 struct {
	X, Y, Z, W float32
}

// Vector2Int and Vector3Int carry integral components and are pack-aware.
type Vector2Int struct {
	X, Y int32
}

type Vector3Int struct {
	X, Y, Z int32
}

// Color holds float components, nominally in [0, 1].
type Color struct {
	R, G, B, A float32
}

// Color32 holds byte components.
type Color32 struct {
	R, G, B, A uint8
}

// Quaternion is a rotation. Serialized in compressed form, so decoded values
// are close to but not always bit-identical with the original.
type Quaternion struct {
	X, Y, Z, W float32
}

// Matrix4x4 is stored row-major: M[row][col].
type Matrix4x4 struct {
	M [4][4]float32
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y, Width, Height float32
}

type Ray struct {
	Origin    Vector3
	Direction Vector3
}

// Plane is described by its normal and its signed distance from the origin.
type Plane struct {
	Normal   Vector3
	Distance float32
}

// IdentityQuaternion is the no-rotation quaternion.
var IdentityQuaternion = Quaternion{W: 1}

// IdentityMatrix returns the 4x4 identity matrix.
func IdentityMatrix() Matrix4x4 {
	var m Matrix4x4
	for i := 0; i < 4; i++ {
		m.M[i][i] = 1
	}
	return m
}

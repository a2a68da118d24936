package types

import "math"

// Smallest-three layout: bits 31..30 hold the index of the dropped (largest)
// component, the remaining three components take 10 bits each.
const (
	quatComponentBits = 10
	quatComponentMax  = 1<<quatComponentBits - 1
	quatComponentMask = quatComponentMax
)

// every non-largest component of a unit quaternion lies within ±1/√2
var quatRange = float32(1 / math.Sqrt2)

func (q Quaternion) component(i int) float32 {
	switch i {
	case 0:
		return q.X
	case 1:
		return q.Y
	case 2:
		return q.Z
	default:
		return q.W
	}
}

func (q *Quaternion) setComponent(i int, v float32) {
	switch i {
	case 0:
		q.X = v
	case 1:
		q.Y = v
	case 2:
		q.Z = v
	default:
		q.W = v
	}
}

// Normalized returns q scaled to unit length. A zero, infinite or NaN
// quaternion becomes identity.
func (q Quaternion) Normalized() Quaternion {
	n := math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W))
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return IdentityQuaternion
	}
	f := float32(1 / n)
	return Quaternion{X: q.X * f, Y: q.Y * f, Z: q.Z * f, W: q.W * f}
}

// Dot returns the 4D dot product. |Dot| close to 1 means both describe the same rotation.
func (q Quaternion) Dot(o Quaternion) float32 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

// CompressQuaternion packs a rotation into 32 bits.
// q and -q are the same rotation, so the sign is folded into the dropped component.
func CompressQuaternion(q Quaternion) uint32 {
	q = q.Normalized()

	largest := 0
	largestAbs := float32(math.Abs(float64(q.X)))
	for i := 1; i < 4; i++ {
		if a := float32(math.Abs(float64(q.component(i)))); a > largestAbs {
			largest, largestAbs = i, a
		}
	}

	sign := float32(1)
	if q.component(largest) < 0 {
		sign = -1
	}

	packed := uint32(largest) << (3 * quatComponentBits)
	shift := 2 * quatComponentBits
	for i := 0; i < 4; i++ {
		if i == largest {
			continue
		}
		packed |= quantize(q.component(i)*sign) << shift
		shift -= quatComponentBits
	}
	return packed
}

// DecompressQuaternion reverses CompressQuaternion.
func DecompressQuaternion(packed uint32) Quaternion {
	largest := int(packed >> (3 * quatComponentBits))

	var q Quaternion
	var sum float32
	shift := 2 * quatComponentBits
	for i := 0; i < 4; i++ {
		if i == largest {
			continue
		}
		v := dequantize((packed >> shift) & quatComponentMask)
		q.setComponent(i, v)
		sum += v * v
		shift -= quatComponentBits
	}

	// words no encoder produces can carry three components whose squares
	// sum past 1; scale those back onto the unit sphere
	if sum > 1 {
		return q.Normalized()
	}
	q.setComponent(largest, float32(math.Sqrt(float64(1-sum))))
	return q
}

func quantize(v float32) uint32 {
	if v > quatRange {
		v = quatRange
	} else if v < -quatRange {
		v = -quatRange
	}
	n := (v/quatRange + 1) / 2
	return uint32(math.Round(float64(n * quatComponentMax)))
}

func dequantize(u uint32) float32 {
	n := float32(u) / quatComponentMax
	return (n*2 - 1) * quatRange
}

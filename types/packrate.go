package types

import "math"

// PackRate is the smallest byte width class able to hold an unsigned magnitude.
// Its value is the selector written as the control byte of a packed whole number.
type PackRate uint8

const (
	OneByte    PackRate = 0
	TwoBytes   PackRate = 1
	FourBytes  PackRate = 2
	EightBytes PackRate = 3
)

// ResolvePackRate classifies v by the narrowest width that represents it exactly.
func ResolvePackRate(v uint64) PackRate {
	switch {
	case v <= math.MaxUint8:
		return OneByte
	case v <= math.MaxUint16:
		return TwoBytes
	case v <= math.MaxUint32:
		return FourBytes
	default:
		return EightBytes
	}
}

// Size returns the number of data bytes (2^selector) following the control byte.
func (p PackRate) Size() int {
	return 1 << p
}

// Valid reports whether p is one of the four selectors.
func (p PackRate) Valid() bool {
	return p <= EightBytes
}

func (p PackRate) String() string {
	switch p {
	case OneByte:
		return "OneByte"
	case TwoBytes:
		return "TwoBytes"
	case FourBytes:
		return "FourBytes"
	case EightBytes:
		return "EightBytes"
	default:
		return "invalid"
	}
}

// PackedWholeSize is the total encoded size of v: control byte plus data bytes.
func PackedWholeSize(v uint64) int {
	return 1 + ResolvePackRate(v).Size()
}

// AutoPackType selects between the packed and the fixed-width encoding of a value.
type AutoPackType uint8

const (
	Packed AutoPackType = iota
	Unpacked
)

func (a AutoPackType) String() string {
	if a == Unpacked {
		return "Unpacked"
	}
	return "Packed"
}

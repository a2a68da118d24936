package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePackRate_Boundaries(t *testing.T) {
	cases := []struct {
		v      uint64
		expect PackRate
		size   int
	}{
		{0, OneByte, 2},
		{255, OneByte, 2},
		{256, TwoBytes, 3},
		{65535, TwoBytes, 3},
		{65536, FourBytes, 5},
		{math.MaxUint32, FourBytes, 5},
		{math.MaxUint32 + 1, EightBytes, 9},
		{math.MaxUint64, EightBytes, 9},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.expect, ResolvePackRate(tc.v), "ResolvePackRate(%d)", tc.v)
		assert.Equal(t, tc.size, PackedWholeSize(tc.v), "PackedWholeSize(%d)", tc.v)
	}
}

func TestPackedWholeSize_Monotonic(t *testing.T) {
	values := []uint64{0, 1, 200, 255, 256, 1000, 65535, 65536, 1 << 31, math.MaxUint32, 1 << 40, math.MaxUint64}
	for i := 1; i < len(values); i++ {
		assert.LessOrEqual(t, PackedWholeSize(values[i-1]), PackedWholeSize(values[i]),
			"size(%d) > size(%d)", values[i-1], values[i])
	}
}

func TestPackRate_Strings(t *testing.T) {
	assert.Equal(t, "OneByte", OneByte.String())
	assert.Equal(t, "EightBytes", EightBytes.String())
	assert.Equal(t, "invalid", PackRate(9).String())
	assert.False(t, PackRate(4).Valid())
	assert.Equal(t, "Packed", Packed.String())
	assert.Equal(t, "Unpacked", Unpacked.String())
}

func TestKind_ParseRoundTrip(t *testing.T) {
	for k := KindBool; k <= KindDuration; k++ {
		got, ok := ParseKind(k.String())
		assert.True(t, ok, "kind %d", k)
		assert.Equal(t, k, got)
	}
	_, ok := ParseKind("invalid")
	assert.False(t, ok)
	_, ok = ParseKind("Vector3")
	assert.False(t, ok, "names are case-sensitive")

	assert.True(t, KindInt32.PackAware())
	assert.True(t, KindColor.PackAware())
	assert.False(t, KindColor32.PackAware())
	assert.False(t, KindVector3.PackAware())
}

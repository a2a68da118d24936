package schema

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/quickwritereader/PackNet/access"
	"github.com/quickwritereader/PackNet/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeOne(t *testing.T, s Schema, val any) []byte {
	t.Helper()
	w := access.NewWriter()
	require.NoError(t, s.Encode(w, val))
	return w.GetArraySegment()
}

func encodeErr(s Schema, val any) error {
	return s.Encode(access.NewWriter(), val)
}

func requireCode(t *testing.T, err error, code ErrorCode) {
	t.Helper()
	require.Error(t, err)
	got, ok := CodeOf(err)
	require.True(t, ok, "not a SchemaError: %v", err)
	assert.Equal(t, code, got, err.Error())
}

func TestScalar_PackedBytesAndRoundTrip(t *testing.T) {
	buf, err := EncodeValue(int32(300), SChain(SInt32))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x2C, 0x01}, buf)

	v, err := DecodeBuffer(buf, SChain(SInt32))
	require.NoError(t, err)
	assert.Equal(t, int32(300), v)

	assert.Equal(t, []byte{0x00, 0x00, 0xC0, 0x3F}, encodeOne(t, SFloat32, float32(1.5)))
	assert.Equal(t, []byte{0x02, 0x00, 0x00, 0xC0, 0x3F}, encodeOne(t, SFloat32.WithPack(types.Packed), 1.5))
	assert.Equal(t, []byte{0x02, 0x00, 0xCA, 0x9A, 0x3B}, encodeOne(t, SDuration, time.Second))
	assert.Equal(t, []byte{0xE9, 0x00}, encodeOne(t, SChar, "é"))
}

func TestScalar_ConvertsNumbersThatFit(t *testing.T) {
	assert.Equal(t, []byte{0x07}, encodeOne(t, SUint8, float64(7)))
	assert.Equal(t, []byte{0x00, 0x09}, encodeOne(t, SInt64, "9"))
	assert.Equal(t, []byte{0x01}, encodeOne(t, SBool, true))

	for _, tc := range []struct {
		name string
		s    Schema
		val  any
	}{
		{"fraction", SUint8, 7.5},
		{"overflow", SUint8, 300},
		{"negative unsigned", SUint32, -1},
		{"int8 overflow", SInt8, int16(200)},
		{"bool from int", SBool, 1},
		{"nil", SInt32, nil},
		{"two runes", SChar, "ab"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := encodeErr(tc.s, tc.val)
			requireCode(t, err, ErrEncode)
			assert.ErrorIs(t, err, ErrTypeMismatch)
		})
	}
}

func TestScalar_Range(t *testing.T) {
	s := SInt16.RangeValues(0, 100)
	requireCode(t, encodeErr(s, 150), ErrOutOfRange)
	assert.Equal(t, []byte{0x00, 0x64}, encodeOne(t, s, 100))

	w := access.NewWriter()
	w.WriteInt16(150, types.Packed)
	_, err := s.Decode(access.NewReader(w.GetArraySegment()))
	requireCode(t, err, ErrOutOfRange)

	var details RangeErrorDetails[int64]
	require.True(t, errors.As(err, &details))
	assert.Equal(t, int64(150), details.Actual)

	f := SFloat64.FloatRange(Ptr(-1.0), Ptr(1.0))
	requireCode(t, encodeErr(f, 2.5), ErrOutOfRange)
	assert.Len(t, encodeOne(t, f, 0.5), 8)

	requireCode(t, encodeErr(SUint64.Range(nil, Ptr(int64(10))), uint64(1)<<63), ErrOutOfRange)
}

func TestScalar_Nullable(t *testing.T) {
	s := SInt32.Optional()
	assert.True(t, s.IsNullable())
	assert.Equal(t, []byte{0x01}, encodeOne(t, s, nil))
	assert.Equal(t, []byte{0x00, 0x00, 0x05}, encodeOne(t, s, 5))

	v, err := DecodeBuffer([]byte{0x01}, SChain(s))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestString_NullAndChecks(t *testing.T) {
	assert.Equal(t, []byte{0x00, 0x02, 'h', 'i'}, encodeOne(t, SString, "hi"))
	assert.Equal(t, []byte{0x02, 0xFF, 0xFF, 0xFF, 0xFF}, encodeOne(t, SVariableString(), nil))

	err := encodeErr(SString, nil)
	requireCode(t, err, ErrEncode)
	assert.ErrorIs(t, err, access.ErrNilValue)

	_, err = SString.Decode(access.NewReader([]byte{0x02, 0xFF, 0xFF, 0xFF, 0xFF}))
	requireCode(t, err, ErrConstraintViolated)

	v, err := SVariableString().Decode(access.NewReader([]byte{0x02, 0xFF, 0xFF, 0xFF, 0xFF}))
	require.NoError(t, err)
	assert.Nil(t, v)

	prefixed := SString.Prefix("ID_")
	assert.Equal(t, []byte{0x00, 0x04, 'I', 'D', '_', '7'}, encodeOne(t, prefixed, "ID_7"))
	requireCode(t, encodeErr(prefixed, "X"), ErrStringPrefix)
	requireCode(t, encodeErr(SString.Suffix(".png"), "a.jpg"), ErrStringSuffix)
	requireCode(t, encodeErr(SStringExact("ping"), "pong"), ErrStringMatch)
	requireCode(t, encodeErr(SString.Pattern(`^[a-z]+$`), "A1"), ErrStringPattern)
	requireCode(t, encodeErr(SStringLen(3), "abcd"), ErrConstraintViolated)
	requireCode(t, encodeErr(SString.WithMaxLen(2), "abc"), ErrConstraintViolated)
	assert.Len(t, encodeOne(t, SStringLen(3), "äöü"), 2+6)

	// The check set is copied, not shared between derived schemas.
	base := SString.Prefix("a")
	_ = base.Suffix("z")
	require.NoError(t, encodeErr(base, "ab"))
}

func TestString_DefaultDecodeValue(t *testing.T) {
	s := SString.DefaultDecodeValue("anonymous")
	v, err := s.Decode(access.NewReader([]byte{0x00, 0x00}))
	require.NoError(t, err)
	assert.Equal(t, "anonymous", v)
}

func TestString_FormatChecks(t *testing.T) {
	encodeOne(t, SEmail, "player@example.com")
	requireCode(t, encodeErr(SEmail, "not-an-email"), ErrStringEmail)
	requireCode(t, encodeErr(SEmail, "Name <player@example.com>"), ErrStringEmail)

	encodeOne(t, SURI, "https://example.com/lobby?id=3")
	requireCode(t, encodeErr(SURI, "lobby"), ErrStringURL)

	encodeOne(t, SLang, "en-US")
	encodeOne(t, SLang, "de")
	requireCode(t, encodeErr(SLang, "12"), ErrStringLang)
}

func TestBytes(t *testing.T) {
	assert.Equal(t, []byte{0x00, 0x02, 0xAA, 0xBB}, encodeOne(t, SBytes(2), []byte{0xAA, 0xBB}))
	requireCode(t, encodeErr(SBytes(2), []byte{0xAA}), ErrConstraintViolated)
	requireCode(t, encodeErr(SBytes(0), nil), ErrConstraintViolated)
	assert.Equal(t, []byte{0x02, 0xFF, 0xFF, 0xFF, 0xFF}, encodeOne(t, SVariableBytes(), nil))

	v, err := SBytes(0).Decode(access.NewReader([]byte{0x00, 0x01, 0x7F}))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x7F}, v)
}

func TestGeometry_RoundTrip(t *testing.T) {
	values := []struct {
		s Schema
		v any
	}{
		{SVector2, types.Vector2{X: 1, Y: 2}},
		{SVector3, types.Vector3{X: 1, Y: 2, Z: 3}},
		{SVector4, types.Vector4{X: 1, Y: 2, Z: 3, W: 4}},
		{SVector2Int, types.Vector2Int{X: -5, Y: 300}},
		{SVector3Int.WithPack(types.Unpacked), types.Vector3Int{X: 1, Y: 2, Z: 3}},
		{SColor32, types.Color32{R: 1, G: 2, B: 3, A: 4}},
		{SColor.WithPack(types.Unpacked), types.Color{R: 0.5, G: 0.25, B: 1, A: 1}},
		{SMatrix4x4, types.IdentityMatrix()},
		{SRect, types.Rect{X: 1, Y: 2, Width: 3, Height: 4}},
		{SRay, types.Ray{Origin: types.Vector3{X: 1}, Direction: types.Vector3{Z: 1}}},
		{SPlane, types.Plane{Normal: types.Vector3{Y: 1}, Distance: 2}},
	}
	for _, tc := range values {
		buf := encodeOne(t, tc.s, tc.v)
		got, err := tc.s.Decode(access.NewReader(buf))
		require.NoError(t, err)
		assert.Equal(t, tc.v, got)
	}

	assert.Len(t, encodeOne(t, SQuaternion, types.IdentityQuaternion), 4)
	requireCode(t, encodeErr(SVector3, types.Vector2{}), ErrEncode)

	_, err := SVector3.Decode(access.NewReader([]byte{0x00, 0x00}))
	requireCode(t, err, ErrUnexpectedEOF)
}

func TestRef_NullAndIdentity(t *testing.T) {
	assert.Equal(t, []byte{0xFF, 0xFF}, encodeOne(t, SObjectRef, nil))
	assert.Equal(t, []byte{0xFF, 0xFF}, encodeOne(t, SBehaviourRef, nil))
	assert.Equal(t, []byte{0x07, 0x00}, encodeOne(t, SObjectRef, RefValue{ObjectID: 7}))
	assert.Equal(t, []byte{0x07, 0x00, 0x02}, encodeOne(t, SBehaviourRef, RefValue{ObjectID: 7, Component: 2}))

	v, err := SBehaviourRef.Decode(access.NewReader([]byte{0x07, 0x00, 0x02}))
	require.NoError(t, err)
	assert.Equal(t, RefValue{ObjectID: 7, Component: 2}, v)

	v, err = SBehaviourRef.Decode(access.NewReader([]byte{0xFF, 0xFF}))
	require.NoError(t, err)
	assert.Nil(t, v)

	requireCode(t, encodeErr(SObjectRef, "7"), ErrEncode)
}

func TestDate_Range(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	buf := encodeOne(t, SDate, at)
	got, err := SDate.Decode(access.NewReader(buf))
	require.NoError(t, err)
	assert.True(t, at.Equal(got.(time.Time)))

	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	bounded := SDate.DateRange(&from, &to)
	requireCode(t, encodeErr(bounded, at), ErrDateOutOfRange)
	_, err = bounded.Decode(access.NewReader(buf))
	requireCode(t, err, ErrDateOutOfRange)

	encodeOne(t, bounded, "2020-06-01T00:00:00Z")
	assert.Equal(t, []byte{0x01}, encodeOne(t, SDate.Optional(), nil))
}

func TestTuple_PositionalAndNamed(t *testing.T) {
	tuple := STuple(SInt32, SString, SBool)
	buf := encodeOne(t, tuple, []any{1, "hi", true})
	assert.Equal(t, []byte{0x00, 0x01, 0x00, 0x02, 'h', 'i', 0x01}, buf)

	v, err := tuple.Decode(access.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, []any{int32(1), "hi", true}, v)

	requireCode(t, encodeErr(tuple, []any{1, "hi"}), ErrEncode)

	named := STupleNamed([]string{"id", "name", "nick"}, SInt32, SString, SVariableString())
	buf = encodeOne(t, named, map[string]any{"id": 1, "name": "hi"})
	assert.Equal(t, []byte{0x00, 0x01, 0x00, 0x02, 'h', 'i', 0x02, 0xFF, 0xFF, 0xFF, 0xFF}, buf)

	v, err = named.Decode(access.NewReader(buf))
	require.NoError(t, err)
	om := v.(*types.OrderedMapAny)
	assert.Equal(t, []string{"id", "name", "nick"}, om.Keys())
	assert.Equal(t, "hi", types.GetAs[string](om, "name"))

	err = encodeErr(named, map[string]any{"name": "hi"})
	requireCode(t, err, ErrEncode)
	var missing MissingKeyErrorDetails
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "id", missing.Key)
}

func TestList_HeaderAndCount(t *testing.T) {
	list := SList(SInt32)
	buf := encodeOne(t, list, []int32{1, 2})
	assert.Equal(t, []byte{0x00, 0x00, 0x02, 0x00, 0x01, 0x00, 0x02}, buf)

	w := access.NewWriter()
	require.NoError(t, access.WriteList(w, []int32{1, 2}))
	assert.Equal(t, w.GetArraySegment(), buf)

	v, err := list.Decode(access.NewReader(buf))
	require.NoError(t, err)
	assert.Equal(t, []any{int32(1), int32(2)}, v)

	requireCode(t, encodeErr(list, nil), ErrEncode)
	assert.Equal(t, []byte{0x01}, encodeOne(t, list.Optional(), []int32(nil)))
	requireCode(t, encodeErr(list.Count(Ptr(int64(1)), nil), []int32{}), ErrConstraintViolated)

	_, err = list.Decode(access.NewReader([]byte{0x00, 0x00, 0x02, 0x00, 0x01}))
	requireCode(t, err, ErrUnexpectedEOF)
}

func TestList_InflatedCountDoesNotPreallocate(t *testing.T) {
	// 65536 elements declared, none present
	buf := []byte{0x00, 0x02, 0x00, 0x00, 0x01, 0x00}
	list := SList(SInt32)

	_, err := list.Decode(access.NewReader(buf))
	requireCode(t, err, ErrUnexpectedEOF)

	res := testing.Benchmark(func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			_, _ = list.Decode(access.NewReader(buf))
		}
	})
	assert.Less(t, res.AllocedBytesPerOp(), int64(64<<10))
}

func TestDictionary_MatchesAccessBytes(t *testing.T) {
	w := access.NewWriter()
	require.NoError(t, access.WriteSortedDictionary(w, map[string]int32{"b": 2, "a": 1}))
	buf := w.GetArraySegment()

	dict := SDictionary(SString, SInt32)
	v, err := dict.Decode(access.NewReader(buf))
	require.NoError(t, err)
	om := v.(*types.OrderedMap[any, any])
	assert.Equal(t, []any{"a", "b"}, om.Keys())
	assert.Equal(t, []any{int32(1), int32(2)}, om.Values())

	assert.Equal(t, buf, encodeOne(t, dict, om))

	single := encodeOne(t, dict, map[string]int{"a": 1})
	assert.Equal(t, []byte{0x00, 0x00, 0x01, 0x00, 0x01, 'a', 0x00, 0x01}, single)

	requireCode(t, encodeErr(dict, []int{1}), ErrEncode)
	assert.Equal(t, []byte{0x01}, encodeOne(t, dict.Optional(), nil))
	requireCode(t, encodeErr(dict.Count(nil, Ptr(int64(0))), map[string]int{"a": 1}), ErrConstraintViolated)
}

func TestNullable_MatchesWriteNullable(t *testing.T) {
	n := SNullable(SInt32)
	five := int32(5)

	w := access.NewWriter()
	require.NoError(t, access.WriteNullable(w, &five))
	assert.Equal(t, w.GetArraySegment(), encodeOne(t, n, &five))
	assert.Equal(t, []byte{0x01}, encodeOne(t, n, (*int32)(nil)))

	v, err := DecodeBuffer([]byte{0x00, 0x00, 0x05}, SChain(n))
	require.NoError(t, err)
	assert.Equal(t, int32(5), v)
}

func TestEnum(t *testing.T) {
	e := SEnum("red", "green", "blue")
	assert.Equal(t, []byte{0x00, 0x01}, encodeOne(t, e, "green"))
	assert.Equal(t, []byte{0x00, 0x02}, encodeOne(t, e, 2))

	v, err := e.Decode(access.NewReader([]byte{0x00, 0x01}))
	require.NoError(t, err)
	assert.Equal(t, "green", v)

	_, err = e.Decode(access.NewReader([]byte{0x00, 0x05}))
	requireCode(t, err, ErrOutOfRange)
	requireCode(t, encodeErr(e, "purple"), ErrEncode)
	requireCode(t, encodeErr(e, nil), ErrEncode)
	assert.Equal(t, []byte{0x02, 0xFF, 0xFF, 0xFF, 0xFF}, encodeOne(t, e.Optional(), nil))
}

func TestChain_TrailingAndTruncated(t *testing.T) {
	chain := SChain(SInt32, SBool)
	buf, err := EncodeValue([]any{300, true}, chain)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x2C, 0x01, 0x01}, buf)
	require.NoError(t, ValidateBuffer(buf, chain))

	requireCode(t, ValidateBuffer(append(buf, 0x00), chain), ErrInvalidFormat)
	_, err = DecodeBuffer(buf[:2], chain)
	requireCode(t, err, ErrUnexpectedEOF)

	_, err = EncodeValue(300, chain)
	requireCode(t, err, ErrEncode)

	empty, err := EncodeValue(nil, SChain())
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestNamedChain(t *testing.T) {
	chain := SNamedChain([]string{"hp", "pos"}, SUint16, SVector2)
	val := types.NewOrderedMapAny(types.OP[string, any]("hp", uint16(90)), types.OP[string, any]("pos", types.Vector2{X: 1}))

	buf, err := EncodeValueNamed(val, chain)
	require.NoError(t, err)

	got, err := DecodeBufferNamed(buf, chain)
	require.NoError(t, err)
	assert.True(t, val.Equal(got))

	_, err = DecodeBufferNamed(buf, SNamedChain([]string{"hp"}, SUint16, SVector2))
	requireCode(t, err, ErrConstraintViolated)
	_, err = EncodeValueNamed([]any{1}, chain)
	requireCode(t, err, ErrEncode)
}

func TestGeneric(t *testing.T) {
	constant := SchemaGeneric{
		DecodeFunc: func(r *access.Reader) (any, error) {
			b, err := r.ReadUint8()
			return b * 2, err
		},
		EncodeFunc: func(w *access.Writer, val any) error {
			w.WriteUint8(val.(uint8) / 2)
			return nil
		},
	}
	buf, err := EncodeValue(uint8(10), SChain(constant))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x05}, buf)
	require.NoError(t, ValidateBuffer(buf, SChain(constant)))
	assert.False(t, constant.IsNullable())

	_, err = SchemaGeneric{}.Decode(access.NewReader(buf))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

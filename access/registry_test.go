package access

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"

	"github.com/quickwritereader/PackNet/log"
	"github.com/quickwritereader/PackNet/types"
)

type playerState struct {
	Health int16
	Name   string
}

func (p *playerState) PackInto(w *Writer) error {
	w.WriteInt16(p.Health, types.Packed)
	w.WriteString(p.Name)
	return nil
}

func (p *playerState) UnpackFrom(r *Reader) error {
	var err error
	if p.Health, err = r.ReadInt16(types.Packed); err != nil {
		return err
	}
	p.Name, err = r.ReadString()
	return err
}

type unregistered struct{ X int }

func TestRegistry_BuiltinDefaults(t *testing.T) {
	w := NewWriter()
	require.NoError(t, Write(w, int32(300)))
	require.NoError(t, Write(w, float32(1)))
	require.NoError(t, Write(w, 5))
	require.NoError(t, Write(w, true))
	require.NoError(t, Write(w, "go"))
	require.NoError(t, Write(w, types.Vector2Int{X: 1, Y: 2}))

	assert.Equal(t, []byte{
		0x01, 0x2C, 0x01, // int32 packed by default
		0x00, 0x00, 0x80, 0x3F, // float32 unpacked by default
		0x00, 0x05, // int as packed 64-bit
		0x01,
		0x00, 0x02, 'g', 'o',
		0x00, 0x01, 0x00, 0x02,
	}, w.GetArraySegment())
}

func TestRegistry_WritePackedOverridesDefault(t *testing.T) {
	w := NewWriter()
	require.NoError(t, WritePacked(w, int32(300), types.Unpacked))
	require.NoError(t, WritePacked(w, float32(0), types.Packed))
	require.NoError(t, WritePacked(w, true, types.Packed))
	assert.Equal(t, []byte{0x2C, 0x01, 0x00, 0x00, 0x00, 0x00, 0x01}, w.GetArraySegment())

	r := NewReader(w.GetArraySegment())
	i, err := ReadPacked[int32](r, types.Unpacked)
	require.NoError(t, err)
	assert.Equal(t, int32(300), i)
	f, err := ReadPacked[float32](r, types.Packed)
	require.NoError(t, err)
	assert.Zero(t, f)
	b, err := ReadPacked[bool](r, types.Packed)
	require.NoError(t, err)
	assert.True(t, b)
}

func TestRegistry_PackAwareness(t *testing.T) {
	aware, def := IsPackAware[int32](DefaultRegistry)
	assert.True(t, aware)
	assert.Equal(t, types.Packed, def)

	aware, def = IsPackAware[float64](DefaultRegistry)
	assert.True(t, aware)
	assert.Equal(t, types.Unpacked, def)

	aware, _ = IsPackAware[types.Color](DefaultRegistry)
	assert.True(t, aware)

	aware, _ = IsPackAware[string](DefaultRegistry)
	assert.False(t, aware)
}

func TestRegistry_BuiltinRoundTrip(t *testing.T) {
	when := time.Unix(1700000000, 5).UTC()
	w := NewWriter()
	require.NoError(t, Write(w, uint16(65535)))
	require.NoError(t, Write(w, int64(-7)))
	require.NoError(t, Write(w, uint(1<<40)))
	require.NoError(t, Write(w, 2.5))
	require.NoError(t, Write(w, []byte{0xAB}))
	require.NoError(t, Write(w, types.Color{R: 1, G: 0.5}))
	require.NoError(t, Write(w, types.IdentityQuaternion))
	require.NoError(t, Write(w, when))
	require.NoError(t, Write(w, 90*time.Second))

	r := NewReader(w.GetArraySegment())
	u16, err := Read[uint16](r)
	require.NoError(t, err)
	assert.Equal(t, uint16(65535), u16)
	i64, err := Read[int64](r)
	require.NoError(t, err)
	assert.Equal(t, int64(-7), i64)
	u, err := Read[uint](r)
	require.NoError(t, err)
	assert.Equal(t, uint(1<<40), u)
	f, err := Read[float64](r)
	require.NoError(t, err)
	assert.Equal(t, 2.5, f)
	bs, err := Read[[]byte](r)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAB}, bs)
	c, err := Read[types.Color](r)
	require.NoError(t, err)
	assert.Equal(t, types.Color{R: 1, G: 0.5}, c)
	q, err := Read[types.Quaternion](r)
	require.NoError(t, err)
	assert.InDelta(t, 1, q.W, 1e-3)
	got, err := Read[time.Time](r)
	require.NoError(t, err)
	assert.True(t, when.Equal(got))
	d, err := Read[time.Duration](r)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, d)
	assert.Zero(t, r.Remaining())
}

func TestRegistry_MissingCodecWritesNothing(t *testing.T) {
	w, logs := observedWriter(zapcore.ErrorLevel)
	require.NoError(t, Write(w, uint8(1)))

	err := Write(w, unregistered{X: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCodecNotRegistered))
	assert.Contains(t, err.Error(), "unregistered")
	assert.Equal(t, 1, w.Length(), "no bytes may be written for a missing codec")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Contains(t, entries[0].ContextMap()["type"], "unregistered")

	_, err = Read[unregistered](NewReader([]byte{0}))
	assert.True(t, errors.Is(err, ErrCodecNotRegistered))
	assert.False(t, HasCodec[unregistered](DefaultRegistry))
}

func TestRegistry_PackableFallback(t *testing.T) {
	assert.True(t, HasCodec[playerState](DefaultRegistry))
	assert.True(t, HasCodec[*playerState](DefaultRegistry))

	w := NewWriter()
	require.NoError(t, Write(w, playerState{Health: 300, Name: "ann"}))
	require.NoError(t, Write(w, &playerState{Health: 1, Name: ""}))
	assert.Equal(t, []byte{0x01, 0x2C, 0x01, 0x00, 0x03, 'a', 'n', 'n', 0x00, 0x01, 0x00, 0x00}, w.GetArraySegment())

	var nilState *playerState
	err := Write(w, nilState)
	assert.True(t, errors.Is(err, ErrNilValue))

	r := NewReader(w.GetArraySegment())
	first, err := Read[playerState](r)
	require.NoError(t, err)
	assert.Equal(t, playerState{Health: 300, Name: "ann"}, first)
	second, err := Read[*playerState](r)
	require.NoError(t, err)
	assert.Equal(t, &playerState{Health: 1}, second)
}

func TestRegistry_IsolatedRegistry(t *testing.T) {
	reg := NewRegistry()
	w := NewWriter(WithRegistry(reg))
	assert.True(t, errors.Is(Write(w, int32(1)), ErrCodecNotRegistered))

	RegisterPacked(reg, func(w *Writer, v int32, pack types.AutoPackType) error {
		w.WriteInt32(v, pack)
		return nil
	}, (*Reader).ReadInt32, types.Unpacked)
	assert.Equal(t, 1, reg.Len())

	require.NoError(t, Write(w, int32(1)))
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x00}, w.GetArraySegment())

	r := NewReader(w.GetArraySegment(), WithReaderRegistry(reg))
	v, err := Read[int32](r)
	require.NoError(t, err)
	assert.Equal(t, int32(1), v)

	Unregister[int32](reg)
	assert.False(t, HasCodec[int32](reg))
}

func TestRegistry_ReplaceAndWriteOnly(t *testing.T) {
	reg := NewBuiltinRegistry()
	Register(reg, func(w *Writer, v string) error {
		w.WriteUint8(uint8(len(v)))
		return nil
	}, nil)

	w := NewWriter(WithRegistry(reg))
	require.NoError(t, Write(w, "abc"))
	assert.Equal(t, []byte{0x03}, w.GetArraySegment())

	_, err := Read[string](NewReader(w.GetArraySegment(), WithReaderRegistry(reg)))
	assert.True(t, errors.Is(err, ErrCodecNotRegistered))

	assert.Panics(t, func() { Register[string](reg, nil, nil) })
}

func TestRegistry_ReplacementDiagnostics(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	defer log.ReplaceGlobals(zap.New(core))()

	reg := NewBuiltinRegistry()
	require.Zero(t, logs.Len())

	write := func(w *Writer, v int32) error {
		w.WriteInt32(v, types.Unpacked)
		return nil
	}
	Register(reg, write, nil)
	Register(reg, write, nil)

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, false, entries[0].ContextMap()["packed"])
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
	assert.Equal(t, "int32", entries[1].ContextMap()["type"])

	packed, _ := IsPackAware[int32](reg)
	assert.False(t, packed)
}

func TestRegistry_NestedCollections(t *testing.T) {
	reg := NewBuiltinRegistry()
	RegisterList[int16](reg)
	RegisterDictionary[string, int32](reg)

	w := NewWriter(WithRegistry(reg))
	require.NoError(t, WriteSortedDictionary(w, map[string][]int16{"a": {1, 2}, "b": nil}))
	require.NoError(t, WriteList(w, []map[string]int32{{"x": 1}}))

	r := NewReader(w.GetArraySegment(), WithReaderRegistry(reg))
	m, err := ReadDictionary[string, []int16](r)
	require.NoError(t, err)
	assert.Equal(t, map[string][]int16{"a": {1, 2}, "b": nil}, m)
	l, err := ReadList[map[string]int32](r)
	require.NoError(t, err)
	assert.Equal(t, []map[string]int32{{"x": 1}}, l)
}

func TestRegistry_NetworkReferences(t *testing.T) {
	world := fakeWorld{3: {id: 3, spawned: true}}
	w := NewWriter()
	require.NoError(t, Write(w, world[3]))
	require.NoError(t, Write[NetworkObject](w, nil))
	require.NoError(t, Write[NetworkBehaviour](w, &fakeBehaviour{owner: world[3], index: 1}))
	assert.Equal(t, []byte{0x03, 0x00, 0xFF, 0xFF, 0x03, 0x00, 0x01}, w.GetArraySegment())

	_, err := Read[*fakeObject](NewReader(w.GetArraySegment()))
	assert.True(t, errors.Is(err, ErrNoResolver))

	r := NewReader(w.GetArraySegment(), WithObjectResolver(world))
	obj, err := Read[*fakeObject](r)
	require.NoError(t, err)
	assert.Same(t, world[3], obj)
	none, err := Read[NetworkObject](r)
	require.NoError(t, err)
	assert.Nil(t, none)
	b, err := Read[NetworkBehaviour](r)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), b.ComponentIndex())
}

func TestRegistry_ConcurrentLookups(t *testing.T) {
	reg := NewBuiltinRegistry()
	var g errgroup.Group
	for i := range 8 {
		g.Go(func() error {
			w := NewWriter(WithRegistry(reg))
			for j := 0; j < 100; j++ {
				if i%2 == 0 {
					RegisterList[int32](reg)
				}
				if err := Write(w, int32(j)); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.True(t, HasCodec[[]int32](reg))
}

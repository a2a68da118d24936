package access

import (
	"encoding/json"
	"testing"
	"time"

	goccyjson "github.com/goccy/go-json"
	jsoniter "github.com/json-iterator/go"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/quickwritereader/PackNet/types"
)

type CompactPayload struct {
	I0 int16 `json:"i0" msgpack:"i0"`
	I1 int16 `json:"i1" msgpack:"i1"`
	I2 int16 `json:"i2" msgpack:"i2"`
	I3 int16 `json:"i3" msgpack:"i3"`
	I4 int16 `json:"i4" msgpack:"i4"`

	F0 bool `json:"f0" msgpack:"f0"`
	F1 bool `json:"f1" msgpack:"f1"`
	F2 bool `json:"f2" msgpack:"f2"`
	F3 bool `json:"f3" msgpack:"f3"`
	F4 bool `json:"f4" msgpack:"f4"`

	L0 string `json:"l0" msgpack:"l0"`
	L1 string `json:"l1" msgpack:"l1"`
	L2 string `json:"l2" msgpack:"l2"`
	L3 string `json:"l3" msgpack:"l3"`
	L4 string `json:"l4" msgpack:"l4"`

	P types.Vector3 `json:"p" msgpack:"p"`

	M map[string]string `json:"m" msgpack:"m"`
}

var flat = CompactPayload{
	I0: 1000, I1: 1001, I2: 1002, I3: 1003, I4: 1004,
	F0: true, F1: false, F2: true, F3: false, F4: true,
	L0: "label-0", L1: "label-1", L2: "label-2", L3: "label-3", L4: "label-4",
	P: types.Vector3{X: 1.5, Y: -2, Z: 300},
	M: map[string]string{
		"user":  "alice",
		"role":  "admin",
		"user2": "alice",
		"role2": "admin",
		"email": "alice@example.com",
		"team":  "core",
		"zone":  "eu-west",
	},
}

var sinkFlat, sinkJSON []byte

func (p *CompactPayload) PackInto(w *Writer) error {
	for _, v := range [...]int16{p.I0, p.I1, p.I2, p.I3, p.I4} {
		w.WriteInt16(v, types.Packed)
	}
	for _, v := range [...]bool{p.F0, p.F1, p.F2, p.F3, p.F4} {
		w.WriteBool(v)
	}
	for _, v := range [...]string{p.L0, p.L1, p.L2, p.L3, p.L4} {
		w.WriteString(v)
	}
	w.WriteVector3(p.P)
	return WriteDictionary(w, p.M)
}

// musCompactPayload is written out by hand in the shape a mus generator emits.
type musCompactPayload struct{}

func (musCompactPayload) ints(p CompactPayload) [5]int16 {
	return [...]int16{p.I0, p.I1, p.I2, p.I3, p.I4}
}

func (musCompactPayload) bools(p CompactPayload) [5]bool {
	return [...]bool{p.F0, p.F1, p.F2, p.F3, p.F4}
}

func (musCompactPayload) strs(p CompactPayload) [5]string {
	return [...]string{p.L0, p.L1, p.L2, p.L3, p.L4}
}

func (s musCompactPayload) Size(p CompactPayload) (size int) {
	for _, v := range s.ints(p) {
		size += varint.Int16.Size(v)
	}
	for _, v := range s.bools(p) {
		size += ord.Bool.Size(v)
	}
	for _, v := range s.strs(p) {
		size += ord.String.Size(v)
	}
	size += 3 * 4
	size += varint.Int.Size(len(p.M))
	for k, v := range p.M {
		size += ord.String.Size(k) + ord.String.Size(v)
	}
	return size
}

func (s musCompactPayload) Marshal(p CompactPayload, bs []byte) (n int) {
	for _, v := range s.ints(p) {
		n += varint.Int16.Marshal(v, bs[n:])
	}
	for _, v := range s.bools(p) {
		n += ord.Bool.Marshal(v, bs[n:])
	}
	for _, v := range s.strs(p) {
		n += ord.String.Marshal(v, bs[n:])
	}
	for _, f := range [...]float32{p.P.X, p.P.Y, p.P.Z} {
		n = PutFloat32(bs, n, f)
	}
	n += varint.Int.Marshal(len(p.M), bs[n:])
	for k, v := range p.M {
		n += ord.String.Marshal(k, bs[n:])
		n += ord.String.Marshal(v, bs[n:])
	}
	return n
}

var CompactPayloadMUS musCompactPayload

func reportPerPack(b *testing.B, name string, elapsed time.Duration, count int, size int) {
	perPack := float64(elapsed.Nanoseconds()) / float64(b.N*count)
	opsPerSec := 1e9 / perPack
	b.Logf("%s: per-pack = %.2f ns/op, %.2f ops/sec", name, perPack, opsPerSec)
	b.Logf("%s size: %d bytes", name, size)
}

func BenchmarkFlatFields_PackNet(b *testing.B) {
	const count = 1000
	b.ReportAllocs()
	b.ResetTimer()

	start := time.Now()
	for i := 0; i < b.N; i++ {
		for j := 0; j < count; j++ {
			w := GetWriter()
			if err := flat.PackInto(w); err != nil {
				b.Fatal(err)
			}
			sinkFlat = append(sinkFlat[:0], w.GetArraySegment()...)
			ReleaseWriter(w)
		}
	}
	elapsed := time.Since(start)

	b.StopTimer()
	reportPerPack(b, "PackNet", elapsed, count, len(sinkFlat))
}

func BenchmarkFlatFields_PackNetSorted(b *testing.B) {
	const count = 1000
	w := NewWriter()
	b.ReportAllocs()
	b.ResetTimer()

	start := time.Now()
	for i := 0; i < b.N; i++ {
		for j := 0; j < count; j++ {
			w.Reset()
			if err := WriteSortedDictionary(w, flat.M); err != nil {
				b.Fatal(err)
			}
		}
	}
	elapsed := time.Since(start)

	b.StopTimer()
	reportPerPack(b, "PackNetSortedDictionary", elapsed, count, w.Length())
}

func BenchmarkFlatFields_MusFlatFields(b *testing.B) {
	const count = 1000
	b.ReportAllocs()
	b.ResetTimer()

	start := time.Now()
	for i := 0; i < b.N; i++ {
		for j := 0; j < count; j++ {
			dst := make([]byte, CompactPayloadMUS.Size(flat))
			CompactPayloadMUS.Marshal(flat, dst)
			sinkFlat = dst
		}
	}
	elapsed := time.Since(start)

	b.StopTimer()
	reportPerPack(b, "MusFlatFields", elapsed, count, len(sinkFlat))
}

func BenchmarkFlatFields_Json(b *testing.B) {
	const count = 1000
	b.ReportAllocs()
	b.ResetTimer()

	start := time.Now()
	for i := 0; i < b.N; i++ {
		for j := 0; j < count; j++ {
			sinkJSON, _ = json.Marshal(flat)
		}
	}
	elapsed := time.Since(start)

	b.StopTimer()
	reportPerPack(b, "Json", elapsed, count, len(sinkJSON))
}

func BenchmarkFlatFields_JsonIter(b *testing.B) {
	const count = 1000
	var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary
	b.ReportAllocs()
	b.ResetTimer()

	start := time.Now()
	for i := 0; i < b.N; i++ {
		for j := 0; j < count; j++ {
			sinkJSON, _ = jsonIter.Marshal(flat)
		}
	}
	elapsed := time.Since(start)

	b.StopTimer()
	reportPerPack(b, "JsonIter", elapsed, count, len(sinkJSON))
}

func BenchmarkFlatFields_GoJson(b *testing.B) {
	const count = 1000
	b.ReportAllocs()
	b.ResetTimer()

	start := time.Now()
	for i := 0; i < b.N; i++ {
		for j := 0; j < count; j++ {
			sinkJSON, _ = goccyjson.Marshal(flat)
		}
	}
	elapsed := time.Since(start)

	b.StopTimer()
	reportPerPack(b, "GoJson", elapsed, count, len(sinkJSON))
}

func BenchmarkFlatFields_MsgPack(b *testing.B) {
	const count = 1000
	b.ReportAllocs()
	b.ResetTimer()

	start := time.Now()
	for i := 0; i < b.N; i++ {
		for j := 0; j < count; j++ {
			sinkJSON, _ = msgpack.Marshal(flat)
		}
	}
	elapsed := time.Since(start)

	b.StopTimer()
	reportPerPack(b, "MsgPack", elapsed, count, len(sinkJSON))
}

func BenchmarkReader_FlatFields(b *testing.B) {
	w := NewWriter()
	if err := flat.PackInto(w); err != nil {
		b.Fatal(err)
	}
	segment := w.GetArraySegment()
	r := NewReader(segment)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		r.Reset(segment)
		for range 5 {
			if _, err := r.ReadInt16(types.Packed); err != nil {
				b.Fatal(err)
			}
		}
		for range 5 {
			if _, err := r.ReadBool(); err != nil {
				b.Fatal(err)
			}
		}
		for range 5 {
			if _, err := r.ReadString(); err != nil {
				b.Fatal(err)
			}
		}
		if _, err := r.ReadVector3(); err != nil {
			b.Fatal(err)
		}
		if _, err := ReadDictionary[string, string](r); err != nil {
			b.Fatal(err)
		}
	}
}

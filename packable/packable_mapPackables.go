package packable

import (
	"cmp"

	"github.com/quickwritereader/PackNet/access"
	"github.com/quickwritereader/PackNet/types"
	"github.com/quickwritereader/PackNet/utils"
)

// The map packables below produce the dictionary layout: a presence byte,
// a packed count, then key/value pairs. A nil map writes the single byte 0x01.

func mapHeaderSize(isNil bool, n int) int {
	if isNil {
		return 1
	}
	return 1 + packedSize(uint64(n))
}

// packableEntriesSize returns -1 if a value does not implement Sized.
func packableEntriesSize(keys []string, get func(string) access.Packable) int {
	size := 0
	for _, k := range keys {
		s, ok := get(k).(Sized)
		if !ok || s.ValueSize() < 0 {
			return -1
		}
		size += PackString(k).ValueSize() + s.ValueSize()
	}
	return size
}

// PackMapSorted packs a map of Packable values after sorting its keys for a deterministic result.
type PackMapSorted map[string]access.Packable

func (p PackMapSorted) ValueSize() int {
	n := packableEntriesSize(utils.SortKeys(p), func(k string) access.Packable { return p[k] })
	if n < 0 {
		return -1
	}
	return mapHeaderSize(p == nil, len(p)) + n
}

func (p PackMapSorted) PackInto(w *access.Writer) error {
	if !w.WriteCollectionHeader(p == nil, len(p)) {
		return nil
	}
	for _, k := range utils.SortKeys(p) {
		w.WriteString(k)
		if err := p[k].PackInto(w); err != nil {
			return err
		}
	}
	return nil
}

// PackMap packs a map of Packable values. This is the unsorted version.
type PackMap map[string]access.Packable

func (p PackMap) ValueSize() int {
	return PackMapSorted(p).ValueSize()
}

func (p PackMap) PackInto(w *access.Writer) error {
	if !w.WriteCollectionHeader(p == nil, len(p)) {
		return nil
	}
	for k, v := range p {
		w.WriteString(k)
		if err := v.PackInto(w); err != nil {
			return err
		}
	}
	return nil
}

// PackMapStr packs a map of string values. This is the unsorted version.
type PackMapStr map[string]string

func (p PackMapStr) ValueSize() int {
	size := mapHeaderSize(p == nil, len(p))
	for k, v := range p {
		size += PackString(k).ValueSize() + PackString(v).ValueSize()
	}
	return size
}

func (p PackMapStr) PackInto(w *access.Writer) error {
	if !w.WriteCollectionHeader(p == nil, len(p)) {
		return nil
	}
	for k, v := range p {
		w.WriteString(k)
		w.WriteString(v)
	}
	return nil
}

// PackMapStrInt32 packs a map of int32 values. This is the unsorted version.
type PackMapStrInt32 map[string]int32

func (p PackMapStrInt32) ValueSize() int {
	size := mapHeaderSize(p == nil, len(p))
	for k, v := range p {
		size += PackString(k).ValueSize() + PackInt32(v).ValueSize()
	}
	return size
}

func (p PackMapStrInt32) PackInto(w *access.Writer) error {
	if !w.WriteCollectionHeader(p == nil, len(p)) {
		return nil
	}
	for k, v := range p {
		w.WriteString(k)
		w.WriteInt32(v, types.Packed)
	}
	return nil
}

// PackMapStrInt64 packs a map of int64 values. This is the unsorted version.
type PackMapStrInt64 map[string]int64

func (p PackMapStrInt64) ValueSize() int {
	size := mapHeaderSize(p == nil, len(p))
	for k, v := range p {
		size += PackString(k).ValueSize() + PackInt64(v).ValueSize()
	}
	return size
}

func (p PackMapStrInt64) PackInto(w *access.Writer) error {
	if !w.WriteCollectionHeader(p == nil, len(p)) {
		return nil
	}
	for k, v := range p {
		w.WriteString(k)
		w.WriteInt64(v, types.Packed)
	}
	return nil
}

// Pair for Packable values
type PackPair struct {
	Key   string
	Value access.Packable
}

func PP(key string, value access.Packable) PackPair {
	return PackPair{Key: key, Value: value}
}

// PackableMapOrdered packs Packable values in insertion order.
type PackableMapOrdered struct {
	om *types.OrderedMap[string, access.Packable]
}

// PackMapOrdered creates a new PackableMapOrdered, optionally initialized with pairs.
func PackMapOrdered(pairs ...PackPair) *PackableMapOrdered {
	om := types.NewOrderedMap[string, access.Packable]()
	for _, p := range pairs {
		om.Set(p.Key, p.Value)
	}
	return &PackableMapOrdered{om: om}
}

// Set adds or updates a key/value pair.
func (p *PackableMapOrdered) Set(key string, val access.Packable) {
	p.om.Set(key, val)
}

func (p *PackableMapOrdered) ValueSize() int {
	n := packableEntriesSize(p.om.Keys(), func(k string) access.Packable {
		v, _ := p.om.Get(k)
		return v
	})
	if n < 0 {
		return -1
	}
	return mapHeaderSize(false, p.om.Len()) + n
}

func (p *PackableMapOrdered) PackInto(w *access.Writer) error {
	w.WriteCollectionHeader(false, p.om.Len())
	for k, v := range p.om.All() {
		w.WriteString(k)
		if err := v.PackInto(w); err != nil {
			return err
		}
	}
	return nil
}

// PackDictionary packs any map whose key and value types have codecs.
type PackDictionary[K comparable, V any] struct{ M map[K]V }

func (p PackDictionary[K, V]) PackInto(w *access.Writer) error {
	return access.WriteDictionary(w, p.M)
}
func (p *PackDictionary[K, V]) UnpackFrom(r *access.Reader) error {
	m, err := access.ReadDictionary[K, V](r)
	p.M = m
	return err
}

// PackSortedDictionary is PackDictionary with keys in ascending order.
type PackSortedDictionary[K cmp.Ordered, V any] struct{ M map[K]V }

func (p PackSortedDictionary[K, V]) PackInto(w *access.Writer) error {
	return access.WriteSortedDictionary(w, p.M)
}
func (p *PackSortedDictionary[K, V]) UnpackFrom(r *access.Reader) error {
	m, err := access.ReadDictionary[K, V](r)
	p.M = m
	return err
}

// PackList packs a slice whose element type has a codec.
type PackList[T any] struct{ S []T }

func (p PackList[T]) PackInto(w *access.Writer) error {
	return access.WriteList(w, p.S)
}
func (p *PackList[T]) UnpackFrom(r *access.Reader) error {
	s, err := access.ReadList[T](r)
	p.S = s
	return err
}

package access

import (
	"cmp"

	"github.com/cockroachdb/errors"

	"github.com/quickwritereader/PackNet/types"
	"github.com/quickwritereader/PackNet/utils"
)

// Collections share one layout: a presence byte (true means nil, nothing
// follows), a packed int32 element count, then the elements.

// WriteCollectionHeader writes the presence byte and, for a non-nil
// collection, the count. It reports whether elements should follow.
func (w *Writer) WriteCollectionHeader(isNil bool, n int) bool {
	w.WriteBool(isNil)
	if isNil {
		return false
	}
	w.WriteInt32(int32(n), types.Packed)
	return true
}

// ReadCollectionHeader reports the element count, or null for a nil
// collection. Counts over the reader's collection limit are rejected.
func (r *Reader) ReadCollectionHeader() (n int, null bool, err error) {
	return r.readCollectionHeader("ReadCollectionHeader")
}

func (r *Reader) readCollectionHeader(op string) (n int, null bool, err error) {
	isNil, err := r.ReadBool()
	if err != nil || isNil {
		return 0, isNil, err
	}
	n, lengthNull, err := r.readLength(op, r.cfg.maxCollection)
	if err != nil {
		return 0, false, err
	}
	if lengthNull {
		return 0, false, errors.Wrapf(ErrInvalidLength, "%s: null count after presence byte", op)
	}
	return n, false, nil
}

// WriteDictionary writes m in map iteration order, so equal maps may produce
// different bytes. Use WriteSortedDictionary when the bytes must be stable.
// Key and value codecs are resolved first; a missing one writes nothing.
func WriteDictionary[K comparable, V any](w *Writer, m map[K]V) error {
	writeKey, writeValue, err := resolvePair[K, V](w)
	if err != nil {
		return err
	}
	if !w.WriteCollectionHeader(m == nil, len(m)) {
		return nil
	}
	for k, v := range m {
		if err := writeKey(w, k); err != nil {
			return err
		}
		if err := writeValue(w, v); err != nil {
			return err
		}
	}
	return nil
}

// WriteSortedDictionary is WriteDictionary with keys in ascending order.
func WriteSortedDictionary[K cmp.Ordered, V any](w *Writer, m map[K]V) error {
	writeKey, writeValue, err := resolvePair[K, V](w)
	if err != nil {
		return err
	}
	if !w.WriteCollectionHeader(m == nil, len(m)) {
		return nil
	}
	for _, k := range utils.SortKeys(m) {
		if err := writeKey(w, k); err != nil {
			return err
		}
		if err := writeValue(w, m[k]); err != nil {
			return err
		}
	}
	return nil
}

// WriteOrderedDictionary writes om in insertion order. A nil map writes the
// nil marker. The bytes match WriteDictionary, so either reader decodes them.
func WriteOrderedDictionary[K comparable, V any](w *Writer, om *types.OrderedMap[K, V]) error {
	writeKey, writeValue, err := resolvePair[K, V](w)
	if err != nil {
		return err
	}
	n := 0
	if om != nil {
		n = om.Len()
	}
	if !w.WriteCollectionHeader(om == nil, n) {
		return nil
	}
	for k, v := range om.All() {
		if err := writeKey(w, k); err != nil {
			return err
		}
		if err := writeValue(w, v); err != nil {
			return err
		}
	}
	return nil
}

func resolvePair[K, V any](w *Writer) (WriteFunc[K], WriteFunc[V], error) {
	writeKey, err := resolveWriter[K](w)
	if err != nil {
		return nil, nil, err
	}
	writeValue, err := resolveWriter[V](w)
	if err != nil {
		return nil, nil, err
	}
	return writeKey, writeValue, nil
}

func resolveReadPair[K, V any](r *Reader) (ReadFunc[K], ReadFunc[V], error) {
	readKey, err := resolveReader[K](r)
	if err != nil {
		return nil, nil, err
	}
	readValue, err := resolveReader[V](r)
	if err != nil {
		return nil, nil, err
	}
	return readKey, readValue, nil
}

// ReadDictionary decodes a dictionary. The nil marker decodes to a nil map.
// A key repeated on the wire keeps its last value.
func ReadDictionary[K comparable, V any](r *Reader) (map[K]V, error) {
	readKey, readValue, err := resolveReadPair[K, V](r)
	if err != nil {
		return nil, err
	}
	n, null, err := r.readCollectionHeader("ReadDictionary")
	if err != nil || null {
		return nil, err
	}
	m := make(map[K]V, min(n, r.Remaining()))
	for i := 0; i < n; i++ {
		k, err := readKey(r)
		if err != nil {
			return nil, errors.Wrapf(err, "ReadDictionary: key %d", i)
		}
		v, err := readValue(r)
		if err != nil {
			return nil, errors.Wrapf(err, "ReadDictionary: value %d", i)
		}
		m[k] = v
	}
	return m, nil
}

// ReadOrderedDictionary decodes a dictionary keeping wire order.
func ReadOrderedDictionary[K comparable, V any](r *Reader) (*types.OrderedMap[K, V], error) {
	readKey, readValue, err := resolveReadPair[K, V](r)
	if err != nil {
		return nil, err
	}
	n, null, err := r.readCollectionHeader("ReadOrderedDictionary")
	if err != nil || null {
		return nil, err
	}
	om := types.NewOrderedMap[K, V]()
	for i := 0; i < n; i++ {
		k, err := readKey(r)
		if err != nil {
			return nil, errors.Wrapf(err, "ReadOrderedDictionary: key %d", i)
		}
		v, err := readValue(r)
		if err != nil {
			return nil, errors.Wrapf(err, "ReadOrderedDictionary: value %d", i)
		}
		om.Set(k, v)
	}
	return om, nil
}

// WriteList writes s with the collection layout. A nil slice and an empty
// one are distinct on the wire.
func WriteList[T any](w *Writer, s []T) error {
	write, err := resolveWriter[T](w)
	if err != nil {
		return err
	}
	if !w.WriteCollectionHeader(s == nil, len(s)) {
		return nil
	}
	for i := range s {
		if err := write(w, s[i]); err != nil {
			return err
		}
	}
	return nil
}

func ReadList[T any](r *Reader) ([]T, error) {
	read, err := resolveReader[T](r)
	if err != nil {
		return nil, err
	}
	n, null, err := r.readCollectionHeader("ReadList")
	if err != nil || null {
		return nil, err
	}
	out := make([]T, 0, min(n, r.Remaining()))
	for i := 0; i < n; i++ {
		v, err := read(r)
		if err != nil {
			return nil, errors.Wrapf(err, "ReadList: element %d", i)
		}
		out = append(out, v)
	}
	return out, nil
}

// WriteNullable writes a presence byte (true means nil) and then *v.
func WriteNullable[T any](w *Writer, v *T) error {
	write, err := resolveWriter[T](w)
	if err != nil {
		return err
	}
	w.WriteBool(v == nil)
	if v == nil {
		return nil
	}
	return write(w, *v)
}

func ReadNullable[T any](r *Reader) (*T, error) {
	read, err := resolveReader[T](r)
	if err != nil {
		return nil, err
	}
	isNil, err := r.ReadBool()
	if err != nil || isNil {
		return nil, err
	}
	v, err := read(r)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// RegisterList makes []T a registered type, so lists nest inside
// dictionaries and other lists.
func RegisterList[T any](reg *Registry) {
	Register(reg, WriteList[T], ReadList[T])
}

// RegisterDictionary does the same for map[K]V.
func RegisterDictionary[K comparable, V any](reg *Registry) {
	Register(reg, WriteDictionary[K, V], ReadDictionary[K, V])
}

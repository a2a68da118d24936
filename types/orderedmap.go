package types

import (
	"fmt"
	"iter"
	"reflect"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Pair represents a key/value pair for initialization
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

func OP[K comparable, V any](k K, v V) Pair[K, V] {
	return Pair[K, V]{Key: k, Value: v}
}

type node[K comparable, V any] struct {
	key   K
	value V
	prev  *node[K, V]
	next  *node[K, V]
}

// OrderedMap is a map that remembers insertion order. Dictionaries written
// from an OrderedMap produce the same bytes on every run.
type OrderedMap[K comparable, V any] struct {
	data map[K]*node[K, V]
	head *node[K, V]
	tail *node[K, V]
}

// NewOrderedMap creates a new OrderedMap, optionally initialized with pairs.
func NewOrderedMap[K comparable, V any](pairs ...Pair[K, V]) *OrderedMap[K, V] {
	om := &OrderedMap[K, V]{
		data: make(map[K]*node[K, V], len(pairs)),
	}
	for _, p := range pairs {
		om.Set(p.Key, p.Value)
	}
	return om
}

// Alias used by payload descriptions, which decode fields by name.
type OrderedMapAny = OrderedMap[string, any]

func NewOrderedMapAny(pairs ...Pair[string, any]) *OrderedMapAny {
	return NewOrderedMap(pairs...)
}

// Len
func (om *OrderedMap[K, V]) Len() int {
	return len(om.data)
}

// Set inserts or updates a key
func (om *OrderedMap[K, V]) Set(key K, value V) {
	if n, ok := om.data[key]; ok {
		n.value = value
		return
	}
	n := &node[K, V]{key: key, value: value}
	om.data[key] = n
	if om.tail == nil {
		om.head, om.tail = n, n
	} else {
		n.prev = om.tail
		om.tail.next = n
		om.tail = n
	}
}

// Get retrieves a value
func (om *OrderedMap[K, V]) Get(key K) (V, bool) {
	n, ok := om.data[key]
	if !ok {
		var zero V
		return zero, false
	}
	return n.value, true
}

func GetAs[U any](om *OrderedMapAny, key string) U {
	v, ok := om.Get(key)
	if !ok {
		var zero U
		return zero
	}
	u, ok := v.(U)
	if !ok {
		var zero U
		return zero
	}
	return u
}

// Delete removes a key
func (om *OrderedMap[K, V]) Delete(key K) {
	n, ok := om.data[key]
	if !ok {
		return
	}
	delete(om.data, key)
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		om.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		om.tail = n.prev
	}
}

// Keys returns keys in insertion order
func (om *OrderedMap[K, V]) Keys() []K {
	keys := make([]K, 0, len(om.data))
	for n := om.head; n != nil; n = n.next {
		keys = append(keys, n.key)
	}
	return keys
}

// Values returns values in insertion order
func (om *OrderedMap[K, V]) Values() []V {
	values := make([]V, 0, len(om.data))
	for n := om.head; n != nil; n = n.next {
		values = append(values, n.value)
	}
	return values
}

// Items returns key/value pairs in insertion order
func (om *OrderedMap[K, V]) Items() []Pair[K, V] {
	items := make([]Pair[K, V], 0, len(om.data))
	for n := om.head; n != nil; n = n.next {
		items = append(items, Pair[K, V]{Key: n.key, Value: n.value})
	}
	return items
}

func (om *OrderedMap[K, V]) Equal(other *OrderedMap[K, V]) bool {
	if om.Len() != other.Len() {
		return false
	}
	n1, n2 := om.head, other.head
	for n1 != nil && n2 != nil {
		if n1.key != n2.key {
			return false
		}
		if !reflect.DeepEqual(n1.value, n2.value) {
			return false
		}
		n1, n2 = n1.next, n2.next
	}
	return true
}

// MarshalJSON encodes as a JSON object in insertion order.
// Non-string keys are rendered with %v.
func (om *OrderedMap[K, V]) MarshalJSON() ([]byte, error) {
	buf := []byte{'{'}
	first := true
	for n := om.head; n != nil; n = n.next {
		if !first {
			buf = append(buf, ',')
		}
		first = false

		var key any = n.key
		if _, ok := key.(string); !ok {
			key = fmt.Sprintf("%v", n.key)
		}
		keyBytes, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		valBytes, err := json.Marshal(n.value)
		if err != nil {
			return nil, err
		}
		buf = append(buf, keyBytes...)
		buf = append(buf, ':')
		buf = append(buf, valBytes...)
	}
	buf = append(buf, '}')
	return buf, nil
}

// All returns an iterator over key/value pairs in insertion order
func (om *OrderedMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for n := om.head; n != nil; n = n.next {
			if !yield(n.key, n.value) {
				return
			}
		}
	}
}

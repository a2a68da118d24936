package access

import (
	"reflect"
	"sync"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/quickwritereader/PackNet/log"
	"github.com/quickwritereader/PackNet/types"
)

type (
	WriteFunc[T any]       func(w *Writer, v T) error
	ReadFunc[T any]        func(r *Reader) (T, error)
	PackedWriteFunc[T any] func(w *Writer, v T, pack types.AutoPackType) error
	PackedReadFunc[T any]  func(r *Reader, pack types.AutoPackType) (T, error)
)

// entry is the codec pair registered for one concrete type. Whether the type
// takes a pack mode is decided here, once, not per value.
type entry[T any] struct {
	packed      bool
	defaultPack types.AutoPackType

	write       WriteFunc[T]
	read        ReadFunc[T]
	writePacked PackedWriteFunc[T]
	readPacked  PackedReadFunc[T]
}

// Registry maps static Go types to their codecs. Populate it before use;
// lookups are safe to run concurrently with each other and with registration.
type Registry struct {
	mu      sync.RWMutex
	entries map[reflect.Type]any
}

// NewRegistry returns an empty registry. Use NewBuiltinRegistry for one that
// already knows the primitive and geometric types.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[reflect.Type]any)}
}

// NewBuiltinRegistry returns a registry holding every built-in codec.
func NewBuiltinRegistry() *Registry {
	reg := NewRegistry()
	registerBuiltins(reg)
	return reg
}

// DefaultRegistry is consulted by writers and readers built without WithRegistry.
var DefaultRegistry = NewBuiltinRegistry()

func store[T any](reg *Registry, e *entry[T]) {
	t := reflect.TypeFor[T]()
	reg.mu.Lock()
	prev, replaced := reg.entries[t]
	reg.entries[t] = e
	reg.mu.Unlock()
	if !replaced {
		return
	}
	if p, ok := prev.(*entry[T]); ok && p.packed != e.packed {
		log.Warn("codec replaced with one of different pack awareness, peers must agree",
			zap.Stringer("type", t), zap.Bool("packed", e.packed))
		return
	}
	log.Debug("codec replaced", zap.Stringer("type", t))
}

// Len reports how many types have codecs.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.entries)
}

// Register installs a codec for T that ignores pack modes. A later
// registration for the same type replaces the earlier one. read may be nil
// for write-only types.
func Register[T any](reg *Registry, write WriteFunc[T], read ReadFunc[T]) {
	if write == nil {
		panic("access: Register with nil write func for " + reflect.TypeFor[T]().String())
	}
	store(reg, &entry[T]{write: write, read: read})
}

// RegisterPacked installs a pack-aware codec for T; Write[T] passes def.
func RegisterPacked[T any](reg *Registry, write PackedWriteFunc[T], read PackedReadFunc[T], def types.AutoPackType) {
	if write == nil {
		panic("access: RegisterPacked with nil write func for " + reflect.TypeFor[T]().String())
	}
	store(reg, &entry[T]{packed: true, defaultPack: def, writePacked: write, readPacked: read})
}

// Unregister removes T's codec.
func Unregister[T any](reg *Registry) {
	reg.mu.Lock()
	delete(reg.entries, reflect.TypeFor[T]())
	reg.mu.Unlock()
}

func lookup[T any](reg *Registry) (*entry[T], bool) {
	reg.mu.RLock()
	e, ok := reg.entries[reflect.TypeFor[T]()]
	reg.mu.RUnlock()
	if !ok {
		return nil, false
	}
	typed, ok := e.(*entry[T])
	return typed, ok
}

// HasCodec reports whether Write[T] would find a codec in reg, counting the
// Packable and network reference fallbacks.
func HasCodec[T any](reg *Registry) bool {
	if _, ok := lookup[T](reg); ok {
		return true
	}
	_, ok := fallbackWriter[T]()
	return ok
}

// IsPackAware reports whether T's registered codec takes a pack mode, and its default.
func IsPackAware[T any](reg *Registry) (bool, types.AutoPackType) {
	e, ok := lookup[T](reg)
	if !ok || !e.packed {
		return false, types.Unpacked
	}
	return true, e.defaultPack
}

var (
	packableType      = reflect.TypeFor[Packable]()
	unpackableType    = reflect.TypeFor[Unpackable]()
	networkObjectType = reflect.TypeFor[NetworkObject]()
	networkBehavType  = reflect.TypeFor[NetworkBehaviour]()
)

// fallbackWriter covers types that describe their own encoding, and network
// references, when the table has no entry.
func fallbackWriter[T any]() (WriteFunc[T], bool) {
	t := reflect.TypeFor[T]()
	switch {
	case t.Implements(packableType):
		return func(w *Writer, v T) error {
			p, ok := any(v).(Packable)
			if !ok || isNil(p) {
				return errors.Wrapf(ErrNilValue, "Write: %s", t)
			}
			return p.PackInto(w)
		}, true
	case t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface && reflect.PointerTo(t).Implements(packableType):
		return func(w *Writer, v T) error {
			return any(&v).(Packable).PackInto(w)
		}, true
	case t.Implements(networkBehavType):
		return func(w *Writer, v T) error {
			b, _ := any(v).(NetworkBehaviour)
			w.WriteNetworkBehaviour(b)
			return nil
		}, true
	case t.Implements(networkObjectType):
		return func(w *Writer, v T) error {
			obj, _ := any(v).(NetworkObject)
			w.WriteNetworkObject(obj)
			return nil
		}, true
	}
	return nil, false
}

func fallbackReader[T any]() (ReadFunc[T], bool) {
	t := reflect.TypeFor[T]()
	switch {
	case t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface && reflect.PointerTo(t).Implements(unpackableType):
		return func(r *Reader) (T, error) {
			var v T
			err := any(&v).(Unpackable).UnpackFrom(r)
			return v, err
		}, true
	case t.Kind() == reflect.Pointer && t.Implements(unpackableType):
		return func(r *Reader) (T, error) {
			v := reflect.New(t.Elem()).Interface().(T)
			err := any(v).(Unpackable).UnpackFrom(r)
			return v, err
		}, true
	case t.Implements(networkBehavType):
		return func(r *Reader) (T, error) {
			var zero T
			res, err := r.resolver("Read " + t.String())
			if err != nil {
				return zero, err
			}
			b, err := r.ReadNetworkBehaviour(res)
			if err != nil || b == nil {
				return zero, err
			}
			return castResolved[T](b, t)
		}, true
	case t.Implements(networkObjectType):
		return func(r *Reader) (T, error) {
			var zero T
			res, err := r.resolver("Read " + t.String())
			if err != nil {
				return zero, err
			}
			obj, err := r.ReadNetworkObject(res)
			if err != nil || obj == nil {
				return zero, err
			}
			return castResolved[T](obj, t)
		}, true
	}
	return nil, false
}

func castResolved[T any](v any, t reflect.Type) (T, error) {
	typed, ok := v.(T)
	if !ok {
		var zero T
		return zero, errors.Wrapf(ErrUnknownObject, "resolved %T is not %s", v, t)
	}
	return typed, nil
}

// resolveWriter picks the codec Write[T] will use, writing nothing. A missing
// codec is logged and reported as ErrCodecNotRegistered.
func resolveWriter[T any](w *Writer) (WriteFunc[T], error) {
	if e, ok := lookup[T](w.codecs()); ok {
		if e.packed {
			pack := e.defaultPack
			return func(w *Writer, v T) error { return e.writePacked(w, v, pack) }, nil
		}
		return e.write, nil
	}
	if f, ok := fallbackWriter[T](); ok {
		return f, nil
	}
	t := reflect.TypeFor[T]()
	w.log().Error("no codec registered for type, nothing written", zap.Stringer("type", t))
	return nil, errors.Wrapf(ErrCodecNotRegistered, "Write: %s", t)
}

func resolveReader[T any](r *Reader) (ReadFunc[T], error) {
	if e, ok := lookup[T](r.codecs()); ok {
		if e.packed && e.readPacked != nil {
			pack := e.defaultPack
			return func(r *Reader) (T, error) { return e.readPacked(r, pack) }, nil
		}
		if !e.packed && e.read != nil {
			return e.read, nil
		}
	} else if f, ok := fallbackReader[T](); ok {
		return f, nil
	}
	t := reflect.TypeFor[T]()
	r.log().Error("no codec registered for type, nothing read", zap.Stringer("type", t))
	return nil, errors.Wrapf(ErrCodecNotRegistered, "Read: %s", t)
}

// Write encodes v with the codec registered for T. Pack-aware types use
// their default pack mode. When no codec exists, no bytes are written and
// the error matches ErrCodecNotRegistered.
func Write[T any](w *Writer, v T) error {
	write, err := resolveWriter[T](w)
	if err != nil {
		return err
	}
	return write(w, v)
}

// WritePacked is Write with an explicit pack mode. Types whose codec takes
// no pack mode ignore it.
func WritePacked[T any](w *Writer, v T, pack types.AutoPackType) error {
	if e, ok := lookup[T](w.codecs()); ok && e.packed {
		return e.writePacked(w, v, pack)
	}
	return Write(w, v)
}

// Read decodes a T with the codec registered for T.
func Read[T any](r *Reader) (T, error) {
	read, err := resolveReader[T](r)
	if err != nil {
		var zero T
		return zero, err
	}
	return read(r)
}

// ReadPacked mirrors WritePacked.
func ReadPacked[T any](r *Reader, pack types.AutoPackType) (T, error) {
	if e, ok := lookup[T](r.codecs()); ok && e.packed && e.readPacked != nil {
		return e.readPacked(r, pack)
	}
	return Read[T](r)
}

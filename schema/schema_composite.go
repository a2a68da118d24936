package schema

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/quickwritereader/PackNet/access"
	"github.com/quickwritereader/PackNet/types"
)

// SchemaTuple is a fixed sequence of values written back to back, which is
// how packed RPC arguments appear on the wire. Named tuples decode to an
// ordered map, unnamed ones to []any.
type SchemaTuple struct {
	Schemas    []Schema
	FieldNames []string
}

func STuple(schemas ...Schema) SchemaTuple {
	return SchemaTuple{Schemas: schemas}
}

func STupleNamed(names []string, schemas ...Schema) SchemaTuple {
	return SchemaTuple{Schemas: schemas, FieldNames: names}
}

func (s SchemaTuple) IsNullable() bool { return false }

func (s SchemaTuple) named() bool { return len(s.FieldNames) > 0 }

func (s SchemaTuple) field(i int) string {
	if i < len(s.FieldNames) {
		return s.FieldNames[i]
	}
	return fmt.Sprintf("#%d", i)
}

func (s SchemaTuple) Validate(r *access.Reader) error {
	for i, schema := range s.Schemas {
		if err := schema.Validate(r); err != nil {
			return errors.Wrapf(err, "%s %s", SchemaTupleName, s.field(i))
		}
	}
	return nil
}

func (s SchemaTuple) Decode(r *access.Reader) (any, error) {
	if s.named() && len(s.FieldNames) != len(s.Schemas) {
		return nil, NewSchemaError(ErrConstraintViolated, SchemaTupleName, "", r.Position(),
			SizeExact{Exact: len(s.Schemas), Actual: len(s.FieldNames)})
	}
	vals := make([]any, len(s.Schemas))
	for i, schema := range s.Schemas {
		v, err := schema.Decode(r)
		if err != nil {
			return nil, errors.Wrapf(err, "%s %s", SchemaTupleName, s.field(i))
		}
		vals[i] = v
	}
	if !s.named() {
		return vals, nil
	}
	om := types.NewOrderedMapAny()
	for i, v := range vals {
		om.Set(s.FieldNames[i], v)
	}
	return om, nil
}

func (s SchemaTuple) Encode(w *access.Writer, val any) error {
	if s.named() {
		get, ok := fieldGetter(val)
		if !ok {
			return NewSchemaError(ErrEncode, SchemaTupleName, "", w.Position(), ErrTypeMismatch)
		}
		return encodeFields(w, SchemaTupleName, s.FieldNames, s.Schemas, get)
	}
	vals, ok := val.([]any)
	if !ok {
		return NewSchemaError(ErrEncode, SchemaTupleName, "", w.Position(), ErrTypeMismatch)
	}
	if len(vals) != len(s.Schemas) {
		return NewSchemaError(ErrEncode, SchemaTupleName, "", w.Position(),
			SizeExact{Exact: len(s.Schemas), Actual: len(vals)})
	}
	for i, schema := range s.Schemas {
		if err := schema.Encode(w, vals[i]); err != nil {
			return NewSchemaError(ErrEncode, SchemaTupleName, s.field(i), w.Position(), err)
		}
	}
	return nil
}

// countRange bounds the element count of lists and dictionaries.
type countRange struct {
	Min *int64
	Max *int64
}

func (c countRange) check(name string, n, pos int) error {
	if err := CheckRange(int64(n), c.Min, c.Max); err != nil {
		return NewSchemaError(ErrConstraintViolated, name, "", pos, err)
	}
	return nil
}

// SchemaList is a presence byte, a count and that many elements, as written
// by access.WriteList.
type SchemaList struct {
	Elem     Schema
	Nullable bool
	countRange
}

func SList(elem Schema) SchemaList {
	return SchemaList{Elem: elem}
}

func (s SchemaList) Optional() SchemaList {
	s.Nullable = true
	return s
}

func (s SchemaList) Count(min, max *int64) SchemaList {
	s.Min, s.Max = min, max
	return s
}

func (s SchemaList) IsNullable() bool { return s.Nullable }

func (s SchemaList) Validate(r *access.Reader) error {
	pos := r.Position()
	n, null, err := s.header(r)
	if err != nil || null {
		return err
	}
	for i := 0; i < n; i++ {
		if err := s.Elem.Validate(r); err != nil {
			return errors.Wrapf(err, "%s element %d at %d", SchemaListName, i, pos)
		}
	}
	return nil
}

func (s SchemaList) header(r *access.Reader) (n int, null bool, err error) {
	pos := r.Position()
	n, null, err = r.ReadCollectionHeader()
	if err != nil {
		return 0, false, readError(SchemaListName, "", pos, err)
	}
	if null {
		if !s.Nullable {
			return 0, false, NewSchemaError(ErrConstraintViolated, SchemaListName, "", pos, access.ErrNilValue)
		}
		return 0, true, nil
	}
	return n, false, s.check(SchemaListName, n, pos)
}

func (s SchemaList) Decode(r *access.Reader) (any, error) {
	n, null, err := s.header(r)
	if err != nil || null {
		return nil, err
	}
	// every element takes at least one byte
	out := make([]any, 0, min(n, r.Remaining()))
	for i := 0; i < n; i++ {
		v, err := s.Elem.Decode(r)
		if err != nil {
			return nil, errors.Wrapf(err, "%s element %d", SchemaListName, i)
		}
		out = append(out, v)
	}
	return out, nil
}

// Encode accepts any slice or array, or nil for a nullable list.
func (s SchemaList) Encode(w *access.Writer, val any) error {
	rv := reflect.ValueOf(val)
	if val == nil || (rv.Kind() == reflect.Slice && rv.IsNil()) {
		if !s.Nullable {
			return NewSchemaError(ErrEncode, SchemaListName, "", w.Position(), access.ErrNilValue)
		}
		w.WriteCollectionHeader(true, 0)
		return nil
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return NewSchemaError(ErrEncode, SchemaListName, "", w.Position(), ErrTypeMismatch)
	}
	n := rv.Len()
	if err := s.check(SchemaListName, n, w.Position()); err != nil {
		return err
	}
	w.WriteCollectionHeader(false, n)
	for i := 0; i < n; i++ {
		if err := s.Elem.Encode(w, rv.Index(i).Interface()); err != nil {
			return NewSchemaError(ErrEncode, SchemaListName, fmt.Sprintf("#%d", i), w.Position(), err)
		}
	}
	return nil
}

// SchemaDictionary mirrors access.WriteDictionary. Entries decode into a
// *types.OrderedMap[any, any] in wire order, so a decoded payload can be
// re-encoded to the same bytes.
type SchemaDictionary struct {
	Key      Schema
	Value    Schema
	Nullable bool
	countRange
}

func SDictionary(key, value Schema) SchemaDictionary {
	return SchemaDictionary{Key: key, Value: value}
}

func (s SchemaDictionary) Optional() SchemaDictionary {
	s.Nullable = true
	return s
}

func (s SchemaDictionary) Count(min, max *int64) SchemaDictionary {
	s.Min, s.Max = min, max
	return s
}

func (s SchemaDictionary) IsNullable() bool { return s.Nullable }

func (s SchemaDictionary) Validate(r *access.Reader) error {
	_, err := s.Decode(r)
	return err
}

func (s SchemaDictionary) Decode(r *access.Reader) (any, error) {
	pos := r.Position()
	n, null, err := r.ReadCollectionHeader()
	if err != nil {
		return nil, readError(SchemaDictionaryName, "", pos, err)
	}
	if null {
		if !s.Nullable {
			return nil, NewSchemaError(ErrConstraintViolated, SchemaDictionaryName, "", pos, access.ErrNilValue)
		}
		return nil, nil
	}
	if err := s.check(SchemaDictionaryName, n, pos); err != nil {
		return nil, err
	}
	om := types.NewOrderedMap[any, any]()
	for i := 0; i < n; i++ {
		kpos := r.Position()
		k, err := s.Key.Decode(r)
		if err != nil {
			return nil, errors.Wrapf(err, "%s key %d", SchemaDictionaryName, i)
		}
		if k != nil && !reflect.TypeOf(k).Comparable() {
			return nil, NewSchemaError(ErrInvalidFormat, SchemaDictionaryName, fmt.Sprintf("key %d", i), kpos, ErrUnsupportedType)
		}
		v, err := s.Value.Decode(r)
		if err != nil {
			return nil, errors.Wrapf(err, "%s value %d", SchemaDictionaryName, i)
		}
		om.Set(k, v)
	}
	return om, nil
}

// Encode accepts a Go map, a *types.OrderedMap[any, any] or a
// *types.OrderedMapAny. Go maps are written in iteration order.
func (s SchemaDictionary) Encode(w *access.Writer, val any) error {
	type entry struct{ k, v any }
	var (
		entries []entry
		isNil   bool
	)
	switch m := val.(type) {
	case nil:
		isNil = true
	case *types.OrderedMap[any, any]:
		isNil = m == nil
		if !isNil {
			for k, v := range m.All() {
				entries = append(entries, entry{k, v})
			}
		}
	case *types.OrderedMapAny:
		isNil = m == nil
		if !isNil {
			for k, v := range m.All() {
				entries = append(entries, entry{k, v})
			}
		}
	default:
		rv := reflect.ValueOf(val)
		if rv.Kind() != reflect.Map {
			return NewSchemaError(ErrEncode, SchemaDictionaryName, "", w.Position(), ErrTypeMismatch)
		}
		isNil = rv.IsNil()
		for it := rv.MapRange(); it.Next(); {
			entries = append(entries, entry{it.Key().Interface(), it.Value().Interface()})
		}
	}
	if isNil {
		if !s.Nullable {
			return NewSchemaError(ErrEncode, SchemaDictionaryName, "", w.Position(), access.ErrNilValue)
		}
		w.WriteCollectionHeader(true, 0)
		return nil
	}
	if err := s.check(SchemaDictionaryName, len(entries), w.Position()); err != nil {
		return err
	}
	w.WriteCollectionHeader(false, len(entries))
	for i, e := range entries {
		if err := s.Key.Encode(w, e.k); err != nil {
			return NewSchemaError(ErrEncode, SchemaDictionaryName, fmt.Sprintf("key %d", i), w.Position(), err)
		}
		if err := s.Value.Encode(w, e.v); err != nil {
			return NewSchemaError(ErrEncode, SchemaDictionaryName, fmt.Sprintf("value %v", e.k), w.Position(), err)
		}
	}
	return nil
}

// SchemaNullable wraps any schema in the presence byte written by
// access.WriteNullable.
type SchemaNullable struct {
	Inner Schema
}

func SNullable(inner Schema) SchemaNullable {
	return SchemaNullable{Inner: inner}
}

func (s SchemaNullable) IsNullable() bool { return true }

func (s SchemaNullable) Validate(r *access.Reader) error {
	pos := r.Position()
	isNil, err := r.ReadBool()
	if err != nil {
		return readError(SchemaNullableName, "", pos, err)
	}
	if isNil {
		return nil
	}
	return s.Inner.Validate(r)
}

func (s SchemaNullable) Decode(r *access.Reader) (any, error) {
	pos := r.Position()
	isNil, err := r.ReadBool()
	if err != nil {
		return nil, readError(SchemaNullableName, "", pos, err)
	}
	if isNil {
		return nil, nil
	}
	return s.Inner.Decode(r)
}

func (s SchemaNullable) Encode(w *access.Writer, val any) error {
	isNil := val == nil
	if !isNil {
		rv := reflect.ValueOf(val)
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				isNil = true
			} else {
				val = rv.Elem().Interface()
			}
		}
	}
	w.WriteBool(isNil)
	if isNil {
		return nil
	}
	return s.Inner.Encode(w, val)
}

// SchemaEnum is a packed int32 index into Names. -1 is null and only
// accepted when Nullable is set.
type SchemaEnum struct {
	Names    []string
	Nullable bool
}

func SEnum(names ...string) SchemaEnum {
	return SchemaEnum{Names: names}
}

func (s SchemaEnum) Optional() SchemaEnum {
	s.Nullable = true
	return s
}

func (s SchemaEnum) IsNullable() bool { return s.Nullable }

func (s SchemaEnum) Validate(r *access.Reader) error {
	return validateByDecode(s, r)
}

func (s SchemaEnum) Decode(r *access.Reader) (any, error) {
	pos := r.Position()
	idx, err := r.ReadInt32(types.Packed)
	if err != nil {
		return nil, readError(SchemaEnumName, "", pos, err)
	}
	if idx == -1 && s.Nullable {
		return nil, nil
	}
	if idx < 0 || int(idx) >= len(s.Names) {
		return nil, NewSchemaError(ErrOutOfRange, SchemaEnumName, "", pos,
			RangeErrorDetails[int32]{Min: Ptr(int32(0)), Max: Ptr(int32(len(s.Names) - 1)), Actual: idx})
	}
	return s.Names[idx], nil
}

// Encode accepts a name from Names or its index.
func (s SchemaEnum) Encode(w *access.Writer, val any) error {
	if val == nil {
		if !s.Nullable {
			return NewSchemaError(ErrEncode, SchemaEnumName, "", w.Position(), access.ErrNilValue)
		}
		w.WriteInt32(-1, types.Packed)
		return nil
	}
	var idx int
	if name, ok := val.(string); ok {
		idx = slices.Index(s.Names, name)
		if idx < 0 {
			return NewSchemaError(ErrEncode, SchemaEnumName, "", w.Position(),
				StringErrorDetails{Actual: name, Expected: fmt.Sprint(s.Names)})
		}
	} else if i, ok := convertToInt(val); ok && i >= 0 && i < int64(len(s.Names)) {
		idx = int(i)
	} else {
		return NewSchemaError(ErrEncode, SchemaEnumName, "", w.Position(), ErrTypeMismatch)
	}
	w.WriteInt32(int32(idx), types.Packed)
	return nil
}

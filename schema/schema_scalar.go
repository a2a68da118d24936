package schema

import (
	"math"
	"reflect"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/quickwritereader/PackNet/access"
	"github.com/quickwritereader/PackNet/types"
)

// SchemaScalar covers every single-number kind. Integer kinds honour Min and
// Max, float kinds honour FMin and FMax.
type SchemaScalar struct {
	K        types.Kind
	Pack     types.AutoPackType
	Nullable bool
	Min      *int64
	Max      *int64
	FMin     *float64
	FMax     *float64
}

type intShape struct {
	signed bool
	bits   int
}

var intKinds = map[types.Kind]intShape{
	types.KindUint8:    {false, 8},
	types.KindInt8:     {true, 8},
	types.KindUint16:   {false, 16},
	types.KindInt16:    {true, 16},
	types.KindUint32:   {false, 32},
	types.KindInt32:    {true, 32},
	types.KindUint64:   {false, 64},
	types.KindInt64:    {true, 64},
	types.KindDuration: {true, 64},
}

var (
	SBool     = SchemaScalar{K: types.KindBool}
	SUint8    = SchemaScalar{K: types.KindUint8}
	SInt8     = SchemaScalar{K: types.KindInt8}
	SUint16   = SchemaScalar{K: types.KindUint16, Pack: types.Packed}
	SInt16    = SchemaScalar{K: types.KindInt16, Pack: types.Packed}
	SUint32   = SchemaScalar{K: types.KindUint32, Pack: types.Packed}
	SInt32    = SchemaScalar{K: types.KindInt32, Pack: types.Packed}
	SUint64   = SchemaScalar{K: types.KindUint64, Pack: types.Packed}
	SInt64    = SchemaScalar{K: types.KindInt64, Pack: types.Packed}
	SFloat32  = SchemaScalar{K: types.KindFloat32, Pack: types.Unpacked}
	SFloat64  = SchemaScalar{K: types.KindFloat64, Pack: types.Unpacked}
	SChar     = SchemaScalar{K: types.KindChar}
	SDuration = SchemaScalar{K: types.KindDuration, Pack: types.Packed}
)

var scalarKinds = map[types.Kind]SchemaScalar{
	types.KindBool:     SBool,
	types.KindUint8:    SUint8,
	types.KindInt8:     SInt8,
	types.KindUint16:   SUint16,
	types.KindInt16:    SInt16,
	types.KindUint32:   SUint32,
	types.KindInt32:    SInt32,
	types.KindUint64:   SUint64,
	types.KindInt64:    SInt64,
	types.KindFloat32:  SFloat32,
	types.KindFloat64:  SFloat64,
	types.KindChar:     SChar,
	types.KindDuration: SDuration,
}

// SType returns the plain schema for a kind that needs no parameters.
func SType(k types.Kind) (Schema, bool) {
	if s, ok := scalarKinds[k]; ok {
		return s, true
	}
	if g, ok := geometryKinds[k]; ok {
		return g, true
	}
	switch k {
	case types.KindString:
		return SString, true
	case types.KindBytes:
		return SVariableBytes(), true
	case types.KindTime:
		return SDate, true
	case types.KindObjectRef:
		return SObjectRef, true
	case types.KindBehaviourRef:
		return SBehaviourRef, true
	}
	return nil, false
}

func (s SchemaScalar) WithPack(pack types.AutoPackType) SchemaScalar {
	s.Pack = pack
	return s
}

func (s SchemaScalar) Optional() SchemaScalar {
	s.Nullable = true
	return s
}

func (s SchemaScalar) RangeValues(min, max int64) SchemaScalar {
	return s.Range(&min, &max)
}

func (s SchemaScalar) Range(min, max *int64) SchemaScalar {
	s.Min, s.Max = min, max
	return s
}

func (s SchemaScalar) FloatRange(min, max *float64) SchemaScalar {
	s.FMin, s.FMax = min, max
	return s
}

// IsNullable reports whether nil encodes as a presence byte. Nullable scalars
// are prefixed with the same presence byte WriteNullable uses.
func (s SchemaScalar) IsNullable() bool { return s.Nullable }

func (s SchemaScalar) Validate(r *access.Reader) error {
	return validateByDecode(s, r)
}

func (s SchemaScalar) Decode(r *access.Reader) (any, error) {
	pos := r.Position()
	if s.Nullable {
		isNil, err := r.ReadBool()
		if err != nil {
			return nil, readError(SchemaScalarName, s.K.String(), pos, err)
		}
		if isNil {
			return nil, nil
		}
	}
	v, err := s.decodeValue(r)
	if err != nil {
		return nil, readError(SchemaScalarName, s.K.String(), pos, err)
	}
	if err := s.check(v); err != nil {
		return nil, NewSchemaError(ErrOutOfRange, SchemaScalarName, s.K.String(), pos, err)
	}
	return v, nil
}

func (s SchemaScalar) decodeValue(r *access.Reader) (any, error) {
	switch s.K {
	case types.KindBool:
		return r.ReadBool()
	case types.KindUint8:
		return r.ReadUint8()
	case types.KindInt8:
		return r.ReadInt8()
	case types.KindUint16:
		return r.ReadUint16(s.Pack)
	case types.KindInt16:
		return r.ReadInt16(s.Pack)
	case types.KindUint32:
		return r.ReadUint32(s.Pack)
	case types.KindInt32:
		return r.ReadInt32(s.Pack)
	case types.KindUint64:
		return r.ReadUint64(s.Pack)
	case types.KindInt64:
		return r.ReadInt64(s.Pack)
	case types.KindDuration:
		v, err := r.ReadInt64(s.Pack)
		return time.Duration(v), err
	case types.KindFloat32:
		return r.ReadFloat32(s.Pack)
	case types.KindFloat64:
		return r.ReadFloat64(s.Pack)
	case types.KindChar:
		return r.ReadChar()
	}
	return nil, ErrUnsupportedType
}

// check applies the configured bounds to a decoded or converted value.
func (s SchemaScalar) check(v any) error {
	if s.Min == nil && s.Max == nil && s.FMin == nil && s.FMax == nil {
		return nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return CheckRange(rv.Int(), s.Min, s.Max)
	case reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			if s.Max != nil {
				return RangeErrorDetails[uint64]{Actual: u, Max: Ptr(uint64(*s.Max))}
			}
			return nil
		}
		return CheckRange(int64(u), s.Min, s.Max)
	case reflect.Float32, reflect.Float64:
		return CheckRange(rv.Float(), s.FMin, s.FMax)
	}
	return nil
}

func (s SchemaScalar) Encode(w *access.Writer, val any) error {
	if s.Nullable {
		w.WriteBool(val == nil)
		if val == nil {
			return nil
		}
	} else if val == nil {
		return NewSchemaError(ErrEncode, SchemaScalarName, s.K.String(), w.Position(), ErrTypeMismatch)
	}
	v, ok := s.convert(val)
	if !ok {
		return NewSchemaError(ErrEncode, SchemaScalarName, s.K.String(), w.Position(), ErrTypeMismatch)
	}
	if err := s.check(v); err != nil {
		return NewSchemaError(ErrOutOfRange, SchemaScalarName, s.K.String(), w.Position(), err)
	}
	if s.K == types.KindChar {
		w.WriteChar(v.(rune))
		return nil
	}
	switch x := v.(type) {
	case bool:
		w.WriteBool(x)
	case uint8:
		w.WriteUint8(x)
	case int8:
		w.WriteInt8(x)
	case uint16:
		w.WriteUint16(x, s.Pack)
	case int16:
		w.WriteInt16(x, s.Pack)
	case uint32:
		w.WriteUint32(x, s.Pack)
	case int32:
		w.WriteInt32(x, s.Pack)
	case uint64:
		w.WriteUint64(x, s.Pack)
	case int64:
		w.WriteInt64(x, s.Pack)
	case time.Duration:
		w.WriteInt64(int64(x), s.Pack)
	case float32:
		w.WriteFloat32(x, s.Pack)
	case float64:
		w.WriteFloat64(x, s.Pack)
	}
	return nil
}

// convert turns val into the Go type this kind decodes to. Numbers of any
// width convert when the value fits, so values parsed from JSON encode too.
func (s SchemaScalar) convert(val any) (any, bool) {
	switch s.K {
	case types.KindBool:
		b, ok := val.(bool)
		return b, ok
	case types.KindChar:
		switch c := val.(type) {
		case rune:
			return c, true
		case string:
			r, size := utf8.DecodeRuneInString(c)
			return r, size > 0 && size == len(c) && r != utf8.RuneError
		}
		i, ok := convertToInt(val)
		if !ok || i < 0 || i > utf8.MaxRune {
			return nil, false
		}
		return rune(i), true
	case types.KindFloat32:
		f, ok := convertToFloat(val)
		if !ok || (!math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32) {
			return nil, false
		}
		return float32(f), true
	case types.KindFloat64:
		f, ok := convertToFloat(val)
		return f, ok
	}
	shape, ok := intKinds[s.K]
	if !ok {
		return nil, false
	}
	if d, isDur := val.(time.Duration); isDur {
		val = int64(d)
	}
	if shape.signed {
		i, ok := convertToInt(val)
		if !ok || i < -(1<<(shape.bits-1)) || i > 1<<(shape.bits-1)-1 {
			return nil, false
		}
		switch s.K {
		case types.KindInt8:
			return int8(i), true
		case types.KindInt16:
			return int16(i), true
		case types.KindInt32:
			return int32(i), true
		case types.KindDuration:
			return time.Duration(i), true
		}
		return i, true
	}
	u, ok := convertToUint(val)
	if !ok || (shape.bits < 64 && u > 1<<shape.bits-1) {
		return nil, false
	}
	switch s.K {
	case types.KindUint8:
		return uint8(u), true
	case types.KindUint16:
		return uint16(u), true
	case types.KindUint32:
		return uint32(u), true
	}
	return u, true
}

func convertToInt(val any) (int64, bool) {
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		return int64(u), u <= math.MaxInt64
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	case reflect.String:
		i, err := strconv.ParseInt(rv.String(), 10, 64)
		return i, err == nil
	}
	return 0, false
}

func convertToUint(val any) (uint64, bool) {
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint(), true
	case reflect.String:
		u, err := strconv.ParseUint(rv.String(), 10, 64)
		return u, err == nil
	}
	i, ok := convertToInt(val)
	return uint64(i), ok && i >= 0
}

func convertToFloat(val any) (float64, bool) {
	rv := reflect.ValueOf(val)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.String:
		f, err := strconv.ParseFloat(rv.String(), 64)
		return f, err == nil
	}
	return 0, false
}

// SchemaDate is a time written by WriteTime, optionally bounded.
type SchemaDate struct {
	Nullable bool
	From     *time.Time
	To       *time.Time
}

var SDate = SchemaDate{}

func (s SchemaDate) DateRange(from, to *time.Time) SchemaDate {
	s.From, s.To = from, to
	return s
}

func (s SchemaDate) Optional() SchemaDate {
	s.Nullable = true
	return s
}

func (s SchemaDate) IsNullable() bool { return s.Nullable }

func (s SchemaDate) Validate(r *access.Reader) error {
	return validateByDecode(s, r)
}

func (s SchemaDate) Decode(r *access.Reader) (any, error) {
	pos := r.Position()
	if s.Nullable {
		isNil, err := r.ReadBool()
		if err != nil {
			return nil, readError(SchemaDateName, "", pos, err)
		}
		if isNil {
			return nil, nil
		}
	}
	t, err := r.ReadTime()
	if err != nil {
		return nil, readError(SchemaDateName, "", pos, err)
	}
	if err := s.check(t); err != nil {
		return nil, NewSchemaError(ErrDateOutOfRange, SchemaDateName, "", pos, err)
	}
	return t, nil
}

func (s SchemaDate) check(t time.Time) error {
	if (s.From != nil && t.Before(*s.From)) || (s.To != nil && t.After(*s.To)) {
		var min, max *int64
		if s.From != nil {
			min = Ptr(s.From.UnixNano())
		}
		if s.To != nil {
			max = Ptr(s.To.UnixNano())
		}
		return RangeErrorDetails[int64]{Min: min, Max: max, Actual: t.UnixNano()}
	}
	return nil
}

func (s SchemaDate) Encode(w *access.Writer, val any) error {
	if s.Nullable {
		w.WriteBool(val == nil)
		if val == nil {
			return nil
		}
	}
	var t time.Time
	switch v := val.(type) {
	case time.Time:
		t = v
	case *time.Time:
		if v == nil {
			return NewSchemaError(ErrEncode, SchemaDateName, "", w.Position(), ErrTypeMismatch)
		}
		t = *v
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return NewSchemaError(ErrEncode, SchemaDateName, "", w.Position(), err)
		}
		t = parsed
	default:
		return NewSchemaError(ErrEncode, SchemaDateName, "", w.Position(), ErrTypeMismatch)
	}
	if err := s.check(t); err != nil {
		return NewSchemaError(ErrDateOutOfRange, SchemaDateName, "", w.Position(), err)
	}
	w.WriteTime(t)
	return nil
}

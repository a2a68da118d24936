package schema

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/quickwritereader/PackNet/access"
	"github.com/quickwritereader/PackNet/types"
	"golang.org/x/text/language"
)

// SchemaGeometry is a fixed-layout geometric value. Values decode to the
// matching types struct.
type SchemaGeometry struct {
	K    types.Kind
	Pack types.AutoPackType
}

var (
	SVector2    = SchemaGeometry{K: types.KindVector2}
	SVector3    = SchemaGeometry{K: types.KindVector3}
	SVector4    = SchemaGeometry{K: types.KindVector4}
	SVector2Int = SchemaGeometry{K: types.KindVector2Int, Pack: types.Packed}
	SVector3Int = SchemaGeometry{K: types.KindVector3Int, Pack: types.Packed}
	SColor      = SchemaGeometry{K: types.KindColor, Pack: types.Packed}
	SColor32    = SchemaGeometry{K: types.KindColor32}
	SQuaternion = SchemaGeometry{K: types.KindQuaternion}
	SMatrix4x4  = SchemaGeometry{K: types.KindMatrix4x4}
	SRect       = SchemaGeometry{K: types.KindRect}
	SRay        = SchemaGeometry{K: types.KindRay}
	SPlane      = SchemaGeometry{K: types.KindPlane}
)

var geometryKinds = map[types.Kind]SchemaGeometry{
	types.KindVector2:    SVector2,
	types.KindVector3:    SVector3,
	types.KindVector4:    SVector4,
	types.KindVector2Int: SVector2Int,
	types.KindVector3Int: SVector3Int,
	types.KindColor:      SColor,
	types.KindColor32:    SColor32,
	types.KindQuaternion: SQuaternion,
	types.KindMatrix4x4:  SMatrix4x4,
	types.KindRect:       SRect,
	types.KindRay:        SRay,
	types.KindPlane:      SPlane,
}

func (s SchemaGeometry) WithPack(pack types.AutoPackType) SchemaGeometry {
	s.Pack = pack
	return s
}

func (s SchemaGeometry) IsNullable() bool { return false }

func (s SchemaGeometry) Validate(r *access.Reader) error {
	return validateByDecode(s, r)
}

func (s SchemaGeometry) Decode(r *access.Reader) (any, error) {
	pos := r.Position()
	var (
		v   any
		err error
	)
	switch s.K {
	case types.KindVector2:
		v, err = r.ReadVector2()
	case types.KindVector3:
		v, err = r.ReadVector3()
	case types.KindVector4:
		v, err = r.ReadVector4()
	case types.KindVector2Int:
		v, err = r.ReadVector2Int(s.Pack)
	case types.KindVector3Int:
		v, err = r.ReadVector3Int(s.Pack)
	case types.KindColor:
		v, err = r.ReadColor(s.Pack)
	case types.KindColor32:
		v, err = r.ReadColor32()
	case types.KindQuaternion:
		v, err = r.ReadQuaternion()
	case types.KindMatrix4x4:
		v, err = r.ReadMatrix4x4()
	case types.KindRect:
		v, err = r.ReadRect()
	case types.KindRay:
		v, err = r.ReadRay()
	case types.KindPlane:
		v, err = r.ReadPlane()
	default:
		err = ErrUnsupportedType
	}
	if err != nil {
		return nil, readError(SchemaGeometryName, s.K.String(), pos, err)
	}
	return v, nil
}

func (s SchemaGeometry) Encode(w *access.Writer, val any) error {
	ok := true
	switch s.K {
	case types.KindVector2:
		var v types.Vector2
		if v, ok = val.(types.Vector2); ok {
			w.WriteVector2(v)
		}
	case types.KindVector3:
		var v types.Vector3
		if v, ok = val.(types.Vector3); ok {
			w.WriteVector3(v)
		}
	case types.KindVector4:
		var v types.Vector4
		if v, ok = val.(types.Vector4); ok {
			w.WriteVector4(v)
		}
	case types.KindVector2Int:
		var v types.Vector2Int
		if v, ok = val.(types.Vector2Int); ok {
			w.WriteVector2Int(v, s.Pack)
		}
	case types.KindVector3Int:
		var v types.Vector3Int
		if v, ok = val.(types.Vector3Int); ok {
			w.WriteVector3Int(v, s.Pack)
		}
	case types.KindColor:
		var v types.Color
		if v, ok = val.(types.Color); ok {
			w.WriteColor(v, s.Pack)
		}
	case types.KindColor32:
		var v types.Color32
		if v, ok = val.(types.Color32); ok {
			w.WriteColor32(v)
		}
	case types.KindQuaternion:
		var v types.Quaternion
		if v, ok = val.(types.Quaternion); ok {
			w.WriteQuaternion(v)
		}
	case types.KindMatrix4x4:
		var v types.Matrix4x4
		if v, ok = val.(types.Matrix4x4); ok {
			w.WriteMatrix4x4(v)
		}
	case types.KindRect:
		var v types.Rect
		if v, ok = val.(types.Rect); ok {
			w.WriteRect(v)
		}
	case types.KindRay:
		var v types.Ray
		if v, ok = val.(types.Ray); ok {
			w.WriteRay(v)
		}
	case types.KindPlane:
		var v types.Plane
		if v, ok = val.(types.Plane); ok {
			w.WritePlane(v)
		}
	default:
		return NewSchemaError(ErrEncode, SchemaGeometryName, s.K.String(), w.Position(), ErrUnsupportedType)
	}
	if !ok {
		return NewSchemaError(ErrEncode, SchemaGeometryName, s.K.String(), w.Position(), ErrTypeMismatch)
	}
	return nil
}

type stringCheck struct {
	code     ErrorCode
	expected string
	test     func(string) bool
}

// SchemaString is a length-prefixed string. A null string is only accepted
// when Nullable is set, and checks are skipped for it.
type SchemaString struct {
	Nullable         bool
	Width            int // exact rune count, 0 for any
	MaxLen           int // byte length, 0 for any
	DefaultDecodeVal string
	checks           []stringCheck
}

var SString = SchemaString{}

func SVariableString() SchemaString {
	return SString.Optional()
}

func SStringExact(expected string) SchemaString {
	return SString.Match(expected)
}

func SStringLen(width int) SchemaString {
	return SString.WithWidth(width)
}

var (
	SEmail = SString.CheckFunc(ErrStringEmail, "email", func(s string) bool {
		addr, err := mail.ParseAddress(s)
		return err == nil && addr.Address == s
	})
	SURI = SString.CheckFunc(ErrStringURL, "uri", func(s string) bool {
		u, err := url.ParseRequestURI(s)
		return err == nil && u.Scheme != ""
	})
	SLang = SString.CheckFunc(ErrStringLang, "language tag", func(s string) bool {
		_, err := language.Parse(s)
		return err == nil
	})
)

func (s SchemaString) Optional() SchemaString {
	s.Nullable = true
	return s
}

func (s SchemaString) WithWidth(n int) SchemaString {
	s.Width = n
	return s
}

func (s SchemaString) WithMaxLen(n int) SchemaString {
	s.MaxLen = n
	return s
}

func (s SchemaString) DefaultDecodeValue(decodeDefault string) SchemaString {
	s.DefaultDecodeVal = decodeDefault
	return s
}

// CheckFunc adds a test every non-null value must pass. The receiver is
// not modified.
func (s SchemaString) CheckFunc(code ErrorCode, expected string, test func(payloadStr string) bool) SchemaString {
	checks := make([]stringCheck, len(s.checks), len(s.checks)+1)
	copy(checks, s.checks)
	s.checks = append(checks, stringCheck{code: code, expected: expected, test: test})
	return s
}

func (s SchemaString) Match(expected string) SchemaString {
	return s.CheckFunc(ErrStringMatch, expected,
		func(payloadStr string) bool { return payloadStr == expected })
}

func (s SchemaString) Prefix(prefix string) SchemaString {
	return s.CheckFunc(ErrStringPrefix, prefix+"*",
		func(payloadStr string) bool { return strings.HasPrefix(payloadStr, prefix) })
}

func (s SchemaString) Suffix(suffix string) SchemaString {
	return s.CheckFunc(ErrStringSuffix, "*"+suffix,
		func(payloadStr string) bool { return strings.HasSuffix(payloadStr, suffix) })
}

// Pattern panics if expr does not compile.
func (s SchemaString) Pattern(expr string) SchemaString {
	re := regexp.MustCompile(expr)
	return s.CheckFunc(ErrStringPattern, expr,
		func(payloadStr string) bool { return re.MatchString(payloadStr) })
}

func (s SchemaString) IsNullable() bool { return s.Nullable }

func (s SchemaString) Validate(r *access.Reader) error {
	return validateByDecode(s, r)
}

func (s SchemaString) Decode(r *access.Reader) (any, error) {
	pos := r.Position()
	p, err := r.ReadNullableString()
	if err != nil {
		return nil, readError(SchemaStringName, "", pos, err)
	}
	if p == nil {
		if !s.Nullable {
			return nil, NewSchemaError(ErrConstraintViolated, SchemaStringName, "", pos, access.ErrNilValue)
		}
		return nil, nil
	}
	str := *p
	if str == "" && s.DefaultDecodeVal != "" {
		str = s.DefaultDecodeVal
	}
	if err := s.check(str, pos); err != nil {
		return nil, err
	}
	return str, nil
}

func (s SchemaString) check(str string, pos int) error {
	if s.Width > 0 {
		if n := utf8.RuneCountInString(str); n != s.Width {
			return NewSchemaError(ErrConstraintViolated, SchemaStringName, "", pos, SizeExact{Exact: s.Width, Actual: n})
		}
	}
	if s.MaxLen > 0 && len(str) > s.MaxLen {
		return NewSchemaError(ErrConstraintViolated, SchemaStringName, "", pos,
			RangeErrorDetails[int]{Max: Ptr(s.MaxLen), Actual: len(str)})
	}
	for _, c := range s.checks {
		if !c.test(str) {
			return NewSchemaError(c.code, SchemaStringName, "", pos, StringErrorDetails{Actual: str, Expected: c.expected})
		}
	}
	return nil
}

func (s SchemaString) Encode(w *access.Writer, val any) error {
	var p *string
	switch v := val.(type) {
	case string:
		p = &v
	case *string:
		p = v
	case nil:
	default:
		return NewSchemaError(ErrEncode, SchemaStringName, "", w.Position(), ErrTypeMismatch)
	}
	if p == nil {
		if !s.Nullable {
			return NewSchemaError(ErrEncode, SchemaStringName, "", w.Position(), access.ErrNilValue)
		}
		w.WriteNullableString(nil)
		return nil
	}
	if err := s.check(*p, w.Position()); err != nil {
		return err
	}
	w.WriteString(*p)
	return nil
}

// SchemaBytes is a length-prefixed byte array, optionally of exact width.
type SchemaBytes struct {
	Nullable bool
	Width    int
}

func SBytes(width int) SchemaBytes { return SchemaBytes{Width: width} }

func SVariableBytes() SchemaBytes { return SchemaBytes{Nullable: true} }

func (s SchemaBytes) IsNullable() bool { return s.Nullable }

func (s SchemaBytes) Validate(r *access.Reader) error {
	return validateByDecode(s, r)
}

func (s SchemaBytes) Decode(r *access.Reader) (any, error) {
	pos := r.Position()
	b, err := r.ReadBytesAndSize()
	if err != nil {
		return nil, readError(SchemaBytesName, "", pos, err)
	}
	if err := s.check(b, pos); err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}
	return b, nil
}

func (s SchemaBytes) check(b []byte, pos int) error {
	if b == nil {
		if !s.Nullable {
			return NewSchemaError(ErrConstraintViolated, SchemaBytesName, "", pos, access.ErrNilValue)
		}
		return nil
	}
	if s.Width > 0 && len(b) != s.Width {
		return NewSchemaError(ErrConstraintViolated, SchemaBytesName, "", pos, SizeExact{Exact: s.Width, Actual: len(b)})
	}
	return nil
}

func (s SchemaBytes) Encode(w *access.Writer, val any) error {
	var b []byte
	switch v := val.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	case nil:
	default:
		return NewSchemaError(ErrEncode, SchemaBytesName, "", w.Position(), ErrTypeMismatch)
	}
	if err := s.check(b, w.Position()); err != nil {
		return err
	}
	w.WriteBytesAndSize(b)
	return nil
}

// RefValue is a decoded object or behaviour identity. Decoding through a
// schema never resolves identities to local objects.
type RefValue struct {
	ObjectID  int16
	Component uint8
}

// SchemaRef is a network object reference, or a behaviour reference when
// Behaviour is set. Null references decode as nil.
type SchemaRef struct {
	Behaviour bool
}

var (
	SObjectRef    = SchemaRef{}
	SBehaviourRef = SchemaRef{Behaviour: true}
)

func (s SchemaRef) kind() types.Kind {
	if s.Behaviour {
		return types.KindBehaviourRef
	}
	return types.KindObjectRef
}

func (s SchemaRef) IsNullable() bool { return true }

func (s SchemaRef) Validate(r *access.Reader) error {
	return validateByDecode(s, r)
}

func (s SchemaRef) Decode(r *access.Reader) (any, error) {
	pos := r.Position()
	var (
		ref RefValue
		ok  bool
		err error
	)
	if s.Behaviour {
		ref.ObjectID, ref.Component, ok, err = r.ReadNetworkBehaviourID()
	} else {
		ref.ObjectID, ok, err = r.ReadNetworkObjectID()
	}
	if err != nil {
		return nil, readError(SchemaRefName, s.kind().String(), pos, err)
	}
	if !ok {
		return nil, nil
	}
	return ref, nil
}

// Encode accepts nil, a RefValue, or a live NetworkObject / NetworkBehaviour.
func (s SchemaRef) Encode(w *access.Writer, val any) error {
	switch v := val.(type) {
	case nil:
		w.WriteInt16(access.NullObjectID, types.Unpacked)
	case RefValue:
		w.WriteInt16(v.ObjectID, types.Unpacked)
		if s.Behaviour && v.ObjectID != access.NullObjectID {
			w.WriteUint8(v.Component)
		}
	case access.NetworkBehaviour:
		if !s.Behaviour {
			w.WriteNetworkObject(v.NetworkObject())
			return nil
		}
		w.WriteNetworkBehaviour(v)
	case access.NetworkObject:
		if s.Behaviour {
			return NewSchemaError(ErrEncode, SchemaRefName, s.kind().String(), w.Position(), ErrTypeMismatch)
		}
		w.WriteNetworkObject(v)
	default:
		return NewSchemaError(ErrEncode, SchemaRefName, s.kind().String(), w.Position(), ErrTypeMismatch)
	}
	return nil
}

package schema

import (
	"github.com/cockroachdb/errors"
	"github.com/quickwritereader/PackNet/access"
	"github.com/quickwritereader/PackNet/types"
)

// Schema describes one value of a payload. The wire format carries no type
// tags, so a Schema is what gives a segment its shape when it is inspected
// outside the code that wrote it.
type Schema interface {
	Validate(r *access.Reader) error
	Decode(r *access.Reader) (any, error)
	Encode(w *access.Writer, val any) error
	IsNullable() bool
}

const (
	SchemaScalarName     = "SchemaScalar"
	SchemaStringName     = "SchemaString"
	SchemaBytesName      = "SchemaBytes"
	SchemaGeometryName   = "SchemaGeometry"
	SchemaRefName        = "SchemaRef"
	SchemaDateName       = "SchemaDate"
	SchemaTupleName      = "SchemaTuple"
	SchemaListName       = "SchemaList"
	SchemaDictionaryName = "SchemaDictionary"
	SchemaNullableName   = "SchemaNullable"
	SchemaEnumName       = "SchemaEnum"
	SchemaNamedChainName = "SchemaNamedChain"
	ChainName            = "SchemaChain"
)

func isEOF(err error) bool {
	return errors.Is(err, access.ErrUnexpectedEOF)
}

// validateByDecode is the Validate of schemas whose decode has no side
// effects other than advancing the reader.
func validateByDecode(s Schema, r *access.Reader) error {
	_, err := s.Decode(r)
	return err
}

type SchemaGeneric struct {
	ValidateFunc  func(r *access.Reader) error
	DecodeFunc    func(r *access.Reader) (any, error)
	EncodeFunc    func(w *access.Writer, val any) error
	NullableCheck func() bool
}

func (f SchemaGeneric) Validate(r *access.Reader) error {
	if f.ValidateFunc == nil {
		_, err := f.Decode(r)
		return err
	}
	return f.ValidateFunc(r)
}

func (f SchemaGeneric) Decode(r *access.Reader) (any, error) {
	if f.DecodeFunc == nil {
		return nil, errors.Wrap(ErrUnsupportedType, "SchemaGeneric: no decoder")
	}
	return f.DecodeFunc(r)
}

func (f SchemaGeneric) Encode(w *access.Writer, val any) error {
	if f.EncodeFunc == nil {
		return errors.Wrap(ErrUnsupportedType, "SchemaGeneric: no encoder")
	}
	return f.EncodeFunc(w, val)
}

func (f SchemaGeneric) IsNullable() bool {
	return f.NullableCheck != nil && f.NullableCheck()
}

type SchemaChain struct {
	Schemas []Schema
}

func SChain(schemas ...Schema) SchemaChain {
	return SchemaChain{Schemas: schemas}
}

func trailingError(name string, r *access.Reader) error {
	if r.Remaining() == 0 {
		return nil
	}
	return NewSchemaError(ErrInvalidFormat, name, "", r.Position(),
		SizeExact{Exact: r.Position(), Actual: r.Position() + r.Remaining()})
}

// ValidateBuffer checks that buf holds exactly the values chain describes.
func ValidateBuffer(buf []byte, chain SchemaChain, opts ...access.ReaderOption) error {
	r := access.NewReader(buf, opts...)
	for _, schema := range chain.Schemas {
		if err := schema.Validate(r); err != nil {
			return err
		}
	}
	return trailingError(ChainName, r)
}

// DecodeBuffer decodes buf by chain. A single-schema chain yields the bare
// value, longer chains yield []any.
func DecodeBuffer(buf []byte, chain SchemaChain, opts ...access.ReaderOption) (any, error) {
	r := access.NewReader(buf, opts...)
	out := make([]any, 0, len(chain.Schemas))
	for _, schema := range chain.Schemas {
		val, err := schema.Decode(r)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	if err := trailingError(ChainName, r); err != nil {
		return nil, err
	}
	if len(out) == 1 {
		return out[0], nil
	}
	return out, nil
}

// EncodeValue is the inverse of DecodeBuffer. The returned bytes are a copy
// and stay valid after the pooled writer is released.
func EncodeValue(val any, chain SchemaChain) ([]byte, error) {
	c := len(chain.Schemas)
	if c == 0 {
		return nil, nil
	}
	w := access.GetWriter()
	defer access.ReleaseWriter(w)
	if c == 1 {
		if err := chain.Schemas[0].Encode(w, val); err != nil {
			return nil, NewSchemaError(ErrEncode, ChainName, "", w.Position(), err)
		}
		return copySegment(w), nil
	}
	vals, ok := val.([]any)
	if !ok {
		return nil, NewSchemaError(ErrEncode, ChainName, "", -1, ErrTypeMismatch)
	}
	if len(vals) != c {
		return nil, NewSchemaError(ErrEncode, ChainName, "", -1, SizeExact{Exact: c, Actual: len(vals)})
	}
	for i, schema := range chain.Schemas {
		if err := schema.Encode(w, vals[i]); err != nil {
			return nil, NewSchemaError(ErrEncode, ChainName, "", w.Position(), err)
		}
	}
	return copySegment(w), nil
}

func copySegment(w *access.Writer) []byte {
	seg := w.GetArraySegment()
	out := make([]byte, len(seg))
	copy(out, seg)
	return out
}

type SchemaNamedChain struct {
	SchemaChain
	FieldNames []string
}

func SNamedChain(names []string, schemas ...Schema) SchemaNamedChain {
	return SchemaNamedChain{SchemaChain: SChain(schemas...), FieldNames: names}
}

func (chain SchemaNamedChain) check() error {
	if len(chain.FieldNames) != len(chain.Schemas) {
		return NewSchemaError(ErrConstraintViolated, SchemaNamedChainName, "", -1,
			SizeExact{Actual: len(chain.FieldNames), Exact: len(chain.Schemas)})
	}
	return nil
}

// DecodeBufferNamed decodes buf into an ordered map keyed by field name.
func DecodeBufferNamed(buf []byte, chain SchemaNamedChain, opts ...access.ReaderOption) (*types.OrderedMapAny, error) {
	if err := chain.check(); err != nil {
		return nil, err
	}
	r := access.NewReader(buf, opts...)
	out := types.NewOrderedMapAny()
	for i, schema := range chain.Schemas {
		val, err := schema.Decode(r)
		if err != nil {
			return nil, err
		}
		out.Set(chain.FieldNames[i], val)
	}
	if err := trailingError(SchemaNamedChainName, r); err != nil {
		return nil, err
	}
	return out, nil
}

// EncodeValueNamed encodes a map[string]any or *types.OrderedMapAny in field
// order. Missing fields are written as null when their schema allows it.
func EncodeValueNamed(val any, chain SchemaNamedChain) ([]byte, error) {
	if err := chain.check(); err != nil {
		return nil, err
	}
	get, ok := fieldGetter(val)
	if !ok {
		return nil, NewSchemaError(ErrEncode, SchemaNamedChainName, "", -1, ErrTypeMismatch)
	}
	w := access.GetWriter()
	defer access.ReleaseWriter(w)
	if err := encodeFields(w, SchemaNamedChainName, chain.FieldNames, chain.Schemas, get); err != nil {
		return nil, err
	}
	return copySegment(w), nil
}

func fieldGetter(val any) (func(string) (any, bool), bool) {
	switch m := val.(type) {
	case map[string]any:
		return func(k string) (any, bool) {
			v, ok := m[k]
			return v, ok
		}, true
	case *types.OrderedMapAny:
		if m == nil {
			return nil, false
		}
		return m.Get, true
	}
	return nil, false
}

func encodeFields(w *access.Writer, name string, names []string, schemas []Schema, get func(string) (any, bool)) error {
	for i, fn := range names {
		v, ok := get(fn)
		if !ok {
			if !schemas[i].IsNullable() {
				return NewSchemaError(ErrEncode, name, fn, w.Position(), MissingKeyErrorDetails{Key: fn})
			}
			v = nil
		}
		if err := schemas[i].Encode(w, v); err != nil {
			return NewSchemaError(ErrEncode, name, fn, w.Position(), err)
		}
	}
	return nil
}

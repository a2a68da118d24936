package schema

import (
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	gojson "github.com/goccy/go-json"
	jsoniter "github.com/json-iterator/go"
	"github.com/quickwritereader/PackNet/types"
)

type SchemaJSON struct {
	Type       string       `json:"type"`
	FieldNames []string     `json:"fieldNames,omitempty"`
	Schema     []SchemaJSON `json:"schema,omitempty"`
	Nullable   bool         `json:"nullable,omitempty"`
	Pack       string       `json:"pack,omitempty"`

	// Constraint helpers
	Width         int      `json:"width,omitempty"`
	MaxLen        int      `json:"maxLen,omitempty"`
	Min           *int64   `json:"min,omitempty"`
	Max           *int64   `json:"max,omitempty"`
	FloatMin      *float64 `json:"floatMin,omitempty"`
	FloatMax      *float64 `json:"floatMax,omitempty"`
	Exact         string   `json:"exact,omitempty"`
	Prefix        string   `json:"prefix,omitempty"`
	Suffix        string   `json:"suffix,omitempty"`
	Pattern       string   `json:"pattern,omitempty"`
	DateFrom      string   `json:"dateFrom,omitempty"`
	DateTo        string   `json:"dateTo,omitempty"`
	DecodeDefault string   `json:"decodeDefault,omitempty"`

	// Extra metadata for UI or other purposes
	Extra map[string]any `json:"extra,omitempty"`
}

var marshalConfig = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseSchemaJSON decodes a payload description.
func ParseSchemaJSON(data []byte) (*SchemaJSON, error) {
	js := &SchemaJSON{}
	if err := gojson.Unmarshal(data, js); err != nil {
		return nil, errors.Wrap(err, "ParseSchemaJSON")
	}
	return js, nil
}

// MarshalSchemaJSON is the inverse of ParseSchemaJSON.
func MarshalSchemaJSON(js *SchemaJSON) ([]byte, error) {
	return marshalConfig.Marshal(js)
}

func (js *SchemaJSON) String() string {
	b, err := marshalConfig.MarshalToString(js)
	if err != nil {
		return "<invalid schema: " + err.Error() + ">"
	}
	return b
}

// BuildSchemaFromJSON parses data and builds the schema it describes.
func BuildSchemaFromJSON(data []byte) (Schema, error) {
	js, err := ParseSchemaJSON(data)
	if err != nil {
		return nil, err
	}
	return BuildSchema(js)
}

// SchemaBuilder builds a custom Schema from its description.
type SchemaBuilder func(*SchemaJSON) (Schema, error)

var (
	customMu             sync.RWMutex
	customSchemaBuilders = map[string]SchemaBuilder{}
)

// builtinTypes are the names BuildSchema resolves without the kind table.
var builtinTypes = map[string]bool{
	"date": true, "email": true, "uri": true, "lang": true, "enum": true,
}

// RegisterSchemaType registers a custom Schema builder for a given type name.
//
// Usage:
//
//	schema.RegisterSchemaType("PlayerName", func(js *schema.SchemaJSON) (schema.Schema, error) {
//	    return schema.SString.WithMaxLen(32).Pattern(`^[A-Za-z0-9_]+$`), nil
//	})
//
// Type names are case-sensitive. Panics if the name is empty or already
// taken by a built-in or custom type.
func RegisterSchemaType(typeName string, builder SchemaBuilder) {
	if typeName == "" {
		panic("cannot register empty type name")
	}
	if _, isKind := types.ParseKind(typeName); isKind || builtinTypes[typeName] {
		panic("schema type is built in: " + typeName)
	}
	customMu.Lock()
	defer customMu.Unlock()
	if _, exists := customSchemaBuilders[typeName]; exists {
		panic("schema type already registered: " + typeName)
	}
	customSchemaBuilders[typeName] = builder
}

// UnregisterSchemaType removes a previously registered custom Schema builder.
// If the type name is not found, the function does nothing.
func UnregisterSchemaType(typeName string) {
	customMu.Lock()
	defer customMu.Unlock()
	delete(customSchemaBuilders, typeName)
}

func customBuilder(typeName string) (SchemaBuilder, bool) {
	customMu.RLock()
	defer customMu.RUnlock()
	b, ok := customSchemaBuilders[typeName]
	return b, ok
}

func parsePack(js *SchemaJSON, def types.AutoPackType) (types.AutoPackType, error) {
	switch strings.ToLower(js.Pack) {
	case "":
		return def, nil
	case "packed":
		return types.Packed, nil
	case "unpacked":
		return types.Unpacked, nil
	}
	return def, errors.Newf("%s: unknown pack mode %q", js.Type, js.Pack)
}

func parseDate(field, v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, errors.Wrapf(err, "date %s", field)
	}
	return &t, nil
}

// BuildSchema constructs a Schema from its description.
//
// Type names are the wire kind names of types.Kind ("int32", "vector3",
// "string", "bytes", "time", "objectref", "tuple", "list", "dictionary",
// "nullable", ...) plus:
//
//   - "date"  → SDate with optional DateFrom/DateTo (RFC3339)
//   - "email" → SEmail
//   - "uri"   → SURI
//   - "lang"  → SLang
//   - "enum"  → SEnum over FieldNames
//
// Names that match neither are looked up among types registered with
// RegisterSchemaType. Unknown names return ErrUnknownSchema.
//
// Notes:
//   - Min/Max bound integers and the element count of lists and dictionaries.
//   - FloatMin/FloatMax bound floats.
//   - "dictionary" takes exactly two nested schemas, key then value.
//   - "nullable" takes exactly one nested schema.
//   - Named tuples need as many FieldNames as nested schemas.
func BuildSchema(js *SchemaJSON) (Schema, error) {
	if js == nil {
		return nil, errors.New("BuildSchema: nil schema")
	}
	switch js.Type {
	case "date":
		return buildDate(js)
	case "email":
		return stringOptions(SEmail, js), nil
	case "uri":
		return stringOptions(SURI, js), nil
	case "lang":
		return stringOptions(SLang, js), nil
	case "enum":
		s := SEnum(js.FieldNames...)
		s.Nullable = js.Nullable
		return s, nil
	}
	if k, ok := types.ParseKind(js.Type); ok {
		return buildKind(k, js)
	}
	if builder, ok := customBuilder(js.Type); ok {
		return builder(js)
	}
	return nil, errors.Wrapf(ErrUnknownSchema, "%q", js.Type)
}

func buildKind(k types.Kind, js *SchemaJSON) (Schema, error) {
	switch k {
	case types.KindString:
		s := stringOptions(SString, js)
		switch {
		case js.Exact != "":
			s = s.Match(js.Exact)
		case js.Prefix != "":
			s = s.Prefix(js.Prefix)
		case js.Suffix != "":
			s = s.Suffix(js.Suffix)
		}
		if js.Pattern != "" {
			re, err := regexp.Compile(js.Pattern)
			if err != nil {
				return nil, errors.Wrap(err, "string pattern")
			}
			s = s.CheckFunc(ErrStringPattern, js.Pattern, re.MatchString)
		}
		return s, nil
	case types.KindBytes:
		return SchemaBytes{Nullable: js.Nullable, Width: js.Width}, nil
	case types.KindTime:
		return buildDate(js)
	case types.KindTuple:
		schemas, err := buildSchemas(js.Schema)
		if err != nil {
			return nil, err
		}
		if len(js.FieldNames) > 0 {
			if len(js.FieldNames) != len(schemas) {
				return nil, errors.Newf("tuple: %d field names for %d schemas", len(js.FieldNames), len(schemas))
			}
			return STupleNamed(js.FieldNames, schemas...), nil
		}
		return STuple(schemas...), nil
	case types.KindList:
		if len(js.Schema) != 1 {
			return nil, errors.Newf("list: should be 1 schema, got %d", len(js.Schema))
		}
		elem, err := BuildSchema(&js.Schema[0])
		if err != nil {
			return nil, errors.Wrap(err, "list")
		}
		s := SList(elem).Count(js.Min, js.Max)
		s.Nullable = js.Nullable
		return s, nil
	case types.KindDictionary:
		if len(js.Schema) != 2 {
			return nil, errors.Newf("dictionary: should be 2 schemas, got %d", len(js.Schema))
		}
		schemas, err := buildSchemas(js.Schema)
		if err != nil {
			return nil, errors.Wrap(err, "dictionary")
		}
		s := SDictionary(schemas[0], schemas[1]).Count(js.Min, js.Max)
		s.Nullable = js.Nullable
		return s, nil
	case types.KindNullable:
		if len(js.Schema) != 1 {
			return nil, errors.Newf("nullable: should be 1 schema, got %d", len(js.Schema))
		}
		inner, err := BuildSchema(&js.Schema[0])
		if err != nil {
			return nil, errors.Wrap(err, "nullable")
		}
		return SNullable(inner), nil
	}
	base, ok := SType(k)
	if !ok {
		return nil, errors.Wrapf(ErrUnsupportedType, "%s", k)
	}
	switch s := base.(type) {
	case SchemaScalar:
		pack, err := parsePack(js, s.Pack)
		if err != nil {
			return nil, err
		}
		s.Pack = pack
		s.Nullable = js.Nullable
		s.Min, s.Max = js.Min, js.Max
		s.FMin, s.FMax = js.FloatMin, js.FloatMax
		return s, nil
	case SchemaGeometry:
		pack, err := parsePack(js, s.Pack)
		if err != nil {
			return nil, err
		}
		return s.WithPack(pack), nil
	}
	return base, nil
}

func buildDate(js *SchemaJSON) (Schema, error) {
	from, err := parseDate("from", js.DateFrom)
	if err != nil {
		return nil, err
	}
	to, err := parseDate("to", js.DateTo)
	if err != nil {
		return nil, err
	}
	s := SDate.DateRange(from, to)
	s.Nullable = js.Nullable
	return s, nil
}

func stringOptions(s SchemaString, js *SchemaJSON) SchemaString {
	s.Nullable = js.Nullable
	s.Width = js.Width
	s.MaxLen = js.MaxLen
	if js.DecodeDefault != "" {
		s = s.DefaultDecodeValue(js.DecodeDefault)
	}
	return s
}

// buildSchemas converts nested descriptions in order.
func buildSchemas(list []SchemaJSON) ([]Schema, error) {
	out := make([]Schema, len(list))
	for i := range list {
		s, err := BuildSchema(&list[i])
		if err != nil {
			return nil, errors.Wrapf(err, "schema %d", i)
		}
		out[i] = s
	}
	return out, nil
}

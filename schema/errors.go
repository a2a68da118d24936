package schema

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

type ErrorCode int

const (
	ErrUnknown            ErrorCode = iota
	ErrInvalidFormat                // decoding failed due to invalid format
	ErrUnexpectedEOF                // segment ended while reading
	ErrConstraintViolated           // validation rule failed (width, count, nullable constraint)
	ErrEncode

	// String-specific validation codes
	ErrStringMismatch // generic string mismatch
	ErrStringPrefix   // prefix check failed
	ErrStringSuffix   // suffix check failed
	ErrStringPattern  // regex/pattern check failed
	ErrStringMatch    // exact match failed
	ErrStringEmail    // email format validation failed
	ErrStringURL      // URL/URI format validation failed
	ErrStringLang     // language tag format validation failed
	// Numeric validation codes
	ErrOutOfRange     // integer value out of allowed range
	ErrDateOutOfRange // timestamp/date value out of allowed range
)

var errorCodeNames = [...]string{
	ErrUnknown:            "ErrUnknown",
	ErrInvalidFormat:      "ErrInvalidFormat",
	ErrUnexpectedEOF:      "ErrUnexpectedEOF",
	ErrConstraintViolated: "ErrConstraintViolated",
	ErrEncode:             "ErrEncode",
	ErrStringMismatch:     "ErrStringMismatch",
	ErrStringPrefix:       "ErrStringPrefix",
	ErrStringSuffix:       "ErrStringSuffix",
	ErrStringPattern:      "ErrStringPattern",
	ErrStringMatch:        "ErrStringMatch",
	ErrStringEmail:        "ErrStringEmail",
	ErrStringURL:          "ErrStringURL",
	ErrStringLang:         "ErrStringLang",
	ErrOutOfRange:         "ErrOutOfRange",
	ErrDateOutOfRange:     "ErrDateOutOfRange",
}

// String implements fmt.Stringer
func (e ErrorCode) String() string {
	if e >= 0 && int(e) < len(errorCodeNames) {
		return errorCodeNames[e]
	}
	return fmt.Sprintf("ErrorCode(%d)", int(e))
}

var (
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrUnsupportedType = errors.New("unsupported type")
	ErrUnknownSchema   = errors.New("unknown schema type")
)

type SchemaError struct {
	Code     ErrorCode
	Name     string
	Field    string
	Position int
	InnerErr error
}

func NewSchemaError(code ErrorCode, name, field string, pos int, inner error) *SchemaError {
	return &SchemaError{Code: code, Name: name, Field: field, Position: pos, InnerErr: inner}
}

func (v *SchemaError) Error() string {
	if v.InnerErr != nil {
		return fmt.Sprintf("%s %s:%s#%d { %s }", v.Name, v.Code, v.Field, v.Position, v.InnerErr)
	}
	return fmt.Sprintf("%s %s:%s#%d", v.Name, v.Code, v.Field, v.Position)
}

func (v *SchemaError) Unwrap() error {
	return v.InnerErr
}

// CodeOf returns the ErrorCode of the outermost SchemaError in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var se *SchemaError
	if errors.As(err, &se) {
		return se.Code, true
	}
	return ErrUnknown, false
}

type SizeExact struct {
	Exact  int
	Actual int
}

func (r SizeExact) Error() string {
	return fmt.Sprintf("%d != %d", r.Actual, r.Exact)
}

// RangeErrorDetails represents a structured range violation for any ordered type.
type RangeErrorDetails[T constraints.Ordered] struct {
	Min    *T
	Max    *T
	Actual T
}

func (r RangeErrorDetails[T]) Error() string {
	switch {
	case r.Min != nil && r.Max != nil:
		return fmt.Sprintf("%v not in [%v , %v]", r.Actual, *r.Min, *r.Max)
	case r.Min != nil:
		return fmt.Sprintf("%v < %v", r.Actual, *r.Min)
	case r.Max != nil:
		return fmt.Sprintf("%v > %v", r.Actual, *r.Max)
	default:
		return fmt.Sprintf("%v", r.Actual)
	}
}

// CheckRange validates val against optional min/max bounds.
// Returns a RangeErrorDetails if out of range, otherwise nil.
func CheckRange[T constraints.Ordered](val T, min *T, max *T) error {
	if (min != nil && val < *min) || (max != nil && val > *max) {
		return RangeErrorDetails[T]{Min: min, Max: max, Actual: val}
	}
	return nil
}

type StringErrorDetails struct {
	Expected string
	Actual   string
}

func (e StringErrorDetails) Error() string {
	return fmt.Sprintf("'%s'!='%s'", e.Actual, e.Expected)
}

type MissingKeyErrorDetails struct {
	Key string
}

func (e MissingKeyErrorDetails) Error() string {
	return fmt.Sprintf("missing key '%s'", e.Key)
}

// readError classifies an error from the access layer.
func readError(name, field string, pos int, err error) error {
	code := ErrInvalidFormat
	var se *SchemaError
	switch {
	case errors.As(err, &se):
		return err
	case isEOF(err):
		code = ErrUnexpectedEOF
	}
	return NewSchemaError(code, name, field, pos, err)
}

func Ptr[T any](v T) *T { return &v }

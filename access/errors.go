package access

import (
	"github.com/cockroachdb/errors"
)

// Leaf errors. Callers match them with errors.Is; the returned errors carry
// the offending type, position or length as context.
var (
	// ErrCodecNotRegistered means no codec exists for the requested type.
	// The write is aborted before any byte is emitted.
	ErrCodecNotRegistered = errors.New("codec not registered")

	// ErrUnexpectedEOF means the reader ran past the end of the segment.
	ErrUnexpectedEOF = errors.New("unexpected end of segment")

	// ErrInvalidPackRate means a packed control byte is outside 0..3.
	ErrInvalidPackRate = errors.New("invalid pack rate")

	// ErrOverflow means a packed value does not fit the requested width.
	ErrOverflow = errors.New("packed value overflows target type")

	// ErrInvalidLength means a length prefix is negative (other than the -1 null sentinel).
	ErrInvalidLength = errors.New("invalid length prefix")

	// ErrLengthLimitExceeded means a length prefix is over the reader's configured limit.
	ErrLengthLimitExceeded = errors.New("length exceeds reader limit")

	// ErrPositionOutOfRange means a cursor move outside [0, length].
	ErrPositionOutOfRange = errors.New("position out of range")

	// ErrUnknownObject means a decoded identity does not resolve to a local object.
	ErrUnknownObject = errors.New("unknown network object")

	// ErrNilValue means a nil self-encoding value was handed to Write.
	ErrNilValue = errors.New("nil value")

	// ErrNoResolver means a reference was read without an ObjectResolver.
	ErrNoResolver = errors.New("no object resolver configured")
)

func eofError(op string, pos, need, have int) error {
	return errors.Wrapf(ErrUnexpectedEOF, "%s: need %d bytes at %d, %d remaining", op, need, pos, have-pos)
}

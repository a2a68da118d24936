package packable

import (
	"github.com/cockroachdb/errors"

	"github.com/quickwritereader/PackNet/access"
)

// ErrTrailingBytes means a payload had bytes left after every argument was read.
var ErrTrailingBytes = errors.New("trailing bytes after arguments")

func errNilArgument(i int) error {
	return errors.Wrapf(access.ErrNilValue, "argument %d", i)
}

func wrapArgument(err error, i int) error {
	return errors.Wrapf(err, "argument %d", i)
}

func errTrailing(n int) error {
	return errors.Wrapf(ErrTrailingBytes, "%d bytes", n)
}

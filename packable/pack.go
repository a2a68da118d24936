package packable

import (
	"github.com/quickwritereader/PackNet/access"
)

// Sized is implemented by packables that know their encoded size up front.
// Pack uses it to size the writer once.
type Sized interface {
	ValueSize() int
}

// PackContainer is an ordered argument list. Its wire form is the
// concatenation of its arguments; the receiver must read them back in the
// same order with the same types.
type PackContainer struct {
	args []access.Packable
}

func NewPackContainer(args ...access.Packable) PackContainer {
	return PackContainer{args: args}
}

// PackTuple groups arguments so a tuple can be passed where one Packable is expected.
func PackTuple(args ...access.Packable) PackContainer {
	return NewPackContainer(args...)
}

// ValueSize returns the summed size of the arguments, or -1 when one of
// them cannot tell.
func (p PackContainer) ValueSize() int {
	size := 0
	for _, arg := range p.args {
		s, ok := arg.(Sized)
		if !ok {
			return -1
		}
		n := s.ValueSize()
		if n < 0 {
			return -1
		}
		size += n
	}
	return size
}

func (p PackContainer) PackInto(w *access.Writer) error {
	for i, arg := range p.args {
		if arg == nil {
			return errNilArgument(i)
		}
		if err := arg.PackInto(w); err != nil {
			return err
		}
	}
	return nil
}

// Pack encodes args into a fresh slice owned by the caller.
func Pack(args ...access.Packable) ([]byte, error) {
	pp := NewPackContainer(args...)
	capacity := pp.ValueSize()
	if capacity < 0 {
		capacity = access.DefaultCapacity
	}
	w := access.GetWriter(access.WithInitialCapacity(capacity))
	defer access.ReleaseWriter(w)
	if err := pp.PackInto(w); err != nil {
		return nil, err
	}
	out := make([]byte, w.Length())
	copy(out, w.GetArraySegment())
	return out, nil
}

// PackInto appends args to w.
func PackInto(w *access.Writer, args ...access.Packable) error {
	return NewPackContainer(args...).PackInto(w)
}

// Unpack reads segment into dst in order and reports trailing bytes as an error.
func Unpack(segment []byte, dst ...access.Unpackable) error {
	r := access.NewReader(segment)
	for i, d := range dst {
		if err := d.UnpackFrom(r); err != nil {
			return wrapArgument(err, i)
		}
	}
	if r.Remaining() != 0 {
		return errTrailing(r.Remaining())
	}
	return nil
}

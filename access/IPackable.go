package access

// Packable is implemented by values that write their own wire form. Write[T]
// uses it when T has no registry entry.
//
// Boxing a slice into a Packable copies the slice header into an interface
// value, which usually escapes to the heap. Wrap a pointer to the slice in a
// struct and implement Packable on that when allocation matters.
type Packable interface {
	PackInto(w *Writer) error
}

// Unpackable is the reading half of Packable. Read[T] falls back to it when
// *T implements it.
type Unpackable interface {
	UnpackFrom(r *Reader) error
}

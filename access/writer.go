package access

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/quickwritereader/PackNet/log"
	"github.com/quickwritereader/PackNet/utils"
)

var bufferPool = utils.NewBufferPool()

// Writer is a growable byte arena with a write cursor.
//
// position is where the next byte goes; length is the high-water mark of bytes
// written since the last Reset and is what GetArraySegment exposes. Storage only
// grows. A Writer is not safe for concurrent use.
type Writer struct {
	buf      []byte // len(buf) is the capacity
	position int
	length   int
	logger   *zap.Logger
	registry *Registry
}

// NewWriter allocates a writer with DefaultCapacity bytes of storage unless
// WithInitialCapacity says otherwise.
func NewWriter(opts ...WriterOption) *Writer {
	cfg := writerConfig{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Writer{
		buf:      make([]byte, cfg.capacity),
		logger:   cfg.logger,
		registry: cfg.registry,
	}
}

// GetWriter returns a writer whose storage comes from the shared buffer pool.
// Hand it back with ReleaseWriter when the segment has been sent.
func GetWriter(opts ...WriterOption) *Writer {
	cfg := writerConfig{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Writer{
		buf:      bufferPool.Acquire(cfg.capacity),
		logger:   cfg.logger,
		registry: cfg.registry,
	}
}

// ReleaseWriter returns w's storage to the pool. w must not be used afterwards,
// and views obtained from it are invalid.
func ReleaseWriter(w *Writer) {
	if w == nil || w.buf == nil {
		return
	}
	bufferPool.Release(w.buf)
	w.buf = nil
	w.position, w.length = 0, 0
}

func (w *Writer) log() *zap.Logger {
	if w.logger != nil {
		return w.logger
	}
	return log.L()
}

func (w *Writer) codecs() *Registry {
	if w.registry != nil {
		return w.registry
	}
	return DefaultRegistry
}

// Reset starts a new use-cycle without releasing storage.
func (w *Writer) Reset() {
	w.position = 0
	w.length = 0
}

// Position is the next write offset.
func (w *Writer) Position() int { return w.position }

// Length is the number of used bytes.
func (w *Writer) Length() int { return w.length }

// Capacity is the size of the backing storage.
func (w *Writer) Capacity() int { return len(w.buf) }

// SetPosition moves the cursor within the bytes already written, for example to
// patch a header. Length keeps its high-water mark.
func (w *Writer) SetPosition(pos int) error {
	if pos < 0 || pos > w.length {
		return errors.Wrapf(ErrPositionOutOfRange, "SetPosition: %d not in [0, %d]", pos, w.length)
	}
	w.position = pos
	return nil
}

// GetBuffer returns the whole backing storage, which may extend past Length.
// Never hand this to a transport; use GetArraySegment.
func (w *Writer) GetBuffer() []byte {
	return w.buf
}

// GetArraySegment returns exactly the used bytes [0, Length). The view is
// borrowed and valid until the next write.
func (w *Writer) GetArraySegment() []byte {
	return w.buf[:w.length:w.length]
}

// ensure makes room for count bytes at position.
func (w *Writer) ensure(count int) {
	if w.position+count <= len(w.buf) {
		return
	}
	// a single resize always suffices: cap*2+count >= position+count
	grown := make([]byte, len(w.buf)*2+count)
	copy(grown, w.buf[:w.length])
	w.buf = grown
}

// advance moves the cursor to pos and raises length to match.
func (w *Writer) advance(pos int) {
	w.position = pos
	if pos > w.length {
		w.length = pos
	}
}

// Reserve skips count zeroed bytes and returns the offset where they start.
func (w *Writer) Reserve(count int) int {
	if count <= 0 {
		return w.position
	}
	w.ensure(count)
	start := w.position
	clear(w.buf[start : start+count])
	w.advance(start + count)
	return start
}

// WriteByte writes a single raw byte. It never fails; the error satisfies io.ByteWriter.
func (w *Writer) WriteByte(b byte) error {
	w.ensure(1)
	w.buf[w.position] = b
	w.advance(w.position + 1)
	return nil
}

// WriteBytes copies src[offset:offset+count] with no length prefix.
// The range must lie within src; otherwise WriteBytes panics with an error
// matching ErrInvalidLength and writes nothing.
func (w *Writer) WriteBytes(src []byte, offset, count int) {
	if offset < 0 || count < 0 || offset > len(src)-count {
		panic(errors.Wrapf(ErrInvalidLength, "WriteBytes: range [%d:+%d] outside source of %d bytes", offset, count, len(src)))
	}
	if count == 0 {
		return
	}
	w.ensure(count)
	n := copy(w.buf[w.position:], src[offset:offset+count])
	w.advance(w.position + n)
}

// Write appends p with no length prefix, satisfying io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	w.WriteBytes(p, 0, len(p))
	return len(p), nil
}

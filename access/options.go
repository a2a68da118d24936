package access

import (
	"go.uber.org/zap"
)

// DefaultCapacity is the storage a Writer starts with.
const DefaultCapacity = 1024

const (
	// DefaultMaxCollectionLength bounds element counts accepted by a Reader.
	DefaultMaxCollectionLength = 1 << 16
	// DefaultMaxStringLength bounds string and byte-array lengths accepted by a Reader.
	DefaultMaxStringLength = 1 << 20
)

type writerConfig struct {
	capacity int
	logger   *zap.Logger
	registry *Registry
}

// WriterOption configures NewWriter.
type WriterOption func(*writerConfig)

// WithInitialCapacity sets the initial storage size. Negative values are ignored.
func WithInitialCapacity(n int) WriterOption {
	return func(c *writerConfig) {
		if n >= 0 {
			c.capacity = n
		}
	}
}

// WithLogger routes the writer's diagnostics to logger instead of the global one.
func WithLogger(logger *zap.Logger) WriterOption {
	return func(c *writerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRegistry makes Write[T] consult reg instead of DefaultRegistry.
func WithRegistry(reg *Registry) WriterOption {
	return func(c *writerConfig) {
		if reg != nil {
			c.registry = reg
		}
	}
}

type readerConfig struct {
	maxCollection int
	maxString     int
	logger        *zap.Logger
	registry      *Registry
	resolver      ObjectResolver
}

// ReaderOption configures NewReader.
type ReaderOption func(*readerConfig)

// WithMaxCollectionLength caps the element count of lists and dictionaries.
func WithMaxCollectionLength(n int) ReaderOption {
	return func(c *readerConfig) {
		if n >= 0 {
			c.maxCollection = n
		}
	}
}

// WithMaxStringLength caps the byte length of strings and byte arrays.
func WithMaxStringLength(n int) ReaderOption {
	return func(c *readerConfig) {
		if n >= 0 {
			c.maxString = n
		}
	}
}

func WithReaderLogger(logger *zap.Logger) ReaderOption {
	return func(c *readerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithReaderRegistry makes Read[T] consult reg instead of DefaultRegistry.
func WithReaderRegistry(reg *Registry) ReaderOption {
	return func(c *readerConfig) {
		if reg != nil {
			c.registry = reg
		}
	}
}

// WithObjectResolver lets Read[T] decode network references through res.
func WithObjectResolver(res ObjectResolver) ReaderOption {
	return func(c *readerConfig) {
		c.resolver = res
	}
}

package utils

import (
	"math/bits"
	"sync"
)

// BufferSizeClass lists the pooled storage capacities. Writers grow by
// doubling plus the request, so only freshly acquired storage tends to match a class.
var BufferSizeClass = [...]int{256, 512, 1024, 2048, 4096, 8192, 16384, 32768, 65536}

const (
	minClassBits = 8 // log2(BufferSizeClass[0])
	maxClassSize = 65536
)

// SizeIndex returns the index of the smallest class holding n bytes, or -1.
func SizeIndex(n int) int {
	if n <= 0 || n > maxClassSize {
		return -1
	}
	idx := bits.Len(uint(n - 1))
	if idx <= minClassBits {
		return 0
	}
	return idx - minClassBits
}

type BufferPool struct {
	pools [len(BufferSizeClass)]sync.Pool
}

func NewBufferPool() *BufferPool {
	var bp BufferPool
	for i, sz := range BufferSizeClass {
		size := sz
		bp.pools[i].New = func() any {
			b := make([]byte, size)
			return &b
		}
	}
	return &bp
}

// Acquire returns storage of at least n bytes with len == cap.
// The contents are whatever the previous owner left behind.
func (bp *BufferPool) Acquire(n int) []byte {
	idx := SizeIndex(n)
	if idx < 0 {
		return make([]byte, n)
	}
	bufPtr := bp.pools[idx].Get().(*[]byte)
	b := *bufPtr
	return b[:cap(b)]
}

func (bp *BufferPool) AcquireZeroed(n int) []byte {
	buf := bp.Acquire(n)
	clear(buf)
	return buf
}

// Release returns the buffer to its pool if its capacity is exactly a class.
func (bp *BufferPool) Release(buf []byte) {
	c := cap(buf)
	if c&(c-1) != 0 || c < BufferSizeClass[0] || c > maxClassSize {
		return
	}
	idx := bits.Len(uint(c)) - 1 - minClassBits
	buf = buf[:c]
	bp.pools[idx].Put(&buf)
}

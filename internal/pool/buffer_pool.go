package pool

import (
	"strings"
	"sync"

	"golang.org/x/text/transform"
)

// BufferPool implements a pool of byte slices for efficient memory reuse
type BufferPool struct {
	pool sync.Pool
	size int
}

// NewBufferPool creates a new buffer pool with buffers of the specified size
func NewBufferPool(size int) *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() interface{} {
				buffer := make([]byte, 0, size)
				return &buffer
			},
		},
		size: size,
	}
}

// Get retrieves a buffer from the pool or creates a new one if none are available
func (bp *BufferPool) Get() *[]byte {
	return bp.pool.Get().(*[]byte)
}

// Put returns a buffer to the pool for reuse
func (bp *BufferPool) Put(buffer *[]byte) {
	// Oversized buffers are dropped so one huge document does not pin memory
	if cap(*buffer) > bp.size*16 {
		return
	}
	*buffer = (*buffer)[:0]
	bp.pool.Put(buffer)
}

// StringBuilderPool implements a pool of strings.Builder for efficient string building
type StringBuilderPool struct {
	pool sync.Pool
}

// NewStringBuilderPool creates a new strings.Builder pool
func NewStringBuilderPool() *StringBuilderPool {
	return &StringBuilderPool{
		pool: sync.Pool{
			New: func() interface{} {
				return new(strings.Builder)
			},
		},
	}
}

// Get retrieves a builder from the pool or creates a new one if none are available
func (sbp *StringBuilderPool) Get() *strings.Builder {
	return sbp.pool.Get().(*strings.Builder)
}

// Put returns a builder to the pool for reuse
func (sbp *StringBuilderPool) Put(sb *strings.Builder) {
	sb.Reset()
	sbp.pool.Put(sb)
}

// TransformerPool hands out transform.Transformer values built by a constructor.
// Transformer chains keep internal state, so each caller borrows its own.
type TransformerPool struct {
	pool sync.Pool
}

// NewTransformerPool creates a pool whose transformers are produced by build
func NewTransformerPool(build func() transform.Transformer) *TransformerPool {
	return &TransformerPool{
		pool: sync.Pool{
			New: func() interface{} {
				return build()
			},
		},
	}
}

// Get retrieves a reset transformer from the pool
func (tp *TransformerPool) Get() transform.Transformer {
	t := tp.pool.Get().(transform.Transformer)
	t.Reset()
	return t
}

// Put returns a transformer to the pool
func (tp *TransformerPool) Put(t transform.Transformer) {
	tp.pool.Put(t)
}

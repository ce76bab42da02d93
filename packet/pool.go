package packet

import (
	"bytes"
	"sync"
)

// DefaultMTU bounds every encoded PDU (§4.1): "No PDU may exceed the MTU
// (default 1500)". Buffers are pre-grown to this size so the common case
// never reallocates mid-encode.
const DefaultMTU = 1500

type Buffer struct {
	pool *sync.Pool
}

func newBuffer() *Buffer {
	return &Buffer{
		pool: &sync.Pool{
			New: func() any {
				buf := new(bytes.Buffer)
				buf.Grow(DefaultMTU)
				return buf
			},
		},
	}
}

func (b *Buffer) Get() *bytes.Buffer {
	return b.pool.Get().(*bytes.Buffer)
}

func (b *Buffer) Put(buf *bytes.Buffer) {
	buf.Reset()
	b.pool.Put(buf)
}

var buffer = newBuffer()

func GetBuffer() *bytes.Buffer {
	return buffer.Get()
}

func PutBuffer(buf *bytes.Buffer) {
	buffer.Put(buf)
}

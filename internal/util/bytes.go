package util

import (
	"bytes"
	"sync"
)

// maxPooledBuf keeps oversized buffers, e.g. after a large body was encoded, out of the pool.
const maxPooledBuf = 64 << 10

var bufPool = sync.Pool{New: func() any { return new(bytes.Buffer) }}

// GetBytesBuffer returns an empty buffer from the pool.
func GetBytesBuffer() *bytes.Buffer { return bufPool.Get().(*bytes.Buffer) } //nolint:forcetypeassert

// FreeBytesBuffer returns b to the pool, b must not be used afterwards.
func FreeBytesBuffer(b *bytes.Buffer) {
	if b.Cap() > maxPooledBuf {
		return
	}
	b.Reset()
	bufPool.Put(b)
}

// CloneBytes copies b into a new non-nil slice.
func CloneBytes(b []byte) []byte { return append(make([]byte, 0, len(b)), b...) }

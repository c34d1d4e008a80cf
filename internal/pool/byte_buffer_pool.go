package pool

import (
	"sync"
)

// PostingBufferDefaultSize is the default capacity of a ByteBuffer obtained
// from the pool. Posting blobs are small compared to document text, so the
// pool is sized for typical per-token lists rather than whole-index blobs.
const (
	PostingBufferDefaultSize  = 4 * 1024  // 4KiB
	PostingBufferMaxThreshold = 64 * 1024 // 64KiB
)

// ByteBuffer is a growable byte buffer used as the backing storage of every
// posting-list encode call. It exposes the raw slice so that bit-level
// writers can flush directly into it.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified initial capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// MustWrite writes data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// WriteByte appends a single byte, growing the buffer if necessary.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.B = append(bb.B, c)
	return nil
}

// Grow grows the buffer to ensure it can hold requiredBytes more bytes
// without reallocating. If the buffer has sufficient capacity, Grow does
// nothing.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := PostingBufferDefaultSize
	if cap(bb.B) > 4*PostingBufferDefaultSize {
		// For larger buffers, grow by 25% to balance memory and reallocation cost.
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// CopyBytes returns a freshly allocated copy of the buffer contents.
//
// Encoders use this to hand ownership of an encoded blob to the caller
// before the buffer itself is returned to the pool.
func (bb *ByteBuffer) CopyBytes() []byte {
	out := make([]byte, len(bb.B))
	copy(out, bb.B)

	return out
}

var postingBufferPool = sync.Pool{
	New: func() any {
		return NewByteBuffer(PostingBufferDefaultSize)
	},
}

// GetPostingBuffer returns a reset ByteBuffer from the pool.
func GetPostingBuffer() *ByteBuffer {
	buf, _ := postingBufferPool.Get().(*ByteBuffer)
	buf.Reset()

	return buf
}

// PutPostingBuffer returns a ByteBuffer to the pool.
//
// Buffers that grew beyond PostingBufferMaxThreshold are dropped instead of
// pooled so that one oversized posting list does not pin memory forever.
func PutPostingBuffer(buf *ByteBuffer) {
	if buf == nil || buf.Cap() > PostingBufferMaxThreshold {
		return
	}
	postingBufferPool.Put(buf)
}

// Package encoding implements the posting-list wire formats.
//
// Two codecs are provided. CodecNone lays each posting entry out as packed
// little-endian uint32 words. CodecGolomb gap-codes document ids and
// positions with a Golomb code and bit-packs the result, padding to a byte
// boundary after the document-gap stream and after each position-gap stream
// so that the fixed-width headers that follow stay byte-aligned.
//
// Bit order inside each byte is MSB-first and padding bits are zero.
package encoding

import (
	"github.com/arloliu/seki/endian"
	"github.com/arloliu/seki/internal/pool"
)

// wireOrder pins the byte order of all fixed-width wire integers so that
// index blobs are portable across hosts.
var wireOrder = endian.GetLittleEndianEngine()

// BitWriter is an append-only buffer supporting whole-value writes and
// single-bit writes with automatic byte flushing.
//
// Bits accumulate MSB-first: the first AppendBit after a byte boundary lands
// in the most significant bit of the next byte. Whole-value writes require
// the writer to be byte-aligned; FlushByte zero-pads to the boundary.
type BitWriter struct {
	buf      *pool.ByteBuffer
	bitBuf   uint64 // pending bits, low bits valid
	bitCount int    // number of pending bits, always < 8 between calls
}

// NewBitWriter creates a BitWriter backed by a pooled byte buffer.
// Call Finish to release the buffer once the encoded bytes have been copied
// out.
func NewBitWriter() *BitWriter {
	return &BitWriter{buf: pool.GetPostingBuffer()}
}

// AppendBit appends a single bit.
func (w *BitWriter) AppendBit(bit uint64) {
	w.bitBuf = (w.bitBuf << 1) | (bit & 1)
	w.bitCount++
	if w.bitCount == 8 {
		w.drainByte()
	}
}

// AppendBits appends the low numBits bits of value, MSB-first.
func (w *BitWriter) AppendBits(value uint64, numBits int) {
	for i := numBits - 1; i >= 0; i-- {
		w.AppendBit(value >> i)
	}
}

// FlushByte pads the current byte with zero bits up to the next byte
// boundary. It is a no-op when the writer is already aligned.
func (w *BitWriter) FlushByte() {
	if w.bitCount == 0 {
		return
	}
	w.bitBuf <<= 8 - w.bitCount
	w.bitCount = 8
	w.drainByte()
}

// AppendBytes copies raw bytes into the buffer. The writer aligns to a byte
// boundary first, matching the contract that whole-value appends follow a
// flush.
func (w *BitWriter) AppendBytes(data []byte) {
	w.FlushByte()
	w.buf.MustWrite(data)
}

// AppendUint32 writes v as a little-endian uint32, aligning first.
func (w *BitWriter) AppendUint32(v uint32) {
	w.FlushByte()
	w.buf.B = wireOrder.AppendUint32(w.buf.B, v)
}

// Len returns the number of complete bytes written so far.
// Pending bits that have not reached a byte boundary are not counted.
func (w *BitWriter) Len() int {
	return w.buf.Len()
}

// Bytes flushes any pending bits and returns a copy of the encoded data.
func (w *BitWriter) Bytes() []byte {
	w.FlushByte()

	return w.buf.CopyBytes()
}

// Finish returns the backing buffer to the pool. The writer is unusable
// afterwards.
func (w *BitWriter) Finish() {
	pool.PutPostingBuffer(w.buf)
	w.buf = nil
}

func (w *BitWriter) drainByte() {
	w.buf.Grow(1)
	w.buf.B = append(w.buf.B, byte(w.bitBuf))
	w.bitBuf = 0
	w.bitCount = 0
}

package encoding

import "errors"

// ErrInvalidCode reports a Golomb bitstream that ended before the value it
// promised, or a truncated fixed-width field. It always indicates a corrupted
// or mis-framed blob.
var ErrInvalidCode = errors.New("encoding: invalid golomb code")

// BitReader reads a byte slice bit by bit, MSB-first, never past the end.
type BitReader struct {
	data []byte
	pos  int
	mask byte // bit cursor within data[pos], 0x80 when byte-aligned
}

// NewBitReader creates a BitReader over data. The reader does not take
// ownership of the slice.
func NewBitReader(data []byte) *BitReader {
	return &BitReader{data: data, mask: 0x80}
}

// ReadBit reads a single bit. ok is false once the buffer is exhausted.
func (r *BitReader) ReadBit() (bit uint32, ok bool) {
	if r.pos >= len(r.data) {
		return 0, false
	}
	if r.data[r.pos]&r.mask != 0 {
		bit = 1
	}
	r.mask >>= 1
	if r.mask == 0 {
		r.mask = 0x80
		r.pos++
	}

	return bit, true
}

// AlignByte advances the cursor to the next byte boundary, discarding any
// remaining bits of the current byte. No-op when already aligned.
func (r *BitReader) AlignByte() {
	if r.mask != 0x80 {
		r.mask = 0x80
		r.pos++
	}
}

// ReadUint32 reads a little-endian uint32. The reader aligns to a byte
// boundary first. Returns ErrInvalidCode when fewer than four bytes remain.
func (r *BitReader) ReadUint32() (uint32, error) {
	r.AlignByte()
	if r.pos+4 > len(r.data) {
		return 0, ErrInvalidCode
	}
	v := wireOrder.Uint32(r.data[r.pos : r.pos+4])
	r.pos += 4

	return v, nil
}

// Remaining returns the number of whole bytes left, counting the current
// partially consumed byte.
func (r *BitReader) Remaining() int {
	return len(r.data) - r.pos
}

package encoding

import (
	"errors"
	"fmt"

	"github.com/arloliu/seki/format"
	"github.com/arloliu/seki/posting"
)

// ErrLengthMismatch reports a decoded posting list whose length disagrees
// with the docs count carried out-of-band by the store. The blob and its
// metadata are inconsistent and the list must not be used.
var ErrLengthMismatch = errors.New("encoding: docs count does not match decoded postings length")

// EncodePostings serializes a posting list with the selected codec and
// returns a freshly allocated blob owned by the caller.
//
// corpusDocs is the total number of documents in the corpus; the Golomb
// codec derives its document-gap divisor from it and ignores it otherwise.
// An unrecognized codec is a programmer error and panics.
//
// The empty list encodes to an empty blob under CodecNone and to a blob
// holding only a zero docs count under CodecGolomb.
func EncodePostings(list posting.List, codec format.PostingCodec, corpusDocs uint32) []byte {
	w := NewBitWriter()
	defer w.Finish()

	switch codec {
	case format.CodecNone:
		encodePostingsNone(w, list)
	case format.CodecGolomb:
		encodePostingsGolomb(w, list, corpusDocs)
	default:
		panic(fmt.Sprintf("encoding: unknown posting codec %d", codec))
	}

	return w.Bytes()
}

// DecodePostings deserializes a posting blob produced by EncodePostings.
//
// docsCount is the entry count stored alongside the blob; the decoded list
// length must match it or DecodePostings fails with ErrLengthMismatch.
// A truncated or mis-framed blob fails with ErrInvalidCode.
func DecodePostings(data []byte, codec format.PostingCodec, docsCount uint32) (posting.List, error) {
	var (
		list posting.List
		err  error
	)

	switch codec {
	case format.CodecNone:
		list, err = decodePostingsNone(data)
	case format.CodecGolomb:
		list, err = decodePostingsGolomb(data)
	default:
		panic(fmt.Sprintf("encoding: unknown posting codec %d", codec))
	}
	if err != nil {
		return nil, err
	}

	if uint32(len(list)) != docsCount {
		return nil, fmt.Errorf("%w: stored %d, decoded %d", ErrLengthMismatch, docsCount, len(list))
	}

	return list, nil
}

// encodePostingsNone lays each entry out as packed little-endian words:
// document id, positions count, then the positions.
func encodePostingsNone(w *BitWriter, list posting.List) {
	for i := range list {
		e := &list[i]
		w.AppendUint32(e.DocumentID)
		w.AppendUint32(uint32(len(e.Positions)))
		for _, pos := range e.Positions {
			w.AppendUint32(pos)
		}
	}
}

func decodePostingsNone(data []byte) (posting.List, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("%w: blob length %d not word aligned", ErrInvalidCode, len(data))
	}

	r := NewBitReader(data)
	var list posting.List
	for r.Remaining() > 0 {
		docID, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		count, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}

		positions := make([]uint32, 0, count)
		for i := uint32(0); i < count; i++ {
			pos, err := r.ReadUint32()
			if err != nil {
				return nil, err
			}
			positions = append(positions, pos)
		}
		list = append(list, posting.Entry{DocumentID: docID, Positions: positions})
	}

	return list, nil
}

// encodePostingsGolomb writes the gap-coded format:
//
//	uint32 docs count
//	uint32 m for document gaps
//	Golomb(m) document gaps, zero-padded to a byte boundary
//	per document: uint32 positions count, uint32 m for position gaps,
//	              Golomb(m) position gaps, zero-padded to a byte boundary
//
// Document gaps run from a previous id of 0, position gaps from a previous
// position of -1, both as value - previous - 1. The divisor is the mean gap
// (corpus size over list length for documents, last position + 1 over
// occurrence count for positions), clamped to at least 1, which minimizes the expected
// code length for geometric gaps.
func encodePostingsGolomb(w *BitWriter, list posting.List, corpusDocs uint32) {
	w.AppendUint32(uint32(len(list))) //nolint:gosec // G115: list length bounded by corpus size
	if len(list) == 0 {
		return
	}

	m := corpusDocs / uint32(len(list))
	if m < 1 {
		m = 1
	}
	w.AppendUint32(m)

	params := newGolombParams(m)
	prevDoc := uint32(0)
	for i := range list {
		params.encode(w, list[i].DocumentID-prevDoc-1)
		prevDoc = list[i].DocumentID
	}
	w.FlushByte()

	for i := range list {
		e := &list[i]
		count := uint32(len(e.Positions))
		w.AppendUint32(count)
		if count == 0 {
			continue
		}

		mp := (e.Positions[count-1] + 1) / count
		if mp < 1 {
			mp = 1
		}
		w.AppendUint32(mp)

		posParams := newGolombParams(mp)
		prevPos := int64(-1)
		for _, pos := range e.Positions {
			posParams.encode(w, uint32(int64(pos)-prevPos-1))
			prevPos = int64(pos)
		}
		w.FlushByte()
	}
}

func decodePostingsGolomb(data []byte) (posting.List, error) {
	r := NewBitReader(data)

	docsCount, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if docsCount == 0 {
		return posting.List{}, nil
	}

	m, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if m == 0 {
		return nil, fmt.Errorf("%w: zero document gap divisor", ErrInvalidCode)
	}

	params := newGolombParams(m)
	list := make(posting.List, 0, docsCount)
	prevDoc := uint32(0)
	for i := uint32(0); i < docsCount; i++ {
		gap, err := params.decode(r)
		if err != nil {
			return nil, err
		}
		docID := prevDoc + gap + 1
		list = append(list, posting.Entry{DocumentID: docID})
		prevDoc = docID
	}
	r.AlignByte()

	for i := range list {
		count, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		if count == 0 {
			continue
		}

		mp, err := r.ReadUint32()
		if err != nil {
			return nil, err
		}
		if mp == 0 {
			return nil, fmt.Errorf("%w: zero position gap divisor", ErrInvalidCode)
		}

		posParams := newGolombParams(mp)
		positions := make([]uint32, 0, count)
		prevPos := int64(-1)
		for j := uint32(0); j < count; j++ {
			gap, err := posParams.decode(r)
			if err != nil {
				return nil, err
			}
			pos := prevPos + int64(gap) + 1
			positions = append(positions, uint32(pos))
			prevPos = pos
		}
		list[i].Positions = positions
		r.AlignByte()
	}

	return list, nil
}

// Package index builds and flushes in-memory inverted-index fragments.
//
// A fragment maps token ids to posting lists for a subset of documents.
// During ingest each document is tokenized into its own fragment which is
// then merged into the session fragment; at flush time every entry is merged
// with the persisted posting list for its token, re-encoded and written back
// to the store.
package index

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/arloliu/seki/encoding"
	"github.com/arloliu/seki/format"
	"github.com/arloliu/seki/posting"
	"github.com/arloliu/seki/store"
)

// fragmentEntry is the per-token record of a fragment.
type fragmentEntry struct {
	tokenID        uint32
	docsCount      uint32
	positionsCount uint32 // total occurrences across all documents
	postings       posting.List
}

// Fragment is an in-memory inverted index owned by a single indexing
// session. Iteration order over its entries is unspecified.
type Fragment struct {
	entries map[uint32]*fragmentEntry
}

// NewFragment creates an empty fragment.
func NewFragment() *Fragment {
	return &Fragment{entries: make(map[uint32]*fragmentEntry)}
}

// Len returns the number of distinct tokens in the fragment.
func (f *Fragment) Len() int {
	return len(f.entries)
}

// Insert records a single token occurrence.
//
// When the fragment already holds an entry for tokenID the position is
// appended to the head posting entry, so all occurrences of a token within
// one fragment must belong to the same document; ingest guarantees this by
// building a fresh fragment per document. Otherwise a new entry is created
// with docsHint as its initial docs count: 1 during document ingest, the
// authoritative corpus-wide count during query construction.
func (f *Fragment) Insert(tokenID, documentID, position, docsHint uint32) {
	e, ok := f.entries[tokenID]
	if !ok {
		e = &fragmentEntry{
			tokenID:   tokenID,
			docsCount: docsHint,
			postings:  posting.List{{DocumentID: documentID}},
		}
		f.entries[tokenID] = e
	}

	head := &e.postings[0]
	head.Positions = append(head.Positions, position)
	e.positionsCount++
}

// Merge destructively transfers every entry of other into f.
//
// Entries absent from f move over wholesale; entries present in both have
// their posting lists merged by ascending document id and their docs counts
// added. After Merge returns, other is empty and the transferred posting
// memory is owned by f.
func (f *Fragment) Merge(other *Fragment) {
	for tokenID, oe := range other.entries {
		delete(other.entries, tokenID)

		e, ok := f.entries[tokenID]
		if !ok {
			f.entries[tokenID] = oe
			continue
		}

		e.postings = posting.Merge(e.postings, oe.postings)
		e.docsCount += oe.docsCount
		e.positionsCount += oe.positionsCount
	}
}

// Postings returns the posting list recorded for tokenID.
func (f *Fragment) Postings(tokenID uint32) (posting.List, bool) {
	e, ok := f.entries[tokenID]
	if !ok {
		return nil, false
	}

	return e.postings, true
}

// DocsCount returns the docs count recorded for tokenID.
func (f *Fragment) DocsCount(tokenID uint32) (uint32, bool) {
	e, ok := f.entries[tokenID]
	if !ok {
		return 0, false
	}

	return e.docsCount, true
}

// PositionsCount returns the total occurrence count recorded for tokenID.
func (f *Fragment) PositionsCount(tokenID uint32) (uint32, bool) {
	e, ok := f.entries[tokenID]
	if !ok {
		return 0, false
	}

	return e.positionsCount, true
}

// TokenIDs returns the token ids present in the fragment, in unspecified
// order.
func (f *Fragment) TokenIDs() []uint32 {
	ids := make([]uint32, 0, len(f.entries))
	for id := range f.entries {
		ids = append(ids, id)
	}

	return ids
}

// Flush merges every fragment entry with its persisted posting list,
// re-encodes the result with the given codec and writes it back to the
// store. The fragment is emptied on success.
//
// Decode failures and store failures are fatal for the flush. Entries
// written before the failure are removed from the fragment; the failing
// entry and those not yet written stay so the caller can retry or discard
// them.
func (f *Fragment) Flush(st store.Store, codec format.PostingCodec, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	corpusDocs, err := st.DocumentCount()
	if err != nil {
		return fmt.Errorf("index: document count: %w", err)
	}

	for tokenID, e := range f.entries {
		if err := flushEntry(st, codec, corpusDocs, e); err != nil {
			logger.Error("flush failed", "token_id", tokenID, "error", err)
			return err
		}
		delete(f.entries, tokenID)
	}

	f.entries = make(map[uint32]*fragmentEntry)

	return nil
}

// flushEntry performs the read-modify-write cycle for one token.
func flushEntry(st store.Store, codec format.PostingCodec, corpusDocs uint32, e *fragmentEntry) error {
	merged := e.postings
	total := e.docsCount

	oldCount, blob, err := st.GetPostings(e.tokenID)
	switch {
	case errors.Is(err, store.ErrPostingsNotFound):
		// First flush for this token.
	case err != nil:
		return fmt.Errorf("index: fetch postings of token %d: %w", e.tokenID, err)
	default:
		old, err := encoding.DecodePostings(blob, codec, oldCount)
		if err != nil {
			return fmt.Errorf("index: decode postings of token %d: %w", e.tokenID, err)
		}
		if len(old) > 0 {
			merged = posting.Merge(old, merged)
			total += uint32(len(old))
		}
	}

	encoded := encoding.EncodePostings(merged, codec, corpusDocs)
	if err := st.UpdatePostings(e.tokenID, total, encoded); err != nil {
		return fmt.Errorf("index: update postings of token %d: %w", e.tokenID, err)
	}

	return nil
}

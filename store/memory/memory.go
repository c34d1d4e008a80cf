// Package memory provides an in-memory Store implementation.
//
// It backs the test suite, the CLI, and small corpora. Posting blobs are
// checksummed with xxHash64 on write and verified on every read, and can be
// held compressed at rest. The whole store can be saved to and restored from
// a msgpack snapshot, which is how the CLI persists an index between runs.
package memory

import (
	"errors"
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/arloliu/seki/compress"
	"github.com/arloliu/seki/format"
	"github.com/arloliu/seki/store"
)

// ErrChecksumMismatch reports a stored posting blob whose bytes no longer
// match the checksum recorded at write time.
var ErrChecksumMismatch = errors.New("memory: posting blob checksum mismatch")

// tokenDict maps UTF-8 tokens to sequential ids starting from 1.
type tokenDict struct {
	tokens []string
	lookup map[string]uint32
}

func newTokenDict() *tokenDict {
	return &tokenDict{lookup: make(map[string]uint32)}
}

// add registers a token and returns its id, assigning the next id when the
// token is new.
func (d *tokenDict) add(token string) uint32 {
	if id, ok := d.lookup[token]; ok {
		return id
	}
	d.tokens = append(d.tokens, token)
	id := uint32(len(d.tokens))
	d.lookup[token] = id

	return id
}

func (d *tokenDict) find(token string) (uint32, bool) {
	id, ok := d.lookup[token]
	return id, ok
}

func (d *tokenDict) get(id uint32) (string, bool) {
	if id == 0 || int(id) > len(d.tokens) {
		return "", false
	}

	return d.tokens[id-1], true
}

// postingRecord is one stored posting blob with its out-of-band metadata.
type postingRecord struct {
	docsCount uint32
	data      []byte // compressed when the store has a blob codec
	sum       uint64 // xxHash64 of data
}

type document struct {
	title string
	body  string
}

// Store is an in-memory implementation of store.Store.
//
// All methods are safe for concurrent use; a single RWMutex serializes
// access, matching the contract that the store, not the index core,
// provides synchronization.
type Store struct {
	mu sync.RWMutex

	dict        *tokenDict
	postings    map[uint32]postingRecord
	documents   []document
	compression format.BlobCompression
	codec       compress.Codec
}

var _ store.Store = (*Store)(nil)

// New creates an empty in-memory store with the given at-rest blob
// compression.
func New(compression format.BlobCompression) (*Store, error) {
	codec, err := compress.ForType(compression)
	if err != nil {
		return nil, err
	}

	return &Store{
		dict:        newTokenDict(),
		postings:    make(map[uint32]postingRecord),
		compression: compression,
		codec:       codec,
	}, nil
}

// GetPostings returns the posting blob for tokenID after verifying its
// checksum and undoing at-rest compression.
func (s *Store) GetPostings(tokenID uint32) (uint32, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.postings[tokenID]
	if !ok {
		return 0, nil, fmt.Errorf("%w: token %d", store.ErrPostingsNotFound, tokenID)
	}

	if xxhash.Sum64(rec.data) != rec.sum {
		return 0, nil, fmt.Errorf("%w: token %d", ErrChecksumMismatch, tokenID)
	}

	data, err := s.codec.Decompress(rec.data)
	if err != nil {
		return 0, nil, fmt.Errorf("memory: decompress postings of token %d: %w", tokenID, err)
	}

	// The record may share memory with the returned slice under
	// CompressionNone; copy so callers cannot corrupt the stored blob.
	out := make([]byte, len(data))
	copy(out, data)

	return rec.docsCount, out, nil
}

// UpdatePostings stores a posting blob, compressing it at rest and recording
// an xxHash64 checksum of the stored bytes.
func (s *Store) UpdatePostings(tokenID uint32, docsCount uint32, data []byte) error {
	compressed, err := s.codec.Compress(data)
	if err != nil {
		return fmt.Errorf("memory: compress postings of token %d: %w", tokenID, err)
	}

	stored := make([]byte, len(compressed))
	copy(stored, compressed)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dict.get(tokenID); !ok {
		return fmt.Errorf("%w: id %d", store.ErrTokenNotFound, tokenID)
	}

	s.postings[tokenID] = postingRecord{
		docsCount: docsCount,
		data:      stored,
		sum:       xxhash.Sum64(stored),
	}

	return nil
}

// GetTokenID resolves a token to its id.
//
// During indexing (documentID > 0) new tokens are assigned the next id.
// During query resolution (documentID == 0) unknown tokens fail with
// ErrTokenNotFound and docsCount reports how many documents currently hold
// the token, taken from the persisted posting metadata.
func (s *Store) GetTokenID(token []byte, documentID uint32) (uint32, uint32, error) {
	key := string(token)

	s.mu.Lock()
	defer s.mu.Unlock()

	var id uint32
	if documentID > 0 {
		id = s.dict.add(key)
	} else {
		var ok bool
		id, ok = s.dict.find(key)
		if !ok {
			return 0, 0, fmt.Errorf("%w: %q", store.ErrTokenNotFound, key)
		}
	}

	return id, s.postings[id].docsCount, nil
}

// GetToken returns the UTF-8 token for an assigned id.
func (s *Store) GetToken(tokenID uint32) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.dict.get(tokenID)
	if !ok {
		return nil, fmt.Errorf("%w: id %d", store.ErrTokenNotFound, tokenID)
	}

	return []byte(token), nil
}

// DocumentCount returns the number of registered documents.
func (s *Store) DocumentCount() (uint32, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return uint32(len(s.documents)), nil
}

// AddDocument registers a document and returns its id, starting from 1.
func (s *Store) AddDocument(title string, body string) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents = append(s.documents, document{title: title, body: body})

	return uint32(len(s.documents)), nil
}

// GetDocumentTitle returns the title a document was registered with.
func (s *Store) GetDocumentTitle(documentID uint32) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if documentID == 0 || int(documentID) > len(s.documents) {
		return "", fmt.Errorf("%w: id %d", store.ErrDocumentNotFound, documentID)
	}

	return s.documents[documentID-1].title, nil
}

// TokenCount returns the number of distinct tokens in the dictionary.
func (s *Store) TokenCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.dict.tokens)
}

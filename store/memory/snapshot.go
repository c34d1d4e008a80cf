package memory

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/arloliu/seki/compress"
	"github.com/arloliu/seki/format"
)

// snapshotVersion is bumped whenever the snapshot layout changes.
const snapshotVersion = 1

type snapshotPosting struct {
	TokenID   uint32 `msgpack:"t"`
	DocsCount uint32 `msgpack:"d"`
	Data      []byte `msgpack:"b"`
	Sum       uint64 `msgpack:"s"`
}

type snapshotDocument struct {
	Title string `msgpack:"t"`
	Body  string `msgpack:"b"`
}

type snapshot struct {
	Version     int                `msgpack:"v"`
	Compression uint8              `msgpack:"c"`
	Tokens      []string           `msgpack:"tok"`
	Postings    []snapshotPosting  `msgpack:"post"`
	Documents   []snapshotDocument `msgpack:"doc"`
}

// SaveSnapshot writes the whole store to w as a msgpack snapshot.
// Posting blobs are written as stored, compression and checksums included.
func (s *Store) SaveSnapshot(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := snapshot{
		Version:     snapshotVersion,
		Compression: uint8(s.compression),
		Tokens:      s.dict.tokens,
		Postings:    make([]snapshotPosting, 0, len(s.postings)),
		Documents:   make([]snapshotDocument, 0, len(s.documents)),
	}
	for id, rec := range s.postings {
		snap.Postings = append(snap.Postings, snapshotPosting{
			TokenID:   id,
			DocsCount: rec.docsCount,
			Data:      rec.data,
			Sum:       rec.sum,
		})
	}
	for _, doc := range s.documents {
		snap.Documents = append(snap.Documents, snapshotDocument{Title: doc.title, Body: doc.body})
	}

	if err := msgpack.NewEncoder(w).Encode(&snap); err != nil {
		return fmt.Errorf("memory: encode snapshot: %w", err)
	}

	return nil
}

// LoadSnapshot replaces the store contents with a snapshot written by
// SaveSnapshot. The snapshot's blob compression becomes the store's.
func (s *Store) LoadSnapshot(r io.Reader) error {
	var snap snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return fmt.Errorf("memory: decode snapshot: %w", err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("memory: unsupported snapshot version %d", snap.Version)
	}

	compression := format.BlobCompression(snap.Compression)
	codec, err := compress.ForType(compression)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.compression = compression
	s.codec = codec
	s.dict = newTokenDict()
	for _, token := range snap.Tokens {
		s.dict.add(token)
	}

	s.postings = make(map[uint32]postingRecord, len(snap.Postings))
	for _, p := range snap.Postings {
		s.postings[p.TokenID] = postingRecord{
			docsCount: p.DocsCount,
			data:      p.Data,
			sum:       p.Sum,
		}
	}

	s.documents = make([]document, 0, len(snap.Documents))
	for _, doc := range snap.Documents {
		s.documents = append(s.documents, document{title: doc.Title, body: doc.Body})
	}

	return nil
}

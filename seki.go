// Package seki provides a compact full-text search core for CJK-capable
// text, built on character N-grams and compressed positional posting lists.
//
// Documents are tokenized into overlapping N-grams (bi-grams by default),
// collected into an in-memory inverted-index fragment, and periodically
// flushed: each token's fragment postings are merged with the persisted
// posting list, re-encoded and written back to the store. Posting lists can
// be stored flat or Golomb gap-coded, selected per engine.
//
// # Core Features
//
//   - Character N-gram tokenization over UTF-32 text, CJK punctuation aware
//   - Positional posting lists with strictly ascending ids and positions
//   - Golomb-coded gap compression with per-list divisor selection
//   - Read-modify-write flush against a pluggable store
//   - Phrase search with exact position adjacency
//
// # Basic Usage
//
//	st, _ := memory.New(format.CompressionNone)
//	engine, _ := seki.New(st, seki.WithCodec(format.CodecGolomb))
//
//	engine.AddDocument("greeting", "こんにちは世界")
//	engine.Flush()
//
//	matches, _ := engine.Search("世界")
//
// The engine wraps the lower-level packages; for fine-grained control use
// the index, encoding and posting packages directly.
package seki

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/seki/format"
	"github.com/arloliu/seki/index"
	"github.com/arloliu/seki/internal/options"
	"github.com/arloliu/seki/search"
	"github.com/arloliu/seki/store"
)

const (
	// DefaultGramSize is the N used for tokenization unless overridden.
	// Bi-grams are the usual choice for CJK text.
	DefaultGramSize = 2

	// DefaultFlushThreshold is the number of buffered documents after which
	// AddDocument flushes the fragment automatically.
	DefaultFlushThreshold = 2048
)

// Engine ties tokenization, fragment construction and flushing together for
// one indexing session over one store.
//
// An Engine is single-writer: it owns its fragment and must not be shared
// between goroutines without external locking.
type Engine struct {
	st             store.Store
	frag           *index.Fragment
	codec          format.PostingCodec
	gram           int
	flushThreshold int
	buffered       int
	logger         *slog.Logger
}

// Option configures an Engine during New.
type Option = options.Option[*Engine]

// WithCodec selects the posting-list codec. The default is CodecGolomb.
func WithCodec(codec format.PostingCodec) Option {
	return options.New(func(e *Engine) error {
		if !codec.Valid() {
			return fmt.Errorf("seki: unknown posting codec %d", codec)
		}
		e.codec = codec

		return nil
	})
}

// WithGramSize selects the N-gram size. N must be at least 2.
func WithGramSize(n int) Option {
	return options.New(func(e *Engine) error {
		if n < 2 {
			return fmt.Errorf("seki: gram size %d too small", n)
		}
		e.gram = n

		return nil
	})
}

// WithFlushThreshold sets how many documents accumulate in the fragment
// before AddDocument flushes automatically. Zero disables automatic
// flushing.
func WithFlushThreshold(n int) Option {
	return options.New(func(e *Engine) error {
		if n < 0 {
			return fmt.Errorf("seki: negative flush threshold %d", n)
		}
		e.flushThreshold = n

		return nil
	})
}

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(e *Engine) {
		e.logger = logger
	})
}

// New creates an indexing engine over st.
func New(st store.Store, opts ...Option) (*Engine, error) {
	e := &Engine{
		st:             st,
		frag:           index.NewFragment(),
		codec:          format.CodecGolomb,
		gram:           DefaultGramSize,
		flushThreshold: DefaultFlushThreshold,
		logger:         slog.Default(),
	}
	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	return e, nil
}

// Codec returns the posting codec the engine encodes and decodes with.
func (e *Engine) Codec() format.PostingCodec {
	return e.codec
}

// GramSize returns the tokenizer's N.
func (e *Engine) GramSize() int {
	return e.gram
}

// AddDocument registers the document with the store, tokenizes its body into
// the session fragment, and flushes when the buffered document count reaches
// the flush threshold. It returns the assigned document id.
func (e *Engine) AddDocument(title, body string) (uint32, error) {
	docID, err := e.st.AddDocument(title, body)
	if err != nil {
		return 0, fmt.Errorf("seki: register document %q: %w", title, err)
	}

	if err := index.IndexText(e.st, docID, body, e.gram, e.frag, e.logger); err != nil {
		return 0, fmt.Errorf("seki: index document %q: %w", title, err)
	}
	e.buffered++

	if e.flushThreshold > 0 && e.buffered >= e.flushThreshold {
		if err := e.Flush(); err != nil {
			return 0, err
		}
	}

	return docID, nil
}

// Flush writes the session fragment through to the store and empties it.
func (e *Engine) Flush() error {
	if e.frag.Len() == 0 {
		e.buffered = 0
		return nil
	}

	if err := e.frag.Flush(e.st, e.codec, e.logger); err != nil {
		return fmt.Errorf("seki: flush: %w", err)
	}
	e.buffered = 0

	return nil
}

// Search runs a phrase query against the store. Any buffered documents are
// flushed first so that results always reflect every added document.
func (e *Engine) Search(query string) ([]search.Match, error) {
	if err := e.Flush(); err != nil {
		return nil, err
	}

	return search.Phrase(e.st, query, e.gram, e.codec, e.logger)
}

// Package search evaluates phrase queries against a store.
//
// A query is tokenized exactly like a document, except that grams shorter
// than N are dropped. Every query token must occur in a candidate document
// with the same relative spacing it has in the query, so results are true
// phrase matches, not bag-of-token matches.
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/arloliu/seki/encoding"
	"github.com/arloliu/seki/format"
	"github.com/arloliu/seki/index"
	"github.com/arloliu/seki/posting"
	"github.com/arloliu/seki/store"
)

// ErrEmptyQuery reports a query that produced no usable tokens, such as one
// shorter than the gram size or made only of ignored characters.
var ErrEmptyQuery = errors.New("search: query produced no tokens")

// Match is one document matching a phrase query.
type Match struct {
	DocumentID uint32
	Title      string
	// Count is the number of distinct phrase start positions in the document.
	Count uint32
}

// queryToken is one distinct token of the query with its decoded posting
// list and the positions it occupies within the query.
type queryToken struct {
	tokenID   uint32
	docsCount uint32
	queryPos  []uint32
	postings  posting.List
}

// Phrase runs a phrase query and returns the matching documents sorted by
// ascending document id.
//
// A query token unknown to the store means no document can match; the
// result is empty rather than an error. Decode failures and store failures
// surface unchanged.
func Phrase(st store.Store, query string, n int, codec format.PostingCodec, logger *slog.Logger) ([]Match, error) {
	if logger == nil {
		logger = slog.Default()
	}

	frag := index.NewFragment()
	if err := index.IndexText(st, 0, query, n, frag, logger); err != nil {
		if errors.Is(err, store.ErrTokenNotFound) {
			return nil, nil
		}

		return nil, err
	}
	if frag.Len() == 0 {
		return nil, ErrEmptyQuery
	}

	tokens, err := resolveQueryTokens(st, frag, codec)
	if err != nil {
		if errors.Is(err, store.ErrPostingsNotFound) {
			return nil, nil
		}

		return nil, err
	}

	// Drive the intersection from the rarest token; every other list is
	// probed by binary search.
	sort.Slice(tokens, func(i, j int) bool {
		return tokens[i].docsCount < tokens[j].docsCount
	})

	if logger.Enabled(context.Background(), slog.LevelDebug) {
		for _, qt := range tokens {
			if token, err := st.GetToken(qt.tokenID); err == nil {
				logger.Debug("query token", "token", string(token), "docs_count", qt.docsCount)
			}
		}
	}

	var matches []Match
	driver := tokens[0]
	for i := range driver.postings {
		docID := driver.postings[i].DocumentID
		count := phraseCount(tokens, docID)
		if count == 0 {
			continue
		}

		title, err := st.GetDocumentTitle(docID)
		if err != nil {
			return nil, fmt.Errorf("search: resolve document %d: %w", docID, err)
		}
		matches = append(matches, Match{DocumentID: docID, Title: title, Count: count})
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].DocumentID < matches[j].DocumentID
	})

	return matches, nil
}

// resolveQueryTokens fetches and decodes the posting list of every distinct
// query token.
func resolveQueryTokens(st store.Store, frag *index.Fragment, codec format.PostingCodec) ([]queryToken, error) {
	ids := frag.TokenIDs()
	tokens := make([]queryToken, 0, len(ids))
	for _, tokenID := range ids {
		queryPostings, _ := frag.Postings(tokenID)
		docsCount, _ := frag.DocsCount(tokenID)

		storedCount, blob, err := st.GetPostings(tokenID)
		if err != nil {
			return nil, err
		}
		list, err := encoding.DecodePostings(blob, codec, storedCount)
		if err != nil {
			return nil, fmt.Errorf("search: decode postings of token %d: %w", tokenID, err)
		}

		tokens = append(tokens, queryToken{
			tokenID:   tokenID,
			docsCount: docsCount,
			queryPos:  queryPostings[0].Positions,
			postings:  list,
		})
	}

	return tokens, nil
}

// phraseCount returns the number of phrase start positions in docID at which
// every query token occurs with its query spacing.
func phraseCount(tokens []queryToken, docID uint32) uint32 {
	entries := make([]*posting.Entry, len(tokens))
	for i := range tokens {
		e := tokens[i].postings.Find(docID)
		if e == nil {
			return 0
		}
		entries[i] = e
	}

	// Candidate bases come from the driver token's occurrences, offset by
	// its first in-query position.
	anchor := tokens[0].queryPos[0]
	var count uint32
	for _, p := range entries[0].Positions {
		if p < anchor {
			continue
		}
		base := p - anchor
		if phraseAt(tokens, entries, base) {
			count++
		}
	}

	return count
}

func phraseAt(tokens []queryToken, entries []*posting.Entry, base uint32) bool {
	for i := range tokens {
		for _, qp := range tokens[i].queryPos {
			if _, found := slices.BinarySearch(entries[i].Positions, base+qp); !found {
				return false
			}
		}
	}

	return true
}

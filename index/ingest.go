package index

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/seki/ngram"
	"github.com/arloliu/seki/store"
)

// IndexText tokenizes text into N-grams and records every occurrence into
// frag.
//
// With documentID > 0 the text is a document body: grams shorter than n at
// the end of indexable runs are kept, and token-id lookup failures are
// logged and skipped so one bad token does not abort the document.
//
// With documentID == 0 the text is a query: short grams are dropped so the
// query cannot match spurious suffix substrings, unknown tokens surface as
// store.ErrTokenNotFound, and each new entry's docs count is seeded from the
// store's authoritative count for use by the search planner.
//
// Occurrences are first collected into a fresh fragment and then merged into
// frag, so frag may already hold postings from earlier documents.
func IndexText(st store.Store, documentID uint32, text string, n int, frag *Fragment, logger *slog.Logger) error {
	if n < 2 {
		return fmt.Errorf("index: gram size %d too small", n)
	}
	if logger == nil {
		logger = slog.Default()
	}

	local := NewFragment()
	for position, gram := range ngram.Split([]rune(text), n) {
		// Short tails match partial tokens; only documents index them.
		if len(gram) < n && documentID == 0 {
			continue
		}

		tokenID, docsCount, err := st.GetTokenID([]byte(string(gram)), documentID)
		if err != nil {
			if documentID == 0 {
				return err
			}
			logger.Warn("skipping token occurrence",
				"document_id", documentID,
				"position", position,
				"error", err,
			)

			continue
		}

		hint := uint32(1)
		if documentID == 0 {
			hint = docsCount
		}
		local.Insert(tokenID, documentID, position, hint)
	}

	frag.Merge(local)

	return nil
}

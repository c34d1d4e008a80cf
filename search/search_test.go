package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/seki/format"
	"github.com/arloliu/seki/index"
	"github.com/arloliu/seki/store/memory"
)

// buildIndex ingests and flushes the given bodies as documents 1..n.
func buildIndex(t *testing.T, codec format.PostingCodec, bodies ...string) *memory.Store {
	t.Helper()

	st, err := memory.New(format.CompressionNone)
	require.NoError(t, err)

	frag := index.NewFragment()
	for i, body := range bodies {
		docID, err := st.AddDocument("doc", body)
		require.NoError(t, err)
		require.Equal(t, uint32(i+1), docID)
		require.NoError(t, index.IndexText(st, docID, body, 2, frag, nil))
	}
	require.NoError(t, frag.Flush(st, codec, nil))

	return st
}

func TestPhrase_SingleDocument(t *testing.T) {
	for _, codec := range []format.PostingCodec{format.CodecNone, format.CodecGolomb} {
		t.Run(codec.String(), func(t *testing.T) {
			st := buildIndex(t, codec, "hello world")

			matches, err := Phrase(st, "hello", 2, codec, nil)
			require.NoError(t, err)
			require.Len(t, matches, 1)
			require.Equal(t, uint32(1), matches[0].DocumentID)
			require.Greater(t, matches[0].Count, uint32(0))
		})
	}
}

func TestPhrase_MatchesOnlyContainingDocuments(t *testing.T) {
	st := buildIndex(t, format.CodecGolomb, "東京都に住む", "京都に住む", "大阪に住む")

	matches, err := Phrase(st, "東京", 2, format.CodecGolomb, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, uint32(1), matches[0].DocumentID)

	// "京都" appears in documents 1 (as a substring of 東京都) and 2.
	matches, err = Phrase(st, "京都", 2, format.CodecGolomb, nil)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	require.Equal(t, uint32(1), matches[0].DocumentID)
	require.Equal(t, uint32(2), matches[1].DocumentID)
}

func TestPhrase_AdjacencyRequired(t *testing.T) {
	// Both documents contain the grams "ab" and "cd", but only document 1
	// contains them adjacently as the phrase "abcd".
	st := buildIndex(t, format.CodecNone, "abcd", "ab cd xx")

	matches, err := Phrase(st, "abcd", 2, format.CodecNone, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, uint32(1), matches[0].DocumentID)
}

func TestPhrase_CountsOccurrences(t *testing.T) {
	st := buildIndex(t, format.CodecGolomb, "abxabxab")

	matches, err := Phrase(st, "ab", 2, format.CodecGolomb, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, uint32(3), matches[0].Count)
}

func TestPhrase_UnknownTokenMeansNoMatch(t *testing.T) {
	st := buildIndex(t, format.CodecGolomb, "hello world")

	matches, err := Phrase(st, "zq", 2, format.CodecGolomb, nil)
	require.NoError(t, err)
	require.Empty(t, matches)
}

func TestPhrase_ShortQuery(t *testing.T) {
	st := buildIndex(t, format.CodecGolomb, "hello world")

	// A single character cannot form a full gram in query mode.
	_, err := Phrase(st, "h", 2, format.CodecGolomb, nil)
	require.ErrorIs(t, err, ErrEmptyQuery)

	_, err = Phrase(st, " .,", 2, format.CodecGolomb, nil)
	require.ErrorIs(t, err, ErrEmptyQuery)
}

func TestPhrase_RepeatedQueryToken(t *testing.T) {
	// The query "abab" holds the gram "ab" at two positions; both must line
	// up in a match.
	st := buildIndex(t, format.CodecNone, "abab", "abxb")

	matches, err := Phrase(st, "abab", 2, format.CodecNone, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, uint32(1), matches[0].DocumentID)
}

func TestPhrase_TitleResolved(t *testing.T) {
	st, err := memory.New(format.CompressionNone)
	require.NoError(t, err)

	frag := index.NewFragment()
	docID, err := st.AddDocument("greeting", "こんにちは")
	require.NoError(t, err)
	require.NoError(t, index.IndexText(st, docID, "こんにちは", 2, frag, nil))
	require.NoError(t, frag.Flush(st, format.CodecGolomb, nil))

	matches, err := Phrase(st, "こんにちは", 2, format.CodecGolomb, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "greeting", matches[0].Title)
}

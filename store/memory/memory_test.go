package memory

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/seki/format"
	"github.com/arloliu/seki/store"
)

func TestStore_TokenDictionary(t *testing.T) {
	st, err := New(format.CompressionNone)
	require.NoError(t, err)

	id1, docs, err := st.GetTokenID([]byte("ab"), 1)
	require.NoError(t, err)
	require.Equal(t, uint32(1), id1)
	require.Equal(t, uint32(0), docs) // nothing persisted yet

	// Same token resolves to the same id.
	again, _, err := st.GetTokenID([]byte("ab"), 2)
	require.NoError(t, err)
	require.Equal(t, id1, again)

	id2, _, err := st.GetTokenID([]byte("漢字"), 1)
	require.NoError(t, err)
	require.Equal(t, uint32(2), id2)
	require.Equal(t, 2, st.TokenCount())

	token, err := st.GetToken(id2)
	require.NoError(t, err)
	require.Equal(t, []byte("漢字"), token)

	_, err = st.GetToken(99)
	require.ErrorIs(t, err, store.ErrTokenNotFound)
}

func TestStore_QueryModeLookup(t *testing.T) {
	st, err := New(format.CompressionNone)
	require.NoError(t, err)

	_, _, err = st.GetTokenID([]byte("ab"), 0)
	require.ErrorIs(t, err, store.ErrTokenNotFound)

	id, _, err := st.GetTokenID([]byte("ab"), 1)
	require.NoError(t, err)
	require.NoError(t, st.UpdatePostings(id, 3, []byte{0x01}))

	_, docs, err := st.GetTokenID([]byte("ab"), 0)
	require.NoError(t, err)
	require.Equal(t, uint32(3), docs)
}

func TestStore_PostingsRoundTrip(t *testing.T) {
	for _, compression := range []format.BlobCompression{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		t.Run(compression.String(), func(t *testing.T) {
			st, err := New(compression)
			require.NoError(t, err)

			id, _, err := st.GetTokenID([]byte("ab"), 1)
			require.NoError(t, err)

			blob := bytes.Repeat([]byte{0x07, 0x00, 0x2A, 0xFF}, 64)
			require.NoError(t, st.UpdatePostings(id, 4, blob))

			docs, data, err := st.GetPostings(id)
			require.NoError(t, err)
			require.Equal(t, uint32(4), docs)
			require.Equal(t, blob, data)
		})
	}
}

func TestStore_PostingsNotFound(t *testing.T) {
	st, err := New(format.CompressionNone)
	require.NoError(t, err)

	_, _, err = st.GetPostings(1)
	require.ErrorIs(t, err, store.ErrPostingsNotFound)
}

func TestStore_UpdatePostingsUnknownToken(t *testing.T) {
	st, err := New(format.CompressionNone)
	require.NoError(t, err)

	err = st.UpdatePostings(5, 1, []byte{0x01})
	require.ErrorIs(t, err, store.ErrTokenNotFound)
}

func TestStore_ReturnedBlobIsACopy(t *testing.T) {
	st, err := New(format.CompressionNone)
	require.NoError(t, err)

	id, _, err := st.GetTokenID([]byte("ab"), 1)
	require.NoError(t, err)
	require.NoError(t, st.UpdatePostings(id, 1, []byte{0x01, 0x02}))

	_, data, err := st.GetPostings(id)
	require.NoError(t, err)
	data[0] = 0xFF

	_, again, err := st.GetPostings(id)
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02}, again)
}

func TestStore_Documents(t *testing.T) {
	st, err := New(format.CompressionNone)
	require.NoError(t, err)

	count, err := st.DocumentCount()
	require.NoError(t, err)
	require.Equal(t, uint32(0), count)

	id, err := st.AddDocument("first", "body one")
	require.NoError(t, err)
	require.Equal(t, uint32(1), id)

	id, err = st.AddDocument("second", "body two")
	require.NoError(t, err)
	require.Equal(t, uint32(2), id)

	count, err = st.DocumentCount()
	require.NoError(t, err)
	require.Equal(t, uint32(2), count)

	title, err := st.GetDocumentTitle(1)
	require.NoError(t, err)
	require.Equal(t, "first", title)

	_, err = st.GetDocumentTitle(3)
	require.ErrorIs(t, err, store.ErrDocumentNotFound)
	_, err = st.GetDocumentTitle(0)
	require.ErrorIs(t, err, store.ErrDocumentNotFound)
}

func TestStore_Snapshot(t *testing.T) {
	st, err := New(format.CompressionS2)
	require.NoError(t, err)

	id, _, err := st.GetTokenID([]byte("ab"), 1)
	require.NoError(t, err)
	require.NoError(t, st.UpdatePostings(id, 2, []byte{0x01, 0x02, 0x03}))
	_, err = st.AddDocument("doc", "ab")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, st.SaveSnapshot(&buf))

	restored, err := New(format.CompressionNone)
	require.NoError(t, err)
	require.NoError(t, restored.LoadSnapshot(&buf))

	// The snapshot carries the dictionary, documents, postings and the
	// blob compression of the source store.
	again, _, err := restored.GetTokenID([]byte("ab"), 0)
	require.NoError(t, err)
	require.Equal(t, id, again)

	docs, data, err := restored.GetPostings(id)
	require.NoError(t, err)
	require.Equal(t, uint32(2), docs)
	require.Equal(t, []byte{0x01, 0x02, 0x03}, data)

	title, err := restored.GetDocumentTitle(1)
	require.NoError(t, err)
	require.Equal(t, "doc", title)
}

func TestStore_ChecksumMismatch(t *testing.T) {
	st, err := New(format.CompressionNone)
	require.NoError(t, err)

	id, _, err := st.GetTokenID([]byte("ab"), 1)
	require.NoError(t, err)
	require.NoError(t, st.UpdatePostings(id, 1, []byte{0x01, 0x02}))

	// Flip a stored byte behind the store's back.
	rec := st.postings[id]
	rec.data[0] ^= 0xFF

	_, _, err = st.GetPostings(id)
	require.ErrorIs(t, err, ErrChecksumMismatch)
}

func TestStore_LoadSnapshot_Garbage(t *testing.T) {
	st, err := New(format.CompressionNone)
	require.NoError(t, err)

	err = st.LoadSnapshot(bytes.NewReader([]byte("not a snapshot")))
	require.Error(t, err)
}

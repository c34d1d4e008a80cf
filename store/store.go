// Package store defines the persistence contract the index core writes to
// and reads from.
//
// The core treats the store as an opaque key/value surface: posting blobs
// keyed by token id with a docs count carried alongside, a token dictionary
// assigning stable ids, and a document registry. Implementations serialize
// access internally; the index core itself is single-writer.
package store

import "errors"

var (
	// ErrPostingsNotFound reports that no posting blob is stored for a token.
	ErrPostingsNotFound = errors.New("store: postings not found")
	// ErrTokenNotFound reports an unknown token or token id.
	ErrTokenNotFound = errors.New("store: token not found")
	// ErrDocumentNotFound reports an unknown document id.
	ErrDocumentNotFound = errors.New("store: document not found")
)

// Store is the narrow persistence surface used by the index core.
type Store interface {
	// GetPostings returns the encoded posting blob for tokenID together
	// with the docs count stored alongside it. It returns
	// ErrPostingsNotFound when the token has no persisted postings yet.
	GetPostings(tokenID uint32) (docsCount uint32, data []byte, err error)

	// UpdatePostings replaces the posting blob for tokenID. The blob is
	// opaque to the store; docsCount is kept out-of-band for decode
	// verification.
	UpdatePostings(tokenID uint32, docsCount uint32, data []byte) error

	// GetTokenID resolves a UTF-8 token to its stable id.
	//
	// With documentID > 0 (indexing) an id is assigned when the token is
	// new. With documentID == 0 (query) unknown tokens fail with
	// ErrTokenNotFound, and docsCount carries the authoritative number of
	// documents the token occurs in.
	GetTokenID(token []byte, documentID uint32) (tokenID uint32, docsCount uint32, err error)

	// GetToken returns the UTF-8 token for an id assigned by GetTokenID.
	GetToken(tokenID uint32) ([]byte, error)

	// DocumentCount returns the number of registered documents.
	DocumentCount() (uint32, error)

	// AddDocument registers a document body under a title and assigns the
	// next document id, starting from 1.
	AddDocument(title string, body string) (uint32, error)

	// GetDocumentTitle returns the title a document was registered with.
	GetDocumentTitle(documentID uint32) (string, error)
}

package compress

// ZstdCompressor provides Zstandard compression for stored posting blobs.
//
// It favors compression ratio over speed, which suits cold index segments
// and snapshots where blobs are written once and read rarely.
//
// Two backends implement the codec. When cgo is available the libzstd
// bindings are used; otherwise the pure-Go implementation from
// klauspost/compress takes over. Both produce interchangeable frames.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

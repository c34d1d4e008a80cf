// Package compress provides the at-rest compression codecs the store can
// apply to encoded posting blobs.
//
// Compression here is layered below the posting codecs: a blob is first
// serialized by the encoding package and then optionally compressed as a
// whole before it is written to the store. Golomb-coded blobs are already
// dense, so compression pays off mainly for the flat CodecNone format and
// for long posting lists.
package compress

import (
	"fmt"

	"github.com/arloliu/seki/format"
)

// Compressor compresses a posting blob.
type Compressor interface {
	// Compress compresses the input data and returns the compressed result.
	//
	// The returned slice is newly allocated and owned by the caller; the
	// input slice is not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a posting blob compressed by the matching Compressor.
type Decompressor interface {
	// Decompress decompresses the input data and returns the original
	// result. It returns an error when the data is corrupted or was
	// produced by a different algorithm.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// ForType returns the codec implementing the given blob compression type.
func ForType(t format.BlobCompression) (Codec, error) {
	switch t {
	case format.CompressionNone:
		return NewNoOpCompressor(), nil
	case format.CompressionZstd:
		return NewZstdCompressor(), nil
	case format.CompressionS2:
		return NewS2Compressor(), nil
	case format.CompressionLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("compress: unknown blob compression type %d", t)
	}
}

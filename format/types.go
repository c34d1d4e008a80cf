package format

type (
	// PostingCodec selects the wire representation of posting lists.
	PostingCodec uint8
	// BlobCompression selects the at-rest compression applied to stored posting blobs.
	BlobCompression uint8
)

const (
	CodecNone   PostingCodec = 0x1 // CodecNone represents the flat word-aligned posting format.
	CodecGolomb PostingCodec = 0x2 // CodecGolomb represents the gap-coded bit-packed posting format.

	CompressionNone BlobCompression = 0x1 // CompressionNone represents no compression.
	CompressionZstd BlobCompression = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   BlobCompression = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  BlobCompression = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (c PostingCodec) String() string {
	switch c {
	case CodecNone:
		return "None"
	case CodecGolomb:
		return "Golomb"
	default:
		return "Unknown"
	}
}

// Valid reports whether c is a recognized posting codec.
func (c PostingCodec) Valid() bool {
	return c == CodecNone || c == CodecGolomb
}

func (b BlobCompression) String() string {
	switch b {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Valid reports whether b is a recognized blob compression type.
func (b BlobCompression) Valid() bool {
	return b >= CompressionNone && b <= CompressionLZ4
}

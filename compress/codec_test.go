package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/seki/format"
)

func testBlob() []byte {
	// A posting-like blob: repetitive little-endian words compress well.
	var buf bytes.Buffer
	for i := 0; i < 256; i++ {
		buf.Write([]byte{byte(i), 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00})
	}

	return buf.Bytes()
}

func TestForType(t *testing.T) {
	for _, compression := range []format.BlobCompression{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		codec, err := ForType(compression)
		require.NoError(t, err, compression.String())
		require.NotNil(t, codec, compression.String())
	}

	_, err := ForType(format.BlobCompression(0xFF))
	require.Error(t, err)
}

func TestCodecs_RoundTrip(t *testing.T) {
	data := testBlob()
	for _, compression := range []format.BlobCompression{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		t.Run(compression.String(), func(t *testing.T) {
			codec, err := ForType(compression)
			require.NoError(t, err)

			compressed, err := codec.Compress(data)
			require.NoError(t, err)

			restored, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Equal(t, data, restored)
		})
	}
}

func TestCodecs_EmptyInput(t *testing.T) {
	for _, compression := range []format.BlobCompression{
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		codec, err := ForType(compression)
		require.NoError(t, err)

		compressed, err := codec.Compress(nil)
		require.NoError(t, err)
		require.Empty(t, compressed)

		restored, err := codec.Decompress(nil)
		require.NoError(t, err)
		require.Empty(t, restored)
	}
}

func TestCodecs_CompressionShrinksBlob(t *testing.T) {
	data := testBlob()
	for _, compression := range []format.BlobCompression{
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	} {
		codec, err := ForType(compression)
		require.NoError(t, err)

		compressed, err := codec.Compress(data)
		require.NoError(t, err)
		require.Less(t, len(compressed), len(data), compression.String())
	}
}

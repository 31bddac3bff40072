package compress

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilrost-go/bilrost/errs"
)

func testPayload(size int) []byte {
	// Repetitive structure so every real codec actually shrinks it.
	rng := rand.New(rand.NewSource(99))
	pattern := make([]byte, 64)
	rng.Read(pattern)

	out := make([]byte, 0, size)
	for len(out) < size {
		out = append(out, pattern...)
	}

	return out[:size]
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "none", TypeNone.String())
	assert.Equal(t, "zstd", TypeZstd.String())
	assert.Equal(t, "s2", TypeS2.String())
	assert.Equal(t, "lz4", TypeLZ4.String())
	assert.Equal(t, "invalid", Type(0).String())
	assert.Equal(t, "invalid", Type(9).String())
}

func TestNew(t *testing.T) {
	for _, typ := range []Type{TypeNone, TypeZstd, TypeS2, TypeLZ4} {
		codec, err := New(typ)
		require.NoError(t, err)
		require.NotNil(t, codec)
	}

	_, err := New(Type(0))
	require.ErrorIs(t, err, errs.ErrInvalidCompressionType)
	_, err = New(Type(0xFF))
	require.ErrorIs(t, err, errs.ErrInvalidCompressionType)
}

func TestRoundTrips(t *testing.T) {
	payload := testPayload(32 * 1024)

	for _, typ := range []Type{TypeNone, TypeZstd, TypeS2, TypeLZ4} {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := New(typ)
			require.NoError(t, err)

			compressed, err := codec.Compress(payload)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.True(t, bytes.Equal(payload, decompressed))

			if typ != TypeNone {
				assert.Less(t, len(compressed), len(payload),
					"repetitive payload should shrink")
			}
		})
	}
}

func TestEmptyInput(t *testing.T) {
	for _, typ := range []Type{TypeNone, TypeZstd, TypeS2, TypeLZ4} {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := New(typ)
			require.NoError(t, err)

			compressed, err := codec.Compress(nil)
			require.NoError(t, err)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			assert.Empty(t, decompressed)
		})
	}
}

func TestDecompressRejectsCorruptInput(t *testing.T) {
	garbage := []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x02, 0x03}

	for _, typ := range []Type{TypeZstd, TypeLZ4} {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := New(typ)
			require.NoError(t, err)

			_, err = codec.Decompress(garbage)
			require.Error(t, err)
		})
	}
}

func TestNoOpAliasesInput(t *testing.T) {
	c := NewNoOpCompressor()
	in := []byte{1, 2, 3}

	out, err := c.Compress(in)
	require.NoError(t, err)
	require.Equal(t, &in[0], &out[0], "no-op codec passes the slice through")
}

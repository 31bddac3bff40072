package compress

import (
	"fmt"

	"github.com/bilrost-go/bilrost/errs"
)

// Type identifies a compression algorithm in a container header's
// compression byte. The zero value is deliberately invalid so an
// uninitialized header can't silently mean "no compression".
type Type uint8

const (
	TypeNone Type = 0x1
	TypeZstd Type = 0x2
	TypeS2   Type = 0x3
	TypeLZ4  Type = 0x4
)

// String renders the type the way header dumps and errors want it.
func (t Type) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeZstd:
		return "zstd"
	case TypeS2:
		return "s2"
	case TypeLZ4:
		return "lz4"
	default:
		return "invalid"
	}
}

// Valid reports whether t names a supported algorithm.
func (t Type) Valid() bool {
	return t >= TypeNone && t <= TypeLZ4
}

// Compressor compresses a complete container payload in one shot.
//
// Memory management:
//   - The returned slice is owned by the caller.
//   - The input slice is not modified.
//   - Implementations may reuse internal state across calls, and must be
//     safe for concurrent use.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
}

// Decompressor is the inverse of Compressor: it validates the compressed
// format and returns an error for corrupted or mismatched input.
type Decompressor interface {
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions of one algorithm.
type Codec interface {
	Compressor
	Decompressor
}

// New returns the codec for t, or errs.ErrInvalidCompressionType for a
// type byte outside the supported set.
func New(t Type) (Codec, error) {
	switch t {
	case TypeNone:
		return NewNoOpCompressor(), nil
	case TypeZstd:
		return NewZstdCompressor(), nil
	case TypeS2:
		return NewS2Compressor(), nil
	case TypeLZ4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("%w: 0x%02x", errs.ErrInvalidCompressionType, uint8(t))
	}
}

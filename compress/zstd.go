package compress

// ZstdCompressor is the Zstandard codec: the best compression ratio of the
// supported set, for containers headed to cold storage or a network hop
// where size beats speed.
//
// Compress and Decompress live in zstd_pure.go (pure Go, default) and
// zstd_cgo.go (libzstd via cgo, behind the cgo_zstd build tag).
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

package compress

// NoOpCompressor passes data through untouched: the codec behind
// TypeNone, and the baseline for benchmarking the others.
type NoOpCompressor struct{}

var _ Codec = (*NoOpCompressor)(nil)

// NewNoOpCompressor creates a pass-through codec.
func NewNoOpCompressor() NoOpCompressor {
	return NoOpCompressor{}
}

// Compress returns the input slice as-is, no copy. Callers must not modify
// the input afterward if they keep the result.
func (c NoOpCompressor) Compress(data []byte) ([]byte, error) {
	return data, nil
}

// Decompress returns the input slice as-is, no copy.
func (c NoOpCompressor) Decompress(data []byte) ([]byte, error) {
	return data, nil
}

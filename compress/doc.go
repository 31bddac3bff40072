// Package compress provides the payload compression codecs the container
// format selects between. Compression applies to a container's
// concatenated message payload as a whole, after every message has been
// encoded, and is recorded in the container header so readers can pick the
// matching decompressor.
//
// Four algorithms are supported:
//   - None: no compression (fastest, largest)
//   - Zstd: best ratio, moderate speed
//   - S2: balanced ratio and speed
//   - LZ4: fastest decompression, moderate ratio
//
// All codecs operate block-wise on an in-memory slice and are safe for
// concurrent use; encoder and decoder state is pooled internally where the
// underlying library benefits from reuse.
//
// The Zstd codec has two interchangeable backends: the pure-Go
// klauspost/compress implementation (default) and a cgo binding to
// libzstd via valyala/gozstd, selected with the cgo_zstd build tag for
// deployments that want the native library's throughput.
package compress

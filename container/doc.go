// Package container stores many encoded messages together in one binary
// blob with O(1) lookup: a fixed 32-byte header, an index of
// (id, offset, length) entries, and a payload of concatenated encodings,
// optionally compressed as a whole.
//
// Entries are keyed either by a caller-supplied 64-bit ID or by a string
// key hashed with xxHash64. Hash collisions among string keys are handled
// by appending a names payload the reader uses to disambiguate; collisions
// among raw IDs are an error at write time, since there is nothing to
// disambiguate with.
//
// The payload carries an xxHash64 checksum, verified when a reader opens
// the blob. The container framing itself is a fixed binary layout, not a
// bilrost message: it is the envelope around encodings, not one of them.
//
// Writing:
//
//	w, err := container.NewWriter(container.WithCompression(compress.TypeZstd))
//	w.Add("config/current", encodedMsg)
//	blob, err := w.Finish()
//
// Reading:
//
//	r, err := container.NewReader(blob)
//	payload, err := r.Get("config/current")
package container

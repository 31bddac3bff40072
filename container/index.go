package container

import (
	"github.com/bilrost-go/bilrost/endian"
)

// IndexEntry locates one message inside the container's uncompressed
// payload.
type IndexEntry struct {
	// ID is the entry's 64-bit key: caller-supplied, or the xxHash64 of
	// the entry's string key.
	ID uint64
	// Offset is the byte offset of the encoding inside the uncompressed
	// payload.
	Offset uint32
	// Length is the encoding's byte length.
	Length uint32
}

// appendIndexEntry serializes e onto b in the container's byte order.
func appendIndexEntry(b []byte, e IndexEntry, engine endian.EndianEngine) []byte {
	b = engine.AppendUint64(b, e.ID)
	b = engine.AppendUint32(b, e.Offset)
	b = engine.AppendUint32(b, e.Length)

	return b
}

// parseIndexEntry reads one entry from the front of b, which must hold at
// least IndexEntrySize bytes.
func parseIndexEntry(b []byte, engine endian.EndianEngine) IndexEntry {
	return IndexEntry{
		ID:     engine.Uint64(b[0:8]),
		Offset: engine.Uint32(b[8:12]),
		Length: engine.Uint32(b[12:16]),
	}
}

package container

import (
	"github.com/bilrost-go/bilrost/errs"
)

// HeaderSize is the fixed byte length of a container header.
const HeaderSize = 32

// IndexEntrySize is the fixed byte length of one index entry: a 64-bit ID,
// a 32-bit payload offset, and a 32-bit length.
const IndexEntrySize = 16

// Header is the fixed-size section at the front of every container.
type Header struct {
	// Flag packs the magic number, endianness, names bit, and compression
	// type. Byte offsets 0-3 (Options 0-1, compression 2, reserved 3).
	Flag Flag
	// EntryCount is the number of index entries. Byte offsets 4-7.
	EntryCount uint32
	// IndexOffset is the byte offset of the index section, always
	// HeaderSize in version 1. Byte offsets 8-11.
	IndexOffset uint32
	// PayloadOffset is the byte offset of the (possibly compressed)
	// message payload, directly after the index. Byte offsets 12-15.
	PayloadOffset uint32
	// NamesOffset is the byte offset of the names payload, 0 when the
	// names bit is clear. Byte offsets 16-19.
	NamesOffset uint32
	// PayloadChecksum is the xxHash64 of the payload bytes as stored
	// (after compression). Byte offsets 20-27; offsets 28-31 are reserved.
	PayloadChecksum uint64
}

// NewHeader returns a header with the default flag and the fixed index
// offset; counts and offsets are filled in by Writer.Finish.
func NewHeader() Header {
	return Header{
		Flag:        NewFlag(),
		IndexOffset: HeaderSize,
	}
}

// Bytes serializes the header into a fresh 32-byte slice.
func (h Header) Bytes() []byte {
	b := make([]byte, HeaderSize)

	// The Options word is always little-endian so a reader can find the
	// endianness bit before knowing the endianness.
	b[0] = byte(h.Flag.Options)
	b[1] = byte(h.Flag.Options >> 8)
	b[2] = h.Flag.CompressionType
	b[3] = 0

	engine := h.Flag.GetEndianEngine()
	engine.PutUint32(b[4:8], h.EntryCount)
	engine.PutUint32(b[8:12], h.IndexOffset)
	engine.PutUint32(b[12:16], h.PayloadOffset)
	engine.PutUint32(b[16:20], h.NamesOffset)
	engine.PutUint64(b[20:28], h.PayloadChecksum)

	return b
}

// Parse fills h from data, which must be at least HeaderSize bytes, and
// validates the flag.
func (h *Header) Parse(data []byte) error {
	if len(data) < HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	h.Flag.Options = uint16(data[0]) | uint16(data[1])<<8
	h.Flag.CompressionType = data[2]

	if err := h.Flag.Validate(); err != nil {
		return err
	}

	engine := h.Flag.GetEndianEngine()
	h.EntryCount = engine.Uint32(data[4:8])
	h.IndexOffset = engine.Uint32(data[8:12])
	h.PayloadOffset = engine.Uint32(data[12:16])
	h.NamesOffset = engine.Uint32(data[16:20])
	h.PayloadChecksum = engine.Uint64(data[20:28])

	return nil
}

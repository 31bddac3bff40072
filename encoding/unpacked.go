package encoding

import (
	"github.com/bilrost-go/bilrost/varint"
	"github.com/bilrost-go/bilrost/wire"
)

// EncodeUnpacked writes one full field key and value per element of
// values, in order — the repeated-field counterpart of a plain field,
// distinguished from Packed by paying a key per element instead of one
// length prefix for the whole collection. Decode needs no dedicated
// Unpacked codec: each occurrence decodes with elem.Decode exactly like a
// plain field, and the caller's dispatch loop appends each one as it sees
// the same tag recur.
func EncodeUnpacked[T any](tag uint32, values []T, elem Codec[T], tw *wire.Writer, sink varint.Sink) {
	for _, v := range values {
		tw.EncodeKey(tag, elem.WireType, sink)
		elem.Encode(v, sink)
	}
}

// PrependUnpacked is the reverse-buffer counterpart of EncodeUnpacked.
// Elements are prepended in reverse index order so the final forward
// layout preserves the slice's original order. BeginField runs before each
// value so the key it flushes (the key of the element one position later)
// lands directly in front of that element's bytes.
func PrependUnpacked[T any](tag uint32, values []T, elem Codec[T], tw *wire.RevWriter, sink varint.ReverseSink) {
	for i := len(values) - 1; i >= 0; i-- {
		tw.BeginField(tag, elem.WireType, sink)
		elem.Prepend(values[i], sink)
	}
}

// EncodedLenUnpacked returns the total byte length EncodeUnpacked would
// write for values.
func EncodedLenUnpacked[T any](tag uint32, values []T, elem Codec[T], tm wire.Measurer) int {
	total := 0
	for _, v := range values {
		total += tm.KeyLen(tag) + elem.EncodedLen(v)
	}

	return total
}

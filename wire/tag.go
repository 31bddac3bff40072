package wire

import (
	"github.com/bilrost-go/bilrost/errs"
	"github.com/bilrost-go/bilrost/reader"
	"github.com/bilrost-go/bilrost/varint"
)

// Writer sequences field keys for forward (append) encoding. A field's key
// is the delta between its tag and the previously-written tag, packed into
// the high bits above the two wire-type bits; fields must be written in
// non-decreasing tag order.
//
// The zero Writer is ready to use.
type Writer struct {
	lastTag uint32
}

// EncodeKey writes the key for tag/wireType to sink and advances the
// writer's notion of the last tag written. Panics if tag is less than the
// previously written tag — out-of-order field emission is a programming
// error, not a runtime condition callers recover from.
func (w *Writer) EncodeKey(tag uint32, wireType Type, sink varint.Sink) {
	if tag < w.lastTag {
		panic("wire: fields encoded out of order")
	}
	delta := tag - w.lastTag
	w.lastTag = tag
	varint.Encode(uint64(delta)<<2|uint64(wireType), sink)
}

// RevWriter sequences field keys for prepend (reverse) encoding. Because a
// reverse buffer is filled back-to-front, the key for a field can't be
// written until the *next* field's key is already known (the delta is
// always relative to the prior field in forward order, which is written
// later in reverse order) — so RevWriter holds one pending (tag, wireType)
// pair and only emits it once a subsequent BeginField or Finalize supplies
// the tag it should be measured against.
//
// The zero RevWriter is ready to use.
type RevWriter struct {
	pending  bool
	tag      uint32
	wireType Type
}

// BeginField records that a field with this tag/wireType is about to be
// prepended, first flushing the previously pending field's key (now that
// its delta against this tag is known). Fields must be supplied in
// non-increasing tag order, since they arrive in reverse of their final
// forward order.
func (w *RevWriter) BeginField(tag uint32, wireType Type, sink varint.ReverseSink) {
	if w.pending {
		if tag > w.tag {
			panic("wire: fields prepended out of order")
		}
		delta := w.tag - tag
		varint.Prepend(uint64(delta)<<2|uint64(w.wireType), sink)
	}
	w.tag = tag
	w.wireType = wireType
	w.pending = true
}

// Finalize flushes the first field's key (the one with the smallest tag),
// which has no predecessor to take a delta against, so its own tag is its
// delta. It is a no-op if no field was ever begun.
func (w *RevWriter) Finalize(sink varint.ReverseSink) {
	if !w.pending {
		return
	}
	varint.Prepend(uint64(w.tag)<<2|uint64(w.wireType), sink)
	w.pending = false
}

// Measurer computes the encoded length of a key without writing it,
// advancing its internal state exactly as Writer.EncodeKey would.
type Measurer interface {
	KeyLen(tag uint32) int
}

// RuntimeMeasurer is a Measurer for schemas whose tags aren't known to be
// small and contiguous at compile time: it tracks the last tag and computes
// the real varint length of each key delta.
type RuntimeMeasurer struct {
	lastTag uint32
}

// KeyLen returns the byte length of the key that would be written next for
// tag, and advances the measurer's state as if it had been written.
func (m *RuntimeMeasurer) KeyLen(tag uint32) int {
	if tag < m.lastTag {
		panic("wire: fields encoded out of order")
	}
	delta := tag - m.lastTag
	m.lastTag = tag

	return varint.EncodedLen(uint64(delta) << 2)
}

// TrivialMeasurer is a Measurer for schemas whose every tag is known to
// pack into a single-byte key (tag < 32 decreasing no more than delta 31),
// letting the measurement skip varint-length arithmetic entirely.
type TrivialMeasurer struct{}

// KeyLen always returns 1. Behavior is undefined if used with a tag whose
// key wouldn't actually fit in a single byte; callers only reach for
// TrivialMeasurer when that's been established some other way (typically
// by code generation from a schema with few, dense tags).
func (TrivialMeasurer) KeyLen(uint32) int { return 1 }

// Reader sequences field keys for decoding: the inverse of Writer.
//
// The zero Reader is ready to use.
type Reader struct {
	lastTag uint32
}

// DecodeKey reads one field key from the capped source and returns its
// absolute tag and wire type.
//
// Errors:
//   - errs.ErrTagOverflowed: the delta or resulting tag doesn't fit in a
//     uint32.
func (r *Reader) DecodeKey(c *reader.Capped) (uint32, Type, error) {
	key, err := c.DecodeVarint()
	if err != nil {
		return 0, 0, err
	}

	deltaU64 := key >> 2
	if deltaU64 > 0xFFFFFFFF {
		return 0, 0, errs.ErrTagOverflowed
	}

	tag := r.lastTag + uint32(deltaU64)
	if tag < r.lastTag {
		return 0, 0, errs.ErrTagOverflowed
	}

	r.lastTag = tag

	return tag, FromByte(byte(key)), nil
}

// CheckType returns errs.ErrWrongWireType if actual doesn't match expected.
func CheckType(expected, actual Type) error {
	if expected != actual {
		return errs.ErrWrongWireType
	}

	return nil
}

package message

import (
	"github.com/bilrost-go/bilrost/buffer"
	"github.com/bilrost-go/bilrost/errs"
	"github.com/bilrost-go/bilrost/internal/options"
	"github.com/bilrost-go/bilrost/varint"
	"github.com/bilrost-go/bilrost/wire"
)

// EncodedLen returns the total number of bytes Encode would emit for m.
func EncodedLen(m Message) int {
	var tm wire.RuntimeMeasurer

	return m.EncodedLenFields(&tm)
}

// Encode appends m's encoding to sink. The sink's remaining capacity is
// checked against the full encoded length before anything is written, so a
// failed encode leaves the sink untouched.
func Encode(m Message, sink varint.Sink) error {
	required := EncodedLen(m)
	if remaining := sink.Remaining(); remaining < required {
		return &errs.EncodeError{Required: required, Remaining: remaining}
	}

	var tw wire.Writer
	m.EncodeFields(&tw, sink)

	return nil
}

// EncodeLengthDelimited appends m's encoding prefixed with its varint
// length, the framing nested messages use.
func EncodeLengthDelimited(m Message, sink varint.Sink) error {
	inner := EncodedLen(m)
	required := varint.EncodedLen(uint64(inner)) + inner
	if remaining := sink.Remaining(); remaining < required {
		return &errs.EncodeError{Required: required, Remaining: remaining}
	}

	varint.Encode(uint64(inner), sink)
	var tw wire.Writer
	m.EncodeFields(&tw, sink)

	return nil
}

// EncodeToVec encodes m into a freshly allocated, exactly sized byte slice.
func EncodeToVec(m Message) []byte {
	n := EncodedLen(m)
	sink := buffer.NewFixed(make([]byte, n))
	var tw wire.Writer
	m.EncodeFields(&tw, sink)

	return sink.Bytes()
}

// EncodeFast encodes m by prepending into a reverse buffer, field by field
// in descending tag order, so nested length prefixes are written in the
// same single pass as their payloads. The result may span multiple chunks;
// forward it with CopyTo or Bytes, which produce the exact bytes Encode
// appends.
func EncodeFast(m Message, opts ...EncodeOption) (*buffer.ReverseBuf, error) {
	cfg := encodeConfig{}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	rb := &buffer.ReverseBuf{}
	if cfg.reserve > 0 {
		rb.PlanReservation(cfg.reserve)
	}

	prependInto(m, rb)

	return rb, nil
}

// EncodeContiguous is EncodeFast with the reverse buffer's first chunk
// planned from the exact encoded length (never smaller than it), so the
// whole encoding lands in one contiguous chunk.
func EncodeContiguous(m Message) *buffer.ReverseBuf {
	rb := &buffer.ReverseBuf{}
	rb.PlanReservationExact(EncodedLen(m))
	prependInto(m, rb)

	return rb
}

func prependInto(m Message, sink varint.ReverseSink) {
	var tw wire.RevWriter
	m.PrependFields(&tw, sink)
	tw.Finalize(sink)
}

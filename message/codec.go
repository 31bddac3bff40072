package message

import (
	"github.com/bilrost-go/bilrost/canon"
	"github.com/bilrost-go/bilrost/encoding"
	"github.com/bilrost-go/bilrost/reader"
	"github.com/bilrost-go/bilrost/varint"
	"github.com/bilrost-go/bilrost/wire"
)

type reverseSink interface {
	varint.ReverseSink
	Remaining() int
}

// NewCodec builds the value encoding for a nested message field: a varint
// length prefix followed by the message's field encodings. newM supplies
// fresh values for decode; M is expected to be a pointer type.
//
// The codec's distinguished form is present when M also implements
// DistinguishedMessage.
func NewCodec[M Message](newM func() M) encoding.Codec[M] {
	c := encoding.Codec[M]{
		WireType: wire.LengthDelimited,
		Encode: func(v M, sink varint.Sink) {
			varint.Encode(uint64(EncodedLen(v)), sink)
			var tw wire.Writer
			v.EncodeFields(&tw, sink)
		},
		Prepend: func(v M, sink varint.ReverseSink) {
			rs, ok := sink.(reverseSink)
			if !ok {
				panic("message: nested Prepend requires a reverseSink with Remaining()")
			}

			start := rs.Remaining()
			prependInto(v, sink)
			varint.Prepend(uint64(rs.Remaining()-start), sink)
		},
		EncodedLen: func(v M) int {
			inner := EncodedLen(v)

			return varint.EncodedLen(uint64(inner)) + inner
		},
		Decode: func(cap *reader.Capped, ctx encoding.Context) (M, error) {
			m := newM()

			child, err := ctx.Child()
			if err != nil {
				return m, err
			}
			inner, err := cap.TakeLengthDelimited()
			if err != nil {
				return m, err
			}
			// A zero-length payload is the empty message; skip the
			// dispatch loop entirely.
			if inner.RemainingBeforeCap() == 0 {
				return m, nil
			}
			if err := decodeCapped(m, &inner, child); err != nil {
				return m, err
			}

			return m, nil
		},
		IsEmpty: func(v M) bool {
			return EncodedLen(v) == 0
		},
	}

	if _, ok := any(newM()).(DistinguishedMessage); ok {
		c.DecodeDistinguished = func(cap *reader.Capped, ctx encoding.Context) (M, canon.Canonicity, error) {
			m := newM()
			dm := any(m).(DistinguishedMessage)

			child, err := ctx.Child()
			if err != nil {
				return m, canon.Canonical, err
			}
			inner, err := cap.TakeLengthDelimited()
			if err != nil {
				return m, canon.Canonical, err
			}
			if inner.RemainingBeforeCap() == 0 {
				return m, canon.Canonical, nil
			}
			canonicity, err := decodeDistinguishedCapped(dm, &inner, child)

			return m, canonicity, err
		}
	}

	return c
}

package encoding

import (
	"github.com/bilrost-go/bilrost/canon"
	"github.com/bilrost-go/bilrost/errs"
	"github.com/bilrost-go/bilrost/reader"
	"github.com/bilrost-go/bilrost/varint"
	"github.com/bilrost-go/bilrost/wire"
)

// reverseSink is the prepend-side counterpart of Sink: buffer.ReverseBuf
// satisfies it, letting Packed's Prepend measure how many bytes it wrote
// by comparing Remaining() before and after, the same trick the forward
// encoder uses EncodedLen for.
type reverseSink interface {
	varint.ReverseSink
	Remaining() int
}

// Packed builds the length-delimited collection encoding for a slice of T:
// a single field key followed by one varint length and then every
// element's value back to back, with no per-element key. It costs one key
// and one length no matter how many elements there are, at the price of
// needing every element up front rather than being able to stream them.
func Packed[T any](elem Codec[T]) Codec[[]T] {
	c := Codec[[]T]{
		WireType: wire.LengthDelimited,
		Encode: func(v []T, sink varint.Sink) {
			inner := 0
			for _, item := range v {
				inner += elem.EncodedLen(item)
			}
			varint.Encode(uint64(inner), sink)
			for _, item := range v {
				elem.Encode(item, sink)
			}
		},
		Prepend: func(v []T, sink varint.ReverseSink) {
			rs, ok := sink.(reverseSink)
			if !ok {
				panic("encoding: Packed.Prepend requires a reverseSink with Remaining()")
			}

			start := rs.Remaining()
			for i := len(v) - 1; i >= 0; i-- {
				elem.Prepend(v[i], sink)
			}
			varint.Prepend(uint64(rs.Remaining()-start), sink)
		},
		EncodedLen: func(v []T) int {
			inner := 0
			for _, item := range v {
				inner += elem.EncodedLen(item)
			}

			return varint.EncodedLen(uint64(inner)) + inner
		},
		Decode: func(cap *reader.Capped, ctx Context) ([]T, error) {
			inner, err := takePackedRegion(cap, elem.WireType)
			if err != nil {
				return nil, err
			}

			var out []T
			for {
				has, err := inner.HasRemaining()
				if err != nil {
					return nil, err
				}
				if !has {
					break
				}

				lent := inner.Lend()
				item, err := elem.Decode(&lent, ctx)
				if err != nil {
					return nil, err
				}
				out = append(out, item)
			}

			return out, nil
		},
		IsEmpty: func(v []T) bool { return len(v) == 0 },
	}

	if elem.DecodeDistinguished != nil {
		c.DecodeDistinguished = func(cap *reader.Capped, ctx Context) ([]T, canon.Canonicity, error) {
			inner, err := takePackedRegion(cap, elem.WireType)
			if err != nil {
				return nil, canon.Canonical, err
			}

			var out []T
			canonicity := canon.Canonical
			for {
				has, err := inner.HasRemaining()
				if err != nil {
					return nil, canonicity, err
				}
				if !has {
					break
				}

				lent := inner.Lend()
				item, c, err := elem.DecodeDistinguished(&lent, ctx)
				if err != nil {
					return nil, canonicity, err
				}
				canonicity = canon.Min(canonicity, c)
				out = append(out, item)
			}

			return out, canonicity, nil
		}
	}

	return c
}

// takePackedRegion opens the length-delimited region of a packed
// collection, rejecting payloads whose length isn't a whole multiple of the
// element width when the element's wire type implies one.
func takePackedRegion(cap *reader.Capped, elemWire wire.Type) (reader.Capped, error) {
	inner, err := cap.TakeLengthDelimited()
	if err != nil {
		return reader.Capped{}, err
	}

	if fixedSize, ok := elemWire.FixedSize(); ok {
		if inner.RemainingBeforeCap()%fixedSize != 0 {
			return reader.Capped{}, errs.ErrTruncated
		}
	}

	return inner, nil
}

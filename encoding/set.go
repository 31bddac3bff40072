package encoding

import (
	"sort"

	"github.com/bilrost-go/bilrost/canon"
	"github.com/bilrost-go/bilrost/errs"
	"github.com/bilrost-go/bilrost/reader"
	"github.com/bilrost-go/bilrost/varint"
	"github.com/bilrost-go/bilrost/wire"
)

// Set builds the packed collection encoding for a slice treated as a set:
// the wire shape is identical to Packed, but membership is unique and the
// canonical order is ascending by less. The decoded slice is always sorted,
// whatever order the wire had; a duplicate member is
// errs.ErrUnexpectedlyRepeated in either decode mode, and out-of-order
// members classify the input NotCanonical in distinguished mode.
func Set[T comparable](elem Codec[T], less func(a, b T) bool) Codec[[]T] {
	packed := Packed(elem)

	c := Codec[[]T]{
		WireType: wire.LengthDelimited,
		Encode: func(v []T, sink varint.Sink) {
			packed.Encode(sortedCopy(v, less), sink)
		},
		Prepend: func(v []T, sink varint.ReverseSink) {
			packed.Prepend(sortedCopy(v, less), sink)
		},
		EncodedLen: packed.EncodedLen,
		Decode: func(cap *reader.Capped, ctx Context) ([]T, error) {
			out, _, err := decodeSet(cap, ctx, elem, less, false)

			return out, err
		},
		IsEmpty: func(v []T) bool { return len(v) == 0 },
	}

	if elem.DecodeDistinguished != nil {
		c.DecodeDistinguished = func(cap *reader.Capped, ctx Context) ([]T, canon.Canonicity, error) {
			return decodeSet(cap, ctx, elem, less, true)
		}
	}

	return c
}

func decodeSet[T comparable](
	cap *reader.Capped,
	ctx Context,
	elem Codec[T],
	less func(a, b T) bool,
	distinguished bool,
) ([]T, canon.Canonicity, error) {
	inner, err := takePackedRegion(cap, elem.WireType)
	if err != nil {
		return nil, canon.Canonical, err
	}

	var out []T
	seen := make(map[T]struct{})
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
		var item T
		if distinguished {
			var ci canon.Canonicity
			item, ci, err = elem.DecodeDistinguished(&lent, ctx)
			if err != nil {
				return nil, canonicity, err
			}
			canonicity = canon.Min(canonicity, ci)
		} else {
			item, err = elem.Decode(&lent, ctx)
			if err != nil {
				return nil, canonicity, err
			}
		}

		if _, dup := seen[item]; dup {
			return nil, canonicity, errs.ErrUnexpectedlyRepeated
		}
		if distinguished && len(out) > 0 && !less(out[len(out)-1], item) {
			canonicity = canon.Min(canonicity, canon.NotCanonical)
		}

		seen[item] = struct{}{}
		out = append(out, item)
	}

	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })

	return out, canonicity, nil
}

func sortedCopy[T any](v []T, less func(a, b T) bool) []T {
	if sort.SliceIsSorted(v, func(i, j int) bool { return less(v[i], v[j]) }) {
		return v
	}

	out := make([]T, len(v))
	copy(out, v)
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })

	return out
}

package field

import (
	"github.com/bilrost-go/bilrost/canon"
	"github.com/bilrost-go/bilrost/encoding"
	"github.com/bilrost-go/bilrost/errs"
	"github.com/bilrost-go/bilrost/reader"
	"github.com/bilrost-go/bilrost/varint"
	"github.com/bilrost-go/bilrost/wire"
)

// EncodeUnpacked emits a repeated field in unpacked form: one key+value per
// element, every key bearing the same tag. An empty slice emits nothing.
func EncodeUnpacked[T any](tag uint32, v []T, elem encoding.Codec[T], tw *wire.Writer, sink varint.Sink) {
	encoding.EncodeUnpacked(tag, v, elem, tw, sink)
}

// PrependUnpacked is the reverse-buffer counterpart of EncodeUnpacked.
func PrependUnpacked[T any](tag uint32, v []T, elem encoding.Codec[T], tw *wire.RevWriter, sink varint.ReverseSink) {
	encoding.PrependUnpacked(tag, v, elem, tw, sink)
}

// EncodedLenUnpacked returns the number of bytes EncodeUnpacked would emit.
func EncodedLenUnpacked[T any](tag uint32, v []T, elem encoding.Codec[T], tm wire.Measurer) int {
	return encoding.EncodedLenUnpacked(tag, v, elem, tm)
}

// DecodePacked parses one occurrence of a field declared packed. The
// canonical form is a single length-delimited run, non-repeatable. When the
// wire instead bears the element's own (non-length-delimited) wire type,
// the occurrence cross-decodes as a single unpacked element and appends —
// accepted in expedient mode, and in distinguished mode too, where it
// additionally classifies the input NotCanonical.
func DecodePacked[T any](dst *[]T, packed encoding.Codec[[]T], elem encoding.Codec[T], wt wire.Type, dup bool, cap *reader.Capped, ctx encoding.Context) error {
	switch {
	case wt == wire.LengthDelimited:
		if dup {
			return errs.ErrUnexpectedlyRepeated
		}
		v, err := packed.Decode(cap, ctx)
		if err != nil {
			return err
		}
		*dst = v

		return nil
	case wt == elem.WireType:
		item, err := elem.Decode(cap, ctx)
		if err != nil {
			return err
		}
		*dst = append(*dst, item)

		return nil
	default:
		return errs.ErrWrongWireType
	}
}

// DecodePackedDistinguished is DecodePacked for distinguished mode. A
// cross-decoded unpacked element and an explicitly encoded empty run both
// classify the input NotCanonical.
func DecodePackedDistinguished[T any](dst *[]T, packed encoding.Codec[[]T], elem encoding.Codec[T], wt wire.Type, dup bool, cap *reader.Capped, ctx encoding.Context) (canon.Canonicity, error) {
	switch {
	case wt == wire.LengthDelimited:
		if dup {
			return canon.Canonical, errs.ErrUnexpectedlyRepeated
		}
		v, canonicity, err := decodeDistinguishedValue(packed, cap, ctx)
		if err != nil {
			return canonicity, err
		}
		if len(v) == 0 {
			canonicity = canon.Min(canonicity, canon.NotCanonical)
		}
		*dst = v

		return canonicity, nil
	case wt == elem.WireType:
		item, canonicity, err := decodeDistinguishedValue(elem, cap, ctx)
		if err != nil {
			return canonicity, err
		}
		*dst = append(*dst, item)

		return canon.Min(canonicity, canon.NotCanonical), nil
	default:
		return canon.Canonical, errs.ErrWrongWireType
	}
}

// DecodeUnpacked parses one occurrence of a field declared unpacked,
// appending to the accumulated slice. Repetition is the field's normal
// shape, so dup never errors here. When the wire bears LengthDelimited and
// the element's own wire type is something else, the occurrence
// cross-decodes as a whole packed run.
func DecodeUnpacked[T any](dst *[]T, packed encoding.Codec[[]T], elem encoding.Codec[T], wt wire.Type, cap *reader.Capped, ctx encoding.Context) error {
	switch {
	case wt == elem.WireType:
		item, err := elem.Decode(cap, ctx)
		if err != nil {
			return err
		}
		*dst = append(*dst, item)

		return nil
	case wt == wire.LengthDelimited && elem.WireType != wire.LengthDelimited:
		v, err := packed.Decode(cap, ctx)
		if err != nil {
			return err
		}
		*dst = append(*dst, v...)

		return nil
	default:
		return errs.ErrWrongWireType
	}
}

// DecodeUnpackedDistinguished is DecodeUnpacked for distinguished mode: a
// cross-decoded packed run classifies the input NotCanonical.
func DecodeUnpackedDistinguished[T any](dst *[]T, packed encoding.Codec[[]T], elem encoding.Codec[T], wt wire.Type, cap *reader.Capped, ctx encoding.Context) (canon.Canonicity, error) {
	switch {
	case wt == elem.WireType:
		item, canonicity, err := decodeDistinguishedValue(elem, cap, ctx)
		if err != nil {
			return canonicity, err
		}
		*dst = append(*dst, item)

		return canonicity, nil
	case wt == wire.LengthDelimited && elem.WireType != wire.LengthDelimited:
		v, canonicity, err := decodeDistinguishedValue(packed, cap, ctx)
		if err != nil {
			return canonicity, err
		}
		*dst = append(*dst, v...)

		return canon.Min(canonicity, canon.NotCanonical), nil
	default:
		return canon.Canonical, errs.ErrWrongWireType
	}
}

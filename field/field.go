// Package field implements the layer between a message's typed fields and
// the bare value encodings of package encoding: empty-state omission,
// optionality, repeated-field accumulation, packed/unpacked
// cross-compatibility, and the oneof runtime contract.
//
// The functions here are what generated (or hand-written) per-message code
// calls once per field, in ascending tag order on encode and from the
// message's tag-dispatch loop on decode.
package field

import (
	"github.com/bilrost-go/bilrost/canon"
	"github.com/bilrost-go/bilrost/encoding"
	"github.com/bilrost-go/bilrost/errs"
	"github.com/bilrost-go/bilrost/reader"
	"github.com/bilrost-go/bilrost/varint"
	"github.com/bilrost-go/bilrost/wire"
)

// Encode emits key and value for one plain field, or nothing at all when
// the value is in its empty state.
func Encode[T any](tag uint32, v T, c encoding.Codec[T], tw *wire.Writer, sink varint.Sink) {
	if c.IsEmpty(v) {
		return
	}
	tw.EncodeKey(tag, c.WireType, sink)
	c.Encode(v, sink)
}

// Prepend is the reverse-buffer counterpart of Encode. Fields arrive in
// descending tag order; BeginField runs before the value so the key it
// flushes lands in front of the following field's bytes.
func Prepend[T any](tag uint32, v T, c encoding.Codec[T], tw *wire.RevWriter, sink varint.ReverseSink) {
	if c.IsEmpty(v) {
		return
	}
	tw.BeginField(tag, c.WireType, sink)
	c.Prepend(v, sink)
}

// EncodedLen returns the number of bytes Encode would emit for this field:
// zero when empty, else key plus value.
func EncodedLen[T any](tag uint32, v T, c encoding.Codec[T], tm wire.Measurer) int {
	if c.IsEmpty(v) {
		return 0
	}

	return tm.KeyLen(tag) + c.EncodedLen(v)
}

// Decode parses one occurrence of a plain, non-repeatable field. dup
// reports whether this tag already appeared in the message;
// a second occurrence is errs.ErrUnexpectedlyRepeated.
func Decode[T any](dst *T, c encoding.Codec[T], wt wire.Type, dup bool, cap *reader.Capped, ctx encoding.Context) error {
	if dup {
		return errs.ErrUnexpectedlyRepeated
	}
	if err := wire.CheckType(c.WireType, wt); err != nil {
		return err
	}

	v, err := c.Decode(cap, ctx)
	if err != nil {
		return err
	}
	*dst = v

	return nil
}

// DecodeDistinguished is Decode for distinguished mode: alongside the value
// it classifies the bytes, reporting NotCanonical when the field carried an
// explicitly encoded empty value (a canonical encoder would have omitted
// the field entirely).
func DecodeDistinguished[T any](dst *T, c encoding.Codec[T], wt wire.Type, dup bool, cap *reader.Capped, ctx encoding.Context) (canon.Canonicity, error) {
	if dup {
		return canon.Canonical, errs.ErrUnexpectedlyRepeated
	}
	if err := wire.CheckType(c.WireType, wt); err != nil {
		return canon.Canonical, err
	}

	v, canonicity, err := decodeDistinguishedValue(c, cap, ctx)
	if err != nil {
		return canonicity, err
	}
	if c.IsEmpty(v) {
		canonicity = canon.Min(canonicity, canon.NotCanonical)
	}
	*dst = v

	return canonicity, nil
}

func decodeDistinguishedValue[T any](c encoding.Codec[T], cap *reader.Capped, ctx encoding.Context) (T, canon.Canonicity, error) {
	if c.DecodeDistinguished == nil {
		panic("field: codec has no distinguished form (floating-point values have no canonical representation)")
	}

	return c.DecodeDistinguished(cap, ctx)
}

// EncodeOptional emits an optional field: nil never emits, while a non-nil
// pointer always emits, empty contents included — that is what
// distinguishes "present but empty" from "absent" on the wire.
func EncodeOptional[T any](tag uint32, v *T, c encoding.Codec[T], tw *wire.Writer, sink varint.Sink) {
	if v == nil {
		return
	}
	tw.EncodeKey(tag, c.WireType, sink)
	c.Encode(*v, sink)
}

// PrependOptional is the reverse-buffer counterpart of EncodeOptional.
func PrependOptional[T any](tag uint32, v *T, c encoding.Codec[T], tw *wire.RevWriter, sink varint.ReverseSink) {
	if v == nil {
		return
	}
	tw.BeginField(tag, c.WireType, sink)
	c.Prepend(*v, sink)
}

// EncodedLenOptional returns the number of bytes EncodeOptional would emit.
func EncodedLenOptional[T any](tag uint32, v *T, c encoding.Codec[T], tm wire.Measurer) int {
	if v == nil {
		return 0
	}

	return tm.KeyLen(tag) + c.EncodedLen(*v)
}

// DecodeOptional parses one occurrence of an optional field into a fresh
// allocation. An optional field is still non-repeatable, but an empty value
// on the wire is canonical here: present-but-empty is exactly what an
// optional field's explicit empty encoding means.
func DecodeOptional[T any](dst **T, c encoding.Codec[T], wt wire.Type, dup bool, cap *reader.Capped, ctx encoding.Context) error {
	if dup {
		return errs.ErrUnexpectedlyRepeated
	}
	if err := wire.CheckType(c.WireType, wt); err != nil {
		return err
	}

	v, err := c.Decode(cap, ctx)
	if err != nil {
		return err
	}
	*dst = &v

	return nil
}

// DecodeOptionalDistinguished is DecodeOptional for distinguished mode.
func DecodeOptionalDistinguished[T any](dst **T, c encoding.Codec[T], wt wire.Type, dup bool, cap *reader.Capped, ctx encoding.Context) (canon.Canonicity, error) {
	if dup {
		return canon.Canonical, errs.ErrUnexpectedlyRepeated
	}
	if err := wire.CheckType(c.WireType, wt); err != nil {
		return canon.Canonical, err
	}

	v, canonicity, err := decodeDistinguishedValue(c, cap, ctx)
	if err != nil {
		return canonicity, err
	}
	*dst = &v

	return canonicity, nil
}

package field

import (
	"sort"

	"github.com/bilrost-go/bilrost/canon"
	"github.com/bilrost-go/bilrost/encoding"
	"github.com/bilrost-go/bilrost/errs"
	"github.com/bilrost-go/bilrost/reader"
	"github.com/bilrost-go/bilrost/varint"
	"github.com/bilrost-go/bilrost/wire"
)

// Oneof is the runtime face of a union-like field: at most one tagged
// variant active at a time. ActiveTag returns the active variant's tag, or
// false when no variant is chosen (the state a oneof with no explicit
// empty variant represents by a nil wrapper, and one with an empty variant
// represents by that variant).
type Oneof interface {
	ActiveTag() (uint32, bool)
}

// CheckIncoming vets an incoming wire tag against a oneof's current state:
// the same variant arriving twice is errs.ErrUnexpectedlyRepeated, a second
// distinct variant is errs.ErrConflictingFields. Message decode dispatch
// calls this before decoding the variant's value.
func CheckIncoming(o Oneof, incomingTag uint32) error {
	active, ok := o.ActiveTag()
	if !ok {
		return nil
	}
	if active == incomingTag {
		return errs.ErrUnexpectedlyRepeated
	}

	return errs.ErrConflictingFields
}

// EncodeVariant emits a oneof variant's key and value unconditionally: a
// variant set to its empty value is still a chosen variant, and its
// presence on the wire is what records the choice.
func EncodeVariant[T any](tag uint32, v T, c encoding.Codec[T], tw *wire.Writer, sink varint.Sink) {
	tw.EncodeKey(tag, c.WireType, sink)
	c.Encode(v, sink)
}

// PrependVariant is the reverse-buffer counterpart of EncodeVariant.
func PrependVariant[T any](tag uint32, v T, c encoding.Codec[T], tw *wire.RevWriter, sink varint.ReverseSink) {
	tw.BeginField(tag, c.WireType, sink)
	c.Prepend(v, sink)
}

// EncodedLenVariant returns the number of bytes EncodeVariant would emit.
func EncodedLenVariant[T any](tag uint32, v T, c encoding.Codec[T], tm wire.Measurer) int {
	return tm.KeyLen(tag) + c.EncodedLen(v)
}

// DecodeVariant parses a oneof variant's value. Repeat and conflict
// detection happen in CheckIncoming; an empty variant value is canonical
// here, since presence is the point.
func DecodeVariant[T any](dst *T, c encoding.Codec[T], wt wire.Type, cap *reader.Capped, ctx encoding.Context) error {
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

// DecodeVariantDistinguished is DecodeVariant for distinguished mode. An
// empty variant value stays canonical: the variant's presence, not its
// contents, is the information.
func DecodeVariantDistinguished[T any](dst *T, c encoding.Codec[T], wt wire.Type, cap *reader.Capped, ctx encoding.Context) (canon.Canonicity, error) {
	if err := wire.CheckType(c.WireType, wt); err != nil {
		return canon.Canonical, err
	}

	v, canonicity, err := decodeDistinguishedValue(c, cap, ctx)
	if err != nil {
		return canonicity, err
	}
	*dst = v

	return canonicity, nil
}

// Emission is one slot of a sort group: a deferred field emission with the
// tag it will carry. Sort groups exist because ascending-tag emission can't
// be fixed at codegen time when a oneof's variant tags interleave with the
// surrounding message's fields — the oneof's emitted tag is only known at
// runtime.
type Emission struct {
	Tag     uint32
	Encode  func(tw *wire.Writer, sink varint.Sink)
	Prepend func(tw *wire.RevWriter, sink varint.ReverseSink)
	Len     func(tm wire.Measurer) int
}

// EncodeGroup sorts the filled slots by tag and emits them in ascending
// order. Slots with a nil Encode (an unchosen oneof's slot) are skipped.
func EncodeGroup(slots []Emission, tw *wire.Writer, sink varint.Sink) {
	for _, e := range sortGroup(slots) {
		e.Encode(tw, sink)
	}
}

// PrependGroup emits the filled slots in descending tag order, the order a
// reverse buffer needs.
func PrependGroup(slots []Emission, tw *wire.RevWriter, sink varint.ReverseSink) {
	sorted := sortGroup(slots)
	for i := len(sorted) - 1; i >= 0; i-- {
		sorted[i].Prepend(tw, sink)
	}
}

// EncodedLenGroup measures the filled slots in ascending tag order.
func EncodedLenGroup(slots []Emission, tm wire.Measurer) int {
	total := 0
	for _, e := range sortGroup(slots) {
		total += e.Len(tm)
	}

	return total
}

func sortGroup(slots []Emission) []Emission {
	filled := make([]Emission, 0, len(slots))
	for _, e := range slots {
		if e.Encode != nil || e.Prepend != nil || e.Len != nil {
			filled = append(filled, e)
		}
	}
	sort.Slice(filled, func(i, j int) bool { return filled[i].Tag < filled[j].Tag })

	return filled
}

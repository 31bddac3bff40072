package encoding

import (
	"github.com/bilrost-go/bilrost/canon"
	"github.com/bilrost-go/bilrost/errs"
	"github.com/bilrost-go/bilrost/reader"
	"github.com/bilrost-go/bilrost/varint"
	"github.com/bilrost-go/bilrost/wire"
)

// Pair is the value shape Tuple2 encodes.
type Pair[A, B any] struct {
	A A
	B B
}

// Triple is the value shape Tuple3 encodes.
type Triple[A, B, C any] struct {
	A A
	B B
	C C
}

// Tuple2 and Tuple3 supplement the scalar and collection encodings with
// fixed-arity product types: a tuple is wire-compatible with a nested
// message whose elements are tagged 0, 1, 2, ... in order, each element
// omitted from the wire when it is in its empty state. A tag outside the
// tuple's arity is errs.ErrUnknownField — tuples are closed, unlike
// messages, which skip unknown tags.

// Tuple2 builds the codec for a 2-tuple of A and B.
func Tuple2[A, B any](ca Codec[A], cb Codec[B]) Codec[Pair[A, B]] {
	innerLen := func(v Pair[A, B]) int {
		n := 0
		if !ca.IsEmpty(v.A) {
			n += 1 + ca.EncodedLen(v.A)
		}
		if !cb.IsEmpty(v.B) {
			n += 1 + cb.EncodedLen(v.B)
		}

		return n
	}

	c := Codec[Pair[A, B]]{
		WireType: wire.LengthDelimited,
		Encode: func(v Pair[A, B], sink varint.Sink) {
			varint.Encode(uint64(innerLen(v)), sink)
			var tw wire.Writer
			if !ca.IsEmpty(v.A) {
				tw.EncodeKey(0, ca.WireType, sink)
				ca.Encode(v.A, sink)
			}
			if !cb.IsEmpty(v.B) {
				tw.EncodeKey(1, cb.WireType, sink)
				cb.Encode(v.B, sink)
			}
		},
		Prepend: func(v Pair[A, B], sink varint.ReverseSink) {
			rs, ok := sink.(reverseSink)
			if !ok {
				panic("encoding: Tuple2.Prepend requires a reverseSink with Remaining()")
			}

			start := rs.Remaining()
			var tw wire.RevWriter
			if !cb.IsEmpty(v.B) {
				tw.BeginField(1, cb.WireType, sink)
				cb.Prepend(v.B, sink)
			}
			if !ca.IsEmpty(v.A) {
				tw.BeginField(0, ca.WireType, sink)
				ca.Prepend(v.A, sink)
			}
			tw.Finalize(sink)
			varint.Prepend(uint64(rs.Remaining()-start), sink)
		},
		EncodedLen: func(v Pair[A, B]) int {
			n := innerLen(v)

			return varint.EncodedLen(uint64(n)) + n
		},
		Decode: func(cap *reader.Capped, ctx Context) (Pair[A, B], error) {
			v, _, err := decodeTuple2(cap, ctx, ca, cb, false)

			return v, err
		},
		IsEmpty: func(v Pair[A, B]) bool {
			return ca.IsEmpty(v.A) && cb.IsEmpty(v.B)
		},
	}

	if ca.DecodeDistinguished != nil && cb.DecodeDistinguished != nil {
		c.DecodeDistinguished = func(cap *reader.Capped, ctx Context) (Pair[A, B], canon.Canonicity, error) {
			return decodeTuple2(cap, ctx, ca, cb, true)
		}
	}

	return c
}

func decodeTuple2[A, B any](
	cap *reader.Capped,
	ctx Context,
	ca Codec[A],
	cb Codec[B],
	distinguished bool,
) (Pair[A, B], canon.Canonicity, error) {
	var out Pair[A, B]
	canonicity := canon.Canonical

	inner, err := cap.TakeLengthDelimited()
	if err != nil {
		return out, canonicity, err
	}

	var tr wire.Reader
	seenA, seenB := false, false
	for {
		has, err := inner.HasRemaining()
		if err != nil {
			return out, canonicity, err
		}
		if !has {
			break
		}

		tag, wt, err := tr.DecodeKey(&inner)
		if err != nil {
			return out, canonicity, err
		}

		switch tag {
		case 0:
			if seenA {
				return out, canonicity, errs.ErrUnexpectedlyRepeated
			}
			seenA = true
			if err := wire.CheckType(ca.WireType, wt); err != nil {
				return out, canonicity, err
			}
			if distinguished {
				var c canon.Canonicity
				out.A, c, err = ca.DecodeDistinguished(&inner, ctx)
				canonicity = canon.Min(canonicity, c)
				if err == nil && ca.IsEmpty(out.A) {
					canonicity = canon.Min(canonicity, canon.NotCanonical)
				}
			} else {
				out.A, err = ca.Decode(&inner, ctx)
			}
		case 1:
			if seenB {
				return out, canonicity, errs.ErrUnexpectedlyRepeated
			}
			seenB = true
			if err := wire.CheckType(cb.WireType, wt); err != nil {
				return out, canonicity, err
			}
			if distinguished {
				var c canon.Canonicity
				out.B, c, err = cb.DecodeDistinguished(&inner, ctx)
				canonicity = canon.Min(canonicity, c)
				if err == nil && cb.IsEmpty(out.B) {
					canonicity = canon.Min(canonicity, canon.NotCanonical)
				}
			} else {
				out.B, err = cb.Decode(&inner, ctx)
			}
		default:
			return out, canonicity, errs.ErrUnknownField
		}
		if err != nil {
			return out, canonicity, err
		}
	}

	return out, canonicity, nil
}

// Tuple3 builds the codec for a 3-tuple of A, B, and C, following the same
// empty-element omission as Tuple2.
func Tuple3[A, B, C any](ca Codec[A], cb Codec[B], cc Codec[C]) Codec[Triple[A, B, C]] {
	pair := Tuple2(ca, cb)

	innerLen := func(v Triple[A, B, C]) int {
		n := 0
		if !ca.IsEmpty(v.A) {
			n += 1 + ca.EncodedLen(v.A)
		}
		if !cb.IsEmpty(v.B) {
			n += 1 + cb.EncodedLen(v.B)
		}
		if !cc.IsEmpty(v.C) {
			n += 1 + cc.EncodedLen(v.C)
		}

		return n
	}

	c := Codec[Triple[A, B, C]]{
		WireType: wire.LengthDelimited,
		Encode: func(v Triple[A, B, C], sink varint.Sink) {
			varint.Encode(uint64(innerLen(v)), sink)
			var tw wire.Writer
			if !ca.IsEmpty(v.A) {
				tw.EncodeKey(0, ca.WireType, sink)
				ca.Encode(v.A, sink)
			}
			if !cb.IsEmpty(v.B) {
				tw.EncodeKey(1, cb.WireType, sink)
				cb.Encode(v.B, sink)
			}
			if !cc.IsEmpty(v.C) {
				tw.EncodeKey(2, cc.WireType, sink)
				cc.Encode(v.C, sink)
			}
		},
		Prepend: func(v Triple[A, B, C], sink varint.ReverseSink) {
			rs, ok := sink.(reverseSink)
			if !ok {
				panic("encoding: Tuple3.Prepend requires a reverseSink with Remaining()")
			}

			start := rs.Remaining()
			var tw wire.RevWriter
			if !cc.IsEmpty(v.C) {
				tw.BeginField(2, cc.WireType, sink)
				cc.Prepend(v.C, sink)
			}
			if !cb.IsEmpty(v.B) {
				tw.BeginField(1, cb.WireType, sink)
				cb.Prepend(v.B, sink)
			}
			if !ca.IsEmpty(v.A) {
				tw.BeginField(0, ca.WireType, sink)
				ca.Prepend(v.A, sink)
			}
			tw.Finalize(sink)
			varint.Prepend(uint64(rs.Remaining()-start), sink)
		},
		EncodedLen: func(v Triple[A, B, C]) int {
			n := innerLen(v)

			return varint.EncodedLen(uint64(n)) + n
		},
		Decode: func(cap *reader.Capped, ctx Context) (Triple[A, B, C], error) {
			v, _, err := decodeTuple3(cap, ctx, ca, cb, cc, false)

			return v, err
		},
		IsEmpty: func(v Triple[A, B, C]) bool {
			return ca.IsEmpty(v.A) && cb.IsEmpty(v.B) && cc.IsEmpty(v.C)
		},
	}

	if pair.DecodeDistinguished != nil && cc.DecodeDistinguished != nil {
		c.DecodeDistinguished = func(cap *reader.Capped, ctx Context) (Triple[A, B, C], canon.Canonicity, error) {
			return decodeTuple3(cap, ctx, ca, cb, cc, true)
		}
	}

	return c
}

func decodeTuple3[A, B, C any](
	cap *reader.Capped,
	ctx Context,
	ca Codec[A],
	cb Codec[B],
	cc Codec[C],
	distinguished bool,
) (Triple[A, B, C], canon.Canonicity, error) {
	var out Triple[A, B, C]
	canonicity := canon.Canonical

	inner, err := cap.TakeLengthDelimited()
	if err != nil {
		return out, canonicity, err
	}

	var tr wire.Reader
	var seen [3]bool
	for {
		has, err := inner.HasRemaining()
		if err != nil {
			return out, canonicity, err
		}
		if !has {
			break
		}

		tag, wt, err := tr.DecodeKey(&inner)
		if err != nil {
			return out, canonicity, err
		}
		if tag > 2 {
			return out, canonicity, errs.ErrUnknownField
		}
		if seen[tag] {
			return out, canonicity, errs.ErrUnexpectedlyRepeated
		}
		seen[tag] = true

		decodeElem := func(wantWire wire.Type, dec func() error, decDist func() (canon.Canonicity, bool, error)) error {
			if err := wire.CheckType(wantWire, wt); err != nil {
				return err
			}
			if !distinguished {
				return dec()
			}
			c, empty, err := decDist()
			canonicity = canon.Min(canonicity, c)
			if err == nil && empty {
				canonicity = canon.Min(canonicity, canon.NotCanonical)
			}

			return err
		}

		switch tag {
		case 0:
			err = decodeElem(ca.WireType,
				func() error { out.A, err = ca.Decode(&inner, ctx); return err },
				func() (canon.Canonicity, bool, error) {
					v, c, err := ca.DecodeDistinguished(&inner, ctx)
					out.A = v

					return c, err == nil && ca.IsEmpty(v), err
				})
		case 1:
			err = decodeElem(cb.WireType,
				func() error { out.B, err = cb.Decode(&inner, ctx); return err },
				func() (canon.Canonicity, bool, error) {
					v, c, err := cb.DecodeDistinguished(&inner, ctx)
					out.B = v

					return c, err == nil && cb.IsEmpty(v), err
				})
		case 2:
			err = decodeElem(cc.WireType,
				func() error { out.C, err = cc.Decode(&inner, ctx); return err },
				func() (canon.Canonicity, bool, error) {
					v, c, err := cc.DecodeDistinguished(&inner, ctx)
					out.C = v

					return c, err == nil && cc.IsEmpty(v), err
				})
		}
		if err != nil {
			return out, canonicity, err
		}
	}

	return out, canonicity, nil
}

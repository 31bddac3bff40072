package encoding

import (
	"math"

	"github.com/bilrost-go/bilrost/errs"
	"github.com/bilrost-go/bilrost/reader"
	"github.com/bilrost-go/bilrost/varint"
	"github.com/bilrost-go/bilrost/wire"
)

// Bool is the varint codec for bool: false encodes as 0, true as 1. Any
// other decoded value is errs.ErrOutOfDomainValue — the bijective varint
// gives every u64 exactly one encoding, so accepting 2 as "true" would give
// true a second representation.
var Bool = Codec[bool]{
	WireType: wire.Varint,
	Encode: func(v bool, sink varint.Sink) {
		varint.Encode(boolToU64(v), sink)
	},
	Prepend: func(v bool, sink varint.ReverseSink) {
		varint.Prepend(boolToU64(v), sink)
	},
	EncodedLen: func(v bool) int { return 1 },
	Decode: func(cap *reader.Capped, ctx Context) (bool, error) {
		v, err := cap.DecodeVarint()
		if err != nil {
			return false, err
		}
		if v > 1 {
			return false, errs.ErrOutOfDomainValue
		}

		return v == 1, nil
	},
	IsEmpty: func(v bool) bool { return !v },
}

func boolToU64(v bool) uint64 {
	if v {
		return 1
	}

	return 0
}

// Uint64 is the varint codec for uint64, the native width of the wire
// representation.
var Uint64 = Codec[uint64]{
	WireType:   wire.Varint,
	Encode:     varint.Encode,
	Prepend:    varint.Prepend,
	EncodedLen: varint.EncodedLen,
	Decode: func(cap *reader.Capped, ctx Context) (uint64, error) {
		return cap.DecodeVarint()
	},
	DecodeDistinguished: distinguishedSame(func(cap *reader.Capped, ctx Context) (uint64, error) {
		return cap.DecodeVarint()
	}),
	IsEmpty: func(v uint64) bool { return v == 0 },
}

// narrowUint builds the varint codec for an unsigned type narrower than 64
// bits: the value zero-extends on encode, and decode rejects anything above
// the type's ceiling with errs.ErrOutOfDomainValue rather than silently
// truncating.
func narrowUint[T ~uint8 | ~uint16 | ~uint32](max uint64) Codec[T] {
	c := Codec[T]{
		WireType:   wire.Varint,
		Encode:     func(v T, sink varint.Sink) { varint.Encode(uint64(v), sink) },
		Prepend:    func(v T, sink varint.ReverseSink) { varint.Prepend(uint64(v), sink) },
		EncodedLen: func(v T) int { return varint.EncodedLen(uint64(v)) },
		Decode: func(cap *reader.Capped, ctx Context) (T, error) {
			v, err := cap.DecodeVarint()
			if err != nil {
				return 0, err
			}
			if v > max {
				return 0, errs.ErrOutOfDomainValue
			}

			return T(v), nil
		},
		IsEmpty: func(v T) bool { return v == 0 },
	}
	c.DecodeDistinguished = distinguishedSame(c.Decode)

	return c
}

// Uint8, Uint16, and Uint32 are the varint codecs for Go's narrower
// unsigned types.
var (
	Uint8  = narrowUint[uint8](math.MaxUint8)
	Uint16 = narrowUint[uint16](math.MaxUint16)
	Uint32 = narrowUint[uint32](math.MaxUint32)
)

// Int64 is the varint codec for int64. Signed integers ride the wire
// zigzag-mapped, so small magnitudes of either sign stay short; there is no
// sign-extended alternative encoding.
var Int64 = Codec[int64]{
	WireType: wire.Varint,
	Encode: func(v int64, sink varint.Sink) {
		varint.Encode(varint.EncodeZigzag64(v), sink)
	},
	Prepend: func(v int64, sink varint.ReverseSink) {
		varint.Prepend(varint.EncodeZigzag64(v), sink)
	},
	EncodedLen: func(v int64) int {
		return varint.EncodedLen(varint.EncodeZigzag64(v))
	},
	Decode: func(cap *reader.Capped, ctx Context) (int64, error) {
		v, err := cap.DecodeVarint()
		if err != nil {
			return 0, err
		}

		return varint.DecodeZigzag64(v), nil
	},
	IsEmpty: func(v int64) bool { return v == 0 },
}

// narrowInt builds the zigzag varint codec for a signed type narrower than
// 64 bits, rejecting out-of-range values with errs.ErrOutOfDomainValue.
func narrowInt[T ~int8 | ~int16 | ~int32](min, max int64) Codec[T] {
	c := Codec[T]{
		WireType: wire.Varint,
		Encode: func(v T, sink varint.Sink) {
			varint.Encode(varint.EncodeZigzag64(int64(v)), sink)
		},
		Prepend: func(v T, sink varint.ReverseSink) {
			varint.Prepend(varint.EncodeZigzag64(int64(v)), sink)
		},
		EncodedLen: func(v T) int {
			return varint.EncodedLen(varint.EncodeZigzag64(int64(v)))
		},
		Decode: func(cap *reader.Capped, ctx Context) (T, error) {
			u, err := cap.DecodeVarint()
			if err != nil {
				return 0, err
			}
			v := varint.DecodeZigzag64(u)
			if v < min || v > max {
				return 0, errs.ErrOutOfDomainValue
			}

			return T(v), nil
		},
		IsEmpty: func(v T) bool { return v == 0 },
	}
	c.DecodeDistinguished = distinguishedSame(c.Decode)

	return c
}

// Int8, Int16, and Int32 are the zigzag varint codecs for Go's narrower
// signed types.
var (
	Int8  = narrowInt[int8](math.MinInt8, math.MaxInt8)
	Int16 = narrowInt[int16](math.MinInt16, math.MaxInt16)
	Int32 = narrowInt[int32](math.MinInt32, math.MaxInt32)
)

// Distinguished forms that refer to their own codec's Decode are assigned
// here rather than in the composite literal, which would be an
// initialization cycle.
func init() {
	Bool.DecodeDistinguished = distinguishedSame(Bool.Decode)
	Int64.DecodeDistinguished = distinguishedSame(Int64.Decode)
}

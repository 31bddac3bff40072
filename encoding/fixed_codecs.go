package encoding

import (
	"encoding/binary"
	"math"

	"github.com/bilrost-go/bilrost/errs"
	"github.com/bilrost-go/bilrost/reader"
	"github.com/bilrost-go/bilrost/varint"
	"github.com/bilrost-go/bilrost/wire"
)

func takeFixed(cap *reader.Capped, n int) ([]byte, error) {
	has, err := cap.HasRemaining()
	if err != nil {
		return nil, err
	}
	if !has || cap.RemainingBeforeCap() < n {
		return nil, errs.ErrTruncated
	}

	out := make([]byte, n)
	copied := 0
	for copied < n {
		chunk := cap.Chunk()
		if len(chunk) == 0 {
			return nil, errs.ErrTruncated
		}
		if len(chunk) > n-copied {
			chunk = chunk[:n-copied]
		}
		copy(out[copied:], chunk)
		cap.Advance(len(chunk))
		copied += len(chunk)
	}

	return out, nil
}

// Fixed32 is the little-endian fixed-width codec for uint32.
var Fixed32 = Codec[uint32]{
	WireType: wire.ThirtyTwoBit,
	Encode: func(v uint32, sink varint.Sink) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		sink.PutSlice(b[:])
	},
	Prepend: func(v uint32, sink varint.ReverseSink) {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], v)
		sink.PrependSlice(b[:])
	},
	EncodedLen: func(uint32) int { return 4 },
	Decode: func(cap *reader.Capped, ctx Context) (uint32, error) {
		b, err := takeFixed(cap, 4)
		if err != nil {
			return 0, err
		}

		return binary.LittleEndian.Uint32(b), nil
	},
	IsEmpty: func(v uint32) bool { return v == 0 },
}

// Fixed64 is the little-endian fixed-width codec for uint64.
var Fixed64 = Codec[uint64]{
	WireType: wire.SixtyFourBit,
	Encode: func(v uint64, sink varint.Sink) {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v)
		sink.PutSlice(b[:])
	},
	Prepend: func(v uint64, sink varint.ReverseSink) {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v)
		sink.PrependSlice(b[:])
	},
	EncodedLen: func(uint64) int { return 8 },
	Decode: func(cap *reader.Capped, ctx Context) (uint64, error) {
		b, err := takeFixed(cap, 8)
		if err != nil {
			return 0, err
		}

		return binary.LittleEndian.Uint64(b), nil
	},
	IsEmpty: func(v uint64) bool { return v == 0 },
}

// SFixed32 is the little-endian fixed-width codec for int32.
var SFixed32 = Codec[int32]{
	WireType:   wire.ThirtyTwoBit,
	Encode:     func(v int32, sink varint.Sink) { Fixed32.Encode(uint32(v), sink) },
	Prepend:    func(v int32, sink varint.ReverseSink) { Fixed32.Prepend(uint32(v), sink) },
	EncodedLen: func(int32) int { return 4 },
	Decode: func(cap *reader.Capped, ctx Context) (int32, error) {
		v, err := Fixed32.Decode(cap, ctx)

		return int32(v), err
	},
	IsEmpty: func(v int32) bool { return v == 0 },
}

// SFixed64 is the little-endian fixed-width codec for int64.
var SFixed64 = Codec[int64]{
	WireType:   wire.SixtyFourBit,
	Encode:     func(v int64, sink varint.Sink) { Fixed64.Encode(uint64(v), sink) },
	Prepend:    func(v int64, sink varint.ReverseSink) { Fixed64.Prepend(uint64(v), sink) },
	EncodedLen: func(int64) int { return 8 },
	Decode: func(cap *reader.Capped, ctx Context) (int64, error) {
		v, err := Fixed64.Decode(cap, ctx)

		return int64(v), err
	},
	IsEmpty: func(v int64) bool { return v == 0 },
}

// Float32 is the IEEE-754 single-precision codec, carried as a 32-bit
// fixed-width field. The bit pattern rides the wire untouched, NaN payloads
// included. Floats have no equality and therefore no canonical form, so
// DecodeDistinguished is absent; only the empty check is bitwise, so that
// negative zero survives a round trip instead of being dropped as empty.
var Float32 = Codec[float32]{
	WireType: wire.ThirtyTwoBit,
	Encode:   func(v float32, sink varint.Sink) { Fixed32.Encode(math.Float32bits(v), sink) },
	Prepend: func(v float32, sink varint.ReverseSink) {
		Fixed32.Prepend(math.Float32bits(v), sink)
	},
	EncodedLen: func(float32) int { return 4 },
	Decode: func(cap *reader.Capped, ctx Context) (float32, error) {
		v, err := Fixed32.Decode(cap, ctx)

		return math.Float32frombits(v), err
	},
	IsEmpty: func(v float32) bool { return math.Float32bits(v) == 0 },
}

// Float64 is the IEEE-754 double-precision codec, carried as a 64-bit
// fixed-width field. Same canonicity and empty-state caveats as Float32.
var Float64 = Codec[float64]{
	WireType: wire.SixtyFourBit,
	Encode:   func(v float64, sink varint.Sink) { Fixed64.Encode(math.Float64bits(v), sink) },
	Prepend: func(v float64, sink varint.ReverseSink) {
		Fixed64.Prepend(math.Float64bits(v), sink)
	},
	EncodedLen: func(float64) int { return 8 },
	Decode: func(cap *reader.Capped, ctx Context) (float64, error) {
		v, err := Fixed64.Decode(cap, ctx)

		return math.Float64frombits(v), err
	},
	IsEmpty: func(v float64) bool { return math.Float64bits(v) == 0 },
}

func init() {
	Fixed32.DecodeDistinguished = distinguishedSame(Fixed32.Decode)
	Fixed64.DecodeDistinguished = distinguishedSame(Fixed64.Decode)
	SFixed32.DecodeDistinguished = distinguishedSame(SFixed32.Decode)
	SFixed64.DecodeDistinguished = distinguishedSame(SFixed64.Decode)
}

// Package varint implements bilrost's LEB128-bijective variable-length
// integer codec: the single lowest-level primitive every other part of the
// wire format is built from (field keys, length-delimited prefixes, zigzag
// integers).
//
// Unlike plain LEB128, each continuation byte's payload is offset by the
// smallest value representable in one fewer byte, so every u64 has exactly
// one encoding (there is no "padding with a leading zero continuation
// byte" redundancy). Encode applies `value = (value >> 7) - 1` to the
// remainder after peeling off each continuation byte; decode applies the
// inverse by simply summing shifted byte values without stripping the
// continuation bit from the payload, since the bijective shift already
// accounts for it.
package varint

import "github.com/bilrost-go/bilrost/errs"

// MaxLen is the longest a bijective varint encoding of a u64 can be.
const MaxLen = 9

// varintLimit[i] is the smallest value whose varint representation is i+1
// bytes long. The canonical encoded length of v is the unique L such that
// varintLimit[L-1] <= v < varintLimit[L].
var varintLimit = [9]uint64{
	0,
	0x80,
	0x4080,
	0x20_4080,
	0x1020_4080,
	0x8_1020_4080,
	0x408_1020_4080,
	0x2_0408_1020_4080,
	0x102_0408_1020_4080,
}

// Sink is the minimal append-only byte destination the codec writes to.
// It is satisfied by buffer.Buf and by any similarly-shaped wrapper around
// a growable byte slice.
type Sink interface {
	PutSlice(p []byte)
	PutByte(b byte)
	Remaining() int
}

// ReverseSink is the prepend-only counterpart of Sink, satisfied by
// buffer.ReverseBuf.
type ReverseSink interface {
	PrependSlice(p []byte)
	PrependByte(b byte)
}

// Source is the minimal forward-reading byte origin the codec consumes
// from. It is satisfied by buffer.Source and by buffer.ReverseBuf's read
// view.
type Source interface {
	Chunk() []byte
	Advance(n int)
	Remaining() int
	HasRemaining() bool
}

// EncodedLen returns the number of bytes Encode(value, ...) would write:
// an integer in 1..=9.
func EncodedLen(value uint64) int {
	switch {
	case value < varintLimit[1]:
		return 1
	case value < varintLimit[5]:
		switch {
		case value < varintLimit[3]:
			if value < varintLimit[2] {
				return 2
			}
			return 3
		case value < varintLimit[4]:
			return 4
		default:
			return 5
		}
	case value < varintLimit[7]:
		if value < varintLimit[6] {
			return 6
		}
		return 7
	case value < varintLimit[8]:
		return 8
	default:
		return 9
	}
}

// Encode appends value to sink as a bijective varint, 1 to 9 bytes.
func Encode(value uint64, sink Sink) {
	if value < 0x80 {
		sink.PutByte(byte(value))
		return
	}

	var buf [MaxLen]byte
	n := fillBijective(value, buf[:])
	sink.PutSlice(buf[:n])
}

// Prepend writes value to the front of sink as a bijective varint.
func Prepend(value uint64, sink ReverseSink) {
	if value < 0x80 {
		sink.PrependByte(byte(value))
		return
	}

	var buf [MaxLen]byte
	n := fillBijective(value, buf[:])
	sink.PrependSlice(buf[:n])
}

// fillBijective writes the bijective encoding of value (which must be >=
// 0x80) into buf and returns the number of bytes used. buf must have
// capacity MaxLen.
func fillBijective(value uint64, buf []byte) int {
	n := EncodedLen(value)
	for i := 0; i < n-1; i++ {
		buf[i] = byte(value&0x7F) | 0x80
		value = (value >> 7) - 1
	}
	buf[n-1] = byte(value)

	return n
}

// ConstVarint holds the precomputed encoding of a value known at
// compile/init time, for emitting static guard or sentinel values without
// recomputing the encoding on every use.
type ConstVarint struct {
	bytes [MaxLen]byte
	n     uint8
}

// Bytes returns the encoded form.
func (c ConstVarint) Bytes() []byte { return c.bytes[:c.n] }

// Const computes the bijective varint encoding of value once, for reuse.
func Const(value uint64) ConstVarint {
	var c ConstVarint
	if value < 0x80 {
		c.bytes[0] = byte(value)
		c.n = 1
		return c
	}
	n := fillBijective(value, c.bytes[:])
	c.n = uint8(n)

	return c
}

// Decode reads one bijective varint from source, advancing it past the
// bytes consumed.
//
// Errors:
//   - errs.ErrTruncated: source was exhausted before the terminal byte (one
//     whose high bit is clear).
//   - errs.ErrInvalidVarint: a full 9-byte encoding overflows u64.
func Decode(source Source) (uint64, error) {
	chunk := source.Chunk()
	if len(chunk) == 0 {
		if source.HasRemaining() {
			return decodeSlow(source)
		}
		return 0, errs.ErrTruncated
	}

	b0 := chunk[0]
	if b0 < 0x80 {
		source.Advance(1)
		return uint64(b0), nil
	}

	if len(chunk) >= MaxLen || chunk[len(chunk)-1] < 0x80 {
		value, n, err := decodeContiguous(chunk)
		if err != nil {
			source.Advance(MaxLen)
			return 0, err
		}
		source.Advance(n)

		return value, nil
	}

	return decodeSlow(source)
}

// decodeContiguous decodes a varint known to either span at least 9 bytes
// of the slice, or whose last byte has its high bit clear (so the slice is
// guaranteed to contain a complete, if possibly invalid, encoding).
//
// The accumulation adds each byte's raw value (continuation bit included)
// shifted by 7*position, rather than masking the continuation bit away
// first: the bijective encoding's per-byte "-1" adjustment on the encode
// side means the continuation bit's own weight at each position already
// carries the correction needed, so summing raw bytes reproduces the
// original value directly.
func decodeContiguous(b []byte) (value uint64, n int, err error) {
	var v uint64
	for i := 0; i < 8; i++ {
		c := b[i]
		v += uint64(c) << (7 * i)
		if c < 0x80 {
			return v, i + 1, nil
		}
	}

	// 9th byte: all 64 bits are already spoken for (56 bits from the first
	// 8 bytes plus 8 more here); detect overflow directly.
	b8 := b[8]
	if uint32(b8)+uint32(v>>56) > 0xff {
		return 0, 9, errs.ErrInvalidVarint
	}

	return v + uint64(b8)<<56, 9, nil
}

// decodeSlow drives the varint decoder a byte at a time, for sources that
// don't expose a contiguous slice long enough to decode from directly.
func decodeSlow(source Source) (uint64, error) {
	var value uint64
	for i := 0; i < 8; i++ {
		if !source.HasRemaining() {
			return 0, errs.ErrTruncated
		}

		chunk := source.Chunk()
		b := chunk[0]
		source.Advance(1)

		value += uint64(b) << (7 * i)

		if b < 0x80 {
			return value, nil
		}
	}

	if !source.HasRemaining() {
		return 0, errs.ErrTruncated
	}

	chunk := source.Chunk()
	b8 := chunk[0]
	source.Advance(1)

	if uint32(b8)+uint32(value>>56) > 0xff {
		return 0, errs.ErrInvalidVarint
	}

	return value + uint64(b8)<<56, nil
}

// EncodeZigzag64 maps a signed value to its zigzag-encoded unsigned
// representation: small-magnitude values of either sign end up with a
// small varint encoding.
func EncodeZigzag64(n int64) uint64 {
	return uint64((n << 1) ^ (n >> 63))
}

// DecodeZigzag64 is the inverse of EncodeZigzag64.
func DecodeZigzag64(u uint64) int64 {
	return int64(u>>1) ^ -int64(u&1)
}

// EncodeZigzag32 is the 32-bit form of EncodeZigzag64.
func EncodeZigzag32(n int32) uint32 {
	return uint32((n << 1) ^ (n >> 31))
}

// DecodeZigzag32 is the inverse of EncodeZigzag32.
func DecodeZigzag32(u uint32) int32 {
	return int32(u>>1) ^ -int32(u&1)
}

// Package encoding implements bilrost's value and collection encodings:
// the layer that knows how to turn a Go value of a particular shape into
// bytes of a particular wire type, and back. It has no notion of field
// tags or optionality — that belongs to package field, one layer up.
package encoding

import (
	"github.com/bilrost-go/bilrost/canon"
	"github.com/bilrost-go/bilrost/reader"
	"github.com/bilrost-go/bilrost/varint"
	"github.com/bilrost-go/bilrost/wire"
)

// Context carries the state decode needs to thread through nested values:
// the recursion guard and, for distinguished decoding, the canonicity floor
// below which decoding should stop rather than keep classifying.
type Context struct {
	depth    int
	maxDepth int
	floor    canon.Canonicity
}

// NewContext returns a Context with the given recursion limit, suitable for
// expedient decoding.
func NewContext(maxDepth int) Context {
	return Context{maxDepth: maxDepth}
}

// NewDistinguishedContext returns a Context that additionally carries the
// minimum canonicity a restricted decode will accept.
func NewDistinguishedContext(maxDepth int, floor canon.Canonicity) Context {
	return Context{maxDepth: maxDepth, floor: floor}
}

// Floor returns the minimum acceptable canonicity for restricted decoding.
func (c Context) Floor() canon.Canonicity {
	return c.floor
}

// Child returns a Context for one level of nesting deeper, or
// errs.ErrRecursionLimitReached if that would exceed the configured limit.
func (c Context) Child() (Context, error) {
	if c.depth+1 > c.maxDepth {
		return c, errRecursionLimit
	}

	return Context{depth: c.depth + 1, maxDepth: c.maxDepth, floor: c.floor}, nil
}

// Codec is a value encoding for a single Go type T: it knows T's wire
// type and how to write, measure, and read a bare value with no tag
// attached. Every scalar codec in this package, and every collection
// codec built from one, is a Codec[T] value — plain data, not an
// interface, so building a Packed[uint64] or Map[bool, string] codec is
// just calling a generic function with the element codec(s).
type Codec[T any] struct {
	WireType   wire.Type
	Encode     func(v T, sink varint.Sink)
	Prepend    func(v T, sink varint.ReverseSink)
	EncodedLen func(v T) int
	Decode     func(cap *reader.Capped, ctx Context) (T, error)

	// DecodeDistinguished additionally classifies the canonicity of the
	// bytes it consumed. It is nil for types with no canonical form —
	// floats, and anything built over them — and using such a codec in a
	// distinguished decode is a program error.
	DecodeDistinguished func(cap *reader.Capped, ctx Context) (T, canon.Canonicity, error)

	// IsEmpty reports whether v is in its type's empty state, the state a
	// field omits from the wire entirely.
	IsEmpty func(v T) bool
}

// distinguishedSame adapts a Decode whose byte representation is already
// bijective (varints, fixed-width values, length-framed blobs): decoding
// succeeds exactly when the bytes are the unique encoding of the result,
// so the canonicity of any successfully decoded value is Canonical.
func distinguishedSame[T any](decode func(cap *reader.Capped, ctx Context) (T, error)) func(cap *reader.Capped, ctx Context) (T, canon.Canonicity, error) {
	return func(cap *reader.Capped, ctx Context) (T, canon.Canonicity, error) {
		v, err := decode(cap, ctx)

		return v, canon.Canonical, err
	}
}

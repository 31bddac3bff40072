// Package message is bilrost's top-level runtime: it orchestrates whole
// messages through the tag sequencer, capped reader, and value encodings,
// owning the concerns no single field sees — recursion limiting, unknown
// field skipping, canonicity accumulation, buffer sizing, and the error
// path trace.
//
// A message type participates by implementing Message (and, for
// distinguished decoding, DistinguishedMessage): per-field emission in
// ascending tag order, a tag-dispatch decoder, and an empty-state reset.
// That per-field code is the contract a code generator would target; the
// types in this module's tests implement it by hand.
package message

import (
	"github.com/bilrost-go/bilrost/canon"
	"github.com/bilrost-go/bilrost/encoding"
	"github.com/bilrost-go/bilrost/internal/options"
	"github.com/bilrost-go/bilrost/reader"
	"github.com/bilrost-go/bilrost/varint"
	"github.com/bilrost-go/bilrost/wire"
)

// DefaultRecursionLimit bounds how deeply nested-message decoding will
// recurse before giving up with errs.ErrRecursionLimitReached.
const DefaultRecursionLimit = 100

// Message is the contract between a concrete message type and the runtime.
type Message interface {
	// MessageName identifies the type in error path traces.
	MessageName() string

	// Clear resets every field to its empty state.
	Clear()

	// EncodeFields emits every non-empty field, key then value, in
	// ascending tag order through tw.
	EncodeFields(tw *wire.Writer, sink varint.Sink)

	// PrependFields emits the same fields in descending tag order into a
	// reverse buffer, calling tw.BeginField before each value; the runtime
	// finalizes the first key.
	PrependFields(tw *wire.RevWriter, sink varint.ReverseSink)

	// EncodedLenFields returns the total byte length EncodeFields would
	// emit, measured through tm.
	EncodedLenFields(tm wire.Measurer) int

	// DecodeField parses one field occurrence. dup reports whether the
	// immediately preceding field bore the same tag (the only way a tag
	// can recur, deltas being non-negative). Unknown tags return
	// errs.ErrUnknownField without consuming the value; the runtime skips
	// it.
	DecodeField(tag uint32, wt wire.Type, dup bool, cap *reader.Capped, ctx encoding.Context) error
}

// DistinguishedMessage is a Message whose fields can also classify the
// canonicity of the bytes they decode. Types containing floating-point
// fields cannot implement it meaningfully and should not.
type DistinguishedMessage interface {
	Message

	// DecodeFieldDistinguished is DecodeField plus a canonicity
	// classification of this occurrence's bytes.
	DecodeFieldDistinguished(tag uint32, wt wire.Type, dup bool, cap *reader.Capped, ctx encoding.Context) (canon.Canonicity, error)
}

// FieldNamer lets a message contribute field names to error path traces.
// Types that don't implement it get the decimal tag as the name.
type FieldNamer interface {
	FieldName(tag uint32) string
}

type decodeConfig struct {
	recursionLimit int
}

// DecodeOption configures a decode call.
type DecodeOption = options.Option[*decodeConfig]

// WithRecursionLimit overrides DefaultRecursionLimit for one decode call.
func WithRecursionLimit(n int) DecodeOption {
	return options.New(func(c *decodeConfig) error {
		c.recursionLimit = n

		return nil
	})
}

func newDecodeConfig(opts []DecodeOption) (decodeConfig, error) {
	cfg := decodeConfig{recursionLimit: DefaultRecursionLimit}
	if err := options.Apply(&cfg, opts...); err != nil {
		return cfg, err
	}

	return cfg, nil
}

type encodeConfig struct {
	reserve int
}

// EncodeOption configures an EncodeFast call.
type EncodeOption = options.Option[*encodeConfig]

// WithReserve hints how many bytes the reverse buffer should allocate up
// front, for callers that know the rough size of their messages.
func WithReserve(n int) EncodeOption {
	return options.New(func(c *encodeConfig) error {
		c.reserve = n

		return nil
	})
}

package message

import (
	"encoding/binary"
	"strconv"

	"github.com/bilrost-go/bilrost/canon"
	"github.com/bilrost-go/bilrost/encoding"
	"github.com/bilrost-go/bilrost/errs"
	"github.com/bilrost-go/bilrost/reader"
	"github.com/bilrost-go/bilrost/varint"
	"github.com/bilrost-go/bilrost/wire"
)

// OpaqueValue is one wire value with no schema attached: a wire type plus
// the raw payload in that wire type's natural shape.
type OpaqueValue struct {
	wireType wire.Type
	num      uint64
	data     []byte
}

// OpaqueVarint builds a varint-typed opaque value.
func OpaqueVarint(v uint64) OpaqueValue {
	return OpaqueValue{wireType: wire.Varint, num: v}
}

// OpaqueLengthDelimited builds a length-delimited opaque value.
func OpaqueLengthDelimited(data []byte) OpaqueValue {
	return OpaqueValue{wireType: wire.LengthDelimited, data: data}
}

// OpaqueThirtyTwoBit builds a 32-bit fixed-width opaque value.
func OpaqueThirtyTwoBit(v uint32) OpaqueValue {
	return OpaqueValue{wireType: wire.ThirtyTwoBit, num: uint64(v)}
}

// OpaqueSixtyFourBit builds a 64-bit fixed-width opaque value.
func OpaqueSixtyFourBit(v uint64) OpaqueValue {
	return OpaqueValue{wireType: wire.SixtyFourBit, num: v}
}

// WireType returns the value's wire type.
func (v OpaqueValue) WireType() wire.Type { return v.wireType }

// Uint returns the numeric payload of a varint or fixed-width value.
func (v OpaqueValue) Uint() uint64 { return v.num }

// Data returns the payload of a length-delimited value.
func (v OpaqueValue) Data() []byte { return v.data }

func (v OpaqueValue) encodedLen() int {
	switch v.wireType {
	case wire.Varint:
		return varint.EncodedLen(v.num)
	case wire.LengthDelimited:
		return varint.EncodedLen(uint64(len(v.data))) + len(v.data)
	case wire.ThirtyTwoBit:
		return 4
	default:
		return 8
	}
}

func (v OpaqueValue) encode(sink varint.Sink) {
	switch v.wireType {
	case wire.Varint:
		varint.Encode(v.num, sink)
	case wire.LengthDelimited:
		varint.Encode(uint64(len(v.data)), sink)
		sink.PutSlice(v.data)
	case wire.ThirtyTwoBit:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(v.num))
		sink.PutSlice(b[:])
	default:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v.num)
		sink.PutSlice(b[:])
	}
}

func (v OpaqueValue) prepend(sink varint.ReverseSink) {
	switch v.wireType {
	case wire.Varint:
		varint.Prepend(v.num, sink)
	case wire.LengthDelimited:
		sink.PrependSlice(v.data)
		varint.Prepend(uint64(len(v.data)), sink)
	case wire.ThirtyTwoBit:
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], uint32(v.num))
		sink.PrependSlice(b[:])
	default:
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], v.num)
		sink.PrependSlice(b[:])
	}
}

// OpaqueField is one tagged occurrence in an Opaque message.
type OpaqueField struct {
	Tag   uint32
	Value OpaqueValue
}

// Opaque is the schemaless conformance message: an ordered list of
// (tag, value) pairs that captures any well-formed bilrost encoding
// exactly and re-encodes it byte for byte. It exists to state expected
// wire contents literally in conformance tests; it is not a modeling tool.
//
// Encoding panics if fields are not in non-decreasing tag order, the same
// program-error contract as the tag writer itself.
type Opaque struct {
	Fields []OpaqueField
}

var (
	_ DistinguishedMessage = (*Opaque)(nil)
	_ FieldNamer           = (*Opaque)(nil)
)

// MessageName implements Message.
func (o *Opaque) MessageName() string { return "Opaque" }

// FieldName implements FieldNamer with the decimal tag.
func (o *Opaque) FieldName(tag uint32) string {
	return strconv.FormatUint(uint64(tag), 10)
}

// Clear implements Message.
func (o *Opaque) Clear() { o.Fields = o.Fields[:0] }

// EncodeFields implements Message.
func (o *Opaque) EncodeFields(tw *wire.Writer, sink varint.Sink) {
	for _, f := range o.Fields {
		tw.EncodeKey(f.Tag, f.Value.wireType, sink)
		f.Value.encode(sink)
	}
}

// PrependFields implements Message.
func (o *Opaque) PrependFields(tw *wire.RevWriter, sink varint.ReverseSink) {
	for i := len(o.Fields) - 1; i >= 0; i-- {
		f := o.Fields[i]
		tw.BeginField(f.Tag, f.Value.wireType, sink)
		f.Value.prepend(sink)
	}
}

// EncodedLenFields implements Message.
func (o *Opaque) EncodedLenFields(tm wire.Measurer) int {
	total := 0
	for _, f := range o.Fields {
		total += tm.KeyLen(f.Tag) + f.Value.encodedLen()
	}

	return total
}

// DecodeField implements Message: every tag is known, every occurrence
// appends.
func (o *Opaque) DecodeField(tag uint32, wt wire.Type, dup bool, cap *reader.Capped, ctx encoding.Context) error {
	v := OpaqueValue{wireType: wt}
	switch wt {
	case wire.Varint:
		num, err := cap.DecodeVarint()
		if err != nil {
			return err
		}
		v.num = num
	case wire.LengthDelimited:
		inner, err := cap.TakeLengthDelimited()
		if err != nil {
			return err
		}
		if data := inner.TakeAll(); len(data) > 0 {
			v.data = data
		}
	case wire.ThirtyTwoBit:
		b, err := takeOpaqueFixed(cap, 4)
		if err != nil {
			return err
		}
		v.num = uint64(binary.LittleEndian.Uint32(b))
	default:
		b, err := takeOpaqueFixed(cap, 8)
		if err != nil {
			return err
		}
		v.num = binary.LittleEndian.Uint64(b)
	}

	o.Fields = append(o.Fields, OpaqueField{Tag: tag, Value: v})

	return nil
}

// DecodeFieldDistinguished implements DistinguishedMessage. An opaque
// capture is always canonical: it preserves every field verbatim, so
// re-encoding reproduces the input by construction.
func (o *Opaque) DecodeFieldDistinguished(tag uint32, wt wire.Type, dup bool, cap *reader.Capped, ctx encoding.Context) (canon.Canonicity, error) {
	return canon.Canonical, o.DecodeField(tag, wt, dup, cap, ctx)
}

func takeOpaqueFixed(cap *reader.Capped, n int) ([]byte, error) {
	if cap.RemainingBeforeCap() < n {
		return nil, errs.ErrTruncated
	}

	out := make([]byte, n)
	copied := 0
	for copied < n {
		chunk := cap.Chunk()
		if len(chunk) > n-copied {
			chunk = chunk[:n-copied]
		}
		copy(out[copied:], chunk)
		cap.Advance(len(chunk))
		copied += len(chunk)
	}

	return out, nil
}

package message_test

import (
	"strconv"

	"github.com/bilrost-go/bilrost/canon"
	"github.com/bilrost-go/bilrost/encoding"
	"github.com/bilrost-go/bilrost/errs"
	"github.com/bilrost-go/bilrost/field"
	"github.com/bilrost-go/bilrost/message"
	"github.com/bilrost-go/bilrost/reader"
	"github.com/bilrost-go/bilrost/varint"
	"github.com/bilrost-go/bilrost/wire"
)

// The types below play the role of generated per-message code: per-field
// emission in ascending tag order, a tag-dispatch decoder, and the
// distinguished twin of each.

var (
	ptsCodec   = encoding.Packed(encoding.Uint64)
	strPacked  = encoding.Packed(encoding.String)
	attrsCodec = encoding.Map(encoding.Bool, encoding.String, func(a, b bool) bool { return !a && b })
	innerCodec = message.NewCodec(func() *inner { return &inner{} })
	nodeCodec  = message.NewCodec(func() *node { return &node{} })
)

type inner struct {
	Val string // tag 0
}

var _ message.DistinguishedMessage = (*inner)(nil)

func (m *inner) MessageName() string { return "Inner" }

func (m *inner) FieldName(tag uint32) string {
	if tag == 0 {
		return "val"
	}

	return strconv.FormatUint(uint64(tag), 10)
}

func (m *inner) Clear() { m.Val = "" }

func (m *inner) EncodeFields(tw *wire.Writer, sink varint.Sink) {
	field.Encode(0, m.Val, encoding.String, tw, sink)
}

func (m *inner) PrependFields(tw *wire.RevWriter, sink varint.ReverseSink) {
	field.Prepend(0, m.Val, encoding.String, tw, sink)
}

func (m *inner) EncodedLenFields(tm wire.Measurer) int {
	return field.EncodedLen(0, m.Val, encoding.String, tm)
}

func (m *inner) DecodeField(tag uint32, wt wire.Type, dup bool, cap *reader.Capped, ctx encoding.Context) error {
	if tag == 0 {
		return field.Decode(&m.Val, encoding.String, wt, dup, cap, ctx)
	}

	return errs.ErrUnknownField
}

func (m *inner) DecodeFieldDistinguished(tag uint32, wt wire.Type, dup bool, cap *reader.Capped, ctx encoding.Context) (canon.Canonicity, error) {
	if tag == 0 {
		return field.DecodeDistinguished(&m.Val, encoding.String, wt, dup, cap, ctx)
	}

	return canon.Canonical, errs.ErrUnknownField
}

// outerChoice is the oneof: at most one of variantA (tag 8) or variantB
// (tag 9) is set; nil means none.
type outerChoice interface {
	choiceTag() uint32
}

type variantA uint64

func (variantA) choiceTag() uint32 { return 8 }

type variantB string

func (variantB) choiceTag() uint32 { return 9 }

type choiceState struct{ c outerChoice }

func (s choiceState) ActiveTag() (uint32, bool) {
	if s.c == nil {
		return 0, false
	}

	return s.c.choiceTag(), true
}

type outer struct {
	Flag   bool            // tag 0
	Num    uint32          // tag 1
	Name   string          // tag 2
	Pts    []uint64        // tag 3, packed
	Tags   []string        // tag 4, unpacked
	Attrs  map[bool]string // tag 5, map
	Opt    *uint64         // tag 6, optional
	Inner  inner           // tag 7, nested message
	Choice outerChoice     // tags 8-9, oneof
}

var (
	_ message.DistinguishedMessage = (*outer)(nil)
	_ message.FieldNamer           = (*outer)(nil)
)

var outerFieldNames = map[uint32]string{
	0: "flag", 1: "num", 2: "name", 3: "pts", 4: "tags",
	5: "attrs", 6: "opt", 7: "inner", 8: "a", 9: "b",
}

func (m *outer) MessageName() string { return "Outer" }

func (m *outer) FieldName(tag uint32) string {
	if name, ok := outerFieldNames[tag]; ok {
		return name
	}

	return strconv.FormatUint(uint64(tag), 10)
}

func (m *outer) Clear() {
	*m = outer{}
}

func (m *outer) EncodeFields(tw *wire.Writer, sink varint.Sink) {
	field.Encode(0, m.Flag, encoding.Bool, tw, sink)
	field.Encode(1, m.Num, encoding.Uint32, tw, sink)
	field.Encode(2, m.Name, encoding.String, tw, sink)
	field.Encode(3, m.Pts, ptsCodec, tw, sink)
	field.EncodeUnpacked(4, m.Tags, encoding.String, tw, sink)
	field.Encode(5, m.Attrs, attrsCodec, tw, sink)
	field.EncodeOptional(6, m.Opt, encoding.Uint64, tw, sink)
	field.Encode(7, &m.Inner, innerCodec, tw, sink)
	switch c := m.Choice.(type) {
	case variantA:
		field.EncodeVariant(8, uint64(c), encoding.Uint64, tw, sink)
	case variantB:
		field.EncodeVariant(9, string(c), encoding.String, tw, sink)
	}
}

func (m *outer) PrependFields(tw *wire.RevWriter, sink varint.ReverseSink) {
	switch c := m.Choice.(type) {
	case variantA:
		field.PrependVariant(8, uint64(c), encoding.Uint64, tw, sink)
	case variantB:
		field.PrependVariant(9, string(c), encoding.String, tw, sink)
	}
	field.Prepend(7, &m.Inner, innerCodec, tw, sink)
	field.PrependOptional(6, m.Opt, encoding.Uint64, tw, sink)
	field.Prepend(5, m.Attrs, attrsCodec, tw, sink)
	field.PrependUnpacked(4, m.Tags, encoding.String, tw, sink)
	field.Prepend(3, m.Pts, ptsCodec, tw, sink)
	field.Prepend(2, m.Name, encoding.String, tw, sink)
	field.Prepend(1, m.Num, encoding.Uint32, tw, sink)
	field.Prepend(0, m.Flag, encoding.Bool, tw, sink)
}

func (m *outer) EncodedLenFields(tm wire.Measurer) int {
	total := 0
	total += field.EncodedLen(0, m.Flag, encoding.Bool, tm)
	total += field.EncodedLen(1, m.Num, encoding.Uint32, tm)
	total += field.EncodedLen(2, m.Name, encoding.String, tm)
	total += field.EncodedLen(3, m.Pts, ptsCodec, tm)
	total += field.EncodedLenUnpacked(4, m.Tags, encoding.String, tm)
	total += field.EncodedLen(5, m.Attrs, attrsCodec, tm)
	total += field.EncodedLenOptional(6, m.Opt, encoding.Uint64, tm)
	total += field.EncodedLen(7, &m.Inner, innerCodec, tm)
	switch c := m.Choice.(type) {
	case variantA:
		total += field.EncodedLenVariant(8, uint64(c), encoding.Uint64, tm)
	case variantB:
		total += field.EncodedLenVariant(9, string(c), encoding.String, tm)
	}

	return total
}

func (m *outer) DecodeField(tag uint32, wt wire.Type, dup bool, cap *reader.Capped, ctx encoding.Context) error {
	switch tag {
	case 0:
		return field.Decode(&m.Flag, encoding.Bool, wt, dup, cap, ctx)
	case 1:
		return field.Decode(&m.Num, encoding.Uint32, wt, dup, cap, ctx)
	case 2:
		return field.Decode(&m.Name, encoding.String, wt, dup, cap, ctx)
	case 3:
		return field.DecodePacked(&m.Pts, ptsCodec, encoding.Uint64, wt, dup, cap, ctx)
	case 4:
		return field.DecodeUnpacked(&m.Tags, strPacked, encoding.String, wt, cap, ctx)
	case 5:
		return field.Decode(&m.Attrs, attrsCodec, wt, dup, cap, ctx)
	case 6:
		return field.DecodeOptional(&m.Opt, encoding.Uint64, wt, dup, cap, ctx)
	case 7:
		var p *inner
		if err := field.Decode(&p, innerCodec, wt, dup, cap, ctx); err != nil {
			return err
		}
		m.Inner = *p

		return nil
	case 8:
		if err := field.CheckIncoming(choiceState{m.Choice}, 8); err != nil {
			return err
		}
		var v uint64
		if err := field.DecodeVariant(&v, encoding.Uint64, wt, cap, ctx); err != nil {
			return err
		}
		m.Choice = variantA(v)

		return nil
	case 9:
		if err := field.CheckIncoming(choiceState{m.Choice}, 9); err != nil {
			return err
		}
		var v string
		if err := field.DecodeVariant(&v, encoding.String, wt, cap, ctx); err != nil {
			return err
		}
		m.Choice = variantB(v)

		return nil
	default:
		return errs.ErrUnknownField
	}
}

func (m *outer) DecodeFieldDistinguished(tag uint32, wt wire.Type, dup bool, cap *reader.Capped, ctx encoding.Context) (canon.Canonicity, error) {
	switch tag {
	case 0:
		return field.DecodeDistinguished(&m.Flag, encoding.Bool, wt, dup, cap, ctx)
	case 1:
		return field.DecodeDistinguished(&m.Num, encoding.Uint32, wt, dup, cap, ctx)
	case 2:
		return field.DecodeDistinguished(&m.Name, encoding.String, wt, dup, cap, ctx)
	case 3:
		return field.DecodePackedDistinguished(&m.Pts, ptsCodec, encoding.Uint64, wt, dup, cap, ctx)
	case 4:
		return field.DecodeUnpackedDistinguished(&m.Tags, strPacked, encoding.String, wt, cap, ctx)
	case 5:
		return field.DecodeDistinguished(&m.Attrs, attrsCodec, wt, dup, cap, ctx)
	case 6:
		return field.DecodeOptionalDistinguished(&m.Opt, encoding.Uint64, wt, dup, cap, ctx)
	case 7:
		var p *inner
		canonicity, err := field.DecodeDistinguished(&p, innerCodec, wt, dup, cap, ctx)
		if err != nil {
			return canonicity, err
		}
		m.Inner = *p

		return canonicity, nil
	case 8:
		if err := field.CheckIncoming(choiceState{m.Choice}, 8); err != nil {
			return canon.Canonical, err
		}
		var v uint64
		canonicity, err := field.DecodeVariantDistinguished(&v, encoding.Uint64, wt, cap, ctx)
		if err != nil {
			return canonicity, err
		}
		m.Choice = variantA(v)

		return canonicity, nil
	case 9:
		if err := field.CheckIncoming(choiceState{m.Choice}, 9); err != nil {
			return canon.Canonical, err
		}
		var v string
		canonicity, err := field.DecodeVariantDistinguished(&v, encoding.String, wt, cap, ctx)
		if err != nil {
			return canonicity, err
		}
		m.Choice = variantB(v)

		return canonicity, nil
	default:
		return canon.Canonical, errs.ErrUnknownField
	}
}

// node is a self-referential message for exercising the recursion limit:
// one optional nested field at tag 0.
type node struct {
	Next *node
}

var _ message.Message = (*node)(nil)

func (m *node) MessageName() string { return "Node" }

func (m *node) Clear() { m.Next = nil }

func (m *node) EncodeFields(tw *wire.Writer, sink varint.Sink) {
	if m.Next != nil {
		tw.EncodeKey(0, wire.LengthDelimited, sink)
		nodeCodec.Encode(m.Next, sink)
	}
}

func (m *node) PrependFields(tw *wire.RevWriter, sink varint.ReverseSink) {
	if m.Next != nil {
		tw.BeginField(0, wire.LengthDelimited, sink)
		nodeCodec.Prepend(m.Next, sink)
	}
}

func (m *node) EncodedLenFields(tm wire.Measurer) int {
	if m.Next == nil {
		return 0
	}

	return tm.KeyLen(0) + nodeCodec.EncodedLen(m.Next)
}

func (m *node) DecodeField(tag uint32, wt wire.Type, dup bool, cap *reader.Capped, ctx encoding.Context) error {
	if tag == 0 {
		return field.Decode(&m.Next, nodeCodec, wt, dup, cap, ctx)
	}

	return errs.ErrUnknownField
}

func (m *node) depth() int {
	n := 0
	for cur := m.Next; cur != nil; cur = cur.Next {
		n++
	}

	return n
}

package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilrost-go/bilrost/buffer"
	"github.com/bilrost-go/bilrost/canon"
	"github.com/bilrost-go/bilrost/encoding"
	"github.com/bilrost-go/bilrost/errs"
	"github.com/bilrost-go/bilrost/field"
	"github.com/bilrost-go/bilrost/reader"
	"github.com/bilrost-go/bilrost/varint"
	"github.com/bilrost-go/bilrost/wire"
)

func testCtx() encoding.Context {
	return encoding.NewContext(100)
}

func TestEncodeOmitsEmpty(t *testing.T) {
	buf := buffer.New()
	defer buf.Release()
	var tw wire.Writer

	field.Encode(1, uint64(0), encoding.Uint64, &tw, buf)
	assert.Equal(t, 0, buf.Len(), "empty value must not emit")

	field.Encode(1, uint64(9), encoding.Uint64, &tw, buf)
	assert.Equal(t, []byte{0x04, 9}, buf.Bytes())

	var tm wire.RuntimeMeasurer
	assert.Equal(t, 0, field.EncodedLen(1, uint64(0), encoding.Uint64, &tm))
	var tm2 wire.RuntimeMeasurer
	assert.Equal(t, 2, field.EncodedLen(1, uint64(9), encoding.Uint64, &tm2))
}

func TestPrependMatchesEncode(t *testing.T) {
	buf := buffer.New()
	defer buf.Release()
	var tw wire.Writer
	field.Encode(1, "hi", encoding.String, &tw, buf)
	field.Encode(5, uint64(300), encoding.Uint64, &tw, buf)

	rb := &buffer.ReverseBuf{}
	var rw wire.RevWriter
	field.Prepend(5, uint64(300), encoding.Uint64, &rw, rb)
	field.Prepend(1, "hi", encoding.String, &rw, rb)
	rw.Finalize(rb)

	require.Equal(t, buf.Bytes(), rb.Bytes())
}

func TestDecodePlain(t *testing.T) {
	var dst uint64
	cp := reader.New(buffer.NewSource([]byte{42}))
	require.NoError(t, field.Decode(&dst, encoding.Uint64, wire.Varint, false, &cp, testCtx()))
	assert.Equal(t, uint64(42), dst)

	t.Run("duplicate occurrence", func(t *testing.T) {
		cp := reader.New(buffer.NewSource([]byte{42}))
		var dst uint64
		err := field.Decode(&dst, encoding.Uint64, wire.Varint, true, &cp, testCtx())
		require.ErrorIs(t, err, errs.ErrUnexpectedlyRepeated)
	})

	t.Run("wrong wire type", func(t *testing.T) {
		cp := reader.New(buffer.NewSource([]byte{42}))
		var dst uint64
		err := field.Decode(&dst, encoding.Uint64, wire.ThirtyTwoBit, false, &cp, testCtx())
		require.ErrorIs(t, err, errs.ErrWrongWireType)
	})
}

func TestDecodeDistinguishedFlagsExplicitEmpty(t *testing.T) {
	var dst uint64
	cp := reader.New(buffer.NewSource([]byte{0}))
	canonicity, err := field.DecodeDistinguished(&dst, encoding.Uint64, wire.Varint, false, &cp, testCtx())
	require.NoError(t, err)
	assert.Equal(t, uint64(0), dst)
	assert.Equal(t, canon.NotCanonical, canonicity, "a plain field's empty value should have been omitted")

	cp = reader.New(buffer.NewSource([]byte{1}))
	canonicity, err = field.DecodeDistinguished(&dst, encoding.Uint64, wire.Varint, false, &cp, testCtx())
	require.NoError(t, err)
	assert.Equal(t, canon.Canonical, canonicity)
}

func TestOptional(t *testing.T) {
	buf := buffer.New()
	defer buf.Release()
	var tw wire.Writer

	field.EncodeOptional(2, (*string)(nil), encoding.String, &tw, buf)
	assert.Equal(t, 0, buf.Len(), "absent optional must not emit")

	empty := ""
	field.EncodeOptional(2, &empty, encoding.String, &tw, buf)
	assert.Equal(t, []byte{0x09, 0x00}, buf.Bytes(), "present-but-empty emits an empty value")

	var dst *string
	cp := reader.New(buffer.NewSource([]byte{0x00}))
	require.NoError(t, field.DecodeOptional(&dst, encoding.String, wire.LengthDelimited, false, &cp, testCtx()))
	require.NotNil(t, dst)
	assert.Equal(t, "", *dst)

	// Present-but-empty is canonical for an optional field.
	var dst2 *string
	cp = reader.New(buffer.NewSource([]byte{0x00}))
	canonicity, err := field.DecodeOptionalDistinguished(&dst2, encoding.String, wire.LengthDelimited, false, &cp, testCtx())
	require.NoError(t, err)
	assert.Equal(t, canon.Canonical, canonicity)
}

func TestDecodePackedCrossCompat(t *testing.T) {
	packed := encoding.Packed(encoding.Uint64)

	t.Run("canonical packed run", func(t *testing.T) {
		var dst []uint64
		cp := reader.New(buffer.NewSource([]byte{3, 1, 2, 3}))
		require.NoError(t, field.DecodePacked(&dst, packed, encoding.Uint64, wire.LengthDelimited, false, &cp, testCtx()))
		assert.Equal(t, []uint64{1, 2, 3}, dst)
	})

	t.Run("repeated packed run rejected", func(t *testing.T) {
		var dst []uint64
		cp := reader.New(buffer.NewSource([]byte{1, 1}))
		err := field.DecodePacked(&dst, packed, encoding.Uint64, wire.LengthDelimited, true, &cp, testCtx())
		require.ErrorIs(t, err, errs.ErrUnexpectedlyRepeated)
	})

	t.Run("unpacked occurrences accepted", func(t *testing.T) {
		var dst []uint64
		cp := reader.New(buffer.NewSource([]byte{7}))
		require.NoError(t, field.DecodePacked(&dst, packed, encoding.Uint64, wire.Varint, false, &cp, testCtx()))
		cp = reader.New(buffer.NewSource([]byte{8}))
		require.NoError(t, field.DecodePacked(&dst, packed, encoding.Uint64, wire.Varint, true, &cp, testCtx()))
		assert.Equal(t, []uint64{7, 8}, dst)
	})

	t.Run("unpacked occurrence is not canonical", func(t *testing.T) {
		var dst []uint64
		cp := reader.New(buffer.NewSource([]byte{7}))
		canonicity, err := field.DecodePackedDistinguished(&dst, packed, encoding.Uint64, wire.Varint, false, &cp, testCtx())
		require.NoError(t, err)
		assert.Equal(t, canon.NotCanonical, canonicity)
	})

	t.Run("explicit empty run is not canonical", func(t *testing.T) {
		var dst []uint64
		cp := reader.New(buffer.NewSource([]byte{0}))
		canonicity, err := field.DecodePackedDistinguished(&dst, packed, encoding.Uint64, wire.LengthDelimited, false, &cp, testCtx())
		require.NoError(t, err)
		assert.Equal(t, canon.NotCanonical, canonicity)
	})

	t.Run("mismatched wire type rejected", func(t *testing.T) {
		var dst []uint64
		cp := reader.New(buffer.NewSource([]byte{1, 2, 3, 4}))
		err := field.DecodePacked(&dst, packed, encoding.Uint64, wire.ThirtyTwoBit, false, &cp, testCtx())
		require.ErrorIs(t, err, errs.ErrWrongWireType)
	})
}

func TestDecodeUnpackedCrossCompat(t *testing.T) {
	packed := encoding.Packed(encoding.Uint64)

	t.Run("native occurrences", func(t *testing.T) {
		var dst []uint64
		cp := reader.New(buffer.NewSource([]byte{5}))
		require.NoError(t, field.DecodeUnpacked(&dst, packed, encoding.Uint64, wire.Varint, &cp, testCtx()))
		cp = reader.New(buffer.NewSource([]byte{6}))
		require.NoError(t, field.DecodeUnpacked(&dst, packed, encoding.Uint64, wire.Varint, &cp, testCtx()))
		assert.Equal(t, []uint64{5, 6}, dst)
	})

	t.Run("packed run cross-decodes", func(t *testing.T) {
		var dst []uint64
		cp := reader.New(buffer.NewSource([]byte{3, 1, 2, 3}))
		canonicity, err := field.DecodeUnpackedDistinguished(&dst, packed, encoding.Uint64, wire.LengthDelimited, &cp, testCtx())
		require.NoError(t, err)
		assert.Equal(t, []uint64{1, 2, 3}, dst)
		assert.Equal(t, canon.NotCanonical, canonicity)
	})

	t.Run("length-delimited elements take it verbatim", func(t *testing.T) {
		// When the element's own wire type is length-delimited, an
		// incoming length-delimited field is one element, not a packed
		// run.
		strPacked := encoding.Packed(encoding.String)
		var dst []string
		cp := reader.New(buffer.NewSource([]byte{2, 'h', 'i'}))
		require.NoError(t, field.DecodeUnpacked(&dst, strPacked, encoding.String, wire.LengthDelimited, &cp, testCtx()))
		assert.Equal(t, []string{"hi"}, dst)
	})
}

type testOneof struct {
	tag uint32
	set bool
}

func (o testOneof) ActiveTag() (uint32, bool) { return o.tag, o.set }

func TestCheckIncoming(t *testing.T) {
	assert.NoError(t, field.CheckIncoming(testOneof{}, 4))
	assert.ErrorIs(t, field.CheckIncoming(testOneof{tag: 4, set: true}, 4), errs.ErrUnexpectedlyRepeated)
	assert.ErrorIs(t, field.CheckIncoming(testOneof{tag: 4, set: true}, 5), errs.ErrConflictingFields)
}

func TestVariantEmitsEmptyValue(t *testing.T) {
	buf := buffer.New()
	defer buf.Release()
	var tw wire.Writer

	// A chosen variant emits even when its value is empty; presence
	// records the choice.
	field.EncodeVariant(3, uint64(0), encoding.Uint64, &tw, buf)
	require.Equal(t, []byte{0x0C, 0x00}, buf.Bytes())

	var tm wire.RuntimeMeasurer
	assert.Equal(t, 2, field.EncodedLenVariant(3, uint64(0), encoding.Uint64, &tm))
}

func TestSortGroup(t *testing.T) {
	buf := buffer.New()
	defer buf.Release()
	var tw wire.Writer

	slots := []field.Emission{
		{Tag: 6, Encode: func(tw *wire.Writer, sink varint.Sink) {
			field.EncodeVariant(6, uint64(2), encoding.Uint64, tw, sink)
		}},
		{}, // unfilled oneof slot
		{Tag: 4, Encode: func(tw *wire.Writer, sink varint.Sink) {
			field.Encode(4, uint64(1), encoding.Uint64, tw, sink)
		}},
	}
	field.EncodeGroup(slots, &tw, buf)

	// Tag 4 must precede tag 6 despite slot order.
	require.Equal(t, []byte{0x10, 1, 0x08, 2}, buf.Bytes())
}

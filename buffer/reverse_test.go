package buffer

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverseBufPrependOrder(t *testing.T) {
	rb := &ReverseBuf{}
	rb.PrependSlice([]byte("world"))
	rb.PrependByte(' ')
	rb.PrependSlice([]byte("hello"))

	require.Equal(t, 11, rb.Remaining())
	require.Equal(t, []byte("hello world"), rb.Bytes())
}

func TestReverseBufCrossesChunks(t *testing.T) {
	require := require.New(t)

	// Build the expected content forward while prepending it in reverse,
	// in pieces large enough to force several chunk allocations.
	rng := rand.New(rand.NewSource(7))
	var pieces [][]byte
	total := 0
	for total < 10_000 {
		n := 1 + rng.Intn(700)
		p := make([]byte, n)
		rng.Read(p)
		pieces = append(pieces, p)
		total += n
	}

	rb := &ReverseBuf{}
	var want []byte
	for i := len(pieces) - 1; i >= 0; i-- {
		rb.PrependSlice(pieces[i])
	}
	for _, p := range pieces {
		want = append(want, p...)
	}

	require.Equal(total, rb.Remaining())
	require.Equal(want, rb.Bytes())

	// Bytes doesn't consume; the forward view still yields everything.
	var got []byte
	for rb.HasRemaining() {
		chunk := rb.Chunk()
		require.NotEmpty(chunk)
		got = append(got, chunk...)
		rb.Advance(len(chunk))
	}
	require.Equal(want, got)
	require.Equal(0, rb.Remaining())
}

func TestReverseBufCopyTo(t *testing.T) {
	rb := &ReverseBuf{}
	rb.PlanReservationExact(3)
	rb.PrependSlice([]byte("def"))
	rb.PrependSlice([]byte("abc"))

	out := rb.CopyTo([]byte("x:"))
	require.Equal(t, []byte("x:abcdef"), out)
	require.False(t, rb.HasRemaining())
}

func TestReverseBufPlanReservationExact(t *testing.T) {
	rb := &ReverseBuf{}
	payload := bytes.Repeat([]byte{0xAB}, 700)
	rb.PlanReservationExact(len(payload) + 2)
	rb.PrependSlice(payload)
	rb.PrependSlice([]byte{1, 2})

	// Everything fit the planned chunk: one contiguous read.
	require.Equal(t, len(payload)+2, len(rb.Chunk()))
}

func TestReverseBufClear(t *testing.T) {
	t.Run("without base capacity", func(t *testing.T) {
		rb := &ReverseBuf{}
		rb.PrependSlice([]byte("data"))
		rb.Clear()

		assert.Equal(t, 0, rb.Remaining())
		assert.Nil(t, rb.Chunk())
	})

	t.Run("with base capacity", func(t *testing.T) {
		rb := NewReverseBuf(64)
		rb.PrependSlice(bytes.Repeat([]byte{1}, 100))
		rb.Clear()

		assert.Equal(t, 0, rb.Remaining())
		rb.PrependSlice([]byte("after clear"))
		assert.Equal(t, []byte("after clear"), rb.Bytes())
	})
}

func TestReverseBufBaseCapacityFirstChunk(t *testing.T) {
	rb := NewReverseBuf(1024)
	rb.PrependSlice([]byte("tail"))
	rb.PrependSlice(bytes.Repeat([]byte{2}, 900))

	// Both writes fit the base-capacity chunk.
	require.Equal(t, 904, len(rb.Chunk()))
}

func TestReverseBufFixedWidthPrepends(t *testing.T) {
	rb := &ReverseBuf{}
	rb.PrependUint64LE(0x1122334455667788)
	rb.PrependUint32LE(0xAABBCCDD)
	rb.PrependUint16LE(0x0102)

	require.Equal(t, []byte{
		0x02, 0x01,
		0xDD, 0xCC, 0xBB, 0xAA,
		0x88, 0x77, 0x66, 0x55, 0x44, 0x33, 0x22, 0x11,
	}, rb.Bytes())
}

func TestSource(t *testing.T) {
	src := NewSource([]byte{1, 2, 3, 4, 5})

	require.True(t, src.HasRemaining())
	require.Equal(t, 5, src.Remaining())
	require.Equal(t, []byte{1, 2, 3, 4, 5}, src.Chunk())

	src.Advance(2)
	require.Equal(t, []byte{3, 4, 5}, src.Chunk())

	dst := make([]byte, 2)
	src.CopySlice(dst)
	require.Equal(t, []byte{3, 4}, dst)
	require.Equal(t, 1, src.Remaining())

	src.Advance(1)
	require.False(t, src.HasRemaining())
	require.Panics(t, func() { src.Advance(1) })
}

func TestFixed(t *testing.T) {
	f := NewFixed(make([]byte, 4))
	require.Equal(t, 4, f.Remaining())

	f.PutByte(1)
	f.PutSlice([]byte{2, 3})
	require.Equal(t, 1, f.Remaining())
	require.Equal(t, []byte{1, 2, 3}, f.Bytes())

	require.Panics(t, func() { f.PutSlice([]byte{4, 5}) })
	f.PutByte(4)
	require.Panics(t, func() { f.PutByte(5) })
	require.Equal(t, []byte{1, 2, 3, 4}, f.Bytes())
}

func TestBufSink(t *testing.T) {
	b := New()
	defer b.Release()

	b.PutByte('a')
	b.PutSlice([]byte("bc"))
	require.Equal(t, []byte("abc"), b.Bytes())
	require.Equal(t, 3, b.Len())
	require.Greater(t, b.Remaining(), 1<<40)

	b.Reset()
	require.Equal(t, 0, b.Len())
}

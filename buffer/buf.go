// Package buffer provides the byte-buffer shapes the bilrost codec writes
// to and reads from: an ordinary append-only Buf for encoding, a
// cursor-based Source for decoding, and a prepend-only ReverseBuf that lets
// a length-delimited payload be written before its length prefix is known,
// without a measuring pass or a temporary copy.
package buffer

import (
	"math"

	"github.com/bilrost-go/bilrost/internal/pool"
)

// Buf is a growable, append-only byte buffer satisfying the codec's Sink
// contract (varint.Sink, encoding.Sink). It is the usual destination for
// Message.Encode.
//
// A zero Buf is not usable; construct one with New or NewSize.
type Buf struct {
	bb *pool.ByteBuffer
}

// New returns an empty Buf backed by a buffer pulled from the shared pool.
func New() *Buf {
	return &Buf{bb: pool.GetEncodeBuffer()}
}

// NewSize returns an empty Buf pre-sized to hold at least size bytes
// without reallocating.
func NewSize(size int) *Buf {
	return &Buf{bb: pool.NewByteBuffer(size)}
}

// Release returns the Buf's backing storage to the shared pool. The Buf
// must not be used afterward.
func (b *Buf) Release() {
	if b.bb != nil {
		pool.PutEncodeBuffer(b.bb)
		b.bb = nil
	}
}

// Bytes returns the buffer's full contents.
func (b *Buf) Bytes() []byte { return b.bb.Bytes() }

// Len returns the number of bytes written so far.
func (b *Buf) Len() int { return b.bb.Len() }

// PutSlice appends p, growing the buffer as needed.
func (b *Buf) PutSlice(p []byte) {
	b.bb.Grow(len(p))
	b.bb.MustWrite(p)
}

// PutByte appends a single byte, growing the buffer as needed.
func (b *Buf) PutByte(c byte) {
	b.bb.Grow(1)
	idx := b.bb.Len()
	b.bb.ExtendOrGrow(1)
	b.bb.B[idx] = c
}

// Remaining reports how many more bytes the sink can accept. Buf grows on
// demand, so the answer is effectively unbounded; fixed-capacity sinks like
// Fixed are the ones whose Remaining makes encode return an EncodeError.
func (b *Buf) Remaining() int {
	return math.MaxInt
}

// Reset empties the buffer while retaining its backing storage for reuse.
func (b *Buf) Reset() {
	b.bb.Reset()
}

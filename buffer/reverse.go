package buffer

import "encoding/binary"

// minChunkSize is the smallest chunk ReverseBuf allocates when growing,
// mirroring the floor pool.ByteBuffer effectively applies via
// EncodeBufferDefaultSize for the forward buffer — small prepends shouldn't
// cause a cascade of tiny allocations.
const minChunkSize = 256

// rchunk is one heap allocation owned by a ReverseBuf. Bytes at indices
// [front, len(buf)) are the valid, already-written portion; [0, front) is
// unused prefix space available for future prepends without reallocating.
type rchunk struct {
	buf   []byte
	front int
	next  *rchunk // the chunk holding the bytes that logically follow this one
}

func (c *rchunk) avail() int { return c.front }

// ReverseBuf is a prepend-only byte buffer: bytes written with Prepend
// appear before everything previously written, not after. This is the
// mechanism that lets a nested message's length prefix be written *after*
// its payload, in the same single pass that wrote the payload, rather than
// measuring first or buffering into a scratch copy (spec §4.2, §9).
//
// ReverseBuf also satisfies the codec's forward Source contract (Chunk,
// Advance, Remaining, HasRemaining) so that once prepending is finished,
// the accumulated bytes can be forwarded byte-for-byte into any append-only
// Sink or contiguous slice — the defining property is that Prepend and
// the ordinary forward Sink path produce identical output for the same
// value (spec §5, "Prepend and append produce byte-identical output").
//
// A zero ReverseBuf is ready to use.
type ReverseBuf struct {
	front   *rchunk
	total   int
	baseCap int
	nextMin int // planned minimum size of the next allocation, set by PlanReservation or PlanReservationExact; 0 if none pending
}

// NewReverseBuf returns a ReverseBuf whose first chunk is pre-sized to hold
// baseCap bytes, and which retains a chunk of that size across Clear.
func NewReverseBuf(baseCap int) *ReverseBuf {
	return &ReverseBuf{baseCap: baseCap}
}

// Remaining returns the total number of bytes currently buffered.
func (r *ReverseBuf) Remaining() int { return r.total }

// Clear empties the buffer. If it was constructed with NewReverseBuf(n),
// one chunk of capacity n is retained for reuse; otherwise the buffer
// returns to fully empty.
func (r *ReverseBuf) Clear() {
	r.total = 0
	r.nextMin = 0
	if r.baseCap > 0 {
		r.front = &rchunk{buf: make([]byte, r.baseCap), front: r.baseCap}
	} else {
		r.front = nil
	}
}

// PlanReservation hints that at least n more bytes will be prepended soon,
// influencing (but not guaranteeing) the size of the next chunk allocation.
// It composes with the default doubling growth: the next chunk will be at
// least n bytes even if doubling alone would pick something smaller.
func (r *ReverseBuf) PlanReservation(n int) {
	if n > r.nextMin {
		r.nextMin = n
	}
}

// PlanReservationExact sets the planned size of the next chunk allocation
// to n, replacing any earlier plan instead of only raising it. The chunk is
// still no smaller than minChunkSize or the default growth size, so it can
// be larger than n. Message.EncodeContiguous calls it on an empty buffer
// with the full encoded length, so the entire encoding lands in one
// contiguous chunk.
func (r *ReverseBuf) PlanReservationExact(n int) {
	r.nextMin = n
}

// PrependSlice writes p before everything previously buffered.
func (r *ReverseBuf) PrependSlice(p []byte) {
	if len(p) == 0 {
		return
	}

	r.total += len(p)

	if r.front != nil {
		if avail := r.front.avail(); avail > 0 {
			if avail >= len(p) {
				copy(r.front.buf[r.front.front-len(p):r.front.front], p)
				r.front.front -= len(p)

				return
			}

			// Use up the old front chunk's remaining prefix with the tail
			// portion of p (the part that abuts the old chunk's existing
			// content); the head portion still needs a home.
			tail := p[len(p)-avail:]
			copy(r.front.buf[:avail], tail)
			r.front.front = 0
			p = p[:len(p)-avail]
		}
	}

	newCap := r.nextChunkCap(len(p))
	r.nextMin = 0

	nc := &rchunk{buf: make([]byte, newCap), next: r.front}
	nc.front = newCap - len(p)
	copy(nc.buf[nc.front:], p)
	r.front = nc
}

// PrependByte is the single-byte specialization of PrependSlice.
func (r *ReverseBuf) PrependByte(c byte) {
	r.total++

	if r.front != nil && r.front.avail() > 0 {
		r.front.front--
		r.front.buf[r.front.front] = c

		return
	}

	newCap := r.nextChunkCap(1)
	r.nextMin = 0

	nc := &rchunk{buf: make([]byte, newCap), next: r.front}
	nc.front = newCap - 1
	nc.buf[nc.front] = c
	r.front = nc
}

// PrependUint16LE prepends v as 2 little-endian bytes.
func (r *ReverseBuf) PrependUint16LE(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	r.PrependSlice(b[:])
}

// PrependUint32LE prepends v as 4 little-endian bytes.
func (r *ReverseBuf) PrependUint32LE(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	r.PrependSlice(b[:])
}

// PrependUint64LE prepends v as 8 little-endian bytes.
func (r *ReverseBuf) PrependUint64LE(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	r.PrependSlice(b[:])
}

func (r *ReverseBuf) nextChunkCap(need int) int {
	size := minChunkSize
	if r.front == nil && r.baseCap > size {
		size = r.baseCap
	}
	// Default growth: the new chunk matches the capacity already held, so
	// the total capacity doubles with each allocation.
	held := 0
	for c := r.front; c != nil; c = c.next {
		held += len(c.buf)
	}
	if held > size {
		size = held
	}
	if r.nextMin > size {
		size = r.nextMin
	}
	if need > size {
		size = need
	}

	return size
}

// Forward Source view: the front chunk's valid region is the start of the
// logical content; advancing across a chunk's end moves to the next one.

// Chunk returns the first contiguous run of unread bytes.
func (r *ReverseBuf) Chunk() []byte {
	for r.front != nil && r.front.front >= len(r.front.buf) {
		r.front = r.front.next
	}
	if r.front == nil {
		return nil
	}

	return r.front.buf[r.front.front:]
}

// Advance moves the read cursor forward by n bytes, dropping fully-consumed
// chunks as it crosses them.
func (r *ReverseBuf) Advance(n int) {
	r.total -= n
	for n > 0 {
		c := r.front
		if c == nil {
			panic("buffer: Advance past end of ReverseBuf")
		}

		avail := len(c.buf) - c.front
		if n < avail {
			c.front += n

			return
		}

		n -= avail
		r.front = c.next
	}
}

// HasRemaining reports whether any unread bytes remain.
func (r *ReverseBuf) HasRemaining() bool {
	return r.total > 0
}

// CopyTo appends the buffer's full remaining contents to dst and returns
// the result, consuming the buffer's chunks as it goes (matching the
// Chunk/Advance contract rather than peeking).
func (r *ReverseBuf) CopyTo(dst []byte) []byte {
	for r.HasRemaining() {
		c := r.Chunk()
		dst = append(dst, c...)
		r.Advance(len(c))
	}

	return dst
}

// Bytes materializes the buffer's full contents into a single freshly
// allocated slice without disturbing chunk state — unlike CopyTo, it may
// be called more than once.
func (r *ReverseBuf) Bytes() []byte {
	out := make([]byte, 0, r.total)
	for c := r.front; c != nil; c = c.next {
		out = append(out, c.buf[c.front:]...)
	}

	return out
}

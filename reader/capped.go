// Package reader provides Capped, the soft length-delimited boundary that
// decode logic nests around message and collection bodies without paying
// for a bounds check on every byte read.
package reader

import (
	"math"

	"github.com/bilrost-go/bilrost/errs"
	"github.com/bilrost-go/bilrost/varint"
)

// Source is the forward-reading byte origin Capped wraps: satisfied by
// buffer.Source and buffer.ReverseBuf's read view.
type Source interface {
	Chunk() []byte
	Advance(n int)
	Remaining() int
	HasRemaining() bool
}

// Capped wraps a Source with a soft upper bound — a cap — usually the end
// of a length-delimited field or the outermost message. "Soft" because
// Capped never truncates the underlying source itself; it only tracks how
// many bytes beyond the cap remain, and compares against that count when
// asked. Nesting a new Capped inside another costs one subtraction, not a
// new bounds-checked wrapper type, so arbitrarily deep message nesting
// stays cheap.
type Capped struct {
	src            Source
	extraRemaining int
}

// New wraps src with its cap at the source's natural end — no boundary
// narrower than "everything left to read".
func New(src Source) Capped {
	return Capped{src: src}
}

// NewLengthDelimited reads a length prefix from the front of src, then
// returns a Capped whose cap sits at the end of that many bytes.
func NewLengthDelimited(src Source) (Capped, error) {
	length, err := varint.Decode(src)
	if err != nil {
		return Capped{}, err
	}
	if length > math.MaxInt {
		return Capped{}, errs.ErrOversize
	}

	remaining := src.Remaining()
	if length > uint64(remaining) {
		return Capped{}, errs.ErrTruncated
	}

	return Capped{src: src, extraRemaining: remaining - int(length)}, nil
}

// Lend returns a Capped sharing this one's source and cap, for passing to
// a callee that shouldn't be able to advance past this value's boundary
// but also shouldn't take ownership of the parent's Capped value.
func (c *Capped) Lend() Capped {
	return Capped{src: c.src, extraRemaining: c.extraRemaining}
}

// TakeLengthDelimited reads a length prefix from the front of c, then
// returns a subsidiary Capped for exactly that many bytes — failing if
// doing so would read past either the underlying source's end or c's own
// cap.
func (c *Capped) TakeLengthDelimited() (Capped, error) {
	length, err := c.DecodeVarint()
	if err != nil {
		return Capped{}, err
	}
	if length > math.MaxInt {
		return Capped{}, errs.ErrOversize
	}

	remaining := c.src.Remaining()
	if length > uint64(remaining) {
		return Capped{}, errs.ErrTruncated
	}

	extraRemaining := remaining - int(length)
	if extraRemaining < c.extraRemaining {
		return Capped{}, errs.ErrTruncated
	}

	return Capped{src: c.src, extraRemaining: extraRemaining}, nil
}

// TakeAll consumes and returns every byte remaining before c's cap.
func (c *Capped) TakeAll() []byte {
	n := c.RemainingBeforeCap()
	out := make([]byte, n)

	copied := 0
	for copied < n {
		chunk := c.src.Chunk()
		if len(chunk) > n-copied {
			chunk = chunk[:n-copied]
		}
		copy(out[copied:], chunk)
		c.src.Advance(len(chunk))
		copied += len(chunk)
	}

	return out
}

// Discard consumes n bytes before the cap without copying them, for
// skipping over values nothing wants.
func (c *Capped) Discard(n int) error {
	if c.RemainingBeforeCap() < n {
		return errs.ErrTruncated
	}
	for n > 0 {
		chunk := c.src.Chunk()
		if len(chunk) == 0 {
			return errs.ErrTruncated
		}
		if len(chunk) > n {
			chunk = chunk[:n]
		}
		c.src.Advance(len(chunk))
		n -= len(chunk)
	}

	return nil
}

// DecodeVarint reads one varint from the wrapped source, remapping a
// malformed-encoding error to ErrTruncated when the read ran past c's cap
// — from the cap's point of view, the source simply ended there, whether
// or not the underlying source kept going with well-formed-looking bytes.
func (c *Capped) DecodeVarint() (uint64, error) {
	value, err := varint.Decode(c.src)
	if err != nil {
		if err == errs.ErrInvalidVarint && c.overCap() {
			return 0, errs.ErrTruncated
		}

		return 0, err
	}

	return value, nil
}

// RemainingBeforeCap returns the number of bytes left to read before c's
// cap, never negative.
func (c *Capped) RemainingBeforeCap() int {
	n := c.src.Remaining() - c.extraRemaining
	if n < 0 {
		return 0
	}

	return n
}

func (c *Capped) overCap() bool {
	return c.src.Remaining() < c.extraRemaining
}

// HasRemaining reports whether any bytes remain before c's cap.
//
// Errors:
//   - errs.ErrTruncated: the underlying source already ran out before
//     reaching c's cap.
func (c *Capped) HasRemaining() (bool, error) {
	remaining := c.src.Remaining()
	switch {
	case remaining < c.extraRemaining:
		return false, errs.ErrTruncated
	case remaining == c.extraRemaining:
		return false, nil
	default:
		return true, nil
	}
}

// Chunk exposes the wrapped source's Chunk, for value encodings that read
// fixed-width or raw bytes directly.
func (c *Capped) Chunk() []byte { return c.src.Chunk() }

// Advance exposes the wrapped source's Advance.
func (c *Capped) Advance(n int) { c.src.Advance(n) }

// Remaining exposes the wrapped source's Remaining, uncapped — callers
// wanting the capped count should use RemainingBeforeCap.
func (c *Capped) Remaining() int { return c.src.Remaining() }

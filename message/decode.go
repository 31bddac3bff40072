package message

import (
	"errors"
	"strconv"

	"github.com/bilrost-go/bilrost/buffer"
	"github.com/bilrost-go/bilrost/canon"
	"github.com/bilrost-go/bilrost/encoding"
	"github.com/bilrost-go/bilrost/errs"
	"github.com/bilrost-go/bilrost/reader"
	"github.com/bilrost-go/bilrost/wire"
)

// Decode parses data into m, replacing its previous contents. On any error
// m is left cleared, never partially decoded.
func Decode(m Message, data []byte, opts ...DecodeOption) error {
	cfg, err := newDecodeConfig(opts)
	if err != nil {
		return err
	}

	m.Clear()
	ctx := encoding.NewContext(cfg.recursionLimit)
	c := reader.New(buffer.NewSource(data))
	if err := decodeCapped(m, &c, ctx); err != nil {
		m.Clear()

		return err
	}

	return nil
}

// DecodeLengthDelimited parses a varint length prefix, then exactly that
// many bytes of message content.
func DecodeLengthDelimited(m Message, data []byte, opts ...DecodeOption) error {
	cfg, err := newDecodeConfig(opts)
	if err != nil {
		return err
	}

	m.Clear()
	ctx := encoding.NewContext(cfg.recursionLimit)
	c, err := reader.NewLengthDelimited(buffer.NewSource(data))
	if err != nil {
		return err
	}
	if err := decodeCapped(m, &c, ctx); err != nil {
		m.Clear()

		return err
	}

	return nil
}

// ReplaceFrom decodes data into m in place. It is Decode under the name
// the in-place intent reads best by: the target's existing allocations are
// reusable by its own DecodeField implementations, and on error the target
// is cleared.
func ReplaceFrom(m Message, data []byte, opts ...DecodeOption) error {
	return Decode(m, data, opts...)
}

// DecodeDistinguished parses data into m while classifying how canonical
// the input was: Canonical guarantees that re-encoding m reproduces data
// byte for byte, HasExtensions means unknown fields were skipped, and
// NotCanonical means some known field bore a representation re-encoding
// would not produce. Classification never fails a decode; to reject
// sub-canonical input outright, use DecodeRestricted.
func DecodeDistinguished(m DistinguishedMessage, data []byte, opts ...DecodeOption) (canon.Canonicity, error) {
	return DecodeRestricted(m, canon.NotCanonical, data, opts...)
}

// DecodeDistinguishedLengthDelimited is DecodeDistinguished over a
// length-prefixed encoding.
func DecodeDistinguishedLengthDelimited(m DistinguishedMessage, data []byte, opts ...DecodeOption) (canon.Canonicity, error) {
	cfg, err := newDecodeConfig(opts)
	if err != nil {
		return canon.Canonical, err
	}

	m.Clear()
	ctx := encoding.NewDistinguishedContext(cfg.recursionLimit, canon.NotCanonical)
	c, err := reader.NewLengthDelimited(buffer.NewSource(data))
	if err != nil {
		return canon.Canonical, err
	}
	canonicity, err := decodeDistinguishedCapped(m, &c, ctx)
	if err != nil {
		m.Clear()
	}

	return canonicity, err
}

// DecodeRestricted parses data into m in distinguished mode with an
// explicit canonicity floor: Canonical rejects everything below full
// canonicity, HasExtensions additionally tolerates unknown fields, and
// NotCanonical merely classifies without ever failing on canonicity
// grounds. Whenever the accumulated canonicity would drop below the floor,
// decoding stops immediately with errs.ErrNotCanonical.
func DecodeRestricted(m DistinguishedMessage, floor canon.Canonicity, data []byte, opts ...DecodeOption) (canon.Canonicity, error) {
	cfg, err := newDecodeConfig(opts)
	if err != nil {
		return canon.Canonical, err
	}

	m.Clear()
	ctx := encoding.NewDistinguishedContext(cfg.recursionLimit, floor)
	c := reader.New(buffer.NewSource(data))
	canonicity, err := decodeDistinguishedCapped(m, &c, ctx)
	if err != nil {
		m.Clear()
	}

	return canonicity, err
}

// decodeCapped drives the expedient decode loop over one capped region:
// read a key, dispatch, skip what the message doesn't know.
func decodeCapped(m Message, c *reader.Capped, ctx encoding.Context) error {
	var tr wire.Reader
	var prevTag uint32
	first := true

	for {
		has, err := c.HasRemaining()
		if err != nil {
			return frame(err, m, 0, false)
		}
		if !has {
			return nil
		}

		tag, wt, err := tr.DecodeKey(c)
		if err != nil {
			return frame(err, m, 0, false)
		}

		dup := !first && tag == prevTag
		first = false
		prevTag = tag

		err = m.DecodeField(tag, wt, dup, c, ctx)
		if errors.Is(err, errs.ErrUnknownField) {
			if err := skipValue(wt, c); err != nil {
				return frame(err, m, tag, true)
			}

			continue
		}
		if err != nil {
			return frame(err, m, tag, true)
		}
	}
}

// decodeDistinguishedCapped is decodeCapped for distinguished mode,
// folding every field's classification — and HasExtensions for each
// unknown-field skip — into one canonicity, gated against the context's
// floor.
func decodeDistinguishedCapped(m DistinguishedMessage, c *reader.Capped, ctx encoding.Context) (canon.Canonicity, error) {
	var tr wire.Reader
	var prevTag uint32
	first := true
	state := canon.NewState(ctx.Floor())

	for {
		has, err := c.HasRemaining()
		if err != nil {
			return state.Get(), frame(err, m, 0, false)
		}
		if !has {
			return state.Get(), nil
		}

		tag, wt, err := tr.DecodeKey(c)
		if err != nil {
			return state.Get(), frame(err, m, 0, false)
		}

		dup := !first && tag == prevTag
		first = false
		prevTag = tag

		canonicity, err := m.DecodeFieldDistinguished(tag, wt, dup, c, ctx)
		if errors.Is(err, errs.ErrUnknownField) {
			if err := state.Update(canon.HasExtensions); err != nil {
				return state.Get(), frame(err, m, tag, true)
			}
			if err := skipValue(wt, c); err != nil {
				return state.Get(), frame(err, m, tag, true)
			}

			continue
		}
		if err != nil {
			return state.Get(), frame(err, m, tag, true)
		}
		if err := state.Update(canonicity); err != nil {
			return state.Get(), frame(err, m, tag, true)
		}
	}
}

// skipValue consumes one value of the given wire type without interpreting
// it, leaving the capped region positioned at the next key.
func skipValue(wt wire.Type, c *reader.Capped) error {
	switch wt {
	case wire.Varint:
		_, err := c.DecodeVarint()

		return err
	case wire.LengthDelimited:
		inner, err := c.TakeLengthDelimited()
		if err != nil {
			return err
		}

		return inner.Discard(inner.RemainingBeforeCap())
	default:
		n, _ := wt.FixedSize()

		return c.Discard(n)
	}
}

// frame attaches one (message, field) layer to an unwinding decode error.
func frame(err error, m Message, tag uint32, hasField bool) error {
	if err == nil {
		return nil
	}

	fieldName := ""
	if hasField {
		if fn, ok := m.(FieldNamer); ok {
			fieldName = fn.FieldName(tag)
		} else {
			fieldName = strconv.FormatUint(uint64(tag), 10)
		}
	}

	return errs.WithFrame(err, m.MessageName(), fieldName)
}

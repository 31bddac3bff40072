// Package wire defines bilrost's field-key framing: the wire type enum and
// the tag sequencers that turn a stream of (tag, wire type) pairs into the
// varint-packed key deltas that actually hit the buffer.
package wire

// Type identifies how a field's value is encoded, carried in the low two
// bits of every field key.
type Type uint8

const (
	Varint Type = iota
	LengthDelimited
	ThirtyTwoBit
	SixtyFourBit
)

// String renders the wire type the way error messages and debug output
// want to see it.
func (t Type) String() string {
	switch t {
	case Varint:
		return "varint"
	case LengthDelimited:
		return "length-delimited"
	case ThirtyTwoBit:
		return "32-bit"
	case SixtyFourBit:
		return "64-bit"
	default:
		return "invalid"
	}
}

// FromByte extracts a wire type from a key's low two bits, ignoring the
// rest of the byte.
func FromByte(b byte) Type {
	return Type(b & 0b11)
}

// FixedSize returns the number of payload bytes a fixed-width wire type
// occupies, and false for Varint and LengthDelimited, whose payload length
// isn't implied by the wire type alone.
func (t Type) FixedSize() (int, bool) {
	switch t {
	case ThirtyTwoBit:
		return 4, true
	case SixtyFourBit:
		return 8, true
	default:
		return 0, false
	}
}

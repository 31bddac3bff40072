// Package errs centralizes the error values produced by the bilrost codec.
//
// Every failure the codec can report is one of a small set of sentinel
// kinds (Truncated, InvalidVarint, WrongWireType, ...). Call sites wrap a
// sentinel with fmt.Errorf("%w: ...", errs.ErrTruncated, ...) to attach
// positional context while leaving errors.Is(err, errs.ErrTruncated)
// working for callers that only care about the kind.
package errs

import "errors"

// Sentinel error kinds, one per condition named in the wire format and
// runtime specification. These are the values errors.Is should be checked
// against; human-readable context is layered on top with fmt.Errorf.
var (
	// ErrTruncated indicates the source was exhausted before a value,
	// varint, or length-delimited region finished.
	ErrTruncated = errors.New("bilrost: truncated")

	// ErrInvalidVarint indicates a 9-byte varint whose value overflows u64.
	ErrInvalidVarint = errors.New("bilrost: invalid varint")

	// ErrTagOverflowed indicates a field key whose accumulated tag exceeds
	// the maximum representable tag (math.MaxUint32).
	ErrTagOverflowed = errors.New("bilrost: tag overflowed")

	// ErrWrongWireType indicates the wire type read from a field key does
	// not match what the target field's encoding expects.
	ErrWrongWireType = errors.New("bilrost: wrong wire type")

	// ErrInvalidValue indicates a type-specific malformed payload: invalid
	// UTF-8 in a string, a fixed-size array whose length doesn't match,
	// and similar.
	ErrInvalidValue = errors.New("bilrost: invalid value")

	// ErrOutOfDomainValue indicates a well-formed value outside the
	// admissible domain of its target type: a narrow integer overflow, an
	// unrecognized enumeration number, a non-0/1 bool.
	ErrOutOfDomainValue = errors.New("bilrost: value out of domain")

	// ErrUnexpectedlyRepeated indicates a non-repeatable field, or a
	// already-set oneof variant, appeared a second time on the wire.
	ErrUnexpectedlyRepeated = errors.New("bilrost: unexpectedly repeated field")

	// ErrConflictingFields indicates two distinct variants of the same
	// oneof were both present on the wire.
	ErrConflictingFields = errors.New("bilrost: conflicting oneof fields")

	// ErrOversize indicates a declared length does not fit in a platform int.
	ErrOversize = errors.New("bilrost: declared length too large")

	// ErrRecursionLimitReached indicates nested-message decoding exceeded
	// the configured recursion limit.
	ErrRecursionLimitReached = errors.New("bilrost: recursion limit reached")

	// ErrUnknownField is returned by strict decode paths that choose to
	// reject unknown tags rather than skip them.
	ErrUnknownField = errors.New("bilrost: unknown field")

	// ErrNotCanonical indicates a restricted distinguished decode observed
	// a representation below its configured canonicity floor.
	ErrNotCanonical = errors.New("bilrost: not canonical")

	// ErrEncodeCapacity indicates a sink reported insufficient remaining
	// capacity for a write the caller requested.
	ErrEncodeCapacity = errors.New("bilrost: insufficient sink capacity")
)

// EncodeError reports that a sink did not have enough remaining capacity to
// hold an encoded value. The sink is left unchanged: length is always
// checked up front, so a failed encode never writes a partial value.
type EncodeError struct {
	Required  int
	Remaining int
}

func (e *EncodeError) Error() string {
	return "bilrost: encode requires " + itoa(e.Required) + " bytes, sink has " + itoa(e.Remaining) + " remaining"
}

func (e *EncodeError) Is(target error) bool {
	return target == ErrEncodeCapacity
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

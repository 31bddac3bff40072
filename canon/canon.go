// Package canon defines the three-valued canonicity lattice distinguished
// decoding reports through, and the accumulator that folds per-field
// canonicity observations into a single classification for a whole decode.
package canon

import "github.com/bilrost-go/bilrost/errs"

// Canonicity classifies how faithfully a decoded value's wire bytes match
// the bytes re-encoding that value would produce. The three values form a
// total order: NotCanonical < HasExtensions < Canonical.
type Canonicity uint8

const (
	// NotCanonical: a known field was present with a representation
	// re-encoding would not reproduce — an explicitly encoded empty value,
	// a packed/unpacked mismatch, out-of-order map keys, and so on.
	NotCanonical Canonicity = iota

	// HasExtensions: every known field was canonical, but at least one
	// unknown field was present and skipped. Re-encoding would drop the
	// unknown fields, so the bytes are not reproducible, but nothing the
	// schema knows about was mis-encoded.
	HasExtensions

	// Canonical: the input bytes are exactly what re-encoding the decoded
	// value produces.
	Canonical
)

// String renders the canonicity for error messages and debug output.
func (c Canonicity) String() string {
	switch c {
	case NotCanonical:
		return "not canonical"
	case HasExtensions:
		return "has extensions"
	case Canonical:
		return "canonical"
	default:
		return "invalid"
	}
}

// Min returns the lower of two canonicity values: the lattice meet, used to
// fold per-field observations into a whole-message classification.
func Min(a, b Canonicity) Canonicity {
	if a < b {
		return a
	}

	return b
}

// State accumulates canonicity across the fields of one distinguished
// decode, gating against a floor: the minimum canonicity the caller is
// willing to accept. DecodeDistinguished uses a floor of NotCanonical, so
// it only classifies; DecodeRestricted lets the caller choose.
type State struct {
	value Canonicity
	floor Canonicity
}

// NewState returns an accumulator starting at Canonical with the given
// acceptance floor.
func NewState(floor Canonicity) State {
	return State{value: Canonical, floor: floor}
}

// Update folds one observation into the accumulated canonicity. If the
// result drops below the floor, decoding should stop: Update returns
// errs.ErrNotCanonical and the caller unwinds immediately rather than
// continuing to parse input it has already classified as unacceptable.
func (s *State) Update(c Canonicity) error {
	s.value = Min(s.value, c)
	if s.value < s.floor {
		return errs.ErrNotCanonical
	}

	return nil
}

// Get returns the accumulated canonicity.
func (s *State) Get() Canonicity {
	return s.value
}

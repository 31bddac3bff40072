// Package bilrost implements a compact, tagged binary serialization format
// with a canonical (distinguished) decoding mode in which every value has
// exactly one valid encoding.
//
// # Core Features
//
//   - Bijective varints: every u64 has exactly one wire representation
//   - Delta-encoded field keys, fields in ascending tag order
//   - Single-pass encoding of length-prefixed nested messages via a
//     prepend-only reverse buffer
//   - Distinguished decoding that classifies input as Canonical,
//     HasExtensions, or NotCanonical
//   - A container format for storing many encoded messages together with
//     O(1) lookup, optional compression, and checksums
//
// # Basic Usage
//
// A message type implements message.Message (typically via generated or
// hand-written per-field code); encoding and decoding then go through the
// top-level wrappers:
//
//	data := bilrost.Marshal(&msg)
//
//	var out MyMessage
//	if err := bilrost.Unmarshal(data, &out); err != nil {
//	    return err
//	}
//
// Distinguished decoding additionally reports how canonical the input was:
//
//	canonicity, err := bilrost.UnmarshalDistinguished(data, &out)
//
// # Package Structure
//
// This package provides convenient wrappers around the message package.
// For fine-grained control — streaming sinks, reverse-buffer encoding,
// restricted canonicity floors — use the message, buffer, and canon
// packages directly. The container and compress packages handle multi-
// message storage.
package bilrost

import (
	"github.com/bilrost-go/bilrost/buffer"
	"github.com/bilrost-go/bilrost/canon"
	"github.com/bilrost-go/bilrost/message"
	"github.com/bilrost-go/bilrost/varint"
)

// Marshal encodes m into a freshly allocated, exactly sized byte slice.
func Marshal(m message.Message) []byte {
	return message.EncodeToVec(m)
}

// MarshalLengthDelimited encodes m prefixed with its varint length.
func MarshalLengthDelimited(m message.Message) ([]byte, error) {
	n := message.EncodedLen(m)
	buf := newFixedFor(n)
	if err := message.EncodeLengthDelimited(m, buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Unmarshal decodes data into m, replacing its contents. On error m is
// left cleared.
func Unmarshal(data []byte, m message.Message, opts ...message.DecodeOption) error {
	return message.Decode(m, data, opts...)
}

// UnmarshalDistinguished decodes data into m and reports how canonical data
// is: canon.Canonical, canon.HasExtensions when unknown fields were skipped,
// or canon.NotCanonical. A non-canonical encoding alone does not fail the
// decode; message.DecodeRestricted rejects encodings below a chosen floor
// with errs.ErrNotCanonical.
func UnmarshalDistinguished(data []byte, m message.DistinguishedMessage, opts ...message.DecodeOption) (canon.Canonicity, error) {
	return message.DecodeDistinguished(m, data, opts...)
}

// Size returns the number of bytes Marshal would produce for m.
func Size(m message.Message) int {
	return message.EncodedLen(m)
}

func newFixedFor(n int) *buffer.Fixed {
	return buffer.NewFixed(make([]byte, varint.EncodedLen(uint64(n))+n))
}

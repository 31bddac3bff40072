package container

import (
	"fmt"

	"github.com/bilrost-go/bilrost/compress"
	"github.com/bilrost-go/bilrost/endian"
	"github.com/bilrost-go/bilrost/errs"
)

const (
	// Bit masks over the Options word.
	EndiannessMask = 0x0001 // bit 0: 0 = little-endian, 1 = big-endian
	NamesMask      = 0x0002 // bit 1: names payload present
	ReservedMask   = 0x000C // bits 2-3: must be zero
	MagicMask      = 0xFFF0 // bits 4-15: format magic

	// MagicContainerV1 is the version 1 magic number of the container
	// format.
	MagicContainerV1 = 0xBC10
)

// Flag is the packed option word at the front of a container header plus
// the compression type byte that follows it. The Options word itself is
// always little-endian on the wire; its endianness bit governs only the
// multi-byte fields after it.
type Flag struct {
	Options         uint16
	CompressionType uint8
}

// NewFlag returns the default flag: version 1 magic, little-endian, no
// names payload, no compression.
func NewFlag() Flag {
	return Flag{
		Options:         MagicContainerV1,
		CompressionType: uint8(compress.TypeNone),
	}
}

// IsBigEndian reports whether the header's multi-byte fields and the index
// section use big-endian byte order.
func (f Flag) IsBigEndian() bool {
	return f.Options&EndiannessMask != 0
}

// SetBigEndian sets the endianness bit.
func (f *Flag) SetBigEndian(big bool) {
	if big {
		f.Options |= EndiannessMask
	} else {
		f.Options &^= EndiannessMask
	}
}

// HasNames reports whether a names payload follows the message payload.
func (f Flag) HasNames() bool {
	return f.Options&NamesMask != 0
}

// SetHasNames sets the names-payload bit.
func (f *Flag) SetHasNames(has bool) {
	if has {
		f.Options |= NamesMask
	} else {
		f.Options &^= NamesMask
	}
}

// GetEndianEngine returns the byte-order engine the endianness bit selects.
func (f Flag) GetEndianEngine() endian.EndianEngine {
	if f.IsBigEndian() {
		return endian.GetBigEndianEngine()
	}

	return endian.GetLittleEndianEngine()
}

// Compression returns the compression type byte as a compress.Type.
func (f Flag) Compression() compress.Type {
	return compress.Type(f.CompressionType)
}

// Validate checks the magic number, reserved bits, and compression type.
func (f Flag) Validate() error {
	if f.Options&MagicMask != MagicContainerV1 {
		return fmt.Errorf("%w: 0x%04x", errs.ErrInvalidMagicNumber, f.Options&MagicMask)
	}
	if f.Options&ReservedMask != 0 {
		return fmt.Errorf("%w: reserved option bits set", errs.ErrInvalidMagicNumber)
	}
	if !f.Compression().Valid() {
		return fmt.Errorf("%w: 0x%02x", errs.ErrInvalidCompressionType, f.CompressionType)
	}

	return nil
}

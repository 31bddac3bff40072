package errs

import "errors"

// Sentinels for the container layer: the blob format that stores many
// encoded messages together with an index, optional compression, and a
// payload checksum. Same conventions as the codec sentinels above — wrap
// with fmt.Errorf("%w: ...") for context, test with errors.Is.
var (
	// ErrInvalidHeaderSize indicates container data too short to hold the
	// fixed-size header.
	ErrInvalidHeaderSize = errors.New("bilrost: invalid container header size")

	// ErrInvalidMagicNumber indicates the header's magic bits don't match
	// any supported container format version.
	ErrInvalidMagicNumber = errors.New("bilrost: invalid container magic number")

	// ErrInvalidCompressionType indicates a compression type byte outside
	// the supported set.
	ErrInvalidCompressionType = errors.New("bilrost: invalid compression type")

	// ErrChecksumMismatch indicates the payload's stored checksum doesn't
	// match its contents.
	ErrChecksumMismatch = errors.New("bilrost: payload checksum mismatch")

	// ErrInvalidIndex indicates an index entry pointing outside the
	// payload, or an index section whose size disagrees with the entry
	// count.
	ErrInvalidIndex = errors.New("bilrost: invalid container index")

	// ErrKeyNotFound indicates a lookup for a key the container doesn't
	// hold.
	ErrKeyNotFound = errors.New("bilrost: key not found")

	// ErrInvalidKey indicates an empty or otherwise unusable entry key.
	ErrInvalidKey = errors.New("bilrost: invalid entry key")

	// ErrDuplicateKey indicates the same key added to a container twice.
	ErrDuplicateKey = errors.New("bilrost: duplicate entry key")

	// ErrHashCollision indicates two distinct keys hashing to the same
	// 64-bit ID in a context that cannot disambiguate them.
	ErrHashCollision = errors.New("bilrost: key hash collision")

	// ErrContainerFinished indicates an append to a container writer whose
	// Finish has already run.
	ErrContainerFinished = errors.New("bilrost: container already finished")

	// ErrReservedTag indicates a message definition assigning a field tag
	// inside one of its reserved ranges.
	ErrReservedTag = errors.New("bilrost: tag is reserved")
)

package container

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/bilrost-go/bilrost/buffer"
	"github.com/bilrost-go/bilrost/compress"
	"github.com/bilrost-go/bilrost/errs"
	"github.com/bilrost-go/bilrost/internal/hash"
	"github.com/bilrost-go/bilrost/message"
	"github.com/bilrost-go/bilrost/varint"
)

// Reader parses a container blob and serves random-access lookups into its
// decompressed payload. The blob's checksum is verified once, at open.
type Reader struct {
	header  Header
	entries []IndexEntry
	payload []byte
	byID    map[uint64]int
	names   []string
	byName  map[string]int
}

// NewReader parses and validates data as a container blob. The input slice
// is not retained: the payload is decompressed (or copied) into storage
// the Reader owns.
func NewReader(data []byte) (*Reader, error) {
	r := &Reader{}
	if err := r.header.Parse(data); err != nil {
		return nil, err
	}

	indexEnd := int(r.header.PayloadOffset)
	indexStart := int(r.header.IndexOffset)
	indexSize := int(r.header.EntryCount) * IndexEntrySize
	if indexStart != HeaderSize || indexStart+indexSize != indexEnd || indexEnd > len(data) {
		return nil, errs.ErrInvalidIndex
	}

	payloadEnd := len(data)
	if r.header.Flag.HasNames() {
		payloadEnd = int(r.header.NamesOffset)
		if payloadEnd < indexEnd || payloadEnd > len(data) {
			return nil, errs.ErrInvalidIndex
		}
	}
	stored := data[indexEnd:payloadEnd]

	if sum := xxhash.Sum64(stored); sum != r.header.PayloadChecksum {
		return nil, fmt.Errorf("%w: got 0x%016x, header says 0x%016x",
			errs.ErrChecksumMismatch, sum, r.header.PayloadChecksum)
	}

	codec, err := compress.New(r.header.Flag.Compression())
	if err != nil {
		return nil, err
	}
	payload, err := codec.Decompress(stored)
	if err != nil {
		return nil, fmt.Errorf("container payload decompression: %w", err)
	}
	// The no-op codec returns the input slice; copy so the Reader never
	// aliases caller memory.
	if len(payload) > 0 && &payload[0] == &stored[0] {
		payload = append([]byte(nil), payload...)
	}
	r.payload = payload

	engine := r.header.Flag.GetEndianEngine()
	r.entries = make([]IndexEntry, r.header.EntryCount)
	r.byID = make(map[uint64]int, r.header.EntryCount)
	for i := range r.entries {
		e := parseIndexEntry(data[indexStart+i*IndexEntrySize:], engine)
		if int(e.Offset)+int(e.Length) > len(r.payload) {
			return nil, errs.ErrInvalidIndex
		}
		r.entries[i] = e
		r.byID[e.ID] = i
	}

	if r.header.Flag.HasNames() {
		if err := r.parseNames(data[payloadEnd:]); err != nil {
			return nil, err
		}
	}

	return r, nil
}

func (r *Reader) parseNames(data []byte) error {
	src := buffer.NewSource(data)
	count, err := varint.Decode(src)
	if err != nil {
		return fmt.Errorf("container names payload: %w", err)
	}
	if count != uint64(len(r.entries)) {
		return errs.ErrInvalidIndex
	}

	r.names = make([]string, count)
	r.byName = make(map[string]int, count)
	for i := range r.names {
		length, err := varint.Decode(src)
		if err != nil {
			return fmt.Errorf("container names payload: %w", err)
		}
		if length > uint64(src.Remaining()) {
			return errs.ErrTruncated
		}
		name := make([]byte, length)
		src.CopySlice(name)
		r.names[i] = string(name)
		if len(name) > 0 {
			r.byName[string(name)] = i
		}
	}

	return nil
}

// Count returns the number of entries in the container.
func (r *Reader) Count() int {
	return len(r.entries)
}

// Header returns the parsed header.
func (r *Reader) Header() Header {
	return r.header
}

// GetID returns the encoding stored under a 64-bit ID.
func (r *Reader) GetID(id uint64) ([]byte, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, errs.ErrKeyNotFound
	}

	return r.entrySlice(i), nil
}

// Get returns the encoding stored under a string key. When the container
// carries a names payload (written because keys collided), lookup matches
// the exact key; otherwise it goes through the key's hash.
func (r *Reader) Get(key string) ([]byte, error) {
	if r.byName != nil {
		i, ok := r.byName[key]
		if !ok {
			return nil, errs.ErrKeyNotFound
		}

		return r.entrySlice(i), nil
	}

	return r.GetID(hash.ID(key))
}

// Unmarshal decodes the encoding stored under key into m.
func (r *Reader) Unmarshal(key string, m message.Message) error {
	encoded, err := r.Get(key)
	if err != nil {
		return err
	}

	return message.Decode(m, encoded)
}

// All iterates the container's entries in insertion order, yielding each
// ID and its stored encoding.
func (r *Reader) All() func(yield func(uint64, []byte) bool) {
	return func(yield func(uint64, []byte) bool) {
		for i, e := range r.entries {
			if !yield(e.ID, r.entrySlice(i)) {
				return
			}
		}
	}
}

// Names returns the per-entry key names, or nil when the container has no
// names payload.
func (r *Reader) Names() []string {
	return r.names
}

func (r *Reader) entrySlice(i int) []byte {
	e := r.entries[i]
	if e.Length == 0 {
		return nil
	}

	return r.payload[e.Offset : uint64(e.Offset)+uint64(e.Length)]
}

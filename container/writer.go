package container

import (
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"

	"github.com/bilrost-go/bilrost/compress"
	"github.com/bilrost-go/bilrost/errs"
	"github.com/bilrost-go/bilrost/internal/collision"
	"github.com/bilrost-go/bilrost/internal/hash"
	"github.com/bilrost-go/bilrost/internal/options"
	"github.com/bilrost-go/bilrost/internal/pool"
	"github.com/bilrost-go/bilrost/message"
	"github.com/bilrost-go/bilrost/varint"
)

type writerConfig struct {
	compression compress.Type
	bigEndian   bool
}

// WriterOption configures a Writer.
type WriterOption = options.Option[*writerConfig]

// WithCompression selects the payload compression codec.
func WithCompression(t compress.Type) WriterOption {
	return options.New(func(c *writerConfig) error {
		if !t.Valid() {
			return fmt.Errorf("%w: 0x%02x", errs.ErrInvalidCompressionType, uint8(t))
		}
		c.compression = t

		return nil
	})
}

// WithBigEndian switches the header and index to big-endian byte order,
// for containers produced for big-endian consumers. The message encodings
// inside the payload are unaffected: the wire format is little-endian by
// definition.
func WithBigEndian() WriterOption {
	return options.New(func(c *writerConfig) error {
		c.bigEndian = true

		return nil
	})
}

// Writer accumulates (key, encoded message) entries and assembles them
// into one container blob. Writers are single-use: after Finish, further
// adds fail.
type Writer struct {
	cfg      writerConfig
	entries  []IndexEntry
	names    []string
	payload  *pool.ByteBuffer
	tracker  *collision.Tracker
	finished bool
}

// NewWriter creates a Writer with no compression and little-endian layout
// unless options say otherwise.
func NewWriter(opts ...WriterOption) (*Writer, error) {
	cfg := writerConfig{compression: compress.TypeNone}
	if err := options.Apply(&cfg, opts...); err != nil {
		return nil, err
	}

	return &Writer{
		cfg:     cfg,
		payload: pool.GetContainerBuffer(),
		tracker: collision.NewTracker(),
	}, nil
}

// Add appends an entry keyed by a string, hashed to its 64-bit ID with
// xxHash64. Two distinct keys hashing alike is tolerated — the container
// grows a names payload readers use to disambiguate — but the same key
// twice is errs.ErrDuplicateKey.
func (w *Writer) Add(key string, encoded []byte) error {
	if w.finished {
		return errs.ErrContainerFinished
	}

	id := hash.ID(key)
	if err := w.tracker.TrackKey(key, id); err != nil {
		return err
	}

	return w.append(id, key, encoded)
}

// AddID appends an entry keyed by a caller-supplied 64-bit ID. A repeated
// ID is errs.ErrHashCollision: with no string key there is no way to
// disambiguate.
func (w *Writer) AddID(id uint64, encoded []byte) error {
	if w.finished {
		return errs.ErrContainerFinished
	}

	if err := w.tracker.TrackID(id); err != nil {
		return err
	}

	return w.append(id, "", encoded)
}

// AddMessage encodes m and appends it under key.
func (w *Writer) AddMessage(key string, m message.Message) error {
	return w.Add(key, message.EncodeToVec(m))
}

func (w *Writer) append(id uint64, name string, encoded []byte) error {
	offset := w.payload.Len()
	if offset+len(encoded) > math.MaxUint32 {
		return fmt.Errorf("%w: payload exceeds 4GiB", errs.ErrInvalidIndex)
	}

	w.payload.Grow(len(encoded))
	w.payload.MustWrite(encoded)

	w.entries = append(w.entries, IndexEntry{
		ID:     id,
		Offset: uint32(offset),
		Length: uint32(len(encoded)),
	})
	w.names = append(w.names, name)

	return nil
}

// Count returns the number of entries added so far.
func (w *Writer) Count() int {
	return len(w.entries)
}

// Finish compresses the payload, assembles header, index, payload, and —
// when string keys collided — the names payload, and returns the complete
// blob. The Writer is spent afterward.
func (w *Writer) Finish() ([]byte, error) {
	if w.finished {
		return nil, errs.ErrContainerFinished
	}
	w.finished = true
	defer func() {
		pool.PutContainerBuffer(w.payload)
		w.payload = nil
	}()

	codec, err := compress.New(w.cfg.compression)
	if err != nil {
		return nil, err
	}
	compressed, err := codec.Compress(w.payload.Bytes())
	if err != nil {
		return nil, fmt.Errorf("container payload compression: %w", err)
	}

	header := NewHeader()
	header.Flag.CompressionType = uint8(w.cfg.compression)
	header.Flag.SetBigEndian(w.cfg.bigEndian)
	header.Flag.SetHasNames(w.tracker.HasCollision())
	header.EntryCount = uint32(len(w.entries))
	header.PayloadOffset = uint32(HeaderSize + len(w.entries)*IndexEntrySize)
	header.PayloadChecksum = xxhash.Sum64(compressed)

	var namesPayload []byte
	if header.Flag.HasNames() {
		header.NamesOffset = header.PayloadOffset + uint32(len(compressed))
		namesPayload = encodeNames(w.names)
	}

	engine := header.Flag.GetEndianEngine()
	out := make([]byte, 0, HeaderSize+len(w.entries)*IndexEntrySize+len(compressed)+len(namesPayload))
	out = append(out, header.Bytes()...)
	for _, e := range w.entries {
		out = appendIndexEntry(out, e, engine)
	}
	out = append(out, compressed...)
	out = append(out, namesPayload...)

	return out, nil
}

// encodeNames serializes the per-entry key names: a varint count followed
// by varint-length-prefixed strings, one per index entry in order.
// ID-keyed entries contribute an empty name.
func encodeNames(names []string) []byte {
	bb := pool.GetEncodeBuffer()
	defer pool.PutEncodeBuffer(bb)

	sink := poolSink{bb}
	varint.Encode(uint64(len(names)), sink)
	for _, name := range names {
		varint.Encode(uint64(len(name)), sink)
		sink.PutSlice([]byte(name))
	}

	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())

	return out
}

// poolSink adapts a pooled ByteBuffer to the varint.Sink contract.
type poolSink struct {
	bb *pool.ByteBuffer
}

func (s poolSink) PutSlice(p []byte) {
	s.bb.Grow(len(p))
	s.bb.MustWrite(p)
}

func (s poolSink) PutByte(b byte) {
	s.PutSlice([]byte{b})
}

func (s poolSink) Remaining() int { return math.MaxInt }

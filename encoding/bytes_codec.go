package encoding

import (
	"unicode/utf8"

	"github.com/bilrost-go/bilrost/errs"
	"github.com/bilrost-go/bilrost/reader"
	"github.com/bilrost-go/bilrost/varint"
	"github.com/bilrost-go/bilrost/wire"
)

// Bytes is the length-delimited codec for []byte: one varint length, then
// the bytes verbatim. A non-empty decoded slice is always a fresh allocation
// owning its storage; it never aliases the source buffer. An empty value
// decodes to nil.
var Bytes = Codec[[]byte]{
	WireType: wire.LengthDelimited,
	Encode: func(v []byte, sink varint.Sink) {
		varint.Encode(uint64(len(v)), sink)
		sink.PutSlice(v)
	},
	Prepend: func(v []byte, sink varint.ReverseSink) {
		sink.PrependSlice(v)
		varint.Prepend(uint64(len(v)), sink)
	},
	EncodedLen: func(v []byte) int {
		return varint.EncodedLen(uint64(len(v))) + len(v)
	},
	Decode: func(cap *reader.Capped, ctx Context) ([]byte, error) {
		inner, err := cap.TakeLengthDelimited()
		if err != nil {
			return nil, err
		}

		data := inner.TakeAll()
		if len(data) == 0 {
			return nil, nil
		}

		return data, nil
	},
	IsEmpty: func(v []byte) bool { return len(v) == 0 },
}

// String is the length-delimited codec for string. Decode validates that
// the bytes are well-formed UTF-8; anything else is errs.ErrInvalidValue
// and the target is left untouched.
var String = Codec[string]{
	WireType: wire.LengthDelimited,
	Encode: func(v string, sink varint.Sink) {
		varint.Encode(uint64(len(v)), sink)
		sink.PutSlice([]byte(v))
	},
	Prepend: func(v string, sink varint.ReverseSink) {
		sink.PrependSlice([]byte(v))
		varint.Prepend(uint64(len(v)), sink)
	},
	EncodedLen: func(v string) int {
		return varint.EncodedLen(uint64(len(v))) + len(v)
	},
	Decode: func(cap *reader.Capped, ctx Context) (string, error) {
		b, err := Bytes.Decode(cap, ctx)
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errs.ErrInvalidValue
		}

		return string(b), nil
	},
	IsEmpty: func(v string) bool { return len(v) == 0 },
}

func init() {
	Bytes.DecodeDistinguished = distinguishedSame(Bytes.Decode)
	String.DecodeDistinguished = distinguishedSame(String.Decode)
}

// ByteArray is the length-delimited codec for a fixed-size byte field of
// exactly n bytes, carried as []byte. Unlike Bytes, decode requires the
// wire length to match n exactly — shorter or longer is
// errs.ErrInvalidValue — and the empty state is the all-zero array, not the
// zero-length slice.
func ByteArray(n int) Codec[[]byte] {
	c := Codec[[]byte]{
		WireType:   wire.LengthDelimited,
		Encode:     Bytes.Encode,
		Prepend:    Bytes.Prepend,
		EncodedLen: Bytes.EncodedLen,
		Decode: func(cap *reader.Capped, ctx Context) ([]byte, error) {
			b, err := Bytes.Decode(cap, ctx)
			if err != nil {
				return nil, err
			}
			if len(b) != n {
				return nil, errs.ErrInvalidValue
			}

			return b, nil
		},
		IsEmpty: func(v []byte) bool {
			for _, b := range v {
				if b != 0 {
					return false
				}
			}

			return true
		},
	}
	c.DecodeDistinguished = distinguishedSame(c.Decode)

	return c
}

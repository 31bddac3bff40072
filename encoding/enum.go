package encoding

import (
	"github.com/bilrost-go/bilrost/errs"
	"github.com/bilrost-go/bilrost/reader"
	"github.com/bilrost-go/bilrost/varint"
	"github.com/bilrost-go/bilrost/wire"
)

// Enumeration is a user type whose values map injectively onto a closed set
// of uint32 numbers. The inverse mapping is supplied to Enum as a function
// so the codec can reject numbers outside the set.
type Enumeration interface {
	ToNumber() uint32
}

// Enum builds the varint codec for an enumeration type. fromNumber must
// return false for any number outside the enumeration's closed set; decode
// turns that rejection into errs.ErrOutOfDomainValue. The empty state is
// the variant that maps to number 0.
func Enum[E Enumeration](fromNumber func(n uint32) (E, bool)) Codec[E] {
	c := Codec[E]{
		WireType: wire.Varint,
		Encode: func(v E, sink varint.Sink) {
			varint.Encode(uint64(v.ToNumber()), sink)
		},
		Prepend: func(v E, sink varint.ReverseSink) {
			varint.Prepend(uint64(v.ToNumber()), sink)
		},
		EncodedLen: func(v E) int {
			return varint.EncodedLen(uint64(v.ToNumber()))
		},
		Decode: func(cap *reader.Capped, ctx Context) (E, error) {
			var zero E
			n, err := cap.DecodeVarint()
			if err != nil {
				return zero, err
			}
			if n > 0xFFFFFFFF {
				return zero, errs.ErrOutOfDomainValue
			}
			v, ok := fromNumber(uint32(n))
			if !ok {
				return zero, errs.ErrOutOfDomainValue
			}

			return v, nil
		},
		IsEmpty: func(v E) bool { return v.ToNumber() == 0 },
	}
	c.DecodeDistinguished = distinguishedSame(c.Decode)

	return c
}

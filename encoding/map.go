package encoding

import (
	"sort"

	"github.com/bilrost-go/bilrost/canon"
	"github.com/bilrost-go/bilrost/errs"
	"github.com/bilrost-go/bilrost/reader"
	"github.com/bilrost-go/bilrost/varint"
	"github.com/bilrost-go/bilrost/wire"
)

// Map builds the length-delimited collection encoding for map[K]V: one
// field key, one varint length, then every entry's key and value encoded
// back to back with no framing between or around them — exactly Packed's
// shape, but over (key, value) pairs instead of single elements.
//
// Entries are always encoded in ascending key order by less, so that equal
// maps produce byte-identical output despite Go's randomized map iteration,
// and so that the encoded form is the canonical one. On decode a duplicate
// key is errs.ErrUnexpectedlyRepeated in either mode; keys arriving out of
// order decode fine in expedient mode but classify the input NotCanonical
// in distinguished mode.
func Map[K comparable, V any](key Codec[K], val Codec[V], less func(a, b K) bool) Codec[map[K]V] {
	fixedEntrySize, fixedOK := combinedFixedSize(key.WireType, val.WireType)

	c := Codec[map[K]V]{
		WireType: wire.LengthDelimited,
		Encode: func(m map[K]V, sink varint.Sink) {
			varint.Encode(uint64(mapInnerLen(m, key, val, fixedEntrySize, fixedOK)), sink)
			for _, k := range sortedKeys(m, less) {
				key.Encode(k, sink)
				val.Encode(m[k], sink)
			}
		},
		Prepend: func(m map[K]V, sink varint.ReverseSink) {
			rs, ok := sink.(reverseSink)
			if !ok {
				panic("encoding: Map.Prepend requires a reverseSink with Remaining()")
			}

			start := rs.Remaining()
			keys := sortedKeys(m, less)
			for i := len(keys) - 1; i >= 0; i-- {
				val.Prepend(m[keys[i]], sink)
				key.Prepend(keys[i], sink)
			}
			varint.Prepend(uint64(rs.Remaining()-start), sink)
		},
		EncodedLen: func(m map[K]V) int {
			inner := mapInnerLen(m, key, val, fixedEntrySize, fixedOK)

			return varint.EncodedLen(uint64(inner)) + inner
		},
		Decode: func(cap *reader.Capped, ctx Context) (map[K]V, error) {
			m, _, err := decodeMap(cap, ctx, key, val, less, fixedEntrySize, fixedOK, false)

			return m, err
		},
		IsEmpty: func(m map[K]V) bool { return len(m) == 0 },
	}

	if key.DecodeDistinguished != nil && val.DecodeDistinguished != nil {
		c.DecodeDistinguished = func(cap *reader.Capped, ctx Context) (map[K]V, canon.Canonicity, error) {
			return decodeMap(cap, ctx, key, val, less, fixedEntrySize, fixedOK, true)
		}
	}

	return c
}

func decodeMap[K comparable, V any](
	cap *reader.Capped,
	ctx Context,
	key Codec[K],
	val Codec[V],
	less func(a, b K) bool,
	fixedEntrySize int,
	fixedOK bool,
	distinguished bool,
) (map[K]V, canon.Canonicity, error) {
	inner, err := cap.TakeLengthDelimited()
	if err != nil {
		return nil, canon.Canonical, err
	}

	if fixedOK && inner.RemainingBeforeCap()%fixedEntrySize != 0 {
		return nil, canon.Canonical, errs.ErrTruncated
	}

	m := make(map[K]V)
	canonicity := canon.Canonical
	var prevKey K
	for {
		has, err := inner.HasRemaining()
		if err != nil {
			return nil, canonicity, err
		}
		if !has {
			break
		}

		lent := inner.Lend()
		var k K
		var v V
		if distinguished {
			var ck, cv canon.Canonicity
			k, ck, err = key.DecodeDistinguished(&lent, ctx)
			if err != nil {
				return nil, canonicity, err
			}
			v, cv, err = val.DecodeDistinguished(&lent, ctx)
			if err != nil {
				return nil, canonicity, err
			}
			canonicity = canon.Min(canonicity, canon.Min(ck, cv))
		} else {
			k, err = key.Decode(&lent, ctx)
			if err != nil {
				return nil, canonicity, err
			}
			v, err = val.Decode(&lent, ctx)
			if err != nil {
				return nil, canonicity, err
			}
		}

		if _, dup := m[k]; dup {
			return nil, canonicity, errs.ErrUnexpectedlyRepeated
		}
		if distinguished && len(m) > 0 && !less(prevKey, k) {
			canonicity = canon.Min(canonicity, canon.NotCanonical)
		}

		m[k] = v
		prevKey = k
	}

	return m, canonicity, nil
}

func sortedKeys[K comparable, V any](m map[K]V, less func(a, b K) bool) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return less(keys[i], keys[j]) })

	return keys
}

func combinedFixedSize(a, b wire.Type) (int, bool) {
	fa, aok := a.FixedSize()
	fb, bok := b.FixedSize()
	if aok && bok {
		return fa + fb, true
	}

	return 0, false
}

func mapInnerLen[K comparable, V any](m map[K]V, key Codec[K], val Codec[V], fixedEntrySize int, fixedOK bool) int {
	if fixedOK {
		return len(m) * fixedEntrySize
	}

	total := 0
	for k, v := range m {
		total += key.EncodedLen(k) + val.EncodedLen(v)
	}

	return total
}

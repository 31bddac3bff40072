package bilrost_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bilrost-go/bilrost"
	"github.com/bilrost-go/bilrost/canon"
	"github.com/bilrost-go/bilrost/message"
)

func sampleOpaque() *message.Opaque {
	return &message.Opaque{Fields: []message.OpaqueField{
		{Tag: 0, Value: message.OpaqueVarint(5)},
		{Tag: 1, Value: message.OpaqueLengthDelimited([]byte("hello"))},
		{Tag: 9, Value: message.OpaqueSixtyFourBit(0x0102030405060708)},
	}}
}

func TestMarshalUnmarshal(t *testing.T) {
	m := sampleOpaque()

	data := bilrost.Marshal(m)
	require.Len(t, data, bilrost.Size(m))

	var got message.Opaque
	require.NoError(t, bilrost.Unmarshal(data, &got))
	require.Equal(t, m, &got)
}

func TestMarshalLengthDelimited(t *testing.T) {
	m := sampleOpaque()

	data, err := bilrost.MarshalLengthDelimited(m)
	require.NoError(t, err)

	var got message.Opaque
	require.NoError(t, message.DecodeLengthDelimited(&got, data))
	require.Equal(t, m, &got)
}

func TestUnmarshalDistinguished(t *testing.T) {
	m := sampleOpaque()
	data := bilrost.Marshal(m)

	var got message.Opaque
	canonicity, err := bilrost.UnmarshalDistinguished(data, &got)
	require.NoError(t, err)
	require.Equal(t, canon.Canonical, canonicity)
	require.Equal(t, data, bilrost.Marshal(&got))
}

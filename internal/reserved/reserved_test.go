package reserved

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilrost-go/bilrost/errs"
)

func TestRangeContains(t *testing.T) {
	r := Range{Lo: 5, Hi: 10}

	assert.False(t, r.Contains(4))
	assert.True(t, r.Contains(5))
	assert.True(t, r.Contains(10))
	assert.False(t, r.Contains(11))
}

func TestCheck(t *testing.T) {
	rs := Ranges{{Lo: 5, Hi: 10}, {Lo: 100, Hi: 100}}

	require.NoError(t, rs.Check(4))
	require.ErrorIs(t, rs.Check(7), errs.ErrReservedTag)
	require.ErrorIs(t, rs.Check(100), errs.ErrReservedTag)
	require.NoError(t, rs.Check(101))
}

func TestValidate(t *testing.T) {
	rs := Ranges{{Lo: 5, Hi: 10}}

	require.NoError(t, Validate([]uint32{0, 1, 2, 11}, rs))
	require.ErrorIs(t, Validate([]uint32{0, 6}, rs), errs.ErrReservedTag)
	require.NoError(t, Validate(nil, rs))
	require.NoError(t, Validate([]uint32{6}, nil))
}

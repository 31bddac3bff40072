package canon_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilrost-go/bilrost/canon"
	"github.com/bilrost-go/bilrost/errs"
)

func TestOrdering(t *testing.T) {
	assert.Less(t, canon.NotCanonical, canon.HasExtensions)
	assert.Less(t, canon.HasExtensions, canon.Canonical)
}

func TestMin(t *testing.T) {
	assert.Equal(t, canon.NotCanonical, canon.Min(canon.NotCanonical, canon.Canonical))
	assert.Equal(t, canon.HasExtensions, canon.Min(canon.Canonical, canon.HasExtensions))
	assert.Equal(t, canon.Canonical, canon.Min(canon.Canonical, canon.Canonical))
}

func TestStateAccumulates(t *testing.T) {
	s := canon.NewState(canon.NotCanonical)
	require.Equal(t, canon.Canonical, s.Get())

	require.NoError(t, s.Update(canon.HasExtensions))
	require.Equal(t, canon.HasExtensions, s.Get())

	require.NoError(t, s.Update(canon.Canonical))
	require.Equal(t, canon.HasExtensions, s.Get(), "canonicity never recovers")

	require.NoError(t, s.Update(canon.NotCanonical))
	require.Equal(t, canon.NotCanonical, s.Get())
}

func TestStateFloorGates(t *testing.T) {
	t.Run("floor canonical rejects extensions", func(t *testing.T) {
		s := canon.NewState(canon.Canonical)
		require.ErrorIs(t, s.Update(canon.HasExtensions), errs.ErrNotCanonical)
	})

	t.Run("floor has-extensions tolerates extensions only", func(t *testing.T) {
		s := canon.NewState(canon.HasExtensions)
		require.NoError(t, s.Update(canon.HasExtensions))
		require.ErrorIs(t, s.Update(canon.NotCanonical), errs.ErrNotCanonical)
	})
}

func TestString(t *testing.T) {
	assert.Equal(t, "canonical", canon.Canonical.String())
	assert.Equal(t, "has extensions", canon.HasExtensions.String())
	assert.Equal(t, "not canonical", canon.NotCanonical.String())
}

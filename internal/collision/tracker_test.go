package collision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilrost-go/bilrost/errs"
)

func TestTrackID(t *testing.T) {
	tr := NewTracker()

	require.NoError(t, tr.TrackID(1))
	require.NoError(t, tr.TrackID(2))
	require.ErrorIs(t, tr.TrackID(1), errs.ErrHashCollision)
	assert.False(t, tr.HasCollision())
}

func TestTrackKey(t *testing.T) {
	tr := NewTracker()

	require.NoError(t, tr.TrackKey("cpu.usage", 100))
	require.NoError(t, tr.TrackKey("mem.usage", 200))
	assert.False(t, tr.HasCollision())

	require.ErrorIs(t, tr.TrackKey("cpu.usage", 100), errs.ErrDuplicateKey)
	require.ErrorIs(t, tr.TrackKey("", 300), errs.ErrInvalidKey)
}

func TestTrackKeyCollisionSetsFlag(t *testing.T) {
	tr := NewTracker()

	require.NoError(t, tr.TrackKey("first", 100))
	// A different key under the same hash is tolerated; the flag tells
	// the writer to store names.
	require.NoError(t, tr.TrackKey("second", 100))
	assert.True(t, tr.HasCollision())
}

func TestMixedIDAndKey(t *testing.T) {
	tr := NewTracker()

	require.NoError(t, tr.TrackID(100))
	// A raw ID can't be disambiguated by name, so a key landing on it is
	// a collision-flagged key, not an error.
	require.NoError(t, tr.TrackKey("named", 100))
	assert.True(t, tr.HasCollision())
}

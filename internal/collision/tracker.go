// Package collision tracks the keys added to a container and detects
// 64-bit hash collisions among them while the container is being written.
package collision

import (
	"github.com/bilrost-go/bilrost/errs"
)

// Tracker maintains a hash-to-key mapping for duplicate and collision
// detection. When two distinct string keys share a hash, the collision
// flag tells the container writer to store key names alongside the index
// so readers can disambiguate.
type Tracker struct {
	keys         map[uint64]string
	hasCollision bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		keys: make(map[uint64]string),
	}
}

// TrackID tracks a raw 64-bit ID supplied directly by the caller. A repeat
// of an ID already seen is errs.ErrHashCollision: with no key string to
// fall back on, the ambiguity cannot be resolved by a names payload.
func (t *Tracker) TrackID(id uint64) error {
	if _, exists := t.keys[id]; exists {
		return errs.ErrHashCollision
	}

	t.keys[id] = ""

	return nil
}

// TrackKey tracks a string key with its hash. The same key twice is
// errs.ErrDuplicateKey; two distinct keys sharing a hash is not an error —
// the collision flag is set and the container stores the key names so
// readers can disambiguate.
func (t *Tracker) TrackKey(key string, hash uint64) error {
	if key == "" {
		return errs.ErrInvalidKey
	}

	if existing, exists := t.keys[hash]; exists {
		if existing == key {
			return errs.ErrDuplicateKey
		}
		t.hasCollision = true
	}

	t.keys[hash] = key

	return nil
}

// HasCollision reports whether any two tracked keys share a hash.
func (t *Tracker) HasCollision() bool {
	return t.hasCollision
}

// Package reserved checks message definitions against their reserved tag
// ranges. This is a definition-time concern, not a wire-format one: the
// decoder happily skips a tag the schema reserves, but a definition must
// never assign one.
package reserved

import (
	"fmt"

	"github.com/bilrost-go/bilrost/errs"
)

// Range is an inclusive span of reserved tags.
type Range struct {
	Lo uint32
	Hi uint32
}

// Contains reports whether tag falls inside the range.
func (r Range) Contains(tag uint32) bool {
	return tag >= r.Lo && tag <= r.Hi
}

// Ranges is a message definition's full reserved set.
type Ranges []Range

// Check returns errs.ErrReservedTag if tag falls in any range.
func (rs Ranges) Check(tag uint32) error {
	for _, r := range rs {
		if r.Contains(tag) {
			return fmt.Errorf("%w: %d in [%d, %d]", errs.ErrReservedTag, tag, r.Lo, r.Hi)
		}
	}

	return nil
}

// Validate checks every tag a message definition assigns against its
// reserved ranges, returning the first violation.
func Validate(tags []uint32, rs Ranges) error {
	for _, tag := range tags {
		if err := rs.Check(tag); err != nil {
			return err
		}
	}

	return nil
}

package placement

import (
	"fmt"
	"strconv"
	"strings"
)

// ResistanceKind selects how a Resistance reacts to an overlap.
type ResistanceKind int

const (
	// ResistNever leaves positions alone.
	ResistNever ResistanceKind = iota
	// ResistThreshold snaps or clamps only within a distance.
	ResistThreshold
	// ResistAlways snaps or clamps regardless of distance.
	ResistAlways
)

// Resistance is the tolerance applied when a frame overlaps a neighbour or
// leaves its container. Between neighbours, Always resolves the side with
// the shallowest overlap rather than the first side in priority order.
type Resistance struct {
	Kind     ResistanceKind
	Distance int
}

var (
	Never  = Resistance{Kind: ResistNever}
	Always = Resistance{Kind: ResistAlways}
)

// Threshold returns a distance-limited resistance. A non-positive distance
// never triggers and is reported as Never.
func Threshold(d int) Resistance {
	if d <= 0 {
		return Never
	}
	return Resistance{Kind: ResistThreshold, Distance: d}
}

// ResistanceFromInt converts the signed integer convention used in config
// files: negative means always, positive is a threshold distance, and zero
// maps to the caller's choice.
func ResistanceFromInt(n int, zero Resistance) Resistance {
	switch {
	case n < 0:
		return Always
	case n > 0:
		return Threshold(n)
	default:
		return zero
	}
}

// ParseResistance accepts "always", "never" or an integer (see
// ResistanceFromInt).
func ParseResistance(s string, zero Resistance) (Resistance, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "always":
		return Always, nil
	case "never", "none", "off":
		return Never, nil
	default:
		n, err := strconv.Atoi(v)
		if err != nil {
			return Never, fmt.Errorf("invalid resistance %q: want an integer, \"always\" or \"never\"", s)
		}
		return ResistanceFromInt(n, zero), nil
	}
}

// Int returns the signed integer form of r.
func (r Resistance) Int() int {
	switch r.Kind {
	case ResistAlways:
		return -1
	case ResistThreshold:
		return r.Distance
	default:
		return 0
	}
}

func (r Resistance) String() string {
	switch r.Kind {
	case ResistAlways:
		return "always"
	case ResistThreshold:
		return strconv.Itoa(r.Distance)
	default:
		return "never"
	}
}

// snaps reports whether a neighbour overlap is close enough to abut. The
// bound is inclusive: an overlap equal to the distance snaps.
func (r Resistance) snaps(overlap int) bool {
	switch r.Kind {
	case ResistAlways:
		return true
	case ResistThreshold:
		return overlap <= r.Distance
	default:
		return false
	}
}

// sideCount is the number of overlap sides, tested in the order left,
// right, up, down.
const sideCount = 4

// side picks which overlap to resolve. overlap holds how far the frame
// reaches into a neighbour from each side, in that order. A threshold takes
// the first allowed side within distance. Always takes the shallowest
// allowed overlap, the first on ties, so the frame is never moved through
// the neighbour. It returns -1 when no side applies.
func (r Resistance) side(overlap [sideCount]int, allowed [sideCount]bool) int {
	best := -1
	for i, o := range overlap {
		if !allowed[i] || !r.snaps(o) {
			continue
		}
		if r.Kind != ResistAlways {
			return i
		}
		if best < 0 || o < overlap[best] {
			best = i
		}
	}
	return best
}

// constrainTrailing corrects value so that value+size stays at or below
// limit. Overflow under the threshold clamps; larger overflow backs off by
// the threshold distance.
func (r Resistance) constrainTrailing(value, size, limit int) int {
	over := value + size - limit
	if over <= 0 {
		return value
	}
	switch r.Kind {
	case ResistAlways:
		return limit - size
	case ResistThreshold:
		if over < r.Distance {
			return limit - size
		}
		return value - r.Distance
	default:
		return value
	}
}

// constrainLeading is the mirror of constrainTrailing for value >= limit.
func (r Resistance) constrainLeading(value, limit int) int {
	deficit := limit - value
	if deficit <= 0 {
		return value
	}
	switch r.Kind {
	case ResistAlways:
		return limit
	case ResistThreshold:
		if deficit < r.Distance {
			return limit
		}
		return value + r.Distance
	default:
		return value
	}
}

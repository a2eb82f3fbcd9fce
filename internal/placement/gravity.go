package placement

import (
	"fmt"
	"strings"
)

// Gravity is an X11 window gravity value.
type Gravity int

const (
	GravityForget Gravity = iota
	GravityNorthWest
	GravityNorth
	GravityNorthEast
	GravityWest
	GravityCenter
	GravityEast
	GravitySouthWest
	GravitySouth
	GravitySouthEast
	GravityStatic
)

type offsets struct {
	dx, dy int
}

var gravityOffsets = [...]offsets{
	GravityForget:    {0, 0},
	GravityNorthWest: {-1, -1},
	GravityNorth:     {0, -1},
	GravityNorthEast: {1, -1},
	GravityWest:      {-1, 0},
	GravityCenter:    {0, 0},
	GravityEast:      {1, 0},
	GravitySouthWest: {-1, 1},
	GravitySouth:     {0, 1},
	GravitySouthEast: {1, 1},
	GravityStatic:    {0, 0},
}

var gravityNames = [...]string{
	GravityForget:    "forget",
	GravityNorthWest: "northwest",
	GravityNorth:     "north",
	GravityNorthEast: "northeast",
	GravityWest:      "west",
	GravityCenter:    "center",
	GravityEast:      "east",
	GravitySouthWest: "southwest",
	GravitySouth:     "south",
	GravitySouthEast: "southeast",
	GravityStatic:    "static",
}

var gravityAliases = map[string]Gravity{
	"nw": GravityNorthWest,
	"n":  GravityNorth,
	"ne": GravityNorthEast,
	"w":  GravityWest,
	"c":  GravityCenter,
	"e":  GravityEast,
	"sw": GravitySouthWest,
	"s":  GravitySouth,
	"se": GravitySouthEast,
}

// Valid reports whether g is one of the defined gravity constants.
func (g Gravity) Valid() bool {
	return g >= GravityForget && g <= GravityStatic
}

func (g Gravity) String() string {
	if !g.Valid() {
		return fmt.Sprintf("gravity(%d)", int(g))
	}
	return gravityNames[g]
}

// GravityOffsets returns the side of the frame that g anchors on each axis:
// -1 for left/top, 0 for none, +1 for right/bottom. Out-of-range values
// resolve to (0, 0).
func GravityOffsets(g Gravity) (dx, dy int) {
	if !g.Valid() {
		return 0, 0
	}
	o := gravityOffsets[g]
	return o.dx, o.dy
}

// ParseGravity accepts a full gravity name ("southeast", "south-east") or a
// compass abbreviation ("se").
func ParseGravity(s string) (Gravity, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.NewReplacer("-", "", "_", "", " ", "").Replace(name)
	if name == "" {
		return GravityNorthWest, nil
	}
	if g, ok := gravityAliases[name]; ok {
		return g, nil
	}
	for i, n := range gravityNames {
		if n == name {
			return Gravity(i), nil
		}
	}
	return GravityForget, fmt.Errorf("unknown gravity %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (g Gravity) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *Gravity) UnmarshalText(text []byte) error {
	parsed, err := ParseGravity(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

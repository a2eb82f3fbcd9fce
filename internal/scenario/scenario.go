// Package scenario loads window arrangements from YAML or TOML files and
// replays moves against them without a display.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/framefit/internal/config"
	"github.com/1broseidon/framefit/internal/placement"
)

// Format is a scenario file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor picks the encoding from a file extension; anything other than
// .toml is read as YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// Scenario is a screen, the windows on it and the moves to replay.
// Window coordinates are relative to the window's box, or to the screen
// when it has none. Box rectangles are in screen coordinates.
type Scenario struct {
	Name      string         `yaml:"name" toml:"name" json:"name,omitempty"`
	Screen    Screen         `yaml:"screen" toml:"screen" json:"screen"`
	Placement Placement      `yaml:"placement" toml:"placement" json:"placement"`
	Boxes     map[string]Box `yaml:"boxes" toml:"boxes" json:"boxes,omitempty"`
	Windows   []Window       `yaml:"windows" toml:"windows" json:"windows"`
	Moves     []Move         `yaml:"moves" toml:"moves" json:"moves"`
}

type Screen struct {
	Width   int     `yaml:"width" toml:"width" json:"width"`
	Height  int     `yaml:"height" toml:"height" json:"height"`
	Margins Margins `yaml:"margins" toml:"margins" json:"margins"`
}

type Margins struct {
	Top    int `yaml:"top" toml:"top" json:"top"`
	Bottom int `yaml:"bottom" toml:"bottom" json:"bottom"`
	Left   int `yaml:"left" toml:"left" json:"left"`
	Right  int `yaml:"right" toml:"right" json:"right"`
}

type Grid struct {
	Enabled bool `yaml:"enabled" toml:"enabled" json:"enabled"`
	Width   int  `yaml:"width" toml:"width" json:"width"`
	Height  int  `yaml:"height" toml:"height" json:"height"`
}

// Placement mirrors the placement section of the daemon config.
type Placement struct {
	Collision         config.CollisionMode `yaml:"collision" toml:"collision" json:"collision"`
	Grid              Grid                 `yaml:"grid" toml:"grid" json:"grid"`
	PackResistance    Resistance           `yaml:"pack_resistance" toml:"pack_resistance" json:"pack_resistance"`
	MoveOffResistance Resistance           `yaml:"move_off_resistance" toml:"move_off_resistance" json:"move_off_resistance"`
}

// Resistance accepts an integer or "always"/"never" in either encoding.
type Resistance string

func (r *Resistance) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("resistance must be an integer, \"always\" or \"never\"")
	}
	if _, err := placement.ParseResistance(value.Value, placement.Never); err != nil {
		return err
	}
	*r = Resistance(value.Value)
	return nil
}

// UnmarshalTOML lets TOML files use bare integers.
func (r *Resistance) UnmarshalTOML(v any) error {
	switch t := v.(type) {
	case int64:
		*r = Resistance(strconv.FormatInt(t, 10))
	case string:
		*r = Resistance(t)
	default:
		return fmt.Errorf("resistance must be an integer or string, got %T", v)
	}
	_, err := placement.ParseResistance(string(*r), placement.Never)
	return err
}

type Box struct {
	X      int `yaml:"x" toml:"x" json:"x"`
	Y      int `yaml:"y" toml:"y" json:"y"`
	Width  int `yaml:"width" toml:"width" json:"width"`
	Height int `yaml:"height" toml:"height" json:"height"`
}

type Window struct {
	ID       uint32 `yaml:"id" toml:"id" json:"id"`
	Class    string `yaml:"class" toml:"class" json:"class,omitempty"`
	X        int    `yaml:"x" toml:"x" json:"x"`
	Y        int    `yaml:"y" toml:"y" json:"y"`
	Width    int    `yaml:"width" toml:"width" json:"width"`
	Height   int    `yaml:"height" toml:"height" json:"height"`
	Border   int    `yaml:"border" toml:"border" json:"border,omitempty"`
	Gravity  string `yaml:"gravity" toml:"gravity" json:"gravity,omitempty"`
	Box      string `yaml:"box" toml:"box" json:"box,omitempty"`
	Desktop  int    `yaml:"desktop" toml:"desktop" json:"desktop,omitempty"`
	Unmapped bool   `yaml:"unmapped" toml:"unmapped" json:"unmapped,omitempty"`
}

// Move asks for a window to go to (X, Y). An empty mode runs the full
// pipeline selected by the placement section.
type Move struct {
	Window uint32 `yaml:"window" toml:"window" json:"window"`
	X      int    `yaml:"x" toml:"x" json:"x"`
	Y      int    `yaml:"y" toml:"y" json:"y"`
	Mode   string `yaml:"mode" toml:"mode" json:"mode,omitempty"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := Decode(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Decode parses and validates a scenario.
func Decode(data []byte, format Format) (*Scenario, error) {
	var s Scenario
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &s); err != nil {
			return nil, err
		}
	case FormatYAML, "":
		if err := yaml.Unmarshal(data, &s); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown scenario format %q", format)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the scenario is self-consistent.
func (s *Scenario) Validate() error {
	var errs []error
	if s.Screen.Width <= 0 || s.Screen.Height <= 0 {
		errs = append(errs, fmt.Errorf("screen: width and height must be positive"))
	}
	switch s.Placement.Collision {
	case "", config.CollisionNone, config.CollisionPack, config.CollisionPush:
	default:
		errs = append(errs, fmt.Errorf("placement.collision: unknown mode %q", s.Placement.Collision))
	}
	if s.Placement.Grid.Enabled && (s.Placement.Grid.Width < 1 || s.Placement.Grid.Height < 1) {
		errs = append(errs, fmt.Errorf("placement.grid: cell size must be at least 1"))
	}
	for _, r := range []struct {
		path string
		val  Resistance
	}{
		{"placement.pack_resistance", s.Placement.PackResistance},
		{"placement.move_off_resistance", s.Placement.MoveOffResistance},
	} {
		if _, err := config.ResistanceSetting(r.val).Resolve(placement.Never); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.path, err))
		}
	}
	for name, b := range s.Boxes {
		if b.Width <= 0 || b.Height <= 0 {
			errs = append(errs, fmt.Errorf("boxes.%s: width and height must be positive", name))
		}
	}

	seen := make(map[uint32]bool, len(s.Windows))
	for i, w := range s.Windows {
		if seen[w.ID] {
			errs = append(errs, fmt.Errorf("windows[%d]: duplicate id %d", i, w.ID))
		}
		seen[w.ID] = true
		if w.Width <= 0 || w.Height <= 0 || w.Border < 0 {
			errs = append(errs, fmt.Errorf("windows[%d]: size must be positive and border non-negative", i))
		}
		if w.Gravity != "" {
			if _, err := placement.ParseGravity(w.Gravity); err != nil {
				errs = append(errs, fmt.Errorf("windows[%d].gravity: %w", i, err))
			}
		}
		if w.Box != "" {
			if _, ok := s.Boxes[w.Box]; !ok {
				errs = append(errs, fmt.Errorf("windows[%d].box: unknown box %q", i, w.Box))
			}
		}
	}
	for i, m := range s.Moves {
		if !seen[m.Window] {
			errs = append(errs, fmt.Errorf("moves[%d]: unknown window %d", i, m.Window))
		}
	}
	return errors.Join(errs...)
}

// boxIDs numbers boxes 1..n in name order.
func (s *Scenario) boxIDs() map[string]placement.ContainerID {
	names := make([]string, 0, len(s.Boxes))
	for name := range s.Boxes {
		names = append(names, name)
	}
	sort.Strings(names)
	ids := make(map[string]placement.ContainerID, len(names))
	for i, name := range names {
		ids[name] = placement.ContainerID(i + 1)
	}
	return ids
}

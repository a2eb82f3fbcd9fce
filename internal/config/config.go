package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/1broseidon/framefit/internal/placement"
	"gopkg.in/yaml.v3"
)

// Margins are insets reserved along the screen edges, in pixels.
type Margins struct {
	Top    int `yaml:"top"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
	Right  int `yaml:"right"`
}

// CollisionMode selects how a moving window treats the windows it meets.
type CollisionMode string

const (
	CollisionNone CollisionMode = "none" // Overlap freely.
	CollisionPack CollisionMode = "pack" // Abut neighbours that are only slightly overlapped.
	CollisionPush CollisionMode = "push" // Shove neighbours out of the way.
)

// RegionType defines box region presets.
type RegionType string

const (
	RegionFull       RegionType = "full"
	RegionLeftHalf   RegionType = "left-half"
	RegionRightHalf  RegionType = "right-half"
	RegionTopHalf    RegionType = "top-half"
	RegionBottomHalf RegionType = "bottom-half"
	RegionCustom     RegionType = "custom"
)

// Box is a region of the usable screen that assigned windows are confined to.
type Box struct {
	Type          RegionType `yaml:"type"`
	XPercent      int        `yaml:"x_percent"`      // 0-100
	YPercent      int        `yaml:"y_percent"`      // 0-100
	WidthPercent  int        `yaml:"width_percent"`  // 0-100
	HeightPercent int        `yaml:"height_percent"` // 0-100
}

// Grid configures move-grid alignment.
type Grid struct {
	Enabled bool `yaml:"enabled"`
	Width   int  `yaml:"width"`
	Height  int  `yaml:"height"`
}

// Placement configures how moved windows are resolved.
type Placement struct {
	Collision         CollisionMode     `yaml:"collision"`
	Grid              Grid              `yaml:"grid"`
	PackResistance    ResistanceSetting `yaml:"pack_resistance"`
	MoveOffResistance ResistanceSetting `yaml:"move_off_resistance"`
}

// Config holds the application configuration.
type Config struct {
	MoveModeHotkey        string            `yaml:"move_mode_hotkey"`
	MoveModeTimeout       int               `yaml:"move_mode_timeout"`
	DragButton            string            `yaml:"drag_button"`
	NudgeStep             int               `yaml:"nudge_step"`
	Display               string            `yaml:"display,omitempty"`
	XAuthority            string            `yaml:"xauthority,omitempty"`
	LogLevel              string            `yaml:"log_level"`
	ResyncIntervalSeconds int               `yaml:"resync_interval_seconds"`
	ScreenMargins         Margins           `yaml:"screen_margins"`
	Placement             Placement         `yaml:"placement"`
	Boxes                 map[string]Box    `yaml:"boxes"`
	BoxAssignments        map[string]string `yaml:"box_assignments"`
	GravityOverrides      map[string]string `yaml:"gravity_overrides"`
}

func DefaultConfig() *Config {
	return &Config{
		MoveModeHotkey:        "Mod4-Mod1-m", // Super+Alt+M for "move"
		MoveModeTimeout:       10,
		DragButton:            "Mod4-1",
		NudgeStep:             10,
		LogLevel:              "info",
		ResyncIntervalSeconds: 10,
		Placement: Placement{
			Collision: CollisionPush,
			Grid: Grid{
				Enabled: false,
				Width:   8,
				Height:  8,
			},
			PackResistance:    "20",
			MoveOffResistance: "0",
		},
		Boxes:            BuiltinBoxes(),
		BoxAssignments:   make(map[string]string),
		GravityOverrides: make(map[string]string),
	}
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "framefit", "config.yaml"), nil
}

// PlacementConfig converts the placement section into engine tunables.
// A zero pack resistance disables snapping; a zero move-off resistance
// keeps windows fully on screen.
func (c *Config) PlacementConfig() (placement.Config, error) {
	pack, err := c.Placement.PackResistance.Resolve(placement.Never)
	if err != nil {
		return placement.Config{}, &ValidationError{Path: "placement.pack_resistance", Err: err}
	}
	off, err := c.Placement.MoveOffResistance.Resolve(placement.Always)
	if err != nil {
		return placement.Config{}, &ValidationError{Path: "placement.move_off_resistance", Err: err}
	}

	out := placement.Config{
		PackResistance:      pack,
		OffScreenResistance: off,
		GridWidth:           1,
		GridHeight:          1,
	}
	if c.Placement.Grid.Enabled {
		out.GridWidth = c.Placement.Grid.Width
		out.GridHeight = c.Placement.Grid.Height
	}
	return out, nil
}

// RootMargins returns the configured screen margins in engine form.
func (c *Config) RootMargins() placement.Margins {
	return placement.Margins{
		Left:   c.ScreenMargins.Left,
		Right:  c.ScreenMargins.Right,
		Top:    c.ScreenMargins.Top,
		Bottom: c.ScreenMargins.Bottom,
	}
}

// BoxFor returns the box a window class is assigned to. Class matching is
// case-insensitive.
func (c *Config) BoxFor(class string) (string, Box, bool) {
	name, ok := lookupFold(c.BoxAssignments, class)
	if !ok {
		return "", Box{}, false
	}
	box, ok := c.Boxes[name]
	return name, box, ok
}

// GravityFor returns the gravity override for a window class, if any.
func (c *Config) GravityFor(class string) (placement.Gravity, bool) {
	raw, ok := lookupFold(c.GravityOverrides, class)
	if !ok {
		return placement.GravityNorthWest, false
	}
	g, err := placement.ParseGravity(raw)
	if err != nil {
		return placement.GravityNorthWest, false
	}
	return g, true
}

func lookupFold(m map[string]string, key string) (string, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false
	}
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}

// SaveTo writes the configuration to path. The effective config is
// marshalled, so comments and includes in the files it was loaded from are
// not preserved.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	save := *c
	save.Boxes = boxesForSave(c.Boxes)

	data, err := yaml.Marshal(&save)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func boxesForSave(boxes map[string]Box) map[string]Box {
	builtin := BuiltinBoxes()
	out := make(map[string]Box)
	for name, box := range boxes {
		if base, ok := builtin[name]; ok && base == box {
			continue
		}
		out[name] = box
	}
	return out
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.MoveModeHotkey == "" {
		return &ValidationError{Path: "move_mode_hotkey", Err: fmt.Errorf("move_mode_hotkey is required")}
	}
	if c.MoveModeTimeout < 0 {
		return &ValidationError{Path: "move_mode_timeout", Err: fmt.Errorf("move_mode_timeout must be >= 0")}
	}
	if c.DragButton == "" {
		return &ValidationError{Path: "drag_button", Err: fmt.Errorf("drag_button is required")}
	}
	if c.NudgeStep <= 0 {
		return &ValidationError{Path: "nudge_step", Err: fmt.Errorf("nudge_step must be > 0")}
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}
	if c.ResyncIntervalSeconds < 0 {
		return &ValidationError{Path: "resync_interval_seconds", Err: fmt.Errorf("resync_interval_seconds must be >= 0")}
	}
	if c.ScreenMargins.Top < 0 || c.ScreenMargins.Bottom < 0 || c.ScreenMargins.Left < 0 || c.ScreenMargins.Right < 0 {
		return &ValidationError{Path: "screen_margins", Err: fmt.Errorf("screen_margins values must be >= 0")}
	}

	switch c.Placement.Collision {
	case CollisionNone, CollisionPack, CollisionPush:
	default:
		return &ValidationError{Path: "placement.collision", Err: fmt.Errorf("collision must be one of: none, pack, push")}
	}
	if c.Placement.Grid.Width <= 0 {
		return &ValidationError{Path: "placement.grid.width", Err: fmt.Errorf("grid width must be > 0")}
	}
	if c.Placement.Grid.Height <= 0 {
		return &ValidationError{Path: "placement.grid.height", Err: fmt.Errorf("grid height must be > 0")}
	}
	if _, err := c.PlacementConfig(); err != nil {
		return err
	}

	if c.Boxes == nil {
		return &ValidationError{Path: "boxes", Err: fmt.Errorf("boxes must not be null")}
	}
	for name, box := range c.Boxes {
		if strings.TrimSpace(name) == "" {
			return &ValidationError{Path: "boxes", Err: fmt.Errorf("boxes contains an empty name")}
		}
		if err := validateBox(box); err != nil {
			return &ValidationError{Path: "boxes." + name, Err: err}
		}
	}
	for class, name := range c.BoxAssignments {
		if _, ok := c.Boxes[name]; !ok {
			return &ValidationError{Path: "box_assignments." + class, Err: fmt.Errorf("unknown box %q", name)}
		}
	}
	for class, raw := range c.GravityOverrides {
		if _, err := placement.ParseGravity(raw); err != nil {
			return &ValidationError{Path: "gravity_overrides." + class, Err: err}
		}
	}

	return nil
}

// validateBox checks if a box region is valid.
func validateBox(box Box) error {
	switch box.Type {
	case RegionFull, RegionLeftHalf, RegionRightHalf, RegionTopHalf, RegionBottomHalf:
		return nil
	case RegionCustom:
	default:
		return fmt.Errorf("invalid type %q", box.Type)
	}

	if box.XPercent < 0 || box.XPercent > 100 || box.YPercent < 0 || box.YPercent > 100 {
		return fmt.Errorf("x_percent and y_percent must be within 0-100")
	}
	if box.WidthPercent <= 0 || box.WidthPercent > 100 || box.HeightPercent <= 0 || box.HeightPercent > 100 {
		return fmt.Errorf("width_percent and height_percent must be within 1-100")
	}
	if box.XPercent+box.WidthPercent > 100 || box.YPercent+box.HeightPercent > 100 {
		return fmt.Errorf("custom box must fit within the screen")
	}
	return nil
}

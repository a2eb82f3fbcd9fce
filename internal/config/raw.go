package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawMargins struct {
	Top    *int `yaml:"top"`
	Bottom *int `yaml:"bottom"`
	Left   *int `yaml:"left"`
	Right  *int `yaml:"right"`
}

type RawBox struct {
	Inherits      *string     `yaml:"inherits"`
	Type          *RegionType `yaml:"type"`
	XPercent      *int        `yaml:"x_percent"`
	YPercent      *int        `yaml:"y_percent"`
	WidthPercent  *int        `yaml:"width_percent"`
	HeightPercent *int        `yaml:"height_percent"`
}

type RawGrid struct {
	Enabled *bool `yaml:"enabled"`
	Width   *int  `yaml:"width"`
	Height  *int  `yaml:"height"`
}

type RawPlacement struct {
	Collision         *CollisionMode     `yaml:"collision"`
	Grid              *RawGrid           `yaml:"grid"`
	PackResistance    *ResistanceSetting `yaml:"pack_resistance"`
	MoveOffResistance *ResistanceSetting `yaml:"move_off_resistance"`
}

type RawConfig struct {
	Include               IncludeList       `yaml:"include"`
	MoveModeHotkey        *string           `yaml:"move_mode_hotkey"`
	MoveModeTimeout       *int              `yaml:"move_mode_timeout"`
	DragButton            *string           `yaml:"drag_button"`
	NudgeStep             *int              `yaml:"nudge_step"`
	Display               *string           `yaml:"display"`
	XAuthority            *string           `yaml:"xauthority"`
	LogLevel              *string           `yaml:"log_level"`
	ResyncIntervalSeconds *int              `yaml:"resync_interval_seconds"`
	ScreenMargins         *RawMargins       `yaml:"screen_margins"`
	Placement             *RawPlacement     `yaml:"placement"`
	Boxes                 map[string]RawBox `yaml:"boxes"`
	BoxAssignments        map[string]string `yaml:"box_assignments"`
	GravityOverrides      map[string]string `yaml:"gravity_overrides"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.MoveModeHotkey != nil {
		out.MoveModeHotkey = overlay.MoveModeHotkey
	}
	if overlay.MoveModeTimeout != nil {
		out.MoveModeTimeout = overlay.MoveModeTimeout
	}
	if overlay.DragButton != nil {
		out.DragButton = overlay.DragButton
	}
	if overlay.NudgeStep != nil {
		out.NudgeStep = overlay.NudgeStep
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.XAuthority != nil {
		out.XAuthority = overlay.XAuthority
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.ResyncIntervalSeconds != nil {
		out.ResyncIntervalSeconds = overlay.ResyncIntervalSeconds
	}
	if overlay.ScreenMargins != nil {
		base := RawMargins{}
		if out.ScreenMargins != nil {
			base = *out.ScreenMargins
		}
		merged := mergeRawMargins(base, *overlay.ScreenMargins)
		out.ScreenMargins = &merged
	}
	if overlay.Placement != nil {
		base := RawPlacement{}
		if out.Placement != nil {
			base = *out.Placement
		}
		merged := mergeRawPlacement(base, *overlay.Placement)
		out.Placement = &merged
	}

	if overlay.Boxes != nil {
		boxes := make(map[string]RawBox, len(out.Boxes)+len(overlay.Boxes))
		for name, box := range out.Boxes {
			boxes[name] = box
		}
		for name, box := range overlay.Boxes {
			base, ok := boxes[name]
			if !ok {
				boxes[name] = box
				continue
			}
			boxes[name] = mergeRawBox(base, box)
		}
		out.Boxes = boxes
	}
	out.BoxAssignments = mergeStringMap(out.BoxAssignments, overlay.BoxAssignments)
	out.GravityOverrides = mergeStringMap(out.GravityOverrides, overlay.GravityOverrides)

	return out
}

func mergeRawMargins(base RawMargins, overlay RawMargins) RawMargins {
	out := base
	if overlay.Top != nil {
		out.Top = overlay.Top
	}
	if overlay.Bottom != nil {
		out.Bottom = overlay.Bottom
	}
	if overlay.Left != nil {
		out.Left = overlay.Left
	}
	if overlay.Right != nil {
		out.Right = overlay.Right
	}
	return out
}

func mergeRawPlacement(base RawPlacement, overlay RawPlacement) RawPlacement {
	out := base
	if overlay.Collision != nil {
		out.Collision = overlay.Collision
	}
	if overlay.Grid != nil {
		grid := RawGrid{}
		if out.Grid != nil {
			grid = *out.Grid
		}
		if overlay.Grid.Enabled != nil {
			grid.Enabled = overlay.Grid.Enabled
		}
		if overlay.Grid.Width != nil {
			grid.Width = overlay.Grid.Width
		}
		if overlay.Grid.Height != nil {
			grid.Height = overlay.Grid.Height
		}
		out.Grid = &grid
	}
	if overlay.PackResistance != nil {
		out.PackResistance = overlay.PackResistance
	}
	if overlay.MoveOffResistance != nil {
		out.MoveOffResistance = overlay.MoveOffResistance
	}
	return out
}

func mergeRawBox(base RawBox, overlay RawBox) RawBox {
	out := base
	if overlay.Inherits != nil {
		out.Inherits = overlay.Inherits
	}
	if overlay.Type != nil {
		out.Type = overlay.Type
	}
	if overlay.XPercent != nil {
		out.XPercent = overlay.XPercent
	}
	if overlay.YPercent != nil {
		out.YPercent = overlay.YPercent
	}
	if overlay.WidthPercent != nil {
		out.WidthPercent = overlay.WidthPercent
	}
	if overlay.HeightPercent != nil {
		out.HeightPercent = overlay.HeightPercent
	}
	return out
}

func mergeStringMap(base map[string]string, overlay map[string]string) map[string]string {
	if overlay == nil {
		return base
	}
	out := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	move_mode_hotkey
//	drag_button
//	nudge_step
//	log_level
//	screen_margins.top
//	placement.collision
//	placement.grid.width
//	placement.pack_resistance
//	boxes.<name>.type
//	box_assignments.<WM_CLASS>
//	gravity_overrides.<WM_CLASS>
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	// Otherwise infer from category.
	if strings.HasPrefix(path, "boxes.") {
		name := boxNameFromPath(path)
		base := ""
		if name != "" {
			base = res.BoxBases[name]
		}
		return value, Source{Kind: SourceBuiltin, Name: base}, nil
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func boxNameFromPath(path string) string {
	parts := strings.Split(path, ".")
	if len(parts) < 2 || parts[0] != "boxes" {
		return ""
	}
	return parts[1]
}

func unknownPath(path string) error {
	return fmt.Errorf("unknown path: %s", path)
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	leaf := func(v any) (any, error) {
		if len(parts) != 1 {
			return nil, unknownPath(path)
		}
		return v, nil
	}

	switch parts[0] {
	case "move_mode_hotkey":
		return leaf(cfg.MoveModeHotkey)
	case "move_mode_timeout":
		return leaf(cfg.MoveModeTimeout)
	case "drag_button":
		return leaf(cfg.DragButton)
	case "nudge_step":
		return leaf(cfg.NudgeStep)
	case "display":
		return leaf(cfg.Display)
	case "xauthority":
		return leaf(cfg.XAuthority)
	case "log_level":
		return leaf(cfg.LogLevel)
	case "resync_interval_seconds":
		return leaf(cfg.ResyncIntervalSeconds)
	case "screen_margins":
		if len(parts) == 1 {
			return cfg.ScreenMargins, nil
		}
		if len(parts) != 2 {
			return nil, unknownPath(path)
		}
		return marginField(cfg.ScreenMargins, parts[1], path)
	case "placement":
		return lookupPlacement(cfg.Placement, parts[1:], path)
	case "boxes":
		if len(parts) == 1 {
			return cfg.Boxes, nil
		}
		box, ok := cfg.Boxes[parts[1]]
		if !ok {
			return nil, fmt.Errorf("unknown box %q", parts[1])
		}
		if len(parts) == 2 {
			return box, nil
		}
		if len(parts) != 3 {
			return nil, unknownPath(path)
		}
		switch parts[2] {
		case "type":
			return box.Type, nil
		case "x_percent":
			return box.XPercent, nil
		case "y_percent":
			return box.YPercent, nil
		case "width_percent":
			return box.WidthPercent, nil
		case "height_percent":
			return box.HeightPercent, nil
		default:
			return nil, unknownPath(path)
		}
	case "box_assignments":
		return lookupStringMap(cfg.BoxAssignments, parts, path)
	case "gravity_overrides":
		return lookupStringMap(cfg.GravityOverrides, parts, path)
	default:
		return nil, unknownPath(path)
	}
}

func marginField(m Margins, field string, path string) (any, error) {
	switch field {
	case "top":
		return m.Top, nil
	case "bottom":
		return m.Bottom, nil
	case "left":
		return m.Left, nil
	case "right":
		return m.Right, nil
	default:
		return nil, unknownPath(path)
	}
}

func lookupPlacement(p Placement, parts []string, path string) (any, error) {
	if len(parts) == 0 {
		return p, nil
	}
	switch parts[0] {
	case "collision":
		if len(parts) != 1 {
			return nil, unknownPath(path)
		}
		return p.Collision, nil
	case "pack_resistance":
		if len(parts) != 1 {
			return nil, unknownPath(path)
		}
		return p.PackResistance, nil
	case "move_off_resistance":
		if len(parts) != 1 {
			return nil, unknownPath(path)
		}
		return p.MoveOffResistance, nil
	case "grid":
		if len(parts) == 1 {
			return p.Grid, nil
		}
		if len(parts) != 2 {
			return nil, unknownPath(path)
		}
		switch parts[1] {
		case "enabled":
			return p.Grid.Enabled, nil
		case "width":
			return p.Grid.Width, nil
		case "height":
			return p.Grid.Height, nil
		default:
			return nil, unknownPath(path)
		}
	default:
		return nil, unknownPath(path)
	}
}

func lookupStringMap(m map[string]string, parts []string, path string) (any, error) {
	if len(parts) == 1 {
		return m, nil
	}
	// Class names may themselves contain dots.
	key := strings.Join(parts[1:], ".")
	v, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("unknown %s entry %q", parts[0], key)
	}
	return v, nil
}

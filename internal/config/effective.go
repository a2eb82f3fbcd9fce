package config

import (
	"fmt"
	"strings"
)

const (
	DefaultBuiltinBox = "full"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw over the defaults. It also returns, for
// each box, the builtin box it was derived from.
func BuildEffectiveConfig(raw RawConfig) (*Config, map[string]string, error) {
	cfg := DefaultConfig()

	if raw.MoveModeHotkey != nil {
		cfg.MoveModeHotkey = *raw.MoveModeHotkey
	}
	if raw.MoveModeTimeout != nil {
		cfg.MoveModeTimeout = *raw.MoveModeTimeout
	}
	if raw.DragButton != nil {
		cfg.DragButton = *raw.DragButton
	}
	if raw.NudgeStep != nil {
		cfg.NudgeStep = *raw.NudgeStep
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.XAuthority != nil {
		cfg.XAuthority = *raw.XAuthority
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}
	if raw.ResyncIntervalSeconds != nil {
		cfg.ResyncIntervalSeconds = *raw.ResyncIntervalSeconds
	}
	if raw.ScreenMargins != nil {
		cfg.ScreenMargins = Margins{
			Top:    derefInt(raw.ScreenMargins.Top, cfg.ScreenMargins.Top),
			Bottom: derefInt(raw.ScreenMargins.Bottom, cfg.ScreenMargins.Bottom),
			Left:   derefInt(raw.ScreenMargins.Left, cfg.ScreenMargins.Left),
			Right:  derefInt(raw.ScreenMargins.Right, cfg.ScreenMargins.Right),
		}
	}
	if p := raw.Placement; p != nil {
		if p.Collision != nil {
			cfg.Placement.Collision = *p.Collision
		}
		if p.Grid != nil {
			if p.Grid.Enabled != nil {
				cfg.Placement.Grid.Enabled = *p.Grid.Enabled
			}
			cfg.Placement.Grid.Width = derefInt(p.Grid.Width, cfg.Placement.Grid.Width)
			cfg.Placement.Grid.Height = derefInt(p.Grid.Height, cfg.Placement.Grid.Height)
		}
		if p.PackResistance != nil {
			cfg.Placement.PackResistance = *p.PackResistance
		}
		if p.MoveOffResistance != nil {
			cfg.Placement.MoveOffResistance = *p.MoveOffResistance
		}
	}
	for class, box := range raw.BoxAssignments {
		cfg.BoxAssignments[class] = box
	}
	for class, gravity := range raw.GravityOverrides {
		cfg.GravityOverrides[class] = gravity
	}

	boxBases, err := applyBoxes(cfg, raw)
	if err != nil {
		return nil, nil, err
	}

	return cfg, boxBases, nil
}

func applyBoxes(cfg *Config, raw RawConfig) (map[string]string, error) {
	builtin := BuiltinBoxes()

	cfg.Boxes = make(map[string]Box, len(builtin)+len(raw.Boxes))
	boxBases := make(map[string]string, len(builtin)+len(raw.Boxes))
	for name, box := range builtin {
		cfg.Boxes[name] = box
		boxBases[name] = name
	}

	for name, patch := range raw.Boxes {
		baseName, base, err := selectBoxBase(name, patch, builtin)
		if err != nil {
			return nil, err
		}
		merged := mergeBoxPatch(base, patch)
		if err := validateBox(merged); err != nil {
			return nil, &ValidationError{Path: "boxes." + name, Err: err}
		}
		cfg.Boxes[name] = merged
		boxBases[name] = baseName
	}

	return boxBases, nil
}

func selectBoxBase(name string, patch RawBox, builtin map[string]Box) (string, Box, error) {
	ref := ""
	if patch.Inherits != nil {
		ref = strings.TrimSpace(*patch.Inherits)
	}

	baseName := DefaultBuiltinBox
	if _, ok := builtin[name]; ok {
		baseName = name
	}

	if ref != "" {
		const prefix = "builtin:"
		if !strings.HasPrefix(ref, prefix) {
			return "", Box{}, &ValidationError{
				Path: "boxes." + name + ".inherits",
				Err:  fmt.Errorf("inherits must be %q-prefixed (builtin-only), got %q", prefix, ref),
			}
		}
		baseName = strings.TrimSpace(strings.TrimPrefix(ref, prefix))
	}

	base, ok := builtin[baseName]
	if !ok {
		return "", Box{}, &ValidationError{
			Path: "boxes." + name + ".inherits",
			Err:  fmt.Errorf("unknown builtin box %q", baseName),
		}
	}
	return baseName, base, nil
}

func mergeBoxPatch(base Box, patch RawBox) Box {
	out := base
	if patch.Type != nil {
		out.Type = *patch.Type
	}
	out.XPercent = derefInt(patch.XPercent, out.XPercent)
	out.YPercent = derefInt(patch.YPercent, out.YPercent)
	out.WidthPercent = derefInt(patch.WidthPercent, out.WidthPercent)
	out.HeightPercent = derefInt(patch.HeightPercent, out.HeightPercent)

	if out.Type == RegionCustom {
		// Only default the extent fields the user didn't set.
		if patch.WidthPercent == nil && out.WidthPercent == 0 {
			out.WidthPercent = 100 - out.XPercent
		}
		if patch.HeightPercent == nil && out.HeightPercent == 0 {
			out.HeightPercent = 100 - out.YPercent
		}
	}
	return out
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

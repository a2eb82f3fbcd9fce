package platform

import (
	"github.com/1broseidon/framefit/internal/config"
	"github.com/1broseidon/framefit/internal/placement"
)

// RootScreen combines the configured margins with dock struts.
func RootScreen(cfg *config.Config, s Screen) placement.Screen {
	m := cfg.RootMargins()
	return placement.Screen{
		Width:  s.Width,
		Height: s.Height,
		Margins: placement.Margins{
			Left:   m.Left + s.Struts.Left,
			Right:  m.Right + s.Struts.Right,
			Top:    m.Top + s.Struts.Top,
			Bottom: m.Bottom + s.Struts.Bottom,
		},
	}
}

// Snapshot converts backend windows into placement windows. Windows
// assigned to a box get box-relative frames; gravity overrides from cfg
// replace the window's own hint. Windows on every desktop are treated as
// being on currentDesktop.
func Snapshot(windows []Window, cfg *config.Config, layout *Layout, currentDesktop int) []placement.Window {
	out := make([]placement.Window, 0, len(windows))
	for _, w := range windows {
		pw := placement.Window{
			ID: placement.WindowID(w.ID),
			Frame: placement.Frame{
				X:      w.Bounds.X,
				Y:      w.Bounds.Y,
				Width:  w.Bounds.Width,
				Height: w.Bounds.Height,
				Border: w.Border,
			},
			Gravity: w.Gravity,
			Desktop: w.Desktop,
			Mapped:  w.Mapped,
			Class:   w.Class,
		}
		if pw.Desktop < 0 {
			pw.Desktop = currentDesktop
		}
		if g, ok := cfg.GravityFor(w.Class); ok {
			pw.Gravity = g
		}

		if id := layout.ContainerFor(w.Class); id != placement.RootContainer {
			if bounds, err := layout.ContainerBounds(id); err == nil {
				pw.Container = id
				pw.Frame.X -= bounds.X
				pw.Frame.Y -= bounds.Y
			}
		}
		out = append(out, pw)
	}
	return out
}

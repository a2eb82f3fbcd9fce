package movemode

import (
	"github.com/1broseidon/framefit/internal/placement"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Outline colors
const (
	ColorNudging = 0x27ae60 // Green - window under keyboard control
	ColorBlocked = 0xc0392b // Red - last nudge could not move the window
)

// Border thickness in pixels
const BorderThickness = 4

// Outline draws a rectangular border made of 4 thin override-redirect
// windows around the window being moved.
type Outline struct {
	xu   *xgbutil.XUtil
	root xproto.Window

	bars    [4]xproto.Window // top, bottom, left, right
	created bool
	mapped  bool
}

// NewOutline creates an outline; no X resources are allocated until Show.
func NewOutline(xu *xgbutil.XUtil, root xproto.Window) *Outline {
	return &Outline{xu: xu, root: root}
}

// Show places the outline around r in root coordinates.
func (o *Outline) Show(r placement.Rect, color uint32) error {
	if !o.created {
		for i := range o.bars {
			wid, err := createOverrideRedirectWindow(o.xu, o.root)
			if err != nil {
				o.Destroy()
				return err
			}
			o.bars[i] = wid
		}
		o.created = true
	}

	for i, bar := range outlineBars(r, BorderThickness) {
		o.updateWindow(o.bars[i], bar, color)
		xproto.MapWindow(o.xu.Conn(), o.bars[i])
	}
	o.mapped = true
	return nil
}

// Hide unmaps the outline (but doesn't destroy it)
func (o *Outline) Hide() {
	if !o.mapped {
		return
	}
	for _, wid := range o.bars {
		xproto.UnmapWindow(o.xu.Conn(), wid)
	}
	o.mapped = false
}

// Destroy releases the outline windows.
func (o *Outline) Destroy() {
	for i, wid := range o.bars {
		if wid != 0 {
			xproto.DestroyWindow(o.xu.Conn(), wid)
		}
		o.bars[i] = 0
	}
	o.created = false
	o.mapped = false
}

// outlineBars splits the border of r into top, bottom, left and right bars
// of thickness t. The side bars fit between the top and bottom ones.
func outlineBars(r placement.Rect, t int) [4]placement.Rect {
	side := max(r.Height-2*t, 1)
	return [4]placement.Rect{
		{X: r.X, Y: r.Y, Width: r.Width, Height: t},
		{X: r.X, Y: r.Y + r.Height - t, Width: r.Width, Height: t},
		{X: r.X, Y: r.Y + t, Width: t, Height: side},
		{X: r.X + r.Width - t, Y: r.Y + t, Width: t, Height: side},
	}
}

// createOverrideRedirectWindow creates an unmapped 1x1 window the window
// manager will not decorate or place.
func createOverrideRedirectWindow(xu *xgbutil.XUtil, root xproto.Window) (xproto.Window, error) {
	conn := xu.Conn()
	screen := xu.Screen()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}

	err = xproto.CreateWindowChecked(
		conn,
		screen.RootDepth,
		wid,
		root,
		0, 0, // x, y (will be updated later)
		1, 1, // width, height (will be updated later)
		0, // border_width
		xproto.WindowClassInputOutput,
		screen.RootVisual,
		xproto.CwOverrideRedirect|xproto.CwBackPixel,
		// Values follow mask bit order: CwBackPixel before CwOverrideRedirect.
		[]uint32{0, 1},
	).Check()
	if err != nil {
		return 0, err
	}
	return wid, nil
}

func (o *Outline) updateWindow(wid xproto.Window, r placement.Rect, color uint32) {
	conn := o.xu.Conn()

	width := max(r.Width, 1)
	height := max(r.Height, 1)

	xproto.ConfigureWindow(
		conn,
		wid,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{
			uint32(int32(r.X)),
			uint32(int32(r.Y)),
			uint32(width),
			uint32(height),
			xproto.StackModeAbove, // Keep on top
		},
	)
	xproto.ChangeWindowAttributes(conn, wid, xproto.CwBackPixel, []uint32{color})
	xproto.ClearArea(conn, false, wid, 0, 0, 0, 0)
}

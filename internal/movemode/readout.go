package movemode

import (
	"fmt"

	"github.com/1broseidon/framefit/internal/placement"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// Readout colors
const (
	ColorReadoutText = 0xf5f7fa
	ColorReadoutBg   = 0x1f2933
)

const (
	readoutMargin     = 12
	readoutPaddingX   = 10
	readoutPaddingY   = 8
	readoutLineHeight = 16
	readoutCharWidth  = 7
)

// formatPosition renders an origin as shown while a window moves: each
// coordinate with an explicit sign, left-aligned in four columns.
func formatPosition(x, y int) string {
	signX, signY := '+', '+'
	if x < 0 {
		x, signX = -x, '-'
	}
	if y < 0 {
		y, signY = -y, '-'
	}
	return fmt.Sprintf(" %c%-4d %c%-4d ", signX, x, signY, y)
}

// readoutBounds sizes a one-line panel for text and anchors it in the
// top-left corner of a screen, shrinking it to fit a small screen.
func readoutBounds(text string, screenW, screenH int) placement.Rect {
	r := placement.Rect{
		X:      readoutMargin,
		Y:      readoutMargin,
		Width:  len(text)*readoutCharWidth + 2*readoutPaddingX,
		Height: readoutLineHeight + 2*readoutPaddingY,
	}
	if screenW > 0 {
		r.Width = max(min(r.Width, screenW-2*readoutMargin), 1)
	}
	if screenH > 0 {
		r.Height = max(min(r.Height, screenH-2*readoutMargin), 1)
	}
	return r
}

// hintOverlay is a single override-redirect window showing the origin of
// the window being moved. If no core font can be opened it disables
// itself and moves go on without feedback.
type hintOverlay struct {
	xu   *xgbutil.XUtil
	root xproto.Window

	window   xproto.Window
	gc       xproto.Gcontext
	font     xproto.Font
	created  bool
	mapped   bool
	disabled bool
}

func newHintOverlay(xu *xgbutil.XUtil, root xproto.Window) *hintOverlay {
	return &hintOverlay{xu: xu, root: root}
}

// ShowPosition draws the origin (x, y).
func (h *hintOverlay) ShowPosition(x, y int) {
	h.show(formatPosition(x, y))
}

func (h *hintOverlay) show(text string) {
	if !h.ensureResources() {
		return
	}
	conn := h.xu.Conn()

	screenW, screenH := 0, 0
	if s := h.xu.Screen(); s != nil {
		screenW, screenH = int(s.WidthInPixels), int(s.HeightInPixels)
	}
	r := readoutBounds(text, screenW, screenH)

	xproto.ConfigureWindow(
		conn,
		h.window,
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight|xproto.ConfigWindowStackMode,
		[]uint32{uint32(r.X), uint32(r.Y), uint32(r.Width), uint32(r.Height), xproto.StackModeAbove},
	)
	xproto.ChangeWindowAttributes(conn, h.window, xproto.CwBackPixel, []uint32{ColorReadoutBg})
	xproto.ClearArea(conn, false, h.window, 0, 0, 0, 0)
	if len(text) > 255 {
		text = text[:255]
	}
	xproto.ImageText8(
		conn,
		byte(len(text)),
		xproto.Drawable(h.window),
		h.gc,
		int16(readoutPaddingX),
		int16(readoutPaddingY+readoutLineHeight-4),
		text,
	)
	if !h.mapped {
		xproto.MapWindow(conn, h.window)
		h.mapped = true
	}
}

// Hide unmaps the readout, keeping its resources for the next move.
func (h *hintOverlay) Hide() {
	if !h.mapped {
		return
	}
	xproto.UnmapWindow(h.xu.Conn(), h.window)
	h.mapped = false
}

// Destroy frees the window, font and GC.
func (h *hintOverlay) Destroy() {
	conn := h.xu.Conn()
	if h.gc != 0 {
		xproto.FreeGC(conn, h.gc)
	}
	if h.font != 0 {
		xproto.CloseFont(conn, h.font)
	}
	if h.window != 0 {
		xproto.DestroyWindow(conn, h.window)
	}
	h.window, h.gc, h.font = 0, 0, 0
	h.created = false
	h.mapped = false
}

func (h *hintOverlay) disable() {
	h.Destroy()
	h.disabled = true
}

func (h *hintOverlay) ensureResources() bool {
	if h.disabled || h.xu == nil {
		return false
	}
	if h.created {
		return true
	}
	conn := h.xu.Conn()

	window, err := createOverrideRedirectWindow(h.xu, h.root)
	if err != nil {
		h.disable()
		return false
	}
	h.window = window

	font, err := xproto.NewFontId(conn)
	if err != nil {
		h.disable()
		return false
	}
	opened := false
	for _, name := range []string{"fixed", "9x15", "8x13", "6x13"} {
		if xproto.OpenFontChecked(conn, font, uint16(len(name)), name).Check() == nil {
			opened = true
			break
		}
	}
	if !opened {
		h.disable()
		return false
	}
	h.font = font

	gc, err := xproto.NewGcontextId(conn)
	if err != nil {
		h.disable()
		return false
	}
	err = xproto.CreateGCChecked(
		conn,
		gc,
		xproto.Drawable(window),
		xproto.GcForeground|xproto.GcBackground|xproto.GcFont|xproto.GcGraphicsExposures,
		[]uint32{ColorReadoutText, ColorReadoutBg, uint32(font), 0},
	).Check()
	if err != nil {
		h.disable()
		return false
	}
	h.gc = gc
	h.created = true
	return true
}

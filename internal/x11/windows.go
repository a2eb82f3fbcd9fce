package x11

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WindowInfo is what the placement layer needs to know about a client.
type WindowInfo struct {
	ID xproto.Window
	// X and Y are the root position of the outer (border) edge.
	X      int
	Y      int
	Width  int
	Height int
	Border int
	Class  string
	Title  string
	// WinGravity is the ICCCM win_gravity hint, or 0 when unset.
	WinGravity int
	Desktop    int
	Mapped     bool
}

// ClientWindows returns the EWMH client list restricted to normal windows.
func (c *Connection) ClientWindows() ([]xproto.Window, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}
	out := clients[:0]
	for _, id := range clients {
		if c.IsNormalWindow(id) {
			out = append(out, id)
		}
	}
	return out, nil
}

// WindowInfo reads geometry, hints and state for one client.
func (c *Connection) WindowInfo(windowID xproto.Window) (WindowInfo, error) {
	conn := c.XUtil.Conn()
	geom, err := xproto.GetGeometry(conn, xproto.Drawable(windowID)).Reply()
	if err != nil {
		return WindowInfo{}, fmt.Errorf("get geometry of %d: %w", windowID, err)
	}
	translate, err := xproto.TranslateCoordinates(conn, windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return WindowInfo{}, fmt.Errorf("translate coordinates of %d: %w", windowID, err)
	}

	border := int(geom.BorderWidth)
	info := WindowInfo{
		ID:     windowID,
		X:      int(translate.DstX) - border,
		Y:      int(translate.DstY) - border,
		Width:  int(geom.Width),
		Height: int(geom.Height),
		Border: border,
		Class:  c.windowClass(windowID),
		Title:  c.windowTitle(windowID),
		Mapped: c.isViewable(windowID),
	}

	if hints, err := icccm.WmNormalHintsGet(c.XUtil, windowID); err == nil && hints.Flags&icccm.SizeHintPWinGravity != 0 {
		info.WinGravity = int(hints.WinGravity)
	}
	if desktop, err := c.GetWindowDesktop(windowID); err == nil {
		info.Desktop = desktop
	}
	if c.isHidden(windowID) {
		info.Mapped = false
	}
	return info, nil
}

func (c *Connection) isViewable(windowID xproto.Window) bool {
	attrs, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	if err != nil {
		return false
	}
	return attrs.MapState == xproto.MapStateViewable
}

// isHidden reports iconified windows, which keep their map state under
// some window managers.
func (c *Connection) isHidden(windowID xproto.Window) bool {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, state := range states {
		if state == "_NET_WM_STATE_HIDDEN" {
			return true
		}
	}
	return false
}

func (c *Connection) windowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

func (c *Connection) windowTitle(windowID xproto.Window) string {
	title, err := ewmh.WmNameGet(c.XUtil, windowID)
	if err == nil {
		title = strings.TrimSpace(title)
		if title != "" {
			return title
		}
	}

	title, err = icccm.WmNameGet(c.XUtil, windowID)
	if err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID xproto.Window, x, y, width, height int) error {
	// Maximized windows ignore move requests under most window managers.
	_ = c.unmaximizeWindow(windowID)

	// Use EWMH MoveResize for better WM compatibility
	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, x, y, width, height); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(c.XUtil, windowID).MoveResize(x, y, width, height)
	}
	return nil
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) error {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return err
	}

	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT":
			if err := ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, state); err != nil {
				return err
			}
		}
	}
	return nil
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}

	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL", "_NET_WM_WINDOW_TYPE_DIALOG":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}

	// If no specific type is set, assume it's normal
	return len(types) == 0
}

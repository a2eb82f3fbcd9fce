//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/framefit/internal/placement"
	"github.com/1broseidon/framefit/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay(display, xauthority string) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display, xauthority)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// Quit stops EventLoop.
func (b *LinuxBackend) Quit() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Screen returns the root size and the dock struts on it.
func (b *LinuxBackend) Screen() (Screen, error) {
	conn, err := b.connection()
	if err != nil {
		return Screen{}, err
	}
	width, height, err := conn.RootSize()
	if err != nil {
		return Screen{}, err
	}
	// Missing struts only cost the dock margins.
	struts, _ := conn.DockStruts()
	return Screen{
		Width:  width,
		Height: height,
		Struts: placement.Margins{
			Left:   struts.Left,
			Right:  struts.Right,
			Top:    struts.Top,
			Bottom: struts.Bottom,
		},
	}, nil
}

// CurrentDesktop returns the active virtual desktop.
func (b *LinuxBackend) CurrentDesktop() (int, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}
	return conn.GetCurrentDesktop()
}

// ListWindows returns every normal client window in EWMH client list order.
func (b *LinuxBackend) ListWindows() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	clients, err := conn.ClientWindows()
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(clients))
	for _, id := range clients {
		info, err := conn.WindowInfo(id)
		if err != nil {
			// The window may have been destroyed since the list was read.
			continue
		}
		windows = append(windows, windowFromInfo(info))
	}
	return windows, nil
}

// MoveResize moves and resizes a window to the specified bounds.
func (b *LinuxBackend) MoveResize(windowID WindowID, bounds Rect) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}

	return conn.MoveResizeWindow(
		xproto.Window(windowID),
		bounds.X,
		bounds.Y,
		bounds.Width,
		bounds.Height,
	)
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func windowFromInfo(info x11.WindowInfo) Window {
	gravity := placement.Gravity(info.WinGravity)
	if info.WinGravity == 0 || !gravity.Valid() {
		// ICCCM: an unset win_gravity means NorthWest.
		gravity = placement.GravityNorthWest
	}
	return Window{
		ID:    WindowID(info.ID),
		Class: info.Class,
		Title: info.Title,
		Bounds: Rect{
			X:      info.X,
			Y:      info.Y,
			Width:  info.Width,
			Height: info.Height,
		},
		Border:  info.Border,
		Gravity: gravity,
		Desktop: info.Desktop,
		Mapped:  info.Mapped,
	}
}

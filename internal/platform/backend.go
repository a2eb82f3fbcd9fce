// Package platform adapts a window system to the placement engine.
package platform

import "github.com/1broseidon/framefit/internal/placement"

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Screen describes the root window and the edges docks reserve on it.
type Screen struct {
	Width  int
	Height int
	Struts placement.Margins
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID    WindowID
	Class string
	Title string
	// Bounds is the outer-edge origin in root coordinates and the inner size.
	Bounds Rect
	Border int
	// Gravity is the window's own win_gravity hint.
	Gravity placement.Gravity
	// Desktop is -1 for windows shown on every desktop.
	Desktop int
	Mapped  bool
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	Screen() (Screen, error)
	CurrentDesktop() (int, error)
	ListWindows() ([]Window, error)
	MoveResize(windowID WindowID, bounds Rect) error
}

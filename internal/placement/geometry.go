package placement

// WindowID identifies a managed window.
type WindowID uint32

// ContainerID identifies the region a window is confined to.
// RootContainer is the screen itself; any other value names a box.
type ContainerID uint32

// RootContainer is the container of windows that are not confined to a box.
const RootContainer ContainerID = 0

// Rect describes a rectangle in the coordinate space of its parent.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Frame is a managed window's rectangle. Width and Height exclude the
// border; the border is drawn on every side.
type Frame struct {
	X      int
	Y      int
	Width  int
	Height int
	Border int
}

// OuterWidth returns the width including both borders.
func (f Frame) OuterWidth() int {
	return f.Width + 2*f.Border
}

// OuterHeight returns the height including both borders.
func (f Frame) OuterHeight() int {
	return f.Height + 2*f.Border
}

// Outer returns the frame's outer rectangle.
func (f Frame) Outer() Rect {
	return Rect{X: f.X, Y: f.Y, Width: f.OuterWidth(), Height: f.OuterHeight()}
}

// At returns a copy of the frame moved to (x, y).
func (f Frame) At(x, y int) Frame {
	f.X = x
	f.Y = y
	return f
}

// Window is a participant in placement.
type Window struct {
	ID        WindowID
	Frame     Frame
	Gravity   Gravity
	Container ContainerID
	// Desktop is the virtual screen the window is shown on.
	Desktop int
	Mapped  bool
	Class   string
}

// Margins are insets reserved along the edges of the root screen.
type Margins struct {
	Left   int
	Right  int
	Top    int
	Bottom int
}

// Screen describes the root container.
type Screen struct {
	Width   int
	Height  int
	Margins Margins
}

// overlaps reports whether two half-open rectangles intersect.
func overlaps(a, b Rect) bool {
	return a.X < b.X+b.Width && b.X < a.X+a.Width &&
		a.Y < b.Y+b.Height && b.Y < a.Y+a.Height
}

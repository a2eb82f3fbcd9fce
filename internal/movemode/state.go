package movemode

import (
	"fmt"

	"github.com/1broseidon/framefit/internal/placement"
)

// Phase represents what the move driver is currently doing.
type Phase int

const (
	// PhaseInactive means no window is being moved.
	PhaseInactive Phase = iota
	// PhaseDragging means a window follows the pointer.
	PhaseDragging
	// PhaseNudging means arrow keys move the active window.
	PhaseNudging
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseInactive:
		return "inactive"
	case PhaseDragging:
		return "dragging"
	case PhaseNudging:
		return "nudging"
	default:
		return "unknown"
	}
}

// Direction represents an arrow key direction
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// delta returns the unit vector for d.
func (d Direction) delta() (int, int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// pushDirection is the only way neighbours may be displaced while
// nudging in d.
func (d Direction) pushDirection() placement.PushDirection {
	switch d {
	case DirUp:
		return placement.PushUp
	case DirDown:
		return placement.PushDown
	case DirLeft:
		return placement.PushLeft
	case DirRight:
		return placement.PushRight
	default:
		return placement.PushAny
	}
}

// State holds the current move state.
type State struct {
	Phase  Phase
	Window placement.WindowID // 0 if none
	// Origin is the frame captured when the move began, restored on cancel.
	Origin placement.Frame
	// OffsetX and OffsetY are the pointer position relative to the frame
	// origin at the start of a drag.
	OffsetX int
	OffsetY int
	// ContainerX and ContainerY are the root position of the window's
	// container when the move began.
	ContainerX int
	ContainerY int
	Steps      int
}

// NewState creates a new inactive state
func NewState() *State {
	return &State{Phase: PhaseInactive}
}

// Reset resets the state to inactive
func (s *State) Reset() {
	*s = State{Phase: PhaseInactive}
}

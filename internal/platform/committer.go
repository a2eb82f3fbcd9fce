package platform

import (
	"fmt"

	"github.com/1broseidon/framefit/internal/placement"
)

// Committer applies resolved geometries through a Backend, translating
// container-relative origins to root coordinates.
type Committer struct {
	backend    Backend
	containers placement.ContainerLookup
}

var _ placement.Committer = (*Committer)(nil)

// NewCommitter creates a committer. containers may be nil when every
// window lives on the root.
func NewCommitter(backend Backend, containers placement.ContainerLookup) *Committer {
	return &Committer{backend: backend, containers: containers}
}

// ApplyGeometry moves w. The border width is left to the window manager.
func (c *Committer) ApplyGeometry(w *placement.Window, x, y, width, height, borderWidth int) error {
	if w.Container != placement.RootContainer {
		if c.containers == nil {
			return fmt.Errorf("window %d is in container %d but no container lookup is set", w.ID, w.Container)
		}
		bounds, err := c.containers.ContainerBounds(w.Container)
		if err != nil {
			return fmt.Errorf("locate container %d: %w", w.Container, err)
		}
		x += bounds.X
		y += bounds.Y
	}
	return c.backend.MoveResize(WindowID(w.ID), Rect{X: x, Y: y, Width: width, Height: height})
}

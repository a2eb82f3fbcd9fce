package platform

import (
	"fmt"
	"sort"
	"sync"

	"github.com/1broseidon/framefit/internal/config"
	"github.com/1broseidon/framefit/internal/placement"
)

// ErrUnknownBox is returned for container IDs that name no box.
var ErrUnknownBox = fmt.Errorf("unknown box")

// Layout places the configured boxes on the usable part of the root and
// assigns windows to them. Box container IDs are stable for a given set of
// box names: boxes are numbered from 1 in name order.
type Layout struct {
	mu     sync.RWMutex
	cfg    *config.Config
	usable Rect
	ids    map[string]placement.ContainerID
	names  map[placement.ContainerID]string
}

// NewLayout builds a layout for cfg on screen.
func NewLayout(cfg *config.Config, screen placement.Screen) *Layout {
	l := &Layout{}
	l.Update(cfg, screen)
	return l
}

// Update replaces the config and screen, e.g. after a reload.
func (l *Layout) Update(cfg *config.Config, screen placement.Screen) {
	names := make([]string, 0, len(cfg.Boxes))
	for name := range cfg.Boxes {
		names = append(names, name)
	}
	sort.Strings(names)

	ids := make(map[string]placement.ContainerID, len(names))
	byID := make(map[placement.ContainerID]string, len(names))
	for i, name := range names {
		id := placement.ContainerID(i + 1)
		ids[name] = id
		byID[id] = name
	}

	m := screen.Margins
	usable := Rect{
		X:      m.Left,
		Y:      m.Top,
		Width:  max(screen.Width-m.Left-m.Right, 1),
		Height: max(screen.Height-m.Top-m.Bottom, 1),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.cfg = cfg
	l.usable = usable
	l.ids = ids
	l.names = byID
}

// ContainerBounds returns a box's region in root coordinates.
func (l *Layout) ContainerBounds(id placement.ContainerID) (placement.Rect, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	name, ok := l.names[id]
	if !ok {
		return placement.Rect{}, fmt.Errorf("%w: container %d", ErrUnknownBox, id)
	}
	r := ApplyRegion(l.usable, l.cfg.Boxes[name])
	return placement.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}, nil
}

// ContainerFor returns the container a window class is assigned to, or the
// root when it has no assignment.
func (l *Layout) ContainerFor(class string) placement.ContainerID {
	l.mu.RLock()
	defer l.mu.RUnlock()

	name, _, ok := l.cfg.BoxFor(class)
	if !ok {
		return placement.RootContainer
	}
	return l.ids[name]
}

// Name returns the box name of a container, or "root".
func (l *Layout) Name(id placement.ContainerID) string {
	if id == placement.RootContainer {
		return "root"
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	if name, ok := l.names[id]; ok {
		return name
	}
	return fmt.Sprintf("container-%d", id)
}

// ApplyRegion applies the box region to an area, returning adjusted bounds
func ApplyRegion(area Rect, box config.Box) Rect {
	adjusted := area

	switch box.Type {
	case config.RegionFull:
		// No change

	case config.RegionLeftHalf:
		adjusted.Width = area.Width / 2

	case config.RegionRightHalf:
		adjusted.X = area.X + area.Width/2
		adjusted.Width = area.Width - area.Width/2

	case config.RegionTopHalf:
		adjusted.Height = area.Height / 2

	case config.RegionBottomHalf:
		adjusted.Y = area.Y + area.Height/2
		adjusted.Height = area.Height - area.Height/2

	case config.RegionCustom:
		adjusted.X = area.X + (area.Width * box.XPercent / 100)
		adjusted.Y = area.Y + (area.Height * box.YPercent / 100)
		adjusted.Width = area.Width * box.WidthPercent / 100
		adjusted.Height = area.Height * box.HeightPercent / 100
	}

	if adjusted.Width < 1 {
		adjusted.Width = 1
	}
	if adjusted.Height < 1 {
		adjusted.Height = 1
	}

	return adjusted
}

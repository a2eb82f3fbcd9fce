// Package movemode drives interactive window moves. It composes the
// placement resolvers into a pipeline, tracks drag and keyboard-nudge
// sessions, and binds them to the pointer and keyboard on X11.
package movemode

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/1broseidon/framefit/internal/config"
	"github.com/1broseidon/framefit/internal/placement"
	"github.com/charmbracelet/log"
)

var (
	ErrUnknownWindow = errors.New("unknown window")
	ErrBusy          = errors.New("a move is already in progress")
	ErrNotMoving     = errors.New("no move in progress")
	ErrNoContainer   = errors.New("container cannot be located")
)

// Policy selects which resolvers a move runs through.
type Policy struct {
	Grid      bool
	Collision config.CollisionMode
}

// PolicyFromConfig reads the placement section of cfg.
func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{
		Grid:      cfg.Placement.Grid.Enabled,
		Collision: cfg.Placement.Collision,
	}
}

// Mode names a single resolver, or the whole pipeline.
type Mode string

const (
	ModeMove      Mode = "move"
	ModeGrid      Mode = "grid"
	ModePack      Mode = "pack"
	ModePush      Mode = "push"
	ModeConstrain Mode = "constrain"
)

// ParseMode accepts the mode names; empty selects ModeMove.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeMove, nil
	case ModeMove, ModeGrid, ModePack, ModePush, ModeConstrain:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want move, grid, pack, push or constrain)", s)
	}
}

// Result describes one committed move.
type Result struct {
	Window    placement.WindowID
	From      placement.Frame
	To        placement.Frame
	Displaced []placement.Displacement
}

// Resolve runs (x, y) through the pipeline selected by p: grid snapping,
// then packing or pushing, then the container constraint. Windows displaced
// by a push are committed; w itself is not.
func Resolve(e *placement.Engine, w *placement.Window, x, y int, p Policy) (int, int) {
	res := resolve(e, w, x, y, ModeMove, p, placement.PushAny)
	return res.X, res.Y
}

func resolve(e *placement.Engine, w *placement.Window, x, y int, mode Mode, p Policy, dir placement.PushDirection) placement.PushResult {
	switch mode {
	case ModeGrid:
		x, y = e.ResolveGrid(w, x, y)
		return placement.PushResult{X: x, Y: y}
	case ModePack:
		x, y = e.ResolvePack(w, x, y)
		return placement.PushResult{X: x, Y: y}
	case ModePush:
		return e.Push(w, x, y, dir)
	case ModeConstrain:
		x, y = e.ConstrainToContainer(w, x, w.Frame.OuterWidth(), y, w.Frame.OuterHeight())
		return placement.PushResult{X: x, Y: y}
	}

	if p.Grid {
		x, y = e.ResolveGrid(w, x, y)
	}
	res := placement.PushResult{X: x, Y: y}
	switch p.Collision {
	case config.CollisionPack:
		res.X, res.Y = e.ResolvePack(w, x, y)
	case config.CollisionPush:
		res = e.Push(w, x, y, dir)
	}
	res.X, res.Y = e.ConstrainToContainer(w, res.X, w.Frame.OuterWidth(), res.Y, w.Frame.OuterHeight())
	return res
}

// Place resolves (x, y) for w with the given mode and commits the result.
func Place(e *placement.Engine, w *placement.Window, x, y int, mode Mode, p Policy) (Result, error) {
	return place(e, w, x, y, mode, p, placement.PushAny)
}

func place(e *placement.Engine, w *placement.Window, x, y int, mode Mode, p Policy, dir placement.PushDirection) (Result, error) {
	from := w.Frame
	res := resolve(e, w, x, y, mode, p, dir)
	err := e.Commit(w, res.X, res.Y)
	out := Result{Window: w.ID, From: from, To: w.Frame, Displaced: res.Displaced}
	if err != nil {
		return out, fmt.Errorf("commit window %d: %w", w.ID, err)
	}
	return out, nil
}

// Session serialises every move against one engine and tracks the
// interactive move in progress, if any.
type Session struct {
	mu        sync.Mutex
	engine    *placement.Engine
	policy    Policy
	nudgeStep int
	logger    *log.Logger
	state     *State
	// containers places sub-containers on the root so pointer positions
	// can be mapped into container space.
	containers placement.ContainerLookup
}

// NewSession creates an idle session over engine.
func NewSession(engine *placement.Engine, policy Policy, nudgeStep int, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		engine:    engine,
		policy:    policy,
		nudgeStep: nudgeStep,
		logger:    logger,
		state:     NewState(),
	}
}

// Update swaps in new tunables, e.g. after a config reload.
func (s *Session) Update(cfg placement.Config, policy Policy, nudgeStep int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.SetConfig(cfg)
	s.policy = policy
	s.nudgeStep = nudgeStep
}

// SetContainers sets the lookup used to map root pointer positions into
// sub-container space.
func (s *Session) SetContainers(l placement.ContainerLookup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.containers = l
}

// containerOrigin returns the root position of a container's origin.
func (s *Session) containerOrigin(id placement.ContainerID) (int, int, bool) {
	if id == placement.RootContainer {
		return 0, 0, true
	}
	if s.containers == nil {
		return 0, 0, false
	}
	r, err := s.containers.ContainerBounds(id)
	if err != nil {
		return 0, 0, false
	}
	return r.X, r.Y, true
}

// Policy returns the active policy.
func (s *Session) Policy() Policy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.policy
}

// Do runs fn with exclusive access to the engine.
func (s *Session) Do(fn func(e *placement.Engine)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.engine)
}

// Phase reports the interactive phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Phase
}

// Current returns the window being moved, or 0.
func (s *Session) Current() placement.WindowID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Window
}

// Place moves a window in one shot.
func (s *Session) Place(id placement.WindowID, x, y int, mode Mode) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.engine.Registry().Get(id)
	if !ok {
		return Result{}, fmt.Errorf("%w: %d", ErrUnknownWindow, id)
	}
	res, err := place(s.engine, w, x, y, mode, s.policy, placement.PushAny)
	s.logger.Debug("placed window", "window", id, "mode", mode, "x", res.To.X, "y", res.To.Y, "displaced", len(res.Displaced))
	return res, err
}

// WindowAt returns the most recently registered mapped window containing
// the root point (x, y). Windows in containers that cannot be located are
// skipped.
func (s *Session) WindowAt(x, y int) (placement.WindowID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	windows := s.engine.Registry().Windows()
	for i := len(windows) - 1; i >= 0; i-- {
		w := windows[i]
		if !w.Mapped {
			continue
		}
		ox, oy, ok := s.containerOrigin(w.Container)
		if !ok {
			continue
		}
		r := w.Frame.Outer()
		r.X += ox
		r.Y += oy
		if x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height {
			return w.ID, true
		}
	}
	return 0, false
}

// Frame returns the current frame of id.
func (s *Session) Frame(id placement.WindowID) (placement.Frame, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.engine.Registry().Get(id)
	if !ok {
		return placement.Frame{}, false
	}
	return w.Frame, true
}

// RootRect returns the outer rectangle of id in root coordinates.
func (s *Session) RootRect(id placement.WindowID) (placement.Rect, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.engine.Registry().Get(id)
	if !ok {
		return placement.Rect{}, false
	}
	ox, oy, ok := s.containerOrigin(w.Container)
	if !ok {
		return placement.Rect{}, false
	}
	r := w.Frame.Outer()
	r.X += ox
	r.Y += oy
	return r, true
}

// Begin starts dragging id with the pointer at the root position
// (pointerX, pointerY). A window whose container cannot be placed on the
// root is refused, since the grab offset would be wrong.
func (s *Session) Begin(id placement.WindowID, pointerX, pointerY int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != PhaseInactive {
		return ErrBusy
	}
	w, ok := s.engine.Registry().Get(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownWindow, id)
	}
	ox, oy, ok := s.containerOrigin(w.Container)
	if !ok {
		return fmt.Errorf("%w: window %d in container %d", ErrNoContainer, id, w.Container)
	}
	s.state.Phase = PhaseDragging
	s.state.Window = id
	s.state.Origin = w.Frame
	s.state.OffsetX = pointerX - ox - w.Frame.X
	s.state.OffsetY = pointerY - oy - w.Frame.Y
	s.state.ContainerX = ox
	s.state.ContainerY = oy
	s.logger.Debug("drag started", "window", id, "x", w.Frame.X, "y", w.Frame.Y)
	return nil
}

// Step moves the dragged window so the pointer keeps its grab offset and
// returns the committed frame.
func (s *Session) Step(pointerX, pointerY int) (placement.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != PhaseDragging {
		return placement.Frame{}, ErrNotMoving
	}
	w, err := s.currentLocked()
	if err != nil {
		return placement.Frame{}, err
	}
	s.state.Steps++
	x := pointerX - s.state.ContainerX - s.state.OffsetX
	y := pointerY - s.state.ContainerY - s.state.OffsetY
	res, err := place(s.engine, w, x, y, ModeMove, s.policy, placement.PushAny)
	return res.To, err
}

// BeginNudge puts id under keyboard control.
func (s *Session) BeginNudge(id placement.WindowID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase != PhaseInactive {
		return ErrBusy
	}
	w, ok := s.engine.Registry().Get(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownWindow, id)
	}
	s.state.Phase = PhaseNudging
	s.state.Window = id
	s.state.Origin = w.Frame
	return nil
}

// Nudge moves id one step in dir: one grid cell when the grid is on,
// otherwise nudge_step pixels. Only neighbours lying in dir are pushed.
func (s *Session) Nudge(id placement.WindowID, dir Direction) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.engine.Registry().Get(id)
	if !ok {
		return Result{}, fmt.Errorf("%w: %d", ErrUnknownWindow, id)
	}
	if s.state.Window == id {
		s.state.Steps++
	}

	dx, dy := dir.delta()
	stepX, stepY := s.stepSizeLocked()
	res, err := place(s.engine, w, w.Frame.X+dx*stepX, w.Frame.Y+dy*stepY, ModeMove, s.policy, dir.pushDirection())
	s.logger.Debug("nudged window", "window", id, "direction", dir, "x", res.To.X, "y", res.To.Y)
	return res, err
}

func (s *Session) stepSizeLocked() (int, int) {
	step := s.nudgeStep
	if step < 1 {
		step = 1
	}
	cfg := s.engine.Config()
	if !s.policy.Grid {
		return step, step
	}
	x, y := step, step
	if cfg.GridWidth > 1 {
		x = cfg.GridWidth
	}
	if cfg.GridHeight > 1 {
		y = cfg.GridHeight
	}
	return x, y
}

// End finishes the current move, keeping the window where it is.
func (s *Session) End() (placement.Frame, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase == PhaseInactive {
		return placement.Frame{}, ErrNotMoving
	}
	defer s.state.Reset()
	w, err := s.currentLocked()
	if err != nil {
		return placement.Frame{}, err
	}
	s.logger.Debug("move finished", "window", w.ID, "phase", s.state.Phase, "steps", s.state.Steps, "x", w.Frame.X, "y", w.Frame.Y)
	return w.Frame, nil
}

// Cancel returns the moved window to where it was when the move began.
// Neighbours displaced along the way stay where they were pushed.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase == PhaseInactive {
		return ErrNotMoving
	}
	defer s.state.Reset()
	w, err := s.currentLocked()
	if err != nil {
		return err
	}
	s.logger.Debug("move cancelled", "window", w.ID)
	if err := s.engine.Commit(w, s.state.Origin.X, s.state.Origin.Y); err != nil {
		return fmt.Errorf("restore window %d: %w", w.ID, err)
	}
	return nil
}

// currentLocked returns the window being moved. A window that vanished
// mid-move ends the move.
func (s *Session) currentLocked() (*placement.Window, error) {
	w, ok := s.engine.Registry().Get(s.state.Window)
	if !ok {
		id := s.state.Window
		s.state.Reset()
		return nil, fmt.Errorf("%w: %d", ErrUnknownWindow, id)
	}
	return w, nil
}

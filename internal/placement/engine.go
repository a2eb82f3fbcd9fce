package placement

import (
	"io"

	"github.com/charmbracelet/log"
)

// BorderUnchanged tells a Committer to keep the window's current border.
const BorderUnchanged = -1

// Committer makes a resolved geometry visible. It is the only place a
// frame's position becomes authoritative.
type Committer interface {
	ApplyGeometry(w *Window, x, y, width, height, borderWidth int) error
}

// CommitterFunc adapts a function to the Committer interface.
type CommitterFunc func(w *Window, x, y, width, height, borderWidth int) error

// ApplyGeometry calls f.
func (f CommitterFunc) ApplyGeometry(w *Window, x, y, width, height, borderWidth int) error {
	return f(w, x, y, width, height, borderWidth)
}

// ContainerLookup returns the current bounds of a sub-container.
type ContainerLookup interface {
	ContainerBounds(id ContainerID) (Rect, error)
}

// Config holds the placement tunables.
type Config struct {
	// PackResistance is how far a frame may overlap a neighbour and still
	// be snapped against it by the packer and pusher.
	PackResistance Resistance
	// OffScreenResistance controls how a frame is kept inside its container.
	OffScreenResistance Resistance
	GridWidth           int
	GridHeight          int
}

// DefaultConfig returns the tunables used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		PackResistance:      Threshold(20),
		OffScreenResistance: Always,
		GridWidth:           1,
		GridHeight:          1,
	}
}

// Engine resolves candidate window positions against a registry. It is not
// safe for concurrent use; callers serialise access for the duration of a
// resolution.
type Engine struct {
	reg        *Registry
	screen     Screen
	cfg        Config
	containers ContainerLookup
	committer  Committer
	logger     *log.Logger

	lastBounds map[ContainerID]Rect
	// pending holds provisional frames of windows whose resolution is in
	// progress; scans see them there instead of at their stored frame.
	pending map[WindowID]Frame
}

// Option configures an Engine.
type Option func(*Engine)

// WithContainers sets the lookup used for sub-container bounds.
func WithContainers(l ContainerLookup) Option {
	return func(e *Engine) { e.containers = l }
}

// WithCommitter sets the committer that applies displaced geometries.
func WithCommitter(c Committer) Option {
	return func(e *Engine) { e.committer = c }
}

// WithLogger sets the engine's logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an engine over reg.
func NewEngine(reg *Registry, screen Screen, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		reg:        reg,
		screen:     screen,
		cfg:        cfg,
		logger:     log.New(io.Discard),
		lastBounds: make(map[ContainerID]Rect),
		pending:    make(map[WindowID]Frame),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the engine resolves against.
func (e *Engine) Registry() *Registry {
	return e.reg
}

// Config returns the active tunables.
func (e *Engine) Config() Config {
	return e.cfg
}

// SetConfig replaces the tunables.
func (e *Engine) SetConfig(cfg Config) {
	e.cfg = cfg
}

// Screen returns the root container description.
func (e *Engine) Screen() Screen {
	return e.screen
}

// SetScreen replaces the root container description.
func (e *Engine) SetScreen(s Screen) {
	e.screen = s
}

// Commit moves w to (x, y) through the committer and records the new
// origin. The registry is updated even when the committer fails so later
// resolutions stay consistent with what was decided.
func (e *Engine) Commit(w *Window, x, y int) error {
	var err error
	if e.committer != nil {
		err = e.committer.ApplyGeometry(w, x, y, w.Frame.Width, w.Frame.Height, BorderUnchanged)
		if err != nil {
			e.logger.Warn("apply geometry failed", "window", w.ID, "x", x, "y", y, "err", err)
		}
	}
	w.Frame.X = x
	w.Frame.Y = y
	return err
}

// frameOf returns the frame scans should use for w.
func (e *Engine) frameOf(w *Window) Frame {
	if f, ok := e.pending[w.ID]; ok {
		return f
	}
	return w.Frame
}

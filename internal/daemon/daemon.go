// Package daemon keeps a live window registry for the X session and
// serves placement requests against it.
package daemon

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/1broseidon/framefit/internal/config"
	"github.com/1broseidon/framefit/internal/ipc"
	"github.com/1broseidon/framefit/internal/movemode"
	"github.com/1broseidon/framefit/internal/placement"
	"github.com/1broseidon/framefit/internal/platform"
	"github.com/charmbracelet/log"
)

// Options configures a Daemon.
type Options struct {
	Logger *log.Logger
	// LoadConfig is called on reload; config.Load when nil.
	LoadConfig func() (*config.Config, error)
}

// Daemon owns the registry, engine and move session for one backend.
type Daemon struct {
	mu         sync.RWMutex
	cfg        *config.Config
	loadConfig func() (*config.Config, error)
	onReload   []func(*config.Config)

	backend    platform.Backend
	layout     *platform.Layout
	session    *movemode.Session
	reconciler *Reconciler
	logger     *log.Logger
	started    time.Time
}

var _ ipc.Controller = (*Daemon)(nil)

// New builds a daemon and loads the initial registry from backend.
func New(cfg *config.Config, backend platform.Backend, opts Options) (*Daemon, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	loadConfig := opts.LoadConfig
	if loadConfig == nil {
		loadConfig = config.Load
	}

	pcfg, err := cfg.PlacementConfig()
	if err != nil {
		return nil, err
	}
	raw, err := backend.Screen()
	if err != nil {
		return nil, fmt.Errorf("read screen: %w", err)
	}
	screen := platform.RootScreen(cfg, raw)

	layout := platform.NewLayout(cfg, screen)
	engine := placement.NewEngine(placement.NewRegistry(), screen, pcfg,
		placement.WithContainers(layout),
		placement.WithCommitter(platform.NewCommitter(backend, layout)),
		placement.WithLogger(logger.WithPrefix("placement")),
	)
	session := movemode.NewSession(engine, movemode.PolicyFromConfig(cfg), cfg.NudgeStep, logger.WithPrefix("move"))
	session.SetContainers(layout)

	d := &Daemon{
		cfg:        cfg,
		loadConfig: loadConfig,
		backend:    backend,
		layout:     layout,
		session:    session,
		logger:     logger,
		started:    time.Now(),
	}
	interval := time.Duration(cfg.ResyncIntervalSeconds) * time.Second
	if interval == 0 {
		interval = -1
	}
	d.reconciler = NewReconciler(ReconcilerConfig{
		Interval: interval,
		Logger:   logger.WithPrefix("reconciler"),
	}, d)

	if _, _, err := d.Resync(); err != nil {
		return nil, err
	}
	return d, nil
}

// Session returns the move session, for binding input devices to it.
func (d *Daemon) Session() *movemode.Session {
	return d.session
}

// Config returns the active config.
func (d *Daemon) Config() *config.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

// OnReload registers fn to run with the new config after each reload.
func (d *Daemon) OnReload(fn func(*config.Config)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onReload = append(d.onReload, fn)
}

// Run resyncs periodically, and whenever a reload asks for it, until ctx
// is cancelled. resync_interval_seconds: 0 leaves only the latter.
func (d *Daemon) Run(ctx context.Context) {
	d.reconciler.Run(ctx)
}

// Resync reads the screen and window list and brings the registry in line.
func (d *Daemon) Resync() (added, removed int, err error) {
	cfg := d.Config()

	raw, err := d.backend.Screen()
	if err != nil {
		return 0, 0, fmt.Errorf("read screen: %w", err)
	}
	windows, err := d.backend.ListWindows()
	if err != nil {
		return 0, 0, fmt.Errorf("list windows: %w", err)
	}
	desktop, err := d.backend.CurrentDesktop()
	if err != nil {
		d.logger.Debug("current desktop unknown", "err", err)
		desktop = 0
	}

	screen := platform.RootScreen(cfg, raw)
	d.layout.Update(cfg, screen)
	snapshot := platform.Snapshot(windows, cfg, d.layout, desktop)

	d.session.Do(func(e *placement.Engine) {
		e.SetScreen(screen)
		added, removed = e.Registry().Sync(snapshot)
	})
	return added, removed, nil
}

// Reload re-reads the config and applies it. The registry and box layout
// are refreshed by the next reconciler pass, which Reload triggers.
func (d *Daemon) Reload() error {
	cfg, err := d.loadConfig()
	if err != nil {
		return err
	}
	pcfg, err := cfg.PlacementConfig()
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.cfg = cfg
	hooks := slices.Clone(d.onReload)
	d.mu.Unlock()

	d.session.Update(pcfg, movemode.PolicyFromConfig(cfg), cfg.NudgeStep)
	d.reconciler.Trigger()
	for _, fn := range hooks {
		fn(cfg)
	}
	d.logger.Info("config reloaded")
	return nil
}

// Status summarises the daemon state.
func (d *Daemon) Status() ipc.StatusData {
	cfg := d.Config()
	status := ipc.StatusData{
		Phase:             d.session.Phase().String(),
		Collision:         string(cfg.Placement.Collision),
		Grid:              cfg.Placement.Grid.Enabled,
		PackResistance:    string(cfg.Placement.PackResistance),
		MoveOffResistance: string(cfg.Placement.MoveOffResistance),
		UptimeSeconds:     int64(time.Since(d.started).Seconds()),
		DaemonRunning:     true,
	}
	d.session.Do(func(e *placement.Engine) {
		s := e.Screen()
		status.ScreenWidth = s.Width
		status.ScreenHeight = s.Height
		for _, w := range e.Registry().Windows() {
			status.WindowCount++
			if w.Mapped {
				status.MappedCount++
			}
		}
	})
	return status
}

// Windows lists the registry in scan order.
func (d *Daemon) Windows() []ipc.WindowInfo {
	var windows []placement.Window
	d.session.Do(func(e *placement.Engine) {
		windows = e.Registry().Windows()
	})

	out := make([]ipc.WindowInfo, 0, len(windows))
	for _, w := range windows {
		out = append(out, ipc.WindowInfo{
			ID:        uint32(w.ID),
			Class:     w.Class,
			X:         w.Frame.X,
			Y:         w.Frame.Y,
			Width:     w.Frame.Width,
			Height:    w.Frame.Height,
			Border:    w.Frame.Border,
			Gravity:   w.Gravity.String(),
			Container: d.layout.Name(w.Container),
			Desktop:   w.Desktop,
			Mapped:    w.Mapped,
		})
	}
	return out
}

// Place moves one window. The registry is refreshed first so the request
// is resolved against current positions.
func (d *Daemon) Place(p ipc.PlacePayload) (*ipc.PlaceData, error) {
	mode, err := movemode.ParseMode(p.Mode)
	if err != nil {
		return nil, err
	}
	if _, _, err := d.Resync(); err != nil {
		d.logger.Warn("resync before place failed", "err", err)
	}

	res, err := d.session.Place(placement.WindowID(p.WindowID), p.X, p.Y, mode)
	if err != nil {
		return nil, err
	}

	data := &ipc.PlaceData{
		WindowID: uint32(res.Window),
		FromX:    res.From.X,
		FromY:    res.From.Y,
		X:        res.To.X,
		Y:        res.To.Y,
	}
	for _, disp := range res.Displaced {
		data.Displaced = append(data.Displaced, ipc.DisplacedInfo{
			WindowID:  uint32(disp.ID),
			Direction: disp.Direction.String(),
			X:         disp.To.X,
			Y:         disp.To.Y,
		})
	}
	return data, nil
}

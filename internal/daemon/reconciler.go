package daemon

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Resyncer refreshes the window registry from the window system.
type Resyncer interface {
	Resync() (added, removed int, err error)
}

// ReconcilerConfig holds configuration for the reconciler.
type ReconcilerConfig struct {
	// Interval between passes. Zero selects the default; a negative
	// interval runs passes only when triggered.
	Interval time.Duration
	Logger   *log.Logger
}

// Reconciler periodically resyncs the registry so windows opened, closed
// or moved behind the daemon's back are seen by the next resolution.
type Reconciler struct {
	interval time.Duration
	target   Resyncer
	logger   *log.Logger
	trigger  chan struct{}
}

// NewReconciler creates a new reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig, target Resyncer) *Reconciler {
	interval := cfg.Interval
	switch {
	case interval == 0:
		interval = 10 * time.Second
	case interval < 0:
		interval = 0
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Reconciler{
		interval: interval,
		target:   target,
		logger:   logger,
		trigger:  make(chan struct{}, 1),
	}
}

// Run starts the reconciliation loop. Blocks until context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	var tick <-chan time.Time
	if r.interval > 0 {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	r.logger.Info("reconciler started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("reconciler stopped")
			return
		case <-tick:
			r.reconcile()
		case <-r.trigger:
			r.reconcile()
		}
	}
}

// Trigger asks a running loop for an immediate pass without waiting for it.
func (r *Reconciler) Trigger() {
	select {
	case r.trigger <- struct{}{}:
	default:
	}
}

// reconcile performs a single reconciliation pass.
func (r *Reconciler) reconcile() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			r.logger.Error("reconciler panic recovered", "error", err)
		}
	}()

	added, removed, err := r.target.Resync()
	if err != nil {
		r.logger.Error("reconciler: resync failed", "error", err)
		return
	}
	if added > 0 || removed > 0 {
		r.logger.Debug("reconciler: registry changed", "added", added, "removed", removed)
	}
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/1broseidon/framefit/internal/config"
	"github.com/1broseidon/framefit/internal/daemon"
	"github.com/1broseidon/framefit/internal/hotkeys"
	"github.com/1broseidon/framefit/internal/ipc"
	"github.com/1broseidon/framefit/internal/logging"
	"github.com/1broseidon/framefit/internal/movemode"
	"github.com/1broseidon/framefit/internal/platform"
)

func newDaemonCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the placement daemon in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd.Context(), g)
		},
	}
}

func runDaemon(ctx context.Context, g *globals) error {
	logger := logging.FromContext(ctx)

	cfg, err := g.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !g.verbose {
		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			logger.Warn("ignoring log_level", "err", err)
		}
		logger.SetLevel(level)
	}
	logger.Info("configuration loaded", "collision", cfg.Placement.Collision, "grid", cfg.Placement.Grid.Enabled)

	backend, err := platform.NewLinuxBackendFromDisplay(cfg.Display, cfg.XAuthority)
	if err != nil {
		return fmt.Errorf("connect to display: %w", err)
	}
	defer backend.Disconnect()

	d, err := daemon.New(cfg, backend, daemon.Options{
		Logger:     logger,
		LoadConfig: g.loadConfig,
	})
	if err != nil {
		return err
	}

	binding := movemode.NewBinding(backend.XUtil(), backend.RootWindow(), d.Session(), cfg.MoveModeTimeout, logger.WithPrefix("input"))
	defer binding.Close()

	keys, err := hotkeys.NewHandler(backend, logger.WithPrefix("hotkeys"))
	if err != nil {
		return err
	}
	bindInput(cfg, keys, binding, logger)
	d.OnReload(func(next *config.Config) {
		keys.UnregisterAll()
		binding.UnbindDrag()
		binding.SetTimeout(next.MoveModeTimeout)
		bindInput(next, keys, binding, logger)
	})

	srv, err := ipc.NewServer(d, logger.WithPrefix("ipc"))
	if err != nil {
		return fmt.Errorf("create IPC server: %w", err)
	}
	if err := srv.Start(); err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer srv.Stop()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go d.Run(runCtx)

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-runCtx.Done():
				backend.Quit()
				return
			case <-hup:
				logger.Info("received SIGHUP, reloading config")
				if err := d.Reload(); err != nil {
					logger.Error("reload failed", "err", err)
				}
			}
		}
	}()

	logger.Info("framefit daemon started", "socket", srv.SocketPath())
	backend.EventLoop()
	logger.Info("framefit daemon stopped")
	return nil
}

// bindInput registers the nudge hotkey and the drag button from cfg.
// Failures are logged so one bad binding does not stop the daemon.
func bindInput(cfg *config.Config, keys *hotkeys.Handler, binding *movemode.Binding, logger *log.Logger) {
	if cfg.MoveModeHotkey != "" {
		if err := keys.RegisterToggle(cfg.MoveModeHotkey, binding); err != nil {
			logger.Warn("move mode hotkey not registered", "err", err)
		} else {
			logger.Info("move mode hotkey registered", "keys", cfg.MoveModeHotkey)
		}
	}
	if cfg.DragButton != "" {
		if err := binding.BindDrag(cfg.DragButton); err != nil {
			logger.Warn("drag button not bound", "err", err)
		} else {
			logger.Info("drag button bound", "button", cfg.DragButton)
		}
	}
}

package daemon

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/1broseidon/framefit/internal/config"
	"github.com/1broseidon/framefit/internal/ipc"
	"github.com/1broseidon/framefit/internal/logging"
	"github.com/1broseidon/framefit/internal/placement"
	"github.com/1broseidon/framefit/internal/platform"
	"github.com/google/go-cmp/cmp"
)

func pwin(id platform.WindowID, class string, x, y, w, h int) platform.Window {
	return platform.Window{
		ID:      id,
		Class:   class,
		Bounds:  platform.Rect{X: x, Y: y, Width: w, Height: h},
		Gravity: placement.GravityNorthWest,
		Mapped:  true,
	}
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Placement.PackResistance = "60"
	cfg.ResyncIntervalSeconds = 0
	return cfg
}

func newTestDaemon(t *testing.T, cfg *config.Config, windows ...platform.Window) (*Daemon, *platform.MemoryBackend) {
	t.Helper()
	backend := platform.NewMemoryBackend(platform.Screen{Width: 1000, Height: 800}, windows...)
	d, err := New(cfg, backend, Options{
		Logger:     logging.Discard(),
		LoadConfig: func() (*config.Config, error) { return cfg, nil },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return d, backend
}

func TestDaemonWindowsListsRegistry(t *testing.T) {
	cfg := testConfig()
	cfg.BoxAssignments["XTerm"] = "right-half"
	d, _ := newTestDaemon(t, cfg,
		pwin(1, "Firefox", 10, 20, 300, 200),
		pwin(2, "XTerm", 600, 0, 100, 100),
	)

	want := []ipc.WindowInfo{
		{ID: 1, Class: "Firefox", X: 10, Y: 20, Width: 300, Height: 200, Gravity: "northwest", Container: "root", Mapped: true},
		{ID: 2, Class: "XTerm", X: 100, Y: 0, Width: 100, Height: 100, Gravity: "northwest", Container: "right-half", Mapped: true},
	}
	if diff := cmp.Diff(want, d.Windows()); diff != "" {
		t.Fatalf("windows mismatch (-want +got):\n%s", diff)
	}
}

func TestDaemonPlacePushesNeighbours(t *testing.T) {
	d, backend := newTestDaemon(t, testConfig(),
		pwin(1, "A", 0, 0, 100, 100),
		pwin(2, "B", 100, 0, 100, 100),
	)

	data, err := d.Place(ipc.PlacePayload{WindowID: 1, X: 50, Y: 0})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}

	want := &ipc.PlaceData{
		WindowID:  1,
		X:         50,
		Displaced: []ipc.DisplacedInfo{{WindowID: 2, Direction: "right", X: 150}},
	}
	if diff := cmp.Diff(want, data); diff != "" {
		t.Fatalf("place data mismatch (-want +got):\n%s", diff)
	}

	wantMoves := []platform.Move{
		{ID: 2, Bounds: platform.Rect{X: 150, Width: 100, Height: 100}},
		{ID: 1, Bounds: platform.Rect{X: 50, Width: 100, Height: 100}},
	}
	if diff := cmp.Diff(wantMoves, backend.Moves()); diff != "" {
		t.Fatalf("backend moves mismatch (-want +got):\n%s", diff)
	}
}

func TestDaemonPlaceInsideBoxUsesRootCoordinates(t *testing.T) {
	cfg := testConfig()
	cfg.BoxAssignments["XTerm"] = "right-half"
	d, backend := newTestDaemon(t, cfg, pwin(2, "XTerm", 600, 0, 100, 100))

	if _, err := d.Place(ipc.PlacePayload{WindowID: 2, X: 450, Y: 10, Mode: "move"}); err != nil {
		t.Fatalf("Place: %v", err)
	}
	moves := backend.Moves()
	if len(moves) != 1 {
		t.Fatalf("expected one move, got %v", moves)
	}
	// Clamped to the box's right edge: 500 + (500 - 100).
	if moves[0].Bounds.X != 900 || moves[0].Bounds.Y != 10 {
		t.Fatalf("expected root position (900,10), got (%d,%d)", moves[0].Bounds.X, moves[0].Bounds.Y)
	}
}

func TestDaemonPlaceErrors(t *testing.T) {
	d, _ := newTestDaemon(t, testConfig(), pwin(1, "A", 0, 0, 100, 100))

	if _, err := d.Place(ipc.PlacePayload{WindowID: 7}); err == nil {
		t.Fatalf("expected error for unknown window")
	}
	if _, err := d.Place(ipc.PlacePayload{WindowID: 1, Mode: "teleport"}); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestDaemonResyncTracksWindowList(t *testing.T) {
	d, backend := newTestDaemon(t, testConfig(), pwin(1, "A", 0, 0, 100, 100), pwin(2, "B", 200, 0, 100, 100))

	backend.SetWindows(pwin(2, "B", 250, 0, 100, 100), pwin(3, "C", 0, 300, 50, 50))
	added, removed, err := d.Resync()
	if err != nil {
		t.Fatalf("Resync: %v", err)
	}
	if added != 1 || removed != 1 {
		t.Fatalf("expected 1 added and 1 removed, got %d and %d", added, removed)
	}

	windows := d.Windows()
	if len(windows) != 2 || windows[0].ID != 2 || windows[0].X != 250 || windows[1].ID != 3 {
		t.Fatalf("unexpected registry after resync: %+v", windows)
	}
}

func TestDaemonReloadAppliesConfig(t *testing.T) {
	cfg := testConfig()
	d, _ := newTestDaemon(t, cfg, pwin(1, "A", 0, 0, 100, 100))

	next := testConfig()
	next.Placement.Collision = config.CollisionPack
	next.Placement.Grid.Enabled = true
	d.loadConfig = func() (*config.Config, error) { return next, nil }

	var seen *config.Config
	d.OnReload(func(c *config.Config) { seen = c })

	if err := d.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if seen != next {
		t.Fatalf("expected reload hook to receive the new config")
	}
	status := d.Status()
	if status.Collision != "pack" || !status.Grid {
		t.Fatalf("expected status to reflect reloaded config, got %+v", status)
	}
	if status.WindowCount != 1 || status.MappedCount != 1 || status.ScreenWidth != 1000 {
		t.Fatalf("unexpected status %+v", status)
	}
}

func TestDaemonReloadTriggersResync(t *testing.T) {
	cfg := testConfig()
	d, backend := newTestDaemon(t, cfg, pwin(1, "A", 0, 0, 100, 100))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	backend.SetWindows(pwin(1, "A", 0, 0, 100, 100), pwin(2, "B", 200, 0, 100, 100))
	if err := d.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for d.Status().WindowCount != 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if n := d.Status().WindowCount; n != 2 {
		t.Fatalf("expected reload to resync the new window, registry has %d", n)
	}
}

func TestDaemonReloadKeepsConfigOnError(t *testing.T) {
	cfg := testConfig()
	d, _ := newTestDaemon(t, cfg)
	d.loadConfig = func() (*config.Config, error) { return nil, errors.New("broken") }

	if err := d.Reload(); err == nil {
		t.Fatalf("expected reload error")
	}
	if d.Config() != cfg {
		t.Fatalf("expected previous config to stay active")
	}
}

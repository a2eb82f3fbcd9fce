package ipc

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
)

type fakeController struct {
	reloads   int
	reloadErr error
	placed    []PlacePayload
}

func (f *fakeController) Reload() error {
	f.reloads++
	return f.reloadErr
}

func (f *fakeController) Status() StatusData {
	return StatusData{WindowCount: 2, Phase: "inactive", Collision: "push", DaemonRunning: true}
}

func (f *fakeController) Windows() []WindowInfo {
	return []WindowInfo{
		{ID: 1, Class: "XTerm", X: 10, Y: 20, Width: 300, Height: 200, Gravity: "northwest", Container: "root", Mapped: true},
	}
}

func (f *fakeController) Place(p PlacePayload) (*PlaceData, error) {
	f.placed = append(f.placed, p)
	if p.WindowID == 99 {
		return nil, errors.New("unknown window: 99")
	}
	return &PlaceData{
		WindowID:  p.WindowID,
		X:         p.X,
		Y:         p.Y,
		Displaced: []DisplacedInfo{{WindowID: 2, Direction: "right", X: 150}},
	}, nil
}

func startTestServer(t *testing.T) (*fakeController, *Client) {
	t.Helper()
	// Unix socket paths are length limited; keep the directory short.
	dir, err := os.MkdirTemp("", "ffipc")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	ctrl := &fakeController{}
	srv := NewServerAt(filepath.Join(dir, "s.sock"), ctrl, log.New(io.Discard))
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return ctrl, NewClientAt(srv.SocketPath())
}

func TestClientServerRoundTrip(t *testing.T) {
	ctrl, client := startTestServer(t)

	if err := client.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if ctrl.reloads != 1 {
		t.Fatalf("expected one reload, got %d", ctrl.reloads)
	}

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if status.WindowCount != 2 || !status.DaemonRunning {
		t.Fatalf("unexpected status %+v", status)
	}

	windows, err := client.ListWindows()
	if err != nil {
		t.Fatalf("ListWindows: %v", err)
	}
	if diff := cmp.Diff(ctrl.Windows(), windows); diff != "" {
		t.Fatalf("windows mismatch (-want +got):\n%s", diff)
	}

	placed, err := client.Place(PlacePayload{WindowID: 1, X: 50, Y: 0, Mode: "push"})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if placed.X != 50 || len(placed.Displaced) != 1 || placed.Displaced[0].Direction != "right" {
		t.Fatalf("unexpected place result %+v", placed)
	}
	if ctrl.placed[0].Mode != "push" {
		t.Fatalf("expected mode to reach the controller, got %+v", ctrl.placed[0])
	}
}

func TestServerReportsErrors(t *testing.T) {
	ctrl, client := startTestServer(t)
	ctrl.reloadErr = errors.New("bad yaml")

	if err := client.Reload(); err == nil || !strings.Contains(err.Error(), "bad yaml") {
		t.Fatalf("expected reload error, got %v", err)
	}
	if _, err := client.Place(PlacePayload{WindowID: 99}); err == nil || !strings.Contains(err.Error(), "unknown window") {
		t.Fatalf("expected place error, got %v", err)
	}
	if _, err := client.Place(PlacePayload{}); err == nil || !strings.Contains(err.Error(), "window_id is required") {
		t.Fatalf("expected missing window_id error, got %v", err)
	}
}

func TestServerRejectsUnknownCommand(t *testing.T) {
	_, client := startTestServer(t)
	_, err := client.sendRequest(&Request{Command: "TILE"})
	if err == nil || !strings.Contains(err.Error(), "Unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestClientWithoutDaemon(t *testing.T) {
	client := NewClientAt(filepath.Join(t.TempDir(), "missing.sock"))
	if err := client.Ping(); err == nil || !strings.Contains(err.Error(), "is the daemon running") {
		t.Fatalf("expected connection error, got %v", err)
	}
}

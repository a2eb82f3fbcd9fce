package movemode

import (
	"errors"
	"testing"

	"github.com/1broseidon/framefit/internal/config"
	"github.com/1broseidon/framefit/internal/placement"
	"github.com/google/go-cmp/cmp"
)

func win(id placement.WindowID, x, y, w, h int) placement.Window {
	return placement.Window{
		ID:      id,
		Frame:   placement.Frame{X: x, Y: y, Width: w, Height: h},
		Gravity: placement.GravityNorthWest,
		Mapped:  true,
	}
}

type commit struct {
	ID   placement.WindowID
	X, Y int
}

type recorder struct {
	calls []commit
}

func (r *recorder) ApplyGeometry(w *placement.Window, x, y, width, height, border int) error {
	r.calls = append(r.calls, commit{ID: w.ID, X: x, Y: y})
	return nil
}

func testConfig(pack placement.Resistance, grid int) placement.Config {
	return placement.Config{
		PackResistance:      pack,
		OffScreenResistance: placement.Always,
		GridWidth:           grid,
		GridHeight:          grid,
	}
}

func newEngine(cfg placement.Config, windows ...placement.Window) (*placement.Engine, *recorder) {
	rec := &recorder{}
	reg := placement.NewRegistry(windows...)
	return placement.NewEngine(reg, placement.Screen{Width: 400, Height: 300}, cfg, placement.WithCommitter(rec)), rec
}

func mustGet(t *testing.T, e *placement.Engine, id placement.WindowID) *placement.Window {
	t.Helper()
	w, ok := e.Registry().Get(id)
	if !ok {
		t.Fatalf("window %d not in registry", id)
	}
	return w
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ModeMove},
		{in: "push", want: ModePush},
		{in: " Pack ", want: ModePack},
		{in: "grid", want: ModeGrid},
		{in: "constrain", want: ModeConstrain},
		{in: "teleport", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("ParseMode(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseMode(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestResolve_GridThenPack(t *testing.T) {
	e, rec := newEngine(testConfig(placement.Threshold(20), 10), win(1, 0, 0, 50, 50), win(2, 100, 0, 50, 50))

	x, y := Resolve(e, mustGet(t, e, 1), 63, 3, Policy{Grid: true, Collision: config.CollisionPack})
	if x != 50 || y != 0 {
		t.Fatalf("expected (50,0), got (%d,%d)", x, y)
	}
	if len(rec.calls) != 0 {
		t.Fatalf("expected no commits from a pack resolution, got %v", rec.calls)
	}
}

func TestResolve_ConstrainRunsLast(t *testing.T) {
	e, _ := newEngine(testConfig(placement.Never, 1), win(1, 0, 0, 50, 50))

	x, y := Resolve(e, mustGet(t, e, 1), 380, 290, Policy{Collision: config.CollisionNone})
	if x != 350 || y != 250 {
		t.Fatalf("expected (350,250), got (%d,%d)", x, y)
	}
}

func TestPlace_PushCommitsNeighboursBeforeMover(t *testing.T) {
	e, rec := newEngine(testConfig(placement.Threshold(60), 1), win(1, 0, 0, 100, 100), win(2, 100, 0, 100, 100))

	res, err := Place(e, mustGet(t, e, 1), 50, 0, ModeMove, Policy{Collision: config.CollisionPush})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}

	want := []commit{{ID: 2, X: 150}, {ID: 1, X: 50}}
	if diff := cmp.Diff(want, rec.calls); diff != "" {
		t.Fatalf("commit order mismatch (-want +got):\n%s", diff)
	}
	if res.From.X != 0 || res.To.X != 50 {
		t.Fatalf("expected move from x=0 to x=50, got %d -> %d", res.From.X, res.To.X)
	}
	if len(res.Displaced) != 1 || res.Displaced[0].ID != 2 {
		t.Fatalf("expected window 2 displaced, got %+v", res.Displaced)
	}
}

func TestPlace_SingleResolverModes(t *testing.T) {
	tests := []struct {
		name  string
		mode  Mode
		wantX int
	}{
		{name: "push leaves off-screen origin", mode: ModePush, wantX: -30},
		{name: "constrain clamps", mode: ModeConstrain, wantX: 0},
		{name: "grid snaps outward", mode: ModeGrid, wantX: -40},
		{name: "move pipeline constrains", mode: ModeMove, wantX: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newEngine(testConfig(placement.Threshold(20), 20), win(1, 0, 0, 50, 50))
			res, err := Place(e, mustGet(t, e, 1), -30, 0, tt.mode, Policy{Grid: true, Collision: config.CollisionPush})
			if err != nil {
				t.Fatalf("Place: %v", err)
			}
			if res.To.X != tt.wantX {
				t.Fatalf("expected x=%d, got %d", tt.wantX, res.To.X)
			}
		})
	}
}

func TestSession_DragKeepsPointerOffset(t *testing.T) {
	e, _ := newEngine(testConfig(placement.Never, 1), win(1, 0, 0, 50, 50))
	s := NewSession(e, Policy{Collision: config.CollisionNone}, 10, nil)

	if err := s.Begin(1, 10, 10); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if s.Phase() != PhaseDragging {
		t.Fatalf("expected dragging, got %s", s.Phase())
	}

	f, err := s.Step(60, 30)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if f.X != 50 || f.Y != 20 {
		t.Fatalf("expected frame at (50,20), got (%d,%d)", f.X, f.Y)
	}

	f, err = s.Step(500, 10)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if f.X != 350 {
		t.Fatalf("expected frame clamped to x=350, got %d", f.X)
	}

	f, err = s.End()
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if f.X != 350 || s.Phase() != PhaseInactive {
		t.Fatalf("expected inactive session with frame at x=350, got %s x=%d", s.Phase(), f.X)
	}
}

func TestSession_CancelRestoresOrigin(t *testing.T) {
	e, rec := newEngine(testConfig(placement.Never, 1), win(1, 20, 30, 50, 50))
	s := NewSession(e, Policy{Collision: config.CollisionNone}, 10, nil)

	if err := s.Begin(1, 25, 35); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := s.Step(100, 100); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if err := s.Cancel(); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	w := mustGet(t, e, 1)
	if w.Frame.X != 20 || w.Frame.Y != 30 {
		t.Fatalf("expected frame restored to (20,30), got (%d,%d)", w.Frame.X, w.Frame.Y)
	}
	last := rec.calls[len(rec.calls)-1]
	if last != (commit{ID: 1, X: 20, Y: 30}) {
		t.Fatalf("expected restoring commit, got %+v", last)
	}
	if s.Phase() != PhaseInactive {
		t.Fatalf("expected inactive after cancel, got %s", s.Phase())
	}
}

func TestSession_PhaseErrors(t *testing.T) {
	e, _ := newEngine(testConfig(placement.Never, 1), win(1, 0, 0, 50, 50), win(2, 100, 0, 50, 50))
	s := NewSession(e, Policy{}, 10, nil)

	if _, err := s.Step(0, 0); !errors.Is(err, ErrNotMoving) {
		t.Fatalf("expected ErrNotMoving from Step, got %v", err)
	}
	if err := s.Cancel(); !errors.Is(err, ErrNotMoving) {
		t.Fatalf("expected ErrNotMoving from Cancel, got %v", err)
	}
	if err := s.Begin(9, 0, 0); !errors.Is(err, ErrUnknownWindow) {
		t.Fatalf("expected ErrUnknownWindow, got %v", err)
	}
	if err := s.Begin(1, 0, 0); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := s.Begin(2, 0, 0); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy from second Begin, got %v", err)
	}
	if err := s.BeginNudge(2); !errors.Is(err, ErrBusy) {
		t.Fatalf("expected ErrBusy from BeginNudge, got %v", err)
	}
}

func TestSession_WindowVanishedMidDrag(t *testing.T) {
	e, _ := newEngine(testConfig(placement.Never, 1), win(1, 0, 0, 50, 50))
	s := NewSession(e, Policy{}, 10, nil)

	if err := s.Begin(1, 0, 0); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	e.Registry().Remove(1)

	if _, err := s.Step(10, 10); !errors.Is(err, ErrUnknownWindow) {
		t.Fatalf("expected ErrUnknownWindow, got %v", err)
	}
	if s.Phase() != PhaseInactive {
		t.Fatalf("expected the move to end, got %s", s.Phase())
	}
}

func TestSession_NudgeStep(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		grid   int
		dir    Direction
		wantX  int
		wantY  int
	}{
		{name: "pixels right", policy: Policy{}, grid: 1, dir: DirRight, wantX: 110, wantY: 100},
		{name: "pixels up", policy: Policy{}, grid: 1, dir: DirUp, wantX: 100, wantY: 90},
		{name: "grid cell left", policy: Policy{Grid: true}, grid: 25, dir: DirLeft, wantX: 75, wantY: 100},
		{name: "grid cell down", policy: Policy{Grid: true}, grid: 25, dir: DirDown, wantX: 100, wantY: 125},
		{name: "grid off ignores cell", policy: Policy{}, grid: 25, dir: DirDown, wantX: 100, wantY: 110},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newEngine(testConfig(placement.Never, tt.grid), win(1, 100, 100, 50, 50))
			s := NewSession(e, tt.policy, 10, nil)

			res, err := s.Nudge(1, tt.dir)
			if err != nil {
				t.Fatalf("Nudge: %v", err)
			}
			if res.To.X != tt.wantX || res.To.Y != tt.wantY {
				t.Fatalf("expected (%d,%d), got (%d,%d)", tt.wantX, tt.wantY, res.To.X, res.To.Y)
			}
		})
	}
}

func TestSession_NudgePushesOnlyAlongDirection(t *testing.T) {
	e, _ := newEngine(testConfig(placement.Threshold(60), 1), win(1, 0, 0, 100, 100), win(2, 50, 100, 100, 100))
	s := NewSession(e, Policy{Collision: config.CollisionPush}, 10, nil)

	res, err := s.Nudge(1, DirDown)
	if err != nil {
		t.Fatalf("Nudge: %v", err)
	}
	if len(res.Displaced) != 1 || res.Displaced[0].Direction != placement.PushDown {
		t.Fatalf("expected one downward displacement, got %+v", res.Displaced)
	}
	if b := mustGet(t, e, 2); b.Frame.X != 50 || b.Frame.Y != 110 {
		t.Fatalf("expected neighbour at (50,110), got (%d,%d)", b.Frame.X, b.Frame.Y)
	}
}

func TestSession_WindowAtPrefersLastRegistered(t *testing.T) {
	e, _ := newEngine(testConfig(placement.Never, 1), win(1, 0, 0, 100, 100), win(2, 50, 50, 100, 100))
	s := NewSession(e, Policy{}, 10, nil)

	if id, ok := s.WindowAt(60, 60); !ok || id != 2 {
		t.Fatalf("expected window 2 at (60,60), got %d ok=%v", id, ok)
	}
	if id, ok := s.WindowAt(10, 10); !ok || id != 1 {
		t.Fatalf("expected window 1 at (10,10), got %d ok=%v", id, ok)
	}
	if _, ok := s.WindowAt(300, 10); ok {
		t.Fatalf("expected no window at (300,10)")
	}
}

func TestSession_UpdateReplacesTunables(t *testing.T) {
	e, _ := newEngine(testConfig(placement.Never, 1), win(1, 0, 0, 50, 50))
	s := NewSession(e, Policy{}, 10, nil)

	s.Update(testConfig(placement.Threshold(5), 16), Policy{Grid: true, Collision: config.CollisionPack}, 3)

	if got := s.Policy(); !got.Grid || got.Collision != config.CollisionPack {
		t.Fatalf("expected updated policy, got %+v", got)
	}
	if e.Config().GridWidth != 16 {
		t.Fatalf("expected engine grid width 16, got %d", e.Config().GridWidth)
	}
}

type boxes map[placement.ContainerID]placement.Rect

func (b boxes) ContainerBounds(id placement.ContainerID) (placement.Rect, error) {
	r, ok := b[id]
	if !ok {
		return placement.Rect{}, errors.New("no such box")
	}
	return r, nil
}

func TestSession_DragInsideContainerUsesRootPointer(t *testing.T) {
	inBox := win(1, 10, 10, 50, 50)
	inBox.Container = 1
	lookup := boxes{1: {X: 100, Y: 50, Width: 200, Height: 200}}

	reg := placement.NewRegistry(inBox)
	e := placement.NewEngine(reg, placement.Screen{Width: 400, Height: 300}, testConfig(placement.Never, 1), placement.WithContainers(lookup))
	s := NewSession(e, Policy{}, 10, nil)
	s.SetContainers(lookup)

	id, ok := s.WindowAt(115, 65)
	if !ok || id != 1 {
		t.Fatalf("expected window 1 under the pointer, got %d ok=%v", id, ok)
	}
	if err := s.Begin(id, 115, 65); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	f, err := s.Step(150, 100)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if f.X != 45 || f.Y != 45 {
		t.Fatalf("expected container-relative frame (45,45), got (%d,%d)", f.X, f.Y)
	}
}

func TestSession_BeginRefusesUnlocatedContainer(t *testing.T) {
	inBox := win(1, 10, 10, 50, 50)
	inBox.Container = 7
	lookup := boxes{1: {X: 100, Y: 50, Width: 200, Height: 200}}

	e := placement.NewEngine(placement.NewRegistry(inBox), placement.Screen{Width: 400, Height: 300}, testConfig(placement.Never, 1), placement.WithContainers(lookup))
	s := NewSession(e, Policy{}, 10, nil)
	s.SetContainers(lookup)

	err := s.Begin(1, 115, 65)
	if !errors.Is(err, ErrNoContainer) {
		t.Fatalf("expected ErrNoContainer, got %v", err)
	}
	if s.Phase() != PhaseInactive {
		t.Fatalf("expected session to stay inactive, got %s", s.Phase())
	}
}

func TestSession_FrameFollowsSteps(t *testing.T) {
	e, _ := newEngine(testConfig(placement.Never, 1), win(1, 0, 0, 50, 50))
	s := NewSession(e, Policy{}, 10, nil)

	if err := s.Begin(1, 5, 5); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if _, err := s.Step(25, 45); err != nil {
		t.Fatalf("Step: %v", err)
	}
	f, ok := s.Frame(1)
	if !ok || f.X != 20 || f.Y != 40 {
		t.Fatalf("expected frame at (20,40), got %+v ok=%v", f, ok)
	}
	if _, ok := s.Frame(9); ok {
		t.Fatalf("expected no frame for an unknown window")
	}
}

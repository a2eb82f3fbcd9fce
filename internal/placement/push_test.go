package placement

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResolvePush_Cascade(t *testing.T) {
	e, rec := newTestEngine(packConfig(Threshold(60)),
		win(1, 0, 0, 100, 100),
		win(2, 100, 0, 100, 100),
		win(3, 200, 0, 100, 100),
	)
	a := mustGet(t, e, 1)

	res := e.Push(a, 50, 0, PushAny)
	if res.X != 50 || res.Y != 0 {
		t.Fatalf("expected mover origin (50,0), got (%d,%d)", res.X, res.Y)
	}

	wantCalls := []commitCall{
		{ID: 3, X: 250, Y: 0, Border: BorderUnchanged},
		{ID: 2, X: 150, Y: 0, Border: BorderUnchanged},
	}
	if diff := cmp.Diff(wantCalls, rec.calls); diff != "" {
		t.Fatalf("commit calls mismatch (-want +got):\n%s", diff)
	}

	wantDisplaced := []Displacement{
		{ID: 3, Direction: PushRight, From: Frame{X: 200, Width: 100, Height: 100}, To: Frame{X: 250, Width: 100, Height: 100}},
		{ID: 2, Direction: PushRight, From: Frame{X: 100, Width: 100, Height: 100}, To: Frame{X: 150, Width: 100, Height: 100}},
	}
	if diff := cmp.Diff(wantDisplaced, res.Displaced); diff != "" {
		t.Fatalf("displacements mismatch (-want +got):\n%s", diff)
	}

	if a.Frame.X != 0 {
		t.Fatalf("expected push to leave the mover's stored frame alone, got x=%d", a.Frame.X)
	}
	if rec.count(3) != 1 {
		t.Fatalf("expected window 3 committed exactly once, got %d", rec.count(3))
	}
}

func TestResolvePush_ReturnsProposedOrigin(t *testing.T) {
	e, _ := newTestEngine(packConfig(Threshold(60)), win(1, 0, 0, 100, 100), win(2, 100, 0, 100, 100))
	x, y := e.ResolvePush(mustGet(t, e, 1), 50, 0)
	if x != 50 || y != 0 {
		t.Fatalf("expected (50,0), got (%d,%d)", x, y)
	}
	if b := mustGet(t, e, 2); b.Frame.X != 150 {
		t.Fatalf("expected neighbour pushed to x=150, got %d", b.Frame.X)
	}
}

func TestResolvePush_ReportsDirectionUsed(t *testing.T) {
	e, _ := newTestEngine(packConfig(Threshold(60)), win(1, 0, 200, 100, 100), win(2, 0, 100, 100, 100))

	res := e.Push(mustGet(t, e, 1), 0, 160, PushAny)
	if len(res.Displaced) != 1 {
		t.Fatalf("expected one displacement, got %+v", res.Displaced)
	}
	d := res.Displaced[0]
	if d.Direction != PushUp || d.To.X != 0 || d.To.Y != 60 {
		t.Fatalf("expected window 2 pushed up to (0,60), got %v to (%d,%d)", d.Direction, d.To.X, d.To.Y)
	}
}

func TestPush_DirectionRestriction(t *testing.T) {
	tests := []struct {
		name  string
		dir   PushDirection
		moved bool
		wantX int
	}{
		{"right only cannot push a left neighbour", PushRight, false, 100},
		{"left allowed", PushLeft, true, 95},
		{"any picks left", PushAny, true, 95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(packConfig(Threshold(60)),
				win(1, 300, 0, 100, 100),
				win(2, 100, 0, 100, 100),
			)
			res := e.Push(mustGet(t, e, 1), 195, 0, tt.dir)
			if got := len(res.Displaced) > 0; got != tt.moved {
				t.Fatalf("expected moved=%v, got displacements %+v", tt.moved, res.Displaced)
			}
			if b := mustGet(t, e, 2); b.Frame.X != tt.wantX {
				t.Fatalf("expected neighbour at x=%d, got %d", tt.wantX, b.Frame.X)
			}
		})
	}
}

func TestPush_TerminatesAndCommitsEachWindowOnce(t *testing.T) {
	e, rec := newTestEngine(packConfig(Always),
		win(1, 0, 0, 100, 100),
		win(2, 10, 10, 100, 100),
		win(3, 10, 10, 100, 100),
		win(4, 20, 20, 100, 100),
		win(5, 30, 30, 100, 100),
	)

	res := e.Push(mustGet(t, e, 1), 15, 15, PushAny)

	if rec.count(1) != 0 {
		t.Fatalf("expected the mover never to be committed, got %d commits", rec.count(1))
	}
	for id := WindowID(2); id <= 5; id++ {
		if n := rec.count(id); n > 1 {
			t.Fatalf("window %d committed %d times", id, n)
		}
	}
	if len(res.Displaced) != len(rec.calls) {
		t.Fatalf("expected one displacement per commit, got %d and %d", len(res.Displaced), len(rec.calls))
	}
	if len(e.pending) != 0 {
		t.Fatalf("expected pending frames cleared after push, got %v", e.pending)
	}
}

func TestPush_ContinuesWhenCommitFails(t *testing.T) {
	e, rec := newTestEngine(packConfig(Threshold(60)),
		win(1, 0, 0, 100, 100),
		win(2, 100, 0, 100, 100),
		win(3, 200, 0, 100, 100),
	)
	rec.err = errors.New("BadWindow")

	res := e.Push(mustGet(t, e, 1), 50, 0, PushAny)
	if len(res.Displaced) != 2 {
		t.Fatalf("expected both windows displaced despite commit errors, got %+v", res.Displaced)
	}
	if c := mustGet(t, e, 3); c.Frame.X != 250 {
		t.Fatalf("expected registry to record x=250, got %d", c.Frame.X)
	}
}

func TestPush_DisplacedWindowIsConstrained(t *testing.T) {
	e, _ := newTestEngine(packConfig(Threshold(60)),
		win(1, 0, 0, 100, 100),
		win(2, 300, 0, 100, 100),
	)
	// Window 2 would be pushed to x=350 on a 400 wide screen.
	e.Push(mustGet(t, e, 1), 250, 0, PushAny)
	if b := mustGet(t, e, 2); b.Frame.X != 300 {
		t.Fatalf("expected pushed window clamped to x=300, got %d", b.Frame.X)
	}
}

func TestPush_AlwaysPushesAwayFromMover(t *testing.T) {
	e, _ := newTestEngine(packConfig(Always),
		win(1, 0, 0, 100, 100),
		win(2, 100, 0, 100, 100),
	)

	res := e.Push(mustGet(t, e, 1), 50, 0, PushAny)

	if len(res.Displaced) != 1 || res.Displaced[0].Direction != PushRight {
		t.Fatalf("expected window 2 pushed right, got %+v", res.Displaced)
	}
	b := mustGet(t, e, 2)
	if b.Frame.X != 150 {
		t.Fatalf("expected window 2 at x=150, got %d", b.Frame.X)
	}
	mover := Rect{X: 50, Y: 0, Width: 100, Height: 100}
	if overlaps(mover, b.Frame.Outer()) {
		t.Fatalf("expected no overlap after push, mover %+v neighbour %+v", mover, b.Frame.Outer())
	}
}

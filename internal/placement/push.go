package placement

import "fmt"

// PushDirection restricts which way the pusher may displace neighbours.
type PushDirection int

const (
	PushAny PushDirection = iota
	PushLeft
	PushRight
	PushUp
	PushDown
)

func (d PushDirection) String() string {
	switch d {
	case PushAny:
		return "any"
	case PushLeft:
		return "left"
	case PushRight:
		return "right"
	case PushUp:
		return "up"
	case PushDown:
		return "down"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

func (d PushDirection) allows(want PushDirection) bool {
	return d == PushAny || d == want
}

// Displacement records one window moved aside by a push.
type Displacement struct {
	ID        WindowID
	Direction PushDirection
	From      Frame
	To        Frame
}

// PushResult is the outcome of a push resolution. X and Y are the mover's
// origin, which a push never changes.
type PushResult struct {
	X         int
	Y         int
	Displaced []Displacement
}

// ResolvePush places w at (x, y) by shoving overlapping neighbours out of
// the way in any direction. Displaced windows are committed as a side
// effect; the returned origin is (x, y).
func (e *Engine) ResolvePush(w *Window, x, y int) (int, int) {
	res := e.Push(w, x, y, PushAny)
	return res.X, res.Y
}

// Push is ResolvePush with a direction restriction and a report of every
// displaced window in commit order.
//
// Each neighbour that overlaps the mover is displaced in the first allowed
// direction (left, right, up, down) whose overlap is within the pack
// resistance. With an Always resistance the allowed direction with the
// shallowest overlap is used instead, so a neighbour is never pushed
// through the mover. The displaced window then pushes its own neighbours
// with the direction locked, is packed and constrained, and is committed.
// A window is displaced at most once per call, so cycles of windows cannot
// recurse forever.
func (e *Engine) Push(w *Window, x, y int, dir PushDirection) PushResult {
	clear(e.pending)
	defer clear(e.pending)

	e.pending[w.ID] = w.Frame.At(x, y)
	visited := map[WindowID]bool{w.ID: true}
	res := PushResult{X: x, Y: y}
	e.push(w, x, y, dir, visited, &res)
	return res
}

func (e *Engine) push(w *Window, x, y int, dir PushDirection, visited map[WindowID]bool, res *PushResult) {
	winw := w.Frame.OuterWidth()
	winh := w.Frame.OuterHeight()
	r := e.cfg.PackResistance
	mover := Rect{X: x, Y: y, Width: winw, Height: winh}

	for _, t := range e.reg.Peers(w) {
		if visited[t.ID] {
			continue
		}
		from := e.frameOf(t)
		tr := from.Outer()
		if !overlaps(mover, tr) {
			continue
		}

		overlap := [sideCount]int{
			tr.X + tr.Width - x,
			x + winw - tr.X,
			tr.Y + tr.Height - y,
			y + winh - tr.Y,
		}
		allowed := [sideCount]bool{dir.allows(PushLeft), dir.allows(PushRight), dir.allows(PushUp), dir.allows(PushDown)}

		var nx, ny int
		var ndir PushDirection
		switch r.side(overlap, allowed) {
		case 0:
			nx, ny, ndir = x-tr.Width, tr.Y, PushLeft
		case 1:
			nx, ny, ndir = x+winw, tr.Y, PushRight
		case 2:
			nx, ny, ndir = tr.X, y-tr.Height, PushUp
		case 3:
			nx, ny, ndir = tr.X, y+winh, PushDown
		default:
			continue
		}

		visited[t.ID] = true
		e.pending[t.ID] = from.At(nx, ny)
		e.push(t, nx, ny, ndir, visited, res)
		nx, ny = e.ResolvePack(t, nx, ny)
		nx, ny = e.ConstrainToContainer(t, nx, tr.Width, ny, tr.Height)
		delete(e.pending, t.ID)

		e.logger.Debug("pushed window", "window", t.ID, "by", w.ID, "direction", ndir, "x", nx, "y", ny)
		_ = e.Commit(t, nx, ny)
		res.Displaced = append(res.Displaced, Displacement{
			ID:        t.ID,
			Direction: ndir,
			From:      from,
			To:        t.Frame,
		})
	}
}

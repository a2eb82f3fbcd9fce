package placement

// ResolveGrid aligns a candidate origin for w to the move grid. The corner
// named by w's gravity lands on a grid line measured from the container's
// leading margin; east and south gravities align the right or bottom edge
// and derive the origin from the frame size. Center and the degenerate
// gravities align the left and top edges.
func (e *Engine) ResolveGrid(w *Window, x, y int) (int, int) {
	left, top := e.leadingMargins(w)
	dx, dy := GravityOffsets(w.Gravity)
	return snapAxis(x, w.Frame.OuterWidth(), left, e.cfg.GridWidth, dx > 0),
		snapAxis(y, w.Frame.OuterHeight(), top, e.cfg.GridHeight, dy > 0)
}

func snapAxis(value, size, margin, cell int, trailing bool) int {
	if cell <= 1 {
		return value
	}
	if trailing {
		return floorDiv(value+size-margin, cell)*cell - size + margin
	}
	return floorDiv(value-margin, cell)*cell + margin
}

// floorDiv divides rounding toward negative infinity, so positions left of
// the margin snap outward like positions right of it.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

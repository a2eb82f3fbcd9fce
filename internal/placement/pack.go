package placement

var allSides = [sideCount]bool{true, true, true, true}

// ResolvePack nudges a candidate origin for w so that it abuts, rather than
// overlaps, neighbours it only slightly overlaps.
//
// Neighbours are scanned once in registry order. For each overlapping
// neighbour the first of left, right, top and bottom whose overlap is
// within the pack resistance is applied and the scan moves on; earlier
// neighbours are not rechecked after a later one moves the origin. With
// an Always resistance the side with the shallowest overlap wins instead.
func (e *Engine) ResolvePack(w *Window, x, y int) (int, int) {
	winw := w.Frame.OuterWidth()
	winh := w.Frame.OuterHeight()
	r := e.cfg.PackResistance

	for _, t := range e.reg.Peers(w) {
		tr := e.frameOf(t).Outer()
		if !overlaps(Rect{X: x, Y: y, Width: winw, Height: winh}, tr) {
			continue
		}

		overlap := [sideCount]int{
			tr.X + tr.Width - x,
			x + winw - tr.X,
			tr.Y + tr.Height - y,
			y + winh - tr.Y,
		}
		switch r.side(overlap, allSides) {
		case 0:
			x = max(x, tr.X+tr.Width)
		case 1:
			x = min(x, tr.X-winw)
		case 2:
			y = max(y, tr.Y+tr.Height)
		case 3:
			y = min(y, tr.Y-winh)
		}
	}
	return x, y
}

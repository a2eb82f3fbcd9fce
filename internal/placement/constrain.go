package placement

// ConstrainToContainer keeps a frame of the given outer size inside w's
// container, subject to the off-screen resistance. Each axis is corrected
// at its trailing edge first and then at its leading edge, so a frame
// larger than its container ends up aligned to the leading margin.
func (e *Engine) ConstrainToContainer(w *Window, x, width, y, height int) (int, int) {
	if w.Container == RootContainer {
		m := e.screen.Margins
		return e.constrainAxis(x, width, m.Left, e.screen.Width-m.Right),
			e.constrainAxis(y, height, m.Top, e.screen.Height-m.Bottom)
	}

	bounds, ok := e.containerBounds(w.Container)
	if !ok {
		return x, y
	}
	return e.constrainAxis(x, width, 0, bounds.Width),
		e.constrainAxis(y, height, 0, bounds.Height)
}

func (e *Engine) constrainAxis(value, size, lead, trail int) int {
	r := e.cfg.OffScreenResistance
	value = r.constrainTrailing(value, size, trail)
	return r.constrainLeading(value, lead)
}

// containerBounds looks up a sub-container, falling back to the last bounds
// seen for it. With no history the container is treated as unbounded.
func (e *Engine) containerBounds(id ContainerID) (Rect, bool) {
	if e.containers != nil {
		bounds, err := e.containers.ContainerBounds(id)
		if err == nil {
			e.lastBounds[id] = bounds
			return bounds, true
		}
		if last, ok := e.lastBounds[id]; ok {
			e.logger.Warn("container lookup failed, using last known bounds", "container", id, "err", err)
			return last, true
		}
		e.logger.Warn("container lookup failed, leaving window unconstrained", "container", id, "err", err)
		return Rect{}, false
	}
	last, ok := e.lastBounds[id]
	return last, ok
}

// leadingMargins returns the left and top margins of w's container.
func (e *Engine) leadingMargins(w *Window) (int, int) {
	if w.Container == RootContainer {
		return e.screen.Margins.Left, e.screen.Margins.Top
	}
	return 0, 0
}

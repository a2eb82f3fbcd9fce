package placement

// Registry is the set of managed windows, kept in insertion order so that
// collision scans are deterministic.
type Registry struct {
	order []WindowID
	byID  map[WindowID]*Window
}

// NewRegistry returns a registry holding copies of windows in the given order.
func NewRegistry(windows ...Window) *Registry {
	r := &Registry{byID: make(map[WindowID]*Window, len(windows))}
	for _, w := range windows {
		r.Add(w)
	}
	return r
}

// Add inserts w, or replaces the stored window with the same ID while
// keeping its position in the scan order.
func (r *Registry) Add(w Window) *Window {
	if existing, ok := r.byID[w.ID]; ok {
		*existing = w
		return existing
	}
	stored := w
	r.byID[w.ID] = &stored
	r.order = append(r.order, w.ID)
	return &stored
}

// Remove deletes the window with the given ID. It reports whether a window
// was removed.
func (r *Registry) Remove(id WindowID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	delete(r.byID, id)
	for i, other := range r.order {
		if other == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the live window record for id.
func (r *Registry) Get(id WindowID) (*Window, bool) {
	w, ok := r.byID[id]
	return w, ok
}

// Len returns the number of windows.
func (r *Registry) Len() int {
	return len(r.order)
}

// Windows returns a snapshot of all windows in scan order.
func (r *Registry) Windows() []Window {
	out := make([]Window, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.byID[id])
	}
	return out
}

// Peers returns the live records of windows that can collide with w:
// mapped, in the same container, on the same desktop, and not w itself.
func (r *Registry) Peers(w *Window) []*Window {
	var peers []*Window
	for _, id := range r.order {
		t := r.byID[id]
		if t.ID == w.ID || !t.Mapped {
			continue
		}
		if t.Container != w.Container || t.Desktop != w.Desktop {
			continue
		}
		peers = append(peers, t)
	}
	return peers
}

// Sync makes the registry match windows. Survivors keep their scan
// position, new windows are appended in the order given, and windows not
// listed are removed.
func (r *Registry) Sync(windows []Window) (added, removed int) {
	seen := make(map[WindowID]bool, len(windows))
	for _, w := range windows {
		seen[w.ID] = true
		if _, ok := r.byID[w.ID]; !ok {
			added++
		}
		r.Add(w)
	}
	for _, id := range append([]WindowID(nil), r.order...) {
		if !seen[id] {
			r.Remove(id)
			removed++
		}
	}
	return added, removed
}

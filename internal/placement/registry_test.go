package placement

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ids(windows []Window) []WindowID {
	out := make([]WindowID, 0, len(windows))
	for _, w := range windows {
		out = append(out, w.ID)
	}
	return out
}

func TestRegistry_PreservesInsertionOrder(t *testing.T) {
	r := NewRegistry(win(5, 0, 0, 1, 1), win(2, 0, 0, 1, 1), win(9, 0, 0, 1, 1))
	r.Add(win(2, 40, 0, 1, 1))

	if diff := cmp.Diff([]WindowID{5, 2, 9}, ids(r.Windows())); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if w, _ := r.Get(2); w.Frame.X != 40 {
		t.Fatalf("expected replaced window to have x=40, got %d", w.Frame.X)
	}

	if !r.Remove(2) || r.Remove(2) {
		t.Fatalf("expected Remove to succeed once")
	}
	if diff := cmp.Diff([]WindowID{5, 9}, ids(r.Windows())); diff != "" {
		t.Fatalf("order after remove mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Peers(t *testing.T) {
	self := win(1, 0, 0, 1, 1)
	hidden := win(2, 0, 0, 1, 1)
	hidden.Mapped = false
	otherDesk := win(3, 0, 0, 1, 1)
	otherDesk.Desktop = 2
	boxed := win(4, 0, 0, 1, 1)
	boxed.Container = 1
	peer := win(5, 0, 0, 1, 1)

	r := NewRegistry(self, hidden, otherDesk, boxed, peer)
	w, _ := r.Get(1)

	var got []WindowID
	for _, p := range r.Peers(w) {
		got = append(got, p.ID)
	}
	if diff := cmp.Diff([]WindowID{5}, got); diff != "" {
		t.Fatalf("peers mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Sync(t *testing.T) {
	r := NewRegistry(win(1, 0, 0, 1, 1), win(2, 0, 0, 1, 1), win(3, 0, 0, 1, 1))

	added, removed := r.Sync([]Window{win(4, 0, 0, 1, 1), win(3, 7, 0, 1, 1), win(1, 0, 0, 1, 1)})
	if added != 1 || removed != 1 {
		t.Fatalf("expected 1 added and 1 removed, got %d and %d", added, removed)
	}
	if diff := cmp.Diff([]WindowID{1, 3, 4}, ids(r.Windows())); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if w, _ := r.Get(3); w.Frame.X != 7 {
		t.Fatalf("expected synced frame x=7, got %d", w.Frame.X)
	}
}

func TestRegistry_GetReturnsLiveRecord(t *testing.T) {
	r := NewRegistry(win(1, 0, 0, 10, 10))
	w, _ := r.Get(1)
	w.Frame.X = 99
	if again, _ := r.Get(1); again.Frame.X != 99 {
		t.Fatalf("expected Get to return the stored record")
	}
}

package hotkeys

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIgnoreMasksCoversEveryCombination(t *testing.T) {
	got := ignoreMasks([]uint16{0x2, 0x10, 0x80})
	want := []uint16{0x0, 0x2, 0x10, 0x12, 0x80, 0x82, 0x90, 0x92}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("masks mismatch (-want +got):\n%s", diff)
	}
}

func TestIgnoreMasksWithoutLocks(t *testing.T) {
	got := ignoreMasks(nil)
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("expected only the empty mask, got %v", got)
	}
}

package movemode

import (
	"testing"

	"github.com/1broseidon/framefit/internal/placement"
	"github.com/google/go-cmp/cmp"
)

func TestOutlineBarsFrameTheRect(t *testing.T) {
	got := outlineBars(placement.Rect{X: 10, Y: 20, Width: 100, Height: 50}, 4)
	want := [4]placement.Rect{
		{X: 10, Y: 20, Width: 100, Height: 4},
		{X: 10, Y: 66, Width: 100, Height: 4},
		{X: 10, Y: 24, Width: 4, Height: 42},
		{X: 106, Y: 24, Width: 4, Height: 42},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("bars mismatch (-want +got):\n%s", diff)
	}
}

func TestOutlineBarsKeepSidesVisibleOnTinyRects(t *testing.T) {
	got := outlineBars(placement.Rect{Width: 6, Height: 6}, 4)
	if got[2].Height != 1 || got[3].Height != 1 {
		t.Fatalf("expected side bars clamped to height 1, got %d and %d", got[2].Height, got[3].Height)
	}
}

package platform

import (
	"fmt"
	"sync"
)

// MemoryBackend is a Backend over an in-process window list. It records
// every MoveResize it receives.
type MemoryBackend struct {
	mu      sync.Mutex
	screen  Screen
	desktop int
	windows []Window
	moves   []Move
}

// Move is one MoveResize call seen by a MemoryBackend.
type Move struct {
	ID     WindowID
	Bounds Rect
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend creates a backend showing windows on screen.
func NewMemoryBackend(screen Screen, windows ...Window) *MemoryBackend {
	return &MemoryBackend{screen: screen, windows: append([]Window(nil), windows...)}
}

func (b *MemoryBackend) Screen() (Screen, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.screen, nil
}

func (b *MemoryBackend) CurrentDesktop() (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.desktop, nil
}

// SetWindows replaces the window list.
func (b *MemoryBackend) SetWindows(windows ...Window) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.windows = append([]Window(nil), windows...)
}

func (b *MemoryBackend) ListWindows() ([]Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Window(nil), b.windows...), nil
}

func (b *MemoryBackend) MoveResize(windowID WindowID, bounds Rect) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.windows {
		if b.windows[i].ID == windowID {
			b.windows[i].Bounds = bounds
			b.moves = append(b.moves, Move{ID: windowID, Bounds: bounds})
			return nil
		}
	}
	return fmt.Errorf("window %d not found", windowID)
}

// Moves returns the MoveResize calls seen so far.
func (b *MemoryBackend) Moves() []Move {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Move(nil), b.moves...)
}

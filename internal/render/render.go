// Package render draws window arrangements and placement results for the
// terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/framefit/internal/placement"
	"github.com/1broseidon/framefit/internal/scenario"
)

var (
	colorDim   = lipgloss.Color("240")
	colorGray  = lipgloss.Color("245")
	colorBox   = lipgloss.Color("61")
	colorRed   = lipgloss.Color("167")
	colorGreen = lipgloss.Color("35")

	windowColors = []lipgloss.Color{"36", "220", "75", "170", "35", "208", "141", "43"}
)

const labels = "123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const (
	cellEmpty = '.'
	cellBox   = ':'
)

// Placed is a window rectangle in screen coordinates.
type Placed struct {
	ID     placement.WindowID
	Class  string
	Rect   placement.Rect
	Mapped bool
}

// Scene is everything drawn by Map.
type Scene struct {
	Screen  placement.Screen
	Boxes   map[string]placement.Rect
	Windows []Placed
}

// FromReport builds the final scene of a scenario replay.
func FromReport(r *scenario.Report) Scene {
	scene := Scene{Screen: r.Screen, Boxes: r.Boxes}
	for _, w := range r.Windows {
		outer := w.Frame.Outer()
		if name := r.BoxName(w.Container); name != "" {
			origin := r.Boxes[name]
			outer.X += origin.X
			outer.Y += origin.Y
		}
		scene.Windows = append(scene.Windows, Placed{ID: w.ID, Class: w.Class, Rect: outer, Mapped: w.Mapped})
	}
	return scene
}

// Options controls rendering.
type Options struct {
	// Columns is the map width in cells. Rows follow the screen aspect,
	// halved for the shape of terminal cells.
	Columns int
	// Renderer decides the color profile; lipgloss's default when nil.
	Renderer *lipgloss.Renderer
}

func (o Options) renderer() *lipgloss.Renderer {
	if o.Renderer != nil {
		return o.Renderer
	}
	return lipgloss.DefaultRenderer()
}

// NewRenderer returns a renderer whose color profile suits w.
func NewRenderer(w io.Writer) *lipgloss.Renderer {
	return lipgloss.NewRenderer(w)
}

// Map draws the scene as a scaled character map followed by a legend.
// Windows are drawn in scan order, so later windows cover earlier ones.
func Map(scene Scene, opts Options) string {
	cols := opts.Columns
	if cols <= 0 {
		cols = 80
	}
	sw, sh := scene.Screen.Width, scene.Screen.Height
	if sw <= 0 || sh <= 0 {
		return ""
	}
	rows := max(1, sh*cols/sw/2)

	// owner holds -1 for empty, -2 for box area, or a window index.
	owner := make([][]int, rows)
	for r := range owner {
		owner[r] = make([]int, cols)
		for c := range owner[r] {
			owner[r][c] = -1
		}
	}
	fill := func(rect placement.Rect, v int) {
		c0, c1 := span(rect.X, rect.Width, sw, cols)
		r0, r1 := span(rect.Y, rect.Height, sh, rows)
		for r := r0; r < r1; r++ {
			for c := c0; c < c1; c++ {
				owner[r][c] = v
			}
		}
	}
	for _, b := range scene.Boxes {
		fill(b, -2)
	}
	for i, w := range scene.Windows {
		if w.Mapped {
			fill(w.Rect, i)
		}
	}

	re := opts.renderer()
	emptyStyle := re.NewStyle().Foreground(colorDim)
	boxStyle := re.NewStyle().Foreground(colorBox)

	var b strings.Builder
	for _, row := range owner {
		for _, v := range row {
			switch {
			case v == -1:
				b.WriteString(emptyStyle.Render(string(cellEmpty)))
			case v == -2:
				b.WriteString(boxStyle.Render(string(cellBox)))
			default:
				b.WriteString(windowStyle(re, v).Render(string(label(v))))
			}
		}
		b.WriteByte('\n')
	}

	legend := re.NewStyle().Foreground(colorGray)
	for i, w := range scene.Windows {
		line := fmt.Sprintf("%c  0x%x %s %dx%d+%d+%d", label(i), uint32(w.ID), w.Class,
			w.Rect.Width, w.Rect.Height, w.Rect.X, w.Rect.Y)
		if !w.Mapped {
			line += " (unmapped)"
		}
		b.WriteString(legend.Render(line))
		b.WriteByte('\n')
	}
	return b.String()
}

func windowStyle(re *lipgloss.Renderer, i int) lipgloss.Style {
	return re.NewStyle().Bold(true).Foreground(windowColors[i%len(windowColors)])
}

func label(i int) rune {
	return rune(labels[i%len(labels)])
}

// span maps [pos, pos+size) on an axis of length total onto cells. Anything
// visible gets at least one cell.
func span(pos, size, total, cells int) (int, int) {
	lo := floorDiv(pos*cells, total)
	hi := ceilDiv((pos+size)*cells, total)
	lo = max(0, min(lo, cells))
	hi = max(0, min(hi, cells))
	if hi == lo && pos < total && pos+size > 0 && lo < cells {
		hi = lo + 1
	}
	return lo, hi
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}

package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/1broseidon/framefit/internal/ipc"
	"github.com/1broseidon/framefit/internal/scenario"
)

// headerRow is the row index lipgloss tables pass for the header.
const headerRow = -1

// Steps renders one row per replayed move.
func Steps(steps []scenario.Step, opts Options) string {
	rows := make([][]string, 0, len(steps))
	for i, s := range steps {
		mode := s.Move.Mode
		if mode == "" {
			mode = "move"
		}
		to, displaced := "-", "-"
		if s.Err == "" {
			to = fmt.Sprintf("%d,%d", s.Result.To.X, s.Result.To.Y)
			if n := len(s.Result.Displaced); n > 0 {
				parts := make([]string, 0, n)
				for _, d := range s.Result.Displaced {
					parts = append(parts, fmt.Sprintf("0x%x %s", uint32(d.ID), d.Direction))
				}
				displaced = strings.Join(parts, ", ")
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("0x%x", s.Move.Window),
			mode,
			fmt.Sprintf("%d,%d", s.Move.X, s.Move.Y),
			to,
			displaced,
			s.Err,
		})
	}

	re := opts.renderer()
	header := re.NewStyle().Foreground(colorGray).Bold(true)
	errStyle := re.NewStyle().Foreground(colorRed)
	okStyle := re.NewStyle().Foreground(colorGreen)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(re.NewStyle().Foreground(colorDim)).
		Headers("#", "Window", "Mode", "Asked", "Got", "Displaced", "Error").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == headerRow:
				return header
			case col == 6:
				return errStyle
			case col == 4:
				return okStyle
			}
			return re.NewStyle()
		})
	return t.Render()
}

// Commits renders the commit log in order.
func Commits(commits []scenario.Commit, opts Options) string {
	rows := make([][]string, 0, len(commits))
	for i, c := range commits {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("0x%x", uint32(c.Window)),
			strconv.Itoa(c.X),
			strconv.Itoa(c.Y),
			strconv.Itoa(c.Width),
			strconv.Itoa(c.Height),
		})
	}

	re := opts.renderer()
	header := re.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(re.NewStyle().Foreground(colorDim)).
		Headers("#", "Window", "X", "Y", "Width", "Height").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return header
			}
			return re.NewStyle()
		})
	return t.Render()
}

// Windows renders a daemon window list. Unmapped windows are dimmed.
func Windows(windows []ipc.WindowInfo, opts Options) string {
	rows := make([][]string, 0, len(windows))
	for _, w := range windows {
		rows = append(rows, []string{
			fmt.Sprintf("0x%x", w.ID),
			w.Class,
			fmt.Sprintf("%dx%d+%d+%d", w.Width, w.Height, w.X, w.Y),
			strconv.Itoa(w.Border),
			w.Gravity,
			w.Container,
			strconv.Itoa(w.Desktop),
		})
	}

	re := opts.renderer()
	header := re.NewStyle().Foreground(colorGray).Bold(true)
	dim := re.NewStyle().Foreground(colorDim)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(re.NewStyle().Foreground(colorDim)).
		Headers("Window", "Class", "Geometry", "Border", "Gravity", "Container", "Desktop").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return header
			}
			if row >= 0 && row < len(windows) && !windows[row].Mapped {
				return dim
			}
			return re.NewStyle()
		})
	return t.Render()
}

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorGray  = lipgloss.Color("245")
	colorWhite = lipgloss.Color("255")
)

// styles are built per writer so piped output carries no escapes.
type styles struct {
	title lipgloss.Style
	key   lipgloss.Style
	value lipgloss.Style
	ok    lipgloss.Style
}

func newStyles(w io.Writer) styles {
	re := lipgloss.NewRenderer(w)
	return styles{
		title: re.NewStyle().Bold(true).Foreground(colorCyan),
		key:   re.NewStyle().Foreground(colorGray).Width(20),
		value: re.NewStyle().Foreground(colorWhite),
		ok:    re.NewStyle().Foreground(colorGreen),
	}
}

func (s styles) keyValue(w io.Writer, key string, value any) {
	fmt.Fprintln(w, s.key.Render(key)+" "+s.value.Render(fmt.Sprint(value)))
}

func (s styles) success(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, s.ok.Render("✓")+" "+fmt.Sprintf(format, args...))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

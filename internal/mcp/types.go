package mcp

import (
	"github.com/1broseidon/framefit/internal/ipc"
	"github.com/1broseidon/framefit/internal/scenario"
)

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// ListWindowsInput is the input for the list_windows tool.
type ListWindowsInput struct {
	Class string `json:"class,omitempty" jsonschema:"Only list windows whose WM_CLASS contains this text (case-insensitive)"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []ipc.WindowInfo `json:"windows"`
}

// PlaceWindowInput is the input for the place_window tool.
type PlaceWindowInput struct {
	WindowID uint32 `json:"window_id" jsonschema:"X11 window id as listed by list_windows"`
	X        int    `json:"x" jsonschema:"Requested x of the frame's outer corner"`
	Y        int    `json:"y" jsonschema:"Requested y of the frame's outer corner"`
	Mode     string `json:"mode,omitempty" jsonschema:"move (default, full pipeline), grid, pack, push or constrain"`
}

// SimulateInput is the input for the simulate tool.
type SimulateInput struct {
	Scenario string `json:"scenario" jsonschema:"Scenario document"`
	Format   string `json:"format,omitempty" jsonschema:"yaml (default) or toml"`
	Columns  int    `json:"columns,omitempty" jsonschema:"Width of the character map (default: 60)"`
}

// SimulateOutput is the output for the simulate tool.
type SimulateOutput struct {
	Steps   []scenario.Step   `json:"steps"`
	Commits []scenario.Commit `json:"commits"`
	Map     string            `json:"map"`
}

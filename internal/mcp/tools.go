package mcp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/framefit/internal/ipc"
	"github.com/1broseidon/framefit/internal/render"
	"github.com/1broseidon/framefit/internal/scenario"
)

const defaultMapColumns = 60

var errNoDaemon = errors.New("framefit daemon is not available; start it with 'framefit daemon'")

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, ipc.StatusData, error) {
	if s.daemon == nil {
		return nil, ipc.StatusData{}, errNoDaemon
	}
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, ipc.StatusData{}, err
	}
	return nil, *status, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ListWindowsInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	if s.daemon == nil {
		return nil, ListWindowsOutput{}, errNoDaemon
	}
	windows, err := s.daemon.ListWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}

	filter := strings.ToLower(strings.TrimSpace(args.Class))
	out := ListWindowsOutput{Windows: make([]ipc.WindowInfo, 0, len(windows))}
	for _, w := range windows {
		if filter != "" && !strings.Contains(strings.ToLower(w.Class), filter) {
			continue
		}
		out.Windows = append(out.Windows, w)
	}
	return nil, out, nil
}

func (s *Server) handlePlaceWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args PlaceWindowInput) (*mcpsdk.CallToolResult, ipc.PlaceData, error) {
	if s.daemon == nil {
		return nil, ipc.PlaceData{}, errNoDaemon
	}
	if args.WindowID == 0 {
		return nil, ipc.PlaceData{}, fmt.Errorf("window_id is required")
	}
	data, err := s.daemon.Place(ipc.PlacePayload{
		WindowID: args.WindowID,
		X:        args.X,
		Y:        args.Y,
		Mode:     args.Mode,
	})
	if err != nil {
		s.logger.Warn("place_window failed", "window", args.WindowID, "err", err)
		return nil, ipc.PlaceData{}, err
	}
	s.logger.Info("place_window", "window", args.WindowID, "x", data.X, "y", data.Y, "displaced", len(data.Displaced))
	return nil, *data, nil
}

func (s *Server) handleSimulate(_ context.Context, _ *mcpsdk.CallToolRequest, args SimulateInput) (*mcpsdk.CallToolResult, SimulateOutput, error) {
	format := scenario.Format(strings.ToLower(strings.TrimSpace(args.Format)))
	sc, err := scenario.Decode([]byte(args.Scenario), format)
	if err != nil {
		return nil, SimulateOutput{}, fmt.Errorf("invalid scenario: %w", err)
	}
	report, err := scenario.Run(sc, s.logger.WithPrefix("simulate"))
	if err != nil {
		return nil, SimulateOutput{}, err
	}

	cols := args.Columns
	if cols <= 0 {
		cols = defaultMapColumns
	}
	m := render.Map(render.FromReport(report), render.Options{
		Columns:  cols,
		Renderer: render.NewRenderer(&bytes.Buffer{}),
	})
	return nil, SimulateOutput{Steps: report.Steps, Commits: report.Commits, Map: m}, nil
}

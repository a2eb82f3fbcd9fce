// Package mcp exposes window placement as Model Context Protocol tools.
package mcp

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/framefit/internal/ipc"
)

const (
	ServerName    = "framefit"
	ServerVersion = "0.1.0"
)

// Daemon is the part of the daemon the tools talk to. *ipc.Client
// satisfies it.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	ListWindows() ([]ipc.WindowInfo, error)
	Place(p ipc.PlacePayload) (*ipc.PlaceData, error)
}

var _ Daemon = (*ipc.Client)(nil)

// Server is the MCP server for framefit.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *log.Logger
}

// NewServer creates a server whose live tools go to daemon. The simulate
// tool works without one.
func NewServer(daemon Daemon, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{
		daemon: daemon,
		logger: logger,
		mcpServer: mcpsdk.NewServer(&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		}, nil),
	}
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Connect serves a single session over t.
func (s *Server) Connect(ctx context.Context, t mcpsdk.Transport) (*mcpsdk.ServerSession, error) {
	return s.mcpServer.Connect(ctx, t, nil)
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the placement daemon's state: collision mode, grid, resistances, screen size and how many windows it tracks.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List the windows the daemon manages with their frames, gravity and container. Coordinates are relative to the window's container.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "place_window",
		Description: "Move a window to (x, y) in its container's coordinates. The position is snapped to the grid, packed against or pushing neighbours, and kept inside the container according to the daemon's config. Mode restricts the move to a single step: grid, pack, push or constrain.",
	}, s.handlePlaceWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "simulate",
		Description: "Replay moves against a scenario given inline as YAML or TOML (screen, placement, boxes, windows, moves) without touching any display. Returns each move's result, the commit log and a character map of the final arrangement.",
	}, s.handleSimulate)
}

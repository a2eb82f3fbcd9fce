package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload      CommandType = "RELOAD"
	CommandGetStatus   CommandType = "GET_STATUS"
	CommandListWindows CommandType = "LIST_WINDOWS"
	CommandPlace       CommandType = "PLACE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	WindowCount       int    `json:"window_count"`
	MappedCount       int    `json:"mapped_count"`
	Phase             string `json:"phase"`
	Collision         string `json:"collision"`
	Grid              bool   `json:"grid"`
	PackResistance    string `json:"pack_resistance"`
	MoveOffResistance string `json:"move_off_resistance"`
	ScreenWidth       int    `json:"screen_width"`
	ScreenHeight      int    `json:"screen_height"`
	UptimeSeconds     int64  `json:"uptime_seconds"`
	DaemonRunning     bool   `json:"daemon_running"`
}

// WindowInfo describes one registered window. Coordinates are relative to
// the window's container.
type WindowInfo struct {
	ID        uint32 `json:"id"`
	Class     string `json:"class,omitempty"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Border    int    `json:"border"`
	Gravity   string `json:"gravity"`
	Container string `json:"container"`
	Desktop   int    `json:"desktop"`
	Mapped    bool   `json:"mapped"`
}

// WindowsData represents the data returned by LIST_WINDOWS
type WindowsData struct {
	Windows []WindowInfo `json:"windows"`
}

// PlacePayload represents the payload for the PLACE command
type PlacePayload struct {
	WindowID uint32 `json:"window_id"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Mode     string `json:"mode,omitempty"` // move (default), push, pack, grid, constrain
}

// DisplacedInfo is a window moved aside by a PLACE.
type DisplacedInfo struct {
	WindowID  uint32 `json:"window_id"`
	Direction string `json:"direction"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
}

// PlaceData represents the data returned by PLACE
type PlaceData struct {
	WindowID  uint32          `json:"window_id"`
	FromX     int             `json:"from_x"`
	FromY     int             `json:"from_y"`
	X         int             `json:"x"`
	Y         int             `json:"y"`
	Displaced []DisplacedInfo `json:"displaced,omitempty"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

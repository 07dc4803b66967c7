package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandPosition     CommandType = "POSITION"
	CommandResize       CommandType = "RESIZE"
	CommandZoom         CommandType = "ZOOM"
	CommandNavigate     CommandType = "NAVIGATE"
	CommandListProfiles CommandType = "LIST_PROFILES"
	CommandGetStatus    CommandType = "GET_STATUS"
	CommandReload       CommandType = "RELOAD"
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

// PositionPayload carries optional overrides for the POSITION command.
// Nil fields use the daemon's configured settings.
type PositionPayload struct {
	Cols   *int `json:"cols,omitempty"`
	Rows   *int `json:"rows,omitempty"`
	HGap   *int `json:"h_gap,omitempty"`
	VGap   *int `json:"v_gap,omitempty"`
	Width  *int `json:"width,omitempty"`
	Height *int `json:"height,omitempty"`
}

// ResizePayload carries the target size for the RESIZE command.
// Zero values use the configured window size.
type ResizePayload struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ZoomPayload carries the zoom percentage for the ZOOM command.
// Zero uses the configured zoom level.
type ZoomPayload struct {
	Percent int `json:"percent"`
}

// NavigatePayload carries the URL and zoom options for NAVIGATE.
type NavigatePayload struct {
	URL         string `json:"url"`
	ZoomAfter   *bool  `json:"zoom_after,omitempty"`
	ZoomPercent int    `json:"zoom_percent,omitempty"`
}

// WindowResult is the per-window outcome within a batch report.
type WindowResult struct {
	WindowID uint32 `json:"window_id"`
	Title    string `json:"title"`
	Error    string `json:"error,omitempty"`
}

// ActionData is the batch report returned by the four action commands.
type ActionData struct {
	Count       int            `json:"count"`
	Failed      int            `json:"failed,omitempty"`
	Results     []WindowResult `json:"results,omitempty"`
	ZoomResults []WindowResult `json:"zoom_results,omitempty"`
}

// ProfileInfo describes one managed window.
type ProfileInfo struct {
	WindowID   uint32 `json:"window_id"`
	Title      string `json:"title"`
	StartTicks int64  `json:"start_ticks"`
}

// ProfilesData is returned by LIST_PROFILES.
type ProfilesData struct {
	Profiles []ProfileInfo `json:"profiles"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning bool   `json:"daemon_running"`
	ProfileCount  int    `json:"profile_count"`
	Hotkey        string `json:"hotkey"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
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

package mcp

import (
	"context"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/profilegrid/profilegrid/internal/automation"
	"github.com/profilegrid/profilegrid/internal/config"
	"github.com/profilegrid/profilegrid/internal/platform"
)

const (
	ServerName    = "profilegrid"
	ServerVersion = "0.1.0"
)

// Server is the MCP server exposing window automation as tools. It owns
// its own X connection and dispatcher, independent of the daemon, so an
// MCP client can drive automation without the daemon running.
type Server struct {
	mcpServer  *mcpsdk.Server
	backend    *platform.LinuxBackend
	dispatcher *automation.Dispatcher
}

// NewServer connects to the display and builds the MCP server.
func NewServer(cfg *config.Settings) (*Server, error) {
	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to display: %w", err)
	}

	s := &Server{
		backend:    backend,
		dispatcher: automation.New(backend, cfg),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// Close releases the X connection.
func (s *Server) Close() error {
	if s == nil || s.backend == nil {
		return nil
	}
	s.backend.Disconnect()
	return nil
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "position_windows",
		Description: "Arrange all browser profile windows in a grid on the primary monitor. Windows are ordered by process creation time, restored from any minimized state, and placed row by row. Grid dimensions are computed from the work area unless cols/rows are given.",
	}, s.handlePositionWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_windows",
		Description: "Resize every profile window to the given dimensions without moving it.",
	}, s.handleResizeWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "apply_zoom",
		Description: "Set the browser zoom level in every profile window by focusing each one and sending Ctrl+0 followed by the required number of Ctrl+minus presses. The percentage is snapped to the nearest browser zoom stop.",
	}, s.handleApplyZoom)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "open_url",
		Description: "Open a URL in a new tab in every profile window by typing it into the address bar. Optionally applies zoom after the pages have had time to load.",
	}, s.handleOpenURL)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_profiles",
		Description: "List the currently detected browser profile windows in processing order (oldest process first).",
	}, s.handleListProfiles)
}

func outcomes(results []automation.Result) []WindowOutcome {
	out := make([]WindowOutcome, 0, len(results))
	for _, r := range results {
		o := WindowOutcome{WindowID: uint32(r.Window), Title: r.Title}
		if r.Err != nil {
			o.Error = r.Err.Error()
		}
		out = append(out, o)
	}
	return out
}

func optional(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func (s *Server) handlePositionWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args PositionWindowsInput) (*mcpsdk.CallToolResult, PositionWindowsOutput, error) {
	report, err := s.dispatcher.Position(automation.PositionOverrides{
		Columns: optional(args.Cols),
		Rows:    optional(args.Rows),
		HGap:    optional(args.HGap),
		VGap:    optional(args.VGap),
		Width:   optional(args.WindowWidth),
		Height:  optional(args.WindowHeight),
	})
	if err != nil {
		return nil, PositionWindowsOutput{}, err
	}
	return nil, PositionWindowsOutput{
		Count:   report.Processed(),
		Failed:  report.Failed(),
		Windows: outcomes(report.Results),
	}, nil
}

func (s *Server) handleResizeWindows(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowsInput) (*mcpsdk.CallToolResult, ResizeWindowsOutput, error) {
	report, err := s.dispatcher.Resize(args.Width, args.Height)
	if err != nil {
		return nil, ResizeWindowsOutput{}, err
	}
	return nil, ResizeWindowsOutput{
		Count:   report.Processed(),
		Failed:  report.Failed(),
		Windows: outcomes(report.Results),
	}, nil
}

func (s *Server) handleApplyZoom(_ context.Context, _ *mcpsdk.CallToolRequest, args ApplyZoomInput) (*mcpsdk.CallToolResult, ApplyZoomOutput, error) {
	report, err := s.dispatcher.Zoom(args.Percent)
	if err != nil {
		return nil, ApplyZoomOutput{}, err
	}
	return nil, ApplyZoomOutput{
		Count:   report.Processed(),
		Failed:  report.Failed(),
		Windows: outcomes(report.Results),
	}, nil
}

func (s *Server) handleOpenURL(_ context.Context, _ *mcpsdk.CallToolRequest, args OpenURLInput) (*mcpsdk.CallToolResult, OpenURLOutput, error) {
	url, err := automation.NormalizeURL(args.URL)
	if err != nil {
		return nil, OpenURLOutput{}, err
	}
	report, err := s.dispatcher.Navigate(url, args.Zoom, args.ZoomPercent)
	if err != nil {
		return nil, OpenURLOutput{}, err
	}
	return nil, OpenURLOutput{
		URL:         url,
		Count:       report.Processed(),
		Failed:      report.Failed(),
		Windows:     outcomes(report.Results),
		ZoomWindows: outcomes(report.ZoomResults),
	}, nil
}

func (s *Server) handleListProfiles(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListProfilesInput) (*mcpsdk.CallToolResult, ListProfilesOutput, error) {
	records := s.dispatcher.Profiles()
	profiles := make([]ProfileEntry, 0, len(records))
	for _, rec := range records {
		profiles = append(profiles, ProfileEntry{
			WindowID:   uint32(rec.ID),
			Title:      rec.Title,
			StartTicks: rec.StartTicks,
		})
	}
	return nil, ListProfilesOutput{Count: len(profiles), Profiles: profiles}, nil
}

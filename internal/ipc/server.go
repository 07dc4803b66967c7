package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/profilegrid/profilegrid/internal/automation"
	"github.com/profilegrid/profilegrid/internal/config"
	"github.com/profilegrid/profilegrid/internal/runtimepath"
)

// Server handles IPC requests from clients. Each connection is served on
// its own goroutine, so the blocking automation batches never stall the
// X event loop.
type Server struct {
	socketPath   string
	listener     net.Listener
	cfg          *config.Settings
	cfgMu        sync.RWMutex
	dispatcher   *automation.Dispatcher
	startTime    time.Time
	reloadChan   chan struct{}
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server
func NewServer(cfg *config.Settings, dispatcher *automation.Dispatcher, reloadChan chan struct{}) (*Server, error) {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}

	// Remove existing socket if present
	os.Remove(socketPath)

	return &Server{
		socketPath: socketPath,
		cfg:        cfg,
		dispatcher: dispatcher,
		startTime:  time.Now(),
		reloadChan: reloadChan,
	}, nil
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	// Set socket permissions
	if err := os.Chmod(s.socketPath, 0600); err != nil {
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

// Stop shuts the server down and removes the socket.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}

// UpdateConfig swaps the settings snapshot after a reload.
func (s *Server) UpdateConfig(cfg *config.Settings) {
	s.cfgMu.Lock()
	s.cfg = cfg
	s.cfgMu.Unlock()
}

func (s *Server) settings() *config.Settings {
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg
}

// acceptLoop accepts incoming connections
func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection handles a single IPC connection
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	// Read the request (expect JSON on a single line)
	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	// Parse request
	req, err := ParseRequest(data)
	if err != nil {
		s.sendError(conn, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Handle command
	resp := s.handleCommand(req)

	// Send response
	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// handleCommand processes an IPC command and returns a response
func (s *Server) handleCommand(req *Request) *Response {
	switch req.Command {
	case CommandPosition:
		return s.handlePosition(req.Payload)
	case CommandResize:
		return s.handleResize(req.Payload)
	case CommandZoom:
		return s.handleZoom(req.Payload)
	case CommandNavigate:
		return s.handleNavigate(req.Payload)
	case CommandListProfiles:
		return s.handleListProfiles()
	case CommandGetStatus:
		return s.handleGetStatus()
	case CommandReload:
		return s.handleReload()
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func actionData(report *automation.Report) *ActionData {
	data := &ActionData{
		Count:  report.Processed(),
		Failed: report.Failed(),
	}
	for _, res := range report.Results {
		wr := WindowResult{WindowID: uint32(res.Window), Title: res.Title}
		if res.Err != nil {
			wr.Error = res.Err.Error()
		}
		data.Results = append(data.Results, wr)
	}
	for _, res := range report.ZoomResults {
		wr := WindowResult{WindowID: uint32(res.Window), Title: res.Title}
		if res.Err != nil {
			wr.Error = res.Err.Error()
		}
		data.ZoomResults = append(data.ZoomResults, wr)
	}
	return data
}

func respond(report *automation.Report, err error) *Response {
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, err := NewOKResponse(actionData(report))
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handlePosition(payload json.RawMessage) *Response {
	var p PositionPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid position payload: %v", err))
		}
	}

	log.Println("=== Positioning profile windows ===")
	report, err := s.dispatcher.Position(automation.PositionOverrides{
		Columns: p.Cols,
		Rows:    p.Rows,
		HGap:    p.HGap,
		VGap:    p.VGap,
		Width:   p.Width,
		Height:  p.Height,
	})
	return respond(report, err)
}

func (s *Server) handleResize(payload json.RawMessage) *Response {
	var p ResizePayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid resize payload: %v", err))
		}
	}

	log.Printf("=== Resizing profile windows to %dx%d ===", p.Width, p.Height)
	report, err := s.dispatcher.Resize(p.Width, p.Height)
	return respond(report, err)
}

func (s *Server) handleZoom(payload json.RawMessage) *Response {
	var p ZoomPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			return NewErrorResponse(fmt.Sprintf("Invalid zoom payload: %v", err))
		}
	}

	log.Printf("=== Applying %d%% zoom to profile windows ===", p.Percent)
	report, err := s.dispatcher.Zoom(p.Percent)
	return respond(report, err)
}

func (s *Server) handleNavigate(payload json.RawMessage) *Response {
	var p NavigatePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid navigate payload: %v", err))
	}

	log.Printf("=== Opening URL in profile windows ===")
	report, err := s.dispatcher.Navigate(p.URL, p.ZoomAfter, p.ZoomPercent)
	return respond(report, err)
}

func (s *Server) handleListProfiles() *Response {
	records := s.dispatcher.Profiles()
	data := &ProfilesData{Profiles: []ProfileInfo{}}
	for _, rec := range records {
		data.Profiles = append(data.Profiles, ProfileInfo{
			WindowID:   uint32(rec.ID),
			Title:      rec.Title,
			StartTicks: rec.StartTicks,
		})
	}

	resp, err := NewOKResponse(data)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleGetStatus() *Response {
	cfg := s.settings()
	status := &StatusData{
		DaemonRunning: true,
		ProfileCount:  len(s.dispatcher.Profiles()),
		Hotkey:        cfg.Hotkey,
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
	}

	resp, err := NewOKResponse(status)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleReload() *Response {
	select {
	case s.reloadChan <- struct{}{}:
	default:
		// A reload is already pending.
	}

	resp, err := NewOKResponse(nil)
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) sendError(conn net.Conn, msg string) {
	resp := NewErrorResponse(msg)
	data, err := resp.Marshal()
	if err != nil {
		return
	}
	data = append(data, '\n')
	conn.Write(data)
}

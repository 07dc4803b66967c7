package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/profilegrid/profilegrid/internal/runtimepath"
)

// actionTimeout bounds one batched action end to end. Batches are long:
// sequences of fixed settle delays over every managed window.
const actionTimeout = 5 * time.Minute

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    actionTimeout,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) action(command CommandType, payload interface{}) (*ActionData, error) {
	req := &Request{Command: command}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var result ActionData
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse action data: %w", err)
	}
	return &result, nil
}

// Position asks the daemon to arrange all profile windows in a grid.
func (c *Client) Position(payload PositionPayload) (*ActionData, error) {
	return c.action(CommandPosition, payload)
}

// Resize asks the daemon to resize all profile windows in place.
func (c *Client) Resize(width, height int) (*ActionData, error) {
	return c.action(CommandResize, ResizePayload{Width: width, Height: height})
}

// Zoom asks the daemon to drive all profile windows to a zoom level.
func (c *Client) Zoom(percent int) (*ActionData, error) {
	return c.action(CommandZoom, ZoomPayload{Percent: percent})
}

// Navigate asks the daemon to open a URL in all profile windows.
func (c *Client) Navigate(url string, zoomAfter *bool, zoomPercent int) (*ActionData, error) {
	return c.action(CommandNavigate, NavigatePayload{
		URL:         url,
		ZoomAfter:   zoomAfter,
		ZoomPercent: zoomPercent,
	})
}

// ListProfiles retrieves the current ordered set of managed windows.
func (c *Client) ListProfiles() (*ProfilesData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandListProfiles})
	if err != nil {
		return nil, err
	}

	var profiles ProfilesData
	if err := json.Unmarshal(resp.Data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to parse profiles data: %w", err)
	}
	return &profiles, nil
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	resp, err := c.sendRequest(&Request{Command: CommandGetStatus})
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}
	return &status, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	_, err := c.sendRequest(&Request{Command: CommandReload})
	return err
}

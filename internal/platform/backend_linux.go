//go:build linux

package platform

import (
	"fmt"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/profilegrid/profilegrid/internal/x11"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// ListWindows enumerates all top-level windows from the EWMH client list.
// A failed enumeration yields an empty slice; callers treat "no windows"
// and "enumeration failed" identically.
func (b *LinuxBackend) ListWindows() []WindowID {
	if b == nil || b.conn == nil {
		return nil
	}
	clients, err := b.conn.ListClientWindows()
	if err != nil {
		return nil
	}
	ids := make([]WindowID, 0, len(clients))
	for _, win := range clients {
		ids = append(ids, WindowID(win))
	}
	return ids
}

func (b *LinuxBackend) WindowTitle(id WindowID) string {
	return b.conn.WindowTitle(xproto.Window(id))
}

func (b *LinuxBackend) WindowClass(id WindowID) string {
	return b.conn.WindowClass(xproto.Window(id))
}

func (b *LinuxBackend) WindowPID(id WindowID) (int, bool) {
	return b.conn.WindowPID(xproto.Window(id))
}

func (b *LinuxBackend) WindowRect(id WindowID) (Rect, bool) {
	x, y, w, h, ok := b.conn.WindowRect(xproto.Window(id))
	if !ok {
		return Rect{}, false
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, true
}

func (b *LinuxBackend) IsViewable(id WindowID) bool {
	return b.conn.IsViewable(xproto.Window(id))
}

// PrimaryWorkArea returns the strut-adjusted usable area of the primary monitor.
func (b *LinuxBackend) PrimaryWorkArea() (Rect, error) {
	if b == nil || b.conn == nil {
		return Rect{}, fmt.Errorf("x11 backend connection is nil")
	}
	mon, err := b.conn.GetPrimaryWorkArea()
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: mon.X, Y: mon.Y, Width: mon.Width, Height: mon.Height}, nil
}

// Restore brings a window out of minimized/maximized state.
func (b *LinuxBackend) Restore(id WindowID) error {
	return b.conn.RestoreWindow(xproto.Window(id))
}

// MoveResize moves and resizes a window in one request without changing
// stacking order.
func (b *LinuxBackend) MoveResize(id WindowID, bounds Rect) error {
	return b.conn.MoveResizeWindow(
		xproto.Window(id),
		bounds.X,
		bounds.Y,
		bounds.Width,
		bounds.Height,
	)
}

// Activate focuses and raises a window via _NET_ACTIVE_WINDOW.
func (b *LinuxBackend) Activate(id WindowID) error {
	return b.conn.FocusWindow(xproto.Window(id))
}

// KeyChord sends a synthesized key combination to the focused window.
func (b *LinuxBackend) KeyChord(modifiers []string, key string) error {
	return b.conn.KeyChord(modifiers, key)
}

// TypeText types text into the focused window via XTEST.
func (b *LinuxBackend) TypeText(text string, perKeyDelay time.Duration) error {
	return b.conn.TypeText(text, perKeyDelay)
}

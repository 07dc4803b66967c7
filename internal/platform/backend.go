package platform

import "time"

// WindowID is a platform-neutral window identifier. It is only valid while
// the underlying window exists; every operation taking a WindowID must
// tolerate the handle having gone stale since discovery.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Backend abstracts window-system operations across platforms.
//
// Metadata reads degrade rather than fail: a missing or unreadable property
// comes back as its zero value so that one stale window never aborts a
// whole batch.
type Backend interface {
	// ListWindows enumerates every top-level window, visible or not, with
	// no filtering. Returns an empty slice when enumeration fails.
	ListWindows() []WindowID

	WindowTitle(id WindowID) string
	WindowClass(id WindowID) string
	WindowPID(id WindowID) (int, bool)
	WindowRect(id WindowID) (Rect, bool)
	IsViewable(id WindowID) bool

	// PrimaryWorkArea returns the usable area of the primary monitor only,
	// excluding docks/panels and all secondary monitors.
	PrimaryWorkArea() (Rect, error)

	Restore(id WindowID) error
	MoveResize(id WindowID, bounds Rect) error
	Activate(id WindowID) error

	// KeyChord sends one synthesized key combination to the focused window.
	// Modifiers are keysym names ("Control_L", "Shift_L").
	KeyChord(modifiers []string, key string) error
	// TypeText types a string as individual synthesized keystrokes.
	TypeText(text string, perKeyDelay time.Duration) error
}

package automation

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/profilegrid/profilegrid/internal/config"
	"github.com/profilegrid/profilegrid/internal/platform"
)

type fakeWindow struct {
	title   string
	class   string
	rect    platform.Rect
	visible bool
}

// recordingBackend implements platform.Backend and records every mutating
// call as a readable string, so tests can assert on exact sequences.
type recordingBackend struct {
	windows map[platform.WindowID]*fakeWindow
	order   []platform.WindowID
	calls   []string

	failRestore  map[platform.WindowID]bool
	failActivate map[platform.WindowID]bool
	areaErr      error
	area         platform.Rect
}

func newRecordingBackend() *recordingBackend {
	return &recordingBackend{
		windows:      make(map[platform.WindowID]*fakeWindow),
		failRestore:  make(map[platform.WindowID]bool),
		failActivate: make(map[platform.WindowID]bool),
		area:         platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1040},
	}
}

func (b *recordingBackend) addWindow(id platform.WindowID, title string, rect platform.Rect) {
	b.windows[id] = &fakeWindow{title: title, class: "Chrome_WidgetWin_1", rect: rect, visible: true}
	b.order = append(b.order, id)
}

func (b *recordingBackend) record(format string, args ...interface{}) {
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
}

func (b *recordingBackend) ListWindows() []platform.WindowID { return b.order }
func (b *recordingBackend) WindowTitle(id platform.WindowID) string {
	return b.windows[id].title
}
func (b *recordingBackend) WindowClass(id platform.WindowID) string {
	return b.windows[id].class
}
func (b *recordingBackend) WindowPID(id platform.WindowID) (int, bool) {
	// No PID property; start times stay 0 and ordering falls back to
	// window IDs.
	return 0, false
}
func (b *recordingBackend) WindowRect(id platform.WindowID) (platform.Rect, bool) {
	w, ok := b.windows[id]
	if !ok {
		return platform.Rect{}, false
	}
	return w.rect, true
}
func (b *recordingBackend) IsViewable(id platform.WindowID) bool {
	return b.windows[id].visible
}
func (b *recordingBackend) PrimaryWorkArea() (platform.Rect, error) {
	if b.areaErr != nil {
		return platform.Rect{}, b.areaErr
	}
	return b.area, nil
}
func (b *recordingBackend) Restore(id platform.WindowID) error {
	if b.failRestore[id] {
		return fmt.Errorf("restore refused")
	}
	b.record("restore %d", id)
	return nil
}
func (b *recordingBackend) MoveResize(id platform.WindowID, r platform.Rect) error {
	b.record("moveresize %d %d,%d %dx%d", id, r.X, r.Y, r.Width, r.Height)
	b.windows[id].rect = r
	return nil
}
func (b *recordingBackend) Activate(id platform.WindowID) error {
	if b.failActivate[id] {
		return fmt.Errorf("activate refused")
	}
	b.record("activate %d", id)
	return nil
}
func (b *recordingBackend) KeyChord(modifiers []string, key string) error {
	b.record("key %s+%s", strings.Join(modifiers, "+"), key)
	return nil
}
func (b *recordingBackend) TypeText(text string, perKeyDelay time.Duration) error {
	b.record("type %s", text)
	return nil
}

// zeroDelaySettings returns defaults with every settle delay zeroed so
// batch tests run instantly.
func zeroDelaySettings() *config.Settings {
	cfg := config.DefaultSettings()
	cfg.Delays = config.Delays{}
	return cfg
}

func TestPosition_PlacesWindowsInSetOrder(t *testing.T) {
	backend := newRecordingBackend()
	backend.addWindow(3, "US3 - New Tab", platform.Rect{})
	backend.addWindow(1, "US1 - New Tab", platform.Rect{})
	backend.addWindow(2, "US2 - New Tab", platform.Rect{})

	d := New(backend, zeroDelaySettings())
	report, err := d.Position(PositionOverrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Processed() != 3 || report.Failed() != 0 {
		t.Fatalf("expected 3 processed, 0 failed; got %d/%d", report.Processed(), report.Failed())
	}

	want := []string{
		"restore 1",
		"moveresize 1 0,0 550x600",
		"restore 2",
		"moveresize 2 560,0 550x600",
		"restore 3",
		"moveresize 3 1120,0 550x600",
	}
	if len(backend.calls) != len(want) {
		t.Fatalf("expected %d calls, got %v", len(want), backend.calls)
	}
	for i, call := range want {
		if backend.calls[i] != call {
			t.Errorf("call %d: expected %q, got %q", i, call, backend.calls[i])
		}
	}
}

func TestPosition_EmptySetTouchesNothing(t *testing.T) {
	backend := newRecordingBackend()
	backend.addWindow(1, "Unrelated Window", platform.Rect{})

	d := New(backend, zeroDelaySettings())
	report, err := d.Position(PositionOverrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Processed() != 0 || len(report.Results) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
	if len(backend.calls) != 0 {
		t.Fatalf("expected no backend calls, got %v", backend.calls)
	}
}

func TestPosition_InvalidOverridesRejectedBeforeAnyWindow(t *testing.T) {
	backend := newRecordingBackend()
	backend.addWindow(1, "US1 - New Tab", platform.Rect{})

	bad := -1
	d := New(backend, zeroDelaySettings())
	if _, err := d.Position(PositionOverrides{Width: &bad}); err == nil {
		t.Fatalf("expected validation error")
	}
	if len(backend.calls) != 0 {
		t.Fatalf("expected no backend calls after validation failure, got %v", backend.calls)
	}
}

func TestPosition_FailedWindowSkippedBatchContinues(t *testing.T) {
	backend := newRecordingBackend()
	backend.addWindow(1, "US1 - New Tab", platform.Rect{})
	backend.addWindow(2, "US2 - New Tab", platform.Rect{})
	backend.failRestore[1] = true

	d := New(backend, zeroDelaySettings())
	report, err := d.Position(PositionOverrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Processed() != 1 || report.Failed() != 1 {
		t.Fatalf("expected 1 processed, 1 failed; got %d/%d", report.Processed(), report.Failed())
	}
	if report.Results[0].Err == nil {
		t.Fatalf("expected error recorded for window 1")
	}
	// No move for the failed window; the survivor keeps its own cell.
	for _, call := range backend.calls {
		if call == "moveresize 1 0,0 550x600" {
			t.Fatalf("failed window must not be moved: %v", backend.calls)
		}
	}
	if backend.calls[len(backend.calls)-1] != "moveresize 2 560,0 550x600" {
		t.Fatalf("expected window 2 in its grid cell, got %v", backend.calls)
	}
}

func TestResize_KeepsPosition(t *testing.T) {
	backend := newRecordingBackend()
	backend.addWindow(1, "US1 - New Tab", platform.Rect{X: 100, Y: 200, Width: 550, Height: 600})

	d := New(backend, zeroDelaySettings())
	report, err := d.Resize(800, 900)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Processed() != 1 {
		t.Fatalf("expected 1 processed, got %d", report.Processed())
	}
	want := "moveresize 1 100,200 800x900"
	if backend.calls[len(backend.calls)-1] != want {
		t.Fatalf("expected %q, got %v", want, backend.calls)
	}
}

func TestResize_ZeroFallsBackToConfigured(t *testing.T) {
	backend := newRecordingBackend()
	backend.addWindow(1, "US1 - New Tab", platform.Rect{X: 5, Y: 7, Width: 100, Height: 100})

	d := New(backend, zeroDelaySettings())
	if _, err := d.Resize(0, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "moveresize 1 5,7 550x600"
	if backend.calls[len(backend.calls)-1] != want {
		t.Fatalf("expected %q, got %v", want, backend.calls)
	}
}

func TestResize_NegativeRejected(t *testing.T) {
	d := New(newRecordingBackend(), zeroDelaySettings())
	if _, err := d.Resize(-10, 600); err == nil {
		t.Fatalf("expected error for negative width")
	}
}

func TestZoom_SendsResetThenSteps(t *testing.T) {
	backend := newRecordingBackend()
	backend.addWindow(1, "US1 - New Tab", platform.Rect{})

	d := New(backend, zeroDelaySettings())
	report, err := d.Zoom(67)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Processed() != 1 {
		t.Fatalf("expected 1 processed, got %d", report.Processed())
	}

	want := []string{
		"restore 1",
		"activate 1",
		"key Control_L+0",
		"key Control_L+minus",
		"key Control_L+minus",
		"key Control_L+minus",
		"key Control_L+minus",
	}
	if len(backend.calls) != len(want) {
		t.Fatalf("expected %d calls, got %v", len(want), backend.calls)
	}
	for i, call := range want {
		if backend.calls[i] != call {
			t.Errorf("call %d: expected %q, got %q", i, call, backend.calls[i])
		}
	}
}

func TestZoom_OutOfRangeRejected(t *testing.T) {
	d := New(newRecordingBackend(), zeroDelaySettings())
	for _, percent := range []int{-5, 101} {
		if _, err := d.Zoom(percent); err == nil {
			t.Errorf("expected error for %d%%", percent)
		}
	}
}

func TestZoom_ZeroUsesConfiguredLevel(t *testing.T) {
	backend := newRecordingBackend()
	backend.addWindow(1, "US1 - New Tab", platform.Rect{})

	cfg := zeroDelaySettings()
	cfg.ZoomLevel = 100
	d := New(backend, cfg)
	if _, err := d.Zoom(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 100% needs zero zoom-out steps: reset only.
	want := []string{"restore 1", "activate 1", "key Control_L+0"}
	if len(backend.calls) != len(want) {
		t.Fatalf("expected reset only, got %v", backend.calls)
	}
}

func TestNavigate_KeySequencePerWindow(t *testing.T) {
	backend := newRecordingBackend()
	backend.addWindow(1, "US1 - New Tab", platform.Rect{})

	cfg := zeroDelaySettings()
	cfg.AutoZoomAfterNavigate = false
	d := New(backend, cfg)
	report, err := d.Navigate("example.com", nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Processed() != 1 || len(report.ZoomResults) != 0 {
		t.Fatalf("expected 1 processed and no zoom pass, got %+v", report)
	}

	want := []string{
		"restore 1",
		"activate 1",
		"key Control_L+t",
		"type https://example.com",
		"key +Return",
	}
	if len(backend.calls) != len(want) {
		t.Fatalf("expected %d calls, got %v", len(want), backend.calls)
	}
	for i, call := range want {
		if backend.calls[i] != call {
			t.Errorf("call %d: expected %q, got %q", i, call, backend.calls[i])
		}
	}
}

func TestNavigate_ZoomAfterRunsSecondPass(t *testing.T) {
	backend := newRecordingBackend()
	backend.addWindow(1, "US1 - New Tab", platform.Rect{})

	zoom := true
	d := New(backend, zeroDelaySettings())
	report, err := d.Navigate("https://example.com", &zoom, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(report.ZoomResults) != 1 {
		t.Fatalf("expected zoom results for 1 window, got %d", len(report.ZoomResults))
	}
	last := backend.calls[len(backend.calls)-1]
	if last != "key Control_L+0" {
		t.Fatalf("expected zoom reset at the end, got %v", backend.calls)
	}
}

func TestNavigate_ActivateFailureAbandonsWindowSequence(t *testing.T) {
	backend := newRecordingBackend()
	backend.addWindow(1, "US1 - New Tab", platform.Rect{})
	backend.addWindow(2, "US2 - New Tab", platform.Rect{})
	backend.failActivate[1] = true

	cfg := zeroDelaySettings()
	cfg.AutoZoomAfterNavigate = false
	d := New(backend, cfg)
	report, err := d.Navigate("example.com", nil, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Processed() != 1 || report.Failed() != 1 {
		t.Fatalf("expected 1 processed, 1 failed; got %d/%d", report.Processed(), report.Failed())
	}
	// Window 1 got restore then nothing; no keys leaked into it.
	for _, call := range backend.calls {
		if call == "key Control_L+t" {
			break
		}
		if strings.HasPrefix(call, "key") || strings.HasPrefix(call, "type") {
			t.Fatalf("keystrokes before first successful activate: %v", backend.calls)
		}
	}
}

func TestNavigate_EmptyURLRejected(t *testing.T) {
	d := New(newRecordingBackend(), zeroDelaySettings())
	if _, err := d.Navigate("   ", nil, 0); err == nil {
		t.Fatalf("expected error for blank URL")
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"example.com", "https://example.com"},
		{"  example.com/path  ", "https://example.com/path"},
		{"http://plain.example", "http://plain.example"},
		{"https://secure.example", "https://secure.example"},
	}
	for _, tc := range cases {
		got, err := NormalizeURL(tc.in)
		if err != nil {
			t.Errorf("NormalizeURL(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeURL(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
	if _, err := NormalizeURL(""); err == nil {
		t.Errorf("expected error for empty URL")
	}
}

func TestSetConfig_PicksUpNewClassifier(t *testing.T) {
	backend := newRecordingBackend()
	backend.addWindow(1, "proxyfox session", platform.Rect{})

	d := New(backend, zeroDelaySettings())
	if got := len(d.Profiles()); got != 0 {
		t.Fatalf("expected no profiles under default keywords, got %d", got)
	}

	cfg := zeroDelaySettings()
	cfg.IncludeKeywords = []string{"proxyfox"}
	d.SetConfig(cfg)
	if got := len(d.Profiles()); got != 1 {
		t.Fatalf("expected 1 profile after reload, got %d", got)
	}
}

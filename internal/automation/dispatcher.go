// Package automation drives the managed browser-profile windows through
// batched open-loop operations: grid positioning, resizing, zoom control
// and URL navigation. The controlled processes expose no protocol or
// acknowledgment channel, so correctness here means dispatching the right
// command sequence to the right windows in the right order, with fixed
// settle delays as the only timing control.
package automation

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/profilegrid/profilegrid/internal/config"
	"github.com/profilegrid/profilegrid/internal/grid"
	"github.com/profilegrid/profilegrid/internal/platform"
	"github.com/profilegrid/profilegrid/internal/profile"
)

// controlMod is the modifier held for every browser key combination.
var controlMod = []string{"Control_L"}

// Result records the outcome for one window within a batch. A nil Err
// means the full per-window sequence completed; otherwise the sequence was
// abandoned at the failing step and the batch moved on.
type Result struct {
	Window platform.WindowID
	Title  string
	Err    error
}

// Report is the outcome of one batched action.
type Report struct {
	Results []Result
	// ZoomResults carries the follow-up zoom pass after navigation, when
	// requested.
	ZoomResults []Result
}

// Processed returns how many windows completed their sequence.
func (r *Report) Processed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns how many windows were skipped with an error.
func (r *Report) Failed() int {
	return len(r.Results) - r.Processed()
}

// delayset is the runtime form of the configured millisecond delays.
type delayset struct {
	preMove        time.Duration
	preResize      time.Duration
	focusSettle    time.Duration
	keyInterval    time.Duration
	newTabSettle   time.Duration
	typeKey        time.Duration
	typeSettle     time.Duration
	navigateSettle time.Duration
	pageLoadSettle time.Duration
}

func delaysFrom(d config.Delays) delayset {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	return delayset{
		preMove:        ms(d.PreMoveMs),
		preResize:      ms(d.PreResizeMs),
		focusSettle:    ms(d.FocusSettleMs),
		keyInterval:    ms(d.KeyIntervalMs),
		newTabSettle:   ms(d.NewTabSettleMs),
		typeKey:        ms(d.TypeKeyMs),
		typeSettle:     ms(d.TypeSettleMs),
		navigateSettle: ms(d.NavigateSettleMs),
		pageLoadSettle: ms(d.PageLoadSettleMs),
	}
}

// PositionOverrides optionally replace individual grid settings for one
// positioning call. Nil fields fall back to the configured values.
type PositionOverrides struct {
	Columns *int
	Rows    *int
	HGap    *int
	VGap    *int
	Width   *int
	Height  *int
}

// Dispatcher owns the window automation. It holds no mutable state across
// actions beyond the settings snapshot; each action captures a fresh
// profile set and runs over it to completion.
type Dispatcher struct {
	mu      sync.RWMutex
	backend platform.Backend
	cfg     *config.Settings
}

// New creates a dispatcher over the given backend and settings.
func New(backend platform.Backend, cfg *config.Settings) *Dispatcher {
	return &Dispatcher{backend: backend, cfg: cfg}
}

// SetConfig swaps the settings snapshot (config reload).
func (d *Dispatcher) SetConfig(cfg *config.Settings) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cfg = cfg
}

func (d *Dispatcher) snapshot() *config.Settings {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cfg
}

// builder assembles a profile-set builder from the current settings.
func (d *Dispatcher) builder(cfg *config.Settings) *profile.Builder {
	classifier := profile.NewClassifier(profile.Options{
		IncludeKeywords: cfg.IncludeKeywords,
		ExcludeKeywords: cfg.ExcludeKeywords,
		TitlePattern:    cfg.CompiledTitlePattern(),
		ClassSubstring:  cfg.ClassSubstring,
	})
	return profile.NewBuilder(d.backend, classifier)
}

// Profiles returns the current ordered set of managed windows.
func (d *Dispatcher) Profiles() []profile.Record {
	cfg := d.snapshot()
	return d.builder(cfg).BuildSet()
}

func orDefault(override *int, fallback int) int {
	if override != nil {
		return *override
	}
	return fallback
}

// Position arranges all managed windows in a grid on the primary work
// area. Each window is restored from any minimized state, then moved and
// resized in one request without changing stacking order.
func (d *Dispatcher) Position(ov PositionOverrides) (*Report, error) {
	cfg := d.snapshot()
	gridCfg := grid.Config{
		Columns:    orDefault(ov.Columns, cfg.GridCols),
		Rows:       orDefault(ov.Rows, cfg.GridRows),
		HGap:       orDefault(ov.HGap, cfg.HGap),
		VGap:       orDefault(ov.VGap, cfg.VGap),
		CellWidth:  orDefault(ov.Width, cfg.WindowWidth),
		CellHeight: orDefault(ov.Height, cfg.WindowHeight),
	}
	if err := gridCfg.Validate(); err != nil {
		return nil, err
	}

	report := &Report{}
	set := d.builder(cfg).BuildSet()
	if len(set) == 0 {
		return report, nil
	}

	area, err := d.backend.PrimaryWorkArea()
	if err != nil {
		return nil, fmt.Errorf("failed to determine primary work area: %w", err)
	}

	cells, err := grid.PlanGrid(len(set), area, gridCfg)
	if err != nil {
		return nil, err
	}

	delays := delaysFrom(cfg.Delays)
	for i, rec := range set {
		cell := cells[i]
		// Give the WM time to finish any in-flight state change before
		// issuing the next one.
		sleep(delays.preMove)

		err := func() error {
			if err := d.backend.Restore(rec.ID); err != nil {
				return fmt.Errorf("restore: %w", err)
			}
			bounds := platform.Rect{X: cell.X, Y: cell.Y, Width: cell.Width, Height: cell.Height}
			if err := d.backend.MoveResize(rec.ID, bounds); err != nil {
				return fmt.Errorf("move: %w", err)
			}
			return nil
		}()
		if err != nil {
			log.Printf("Positioning %q failed: %v", rec.Title, err)
		}
		report.Results = append(report.Results, Result{Window: rec.ID, Title: rec.Title, Err: err})
	}

	return report, nil
}

// Resize sets every managed window to the given size while keeping its
// current top-left position. Zero width/height fall back to the configured
// window size.
func (d *Dispatcher) Resize(width, height int) (*Report, error) {
	cfg := d.snapshot()
	if width == 0 {
		width = cfg.WindowWidth
	}
	if height == 0 {
		height = cfg.WindowHeight
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("window size must be positive: %dx%d", width, height)
	}

	report := &Report{}
	set := d.builder(cfg).BuildSet()
	if len(set) == 0 {
		return report, nil
	}

	delays := delaysFrom(cfg.Delays)
	for _, rec := range set {
		sleep(delays.preResize)

		err := func() error {
			if err := d.backend.Restore(rec.ID); err != nil {
				return fmt.Errorf("restore: %w", err)
			}
			rect, ok := d.backend.WindowRect(rec.ID)
			if !ok {
				return fmt.Errorf("window geometry unreadable")
			}
			bounds := platform.Rect{X: rect.X, Y: rect.Y, Width: width, Height: height}
			if err := d.backend.MoveResize(rec.ID, bounds); err != nil {
				return fmt.Errorf("resize: %w", err)
			}
			return nil
		}()
		if err != nil {
			log.Printf("Resizing %q failed: %v", rec.Title, err)
		}
		report.Results = append(report.Results, Result{Window: rec.ID, Title: rec.Title, Err: err})
	}

	return report, nil
}

// Zoom drives every managed window to the requested zoom percentage: reset
// to 100% with Ctrl+0, then Ctrl+minus the mapped number of times. This is
// open-loop; there is no read-back of the resulting zoom level, so the
// outcome depends on the settle delays and the browser's default key
// bindings. Zero percent falls back to the configured zoom level.
func (d *Dispatcher) Zoom(percent int) (*Report, error) {
	cfg := d.snapshot()
	if percent == 0 {
		percent = cfg.ZoomLevel
	}
	if percent <= 0 || percent > 100 {
		return nil, fmt.Errorf("zoom percent must be in (0, 100]: %d", percent)
	}

	report := &Report{}
	set := d.builder(cfg).BuildSet()
	if len(set) == 0 {
		return report, nil
	}

	steps := StepsForZoom(percent)
	delays := delaysFrom(cfg.Delays)
	report.Results = d.zoomPass(set, steps, delays)
	return report, nil
}

func (d *Dispatcher) zoomPass(set []profile.Record, steps int, delays delayset) []Result {
	results := make([]Result, 0, len(set))
	for _, rec := range set {
		err := func() error {
			if err := d.backend.Restore(rec.ID); err != nil {
				return fmt.Errorf("restore: %w", err)
			}
			if err := d.backend.Activate(rec.ID); err != nil {
				return fmt.Errorf("activate: %w", err)
			}
			sleep(delays.focusSettle)

			if err := d.backend.KeyChord(controlMod, "0"); err != nil {
				return fmt.Errorf("zoom reset: %w", err)
			}
			sleep(delays.keyInterval)

			for i := 0; i < steps; i++ {
				if err := d.backend.KeyChord(controlMod, "minus"); err != nil {
					return fmt.Errorf("zoom step %d: %w", i+1, err)
				}
				sleep(delays.keyInterval)
			}
			return nil
		}()
		if err != nil {
			log.Printf("Zooming %q failed: %v", rec.Title, err)
		}
		results = append(results, Result{Window: rec.ID, Title: rec.Title, Err: err})
	}
	return results
}

// NormalizeURL trims the input and prepends https:// when no scheme is
// present. An empty URL is rejected before any window is touched.
func NormalizeURL(raw string) (string, error) {
	url := strings.TrimSpace(raw)
	if url == "" {
		return "", fmt.Errorf("empty URL")
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}
	return url, nil
}

// Navigate opens the URL in a new tab in every managed window: focus,
// Ctrl+T, type the URL, Enter. When zoomAfter is set the action waits for
// pages to start loading and then runs a zoom pass over a fresh profile
// set; its results land in Report.ZoomResults. zoomAfter/zoomPercent
// default to the configured values when nil/zero.
func (d *Dispatcher) Navigate(rawURL string, zoomAfter *bool, zoomPercent int) (*Report, error) {
	cfg := d.snapshot()

	url, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	applyZoom := cfg.AutoZoomAfterNavigate
	if zoomAfter != nil {
		applyZoom = *zoomAfter
	}
	if zoomPercent == 0 {
		zoomPercent = cfg.ZoomLevel
	}

	report := &Report{}
	set := d.builder(cfg).BuildSet()
	if len(set) == 0 {
		return report, nil
	}

	delays := delaysFrom(cfg.Delays)
	for _, rec := range set {
		err := func() error {
			if err := d.backend.Restore(rec.ID); err != nil {
				return fmt.Errorf("restore: %w", err)
			}
			if err := d.backend.Activate(rec.ID); err != nil {
				return fmt.Errorf("activate: %w", err)
			}
			sleep(delays.focusSettle)

			if err := d.backend.KeyChord(controlMod, "t"); err != nil {
				return fmt.Errorf("new tab: %w", err)
			}
			sleep(delays.newTabSettle)

			if err := d.backend.TypeText(url, delays.typeKey); err != nil {
				return fmt.Errorf("type url: %w", err)
			}
			sleep(delays.typeSettle)

			if err := d.backend.KeyChord(nil, "Return"); err != nil {
				return fmt.Errorf("navigate: %w", err)
			}
			sleep(delays.navigateSettle)
			return nil
		}()
		if err != nil {
			log.Printf("Opening URL in %q failed: %v", rec.Title, err)
		}
		report.Results = append(report.Results, Result{Window: rec.ID, Title: rec.Title, Err: err})
	}

	// Second pass: apply zoom once pages have started loading. Builds a
	// fresh set; windows opened or closed meanwhile are picked up/dropped.
	if applyZoom {
		sleep(delays.pageLoadSettle)
		report.ZoomResults = d.zoomPass(d.builder(cfg).BuildSet(), StepsForZoom(zoomPercent), delays)
	}

	return report, nil
}

func sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}

// Package config loads and persists profilegrid settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Delays are the named settle delays (milliseconds) between automation
// steps. They are a reliability tuning surface, not a correctness
// guarantee: the controlled browsers give no acknowledgment, so fixed
// waits are the only timing control.
type Delays struct {
	// PreMoveMs runs before each restore+move pair during positioning.
	PreMoveMs int `yaml:"pre_move_ms"`
	// PreResizeMs runs before each restore+resize pair.
	PreResizeMs int `yaml:"pre_resize_ms"`
	// FocusSettleMs follows bringing a window to the foreground.
	FocusSettleMs int `yaml:"focus_settle_ms"`
	// KeyIntervalMs separates consecutive zoom key combinations.
	KeyIntervalMs int `yaml:"key_interval_ms"`
	// NewTabSettleMs follows the open-new-tab key combination.
	NewTabSettleMs int `yaml:"new_tab_settle_ms"`
	// TypeKeyMs separates individual typed characters.
	TypeKeyMs int `yaml:"type_key_ms"`
	// TypeSettleMs follows typing the full URL.
	TypeSettleMs int `yaml:"type_settle_ms"`
	// NavigateSettleMs follows pressing Enter on a URL.
	NavigateSettleMs int `yaml:"navigate_settle_ms"`
	// PageLoadSettleMs separates the navigate pass from an automatic zoom
	// pass, giving pages time to start loading.
	PageLoadSettleMs int `yaml:"page_load_settle_ms"`
}

// Settings holds the application configuration.
type Settings struct {
	// GridCols and GridRows define the grid; 0 means auto-compute from the
	// work area and window size.
	GridCols int `yaml:"grid_cols"`
	GridRows int `yaml:"grid_rows"`
	HGap     int `yaml:"h_gap"`
	VGap     int `yaml:"v_gap"`

	// Hotkey triggers positioning globally, in xgbutil keybind syntax.
	Hotkey string `yaml:"hotkey"`

	ZoomLevel    int `yaml:"zoom_level"`
	WindowWidth  int `yaml:"window_width"`
	WindowHeight int `yaml:"window_height"`

	// AutoZoomAfterNavigate runs a zoom pass after opening a URL in all
	// profiles.
	AutoZoomAfterNavigate bool `yaml:"auto_zoom_after_navigate"`

	// Classifier overrides. Empty lists fall back to built-in defaults.
	IncludeKeywords []string `yaml:"include_keywords,omitempty"`
	ExcludeKeywords []string `yaml:"exclude_keywords,omitempty"`
	TitlePattern    string   `yaml:"title_pattern,omitempty"`
	ClassSubstring  string   `yaml:"class_substring,omitempty"`

	LogLevel string `yaml:"log_level"`

	Delays Delays `yaml:"delays"`
}

// DefaultSettings returns the built-in configuration. Delay defaults carry
// the empirically tuned values the automation was calibrated with.
func DefaultSettings() *Settings {
	return &Settings{
		GridCols:              0,
		GridRows:              0,
		HGap:                  10,
		VGap:                  10,
		Hotkey:                "Control-Shift-p",
		ZoomLevel:             35,
		WindowWidth:           550,
		WindowHeight:          600,
		AutoZoomAfterNavigate: true,
		LogLevel:              "info",
		Delays: Delays{
			PreMoveMs:        30,
			PreResizeMs:      50,
			FocusSettleMs:    150,
			KeyIntervalMs:    80,
			NewTabSettleMs:   300,
			TypeKeyMs:        10,
			TypeSettleMs:     150,
			NavigateSettleMs: 200,
			PageLoadSettleMs: 2000,
		},
	}
}

// DefaultConfigPath returns the standard config file location.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "profilegrid", "config.yaml"), nil
}

// Load reads configuration from the standard location, merged over
// defaults. A missing file yields the defaults.
func Load() (*Settings, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads configuration from path, merged over defaults.
func LoadFromPath(path string) (*Settings, error) {
	cfg := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the settings to path, creating parent directories as needed.
func (s *Settings) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Validate rejects invalid numeric or pattern configuration before any
// window is touched.
func (s *Settings) Validate() error {
	if s.GridCols < 0 || s.GridRows < 0 {
		return fmt.Errorf("grid_cols/grid_rows must not be negative (0 = auto)")
	}
	if s.HGap < 0 || s.VGap < 0 {
		return fmt.Errorf("h_gap/v_gap must not be negative")
	}
	if s.WindowWidth <= 0 || s.WindowHeight <= 0 {
		return fmt.Errorf("window_width/window_height must be positive")
	}
	if s.ZoomLevel <= 0 || s.ZoomLevel > 100 {
		return fmt.Errorf("zoom_level must be in (0, 100]")
	}
	if s.TitlePattern != "" {
		if _, err := regexp.Compile(s.TitlePattern); err != nil {
			return fmt.Errorf("invalid title_pattern: %w", err)
		}
	}
	for name, v := range map[string]int{
		"pre_move_ms":         s.Delays.PreMoveMs,
		"pre_resize_ms":       s.Delays.PreResizeMs,
		"focus_settle_ms":     s.Delays.FocusSettleMs,
		"key_interval_ms":     s.Delays.KeyIntervalMs,
		"new_tab_settle_ms":   s.Delays.NewTabSettleMs,
		"type_key_ms":         s.Delays.TypeKeyMs,
		"type_settle_ms":      s.Delays.TypeSettleMs,
		"navigate_settle_ms":  s.Delays.NavigateSettleMs,
		"page_load_settle_ms": s.Delays.PageLoadSettleMs,
	} {
		if v < 0 {
			return fmt.Errorf("delay %s must not be negative", name)
		}
	}
	return nil
}

// CompiledTitlePattern returns the configured title pattern, or nil when
// unset (callers fall back to the built-in default).
func (s *Settings) CompiledTitlePattern() *regexp.Regexp {
	if s.TitlePattern == "" {
		return nil
	}
	re, err := regexp.Compile(s.TitlePattern)
	if err != nil {
		// Validate catches this at load; unreachable for loaded configs.
		return nil
	}
	return re
}

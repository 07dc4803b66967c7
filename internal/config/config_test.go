package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultSettings_Valid(t *testing.T) {
	cfg := DefaultSettings()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.WindowWidth != 550 || cfg.WindowHeight != 600 {
		t.Fatalf("unexpected default window size %dx%d", cfg.WindowWidth, cfg.WindowHeight)
	}
	if cfg.ZoomLevel != 35 {
		t.Fatalf("unexpected default zoom level %d", cfg.ZoomLevel)
	}
	if cfg.GridCols != 0 || cfg.GridRows != 0 {
		t.Fatalf("expected auto grid by default, got %dx%d", cfg.GridCols, cfg.GridRows)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Hotkey != "Control-Shift-p" {
		t.Fatalf("expected default hotkey, got %q", cfg.Hotkey)
	}
}

func TestLoadFromPath_MergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := strings.Join([]string{
		"zoom_level: 67",
		"window_width: 700",
		"delays:",
		"  focus_settle_ms: 250",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ZoomLevel != 67 {
		t.Fatalf("expected zoom_level 67, got %d", cfg.ZoomLevel)
	}
	if cfg.WindowWidth != 700 {
		t.Fatalf("expected window_width 700, got %d", cfg.WindowWidth)
	}
	if cfg.Delays.FocusSettleMs != 250 {
		t.Fatalf("expected focus_settle_ms 250, got %d", cfg.Delays.FocusSettleMs)
	}
	// Untouched keys keep their defaults.
	if cfg.WindowHeight != 600 {
		t.Fatalf("expected default window_height, got %d", cfg.WindowHeight)
	}
	if cfg.Delays.PreMoveMs != 30 {
		t.Fatalf("expected default pre_move_ms, got %d", cfg.Delays.PreMoveMs)
	}
}

func TestLoadFromPath_InvalidValuesRejected(t *testing.T) {
	cases := []string{
		"zoom_level: 150\n",
		"zoom_level: -1\n",
		"window_width: 0\n",
		"h_gap: -3\n",
		"grid_cols: -1\n",
		"title_pattern: \"[unclosed\"\n",
		"delays:\n  key_interval_ms: -10\n",
	}
	dir := t.TempDir()
	for i, data := range cases {
		path := filepath.Join(dir, "config.yaml")
		if err := os.WriteFile(path, []byte(data), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := LoadFromPath(path); err == nil {
			t.Errorf("case %d: expected validation error for %q", i, data)
		}
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultSettings()
	cfg.ZoomLevel = 50
	cfg.IncludeKeywords = []string{"custom"}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ZoomLevel != 50 {
		t.Fatalf("expected zoom_level 50, got %d", loaded.ZoomLevel)
	}
	if len(loaded.IncludeKeywords) != 1 || loaded.IncludeKeywords[0] != "custom" {
		t.Fatalf("expected custom include keywords, got %v", loaded.IncludeKeywords)
	}
}

func TestCompiledTitlePattern(t *testing.T) {
	cfg := DefaultSettings()
	if cfg.CompiledTitlePattern() != nil {
		t.Fatalf("expected nil pattern when unset")
	}

	cfg.TitlePattern = `\bP\d+\b`
	re := cfg.CompiledTitlePattern()
	if re == nil {
		t.Fatalf("expected compiled pattern")
	}
	if !re.MatchString("P12 session") {
		t.Fatalf("expected pattern to match")
	}
}

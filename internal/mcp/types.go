package mcp

// PositionWindowsInput is the input for the position_windows tool.
type PositionWindowsInput struct {
	Cols         int `json:"cols,omitempty" jsonschema:"Number of grid columns (default: computed from the monitor work area)"`
	Rows         int `json:"rows,omitempty" jsonschema:"Number of grid rows (default: computed from the monitor work area)"`
	HGap         int `json:"h_gap,omitempty" jsonschema:"Horizontal gap between cells in pixels (default: from config)"`
	VGap         int `json:"v_gap,omitempty" jsonschema:"Vertical gap between cells in pixels (default: from config)"`
	WindowWidth  int `json:"window_width,omitempty" jsonschema:"Width of each window in pixels (default: from config)"`
	WindowHeight int `json:"window_height,omitempty" jsonschema:"Height of each window in pixels (default: from config)"`
}

// WindowOutcome describes the result of one per-window action.
type WindowOutcome struct {
	WindowID uint32 `json:"window_id"`
	Title    string `json:"title"`
	Error    string `json:"error,omitempty"`
}

// PositionWindowsOutput is the output for the position_windows tool.
type PositionWindowsOutput struct {
	Count   int             `json:"count"`
	Failed  int             `json:"failed"`
	Windows []WindowOutcome `json:"windows"`
}

// ResizeWindowsInput is the input for the resize_windows tool.
type ResizeWindowsInput struct {
	Width  int `json:"width,omitempty" jsonschema:"Target width in pixels (default: from config)"`
	Height int `json:"height,omitempty" jsonschema:"Target height in pixels (default: from config)"`
}

// ResizeWindowsOutput is the output for the resize_windows tool.
type ResizeWindowsOutput struct {
	Count   int             `json:"count"`
	Failed  int             `json:"failed"`
	Windows []WindowOutcome `json:"windows"`
}

// ApplyZoomInput is the input for the apply_zoom tool.
type ApplyZoomInput struct {
	Percent int `json:"percent,omitempty" jsonschema:"Zoom percentage to apply, snapped to the nearest browser zoom stop (default: from config)"`
}

// ApplyZoomOutput is the output for the apply_zoom tool.
type ApplyZoomOutput struct {
	Count   int             `json:"count"`
	Failed  int             `json:"failed"`
	Windows []WindowOutcome `json:"windows"`
}

// OpenURLInput is the input for the open_url tool.
type OpenURLInput struct {
	URL         string `json:"url" jsonschema:"required,URL to open in a new tab in every profile window. A scheme is prepended when missing."`
	Zoom        *bool  `json:"zoom,omitempty" jsonschema:"Whether to apply zoom after the pages load (default: from config)"`
	ZoomPercent int    `json:"zoom_percent,omitempty" jsonschema:"Zoom percentage when zoom runs after navigation (default: from config)"`
}

// OpenURLOutput is the output for the open_url tool.
type OpenURLOutput struct {
	URL         string          `json:"url"`
	Count       int             `json:"count"`
	Failed      int             `json:"failed"`
	Windows     []WindowOutcome `json:"windows"`
	ZoomWindows []WindowOutcome `json:"zoom_windows,omitempty"`
}

// ListProfilesInput is the input for the list_profiles tool.
type ListProfilesInput struct{}

// ProfileEntry describes one classified profile window.
type ProfileEntry struct {
	WindowID   uint32 `json:"window_id"`
	Title      string `json:"title"`
	StartTicks int64  `json:"start_ticks"`
}

// ListProfilesOutput is the output for the list_profiles tool.
type ListProfilesOutput struct {
	Count    int            `json:"count"`
	Profiles []ProfileEntry `json:"profiles"`
}

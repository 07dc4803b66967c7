// Package grid computes deterministic window placements for a set of
// uniformly sized windows on the primary work area.
package grid

import (
	"fmt"

	"github.com/profilegrid/profilegrid/internal/platform"
)

// Cell is one planned window rectangle in screen coordinates.
type Cell struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Config describes the requested grid. Zero columns or rows means
// auto-compute from the work area and target window size.
type Config struct {
	Columns    int
	Rows       int
	HGap       int
	VGap       int
	CellWidth  int
	CellHeight int
}

// Validate rejects configurations before any window is touched.
func (c Config) Validate() error {
	if c.Columns < 0 || c.Rows < 0 {
		return fmt.Errorf("grid dimensions must not be negative: %dx%d", c.Columns, c.Rows)
	}
	if c.HGap < 0 || c.VGap < 0 {
		return fmt.Errorf("gaps must not be negative: %dx%d", c.HGap, c.VGap)
	}
	if c.CellWidth <= 0 || c.CellHeight <= 0 {
		return fmt.Errorf("window size must be positive: %dx%d", c.CellWidth, c.CellHeight)
	}
	return nil
}

// PlanGrid computes one cell per window, row-major in set order, anchored
// at the work area origin. Auto dimensions pack as many fixed-size cells as
// fit; when the grid is still too small, columns grow (never rows) so the
// result is reproducible for a given count and starting grid. Cells may
// extend past the work area edge once columns have grown - uniform size is
// kept, no remainder distribution.
func PlanGrid(count int, area platform.Rect, cfg Config) ([]Cell, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, nil
	}

	cols := cfg.Columns
	rows := cfg.Rows

	if cols == 0 {
		cols = area.Width / (cfg.CellWidth + cfg.HGap)
		if cols < 1 {
			cols = 1
		}
	}
	if rows == 0 {
		rows = area.Height / (cfg.CellHeight + cfg.VGap)
		if rows < 1 {
			rows = 1
		}
	}

	// Grow columns until every window has a cell. Deliberate tie-break:
	// columns grow, rows never do.
	for cols*rows < count {
		cols++
	}

	cells := make([]Cell, count)
	for i := 0; i < count; i++ {
		col := i % cols
		row := i / cols
		cells[i] = Cell{
			X:      area.X + col*(cfg.CellWidth+cfg.HGap),
			Y:      area.Y + row*(cfg.CellHeight+cfg.VGap),
			Width:  cfg.CellWidth,
			Height: cfg.CellHeight,
		}
	}

	return cells, nil
}

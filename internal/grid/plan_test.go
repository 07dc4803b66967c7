package grid

import (
	"testing"

	"github.com/profilegrid/profilegrid/internal/platform"
)

func defaultConfig() Config {
	return Config{HGap: 10, VGap: 10, CellWidth: 550, CellHeight: 600}
}

func TestPlanGrid_FiveWindowsSingleRow(t *testing.T) {
	// 1920x1040 work area fits 3 auto columns of 550+10; the grid then
	// grows to 5 columns so every window gets a cell.
	area := platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1040}

	cells, err := PlanGrid(5, area, defaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cells) != 5 {
		t.Fatalf("expected 5 cells, got %d", len(cells))
	}

	wantX := []int{0, 560, 1120, 1680, 2240}
	for i, cell := range cells {
		if cell.X != wantX[i] {
			t.Errorf("cell %d: expected X=%d, got %d", i, wantX[i], cell.X)
		}
		if cell.Y != 0 {
			t.Errorf("cell %d: expected Y=0, got %d", i, cell.Y)
		}
		if cell.Width != 550 || cell.Height != 600 {
			t.Errorf("cell %d: expected 550x600, got %dx%d", i, cell.Width, cell.Height)
		}
	}
}

func TestPlanGrid_RowMajorWrapping(t *testing.T) {
	area := platform.Rect{X: 0, Y: 0, Width: 1920, Height: 2000}

	cfg := defaultConfig()
	cfg.Columns = 3
	cells, err := PlanGrid(5, area, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Fourth window wraps to the second row, first column.
	if cells[3].X != 0 || cells[3].Y != 610 {
		t.Fatalf("expected cell 3 at (0,610), got (%d,%d)", cells[3].X, cells[3].Y)
	}
	if cells[4].X != 560 || cells[4].Y != 610 {
		t.Fatalf("expected cell 4 at (560,610), got (%d,%d)", cells[4].X, cells[4].Y)
	}
}

func TestPlanGrid_AnchoredAtWorkAreaOrigin(t *testing.T) {
	// Monitor whose work area starts below a top dock.
	area := platform.Rect{X: 64, Y: 28, Width: 1856, Height: 1052}

	cells, err := PlanGrid(2, area, defaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cells[0].X != 64 || cells[0].Y != 28 {
		t.Fatalf("expected first cell at work area origin (64,28), got (%d,%d)", cells[0].X, cells[0].Y)
	}
	if cells[1].X != 64+560 {
		t.Fatalf("expected second cell at X=%d, got %d", 64+560, cells[1].X)
	}
}

func TestPlanGrid_ColumnsGrowRowsDoNot(t *testing.T) {
	// Tiny area: 1 auto column, 1 auto row. Nine windows force 9 columns.
	area := platform.Rect{X: 0, Y: 0, Width: 600, Height: 700}

	cells, err := PlanGrid(9, area, defaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, cell := range cells {
		if cell.Y != 0 {
			t.Fatalf("cell %d: expected single row, got Y=%d", i, cell.Y)
		}
	}
	if cells[8].X != 8*560 {
		t.Fatalf("expected cell 8 at X=%d, got %d", 8*560, cells[8].X)
	}
}

func TestPlanGrid_NoOverlap(t *testing.T) {
	area := platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1040}
	cells, err := PlanGrid(6, area, defaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < len(cells); i++ {
		for j := i + 1; j < len(cells); j++ {
			a, b := cells[i], cells[j]
			if a.X < b.X+b.Width && b.X < a.X+a.Width &&
				a.Y < b.Y+b.Height && b.Y < a.Y+a.Height {
				t.Fatalf("cells %d and %d overlap: %+v %+v", i, j, a, b)
			}
		}
	}
}

func TestPlanGrid_ZeroCount(t *testing.T) {
	area := platform.Rect{X: 0, Y: 0, Width: 1920, Height: 1040}
	cells, err := PlanGrid(0, area, defaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cells) != 0 {
		t.Fatalf("expected no cells, got %d", len(cells))
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", defaultConfig(), false},
		{"explicit grid", Config{Columns: 3, Rows: 2, CellWidth: 550, CellHeight: 600}, false},
		{"negative columns", Config{Columns: -1, CellWidth: 550, CellHeight: 600}, true},
		{"negative gap", Config{HGap: -5, CellWidth: 550, CellHeight: 600}, true},
		{"zero width", Config{CellWidth: 0, CellHeight: 600}, true},
		{"negative height", Config{CellWidth: 550, CellHeight: -600}, true},
	}
	for _, tc := range cases {
		err := tc.cfg.Validate()
		if tc.wantErr && err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
		}
	}
}

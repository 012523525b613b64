package layout

import (
	"math"
	"testing"

	"collage-studio/internal/scene"
	"collage-studio/pkg/geometry"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func rectApprox(got, want geometry.Rect) bool {
	return approx(got.X, want.X) && approx(got.Y, want.Y) &&
		approx(got.Width, want.Width) && approx(got.Height, want.Height)
}

func TestGridDims(t *testing.T) {
	cases := []struct {
		n, cols, rows int
	}{
		{1, 1, 1},
		{2, 2, 1},
		{3, 2, 2},
		{4, 2, 2},
		{5, 3, 2},
		{9, 3, 3},
		{10, 4, 3},
	}
	for _, c := range cases {
		cols, rows := GridDims(c.n)
		if cols != c.cols || rows != c.rows {
			t.Errorf("GridDims(%d) = %dx%d, want %dx%d", c.n, cols, rows, c.cols, c.rows)
		}
	}
}

func TestGridFourImages(t *testing.T) {
	cells := Grid(800, 600, 4, 16)
	if len(cells) != 4 {
		t.Fatalf("got %d cells, want 4", len(cells))
	}

	// 2x2 grid: cell = (800 - 3*16)/2 x (600 - 3*16)/2 = 376x276
	want := []geometry.Rect{
		{X: 16, Y: 16, Width: 376, Height: 276},
		{X: 408, Y: 16, Width: 376, Height: 276},
		{X: 16, Y: 308, Width: 376, Height: 276},
		{X: 408, Y: 308, Width: 376, Height: 276},
	}
	for i, w := range want {
		if !rectApprox(cells[i], w) {
			t.Errorf("cell %d = %+v, want %+v", i, cells[i], w)
		}
	}
}

func TestGridCellsStayInBounds(t *testing.T) {
	for n := 1; n <= 12; n++ {
		cells := Grid(960, 720, n, 16)
		if len(cells) != n {
			t.Fatalf("n=%d: got %d cells", n, len(cells))
		}
		for i, c := range cells {
			if c.X < 16-1e-9 || c.Y < 16-1e-9 {
				t.Errorf("n=%d cell %d starts inside the gap: %+v", n, i, c)
			}
			if c.X+c.Width > 960-16+1e-9 || c.Y+c.Height > 720-16+1e-9 {
				t.Errorf("n=%d cell %d exceeds canvas: %+v", n, i, c)
			}
		}
	}
}

func TestGridZeroImages(t *testing.T) {
	if cells := Grid(800, 600, 0, 16); cells != nil {
		t.Errorf("expected nil for zero images, got %v", cells)
	}
}

func TestGridGapExceedsCanvas(t *testing.T) {
	cells := Grid(100, 100, 4, 60)
	for i, c := range cells {
		if c.Width < 0 || c.Height < 0 {
			t.Errorf("cell %d has negative dimensions: %+v", i, c)
		}
	}
}

func TestSplitBigLeft(t *testing.T) {
	cells := SplitBig(800, 600, 3, 16, SideLeft)
	if len(cells) != 3 {
		t.Fatalf("got %d cells, want 3", len(cells))
	}

	big := geometry.Rect{X: 16, Y: 16, Width: 400 - 24, Height: 600 - 32}
	if !rectApprox(cells[0], big) {
		t.Errorf("big cell = %+v, want %+v", cells[0], big)
	}

	// Remaining two tile the right half.
	for i, c := range cells[1:] {
		if c.X < 400 {
			t.Errorf("secondary cell %d crosses into the big half: %+v", i, c)
		}
	}
}

func TestSplitBigRightSecondaryStaysLeft(t *testing.T) {
	cells := SplitBig(800, 600, 5, 16, SideRight)
	if cells[0].X <= 400 {
		t.Errorf("big cell should be in the right half: %+v", cells[0])
	}
	for i, c := range cells[1:] {
		if c.X+c.Width > 400+1e-9 {
			t.Errorf("secondary cell %d crosses into the big half: %+v", i, c)
		}
	}
}

func TestSplitBigSingleImage(t *testing.T) {
	cells := SplitBig(800, 600, 1, 16, SideTop)
	if len(cells) != 1 {
		t.Fatalf("got %d cells, want 1", len(cells))
	}
	want := geometry.Rect{X: 16, Y: 16, Width: 800 - 32, Height: 300 - 24}
	if !rectApprox(cells[0], want) {
		t.Errorf("big cell = %+v, want %+v", cells[0], want)
	}
}

func TestFocusBox(t *testing.T) {
	box := FocusBox(1000, 800)
	want := geometry.Rect{X: 100, Y: 40, Width: 800, Height: 720}
	if !rectApprox(box, want) {
		t.Errorf("FocusBox = %+v, want %+v", box, want)
	}
}

func TestSingleFocusBackdropTilesFullCanvas(t *testing.T) {
	cells := SingleFocus(1000, 800, 4, 16)
	if len(cells) != 4 {
		t.Fatalf("got %d cells, want 4", len(cells))
	}
	if !rectApprox(cells[0], FocusBox(1000, 800)) {
		t.Errorf("focal cell = %+v", cells[0])
	}
	backdrop := Grid(1000, 800, 3, 16)
	for i, c := range cells[1:] {
		if !rectApprox(c, backdrop[i]) {
			t.Errorf("backdrop cell %d = %+v, want %+v", i, c, backdrop[i])
		}
	}
}

func TestForModeFreeReturnsNil(t *testing.T) {
	if got := ForMode(800, 600, 4, 16, scene.ModeFree); got != nil {
		t.Errorf("free mode should return nil, got %v", got)
	}
}

func TestForModeCount(t *testing.T) {
	modes := []scene.LayoutMode{
		scene.ModeGrid,
		scene.ModeLeftBig,
		scene.ModeRightBig,
		scene.ModeTopBig,
		scene.ModeBottomBig,
		scene.ModeSingleFocus,
	}
	for _, mode := range modes {
		for n := 1; n <= 7; n++ {
			if got := len(ForMode(800, 600, n, 16, mode)); got != n {
				t.Errorf("%s n=%d: got %d placements", mode, n, got)
			}
		}
	}
}

func TestFreePlacements(t *testing.T) {
	s := scene.New()
	s.AddImage("a").Freeform = &scene.Freeform{X: 10, Y: 20, Width: 100, Height: 80}
	s.AddImage("b")

	got := FreePlacements(s)
	if len(got) != 2 {
		t.Fatalf("got %d placements", len(got))
	}
	if !rectApprox(got[0], geometry.Rect{X: 10, Y: 20, Width: 100, Height: 80}) {
		t.Errorf("placement 0 = %+v", got[0])
	}
	if !got[1].IsEmpty() {
		t.Errorf("unseeded image should yield an empty rect, got %+v", got[1])
	}
}

// Package layout computes placement rectangles for collage images. Every
// function is a pure function of the canvas size, image count and gap, so
// the preview and export renderers produce identical compositions by
// calling the same code with scaled inputs.
package layout

import (
	"math"

	"collage-studio/internal/scene"
	"collage-studio/pkg/geometry"
)

// Side names which edge the large cell of a split layout occupies.
type Side int

const (
	SideLeft Side = iota
	SideRight
	SideTop
	SideBottom
)

// GridDims returns the column and row counts the grid layout uses for n
// images: cols = ceil(sqrt(n)), rows = ceil(n/cols).
func GridDims(n int) (cols, rows int) {
	if n <= 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = int(math.Ceil(float64(n) / float64(cols)))
	return cols, rows
}

// Grid lays out n images in a near-square grid across the full canvas.
func Grid(w, h float64, n int, gap float64) []geometry.Rect {
	return GridIn(geometry.NewRect(0, 0, w, h), n, gap)
}

// GridIn lays out n images in a grid confined to the given region. Cell
// dimensions may collapse to zero when the gap exceeds the region; callers
// treat empty rectangles as "draw nothing".
func GridIn(region geometry.Rect, n int, gap float64) []geometry.Rect {
	if n <= 0 {
		return nil
	}

	cols, rows := GridDims(n)
	cellW := (region.Width - float64(cols+1)*gap) / float64(cols)
	cellH := (region.Height - float64(rows+1)*gap) / float64(rows)
	if cellW < 0 {
		cellW = 0
	}
	if cellH < 0 {
		cellH = 0
	}

	out := make([]geometry.Rect, n)
	for i := 0; i < n; i++ {
		col := i % cols
		row := i / cols
		out[i] = geometry.Rect{
			X:      region.X + gap + float64(col)*(cellW+gap),
			Y:      region.Y + gap + float64(row)*(cellH+gap),
			Width:  cellW,
			Height: cellH,
		}
	}
	return out
}

// SplitBig gives the first image a half-canvas column (or band, for
// top/bottom) minus 1.5 gaps on the named side, and grid-tiles the
// remaining n-1 images in the other half. With n == 1 the secondary grid
// is skipped entirely.
func SplitBig(w, h float64, n int, gap float64, side Side) []geometry.Rect {
	if n <= 0 {
		return nil
	}

	var big, rest geometry.Rect
	switch side {
	case SideLeft:
		big = geometry.NewRect(gap, gap, w/2-1.5*gap, h-2*gap)
		rest = geometry.NewRect(w/2, 0, w/2, h)
	case SideRight:
		big = geometry.NewRect(w/2+0.5*gap, gap, w/2-1.5*gap, h-2*gap)
		rest = geometry.NewRect(0, 0, w/2, h)
	case SideTop:
		big = geometry.NewRect(gap, gap, w-2*gap, h/2-1.5*gap)
		rest = geometry.NewRect(0, h/2, w, h/2)
	case SideBottom:
		big = geometry.NewRect(gap, h/2+0.5*gap, w-2*gap, h/2-1.5*gap)
		rest = geometry.NewRect(0, 0, w, h/2)
	}
	if big.Width < 0 {
		big.Width = 0
	}
	if big.Height < 0 {
		big.Height = 0
	}

	out := make([]geometry.Rect, 0, n)
	out = append(out, big)
	if n > 1 {
		out = append(out, GridIn(rest, n-1, gap)...)
	}
	return out
}

// FocusBox returns the box the focal image of single-focus mode is
// centered in: 80% of the canvas width, 90% of its height.
func FocusBox(w, h float64) geometry.Rect {
	return geometry.Rect{
		X:      w * 0.1,
		Y:      h * 0.05,
		Width:  w * 0.8,
		Height: h * 0.9,
	}
}

// SingleFocus returns placements for single-focus mode: index 0 is the
// focal box, indices 1..n-1 tile the full canvas (the renderer paints them
// blurred beneath the focal image).
func SingleFocus(w, h float64, n int, gap float64) []geometry.Rect {
	if n <= 0 {
		return nil
	}
	out := make([]geometry.Rect, 0, n)
	out = append(out, FocusBox(w, h))
	if n > 1 {
		out = append(out, Grid(w, h, n-1, gap)...)
	}
	return out
}

// ForMode dispatches to the algorithm for the given mode, returning one
// rectangle per image in insertion order. Free-placement mode performs no
// computation and must be resolved from stored freeform geometry instead;
// this function returns nil for it.
func ForMode(w, h float64, n int, gap float64, mode scene.LayoutMode) []geometry.Rect {
	switch mode {
	case scene.ModeGrid:
		return Grid(w, h, n, gap)
	case scene.ModeLeftBig:
		return SplitBig(w, h, n, gap, SideLeft)
	case scene.ModeRightBig:
		return SplitBig(w, h, n, gap, SideRight)
	case scene.ModeTopBig:
		return SplitBig(w, h, n, gap, SideTop)
	case scene.ModeBottomBig:
		return SplitBig(w, h, n, gap, SideBottom)
	case scene.ModeSingleFocus:
		return SingleFocus(w, h, n, gap)
	case scene.ModeFree:
		return nil
	}
	return Grid(w, h, n, gap)
}

// FreePlacements reads each image's stored freeform rectangle, in
// insertion order. Images that have not been seeded yet get an empty rect.
func FreePlacements(s *scene.Scene) []geometry.Rect {
	out := make([]geometry.Rect, len(s.Images))
	for i, it := range s.Images {
		if it.Freeform != nil {
			out[i] = geometry.Rect{
				X:      it.Freeform.X,
				Y:      it.Freeform.Y,
				Width:  it.Freeform.Width,
				Height: it.Freeform.Height,
			}
		}
	}
	return out
}

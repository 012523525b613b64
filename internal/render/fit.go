package render

import (
	"collage-studio/internal/scene"
	"collage-studio/pkg/geometry"
)

// FitRect computes the rectangle a source image is drawn into for a cell.
// Under cover the image overflows the cell (the caller clips); under
// contain it fits fully inside with letterbox margins. Zoom scales the
// fitted size around the cell center. Degenerate sources or cells yield an
// empty rectangle.
func FitRect(srcW, srcH int, cell geometry.Rect, policy scene.FitPolicy, zoom float64) geometry.Rect {
	if srcW <= 0 || srcH <= 0 || cell.IsEmpty() || zoom <= 0 {
		return geometry.Rect{}
	}

	imgRatio := float64(srcW) / float64(srcH)
	cellRatio := cell.Width / cell.Height

	var w, h float64
	fitByHeight := imgRatio > cellRatio
	if policy == scene.FitContain {
		fitByHeight = !fitByHeight
	}
	if fitByHeight {
		h = cell.Height
		w = h * imgRatio
	} else {
		w = cell.Width
		h = w / imgRatio
	}

	w *= zoom
	h *= zoom

	c := cell.Center()
	return geometry.Rect{
		X:      c.X - w/2,
		Y:      c.Y - h/2,
		Width:  w,
		Height: h,
	}
}

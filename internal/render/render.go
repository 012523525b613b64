// Package render executes a scene against a raster surface. The same
// pipeline serves the interactive preview and the high-resolution export;
// the only difference between them is the surface size and the axis scale
// factors applied to every linear pixel quantity.
package render

import (
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"

	"collage-studio/internal/layout"
	"collage-studio/internal/scene"
	"collage-studio/pkg/colorutil"
	"collage-studio/pkg/geometry"
)

// Sources resolves item identities to decoded pixels. A nil result means
// the source has not finished decoding (or failed); the pipeline skips it
// for this pass and self-corrects on the next one.
type Sources interface {
	ImageFor(id string) image.Image
}

// ImageMap is a plain-data Sources implementation used by the export path.
type ImageMap map[string]image.Image

// ImageFor implements Sources.
func (m ImageMap) ImageFor(id string) image.Image { return m[id] }

// Renderer paints scenes onto surfaces of a fixed size. ScaleX/ScaleY
// relate this surface to the preview canvas the scene's pixel parameters
// are expressed in; the preview renderer runs at scale 1.
type Renderer struct {
	Width  int
	Height int
	ScaleX float64
	ScaleY float64

	// ShowSelection enables the selection outline and resize handle for
	// SelectedID. Only the interactive renderer sets it; exports never
	// draw editing chrome.
	ShowSelection bool
	SelectedID    string

	// Logical canvas the scene geometry is expressed in. Layout always
	// runs in this space; only the resulting rectangles are scaled.
	previewW float64
	previewH float64
}

// New creates a preview renderer with unit scale.
func New(width, height int) *Renderer {
	return &Renderer{
		Width: width, Height: height,
		ScaleX: 1, ScaleY: 1,
		previewW: float64(width), previewH: float64(height),
	}
}

// NewScaled creates a renderer for a surface of a different resolution
// than the preview the scene was composed on. Placement is computed in
// preview space and every rectangle, gap, margin, radius and font size is
// scaled per axis onto the surface, which is what makes the output
// pixel-equivalent to the preview.
func NewScaled(width, height, previewW, previewH int) *Renderer {
	r := New(width, height)
	if previewW > 0 {
		r.ScaleX = float64(width) / float64(previewW)
		r.previewW = float64(previewW)
	}
	if previewH > 0 {
		r.ScaleY = float64(height) / float64(previewH)
		r.previewH = float64(previewH)
	}
	return r
}

// Render paints the scene and returns the finished surface. Individual
// elements whose sources are not ready are skipped; Render itself never
// fails.
func (r *Renderer) Render(s *scene.Scene, src Sources) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))

	r.drawBackground(out, s, src)
	r.drawImages(out, s, src)
	r.drawWatermark(out, s, src)
	for _, t := range s.Texts {
		drawTextLayer(out, t, r.ScaleX, r.ScaleY)
	}
	r.drawSelection(out, s)

	return out
}

func (r *Renderer) drawBackground(out *image.RGBA, s *scene.Scene, src Sources) {
	fill := colorutil.White
	if s.Background.Color != "" {
		fill = colorutil.ParseHex(s.Background.Color)
	}
	draw.Draw(out, out.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)

	if s.Background.ImageID == "" {
		return
	}
	img := src.ImageFor(s.Background.ImageID)
	if img == nil {
		return
	}
	// Stretched to exactly fill, ignoring aspect.
	stretched := imaging.Resize(img, r.Width, r.Height, imaging.Lanczos)
	draw.Draw(out, out.Bounds(), stretched, image.Point{}, draw.Src)
}

func (r *Renderer) drawImages(out *image.RGBA, s *scene.Scene, src Sources) {
	n := len(s.Images)
	if n == 0 {
		r.drawEmptyPrompt(out)
		return
	}

	switch s.Params.Mode {
	case scene.ModeFree:
		r.drawFreeImages(out, s, src)

	case scene.ModeSingleFocus:
		r.drawFocusBackdrop(out, s, src)
		focal := s.Images[0]
		if img := src.ImageFor(focal.ID); img != nil {
			zoom := s.Params.Zoom * s.Params.FocusZoom
			cell := layout.FocusBox(r.previewW, r.previewH).ScaleXY(r.ScaleX, r.ScaleY)
			r.drawImageInCell(out, img, cell, s.Params.Fit, zoom)
		}

	default:
		placements := layout.ForMode(r.previewW, r.previewH, n, s.Params.Gap, s.Params.Mode)
		for i, item := range s.Images {
			if i >= len(placements) {
				break
			}
			img := src.ImageFor(item.ID)
			if img == nil {
				continue
			}
			cell := placements[i].ScaleXY(r.ScaleX, r.ScaleY)
			r.drawImageInCell(out, img, cell, s.Params.Fit, s.Params.Zoom)
		}
	}
}

// drawFocusBackdrop tiles images 2..n across the full canvas on an
// offscreen layer, blurs it and overlays it at the backdrop opacity.
func (r *Renderer) drawFocusBackdrop(out *image.RGBA, s *scene.Scene, src Sources) {
	if len(s.Images) < 2 {
		return
	}

	rest := s.Images[1:]
	cells := layout.Grid(r.previewW, r.previewH, len(rest), s.Params.Gap)

	backdrop := image.NewRGBA(out.Bounds())
	painted := false
	for i, item := range rest {
		img := src.ImageFor(item.ID)
		if img == nil {
			continue
		}
		cell := cells[i].ScaleXY(r.ScaleX, r.ScaleY)
		r.drawImageInCell(backdrop, img, cell, s.Params.Fit, s.Params.Zoom)
		painted = true
	}
	if !painted {
		return
	}

	radius := s.Params.BlurRadius * r.ScaleY
	var blurred image.Image = backdrop
	if radius > 0 {
		blurred = imaging.Blur(backdrop, radius)
	}

	opacity := geometry.Clamp(s.Params.BackdropOpacity, 0, 1)
	result := imaging.Overlay(out, blurred, image.Point{}, opacity)
	draw.Draw(out, out.Bounds(), result, image.Point{}, draw.Src)
}

// drawFreeImages paints freeform rectangles in ascending z order with no
// fit computation and no clipping beyond the surface itself.
func (r *Renderer) drawFreeImages(out *image.RGBA, s *scene.Scene, src Sources) {
	surface := geometry.NewRect(0, 0, r.previewW, r.previewH)
	for _, item := range s.ImagesByZ() {
		if item.Freeform == nil {
			continue
		}
		img := src.ImageFor(item.ID)
		if img == nil {
			continue
		}
		box := geometry.NewRect(item.Freeform.X, item.Freeform.Y, item.Freeform.Width, item.Freeform.Height)
		if !box.Intersects(surface) {
			continue
		}
		rect := box.ScaleXY(r.ScaleX, r.ScaleY).Round()
		if rect.Width <= 0 || rect.Height <= 0 {
			continue
		}
		resized := imaging.Resize(img, rect.Width, rect.Height, imaging.Lanczos)
		target := image.Rect(rect.X, rect.Y, rect.X+rect.Width, rect.Y+rect.Height)
		draw.Draw(out, target, resized, image.Point{}, draw.Over)
	}
}

// drawImageInCell scales the image per the fit policy and zoom, then
// paints it clipped to the cell so overflow never bleeds into neighbors.
func (r *Renderer) drawImageInCell(out *image.RGBA, img image.Image, cell geometry.Rect, policy scene.FitPolicy, zoom float64) {
	b := img.Bounds()
	place := FitRect(b.Dx(), b.Dy(), cell, policy, zoom)
	if place.IsEmpty() {
		return
	}

	pr := place.Round()
	cr := cell.Round()
	if pr.Width <= 0 || pr.Height <= 0 || cr.Width <= 0 || cr.Height <= 0 {
		return
	}

	resized := imaging.Resize(img, pr.Width, pr.Height, imaging.Lanczos)

	cellRect := image.Rect(cr.X, cr.Y, cr.X+cr.Width, cr.Y+cr.Height)
	placeRect := image.Rect(pr.X, pr.Y, pr.X+pr.Width, pr.Y+pr.Height)
	target := placeRect.Intersect(cellRect).Intersect(out.Bounds())
	if target.Empty() {
		return
	}

	srcOffset := image.Pt(target.Min.X-pr.X, target.Min.Y-pr.Y)
	draw.Draw(out, target, resized, srcOffset, draw.Over)
}

func (r *Renderer) drawWatermark(out *image.RGBA, s *scene.Scene, src Sources) {
	wm := s.Watermark
	if wm == nil || wm.SizePct <= 0 {
		return
	}
	img := src.ImageFor(wm.ID)
	if img == nil {
		return
	}

	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return
	}

	width := wm.SizePct / 100 * float64(r.Width)
	height := width * float64(b.Dy()) / float64(b.Dx())
	wi := int(math.Round(width))
	hi := int(math.Round(height))
	if wi <= 0 || hi <= 0 {
		return
	}

	marginX := s.Params.Gap * r.ScaleX
	marginY := s.Params.Gap * r.ScaleY

	var pos image.Point
	switch wm.Anchor {
	case scene.AnchorTopLeft:
		pos = image.Pt(int(marginX), int(marginY))
	case scene.AnchorTopRight:
		pos = image.Pt(r.Width-wi-int(marginX), int(marginY))
	case scene.AnchorBottomLeft:
		pos = image.Pt(int(marginX), r.Height-hi-int(marginY))
	case scene.AnchorCenter:
		pos = image.Pt((r.Width-wi)/2, (r.Height-hi)/2)
	default: // bottom-right
		pos = image.Pt(r.Width-wi-int(marginX), r.Height-hi-int(marginY))
	}

	resized := imaging.Resize(img, wi, hi, imaging.Lanczos)
	opacity := geometry.Clamp(wm.Opacity, 0, 1)
	result := imaging.Overlay(out, resized, pos, opacity)
	draw.Draw(out, out.Bounds(), result, image.Point{}, draw.Src)
}

// Selection chrome dimensions, in preview canvas units.
const (
	selectionDash = 6.0
	handleSize    = 12.0
)

// drawSelection outlines the selected freeform image and draws its resize
// handle. Interactive renderer only.
func (r *Renderer) drawSelection(out *image.RGBA, s *scene.Scene) {
	if !r.ShowSelection || r.SelectedID == "" || s.Params.Mode != scene.ModeFree {
		return
	}
	item := s.ImageByID(r.SelectedID)
	if item == nil || item.Freeform == nil {
		return
	}

	rect := geometry.Rect{
		X:      item.Freeform.X,
		Y:      item.Freeform.Y,
		Width:  item.Freeform.Width,
		Height: item.Freeform.Height,
	}.ScaleXY(r.ScaleX, r.ScaleY).Round()

	dashX := clampDash(int(selectionDash * r.ScaleX))
	dashY := clampDash(int(selectionDash * r.ScaleY))
	r.drawDashedRect(out, rect, dashX, dashY)

	// Resize handle: filled square anchored at the bottom-right corner.
	hw := int(handleSize * r.ScaleX)
	hh := int(handleSize * r.ScaleY)
	hx := rect.X + rect.Width - hw/2
	hy := rect.Y + rect.Height - hh/2
	handle := image.Rect(hx, hy, hx+hw, hy+hh).Intersect(out.Bounds())
	draw.Draw(out, handle, image.NewUniform(colorutil.Selection), image.Point{}, draw.Src)
}

func clampDash(d int) int {
	if d < 2 {
		return 2
	}
	return d
}

// drawDashedRect draws a dashed one-pixel rectangle outline. Horizontal
// runs use dashX, vertical runs dashY, so the pattern scales with its axis.
func (r *Renderer) drawDashedRect(out *image.RGBA, rect geometry.RectInt, dashX, dashY int) {
	bounds := out.Bounds()
	col := colorutil.Selection
	x1, y1 := rect.X, rect.Y
	x2, y2 := rect.X+rect.Width, rect.Y+rect.Height

	on := func(v, dash int) bool { return v%(2*dash) < dash }

	for x := x1; x <= x2; x++ {
		if !on(x-x1, dashX) {
			continue
		}
		if x >= bounds.Min.X && x < bounds.Max.X {
			if y1 >= bounds.Min.Y && y1 < bounds.Max.Y {
				out.SetRGBA(x, y1, col)
			}
			if y2 >= bounds.Min.Y && y2 < bounds.Max.Y {
				out.SetRGBA(x, y2, col)
			}
		}
	}
	for y := y1; y <= y2; y++ {
		if !on(y-y1, dashY) {
			continue
		}
		if y >= bounds.Min.Y && y < bounds.Max.Y {
			if x1 >= bounds.Min.X && x1 < bounds.Max.X {
				out.SetRGBA(x1, y, col)
			}
			if x2 >= bounds.Min.X && x2 < bounds.Max.X {
				out.SetRGBA(x2, y, col)
			}
		}
	}
}

// drawEmptyPrompt renders the add-images hint shown when the scene has no
// images yet.
func (r *Renderer) drawEmptyPrompt(out *image.RGBA) {
	prompt := scene.TextItem{
		Text:   "Add images to start your collage",
		X:      r.previewW / 2,
		Y:      r.previewH / 2,
		Size:   18,
		Family: FamilyRegular,
		Color:  "#888888",
	}
	drawTextLayer(out, &prompt, r.ScaleX, r.ScaleY)
}

// Package canvas provides the interactive collage preview widget.
package canvas

import (
	"image"
	"time"

	"collage-studio/internal/app"
	"collage-studio/internal/interact"
	"collage-studio/internal/render"
	"collage-studio/internal/scene"
	"collage-studio/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// Logical preview dimensions. Scene geometry is authored in this space;
// the raster maps it to whatever pixel size the widget currently has and
// the exporter maps it to the target resolution.
const (
	PreviewWidth  = 960
	PreviewHeight = 720
)

// Refreshing the raster on every pointer event floods the draw loop, so
// drag updates are coalesced to roughly one frame.
const dragRefreshInterval = 16 * time.Millisecond

// CollageCanvas displays the composed scene and routes pointer events to
// the interaction machine.
type CollageCanvas struct {
	widget.BaseWidget

	state   *app.State
	machine *interact.Machine
	raster  *fynecanvas.Raster

	cursor          desktop.Cursor
	lastDragRefresh time.Time

	// Last rendered output for sampling
	lastOutput *image.RGBA

	// Callbacks
	onSceneChange     func()
	onSelectionChange func(id string)
}

var _ fyne.Draggable = (*CollageCanvas)(nil)
var _ fyne.Tappable = (*CollageCanvas)(nil)
var _ desktop.Mouseable = (*CollageCanvas)(nil)
var _ desktop.Hoverable = (*CollageCanvas)(nil)
var _ desktop.Cursorable = (*CollageCanvas)(nil)

// NewCollageCanvas creates the preview widget bound to the given state.
func NewCollageCanvas(st *app.State) *CollageCanvas {
	cc := &CollageCanvas{
		state:  st,
		cursor: desktop.DefaultCursor,
	}
	cc.machine = interact.New(func(t *scene.TextItem) float64 {
		return render.MeasureText(t.Family, t.Size, t.Text)
	})

	cc.raster = fynecanvas.NewRaster(cc.draw)
	cc.raster.ScaleMode = fynecanvas.ImageScaleSmooth
	cc.raster.SetMinSize(fyne.NewSize(400, 300))

	cc.ExtendBaseWidget(cc)
	return cc
}

// Machine returns the interaction state machine.
func (cc *CollageCanvas) Machine() *interact.Machine {
	return cc.machine
}

// Selected returns the id of the selected image, or "".
func (cc *CollageCanvas) Selected() string {
	return cc.machine.Selected()
}

// ClearSelection drops the current selection.
func (cc *CollageCanvas) ClearSelection() {
	cc.machine.ClearSelection()
	cc.Refresh()
}

// OnSceneChange sets a callback invoked after a pointer interaction
// mutates the scene.
func (cc *CollageCanvas) OnSceneChange(callback func()) {
	cc.onSceneChange = callback
}

// OnSelectionChange sets a callback invoked when the selected image
// changes. The id is "" when the selection is cleared.
func (cc *CollageCanvas) OnSelectionChange(callback func(id string)) {
	cc.onSelectionChange = callback
}

// PreviewSize returns the logical dimensions scene geometry is authored in.
func (cc *CollageCanvas) PreviewSize() (w, h int) {
	return PreviewWidth, PreviewHeight
}

// Refresh redraws the raster.
func (cc *CollageCanvas) Refresh() {
	cc.raster.Refresh()
}

// GetRenderedOutput returns the last rendered output for sampling.
func (cc *CollageCanvas) GetRenderedOutput() *image.RGBA {
	return cc.lastOutput
}

// toScene converts a widget-relative position to logical scene coordinates.
func (cc *CollageCanvas) toScene(pos fyne.Position) geometry.Point2D {
	size := cc.Size()
	if size.Width <= 0 || size.Height <= 0 {
		return geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)}
	}
	return geometry.Point2D{
		X: float64(pos.X) * PreviewWidth / float64(size.Width),
		Y: float64(pos.Y) * PreviewHeight / float64(size.Height),
	}
}

// MouseDown starts a drag or resize and updates the selection.
func (cc *CollageCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	before := cc.machine.Selected()
	changed := cc.machine.PointerDown(cc.state.Scene(), cc.toScene(ev.Position))
	if after := cc.machine.Selected(); after != before && cc.onSelectionChange != nil {
		cc.onSelectionChange(after)
	}
	if changed {
		cc.notifySceneChange()
	}
	cc.Refresh()
}

// MouseUp ends any active drag or resize.
func (cc *CollageCanvas) MouseUp(ev *desktop.MouseEvent) {
	cc.machine.PointerUp()
	cc.Refresh()
}

// Dragged moves or resizes the grabbed item.
func (cc *CollageCanvas) Dragged(ev *fyne.DragEvent) {
	if !cc.machine.PointerMove(cc.state.Scene(), cc.toScene(ev.Position)) {
		return
	}
	cc.notifySceneChange()

	now := time.Now()
	if now.Sub(cc.lastDragRefresh) < dragRefreshInterval {
		return
	}
	cc.lastDragRefresh = now
	cc.Refresh()
}

// DragEnd finishes the interaction and forces a final redraw.
func (cc *CollageCanvas) DragEnd() {
	cc.machine.PointerUp()
	cc.Refresh()
}

// Tapped exists so plain clicks reach the widget; selection itself is
// handled in MouseDown.
func (cc *CollageCanvas) Tapped(ev *fyne.PointEvent) {
	// Workaround for Fyne bug: reject clicks outside widget bounds
	size := cc.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}
}

// MouseIn implements desktop.Hoverable.
func (cc *CollageCanvas) MouseIn(ev *desktop.MouseEvent) {
	cc.MouseMoved(ev)
}

// MouseMoved tracks the hover cursor.
func (cc *CollageCanvas) MouseMoved(ev *desktop.MouseEvent) {
	cursor := fyneCursor(cc.machine.CursorFor(cc.state.Scene(), cc.toScene(ev.Position)))
	if cursor != cc.cursor {
		cc.cursor = cursor
	}
}

// MouseOut resets the cursor and any half-finished interaction.
func (cc *CollageCanvas) MouseOut() {
	cc.machine.PointerLeave()
	cc.cursor = desktop.DefaultCursor
	cc.Refresh()
}

// Cursor implements desktop.Cursorable.
func (cc *CollageCanvas) Cursor() desktop.Cursor {
	return cc.cursor
}

func fyneCursor(c interact.Cursor) desktop.Cursor {
	switch c {
	case interact.CursorGrab, interact.CursorGrabbing:
		return desktop.PointerCursor
	case interact.CursorResize:
		return desktop.CrosshairCursor
	default:
		return desktop.DefaultCursor
	}
}

func (cc *CollageCanvas) notifySceneChange() {
	cc.state.MarkModified()
	if cc.onSceneChange != nil {
		cc.onSceneChange()
	}
}

// draw is the raster drawing function.
func (cc *CollageCanvas) draw(w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}

	r := render.NewScaled(w, h, PreviewWidth, PreviewHeight)
	r.ShowSelection = true
	r.SelectedID = cc.machine.Selected()

	output := r.Render(cc.state.Scene(), cc.state.Sources())
	cc.lastOutput = output
	return output
}

// CreateRenderer implements fyne.Widget.
func (cc *CollageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &collageCanvasRenderer{canvas: cc}
}

type collageCanvasRenderer struct {
	canvas *CollageCanvas
}

func (r *collageCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *collageCanvasRenderer) MinSize() fyne.Size {
	return r.canvas.raster.MinSize()
}

func (r *collageCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *collageCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *collageCanvasRenderer) Destroy() {}

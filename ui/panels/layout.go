package panels

import (
	"fmt"

	"collage-studio/internal/app"
	"collage-studio/internal/scene"
	"collage-studio/internal/source"
	"collage-studio/pkg/colorutil"
	"collage-studio/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// LayoutPanel controls the layout mode, its parameters and the canvas
// background.
type LayoutPanel struct {
	state     *app.State
	canvas    *canvas.CollageCanvas
	window    fyne.Window
	container fyne.CanvasObject

	modeSelect    *widget.Select
	gapSlider     *widget.Slider
	zoomSlider    *widget.Slider
	fitRadio      *widget.RadioGroup
	focusZoom     *widget.Slider
	blurSlider    *widget.Slider
	backdropSlide *widget.Slider
	bgColorEntry  *widget.Entry
}

var layoutModes = []scene.LayoutMode{
	scene.ModeGrid,
	scene.ModeLeftBig,
	scene.ModeRightBig,
	scene.ModeTopBig,
	scene.ModeBottomBig,
	scene.ModeSingleFocus,
	scene.ModeFree,
}

// NewLayoutPanel creates a new layout panel.
func NewLayoutPanel(state *app.State, cvs *canvas.CollageCanvas) *LayoutPanel {
	lp := &LayoutPanel{
		state:  state,
		canvas: cvs,
	}

	names := make([]string, len(layoutModes))
	for i, m := range layoutModes {
		names[i] = m.String()
	}
	lp.modeSelect = widget.NewSelect(names, func(selected string) {
		mode, err := scene.ParseMode(selected)
		if err != nil {
			return
		}
		w, h := cvs.PreviewSize()
		state.SetMode(mode, float64(w), float64(h))
		cvs.Refresh()
	})

	lp.gapSlider = widget.NewSlider(0, 64)
	lp.gapSlider.Step = 1
	lp.gapSlider.OnChanged = func(v float64) {
		state.Scene().Params.Gap = v
		state.MarkModified()
		cvs.Refresh()
	}

	lp.zoomSlider = widget.NewSlider(0.5, 2.0)
	lp.zoomSlider.Step = 0.05
	lp.zoomSlider.OnChanged = func(v float64) {
		state.Scene().Params.Zoom = v
		state.MarkModified()
		cvs.Refresh()
	}

	lp.fitRadio = widget.NewRadioGroup([]string{"cover", "contain"}, func(selected string) {
		fit, err := scene.ParseFit(selected)
		if err != nil {
			return
		}
		state.Scene().Params.Fit = fit
		state.MarkModified()
		cvs.Refresh()
	})
	lp.fitRadio.Horizontal = true

	lp.focusZoom = widget.NewSlider(1.0, 3.0)
	lp.focusZoom.Step = 0.05
	lp.focusZoom.OnChanged = func(v float64) {
		state.Scene().Params.FocusZoom = v
		state.MarkModified()
		cvs.Refresh()
	}

	lp.blurSlider = widget.NewSlider(0, 30)
	lp.blurSlider.Step = 1
	lp.blurSlider.OnChanged = func(v float64) {
		state.Scene().Params.BlurRadius = v
		state.MarkModified()
		cvs.Refresh()
	}

	lp.backdropSlide = widget.NewSlider(0, 1)
	lp.backdropSlide.Step = 0.05
	lp.backdropSlide.OnChanged = func(v float64) {
		state.Scene().Params.BackdropOpacity = v
		state.MarkModified()
		cvs.Refresh()
	}

	lp.bgColorEntry = widget.NewEntry()
	lp.bgColorEntry.SetPlaceHolder("#ffffff")
	applyColor := widget.NewButton("Apply Color", func() {
		// Normalize to canonical "#rrggbb" so the entry shows what was
		// actually applied.
		hex := colorutil.FormatHex(colorutil.ParseHex(lp.bgColorEntry.Text))
		state.SetBackgroundColor(hex)
		lp.bgColorEntry.SetText(hex)
		cvs.Refresh()
	})
	bgImageButton := widget.NewButton("Background Image...", func() {
		lp.chooseBackgroundImage()
	})
	clearBgButton := widget.NewButton("Clear Image", func() {
		state.SetBackgroundColor(state.Scene().Background.Color)
		cvs.Refresh()
	})

	lp.container = container.NewVBox(
		widget.NewCard("Layout Mode", "", container.NewVBox(
			lp.modeSelect,
		)),
		widget.NewCard("Parameters", "", container.NewVBox(
			widget.NewLabel("Gap:"),
			lp.gapSlider,
			widget.NewLabel("Zoom:"),
			lp.zoomSlider,
			widget.NewLabel("Fit:"),
			lp.fitRadio,
		)),
		widget.NewCard("Single Focus", "", container.NewVBox(
			widget.NewLabel("Focus Zoom:"),
			lp.focusZoom,
			widget.NewLabel("Backdrop Blur:"),
			lp.blurSlider,
			widget.NewLabel("Backdrop Opacity:"),
			lp.backdropSlide,
		)),
		widget.NewCard("Background", "", container.NewVBox(
			lp.bgColorEntry,
			applyColor,
			container.NewHBox(bgImageButton, clearBgButton),
		)),
	)

	state.On(app.EventProjectLoaded, func(data interface{}) {
		lp.Sync()
	})
	state.On(app.EventModeChanged, func(data interface{}) {
		lp.Sync()
	})

	lp.Sync()
	return lp
}

// SetWindow sets the parent window for dialogs.
func (lp *LayoutPanel) SetWindow(w fyne.Window) {
	lp.window = w
}

// Container returns the panel container.
func (lp *LayoutPanel) Container() fyne.CanvasObject {
	return lp.container
}

// Sync refreshes all controls from the current scene parameters.
func (lp *LayoutPanel) Sync() {
	p := lp.state.Scene().Params
	lp.modeSelect.SetSelected(p.Mode.String())
	lp.gapSlider.SetValue(p.Gap)
	lp.zoomSlider.SetValue(p.Zoom)
	lp.fitRadio.SetSelected(p.Fit.String())
	lp.focusZoom.SetValue(p.FocusZoom)
	lp.blurSlider.SetValue(p.BlurRadius)
	lp.backdropSlide.SetValue(p.BackdropOpacity)
	lp.bgColorEntry.SetText(lp.state.Scene().Background.Color)
}

func (lp *LayoutPanel) chooseBackgroundImage() {
	if lp.window == nil {
		return
	}
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		if err := lp.state.SetBackgroundImage(path); err != nil {
			dialog.ShowError(fmt.Errorf("failed to load background: %w", err), lp.window)
			return
		}
		lp.canvas.Refresh()
	}, lp.window)
	fd.SetFilter(storage.NewExtensionFileFilter(source.SupportedFormats()))
	fd.Show()
}

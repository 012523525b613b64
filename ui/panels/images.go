package panels

import (
	"fmt"
	"path/filepath"

	"collage-studio/internal/app"
	"collage-studio/internal/scene"
	"collage-studio/internal/source"
	"collage-studio/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

// ImagesPanel manages the image list, z-order and the watermark.
type ImagesPanel struct {
	state     *app.State
	canvas    *canvas.CollageCanvas
	window    fyne.Window
	container fyne.CanvasObject

	imageList   *widget.List
	selectedRow int

	watermarkLabel *widget.Label
	opacitySlider  *widget.Slider
	sizeSlider     *widget.Slider
	anchorSelect   *widget.Select
}

var watermarkAnchors = []scene.Anchor{
	scene.AnchorTopLeft,
	scene.AnchorTopRight,
	scene.AnchorBottomLeft,
	scene.AnchorBottomRight,
	scene.AnchorCenter,
}

// NewImagesPanel creates a new images panel.
func NewImagesPanel(state *app.State, cvs *canvas.CollageCanvas) *ImagesPanel {
	ip := &ImagesPanel{
		state:       state,
		canvas:      cvs,
		selectedRow: -1,
	}

	ip.imageList = widget.NewList(
		func() int {
			return len(state.Scene().Images)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			images := state.Scene().Images
			if i < 0 || i >= len(images) {
				return
			}
			label := obj.(*widget.Label)
			label.SetText(ip.displayName(images[i].ID))
		},
	)
	ip.imageList.OnSelected = func(i widget.ListItemID) {
		ip.selectedRow = i
	}
	ip.imageList.OnUnselected = func(i widget.ListItemID) {
		if ip.selectedRow == i {
			ip.selectedRow = -1
		}
	}

	addButton := widget.NewButton("Add Image...", func() {
		ip.chooseImage()
	})
	removeButton := widget.NewButton("Remove", func() {
		if id := ip.selectedID(); id != "" {
			state.RemoveImage(id)
			ip.selectedRow = -1
			ip.imageList.UnselectAll()
			cvs.Refresh()
		}
	})

	frontButton := widget.NewButton("Bring to Front", func() {
		ip.reorder(func(s *scene.Scene, id string) { s.BringToFront(id) })
	})
	backButton := widget.NewButton("Send to Back", func() {
		ip.reorder(func(s *scene.Scene, id string) { s.SendToBack(id) })
	})

	ip.watermarkLabel = widget.NewLabel("No watermark")

	ip.opacitySlider = widget.NewSlider(0.05, 1.0)
	ip.opacitySlider.Step = 0.05
	ip.opacitySlider.SetValue(0.5)
	ip.opacitySlider.OnChanged = func(v float64) {
		if wm := state.Scene().Watermark; wm != nil {
			wm.Opacity = v
			state.MarkModified()
			cvs.Refresh()
		}
	}

	ip.sizeSlider = widget.NewSlider(5, 50)
	ip.sizeSlider.Step = 1
	ip.sizeSlider.SetValue(20)
	ip.sizeSlider.OnChanged = func(v float64) {
		if wm := state.Scene().Watermark; wm != nil {
			wm.SizePct = v
			state.MarkModified()
			cvs.Refresh()
		}
	}

	anchorNames := make([]string, len(watermarkAnchors))
	for i, a := range watermarkAnchors {
		anchorNames[i] = string(a)
	}
	ip.anchorSelect = widget.NewSelect(anchorNames, func(selected string) {
		if wm := state.Scene().Watermark; wm != nil {
			wm.Anchor = scene.Anchor(selected)
			state.MarkModified()
			cvs.Refresh()
		}
	})
	ip.anchorSelect.SetSelected(string(scene.AnchorBottomRight))

	watermarkButton := widget.NewButton("Set Watermark...", func() {
		ip.chooseWatermark()
	})
	clearWatermark := widget.NewButton("Clear", func() {
		state.ClearWatermark()
		ip.syncWatermark()
		cvs.Refresh()
	})

	ip.container = container.NewVBox(
		widget.NewCard("Images", "", container.NewVBox(
			container.NewHBox(addButton, removeButton),
			ip.imageList,
			container.NewHBox(frontButton, backButton),
		)),
		widget.NewCard("Watermark", "", container.NewVBox(
			ip.watermarkLabel,
			container.NewHBox(watermarkButton, clearWatermark),
			widget.NewLabel("Opacity:"),
			ip.opacitySlider,
			widget.NewLabel("Size (% of width):"),
			ip.sizeSlider,
			widget.NewLabel("Anchor:"),
			ip.anchorSelect,
		)),
	)

	state.On(app.EventImagesChanged, func(data interface{}) {
		ip.imageList.Refresh()
		cvs.Refresh()
	})
	state.On(app.EventProjectLoaded, func(data interface{}) {
		ip.selectedRow = -1
		ip.imageList.UnselectAll()
		ip.syncWatermark()
	})

	// Clicking an image on the canvas selects the matching list row.
	cvs.OnSelectionChange(func(id string) {
		for i, it := range state.Scene().Images {
			if it.ID == id {
				ip.imageList.Select(i)
				return
			}
		}
		ip.imageList.UnselectAll()
	})

	return ip
}

// SetWindow sets the parent window for dialogs.
func (ip *ImagesPanel) SetWindow(w fyne.Window) {
	ip.window = w
}

// Container returns the panel container.
func (ip *ImagesPanel) Container() fyne.CanvasObject {
	return ip.container
}

func (ip *ImagesPanel) displayName(id string) string {
	if src := ip.state.Sources().Get(id); src != nil && src.Path != "" {
		name := filepath.Base(src.Path)
		if src.Err != nil {
			return name + " (failed)"
		}
		return name
	}
	return id
}

func (ip *ImagesPanel) selectedID() string {
	images := ip.state.Scene().Images
	if ip.selectedRow < 0 || ip.selectedRow >= len(images) {
		return ""
	}
	return images[ip.selectedRow].ID
}

func (ip *ImagesPanel) reorder(apply func(s *scene.Scene, id string)) {
	id := ip.selectedID()
	if id == "" {
		id = ip.canvas.Selected()
	}
	if id == "" {
		return
	}
	s := ip.state.Scene()
	if s.Params.Mode != scene.ModeFree {
		return
	}
	apply(s, id)
	ip.state.MarkModified()
	ip.canvas.Refresh()
}

func (ip *ImagesPanel) chooseImage() {
	if ip.window == nil {
		return
	}
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		ids := ip.state.AddImages([]string{path})
		for _, id := range ids {
			if src := ip.state.Sources().Get(id); src != nil && src.Err != nil {
				dialog.ShowError(fmt.Errorf("failed to load image: %w", src.Err), ip.window)
			}
		}
	}, ip.window)
	fd.SetFilter(storage.NewExtensionFileFilter(source.SupportedFormats()))
	fd.Show()
}

func (ip *ImagesPanel) chooseWatermark() {
	if ip.window == nil {
		return
	}
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		anchor := scene.Anchor(ip.anchorSelect.Selected)
		err = ip.state.SetWatermark(path, ip.opacitySlider.Value, ip.sizeSlider.Value, anchor)
		if err != nil {
			dialog.ShowError(err, ip.window)
			return
		}
		ip.syncWatermark()
		ip.canvas.Refresh()
	}, ip.window)
	fd.SetFilter(storage.NewExtensionFileFilter(source.SupportedFormats()))
	fd.Show()
}

func (ip *ImagesPanel) syncWatermark() {
	wm := ip.state.Scene().Watermark
	if wm == nil {
		ip.watermarkLabel.SetText("No watermark")
		return
	}
	ip.watermarkLabel.SetText(ip.displayName(wm.ID))
	ip.opacitySlider.SetValue(wm.Opacity)
	ip.sizeSlider.SetValue(wm.SizePct)
	ip.anchorSelect.SetSelected(string(wm.Anchor))
}

package panels

import (
	"collage-studio/internal/app"
	"collage-studio/internal/render"
	"collage-studio/internal/scene"
	"collage-studio/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// TextPanel manages free-text layers.
type TextPanel struct {
	state     *app.State
	canvas    *canvas.CollageCanvas
	container fyne.CanvasObject

	textList    *widget.List
	selectedRow int

	textEntry      *widget.Entry
	sizeSlider     *widget.Slider
	rotationSlider *widget.Slider
	familySelect   *widget.Select
	colorEntry     *widget.Entry
	shadowCheck    *widget.Check
	bgColorEntry   *widget.Entry
	bgOpacity      *widget.Slider
	paddingSlider  *widget.Slider

	// Guard against slider callbacks firing while controls are being
	// programmatically synced to a newly selected layer.
	syncing bool
}

// NewTextPanel creates a new text panel.
func NewTextPanel(state *app.State, cvs *canvas.CollageCanvas) *TextPanel {
	tp := &TextPanel{
		state:       state,
		canvas:      cvs,
		selectedRow: -1,
	}

	tp.textList = widget.NewList(
		func() int {
			return len(state.Scene().Texts)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(i widget.ListItemID, obj fyne.CanvasObject) {
			texts := state.Scene().Texts
			if i < 0 || i >= len(texts) {
				return
			}
			obj.(*widget.Label).SetText(texts[i].Text)
		},
	)
	tp.textList.OnSelected = func(i widget.ListItemID) {
		tp.selectedRow = i
		tp.syncControls()
	}
	tp.textList.OnUnselected = func(i widget.ListItemID) {
		if tp.selectedRow == i {
			tp.selectedRow = -1
		}
	}

	addButton := widget.NewButton("Add Text", func() {
		w, h := cvs.PreviewSize()
		tp.state.AddText("New text", float64(w)/2, float64(h)/2)
		tp.textList.Refresh()
		tp.textList.Select(len(state.Scene().Texts) - 1)
		cvs.Refresh()
	})
	removeButton := widget.NewButton("Remove", func() {
		if t := tp.selected(); t != nil {
			tp.state.RemoveText(t.ID)
			tp.selectedRow = -1
			tp.textList.UnselectAll()
			tp.textList.Refresh()
			cvs.Refresh()
		}
	})

	tp.textEntry = widget.NewEntry()
	tp.textEntry.OnChanged = func(text string) {
		if t := tp.selected(); t != nil && !tp.syncing {
			t.Text = text
			state.MarkModified()
			tp.textList.Refresh()
			cvs.Refresh()
		}
	}

	tp.sizeSlider = widget.NewSlider(8, 128)
	tp.sizeSlider.Step = 1
	tp.sizeSlider.OnChanged = func(v float64) {
		if t := tp.selected(); t != nil && !tp.syncing {
			t.Size = v
			state.MarkModified()
			cvs.Refresh()
		}
	}

	tp.rotationSlider = widget.NewSlider(-180, 180)
	tp.rotationSlider.Step = 1
	tp.rotationSlider.OnChanged = func(v float64) {
		if t := tp.selected(); t != nil && !tp.syncing {
			t.Rotation = v
			state.MarkModified()
			cvs.Refresh()
		}
	}

	tp.familySelect = widget.NewSelect(render.Families(), func(selected string) {
		if t := tp.selected(); t != nil && !tp.syncing {
			t.Family = selected
			state.MarkModified()
			cvs.Refresh()
		}
	})

	tp.colorEntry = widget.NewEntry()
	tp.colorEntry.SetPlaceHolder("#000000")
	tp.colorEntry.OnChanged = func(text string) {
		if t := tp.selected(); t != nil && !tp.syncing {
			t.Color = text
			state.MarkModified()
			cvs.Refresh()
		}
	}

	tp.shadowCheck = widget.NewCheck("Drop Shadow", func(checked bool) {
		if t := tp.selected(); t != nil && !tp.syncing {
			t.Shadow = checked
			state.MarkModified()
			cvs.Refresh()
		}
	})

	tp.bgColorEntry = widget.NewEntry()
	tp.bgColorEntry.SetPlaceHolder("none")
	tp.bgColorEntry.OnChanged = func(text string) {
		if t := tp.selected(); t != nil && !tp.syncing {
			if text == "none" {
				text = ""
			}
			t.Background = text
			state.MarkModified()
			cvs.Refresh()
		}
	}

	tp.bgOpacity = widget.NewSlider(0, 1)
	tp.bgOpacity.Step = 0.05
	tp.bgOpacity.OnChanged = func(v float64) {
		if t := tp.selected(); t != nil && !tp.syncing {
			t.BackgroundOpacity = v
			state.MarkModified()
			cvs.Refresh()
		}
	}

	tp.paddingSlider = widget.NewSlider(0, 32)
	tp.paddingSlider.Step = 1
	tp.paddingSlider.OnChanged = func(v float64) {
		if t := tp.selected(); t != nil && !tp.syncing {
			t.Padding = v
			state.MarkModified()
			cvs.Refresh()
		}
	}

	tp.container = container.NewVBox(
		widget.NewCard("Text Layers", "", container.NewVBox(
			container.NewHBox(addButton, removeButton),
			tp.textList,
		)),
		widget.NewCard("Selected Layer", "", container.NewVBox(
			tp.textEntry,
			widget.NewLabel("Size:"),
			tp.sizeSlider,
			widget.NewLabel("Rotation:"),
			tp.rotationSlider,
			widget.NewLabel("Font:"),
			tp.familySelect,
			widget.NewLabel("Color:"),
			tp.colorEntry,
			tp.shadowCheck,
			widget.NewLabel("Background Color:"),
			tp.bgColorEntry,
			widget.NewLabel("Background Opacity:"),
			tp.bgOpacity,
			widget.NewLabel("Padding:"),
			tp.paddingSlider,
		)),
	)

	state.On(app.EventTextsChanged, func(data interface{}) {
		tp.textList.Refresh()
	})
	state.On(app.EventProjectLoaded, func(data interface{}) {
		tp.selectedRow = -1
		tp.textList.UnselectAll()
		tp.textList.Refresh()
	})

	return tp
}

// Container returns the panel container.
func (tp *TextPanel) Container() fyne.CanvasObject {
	return tp.container
}

func (tp *TextPanel) selected() *scene.TextItem {
	texts := tp.state.Scene().Texts
	if tp.selectedRow < 0 || tp.selectedRow >= len(texts) {
		return nil
	}
	return texts[tp.selectedRow]
}

func (tp *TextPanel) syncControls() {
	t := tp.selected()
	if t == nil {
		return
	}
	tp.syncing = true
	tp.textEntry.SetText(t.Text)
	tp.sizeSlider.SetValue(t.Size)
	tp.rotationSlider.SetValue(t.Rotation)
	tp.familySelect.SetSelected(t.Family)
	tp.colorEntry.SetText(t.Color)
	tp.shadowCheck.SetChecked(t.Shadow)
	if t.Background == "" {
		tp.bgColorEntry.SetText("none")
	} else {
		tp.bgColorEntry.SetText(t.Background)
	}
	tp.bgOpacity.SetValue(t.BackgroundOpacity)
	tp.paddingSlider.SetValue(t.Padding)
	tp.syncing = false
}

// Package panels provides UI panels for the application.
package panels

import (
	"collage-studio/internal/app"
	"collage-studio/ui/canvas"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
)

// SidePanel provides the main side panel with tabbed sections.
type SidePanel struct {
	state     *app.State
	canvas    *canvas.CollageCanvas
	container *container.AppTabs

	// Tab content
	layoutPanel *LayoutPanel
	imagesPanel *ImagesPanel
	textPanel   *TextPanel
}

// NewSidePanel creates a new side panel.
func NewSidePanel(state *app.State, cvs *canvas.CollageCanvas) *SidePanel {
	sp := &SidePanel{
		state:  state,
		canvas: cvs,
	}

	// Create individual panels
	sp.layoutPanel = NewLayoutPanel(state, cvs)
	sp.imagesPanel = NewImagesPanel(state, cvs)
	sp.textPanel = NewTextPanel(state, cvs)

	// Create tabbed container
	sp.container = container.NewAppTabs(
		container.NewTabItem("Layout", sp.layoutPanel.Container()),
		container.NewTabItem("Images", sp.imagesPanel.Container()),
		container.NewTabItem("Text", sp.textPanel.Container()),
	)

	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// SetWindow sets the parent window for dialogs.
func (sp *SidePanel) SetWindow(w fyne.Window) {
	sp.layoutPanel.SetWindow(w)
	sp.imagesPanel.SetWindow(w)
}

// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"collage-studio/internal/app"
	"collage-studio/internal/export"
	"collage-studio/internal/project"
	"collage-studio/internal/scene"
	"collage-studio/internal/version"
	"collage-studio/ui/canvas"
	"collage-studio/ui/panels"
	"collage-studio/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const appTitle = "Collage Studio"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	state     *app.State
	prefs     *prefs.Prefs
	canvas    *canvas.CollageCanvas
	sidePanel *panels.SidePanel
	statusBar *widget.Label
	exporter  *export.Exporter
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State, pf *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window:   win,
		app:      fyneApp,
		state:    state,
		prefs:    pf,
		exporter: export.New(),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	w := pf.FloatWithFallback(prefs.KeyWindowWidth, 1280)
	h := pf.FloatWithFallback(prefs.KeyWindowHeight, 800)
	win.Resize(fyne.NewSize(float32(w), float32(h)))

	win.SetCloseIntercept(func() {
		size := win.Canvas().Size()
		pf.SetFloat(prefs.KeyWindowWidth, float64(size.Width))
		pf.SetFloat(prefs.KeyWindowHeight, float64(size.Height))
		if err := pf.Save(); err != nil {
			log.Printf("Failed to save preferences: %v", err)
		}
		fyneApp.Quit()
	})

	mw.restoreLastMode()

	return mw
}

// restoreLastMode applies the layout mode from the previous session to the
// fresh scene. A project loaded afterwards overrides it.
func (mw *MainWindow) restoreLastMode() {
	mode, err := scene.ParseMode(mw.prefs.String(prefs.KeyLastMode))
	if err != nil {
		return
	}
	w, h := mw.canvas.PreviewSize()
	mw.state.SetMode(mode, float64(w), float64(h))
	mw.canvas.Refresh()
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewCollageCanvas(mw.state)

	mw.sidePanel = panels.NewSidePanel(mw.state, mw.canvas)
	mw.sidePanel.SetWindow(mw.Window)

	mw.statusBar = widget.NewLabel("Ready")

	// Main layout: side panel | canvas
	split := container.NewHSplit(
		mw.sidePanel.Container(),
		mw.canvas,
	)
	split.SetOffset(0.25)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		split,                             // center
	)

	mw.SetContent(content)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("New Project", mw.onNewProject),
		fyne.NewMenuItem("Open Project...", mw.onOpenProject),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Save Project", mw.onSaveProject),
		fyne.NewMenuItem("Save Project As...", mw.onSaveProjectAs),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export PNG...", mw.onExport),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventProjectLoaded, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle(appTitle + " - " + filepath.Base(path))
			mw.updateStatus("Project loaded: " + path)
		}
		mw.canvas.Refresh()
	})

	mw.state.On(app.EventProjectSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.SetTitle(appTitle + " - " + filepath.Base(path))
			mw.updateStatus("Project saved: " + path)
		}
	})

	mw.state.On(app.EventModeChanged, func(data interface{}) {
		if mode, ok := data.(scene.LayoutMode); ok {
			mw.prefs.SetString(prefs.KeyLastMode, mode.String())
			if err := mw.prefs.Save(); err != nil {
				log.Printf("Failed to save preferences: %v", err)
			}
		}
	})

	mw.state.On(app.EventModified, func(data interface{}) {
		if modified, ok := data.(bool); ok && modified {
			title := mw.Title()
			if len(title) > 0 && title[len(title)-1] != '*' {
				mw.SetTitle(title + " *")
			}
		}
	})
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// lastDir returns a remembered directory as a ListableURI, or nil.
func (mw *MainWindow) lastDir(key string) fyne.ListableURI {
	path := mw.prefs.String(key)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir remembers the directory of the given file path.
func (mw *MainWindow) saveLastDir(key, filePath string) {
	mw.prefs.SetString(key, filepath.Dir(filePath))
	if err := mw.prefs.Save(); err != nil {
		mw.updateStatus("Failed to save preferences: " + err.Error())
	}
}

// Menu action handlers

func (mw *MainWindow) onNewProject() {
	mw.state.LoadNew()
	mw.canvas.ClearSelection()
	mw.SetTitle(appTitle + " - New Project")
	mw.canvas.Refresh()
}

func (mw *MainWindow) onOpenProject() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(prefs.KeyLastProjectDir, path)
		mw.canvas.ClearSelection()
		if err := mw.state.LoadProject(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{project.Extension}))
	if loc := mw.lastDir(prefs.KeyLastProjectDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onSaveProject() {
	if mw.state.ProjectPath == "" {
		mw.onSaveProjectAs()
		return
	}
	mw.saveProjectTo(mw.state.ProjectPath)
}

func (mw *MainWindow) onSaveProjectAs() {
	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		mw.saveLastDir(prefs.KeyLastProjectDir, path)
		mw.saveProjectTo(path)
	}, mw.Window)
	fd.SetFileName("project" + project.Extension)
	if loc := mw.lastDir(prefs.KeyLastProjectDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) saveProjectTo(path string) {
	w, h := mw.canvas.PreviewSize()
	if err := mw.state.SaveProject(path, w, h); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onExport() {
	if mw.exporter.InFlight() {
		mw.updateStatus("Export already in progress")
		return
	}

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		writer.Close()
		path := writer.URI().Path()
		if filepath.Ext(path) != ".png" {
			path += ".png"
		}
		mw.saveLastDir(prefs.KeyLastExportDir, path)
		mw.runExport(path)
	}, mw.Window)
	fd.SetFileName(export.DefaultFilename)
	if loc := mw.lastDir(prefs.KeyLastExportDir); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) runExport(path string) {
	targetW := int(mw.prefs.FloatWithFallback(prefs.KeyExportWidth, export.DefaultWidth))
	targetH := int(mw.prefs.FloatWithFallback(prefs.KeyExportHeight, export.DefaultHeight))
	previewW, previewH := mw.canvas.PreviewSize()

	req := mw.state.ExportRequest(previewW, previewH, targetW, targetH)
	ch, err := mw.exporter.Dispatch(req)
	if err != nil {
		mw.updateStatus("Export already in progress")
		return
	}
	mw.updateStatus(fmt.Sprintf("Exporting %dx%d...", targetW, targetH))

	go func() {
		resp := <-ch
		if resp.Err != nil {
			mw.updateStatus("Export failed: " + resp.Err.Error())
			return
		}
		if err := os.WriteFile(path, resp.PNG, 0o644); err != nil {
			mw.updateStatus("Export failed: " + err.Error())
			return
		}
		mw.updateStatus("Exported " + path)
	}()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Collage Studio",
		fmt.Sprintf("Collage Studio v%s\n\n"+
			"A photo collage layout and compositing tool.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}

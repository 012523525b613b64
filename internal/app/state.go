// Package app provides application state and lifecycle management.
package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"collage-studio/internal/export"
	"collage-studio/internal/layout"
	"collage-studio/internal/project"
	"collage-studio/internal/scene"
	"collage-studio/internal/source"
)

// EventType identifies different application events.
type EventType int

const (
	EventProjectLoaded EventType = iota
	EventProjectSaved
	EventImagesChanged
	EventTextsChanged
	EventSceneChanged
	EventModeChanged
	EventModified
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the application state: the scene, its decoded sources and
// the current project file. Interactive mutation happens on the UI thread;
// the mutex covers the points where background work (export dispatch,
// project loading) reads or replaces the model.
type State struct {
	mu sync.RWMutex

	ProjectPath string
	Modified    bool

	scene   *scene.Scene
	sources *source.Registry

	// Event listeners
	listeners map[EventType][]EventListener
}

// NewState creates an empty application state.
func NewState() *State {
	return &State{
		scene:     scene.New(),
		sources:   source.NewRegistry(),
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (st *State) On(event EventType, listener EventListener) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.listeners[event] = append(st.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (st *State) Emit(event EventType, data interface{}) {
	st.mu.RLock()
	listeners := st.listeners[event]
	st.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Scene returns the live scene model for UI-thread use.
func (st *State) Scene() *scene.Scene {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.scene
}

// Sources returns the source registry.
func (st *State) Sources() *source.Registry {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.sources
}

// MarkModified flags the project as having unsaved changes.
func (st *State) MarkModified() {
	st.mu.Lock()
	st.Modified = true
	st.mu.Unlock()
	st.Emit(EventModified, true)
}

// AddImages decodes the given files concurrently and appends one image
// item per file, in input order. Files that fail to decode still get an
// item; they simply stay blank until replaced or removed.
func (st *State) AddImages(paths []string) []string {
	st.mu.Lock()
	ids := st.sources.LoadAll(paths)
	for _, id := range ids {
		st.scene.AddImage(id)
	}
	st.Modified = true
	st.mu.Unlock()

	st.Emit(EventImagesChanged, ids)
	st.Emit(EventModified, true)
	return ids
}

// RemoveImage drops an image item and its decoded source.
func (st *State) RemoveImage(id string) {
	st.mu.Lock()
	st.scene.RemoveImage(id)
	st.sources.Remove(id)
	st.Modified = true
	st.mu.Unlock()

	st.Emit(EventImagesChanged, nil)
	st.Emit(EventModified, true)
}

// LoadNew resets to an empty scene with no project file.
func (st *State) LoadNew() {
	st.mu.Lock()
	st.scene = scene.New()
	st.sources = source.NewRegistry()
	st.ProjectPath = ""
	st.Modified = false
	st.mu.Unlock()

	st.Emit(EventImagesChanged, nil)
	st.Emit(EventTextsChanged, nil)
	st.Emit(EventModified, false)
}

// AddText appends a new text layer centered at the given position and
// returns it.
func (st *State) AddText(text string, x, y float64) *scene.TextItem {
	st.mu.Lock()
	n := 0
	for _, t := range st.scene.Texts {
		var i int
		if _, err := fmt.Sscanf(t.ID, "text-%d", &i); err == nil && i > n {
			n = i
		}
	}
	item := st.scene.AddText(scene.TextItem{
		ID:                fmt.Sprintf("text-%d", n+1),
		Text:              text,
		X:                 x,
		Y:                 y,
		Size:              32,
		Family:            "regular",
		Color:             "#000000",
		BackgroundOpacity: 1,
		Padding:           8,
	})
	st.Modified = true
	st.mu.Unlock()

	st.Emit(EventTextsChanged, item.ID)
	return item
}

// RemoveText drops a text layer.
func (st *State) RemoveText(id string) {
	st.mu.Lock()
	st.scene.RemoveText(id)
	st.Modified = true
	st.mu.Unlock()

	st.Emit(EventTextsChanged, nil)
}

// SetWatermark loads a watermark image and attaches it to the scene,
// replacing any previous watermark.
func (st *State) SetWatermark(path string, opacity, sizePct float64, anchor scene.Anchor) error {
	st.mu.Lock()
	id := st.sources.NewID()
	src, err := source.Load(id, path)
	if err != nil {
		st.mu.Unlock()
		return fmt.Errorf("watermark: %w", err)
	}
	if st.scene.Watermark != nil {
		st.sources.Remove(st.scene.Watermark.ID)
	}
	st.sources.Put(src)
	st.scene.Watermark = &scene.Watermark{
		ID:      id,
		Opacity: opacity,
		SizePct: sizePct,
		Anchor:  anchor,
	}
	st.Modified = true
	st.mu.Unlock()

	st.Emit(EventSceneChanged, nil)
	return nil
}

// ClearWatermark removes the watermark.
func (st *State) ClearWatermark() {
	st.mu.Lock()
	if st.scene.Watermark == nil {
		st.mu.Unlock()
		return
	}
	st.sources.Remove(st.scene.Watermark.ID)
	st.scene.Watermark = nil
	st.Modified = true
	st.mu.Unlock()

	st.Emit(EventSceneChanged, nil)
}

// SetBackgroundImage loads an image background stretched to fill the canvas.
func (st *State) SetBackgroundImage(path string) error {
	st.mu.Lock()
	id := st.sources.NewID()
	src, err := source.Load(id, path)
	if err != nil {
		st.mu.Unlock()
		return fmt.Errorf("background: %w", err)
	}
	if st.scene.Background.ImageID != "" {
		st.sources.Remove(st.scene.Background.ImageID)
	}
	st.sources.Put(src)
	st.scene.Background.ImageID = id
	st.Modified = true
	st.mu.Unlock()

	st.Emit(EventSceneChanged, nil)
	return nil
}

// SetBackgroundColor switches to a solid color background.
func (st *State) SetBackgroundColor(hex string) {
	st.mu.Lock()
	if st.scene.Background.ImageID != "" {
		st.sources.Remove(st.scene.Background.ImageID)
		st.scene.Background.ImageID = ""
	}
	st.scene.Background.Color = hex
	st.Modified = true
	st.mu.Unlock()

	st.Emit(EventSceneChanged, nil)
}

// SetMode switches the layout mode. Entering free placement seeds each
// image's geometry from the current algorithmic placements at the given
// canvas size; leaving it discards all freeform geometry.
func (st *State) SetMode(mode scene.LayoutMode, canvasW, canvasH float64) {
	st.mu.Lock()
	s := st.scene
	if mode == s.Params.Mode {
		st.mu.Unlock()
		return
	}
	if mode == scene.ModeFree {
		placements := layout.ForMode(canvasW, canvasH, len(s.Images), s.Params.Gap, s.Params.Mode)
		s.EnterFreeLayout(placements)
	} else {
		s.LeaveFreeLayout(mode)
	}
	st.Modified = true
	st.mu.Unlock()

	st.Emit(EventModeChanged, mode)
	st.Emit(EventSceneChanged, nil)
}

// ExportRequest assembles a plain-data export request: a deep scene clone
// plus independently-owned bitmap copies, safe to hand to the export
// goroutine without further coordination.
func (st *State) ExportRequest(previewW, previewH, targetW, targetH int) export.Request {
	st.mu.RLock()
	defer st.mu.RUnlock()

	return export.Request{
		Scene:         st.scene.Clone(),
		Images:        st.sources.CopyImages(),
		PreviewWidth:  previewW,
		PreviewHeight: previewH,
		TargetWidth:   targetW,
		TargetHeight:  targetH,
	}
}

// SaveProject writes the current scene to a .collage file.
func (st *State) SaveProject(path string, canvasW, canvasH int) error {
	st.mu.Lock()

	if !strings.HasSuffix(path, project.Extension) {
		path += project.Extension
	}

	name := strings.TrimSuffix(filepath.Base(path), project.Extension)
	proj := project.New(name)
	proj.CanvasWidth = canvasW
	proj.CanvasHeight = canvasH
	proj.Scene = st.scene.Clone()

	record := func(id string) {
		if src := st.sources.Get(id); src != nil && src.Path != "" {
			proj.SetImagePath(path, id, src.Path)
		}
	}
	for _, it := range st.scene.Images {
		record(it.ID)
	}
	if st.scene.Watermark != nil {
		record(st.scene.Watermark.ID)
	}
	if st.scene.Background.ImageID != "" {
		record(st.scene.Background.ImageID)
	}

	if err := proj.Save(path); err != nil {
		st.mu.Unlock()
		return fmt.Errorf("failed to save project: %w", err)
	}
	st.ProjectPath = path
	st.Modified = false
	st.mu.Unlock()

	st.Emit(EventProjectSaved, path)
	st.Emit(EventModified, false)
	return nil
}

// LoadProject replaces the current state with a saved project, re-decoding
// every referenced image. Images whose files have moved decode as failed
// sources and render blank rather than aborting the load.
func (st *State) LoadProject(path string) error {
	proj, err := project.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}

	registry := source.NewRegistry()
	load := func(id string) {
		imagePath := proj.GetImagePath(path, id)
		if imagePath == "" {
			return
		}
		src, err := source.Load(id, imagePath)
		if err != nil {
			src = &source.Source{ID: id, Path: imagePath, Err: err}
		}
		registry.Put(src)
	}
	for _, it := range proj.Scene.Images {
		load(it.ID)
	}
	if proj.Scene.Watermark != nil {
		load(proj.Scene.Watermark.ID)
	}
	if proj.Scene.Background.ImageID != "" {
		load(proj.Scene.Background.ImageID)
	}

	st.mu.Lock()
	st.scene = proj.Scene
	st.sources = registry
	st.ProjectPath = path
	st.Modified = false
	st.mu.Unlock()

	st.Emit(EventProjectLoaded, path)
	st.Emit(EventImagesChanged, nil)
	st.Emit(EventModified, false)
	return nil
}

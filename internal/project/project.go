// Package project provides collage project file handling and persistence.
package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"collage-studio/internal/scene"
)

// Extension is the project file extension.
const Extension = ".collage"

// File represents a collage project file (.collage).
type File struct {
	Version  int       `json:"version"`
	Name     string    `json:"name"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`

	// Canvas size the scene's pixel coordinates were composed against.
	CanvasWidth  int `json:"canvas_width"`
	CanvasHeight int `json:"canvas_height"`

	// The full scene model.
	Scene *scene.Scene `json:"scene"`

	// Image paths keyed by item identity (images, watermark, background),
	// relative to the project file where possible.
	ImagePaths map[string]string `json:"image_paths"`
}

// New creates a new project file with default settings.
func New(name string) *File {
	now := time.Now()
	return &File{
		Version:    1,
		Name:       name,
		Created:    now,
		Modified:   now,
		Scene:      scene.New(),
		ImagePaths: make(map[string]string),
	}
}

// Load loads a project from a .collage file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var proj File
	if err := json.Unmarshal(data, &proj); err != nil {
		return nil, err
	}
	if proj.ImagePaths == nil {
		proj.ImagePaths = make(map[string]string)
	}
	if proj.Scene == nil {
		proj.Scene = scene.New()
	}

	return &proj, nil
}

// Save saves the project to a file.
func (p *File) Save(path string) error {
	p.Modified = time.Now()

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// SetImagePath records an image path for an item, relative to the project
// file when possible.
func (p *File) SetImagePath(projectPath, id, imagePath string) {
	rel, err := filepath.Rel(filepath.Dir(projectPath), imagePath)
	if err != nil {
		p.ImagePaths[id] = imagePath
	} else {
		p.ImagePaths[id] = rel
	}
	p.Modified = time.Now()
}

// GetImagePath returns the absolute path for an item's image, or "" when
// the item has no recorded path.
func (p *File) GetImagePath(projectPath, id string) string {
	stored := p.ImagePaths[id]
	if stored == "" {
		return ""
	}
	if filepath.IsAbs(stored) {
		return stored
	}
	return filepath.Join(filepath.Dir(projectPath), stored)
}

package project

import (
	"os"
	"path/filepath"
	"testing"

	"collage-studio/internal/scene"
	"collage-studio/pkg/geometry"
)

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trip"+Extension)

	p := New("trip")
	p.CanvasWidth = 960
	p.CanvasHeight = 720
	p.Scene.AddImage("img-1")
	p.Scene.AddImage("img-2")
	p.Scene.EnterFreeLayout([]geometry.Rect{
		geometry.NewRect(10, 20, 200, 150),
		geometry.NewRect(300, 20, 200, 150),
	})
	p.Scene.AddText(scene.TextItem{
		ID: "text-1", Text: "hello", X: 100, Y: 50, Size: 24,
		Family: "bold", Color: "#112233", Rotation: 15,
	})
	p.Scene.Watermark = &scene.Watermark{ID: "img-3", Opacity: 0.4, SizePct: 15, Anchor: scene.AnchorTopLeft}
	p.SetImagePath(path, "img-1", filepath.Join(dir, "photos", "one.jpg"))

	if err := p.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Name != "trip" || loaded.CanvasWidth != 960 || loaded.CanvasHeight != 720 {
		t.Errorf("header mismatch: %+v", loaded)
	}
	if len(loaded.Scene.Images) != 2 {
		t.Fatalf("got %d images", len(loaded.Scene.Images))
	}
	if loaded.Scene.Params.Mode != scene.ModeFree {
		t.Errorf("mode = %s", loaded.Scene.Params.Mode)
	}
	ff := loaded.Scene.ImageByID("img-2").Freeform
	if ff == nil || ff.X != 300 || ff.Z != 1 {
		t.Errorf("freeform = %+v", ff)
	}
	txt := loaded.Scene.TextByID("text-1")
	if txt == nil || txt.Rotation != 15 || txt.Family != "bold" {
		t.Errorf("text = %+v", txt)
	}
	if loaded.Scene.Watermark == nil || loaded.Scene.Watermark.Anchor != scene.AnchorTopLeft {
		t.Errorf("watermark = %+v", loaded.Scene.Watermark)
	}

	if got := loaded.GetImagePath(path, "img-1"); got != filepath.Join(dir, "photos", "one.jpg") {
		t.Errorf("image path = %q", got)
	}
	if got := loaded.GetImagePath(path, "img-2"); got != "" {
		t.Errorf("unrecorded id should resolve empty, got %q", got)
	}
}

func TestImagePathsStoredRelative(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p"+Extension)

	p := New("p")
	p.SetImagePath(path, "img-1", filepath.Join(dir, "sub", "a.png"))

	if stored := p.ImagePaths["img-1"]; filepath.IsAbs(stored) {
		t.Errorf("path under the project dir should store relative, got %q", stored)
	}
	if got := p.GetImagePath(path, "img-1"); got != filepath.Join(dir, "sub", "a.png") {
		t.Errorf("resolved = %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.collage")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadTolerantOfSparseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sparse"+Extension)
	if err := os.WriteFile(path, []byte(`{"version":1,"name":"sparse"}`), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Scene == nil {
		t.Error("missing scene should default, not stay nil")
	}
	if p.ImagePaths == nil {
		t.Error("missing image paths should default to an empty map")
	}
}

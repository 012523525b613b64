// Command collagerender renders a saved .collage project to a PNG without
// opening the UI.
package main

import (
	"flag"
	"fmt"
	"os"

	"collage-studio/internal/export"
	"collage-studio/internal/project"
	"collage-studio/internal/source"
)

func main() {
	projectPath := flag.String("project", "", "Path to .collage project file")
	output := flag.String("out", export.DefaultFilename, "Output PNG path")
	width := flag.Int("width", export.DefaultWidth, "Output width in pixels")
	height := flag.Int("height", export.DefaultHeight, "Output height in pixels")
	flag.Parse()

	if *projectPath == "" {
		fmt.Println("Usage: collagerender -project <path.collage> [-out collage.png] [-width 2000] [-height 1500]")
		os.Exit(1)
	}

	proj, err := project.Load(*projectPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load project: %v\n", err)
		os.Exit(1)
	}

	previewW, previewH := proj.CanvasWidth, proj.CanvasHeight
	if previewW <= 0 || previewH <= 0 {
		previewW, previewH = 960, 720
	}

	registry := source.NewRegistry()
	load := func(id string) {
		path := proj.GetImagePath(*projectPath, id)
		if path == "" {
			return
		}
		src, err := source.Load(id, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", id, err)
			return
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

	fmt.Printf("Loaded %q: %d images, %d text layers, mode %s\n",
		proj.Name, len(proj.Scene.Images), len(proj.Scene.Texts), proj.Scene.Params.Mode)
	fmt.Printf("Rendering %dx%d (authored at %dx%d)...\n", *width, *height, previewW, previewH)

	exporter := export.New()
	ch, err := exporter.Dispatch(export.Request{
		Scene:         proj.Scene,
		Images:        registry.CopyImages(),
		PreviewWidth:  previewW,
		PreviewHeight: previewH,
		TargetWidth:   *width,
		TargetHeight:  *height,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(1)
	}

	resp := <-ch
	if resp.Err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", resp.Err)
		os.Exit(1)
	}

	if err := os.WriteFile(*output, resp.PNG, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", *output, len(resp.PNG))
}

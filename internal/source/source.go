// Package source provides decoded pixel sources for collage items. A
// source is decoded once per item identity and shared read-only by the
// preview renderer; the export path receives independently-owned copies.
package source

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Source is a decoded, read-only pixel source.
type Source struct {
	ID    string
	Path  string
	Image image.Image
	Err   error // non-nil when decoding failed; such sources are skipped at paint time
}

// Ready reports whether the source has decoded pixels available.
func (s *Source) Ready() bool {
	return s != nil && s.Err == nil && s.Image != nil
}

// Size returns the pixel dimensions, or zero for an unready source.
func (s *Source) Size() (w, h int) {
	if !s.Ready() {
		return 0, 0
	}
	b := s.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Load decodes a single image file into a source with the given identity.
func Load(id, path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return &Source{ID: id, Path: path, Image: img}, nil
}

// Registry holds the decoded sources for a scene, keyed by item identity.
// It is safe for concurrent readers; the UI thread is the only writer.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]*Source
	nextID  int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]*Source)}
}

// NewID returns a fresh item identity.
func (r *Registry) NewID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	return fmt.Sprintf("img-%d", r.nextID)
}

// Put stores a source under its identity, replacing any previous entry.
func (r *Registry) Put(src *Source) {
	r.mu.Lock()
	r.sources[src.ID] = src
	r.mu.Unlock()
}

// Get returns the source for an identity, or nil if none is registered.
func (r *Registry) Get(id string) *Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sources[id]
}

// Remove deletes the source for an identity.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.sources, id)
	r.mu.Unlock()
}

// ImageFor returns the decoded pixels for an identity, or nil when the
// source is missing or failed to decode. This satisfies the renderer's
// source lookup.
func (r *Registry) ImageFor(id string) image.Image {
	src := r.Get(id)
	if !src.Ready() {
		return nil
	}
	return src.Image
}

// Len returns the number of registered sources.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sources)
}

// LoadAll decodes the given paths concurrently, registers each result and
// returns the new identities in input order. Decode failures are registered
// with Err set so the paint pipeline can skip them; LoadAll itself only
// fails on nothing-at-all scenarios, never on individual files.
func (r *Registry) LoadAll(paths []string) []string {
	ids := make([]string, len(paths))
	for i := range paths {
		ids[i] = r.NewID()
	}

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			src, err := Load(ids[i], path)
			if err != nil {
				src = &Source{ID: ids[i], Path: path, Err: err}
			}
			r.Put(src)
			return nil
		})
	}
	_ = g.Wait()

	return ids
}

// CopyImages returns deep pixel copies of every ready source, keyed by
// identity. The copies share no memory with the registry, so they can be
// handed to the export context without any locking discipline.
func (r *Registry) CopyImages() map[string]image.Image {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]image.Image, len(r.sources))
	for id, src := range r.sources {
		if !src.Ready() {
			continue
		}
		b := src.Image.Bounds()
		dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(dst, dst.Bounds(), src.Image, b.Min, draw.Src)
		out[id] = dst
	}
	return out
}

// SupportedFormats returns the list of supported image file extensions.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".tiff", ".tif", ".webp"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

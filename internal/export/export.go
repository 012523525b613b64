// Package export renders a scene snapshot at a fixed target resolution in
// an isolated goroutine and encodes the result as PNG. The boundary
// carries only plain data and independently-owned bitmap copies, so the
// interactive side needs no locking while an export runs.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync/atomic"

	"collage-studio/internal/render"
	"collage-studio/internal/scene"
)

// Default export target resolution.
const (
	DefaultWidth  = 2000
	DefaultHeight = 1500
)

// DefaultFilename is the suggested name for saved exports; the shell may
// override it.
const DefaultFilename = "collage.png"

// ErrInFlight is returned when a dispatch overlaps a running export. The
// caller must wait for the terminal response before dispatching again.
var ErrInFlight = errors.New("an export is already in progress")

// Request carries everything the isolated context needs. Scene must be a
// deep clone and Images must be pixel copies owned exclusively by the
// request; the sender must not touch either afterwards.
type Request struct {
	Scene  *scene.Scene
	Images map[string]image.Image

	// Preview dimensions the scene's pixel parameters are expressed in.
	PreviewWidth  int
	PreviewHeight int

	// Target resolution; zero values fall back to the defaults.
	TargetWidth  int
	TargetHeight int
}

// Response is the single terminal message of an export: either the
// encoded PNG or the failure reason, never both.
type Response struct {
	PNG []byte
	Err error
}

// Exporter dispatches export requests and enforces the one-in-flight
// precondition.
type Exporter struct {
	busy atomic.Bool
}

// New creates an idle exporter.
func New() *Exporter {
	return &Exporter{}
}

// InFlight reports whether an export is currently running.
func (e *Exporter) InFlight() bool {
	return e.busy.Load()
}

// Dispatch starts the export in a background goroutine and returns a
// channel that will receive exactly one Response. There is no timeout and
// no cancellation; a request that overlaps a running export is rejected
// with ErrInFlight.
func (e *Exporter) Dispatch(req Request) (<-chan Response, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return nil, ErrInFlight
	}

	ch := make(chan Response, 1)
	go func() {
		defer e.busy.Store(false)
		ch <- run(req)
	}()
	return ch, nil
}

// run executes the request synchronously. Panics inside the pipeline are
// surfaced as a failure response rather than crashing the process.
func run(req Request) (resp Response) {
	defer func() {
		if p := recover(); p != nil {
			resp = Response{Err: fmt.Errorf("export failed: %v", p)}
		}
	}()

	if req.Scene == nil {
		return Response{Err: errors.New("export request has no scene")}
	}

	targetW, targetH := req.TargetWidth, req.TargetHeight
	if targetW <= 0 {
		targetW = DefaultWidth
	}
	if targetH <= 0 {
		targetH = DefaultHeight
	}
	if req.PreviewWidth <= 0 || req.PreviewHeight <= 0 {
		return Response{Err: fmt.Errorf("invalid preview dimensions %dx%d", req.PreviewWidth, req.PreviewHeight)}
	}

	r := render.NewScaled(targetW, targetH, req.PreviewWidth, req.PreviewHeight)
	img := r.Render(req.Scene, render.ImageMap(req.Images))

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return Response{Err: fmt.Errorf("failed to encode export: %w", err)}
	}
	return Response{PNG: buf.Bytes()}
}

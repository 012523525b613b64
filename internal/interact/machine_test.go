package interact

import (
	"testing"

	"collage-studio/internal/scene"
	"collage-studio/pkg/geometry"
)

func pt(x, y float64) geometry.Point2D {
	return geometry.Point2D{X: x, Y: y}
}

// fixedMeasure reports every text layer as 100 units wide.
func fixedMeasure(t *scene.TextItem) float64 {
	return 100
}

func freeScene() *scene.Scene {
	s := scene.New()
	s.AddImage("a")
	s.AddImage("b")
	s.EnterFreeLayout([]geometry.Rect{
		geometry.NewRect(10, 10, 200, 150),
		geometry.NewRect(300, 10, 200, 150),
	})
	return s
}

func TestPointerDownSelectsAndRaises(t *testing.T) {
	s := freeScene()
	m := New(fixedMeasure)

	if !m.PointerDown(s, pt(50, 50)) {
		t.Fatal("press on an image should report a change")
	}
	if m.Selected() != "a" {
		t.Fatalf("selected = %q", m.Selected())
	}
	if m.State() != StateDragging {
		t.Fatalf("state = %s", m.State())
	}

	// Grabbing must raise the image above everything else.
	byZ := s.ImagesByZ()
	if byZ[len(byZ)-1].ID != "a" {
		t.Error("grabbed image should paint topmost")
	}
}

func TestPointerDownEmptySpaceClearsSelection(t *testing.T) {
	s := freeScene()
	m := New(fixedMeasure)

	m.PointerDown(s, pt(50, 50))
	m.PointerUp()

	if !m.PointerDown(s, pt(600, 600)) {
		t.Error("clearing a selection should report a change")
	}
	if m.Selected() != "" {
		t.Errorf("selected = %q, want empty", m.Selected())
	}
}

func TestPointerDownIgnoredOutsideFreeMode(t *testing.T) {
	s := freeScene()
	m := New(fixedMeasure)
	m.PointerDown(s, pt(50, 50))
	m.PointerUp()

	s.LeaveFreeLayout(scene.ModeGrid)
	m.PointerDown(s, pt(50, 50))

	if m.Selected() != "" {
		t.Error("algorithmic modes should clear the selection on press")
	}
	if m.State() != StateIdle {
		t.Errorf("state = %s", m.State())
	}
}

func TestDragPreservesGrabOffset(t *testing.T) {
	s := freeScene()
	m := New(fixedMeasure)

	// Grab image a at (50, 60): offset (40, 50) from its corner.
	m.PointerDown(s, pt(50, 60))
	m.PointerMove(s, pt(150, 160))

	ff := s.ImageByID("a").Freeform
	if ff.X != 110 || ff.Y != 110 {
		t.Errorf("dragged to (%v, %v), want (110, 110)", ff.X, ff.Y)
	}
}

func TestResizeFloor(t *testing.T) {
	s := freeScene()
	m := New(fixedMeasure)

	// Select a, release, then grab its bottom-right handle at (210, 160).
	m.PointerDown(s, pt(50, 50))
	m.PointerUp()
	m.PointerDown(s, pt(210, 160))
	if m.State() != StateResizing {
		t.Fatalf("state = %s, want resizing", m.State())
	}

	// Drag far past the top-left corner.
	m.PointerMove(s, pt(0, 0))

	ff := s.ImageByID("a").Freeform
	if ff.Width != scene.MinFreeformSize || ff.Height != scene.MinFreeformSize {
		t.Errorf("resize should clamp to %v, got %vx%v", scene.MinFreeformSize, ff.Width, ff.Height)
	}
}

func TestResizeTracksPointer(t *testing.T) {
	s := freeScene()
	m := New(fixedMeasure)

	m.PointerDown(s, pt(50, 50))
	m.PointerUp()
	m.PointerDown(s, pt(210, 160))
	m.PointerMove(s, pt(310, 260))

	ff := s.ImageByID("a").Freeform
	if ff.Width != 300 || ff.Height != 250 {
		t.Errorf("resized to %vx%v, want 300x250", ff.Width, ff.Height)
	}
	if ff.X != 10 || ff.Y != 10 {
		t.Errorf("resize moved the origin to (%v, %v)", ff.X, ff.Y)
	}
}

func TestHandleBeatsOverlappingBody(t *testing.T) {
	s := freeScene()
	m := New(fixedMeasure)

	// Move b on top of a's bottom-right corner.
	b := s.ImageByID("b").Freeform
	b.X, b.Y = 150, 100

	m.PointerDown(s, pt(50, 50)) // select a
	m.PointerUp()
	m.PointerDown(s, pt(210, 160)) // a's handle, inside b's body

	if m.State() != StateResizing {
		t.Errorf("state = %s, want resizing", m.State())
	}
	if m.Selected() != "a" {
		t.Errorf("selected = %q, want a", m.Selected())
	}
}

func TestPointerUpReturnsToIdle(t *testing.T) {
	s := freeScene()
	m := New(fixedMeasure)

	m.PointerDown(s, pt(50, 50))
	m.PointerUp()
	if m.State() != StateIdle {
		t.Errorf("state = %s", m.State())
	}
	if m.Selected() != "a" {
		t.Error("release should keep the selection")
	}

	// Motion without a held button must not mutate anything.
	before := *s.ImageByID("a").Freeform
	m.PointerMove(s, pt(500, 500))
	if *s.ImageByID("a").Freeform != before {
		t.Error("idle move changed geometry")
	}
}

func TestPointerLeaveCancelsDrag(t *testing.T) {
	s := freeScene()
	m := New(fixedMeasure)

	m.PointerDown(s, pt(50, 50))
	m.PointerLeave()
	if m.State() != StateIdle {
		t.Errorf("state = %s", m.State())
	}
}

func TestTextHitUnrotated(t *testing.T) {
	s := freeScene()
	s.AddText(scene.TextItem{ID: "t1", Text: "hi", X: 100, Y: 100, Size: 20, Padding: 4})
	m := New(fixedMeasure)

	// Box: 108 wide, 28 tall, centered at (100, 100).
	if !m.PointerDown(s, pt(100, 100)) {
		t.Fatal("center of the text box should hit")
	}
	if m.State() != StateDragging {
		t.Fatalf("state = %s", m.State())
	}
	m.PointerUp()

	// Just past the right edge: 100 + 54 + 1.
	m.PointerDown(s, pt(155, 100))
	if m.State() == StateDragging && m.targetID == "t1" {
		t.Error("point past the box edge should miss the text")
	}
}

func TestTextHitRotated90(t *testing.T) {
	s := scene.New()
	s.AddImage("a")
	s.EnterFreeLayout([]geometry.Rect{geometry.NewRect(400, 400, 100, 100)})
	s.AddText(scene.TextItem{ID: "t1", Text: "hi", X: 100, Y: 100, Size: 20, Padding: 4, Rotation: 90})
	m := New(fixedMeasure)

	// With the box turned 90 degrees its long axis is vertical: a point
	// 55 units right of center misses, 40 units below hits.
	m.PointerDown(s, pt(155, 100))
	if m.target == targetText {
		t.Error("horizontal offset should miss the rotated box")
	}
	m.PointerUp()

	if !m.PointerDown(s, pt(100, 140)) {
		t.Error("vertical offset should hit the rotated box")
	}

	// The center hits at any rotation.
	for _, deg := range []float64{0, 30, 45, 90, 180, -60} {
		s.Texts[0].Rotation = deg
		m.PointerUp()
		if !m.PointerDown(s, pt(100, 100)) {
			t.Errorf("center miss at rotation %v", deg)
		}
	}
}

func TestTextDrag(t *testing.T) {
	s := freeScene()
	s.AddText(scene.TextItem{ID: "t1", Text: "hi", X: 600, Y: 300, Size: 20})
	m := New(fixedMeasure)

	m.PointerDown(s, pt(610, 305))
	m.PointerMove(s, pt(660, 355))

	txt := s.TextByID("t1")
	if txt.X != 650 || txt.Y != 350 {
		t.Errorf("text at (%v, %v), want (650, 350)", txt.X, txt.Y)
	}
	// Dragging a text layer never selects an image.
	if m.Selected() != "" {
		t.Errorf("selected = %q", m.Selected())
	}
}

func TestCursorFeedback(t *testing.T) {
	s := freeScene()
	m := New(fixedMeasure)

	if got := m.CursorFor(s, pt(50, 50)); got != CursorGrab {
		t.Errorf("over image: %v, want grab", got)
	}
	// Free mode shows the grab cursor everywhere except the handle.
	if got := m.CursorFor(s, pt(600, 600)); got != CursorGrab {
		t.Errorf("over empty space: %v, want grab", got)
	}

	m.PointerDown(s, pt(50, 50))
	if got := m.CursorFor(s, pt(60, 60)); got != CursorGrabbing {
		t.Errorf("while dragging: %v, want grabbing", got)
	}
	m.PointerUp()

	if got := m.CursorFor(s, pt(210, 160)); got != CursorResize {
		t.Errorf("over handle of selection: %v, want resize", got)
	}

	s.LeaveFreeLayout(scene.ModeGrid)
	m.ClearSelection()
	if got := m.CursorFor(s, pt(50, 50)); got != CursorDefault {
		t.Errorf("algorithmic mode: %v, want default", got)
	}
}

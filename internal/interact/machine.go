// Package interact turns pointer events into scene mutations for
// free-placement mode: hit-testing against rotated text boxes, image
// rectangles and the resize handle, plus drag and resize state tracking.
// The package has no UI dependencies; the canvas widget feeds it pointer
// positions in preview canvas coordinates.
package interact

import (
	"math"

	"collage-studio/internal/scene"
	"collage-studio/pkg/geometry"
)

// State is the interaction state.
type State int

const (
	StateIdle State = iota
	StateDragging
	StateResizing
)

func (s State) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	case StateResizing:
		return "resizing"
	default:
		return "idle"
	}
}

// Cursor is the pointer feedback the canvas should show.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorGrab
	CursorGrabbing
	CursorResize
)

type targetKind int

const (
	targetNone targetKind = iota
	targetImage
	targetText
)

// HandleTolerance is the half-size of the square around the selected
// image's bottom-right corner that starts a resize, in preview units.
const HandleTolerance = 10.0

// MeasureFunc returns the rendered pixel width of a text layer's content
// at its preview font size. The machine needs it to size rotated hit
// boxes; the render package supplies the implementation.
type MeasureFunc func(t *scene.TextItem) float64

// Machine is the pointer interaction state machine. Not safe for
// concurrent use; all calls happen on the UI thread.
type Machine struct {
	measure MeasureFunc

	state      State
	target     targetKind
	targetID   string
	grabOffset geometry.Point2D

	selected string // selected image ID, empty for none
}

// New creates an idle machine.
func New(measure MeasureFunc) *Machine {
	return &Machine{measure: measure}
}

// State returns the current interaction state.
func (m *Machine) State() State { return m.state }

// Selected returns the selected image ID, or "".
func (m *Machine) Selected() string { return m.selected }

// ClearSelection drops the selection (e.g. when the selected image is
// removed).
func (m *Machine) ClearSelection() { m.selected = "" }

// PointerDown handles a press at p. Returns true when the scene or
// selection changed and a repaint is needed.
func (m *Machine) PointerDown(s *scene.Scene, p geometry.Point2D) bool {
	if s.Params.Mode != scene.ModeFree {
		changed := m.selected != ""
		m.reset()
		m.selected = ""
		return changed
	}

	// Text layers first, topmost (highest index) wins.
	for i := len(s.Texts) - 1; i >= 0; i-- {
		t := s.Texts[i]
		if m.hitText(t, p) {
			m.state = StateDragging
			m.target = targetText
			m.targetID = t.ID
			m.grabOffset = p.Sub(geometry.Point2D{X: t.X, Y: t.Y})
			return true
		}
	}

	// Resize handle of the selected image beats body hits, so grabbing
	// the corner of an overlapped image still resizes it.
	if sel := s.ImageByID(m.selected); sel != nil && sel.Freeform != nil {
		if hitHandle(sel.Freeform, p) {
			m.state = StateResizing
			m.target = targetImage
			m.targetID = sel.ID
			return true
		}
	}

	// Image bodies, visually topmost first.
	byZ := s.ImagesByZ()
	for i := len(byZ) - 1; i >= 0; i-- {
		item := byZ[i]
		ff := item.Freeform
		if ff == nil {
			continue
		}
		rect := geometry.NewRect(ff.X, ff.Y, ff.Width, ff.Height)
		if !rect.Contains(p) {
			continue
		}
		m.state = StateDragging
		m.target = targetImage
		m.targetID = item.ID
		m.grabOffset = p.Sub(rect.TopLeft())
		m.selected = item.ID
		s.BringToFront(item.ID)
		return true
	}

	changed := m.selected != ""
	m.reset()
	m.selected = ""
	return changed
}

// PointerMove handles motion to p while a button is held. Returns true
// when the scene changed.
func (m *Machine) PointerMove(s *scene.Scene, p geometry.Point2D) bool {
	switch m.state {
	case StateDragging:
		pos := p.Sub(m.grabOffset)
		switch m.target {
		case targetText:
			t := s.TextByID(m.targetID)
			if t == nil {
				return false
			}
			t.X = pos.X
			t.Y = pos.Y
			return true
		case targetImage:
			item := s.ImageByID(m.targetID)
			if item == nil || item.Freeform == nil {
				return false
			}
			item.Freeform.X = pos.X
			item.Freeform.Y = pos.Y
			return true
		}

	case StateResizing:
		item := s.ImageByID(m.targetID)
		if item == nil || item.Freeform == nil {
			return false
		}
		ff := item.Freeform
		ff.Width = math.Max(scene.MinFreeformSize, p.X-ff.X)
		ff.Height = math.Max(scene.MinFreeformSize, p.Y-ff.Y)
		return true
	}
	return false
}

// PointerUp ends any drag or resize.
func (m *Machine) PointerUp() {
	m.reset()
}

// PointerLeave is equivalent to PointerUp; leaving the canvas always
// returns to idle.
func (m *Machine) PointerLeave() {
	m.reset()
}

func (m *Machine) reset() {
	m.state = StateIdle
	m.target = targetNone
	m.targetID = ""
	m.grabOffset = geometry.Point2D{}
}

// CursorFor returns the cursor feedback for a hover position. Pure; it
// never changes state.
func (m *Machine) CursorFor(s *scene.Scene, p geometry.Point2D) Cursor {
	switch m.state {
	case StateDragging:
		return CursorGrabbing
	case StateResizing:
		return CursorResize
	}
	if s.Params.Mode != scene.ModeFree {
		return CursorDefault
	}
	if sel := s.ImageByID(m.selected); sel != nil && sel.Freeform != nil && hitHandle(sel.Freeform, p) {
		return CursorResize
	}
	// Everything else in free mode is grabbable space.
	return CursorGrab
}

// hitText tests the point against the layer's rotated, padded box: the
// pointer is mapped through the inverse of the layer's translate-rotate
// transform and compared against the upright box centered on the origin.
func (m *Machine) hitText(t *scene.TextItem, p geometry.Point2D) bool {
	width := 0.0
	if m.measure != nil {
		width = m.measure(t)
	}
	if width <= 0 {
		return false
	}

	xform := geometry.Translation(t.X, t.Y).Compose(geometry.Rotation(t.Rotation * math.Pi / 180))
	inv, ok := xform.Inverse()
	if !ok {
		return false
	}
	local := inv.Apply(p)

	halfW := (width + 2*t.Padding) / 2
	halfH := (t.Size + 2*t.Padding) / 2
	return math.Abs(local.X) <= halfW && math.Abs(local.Y) <= halfH
}

// hitHandle tests the point against the resize tolerance square centered
// on the freeform rectangle's bottom-right corner.
func hitHandle(ff *scene.Freeform, p geometry.Point2D) bool {
	c := geometry.NewRect(ff.X, ff.Y, ff.Width, ff.Height).BottomRight()
	return math.Abs(p.X-c.X) <= HandleTolerance && math.Abs(p.Y-c.Y) <= HandleTolerance
}

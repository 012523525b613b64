// Package scene provides the canonical model of everything the collage
// renderer draws. The scene is renderer-agnostic: both the interactive
// preview and the high-resolution export read the same model.
package scene

import (
	"fmt"
)

// LayoutMode selects the placement algorithm for image items.
type LayoutMode int

const (
	ModeGrid LayoutMode = iota
	ModeLeftBig
	ModeRightBig
	ModeTopBig
	ModeBottomBig
	ModeSingleFocus
	ModeFree
)

var modeNames = map[LayoutMode]string{
	ModeGrid:        "grid",
	ModeLeftBig:     "left-big",
	ModeRightBig:    "right-big",
	ModeTopBig:      "top-big",
	ModeBottomBig:   "bottom-big",
	ModeSingleFocus: "single-focus",
	ModeFree:        "free",
}

func (m LayoutMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMode parses a layout mode name as used in project files and CLI flags.
func ParseMode(s string) (LayoutMode, error) {
	for m, name := range modeNames {
		if name == s {
			return m, nil
		}
	}
	return ModeGrid, fmt.Errorf("unknown layout mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m LayoutMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *LayoutMode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// FitPolicy controls how an image fills its placement cell.
type FitPolicy int

const (
	// FitCover scales the image to fill the cell, clipping overflow.
	FitCover FitPolicy = iota
	// FitContain scales the image to fit inside the cell with letterbox margins.
	FitContain
)

func (f FitPolicy) String() string {
	if f == FitContain {
		return "contain"
	}
	return "cover"
}

// ParseFit parses a fit policy name.
func ParseFit(s string) (FitPolicy, error) {
	switch s {
	case "cover":
		return FitCover, nil
	case "contain":
		return FitContain, nil
	}
	return FitCover, fmt.Errorf("unknown fit policy %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (f FitPolicy) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *FitPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseFit(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Anchor names a watermark position on the canvas.
type Anchor string

const (
	AnchorTopLeft     Anchor = "top-left"
	AnchorTopRight    Anchor = "top-right"
	AnchorBottomLeft  Anchor = "bottom-left"
	AnchorBottomRight Anchor = "bottom-right"
	AnchorCenter      Anchor = "center"
)

// MinFreeformSize is the floor for user-resized image dimensions, in
// preview canvas units. Resize operations clamp to this value.
const MinFreeformSize = 20.0

// Freeform is the user-manipulated geometry of an image in free-placement
// mode. It exists only while free-placement is active; algorithmic modes
// ignore it entirely, which keeps stale geometry from leaking across mode
// switches.
type Freeform struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Z      int     `json:"z"`
}

// ImageItem is one user image in the collage.
type ImageItem struct {
	// ID correlates this item with its decoded pixel source in both the
	// preview and export renderers.
	ID string `json:"id"`

	// Order is the insertion index, used as the default placement order for
	// algorithmic layouts and as the z tie-breaker.
	Order int `json:"order"`

	// Freeform is non-nil only while free-placement mode is active.
	Freeform *Freeform `json:"freeform,omitempty"`
}

// TextItem is one free-text annotation. (X, Y) is the center of the text
// box in canvas coordinates; Rotation is degrees clockwise around it.
type TextItem struct {
	ID                string  `json:"id"`
	Text              string  `json:"text"`
	X                 float64 `json:"x"`
	Y                 float64 `json:"y"`
	Size              float64 `json:"size"`
	Family            string  `json:"family"`
	Color             string  `json:"color"`
	Rotation          float64 `json:"rotation"`
	Shadow            bool    `json:"shadow"`
	Background        string  `json:"background"`
	BackgroundOpacity float64 `json:"background_opacity"`
	Padding           float64 `json:"padding"`
}

// Watermark is the optional watermark image (at most one per scene).
type Watermark struct {
	ID      string  `json:"id"`
	Opacity float64 `json:"opacity"`
	// SizePct is the watermark width as a percentage of the target canvas
	// width; height follows the source aspect ratio.
	SizePct float64 `json:"size_pct"`
	Anchor  Anchor  `json:"anchor"`
}

// Background describes the canvas background: an image source stretched to
// fill when ImageID is set, otherwise a solid color.
type Background struct {
	Color   string `json:"color,omitempty"`
	ImageID string `json:"image_id,omitempty"`
}

// Params holds the layout parameters. Gap, Zoom and Fit are inert in free
// mode; FocusZoom, BlurRadius and BackdropOpacity apply only to
// single-focus mode. All pixel quantities are in preview canvas units.
type Params struct {
	Mode            LayoutMode `json:"mode"`
	Gap             float64    `json:"gap"`
	Zoom            float64    `json:"zoom"`
	Fit             FitPolicy  `json:"fit"`
	FocusZoom       float64    `json:"focus_zoom"`
	BlurRadius      float64    `json:"blur_radius"`
	BackdropOpacity float64    `json:"backdrop_opacity"`
}

// DefaultParams returns the parameters a fresh scene starts with.
func DefaultParams() Params {
	return Params{
		Mode:            ModeGrid,
		Gap:             16,
		Zoom:            1,
		Fit:             FitCover,
		FocusZoom:       1,
		BlurRadius:      12,
		BackdropOpacity: 0.5,
	}
}

// Scene is the single source of truth for a paint pass. Mutations go
// through the app state, which hands the renderer a consistent scene per
// frame; the export path works from a deep Clone.
type Scene struct {
	Images     []*ImageItem `json:"images"`
	Texts      []*TextItem  `json:"texts"`
	Watermark  *Watermark   `json:"watermark,omitempty"`
	Background Background   `json:"background"`
	Params     Params       `json:"params"`
}

// New creates an empty scene with default parameters and a white background.
func New() *Scene {
	return &Scene{
		Background: Background{Color: "#ffffff"},
		Params:     DefaultParams(),
	}
}

// AddImage appends an image item with the next insertion order and returns
// it. While free-placement is active the item is seeded with a default box
// on top of the stack, so it is visible and grabbable immediately.
func (s *Scene) AddImage(id string) *ImageItem {
	order := 0
	for _, it := range s.Images {
		if it.Order >= order {
			order = it.Order + 1
		}
	}
	item := &ImageItem{ID: id, Order: order}
	if s.Params.Mode == ModeFree {
		z := 0
		for _, it := range s.Images {
			if it.Freeform != nil && it.Freeform.Z >= z {
				z = it.Freeform.Z + 1
			}
		}
		item.Freeform = &Freeform{
			X:      float64(20 * (len(s.Images) + 1)),
			Y:      float64(20 * (len(s.Images) + 1)),
			Width:  200,
			Height: 150,
			Z:      z,
		}
	}
	s.Images = append(s.Images, item)
	return item
}

// RemoveImage removes the image with the given ID, if present.
func (s *Scene) RemoveImage(id string) {
	for i, it := range s.Images {
		if it.ID == id {
			s.Images = append(s.Images[:i], s.Images[i+1:]...)
			return
		}
	}
}

// ImageByID returns the image item with the given ID, or nil.
func (s *Scene) ImageByID(id string) *ImageItem {
	for _, it := range s.Images {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// AddText appends a text layer and returns it.
func (s *Scene) AddText(item TextItem) *TextItem {
	t := item
	s.Texts = append(s.Texts, &t)
	return &t
}

// RemoveText removes the text layer with the given ID, if present.
func (s *Scene) RemoveText(id string) {
	for i, t := range s.Texts {
		if t.ID == id {
			s.Texts = append(s.Texts[:i], s.Texts[i+1:]...)
			return
		}
	}
}

// TextByID returns the text layer with the given ID, or nil.
func (s *Scene) TextByID(id string) *TextItem {
	for _, t := range s.Texts {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Clone returns a deep copy of the scene. The copy shares nothing with the
// original, so it can cross the export boundary as plain data.
func (s *Scene) Clone() *Scene {
	out := &Scene{
		Background: s.Background,
		Params:     s.Params,
	}

	out.Images = make([]*ImageItem, len(s.Images))
	for i, it := range s.Images {
		copied := *it
		if it.Freeform != nil {
			ff := *it.Freeform
			copied.Freeform = &ff
		}
		out.Images[i] = &copied
	}

	out.Texts = make([]*TextItem, len(s.Texts))
	for i, t := range s.Texts {
		copied := *t
		out.Texts[i] = &copied
	}

	if s.Watermark != nil {
		wm := *s.Watermark
		out.Watermark = &wm
	}

	return out
}

package scene

import (
	"sort"

	"collage-studio/pkg/geometry"
)

// ImagesByZ returns the image items sorted for painting in free-placement
// mode: ascending z, ties broken by insertion order. Items without freeform
// geometry sort as z 0.
func (s *Scene) ImagesByZ() []*ImageItem {
	out := make([]*ImageItem, len(s.Images))
	copy(out, s.Images)
	sort.SliceStable(out, func(i, j int) bool {
		zi, zj := 0, 0
		if out[i].Freeform != nil {
			zi = out[i].Freeform.Z
		}
		if out[j].Freeform != nil {
			zj = out[j].Freeform.Z
		}
		if zi != zj {
			return zi < zj
		}
		return out[i].Order < out[j].Order
	})
	return out
}

// BringToFront raises the image's z strictly above every other item.
func (s *Scene) BringToFront(id string) {
	item := s.ImageByID(id)
	if item == nil || item.Freeform == nil {
		return
	}
	maxZ := item.Freeform.Z
	for _, it := range s.Images {
		if it.Freeform != nil && it.Freeform.Z > maxZ {
			maxZ = it.Freeform.Z
		}
	}
	item.Freeform.Z = maxZ + 1
}

// SendToBack lowers the image's z strictly below every other item.
func (s *Scene) SendToBack(id string) {
	item := s.ImageByID(id)
	if item == nil || item.Freeform == nil {
		return
	}
	minZ := item.Freeform.Z
	for _, it := range s.Images {
		if it.Freeform != nil && it.Freeform.Z < minZ {
			minZ = it.Freeform.Z
		}
	}
	item.Freeform.Z = minZ - 1
}

// EnterFreeLayout switches the scene into free-placement mode, seeding each
// image's freeform geometry from the given placements (one per image, in
// insertion order). Images beyond the placement list get a default box.
// Geometry is reseeded on every switch so nothing stale survives.
func (s *Scene) EnterFreeLayout(placements []geometry.Rect) {
	for i, it := range s.Images {
		ff := &Freeform{Z: i}
		if i < len(placements) {
			p := placements[i]
			ff.X = p.X
			ff.Y = p.Y
			ff.Width = p.Width
			ff.Height = p.Height
		} else {
			ff.X = float64(20 * (i + 1))
			ff.Y = float64(20 * (i + 1))
			ff.Width = 200
			ff.Height = 150
		}
		if ff.Width < MinFreeformSize {
			ff.Width = MinFreeformSize
		}
		if ff.Height < MinFreeformSize {
			ff.Height = MinFreeformSize
		}
		it.Freeform = ff
	}
	s.Params.Mode = ModeFree
}

// LeaveFreeLayout switches to the given algorithmic mode and drops all
// freeform geometry.
func (s *Scene) LeaveFreeLayout(mode LayoutMode) {
	for _, it := range s.Images {
		it.Freeform = nil
	}
	if mode == ModeFree {
		mode = ModeGrid
	}
	s.Params.Mode = mode
}

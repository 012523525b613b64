package scene

import (
	"testing"

	"collage-studio/pkg/geometry"
)

func sceneWithFree(n int) *Scene {
	s := New()
	for i := 0; i < n; i++ {
		s.AddImage(string(rune('a' + i)))
	}
	placements := make([]geometry.Rect, n)
	for i := range placements {
		placements[i] = geometry.NewRect(float64(i*100), 0, 100, 100)
	}
	s.EnterFreeLayout(placements)
	return s
}

func TestAddImageAssignsOrder(t *testing.T) {
	s := New()
	a := s.AddImage("a")
	b := s.AddImage("b")
	if a.Order != 0 || b.Order != 1 {
		t.Errorf("orders = %d, %d", a.Order, b.Order)
	}

	s.RemoveImage("a")
	c := s.AddImage("c")
	if c.Order != 2 {
		t.Errorf("order should keep increasing after removal, got %d", c.Order)
	}
}

func TestAddImageInFreeModeSeedsGeometry(t *testing.T) {
	s := sceneWithFree(2)
	added := s.AddImage("c")

	ff := added.Freeform
	if ff == nil {
		t.Fatal("image added in free mode should have freeform geometry")
	}
	if ff.Width < MinFreeformSize || ff.Height < MinFreeformSize {
		t.Errorf("seeded box %vx%v below minimum", ff.Width, ff.Height)
	}
	for _, it := range s.Images {
		if it.ID != "c" && it.Freeform.Z >= ff.Z {
			t.Errorf("%s z=%d not below added item z=%d", it.ID, it.Freeform.Z, ff.Z)
		}
	}

	// Outside free mode nothing is seeded.
	s.LeaveFreeLayout(ModeGrid)
	if d := s.AddImage("d"); d.Freeform != nil {
		t.Error("grid-mode add should not carry freeform geometry")
	}
}

func TestBringToFrontStrictlyAbove(t *testing.T) {
	s := sceneWithFree(3)
	s.BringToFront("a")

	a := s.ImageByID("a")
	for _, it := range s.Images {
		if it.ID == "a" {
			continue
		}
		if it.Freeform.Z >= a.Freeform.Z {
			t.Errorf("%s z=%d not strictly below a z=%d", it.ID, it.Freeform.Z, a.Freeform.Z)
		}
	}
}

func TestSendToBackStrictlyBelow(t *testing.T) {
	s := sceneWithFree(3)
	s.SendToBack("c")

	c := s.ImageByID("c")
	for _, it := range s.Images {
		if it.ID == "c" {
			continue
		}
		if it.Freeform.Z <= c.Freeform.Z {
			t.Errorf("%s z=%d not strictly above c z=%d", it.ID, it.Freeform.Z, c.Freeform.Z)
		}
	}
}

func TestImagesByZStableOnTies(t *testing.T) {
	s := New()
	s.AddImage("a")
	s.AddImage("b")
	s.AddImage("c")

	// No freeform geometry at all: everything ties at z 0, insertion
	// order wins.
	sorted := s.ImagesByZ()
	for i, id := range []string{"a", "b", "c"} {
		if sorted[i].ID != id {
			t.Fatalf("position %d = %s, want %s", i, sorted[i].ID, id)
		}
	}
}

func TestImagesByZOrdering(t *testing.T) {
	s := sceneWithFree(3)
	s.BringToFront("a")

	sorted := s.ImagesByZ()
	if sorted[len(sorted)-1].ID != "a" {
		t.Errorf("a should paint last, got %s", sorted[len(sorted)-1].ID)
	}
}

func TestEnterFreeLayoutSeedsAndClamps(t *testing.T) {
	s := New()
	s.AddImage("a")
	s.AddImage("b")
	s.EnterFreeLayout([]geometry.Rect{{X: 5, Y: 6, Width: 7, Height: 8}})

	if s.Params.Mode != ModeFree {
		t.Fatalf("mode = %s", s.Params.Mode)
	}
	a := s.ImageByID("a").Freeform
	if a.X != 5 || a.Y != 6 {
		t.Errorf("seeded position = (%v, %v)", a.X, a.Y)
	}
	if a.Width != MinFreeformSize || a.Height != MinFreeformSize {
		t.Errorf("tiny placement should clamp to the minimum, got %vx%v", a.Width, a.Height)
	}
	if b := s.ImageByID("b").Freeform; b == nil {
		t.Error("image beyond the placement list should still get geometry")
	}
}

func TestLeaveFreeLayoutDropsGeometry(t *testing.T) {
	s := sceneWithFree(2)
	s.LeaveFreeLayout(ModeGrid)

	if s.Params.Mode != ModeGrid {
		t.Errorf("mode = %s", s.Params.Mode)
	}
	for _, it := range s.Images {
		if it.Freeform != nil {
			t.Errorf("%s kept stale freeform geometry", it.ID)
		}
	}
}

func TestReenteringFreeLayoutReseeds(t *testing.T) {
	s := sceneWithFree(1)
	s.ImageByID("a").Freeform.X = 999

	s.LeaveFreeLayout(ModeGrid)
	s.EnterFreeLayout([]geometry.Rect{geometry.NewRect(10, 10, 50, 50)})

	if got := s.ImageByID("a").Freeform.X; got != 10 {
		t.Errorf("geometry should reseed on re-entry, got X=%v", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := sceneWithFree(2)
	s.AddText(TextItem{ID: "t1", Text: "hello", X: 100, Y: 100, Size: 32})
	s.Watermark = &Watermark{ID: "wm", Opacity: 0.5, SizePct: 20, Anchor: AnchorBottomRight}

	clone := s.Clone()

	clone.ImageByID("a").Freeform.X = 123
	clone.Texts[0].Text = "changed"
	clone.Watermark.Opacity = 0.9
	clone.Params.Gap = 99

	if s.ImageByID("a").Freeform.X == 123 {
		t.Error("clone shares freeform geometry")
	}
	if s.Texts[0].Text == "changed" {
		t.Error("clone shares text layers")
	}
	if s.Watermark.Opacity == 0.9 {
		t.Error("clone shares the watermark")
	}
	if s.Params.Gap == 99 {
		t.Error("clone shares params")
	}
}

func TestModeRoundTrip(t *testing.T) {
	for _, m := range []LayoutMode{ModeGrid, ModeLeftBig, ModeRightBig, ModeTopBig, ModeBottomBig, ModeSingleFocus, ModeFree} {
		parsed, err := ParseMode(m.String())
		if err != nil {
			t.Fatalf("ParseMode(%q): %v", m.String(), err)
		}
		if parsed != m {
			t.Errorf("round trip %s -> %s", m, parsed)
		}
	}
	if _, err := ParseMode("bogus"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

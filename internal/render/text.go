package render

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"collage-studio/internal/scene"
	"collage-studio/pkg/colorutil"
)

// Built-in font families selectable on a text layer.
const (
	FamilyRegular = "regular"
	FamilyBold    = "bold"
	FamilyItalic  = "italic"
	FamilyMono    = "mono"
)

// Families returns the selectable font family names.
func Families() []string {
	return []string{FamilyRegular, FamilyBold, FamilyItalic, FamilyMono}
}

// Drop shadow constants, in preview canvas units. The offset is applied in
// surface space after rotation, so the shadow always falls down-right.
const (
	shadowOffset = 2.0
	shadowSigma  = 1.5
)

var (
	fontsOnce sync.Once
	fonts     map[string]*opentype.Font

	faceMu sync.Mutex
	faces  map[faceKey]font.Face
)

type faceKey struct {
	family string
	size   int // pixels, rounded
}

func parseFonts() {
	fonts = make(map[string]*opentype.Font, 4)
	for family, data := range map[string][]byte{
		FamilyRegular: goregular.TTF,
		FamilyBold:    gobold.TTF,
		FamilyItalic:  goitalic.TTF,
		FamilyMono:    gomono.TTF,
	} {
		f, err := opentype.Parse(data)
		if err != nil {
			// The embedded gofont data is known-good; failing to parse it
			// means the binary is corrupt, and text simply won't render.
			log.Printf("font %s: parse failed: %v", family, err)
			continue
		}
		fonts[family] = f
	}
	faces = make(map[faceKey]font.Face)
}

// faceFor returns a cached font face for the family/size pairing,
// preparing it on first use. Unknown families fall back to regular.
func faceFor(family string, sizePx float64) font.Face {
	fontsOnce.Do(parseFonts)

	if sizePx < 1 {
		sizePx = 1
	}
	key := faceKey{family: family, size: int(math.Round(sizePx))}

	faceMu.Lock()
	defer faceMu.Unlock()

	if face, ok := faces[key]; ok {
		return face
	}

	f, ok := fonts[family]
	if !ok {
		f = fonts[FamilyRegular]
	}
	if f == nil {
		return nil
	}

	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(key.size),
		DPI:     72, // size is already in pixels
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Printf("font %s@%d: face creation failed: %v", family, key.size, err)
		return nil
	}
	faces[key] = face
	return face
}

// MeasureText returns the rendered width in pixels of the text at the
// given family and size.
func MeasureText(family string, sizePx float64, text string) float64 {
	face := faceFor(family, sizePx)
	if face == nil {
		return 0
	}
	return float64(font.MeasureString(face, text)) / 64
}

// drawTextLayer paints one text layer onto dst. The layer is rendered
// upright into a tile (background box and glyphs centered on the tile
// center) and the tile is rotated about its center, so pasting it centered
// on the layer position reproduces a translate-rotate-draw transform
// sequence exactly. The optional drop shadow is pasted underneath with a
// fixed surface-space offset.
func drawTextLayer(dst *image.RGBA, t *scene.TextItem, sx, sy float64) {
	if t.Text == "" {
		return
	}

	size := t.Size * sy
	pad := t.Padding * sy
	textW := MeasureText(t.Family, size, t.Text)
	if textW <= 0 {
		return
	}

	boxW := textW + 2*pad
	boxH := size + 2*pad

	// Margin leaves room for the shadow and blur falloff on every side so
	// the tile center stays the box center.
	margin := math.Ceil((shadowOffset + 4*shadowSigma) * sy)
	tileW := int(math.Ceil(boxW)) + 2*int(margin)
	tileH := int(math.Ceil(boxH)) + 2*int(margin)
	tile := image.NewNRGBA(image.Rect(0, 0, tileW, tileH))
	cx := float64(tileW) / 2
	cy := float64(tileH) / 2

	if t.BackgroundOpacity > 0 {
		bg := colorutil.WithAlpha(colorutil.ParseHex(t.Background), t.BackgroundOpacity)
		box := image.Rect(
			int(math.Round(cx-boxW/2)), int(math.Round(cy-boxH/2)),
			int(math.Round(cx+boxW/2)), int(math.Round(cy+boxH/2)),
		)
		draw.Draw(tile, box, image.NewUniform(bg), image.Point{}, draw.Over)
	}

	face := faceFor(t.Family, size)
	if face == nil {
		return
	}

	drawStringCentered(tile, face, t.Text, cx, cy, colorutil.ParseHex(t.Color))

	var rotated image.Image = tile
	if t.Rotation != 0 {
		// imaging rotates counter-clockwise for positive angles; layer
		// rotation is clockwise.
		rotated = imaging.Rotate(tile, -t.Rotation, color.NRGBA{})
	}

	// The shadow is a rotated copy of the glyph silhouette pasted before
	// the tile with a fixed down-right offset in surface space, the way a
	// device-space canvas shadow behaves regardless of the layer angle.
	if t.Shadow {
		silhouette := image.NewNRGBA(tile.Bounds())
		drawStringCentered(silhouette, face, t.Text, cx, cy, color.NRGBA{A: 160})
		var shadow image.Image = silhouette
		if t.Rotation != 0 {
			shadow = imaging.Rotate(silhouette, -t.Rotation, color.NRGBA{})
		}
		shadow = imaging.Blur(shadow, shadowSigma*sy)
		sb := shadow.Bounds()
		sTopLeft := image.Pt(
			int(math.Round(t.X*sx+shadowOffset*sx-float64(sb.Dx())/2)),
			int(math.Round(t.Y*sy+shadowOffset*sy-float64(sb.Dy())/2)),
		)
		shadowRect := image.Rectangle{Min: sTopLeft, Max: sTopLeft.Add(sb.Size())}
		draw.Draw(dst, shadowRect, shadow, sb.Min, draw.Over)
	}

	rb := rotated.Bounds()
	topLeft := image.Pt(
		int(math.Round(t.X*sx-float64(rb.Dx())/2)),
		int(math.Round(t.Y*sy-float64(rb.Dy())/2)),
	)
	pasteRect := image.Rectangle{Min: topLeft, Max: topLeft.Add(rb.Size())}
	draw.Draw(dst, pasteRect, rotated, rb.Min, draw.Over)
}

// drawStringCentered draws text horizontally and vertically centered on
// (cx, cy) using the face's ascent/descent for the vertical correction.
func drawStringCentered(dst draw.Image, face font.Face, text string, cx, cy float64, col color.Color) {
	width := float64(font.MeasureString(face, text)) / 64
	metrics := face.Metrics()
	ascent := float64(metrics.Ascent) / 64
	descent := float64(metrics.Descent) / 64

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6((cx - width/2) * 64),
			Y: fixed.Int26_6((cy + (ascent-descent)/2) * 64),
		},
	}
	d.DrawString(text)
}

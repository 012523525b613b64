// Package colorutil provides shared color utilities for the collage application.
package colorutil

import (
	"fmt"
	"image/color"
	"strings"
)

// Common UI colors used throughout the application.
var (
	Black     = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Selection = color.RGBA{R: 255, G: 213, B: 0, A: 255} // Gold selection outline
)

// ParseHex parses a "#rrggbb" or "#rgb" color string. The leading '#' is
// optional. Returns opaque black for anything it cannot parse, matching how
// a browser canvas treats an invalid fill style.
func ParseHex(s string) color.RGBA {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")

	var r, g, b uint8
	switch len(s) {
	case 3:
		if _, err := fmt.Sscanf(s, "%1x%1x%1x", &r, &g, &b); err != nil {
			return Black
		}
		// Expand each nibble: "f" -> 0xff
		r *= 17
		g *= 17
		b *= 17
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
			return Black
		}
	default:
		return Black
	}

	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// FormatHex formats a color as "#rrggbb", discarding alpha.
func FormatHex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// WithAlpha returns the color with its alpha channel replaced by the given
// opacity in [0, 1]. Color channels are premultiplied accordingly so the
// result is valid as a color.RGBA.
func WithAlpha(c color.RGBA, opacity float64) color.RGBA {
	if opacity <= 0 {
		return color.RGBA{}
	}
	if opacity >= 1 {
		return c
	}
	return color.RGBA{
		R: uint8(float64(c.R) * opacity),
		G: uint8(float64(c.G) * opacity),
		B: uint8(float64(c.B) * opacity),
		A: uint8(255 * opacity),
	}
}

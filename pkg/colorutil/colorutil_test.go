package colorutil

import (
	"image/color"
	"testing"
)

func TestParseHex(t *testing.T) {
	cases := []struct {
		in   string
		want color.RGBA
	}{
		{"#ff0000", color.RGBA{R: 255, A: 255}},
		{"00ff00", color.RGBA{G: 255, A: 255}},
		{"#FFF", White},
		{"#abc", color.RGBA{R: 0xaa, G: 0xbb, B: 0xcc, A: 255}},
		{"  #112233 ", color.RGBA{R: 0x11, G: 0x22, B: 0x33, A: 255}},
		{"", Black},
		{"#12345", Black},
		{"#zzzzzz", Black},
	}
	for _, c := range cases {
		if got := ParseHex(c.in); got != c.want {
			t.Errorf("ParseHex(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestFormatHexRoundTrip(t *testing.T) {
	for _, s := range []string{"#ff0000", "#a1b2c3", "#000000", "#ffffff"} {
		if got := FormatHex(ParseHex(s)); got != s {
			t.Errorf("round trip %q -> %q", s, got)
		}
	}
}

func TestWithAlpha(t *testing.T) {
	c := WithAlpha(White, 0.5)
	if c.A != 127 || c.R != 127 {
		t.Errorf("half alpha = %v", c)
	}
	if got := WithAlpha(White, 0); got != (color.RGBA{}) {
		t.Errorf("zero opacity = %v", got)
	}
	if got := WithAlpha(Selection, 1); got != Selection {
		t.Errorf("full opacity = %v", got)
	}
}

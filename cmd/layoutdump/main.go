// Command layoutdump prints the placement rectangles a layout mode
// produces, for inspecting gap and cell arithmetic.
package main

import (
	"flag"
	"fmt"
	"os"

	"collage-studio/internal/layout"
	"collage-studio/internal/scene"
)

func main() {
	modeName := flag.String("mode", "grid", "Layout mode: grid, left-big, right-big, top-big, bottom-big, single-focus")
	n := flag.Int("n", 4, "Number of images")
	width := flag.Float64("width", 960, "Canvas width")
	height := flag.Float64("height", 720, "Canvas height")
	gap := flag.Float64("gap", 16, "Gap between cells")
	flag.Parse()

	mode, err := scene.ParseMode(*modeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if mode == scene.ModeFree {
		fmt.Fprintln(os.Stderr, "free mode has no algorithmic placements")
		os.Exit(1)
	}

	placements := layout.ForMode(*width, *height, *n, *gap, mode)

	fmt.Printf("%s: %d images on %.0fx%.0f, gap %.0f\n", mode, *n, *width, *height, *gap)
	fmt.Printf("%-4s %10s %10s %10s %10s\n", "#", "X", "Y", "W", "H")
	for i, r := range placements {
		fmt.Printf("%-4d %10.2f %10.2f %10.2f %10.2f\n", i, r.X, r.Y, r.Width, r.Height)
	}
}

package renderer

import (
	"fmt"
	"image/color"
	"strings"
)

// markerPalette is cycled through in item order.
var markerPalette = []string{
	"#1F77B4", // Blue
	"#FF7F0E", // Orange
	"#2CA02C", // Green
	"#D62728", // Red
	"#9467BD", // Purple
	"#8C564B", // Brown
	"#E377C2", // Pink
	"#7F7F7F", // Gray
	"#BCBD22", // Olive
	"#17BECF", // Cyan
}

// Fixed chart colors.
const (
	colorBackground = "#FFFFFF"
	colorInk        = "#000000"
	colorGrid       = "#B0B0B0"
	colorLabelFill  = "#F5F5F5" // whitesmoke
	colorLabelEdge  = "#A9A9A9" // darkgray
	colorText       = "#262626"
)

// markerColor returns the fill color of the i-th marker.
func markerColor(i int) string {
	return markerPalette[i%len(markerPalette)]
}

// parseColor parses a hex color string
func parseColor(hexColor string) color.RGBA {
	hexColor = strings.TrimPrefix(hexColor, "#")

	var r, g, b uint8
	if len(hexColor) == 6 {
		fmt.Sscanf(hexColor, "%02x%02x%02x", &r, &g, &b)
	}

	return color.RGBA{r, g, b, 255}
}

// withAlpha returns hexColor with opacity alpha in [0,1].
func withAlpha(hexColor string, alpha float64) color.NRGBA {
	c := parseColor(hexColor)
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(alpha*255 + 0.5)}
}

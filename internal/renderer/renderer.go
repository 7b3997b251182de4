// Package renderer turns a set of scored items into a quadrant chart.
//
// Rendering happens in two steps. Render lays the items out on an
// origin-centered canvas and returns a Figure; Encode then draws that exact
// Figure as PNG (raster) or SVG (vector). Scores in [0,100] are moved onto
// the [-50,50] canvas by Scale, so a score of 50 sits on the center lines
// separating the four quadrants.
package renderer

import (
	"fmt"

	perrors "github.com/ankek/terraform-provider-plottoru/internal/errors"
	"github.com/ankek/terraform-provider-plottoru/internal/matrix"
)

// RenderOptions contains configuration for rendering
type RenderOptions struct {
	Width       int     // image width in pixels, DefaultWidth when zero
	Height      int     // image height in pixels, DefaultHeight when zero
	LabelOffset float64 // canvas units between a marker center and its label, DefaultLabelOffset when zero
	Title       string  // overrides the theme-based title
	FontPath    string  // TTF, OTF or TTC file used for all text
	FontName    string  // font file name looked up in the system font directories
}

// Rendering defaults.
const (
	DefaultWidth       = 1200
	DefaultHeight      = 1200
	DefaultLabelOffset = 6.0

	minImageSize = 200
	maxImageSize = 8000
)

// Render lays out items for theme and the two axes. An empty set yields a
// labeled chart with no markers.
func Render(items matrix.ItemSet, theme string, xAxis, yAxis matrix.AxisSpec, opts RenderOptions) (*Figure, error) {
	opts = opts.withDefaults()
	if opts.Width < minImageSize || opts.Height < minImageSize {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "image size %dx%d is below the %dpx minimum", opts.Width, opts.Height, minImageSize)
	}
	if opts.Width > maxImageSize || opts.Height > maxImageSize {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "image size %dx%d is above the %dpx maximum", opts.Width, opts.Height, maxImageSize)
	}

	title := opts.Title
	if title == "" {
		title = DefaultTitle(theme)
	}

	fig := newFigure(opts.Width, opts.Height)
	fig.Title = title
	fig.XLabel = xAxis.Name
	fig.YLabel = yAxis.Name
	fig.LabelOffset = opts.LabelOffset
	fig.Font = FontSpec{Path: opts.FontPath, Name: opts.FontName}

	fig.Markers = make([]Marker, 0, items.Len())
	for i := 0; i < items.Len(); i++ {
		item := items.At(i)
		x, y := Scale(item.X), Scale(item.Y)
		fig.Markers = append(fig.Markers, Marker{
			Name:   item.Name,
			X:      x,
			Y:      y,
			LabelX: x,
			LabelY: y - opts.LabelOffset,
			Color:  markerColor(i),
		})
	}

	return fig, nil
}

// DefaultTitle returns the chart title for theme.
func DefaultTitle(theme string) string {
	return fmt.Sprintf("「%s」の2軸マトリクス", theme)
}

// Scale maps a score in [0,100] onto the [-50,50] canvas.
func Scale(score float64) float64 {
	return score - (matrix.MaxScore-matrix.MinScore)/2
}

func (o RenderOptions) withDefaults() RenderOptions {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.LabelOffset == 0 {
		o.LabelOffset = DefaultLabelOffset
	}
	return o
}

package renderer

import "math"

// Canvas bounds on both axes.
const (
	CanvasMin = -50.0
	CanvasMax = 50.0
)

// referenceSize is the image side all pixel sizes below are tuned for.
const referenceSize = 1200.0

// Point represents a 2D coordinate
type Point struct {
	X, Y float64
}

// Rect is a pixel rectangle with its origin at the top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Marker is one plotted item in canvas coordinates.
type Marker struct {
	Name   string
	X, Y   float64 // marker center
	LabelX float64 // label anchor, horizontally centered
	LabelY float64 // label anchor, top edge of the text
	Color  string  // hex fill color
}

// FontSpec selects the font used for every piece of text.
type FontSpec struct {
	Path string
	Name string
}

// Figure is a fully laid out chart. PNG and SVG output are both drawn from
// it, so what one shows the other shows.
type Figure struct {
	Title       string
	XLabel      string
	YLabel      string
	Width       int
	Height      int
	Plot        Rect      // plot area in pixels
	Ticks       []float64 // grid and tick positions, same on both axes
	Markers     []Marker  // drawn in order, labels after all markers
	LabelOffset float64
	Font        FontSpec
}

// metrics holds pixel and point sizes derived from the image size.
type metrics struct {
	k             float64 // scale relative to referenceSize
	markerRadius  float64
	markerEdge    float64
	gridWidth     float64
	gridDash      float64
	centerWidth   float64
	frameWidth    float64
	tickLength    float64
	labelPad      float64
	titlePt       float64
	axisPt        float64
	tickPt        float64
	itemPt        float64
	dpi           float64
	titleGap      float64
	axisLabelGap  float64
	tickLabelGap  float64
	labelBoxAlpha float64
	markerAlpha   float64
	gridAlpha     float64
}

func newFigure(width, height int) *Figure {
	m := figureMetrics(width, height)

	left, right := 170*m.k, 50*m.k
	top, bottom := 110*m.k, 110*m.k

	side := math.Min(float64(width)-left-right, float64(height)-top-bottom)
	plot := Rect{
		X: left + (float64(width)-left-right-side)/2,
		Y: top + (float64(height)-top-bottom-side)/2,
		W: side,
		H: side,
	}

	return &Figure{
		Width:  width,
		Height: height,
		Plot:   plot,
		Ticks:  []float64{-40, -20, 0, 20, 40},
	}
}

func figureMetrics(width, height int) metrics {
	k := math.Min(float64(width), float64(height)) / referenceSize
	return metrics{
		k:             k,
		markerRadius:  21 * k,
		markerEdge:    0.7 * k,
		gridWidth:     1.1 * k,
		gridDash:      5 * k,
		centerWidth:   1.1 * k,
		frameWidth:    1.1 * k,
		tickLength:    5 * k,
		labelPad:      5 * k,
		titlePt:       18,
		axisPt:        14,
		tickPt:        10,
		itemPt:        9,
		dpi:           100 * k,
		titleGap:      28 * k,
		axisLabelGap:  0.05,
		tickLabelGap:  8 * k,
		labelBoxAlpha: 0.9,
		markerAlpha:   0.5,
		gridAlpha:     0.6,
	}
}

// metrics returns the size table for f.
func (f *Figure) metrics() metrics {
	return figureMetrics(f.Width, f.Height)
}

// ToPixel maps a canvas point to pixel coordinates. The canvas y axis
// points up, the pixel y axis points down.
func (f *Figure) ToPixel(p Point) (float64, float64) {
	span := CanvasMax - CanvasMin
	px := f.Plot.X + (p.X-CanvasMin)/span*f.Plot.W
	py := f.Plot.Y + (CanvasMax-p.Y)/span*f.Plot.H
	return px, py
}

// ptToPx converts a point size to pixels at the figure's resolution.
func (m metrics) ptToPx(pt float64) float64 {
	return pt * m.dpi / 72
}

package renderer

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// PNGRenderer handles PNG generation
type PNGRenderer struct {
	dc    *gg.Context
	fig   *Figure
	m     metrics
	faces *faceSet
}

// NewPNGRenderer creates a renderer for fig. Each renderer draws once.
func NewPNGRenderer(fig *Figure) *PNGRenderer {
	return &PNGRenderer{fig: fig, m: fig.metrics()}
}

// Render draws the figure and encodes it as PNG.
func (r *PNGRenderer) Render() ([]byte, error) {
	f, err := loadFont(r.fig.Font)
	if err != nil {
		return nil, err
	}
	r.faces, err = newFaceSet(f, r.m)
	if err != nil {
		return nil, err
	}
	defer r.faces.Close()

	r.dc = gg.NewContext(r.fig.Width, r.fig.Height)
	r.dc.SetColor(parseColor(colorBackground))
	r.dc.Clear()

	// Layers, bottom to top.
	r.drawGrid()
	r.drawCenterLines()
	r.drawFrame()
	r.drawTicks()
	r.drawMarkers()
	r.drawLabels()
	r.drawTitles()

	buf := &bytes.Buffer{}
	if err := r.dc.EncodePNG(buf); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

// drawGrid draws the light dashed grid behind all data.
func (r *PNGRenderer) drawGrid() {
	dc := r.dc
	p := r.fig.Plot

	dc.SetColor(withAlpha(colorGrid, r.m.gridAlpha))
	dc.SetLineWidth(r.m.gridWidth)
	dc.SetDash(r.m.gridDash, r.m.gridDash*0.6)
	for _, t := range r.fig.Ticks {
		x, _ := r.fig.ToPixel(Point{X: t})
		_, y := r.fig.ToPixel(Point{Y: t})
		dc.DrawLine(x, p.Y, x, p.Y+p.H)
		dc.DrawLine(p.X, y, p.X+p.W, y)
	}
	dc.Stroke()
	dc.SetDash()
}

// drawCenterLines draws the axes through the origin that split the quadrants.
func (r *PNGRenderer) drawCenterLines() {
	dc := r.dc
	p := r.fig.Plot
	ox, oy := r.fig.ToPixel(Point{})

	dc.SetColor(parseColor(colorInk))
	dc.SetLineWidth(r.m.centerWidth)
	dc.DrawLine(ox, p.Y, ox, p.Y+p.H)
	dc.DrawLine(p.X, oy, p.X+p.W, oy)
	dc.Stroke()
}

func (r *PNGRenderer) drawFrame() {
	p := r.fig.Plot
	r.dc.SetColor(parseColor(colorInk))
	r.dc.SetLineWidth(r.m.frameWidth)
	r.dc.DrawRectangle(p.X, p.Y, p.W, p.H)
	r.dc.Stroke()
}

// drawTicks draws tick marks and their numbers on the bottom and left edges.
func (r *PNGRenderer) drawTicks() {
	dc := r.dc
	p := r.fig.Plot
	ink := parseColor(colorInk)

	dc.SetColor(ink)
	dc.SetLineWidth(r.m.frameWidth)
	for _, t := range r.fig.Ticks {
		x, _ := r.fig.ToPixel(Point{X: t})
		_, y := r.fig.ToPixel(Point{Y: t})
		dc.DrawLine(x, p.Y+p.H, x, p.Y+p.H+r.m.tickLength)
		dc.DrawLine(p.X-r.m.tickLength, y, p.X, y)
	}
	dc.Stroke()

	for _, t := range r.fig.Ticks {
		label := formatTick(t)
		x, _ := r.fig.ToPixel(Point{X: t})
		_, y := r.fig.ToPixel(Point{Y: t})
		r.drawText(label, r.faces.tick, x, p.Y+p.H+r.m.tickLength+r.m.tickLabelGap/2, 0.5, 1, ink)
		r.drawText(label, r.faces.tick, p.X-r.m.tickLength-r.m.tickLabelGap/2, y, 1, 0.35, ink)
	}
}

// drawMarkers draws every item as a semi-transparent circle, clipped to the plot.
func (r *PNGRenderer) drawMarkers() {
	dc := r.dc
	p := r.fig.Plot

	dc.Push()
	dc.DrawRectangle(p.X, p.Y, p.W, p.H)
	dc.Clip()

	for _, marker := range r.fig.Markers {
		x, y := r.fig.ToPixel(Point{X: marker.X, Y: marker.Y})
		dc.DrawCircle(x, y, r.m.markerRadius)
		dc.SetColor(withAlpha(marker.Color, r.m.markerAlpha))
		dc.FillPreserve()
		dc.SetColor(parseColor(colorInk))
		dc.SetLineWidth(r.m.markerEdge)
		dc.Stroke()
	}

	dc.ResetClip()
	dc.Pop()
}

// drawLabels draws each item name in a rounded box below its marker.
// Overlapping labels are left as they fall.
func (r *PNGRenderer) drawLabels() {
	dc := r.dc
	pad := r.m.labelPad
	face := r.faces.item
	ink := parseColor(colorText)

	for _, marker := range r.fig.Markers {
		name := truncate(marker.Name, maxLabelRunes)
		x, y := r.fig.ToPixel(Point{X: marker.LabelX, Y: marker.LabelY})

		dc.SetFontFace(face)
		w, h := dc.MeasureString(name)
		bx, by := x-w/2-pad, y-pad
		bw, bh := w+2*pad, h+2*pad

		dc.DrawRoundedRectangle(bx, by, bw, bh, pad)
		dc.SetColor(withAlpha(colorLabelFill, r.m.labelBoxAlpha))
		dc.FillPreserve()
		dc.SetColor(withAlpha(colorLabelEdge, r.m.labelBoxAlpha))
		dc.SetLineWidth(r.m.markerEdge)
		dc.Stroke()

		r.drawText(name, face, x, y, 0.5, 1, ink)
	}
}

// drawTitles draws the title, the x label centered below the axis and the
// y label horizontally to the left of the axis.
func (r *PNGRenderer) drawTitles() {
	p := r.fig.Plot
	ink := parseColor(colorText)

	r.drawText(r.fig.Title, r.faces.title, p.X+p.W/2, p.Y-r.m.titleGap, 0.5, 0, ink)
	r.drawText(r.fig.XLabel, r.faces.axis, p.X+p.W/2, p.Y+p.H+p.H*r.m.axisLabelGap, 0.5, 1, ink)
	r.drawText(r.fig.YLabel, r.faces.axis, p.X-p.W*r.m.axisLabelGap, p.Y+p.H/2, 1, 0.35, ink)
}

// drawText draws text anchored at (x, y); ax and ay follow gg's anchor rules.
func (r *PNGRenderer) drawText(text string, face font.Face, x, y, ax, ay float64, col color.Color) {
	if text == "" {
		return
	}
	r.dc.SetFontFace(face)
	r.dc.SetColor(col)
	r.dc.DrawStringAnchored(text, x, y, ax, ay)
}

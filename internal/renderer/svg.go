package renderer

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"unicode/utf8"
)

// SVGRenderer handles SVG generation
type SVGRenderer struct {
	buf *bytes.Buffer
	fig *Figure
	m   metrics
}

// NewSVGRenderer creates a new SVG renderer
func NewSVGRenderer(fig *Figure) *SVGRenderer {
	return &SVGRenderer{
		buf: &bytes.Buffer{},
		fig: fig,
		m:   fig.metrics(),
	}
}

// Render generates SVG from the figure. Layers are written in the same
// order the PNG renderer paints them.
func (r *SVGRenderer) Render() ([]byte, error) {
	r.writeHeader()
	r.writeGrid()
	r.writeCenterLines()
	r.writeFrame()
	r.writeTicks()
	r.writeMarkers()
	r.writeLabels()
	r.writeTitles()
	r.buf.WriteString("</svg>\n")

	return r.buf.Bytes(), nil
}

// writeHeader writes the SVG header
func (r *SVGRenderer) writeHeader() {
	w, h := r.fig.Width, r.fig.Height
	p := r.fig.Plot
	fmt.Fprintf(r.buf, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<defs>
  <clipPath id="plot-area"><rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"/></clipPath>
</defs>
<rect width="100%%" height="100%%" fill="%s"/>
`, w, h, w, h, p.X, p.Y, p.W, p.H, colorBackground)
}

func (r *SVGRenderer) writeGrid() {
	p := r.fig.Plot
	fmt.Fprintf(r.buf, `<g stroke="%s" stroke-opacity="%.2f" stroke-width="%.2f" stroke-dasharray="%.2f %.2f">
`, colorGrid, r.m.gridAlpha, r.m.gridWidth, r.m.gridDash, r.m.gridDash*0.6)
	for _, t := range r.fig.Ticks {
		x, _ := r.fig.ToPixel(Point{X: t})
		_, y := r.fig.ToPixel(Point{Y: t})
		r.line(x, p.Y, x, p.Y+p.H)
		r.line(p.X, y, p.X+p.W, y)
	}
	r.buf.WriteString("</g>\n")
}

func (r *SVGRenderer) writeCenterLines() {
	p := r.fig.Plot
	ox, oy := r.fig.ToPixel(Point{})
	fmt.Fprintf(r.buf, `<g stroke="%s" stroke-width="%.2f">
`, colorInk, r.m.centerWidth)
	r.line(ox, p.Y, ox, p.Y+p.H)
	r.line(p.X, oy, p.X+p.W, oy)
	r.buf.WriteString("</g>\n")
}

func (r *SVGRenderer) writeFrame() {
	p := r.fig.Plot
	fmt.Fprintf(r.buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="%.2f"/>
`, p.X, p.Y, p.W, p.H, colorInk, r.m.frameWidth)
}

func (r *SVGRenderer) writeTicks() {
	p := r.fig.Plot
	size := r.m.ptToPx(r.m.tickPt)

	fmt.Fprintf(r.buf, `<g stroke="%s" stroke-width="%.2f">
`, colorInk, r.m.frameWidth)
	for _, t := range r.fig.Ticks {
		x, _ := r.fig.ToPixel(Point{X: t})
		_, y := r.fig.ToPixel(Point{Y: t})
		r.line(x, p.Y+p.H, x, p.Y+p.H+r.m.tickLength)
		r.line(p.X-r.m.tickLength, y, p.X, y)
	}
	r.buf.WriteString("</g>\n")

	for _, t := range r.fig.Ticks {
		label := formatTick(t)
		x, _ := r.fig.ToPixel(Point{X: t})
		_, y := r.fig.ToPixel(Point{Y: t})
		r.text(label, x, p.Y+p.H+r.m.tickLength+r.m.tickLabelGap/2+size, size, "middle", colorInk)
		r.text(label, p.X-r.m.tickLength-r.m.tickLabelGap/2, y+size*0.35, size, "end", colorInk)
	}
}

func (r *SVGRenderer) writeMarkers() {
	r.buf.WriteString(`<g clip-path="url(#plot-area)">` + "\n")
	for _, marker := range r.fig.Markers {
		x, y := r.fig.ToPixel(Point{X: marker.X, Y: marker.Y})
		fmt.Fprintf(r.buf, `  <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" fill-opacity="%.2f" stroke="%s" stroke-width="%.2f"/>
`, x, y, r.m.markerRadius, marker.Color, r.m.markerAlpha, colorInk, r.m.markerEdge)
	}
	r.buf.WriteString("</g>\n")
}

// writeLabels writes the boxed item names. SVG has no text metrics, so box
// width is estimated from the rune count at one em per rune.
func (r *SVGRenderer) writeLabels() {
	size := r.m.ptToPx(r.m.itemPt)
	pad := r.m.labelPad

	for _, marker := range r.fig.Markers {
		name := truncate(marker.Name, maxLabelRunes)
		x, y := r.fig.ToPixel(Point{X: marker.LabelX, Y: marker.LabelY})
		w := float64(utf8.RuneCountInString(name)) * size

		fmt.Fprintf(r.buf, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="%.2f" fill="%s" stroke="%s" stroke-width="%.2f" opacity="%.2f"/>
`, x-w/2-pad, y-pad, w+2*pad, size+2*pad, pad, colorLabelFill, colorLabelEdge, r.m.markerEdge, r.m.labelBoxAlpha)
		r.text(name, x, y+size*0.85, size, "middle", colorText)
	}
}

func (r *SVGRenderer) writeTitles() {
	p := r.fig.Plot
	titleSize := r.m.ptToPx(r.m.titlePt)
	axisSize := r.m.ptToPx(r.m.axisPt)

	r.text(r.fig.Title, p.X+p.W/2, p.Y-r.m.titleGap, titleSize, "middle", colorText)
	r.text(r.fig.XLabel, p.X+p.W/2, p.Y+p.H+p.H*r.m.axisLabelGap+axisSize, axisSize, "middle", colorText)
	r.text(r.fig.YLabel, p.X-p.W*r.m.axisLabelGap, p.Y+p.H/2+axisSize*0.35, axisSize, "end", colorText)
}

func (r *SVGRenderer) line(x1, y1, x2, y2 float64) {
	fmt.Fprintf(r.buf, `  <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>
`, x1, y1, x2, y2)
}

// text writes one text element with its baseline at y.
func (r *SVGRenderer) text(s string, x, y, size float64, anchor, fill string) {
	if s == "" {
		return
	}
	fmt.Fprintf(r.buf, `<text x="%.2f" y="%.2f" font-family="%s" font-size="%.2f" text-anchor="%s" fill="%s">%s</text>
`, x, y, svgFontFamily, size, anchor, fill, html.EscapeString(xmlText(s)))
}

// xmlText drops runes XML 1.0 does not allow in character data. Invalid
// UTF-8 becomes U+FFFD.
func xmlText(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			return r
		case r < 0x20, r >= 0xD800 && r <= 0xDFFF, r == 0xFFFE, r == 0xFFFF:
			return -1
		}
		return r
	}, s)
}

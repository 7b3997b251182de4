//go:build ignore

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ankek/terraform-provider-plottoru/internal/generation"
	"github.com/ankek/terraform-provider-plottoru/internal/matrix"
	"github.com/ankek/terraform-provider-plottoru/internal/pipeline"
	"github.com/ankek/terraform-provider-plottoru/internal/renderer"
)

// Renders the built-in sample chart as PNG and SVG into the current
// directory.
//
//	go run tools/generate_sample.go
func main() {
	ctx := context.Background()
	p := pipeline.New(generation.Sample())

	res, err := p.Items(ctx, matrix.DefaultRequest())
	if err != nil {
		fmt.Printf("Error generating items: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Parsed %d items\n", res.Items.Len())

	fig, err := renderer.Render(res.Items, res.Request.Theme, res.Request.XAxis, res.Request.YAxis, renderer.RenderOptions{})
	if err != nil {
		fmt.Printf("Error laying out chart: %v\n", err)
		os.Exit(1)
	}

	for _, format := range []string{renderer.FormatPNG, renderer.FormatSVG} {
		out := renderer.DefaultFilename(res.Request.Theme, format)
		if err := renderer.ExportChart(ctx, fig, out, format); err != nil {
			fmt.Printf("Error exporting %s: %v\n", format, err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", out)
	}
}

// Package interfaces defines interfaces for dependency injection and testing
package interfaces

import (
	"context"

	"github.com/ankek/terraform-provider-plottoru/internal/generation"
	"github.com/ankek/terraform-provider-plottoru/internal/matrix"
	"github.com/ankek/terraform-provider-plottoru/internal/parser"
	"github.com/ankek/terraform-provider-plottoru/internal/renderer"
)

// Generator produces raw response text for a prompt
type Generator = generation.Generator

// ResponseParser defines the interface for turning generator output into items
type ResponseParser interface {
	// Parse locates, decodes and validates the item array in raw
	Parse(raw string, policy matrix.Policy) (*parser.Result, error)
}

// ChartRenderer defines the interface for laying out and encoding charts
type ChartRenderer interface {
	// Render lays the items out as a figure
	Render(items matrix.ItemSet, theme string, xAxis, yAxis matrix.AxisSpec, opts renderer.RenderOptions) (*renderer.Figure, error)

	// Encode draws a figure as png or svg bytes
	Encode(fig *renderer.Figure, format string) ([]byte, error)
}

// MatrixGenerator defines the interface for producing a finished chart
type MatrixGenerator interface {
	// Generate runs one request end to end
	Generate(ctx context.Context, cfg MatrixConfig) (*GenerateResult, error)
}

// MatrixConfig contains all configuration needed to generate a chart
type MatrixConfig struct {
	Request    matrix.Request
	Policy     matrix.Policy
	Format     string // png or svg
	OutputPath string // written when set
	Render     renderer.RenderOptions
}

// GenerateResult contains the results of chart generation
type GenerateResult struct {
	ItemCount  int64
	Dropped    int64
	Clamped    int64
	OutputPath string
	Data       []byte // encoded chart
	ItemsJSON  string // parsed items as a JSON array
}

// Package provider implements the Terraform provider for plottoru quadrant charts.
// It provides both resource and data source implementations that turn a theme
// and two axes into a chart file or inline image.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hashicorp/terraform-plugin-log/tflog"

	perrors "github.com/ankek/terraform-provider-plottoru/internal/errors"
	"github.com/ankek/terraform-provider-plottoru/internal/generation"
	"github.com/ankek/terraform-provider-plottoru/internal/interfaces"
	"github.com/ankek/terraform-provider-plottoru/internal/pipeline"
	"github.com/ankek/terraform-provider-plottoru/internal/renderer"
	"github.com/ankek/terraform-provider-plottoru/internal/validation"
)

var _ interfaces.MatrixGenerator = &MatrixGenerator{}

// MatrixGenerator handles the core logic of generating charts.
// It is shared between the resource and data source implementations.
type MatrixGenerator struct {
	Config    generation.Config
	Generator generation.Generator // overrides Config when set
}

// Generate runs one chart request and, when cfg.OutputPath is set, writes the
// encoded chart there.
//
// It performs the following steps:
//  1. Validates the output path and its extension
//  2. Builds the prompt and calls the generator
//  3. Parses the response under the configured policy
//  4. Lays out and encodes the chart
func (g *MatrixGenerator) Generate(ctx context.Context, cfg interfaces.MatrixConfig) (*interfaces.GenerateResult, error) {
	format := cfg.Format
	if format == "" {
		format = renderer.FormatPNG
	}

	if cfg.OutputPath != "" {
		if err := validation.ValidateOutputPath(cfg.OutputPath); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "invalid output path")
		}
		if err := validation.ValidateOutputExtension(cfg.OutputPath, format); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "invalid output path")
		}
	}

	gen, err := g.generator(ctx)
	if err != nil {
		return nil, err
	}

	p := &pipeline.Pipeline{
		Generator: gen,
		Policy:    cfg.Policy,
		Options:   cfg.Render,
		Format:    format,
	}

	tflog.Debug(ctx, "generating matrix", map[string]interface{}{
		"theme":  cfg.Request.Theme,
		"policy": cfg.Policy.String(),
		"format": format,
	})

	res, err := p.Run(ctx, cfg.Request)
	if err != nil {
		return nil, err
	}

	if res.Dropped > 0 || res.Clamped > 0 {
		tflog.Warn(ctx, "generator output needed repair", map[string]interface{}{
			"dropped": res.Dropped,
			"clamped": res.Clamped,
		})
	}

	itemsJSON, err := json.Marshal(res.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode items: %w", err)
	}

	if cfg.OutputPath != "" {
		// Check context before writing
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		if err := os.WriteFile(cfg.OutputPath, res.Data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write chart: %w", err)
		}
	}

	return &interfaces.GenerateResult{
		ItemCount:  int64(res.Items.Len()),
		Dropped:    int64(res.Dropped),
		Clamped:    int64(res.Clamped),
		OutputPath: cfg.OutputPath,
		Data:       res.Data,
		ItemsJSON:  string(itemsJSON),
	}, nil
}

func (g *MatrixGenerator) generator(ctx context.Context) (generation.Generator, error) {
	if g.Generator != nil {
		return g.Generator, nil
	}
	return generation.New(ctx, g.Config)
}

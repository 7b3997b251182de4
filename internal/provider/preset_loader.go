package provider

import (
	"context"
	"fmt"

	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-log/tflog"

	"github.com/ankek/terraform-provider-plottoru/internal/config"
	"github.com/ankek/terraform-provider-plottoru/internal/interfaces"
	"github.com/ankek/terraform-provider-plottoru/internal/matrix"
	"github.com/ankek/terraform-provider-plottoru/internal/renderer"
)

// matrixArgs are the chart inputs shared by the resource and data source.
type matrixArgs struct {
	PresetPath   types.String
	Theme        types.String
	XAxis        types.String
	XDescription types.String
	YAxis        types.String
	YDescription types.String
	Policy       types.String
	Format       types.String
	Title        types.String
	FontPath     types.String
	Width        types.Int64
	Height       types.Int64
	OutputPath   types.String
}

// LoadMatrixConfig resolves args into a chart request and the generator
// that serves it.
//
// Priority, highest first:
//  1. attributes set on the resource or data source
//  2. the preset file named by preset_path
//  3. the provider configuration and the input form defaults
func LoadMatrixConfig(ctx context.Context, data *providerData, args matrixArgs) (interfaces.MatrixConfig, *MatrixGenerator, error) {
	cfg := interfaces.MatrixConfig{Request: matrix.DefaultRequest()}
	gen := &MatrixGenerator{}
	if data != nil {
		gen.Config = data.Generator
	}

	if path := args.PresetPath.ValueString(); path != "" {
		preset, err := config.LoadFile(ctx, path)
		if err != nil {
			return cfg, nil, err
		}
		tflog.Debug(ctx, "loaded preset", map[string]interface{}{
			"path":  path,
			"theme": preset.Request.Theme,
			"items": len(preset.Items),
		})

		cfg.Request = preset.Request
		cfg.Policy = preset.Policy
		cfg.Format = preset.Chart.Format
		cfg.Render = preset.RenderOptions()
		cfg.OutputPath = preset.Chart.Output

		if len(preset.Items) > 0 || preset.Generator.Provider != "" {
			g, err := preset.NewGenerator(ctx)
			if err != nil {
				return cfg, nil, err
			}
			gen.Generator = g
		}
	}

	setString(&cfg.Request.Theme, args.Theme)
	setString(&cfg.Request.XAxis.Name, args.XAxis)
	setString(&cfg.Request.XAxis.Description, args.XDescription)
	setString(&cfg.Request.YAxis.Name, args.YAxis)
	setString(&cfg.Request.YAxis.Description, args.YDescription)
	setString(&cfg.Format, args.Format)
	setString(&cfg.Render.Title, args.Title)
	setString(&cfg.Render.FontPath, args.FontPath)
	setString(&cfg.OutputPath, args.OutputPath)
	if !args.Width.IsNull() && !args.Width.IsUnknown() {
		cfg.Render.Width = int(args.Width.ValueInt64())
	}
	if !args.Height.IsNull() && !args.Height.IsUnknown() {
		cfg.Render.Height = int(args.Height.ValueInt64())
	}

	if s := args.Policy.ValueString(); s != "" {
		policy, err := matrix.ParsePolicy(s)
		if err != nil {
			return cfg, nil, err
		}
		cfg.Policy = policy
	}

	if cfg.Format == "" {
		cfg.Format = renderer.FormatPNG
	}
	if !renderer.IsSupportedFormat(cfg.Format) {
		return cfg, nil, fmt.Errorf("unsupported format: %s", cfg.Format)
	}

	cfg.Request = cfg.Request.Normalize()
	if err := cfg.Request.Validate(); err != nil {
		return cfg, nil, err
	}
	return cfg, gen, nil
}

func setString(dst *string, v types.String) {
	if v.IsNull() || v.IsUnknown() || v.ValueString() == "" {
		return
	}
	*dst = v.ValueString()
}

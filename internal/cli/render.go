package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ankek/terraform-provider-plottoru/internal/config"
	perrors "github.com/ankek/terraform-provider-plottoru/internal/errors"
	"github.com/ankek/terraform-provider-plottoru/internal/generation"
	"github.com/ankek/terraform-provider-plottoru/internal/matrix"
	"github.com/ankek/terraform-provider-plottoru/internal/pipeline"
	"github.com/ankek/terraform-provider-plottoru/internal/renderer"
	"github.com/ankek/terraform-provider-plottoru/internal/validation"
)

// chartOpts holds the flags shared by render and prompt.
type chartOpts struct {
	preset string // HCL preset file, flags override its values
	theme  string
	xAxis  string
	xDesc  string
	yAxis  string
	yDesc  string
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	chartOpts
	policy string // strict or lenient
	format string // png or svg
	output string // output file, <theme>_matrix.<format> when empty
	title  string
	font   string
	width  int
	height int
}

func (o *chartOpts) register(fs *pflag.FlagSet) {
	def := matrix.DefaultRequest()
	fs.StringVar(&o.preset, "preset", "", "HCL preset file")
	fs.StringVarP(&o.theme, "theme", "t", def.Theme, "theme of the chart")
	fs.StringVarP(&o.xAxis, "x-axis", "x", def.XAxis.Name, "horizontal axis name")
	fs.StringVar(&o.xDesc, "x-description", "", "horizontal axis description, prompt only")
	fs.StringVarP(&o.yAxis, "y-axis", "y", def.YAxis.Name, "vertical axis name")
	fs.StringVar(&o.yDesc, "y-description", "", "vertical axis description, prompt only")
}

// request builds the chart request from the preset, if any, and the flags
// the user set explicitly.
func (o *chartOpts) request(cmd *cobra.Command, preset *config.Preset) matrix.Request {
	req := matrix.DefaultRequest()
	if preset != nil {
		req = preset.Request
	}

	flags := cmd.Flags()
	override := func(dst *string, name, value string) {
		if preset == nil || flags.Changed(name) {
			*dst = value
		}
	}
	override(&req.Theme, "theme", o.theme)
	override(&req.XAxis.Name, "x-axis", o.xAxis)
	override(&req.XAxis.Description, "x-description", o.xDesc)
	override(&req.YAxis.Name, "y-axis", o.yAxis)
	override(&req.YAxis.Description, "y-description", o.yDesc)
	return req.Normalize()
}

func (o *chartOpts) loadPreset(cmd *cobra.Command) (*config.Preset, error) {
	if o.preset == "" {
		return nil, nil
	}
	return config.LoadFile(cmd.Context(), o.preset)
}

func newRenderCmd(v *viper.Viper) *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Generate items for a theme and draw them as a quadrant chart",
		Example: `  plottoru render --theme お酒 -x 価格帯 -y 味の傾向
  plottoru render --preset sake.hcl --format svg -o sake.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, v, &opts)
		},
	}

	opts.register(cmd.Flags())
	cmd.Flags().StringVar(&opts.policy, "policy", "lenient", "invalid item handling: lenient drops, strict fails")
	cmd.Flags().StringVarP(&opts.format, "format", "f", renderer.FormatPNG, "output format: png, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <theme>_matrix.<format>)")
	cmd.Flags().StringVar(&opts.title, "title", "", "chart title (default: 「theme」の2軸マトリクス)")
	cmd.Flags().StringVar(&opts.font, "font", "", "TTF, OTF or TTC font for all text")
	cmd.Flags().IntVar(&opts.width, "width", renderer.DefaultWidth, "image width in pixels")
	cmd.Flags().IntVar(&opts.height, "height", renderer.DefaultHeight, "image height in pixels")

	return cmd
}

func runRender(cmd *cobra.Command, v *viper.Viper, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := pipeline.LoggerFromContext(ctx)

	preset, err := opts.loadPreset(cmd)
	if err != nil {
		return err
	}

	p, err := buildPipeline(cmd, v, preset)
	if err != nil {
		return err
	}
	req := opts.request(cmd, preset)

	flags := cmd.Flags()
	render := renderer.RenderOptions{Width: opts.width, Height: opts.height, Title: opts.title, FontPath: opts.font}
	format, output := opts.format, opts.output
	if preset != nil {
		base := preset.RenderOptions()
		if !flags.Changed("width") && base.Width != 0 {
			render.Width = base.Width
		}
		if !flags.Changed("height") && base.Height != 0 {
			render.Height = base.Height
		}
		if !flags.Changed("title") {
			render.Title = base.Title
		}
		if !flags.Changed("font") {
			render.FontPath = base.FontPath
			render.FontName = base.FontName
		}
		render.LabelOffset = base.LabelOffset
		if !flags.Changed("format") && preset.Chart.Format != "" {
			format = preset.Chart.Format
		}
		if !flags.Changed("output") {
			output = preset.Chart.Output
		}
	}
	if preset == nil || flags.Changed("policy") {
		if p.Policy, err = matrix.ParsePolicy(opts.policy); err != nil {
			return err
		}
	}
	if !renderer.IsSupportedFormat(format) {
		return perrors.New(perrors.ErrCodeUnsupportedFormat, "unsupported format %q (want png or svg)", format)
	}
	if output == "" {
		output = renderer.DefaultFilename(req.Theme, format)
	}
	if err := validation.ValidateOutputExtension(output, format); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "invalid output path")
	}

	res, err := p.Items(ctx, req)
	if err != nil {
		return explain(err)
	}

	fig, err := renderer.Render(res.Items, res.Request.Theme, res.Request.XAxis, res.Request.YAxis, render)
	if err != nil {
		return err
	}
	if err := renderer.ExportChart(ctx, fig, output, format); err != nil {
		return err
	}
	logger.Debug("wrote chart", "path", output, "format", format)

	printSummary(cmd.OutOrStdout(), res, output)
	return nil
}

// buildPipeline picks the generator: static preset items first, then the
// preset's generator block, then flags, environment and config file.
func buildPipeline(cmd *cobra.Command, v *viper.Viper, preset *config.Preset) (*pipeline.Pipeline, error) {
	ctx := cmd.Context()

	var (
		g   generation.Generator
		err error
	)
	if preset != nil && (len(preset.Items) > 0 || preset.Generator.Provider != "") {
		g, err = preset.NewGenerator(ctx)
	} else {
		g, err = generation.New(ctx, generatorConfig(v))
	}
	if err != nil {
		return nil, err
	}

	p := pipeline.New(g)
	if preset != nil {
		p.Policy = preset.Policy
	}
	return p, nil
}

// explain adds a hint for failures the user can act on.
func explain(err error) error {
	var perr *perrors.Error
	if !errors.As(err, &perr) {
		return err
	}
	switch {
	case perr.Code == perrors.ErrCodeGenerationUnavailable:
		return fmt.Errorf("%w\nhint: check --generator, --api-key and network access, or omit --generator to plot sample data", err)
	case perrors.IsParseFailure(err):
		return fmt.Errorf("%w\nhint: the generator answered without a usable JSON array; retry or use --policy lenient", err)
	default:
		return err
	}
}

// Package pipeline runs one chart request end to end: prompt, generation,
// parsing, layout and encoding.
//
// A Pipeline holds configuration only. Run builds every intermediate value
// (prompt, item set, figure, image) afresh, so a Pipeline can serve
// concurrent requests without coordination. Any failing stage aborts the
// run and no figure is returned.
package pipeline

import (
	"context"

	perrors "github.com/ankek/terraform-provider-plottoru/internal/errors"
	"github.com/ankek/terraform-provider-plottoru/internal/generation"
	"github.com/ankek/terraform-provider-plottoru/internal/interfaces"
	"github.com/ankek/terraform-provider-plottoru/internal/matrix"
	"github.com/ankek/terraform-provider-plottoru/internal/parser"
	"github.com/ankek/terraform-provider-plottoru/internal/prompt"
	"github.com/ankek/terraform-provider-plottoru/internal/renderer"
)

// Pipeline wires the four chart stages together.
type Pipeline struct {
	Generator generation.Generator
	Parser    interfaces.ResponseParser // parser.Parse when nil
	Renderer  interfaces.ChartRenderer  // package renderer when nil
	Policy    matrix.Policy
	Options   renderer.RenderOptions
	Format    string // png when empty
}

// Result carries every intermediate value of a successful run.
type Result struct {
	Request matrix.Request
	Prompt  string
	Raw     string
	Items   matrix.ItemSet
	Dropped int
	Clamped int
	Figure  *renderer.Figure
	Data    []byte // Figure encoded in Format
	Format  string
}

// New returns a pipeline around g with default parser, renderer and policy.
func New(g generation.Generator) *Pipeline {
	return &Pipeline{Generator: g}
}

// Run executes every stage for req.
func (p *Pipeline) Run(ctx context.Context, req matrix.Request) (*Result, error) {
	res, err := p.Items(ctx, req)
	if err != nil {
		return nil, err
	}
	logger := LoggerFromContext(ctx)

	st := startStage(logger, "rendered figure")
	fig, err := p.renderer().Render(res.Items, res.Request.Theme, res.Request.XAxis, res.Request.YAxis, p.Options)
	if err != nil {
		return nil, err
	}
	st.done("markers", len(fig.Markers))

	format := p.Format
	if format == "" {
		format = renderer.FormatPNG
	}
	st = startStage(logger, "encoded chart")
	data, err := p.renderer().Encode(fig, format)
	if err != nil {
		return nil, err
	}
	st.done("format", format, "bytes", len(data))

	res.Figure = fig
	res.Data = data
	res.Format = format
	return res, nil
}

// Items runs the stages up to and including parsing and stops before layout.
func (p *Pipeline) Items(ctx context.Context, req matrix.Request) (*Result, error) {
	logger := LoggerFromContext(ctx)

	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if p.Generator == nil {
		return nil, perrors.New(perrors.ErrCodeGenerationUnavailable, "no generator configured")
	}

	text := prompt.ForRequest(req)
	logger.Debug("built prompt", "theme", req.Theme, "x", req.XAxis.Name, "y", req.YAxis.Name, "length", len(text))

	st := startStage(logger, "generated response")
	raw, err := p.Generator.Generate(ctx, text)
	if err != nil {
		logger.Warn("generation failed", "err", err)
		return nil, err
	}
	st.done("length", len(raw))

	parsed, err := p.parser().Parse(raw, p.Policy)
	if err != nil {
		logger.Warn("response rejected", "code", perrors.GetCode(err), "policy", p.Policy)
		return nil, err
	}
	if parsed.Dropped > 0 {
		logger.Warn("dropped invalid items", "count", parsed.Dropped)
	}
	if parsed.Clamped > 0 {
		logger.Warn("clamped out-of-range scores", "count", parsed.Clamped)
	}
	logger.Info("parsed items", "theme", req.Theme, "items", parsed.Items.Len())

	return &Result{
		Request: req,
		Prompt:  text,
		Raw:     raw,
		Items:   parsed.Items,
		Dropped: parsed.Dropped,
		Clamped: parsed.Clamped,
	}, nil
}

func (p *Pipeline) parser() interfaces.ResponseParser {
	if p.Parser != nil {
		return p.Parser
	}
	return defaultParser{}
}

func (p *Pipeline) renderer() interfaces.ChartRenderer {
	if p.Renderer != nil {
		return p.Renderer
	}
	return defaultRenderer{}
}

type defaultParser struct{}

func (defaultParser) Parse(raw string, policy matrix.Policy) (*parser.Result, error) {
	return parser.Parse(raw, policy)
}

type defaultRenderer struct{}

func (defaultRenderer) Render(items matrix.ItemSet, theme string, xAxis, yAxis matrix.AxisSpec, opts renderer.RenderOptions) (*renderer.Figure, error) {
	return renderer.Render(items, theme, xAxis, yAxis, opts)
}

func (defaultRenderer) Encode(fig *renderer.Figure, format string) ([]byte, error) {
	return renderer.Encode(fig, format)
}

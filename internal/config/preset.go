// Package config loads chart presets written in HCL.
//
// A preset names the theme and axes, picks a generator and parse policy,
// and sets chart options. It may also list the items directly, in which
// case no generator is contacted and the items still travel through the
// response parser:
//
//	theme  = "お酒"
//	policy = "strict"
//
//	x_axis {
//	  name        = "価格帯"
//	  description = "安い〜高い"
//	}
//	y_axis { name = "味の傾向" }
//
//	generator {
//	  provider = "gemini"
//	  api_key  = env("GEMINI_API_KEY")
//	  timeout  = "30s"
//	}
//
//	chart {
//	  width  = 1600
//	  height = 1600
//	  output = "sake.png"
//	}
//
//	item "山崎12年" {
//	  x = 85
//	  y = 60
//	}
package config

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"

	perrors "github.com/ankek/terraform-provider-plottoru/internal/errors"
	"github.com/ankek/terraform-provider-plottoru/internal/generation"
	"github.com/ankek/terraform-provider-plottoru/internal/matrix"
	"github.com/ankek/terraform-provider-plottoru/internal/renderer"
	"github.com/ankek/terraform-provider-plottoru/internal/validation"
)

// Preset is a decoded preset file.
type Preset struct {
	Request   matrix.Request
	Policy    matrix.Policy
	Generator generation.Config
	Chart     Chart
	Items     []matrix.ScoredItem // static items, used instead of the generator when present
}

// Chart holds rendering and output settings.
type Chart struct {
	Width       int
	Height      int
	LabelOffset float64
	Title       string
	FontPath    string
	FontName    string
	Format      string
	Output      string
}

type presetFile struct {
	Theme     string          `hcl:"theme"`
	Policy    string          `hcl:"policy,optional"`
	XAxis     *axisBlock      `hcl:"x_axis,block"`
	YAxis     *axisBlock      `hcl:"y_axis,block"`
	Generator *generatorBlock `hcl:"generator,block"`
	Chart     *chartBlock     `hcl:"chart,block"`
	Items     []itemBlock     `hcl:"item,block"`
}

type axisBlock struct {
	Name        string `hcl:"name"`
	Description string `hcl:"description,optional"`
}

type generatorBlock struct {
	Provider string `hcl:"provider,optional"`
	Model    string `hcl:"model,optional"`
	Endpoint string `hcl:"endpoint,optional"`
	APIKey   string `hcl:"api_key,optional"`
	Timeout  string `hcl:"timeout,optional"`
}

type chartBlock struct {
	Width       int     `hcl:"width,optional"`
	Height      int     `hcl:"height,optional"`
	LabelOffset float64 `hcl:"label_offset,optional"`
	Title       string  `hcl:"title,optional"`
	Font        string  `hcl:"font,optional"`
	FontName    string  `hcl:"font_name,optional"`
	Format      string  `hcl:"format,optional"`
	Output      string  `hcl:"output,optional"`
}

type itemBlock struct {
	Name string  `hcl:"name,label"`
	X    float64 `hcl:"x"`
	Y    float64 `hcl:"y"`
}

// LoadFile reads and decodes the preset at path.
func LoadFile(ctx context.Context, path string) (*Preset, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if err := validation.ValidateInputPath(path, false); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "invalid preset path")
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "failed to read preset %s", path)
	}
	return Parse(src, path)
}

// Parse decodes preset source. filename is only used in diagnostics.
func Parse(src []byte, filename string) (*Preset, error) {
	file, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "HCL parse errors: %s", diags.Error())
	}

	var raw presetFile
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &raw); diags.HasErrors() {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "invalid preset %s: %s", filename, diags.Error())
	}

	return raw.toPreset()
}

func (f *presetFile) toPreset() (*Preset, error) {
	p := &Preset{Request: matrix.DefaultRequest()}
	p.Request.Theme = f.Theme
	if f.XAxis != nil {
		p.Request.XAxis = matrix.AxisSpec{Name: f.XAxis.Name, Description: f.XAxis.Description}
	}
	if f.YAxis != nil {
		p.Request.YAxis = matrix.AxisSpec{Name: f.YAxis.Name, Description: f.YAxis.Description}
	}
	p.Request = p.Request.Normalize()
	if err := p.Request.Validate(); err != nil {
		return nil, err
	}

	policy, err := matrix.ParsePolicy(f.Policy)
	if err != nil {
		return nil, err
	}
	p.Policy = policy

	if g := f.Generator; g != nil {
		p.Generator = generation.Config{
			Provider: g.Provider,
			Model:    g.Model,
			Endpoint: g.Endpoint,
			APIKey:   g.APIKey,
		}
		if g.Timeout != "" {
			d, err := time.ParseDuration(g.Timeout)
			if err != nil || d < 0 {
				return nil, perrors.New(perrors.ErrCodeInvalidInput, "invalid generator timeout %q", g.Timeout)
			}
			p.Generator.Timeout = d
		}
	}

	if c := f.Chart; c != nil {
		p.Chart = Chart{
			Width:       c.Width,
			Height:      c.Height,
			LabelOffset: c.LabelOffset,
			Title:       c.Title,
			FontPath:    c.Font,
			FontName:    c.FontName,
			Format:      c.Format,
			Output:      c.Output,
		}
		if c.Format != "" && !renderer.IsSupportedFormat(c.Format) {
			return nil, perrors.New(perrors.ErrCodeUnsupportedFormat, "unsupported chart format %q", c.Format)
		}
	}

	for _, it := range f.Items {
		p.Items = append(p.Items, matrix.ScoredItem{Name: it.Name, X: it.X, Y: it.Y})
	}
	return p, nil
}

// RenderOptions returns the renderer settings of the preset.
func (p *Preset) RenderOptions() renderer.RenderOptions {
	return renderer.RenderOptions{
		Width:       p.Chart.Width,
		Height:      p.Chart.Height,
		LabelOffset: p.Chart.LabelOffset,
		Title:       p.Chart.Title,
		FontPath:    p.Chart.FontPath,
		FontName:    p.Chart.FontName,
	}
}

// NewGenerator returns the generator the preset describes. Static items are
// served as a canned JSON response.
func (p *Preset) NewGenerator(ctx context.Context) (generation.Generator, error) {
	if len(p.Items) > 0 {
		data, err := json.Marshal(matrix.NewItemSet(p.Items))
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "failed to encode preset items")
		}
		return &generation.Canned{Text: string(data)}, nil
	}
	return generation.New(ctx, p.Generator)
}

// evalContext exposes env(name) to preset expressions.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env": envFunc,
		},
		Variables: map[string]cty.Value{
			"default_theme": cty.StringVal(matrix.DefaultRequest().Theme),
		},
	}
}

var envFunc = function.New(&function.Spec{
	Params: []function.Parameter{
		{Name: "name", Type: cty.String},
	},
	Type: function.StaticReturnType(cty.String),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return cty.StringVal(os.Getenv(args[0].AsString())), nil
	},
})

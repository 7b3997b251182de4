package integration

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ankek/terraform-provider-plottoru/internal/config"
	"github.com/ankek/terraform-provider-plottoru/internal/generation"
	"github.com/ankek/terraform-provider-plottoru/internal/interfaces"
	"github.com/ankek/terraform-provider-plottoru/internal/matrix"
	"github.com/ankek/terraform-provider-plottoru/internal/parser"
	"github.com/ankek/terraform-provider-plottoru/internal/prompt"
	"github.com/ankek/terraform-provider-plottoru/internal/provider"
	"github.com/ankek/terraform-provider-plottoru/internal/renderer"
)

// TestFullPipeline tests the complete workflow from generator text to chart file
func TestFullPipeline(t *testing.T) {
	tests := []struct {
		name         string
		response     string
		policy       matrix.Policy
		wantItems    int
		wantDropped  int
		outputFormat string
	}{
		{
			name: "markdown fenced response",
			response: "こちらがマトリクスです。\n```json\n" +
				`[{"name": "一蘭", "x": 60, "y": 70}, {"name": "天下一品", "x": 50, "y": 95}]` +
				"\n```\n",
			policy:       matrix.PolicyStrict,
			wantItems:    2,
			outputFormat: "png",
		},
		{
			name:         "trailing bracketed note",
			response:     `[{"name": "A", "x": 10, "y": 20}] [注: 推定値です]`,
			policy:       matrix.PolicyLenient,
			wantItems:    1,
			outputFormat: "svg",
		},
		{
			name:         "lenient drops invalid items",
			response:     `[{"name": "A", "x": 10, "y": 20}, {"name": "", "x": 1, "y": 1}, {"name": "C", "x": "高い", "y": 5}]`,
			policy:       matrix.PolicyLenient,
			wantItems:    1,
			wantDropped:  2,
			outputFormat: "png",
		},
		{
			name:         "empty array",
			response:     `[]`,
			policy:       matrix.PolicyStrict,
			wantItems:    0,
			outputFormat: "svg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			ctx := context.Background()
			req := matrix.DefaultRequest()

			// Step 1: Build prompt and generate
			gen := &generation.Canned{Text: tt.response}
			raw, err := gen.Generate(ctx, prompt.ForRequest(req))
			if err != nil {
				t.Fatalf("Generate() error = %v", err)
			}

			// Step 2: Parse response
			result, err := parser.Parse(raw, tt.policy)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if result.Items.Len() != tt.wantItems {
				t.Errorf("Parse() got %d items, want %d", result.Items.Len(), tt.wantItems)
			}
			if result.Dropped != tt.wantDropped {
				t.Errorf("Parse() dropped %d, want %d", result.Dropped, tt.wantDropped)
			}

			// Step 3: Lay out the chart
			fig, err := renderer.Render(result.Items, req.Theme, req.XAxis, req.YAxis, renderer.RenderOptions{Width: 600, Height: 600})
			if err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			if len(fig.Markers) != tt.wantItems {
				t.Errorf("Render() got %d markers, want %d", len(fig.Markers), tt.wantItems)
			}

			// Step 4: Export
			outputPath := filepath.Join(tmpDir, renderer.DefaultFilename(req.Theme, tt.outputFormat))
			if err := renderer.ExportChart(ctx, fig, outputPath, tt.outputFormat); err != nil {
				t.Fatalf("ExportChart() error = %v", err)
			}

			// Step 5: Verify output file
			content, err := os.ReadFile(outputPath)
			if err != nil {
				t.Fatalf("ExportChart() did not create output file: %v", err)
			}
			if len(content) == 0 {
				t.Error("Output file is empty")
			}

			switch tt.outputFormat {
			case "png":
				if !bytes.HasPrefix(content, []byte("\x89PNG")) {
					t.Error("output is not a PNG")
				}
			case "svg":
				if !strings.Contains(string(content), "「お酒」の2軸マトリクス") {
					t.Error("SVG is missing the default title")
				}
			}
		})
	}
}

// TestMatrixGeneratorEndToEnd tests the MatrixGenerator with a preset file
func TestMatrixGeneratorEndToEnd(t *testing.T) {
	tmpDir := t.TempDir()

	presetContent := `
theme = "コーヒー"

x_axis {
  name        = "酸味"
  description = "弱い〜強い"
}
y_axis { name = "焙煎度" }

item "エチオピア イルガチェフェ" {
  x = 85
  y = 25
}

item "マンデリン" {
  x = 20
  y = 85
}

item "ブラジル サントス" {
  x = 40
  y = 55
}
`

	presetFile := filepath.Join(tmpDir, "coffee.hcl")
	if err := os.WriteFile(presetFile, []byte(presetContent), 0644); err != nil {
		t.Fatalf("Failed to create preset file: %v", err)
	}

	ctx := context.Background()
	preset, err := config.LoadFile(ctx, presetFile)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	g, err := preset.NewGenerator(ctx)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}

	outputPath := filepath.Join(tmpDir, "coffee.svg")
	gen := &provider.MatrixGenerator{Generator: g}
	cfg := interfaces.MatrixConfig{
		Request:    preset.Request,
		Policy:     matrix.PolicyStrict,
		Format:     "svg",
		OutputPath: outputPath,
		Render:     preset.RenderOptions(),
	}

	result, err := gen.Generate(ctx, cfg)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if result.ItemCount != 3 {
		t.Errorf("Generate() got %d items, want 3", result.ItemCount)
	}
	if result.Dropped != 0 || result.Clamped != 0 {
		t.Errorf("Generate() dropped %d clamped %d, want none", result.Dropped, result.Clamped)
	}

	content, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}
	svg := string(content)
	for _, want := range []string{"「コーヒー」の2軸マトリクス", "酸味", "焙煎度", "マンデリン"} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG missing %q", want)
		}
	}
	if strings.Contains(svg, "弱い〜強い") {
		t.Error("axis description must not be drawn")
	}
}

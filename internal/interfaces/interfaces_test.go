package interfaces

import (
	"context"
	"testing"

	"github.com/ankek/terraform-provider-plottoru/internal/generation"
	"github.com/ankek/terraform-provider-plottoru/internal/matrix"
)

func TestMatrixConfigStruct(t *testing.T) {
	cfg := MatrixConfig{
		Request:    matrix.DefaultRequest(),
		Policy:     matrix.PolicyStrict,
		Format:     "svg",
		OutputPath: "/path/to/お酒_matrix.svg",
	}

	if cfg.Request.Theme != "お酒" {
		t.Errorf("Expected theme 'お酒', got '%s'", cfg.Request.Theme)
	}
	if cfg.Format != "svg" {
		t.Errorf("Expected Format 'svg', got '%s'", cfg.Format)
	}
	if cfg.Policy != matrix.PolicyStrict {
		t.Errorf("Expected strict policy, got %s", cfg.Policy)
	}
}

func TestGenerateResultStruct(t *testing.T) {
	result := GenerateResult{
		ItemCount:  6,
		Dropped:    1,
		OutputPath: "/path/to/output.png",
	}

	if result.ItemCount != 6 {
		t.Errorf("Expected ItemCount 6, got %d", result.ItemCount)
	}
	if result.Dropped != 1 {
		t.Errorf("Expected Dropped 1, got %d", result.Dropped)
	}
}

func TestGeneratorAlias(t *testing.T) {
	var g Generator = generation.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "[]", nil
	})

	got, err := g.Generate(context.Background(), "p")
	if err != nil || got != "[]" {
		t.Errorf("Generate() = %q, %v", got, err)
	}
}

func TestInterfacesAreDefined(t *testing.T) {
	var _ ResponseParser
	var _ ChartRenderer
	var _ MatrixGenerator
}

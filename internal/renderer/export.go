package renderer

import (
	"context"
	"fmt"
	"os"
	"strings"

	perrors "github.com/ankek/terraform-provider-plottoru/internal/errors"
	"github.com/ankek/terraform-provider-plottoru/internal/validation"
)

// Output formats.
const (
	FormatPNG = "png"
	FormatSVG = "svg"
)

// Encode draws fig in the given format. An empty format means PNG.
func Encode(fig *Figure, format string) ([]byte, error) {
	if fig == nil {
		return nil, perrors.New(perrors.ErrCodeRenderFailed, "no figure to encode")
	}

	var (
		data []byte
		err  error
	)
	switch normalizeFormat(format) {
	case FormatPNG:
		data, err = NewPNGRenderer(fig).Render()
	case FormatSVG:
		data, err = NewSVGRenderer(fig).Render()
	default:
		return nil, perrors.New(perrors.ErrCodeUnsupportedFormat, "unsupported format: %s (png and svg are supported)", format)
	}
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeRenderFailed, err, "failed to render %s", normalizeFormat(format))
	}
	return data, nil
}

// RenderPNG encodes fig as PNG.
func RenderPNG(fig *Figure) ([]byte, error) {
	return Encode(fig, FormatPNG)
}

// ExportChart encodes fig and writes it to outputPath with context support.
func ExportChart(ctx context.Context, fig *Figure, outputPath, format string) error {
	// Check context before starting
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := validation.ValidateOutputPath(outputPath); err != nil {
		return perrors.Wrap(perrors.ErrCodeInvalidInput, err, "invalid output path")
	}

	data, err := Encode(fig, format)
	if err != nil {
		return err
	}

	// Encoding can take a while at large sizes
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return nil
}

// DefaultFilename returns "<theme>_matrix.<format>" with unsafe characters
// replaced. An empty format means PNG.
func DefaultFilename(theme, format string) string {
	name := sanitizeFilename(theme)
	if name == "" {
		name = "chart"
	}
	return name + "_matrix." + normalizeFormat(format)
}

// MIMEType returns the content type of format.
func MIMEType(format string) string {
	switch normalizeFormat(format) {
	case FormatSVG:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	default:
		return "application/octet-stream"
	}
}

// IsSupportedFormat reports whether Encode accepts format.
func IsSupportedFormat(format string) bool {
	f := normalizeFormat(format)
	return f == FormatPNG || f == FormatSVG
}

func normalizeFormat(format string) string {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "" {
		return FormatPNG
	}
	return f
}

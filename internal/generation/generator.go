// Package generation is the boundary to the text-producing service.
//
// A Generator turns an instruction into raw text. Nothing about the text is
// guaranteed; all defensive parsing happens in internal/parser. Every
// failure, including a cancelled or expired context, is reported as
// errors.ErrCodeGenerationUnavailable so callers can show a single notice.
package generation

import (
	"context"
	"strings"
	"time"

	perrors "github.com/ankek/terraform-provider-plottoru/internal/errors"
)

// Provider names accepted by New.
const (
	ProviderSample = "sample"
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Generator produces raw response text for a prompt. Implementations block
// until the text is available, ctx is done, or the service fails.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Config selects and configures a generator.
type Config struct {
	Provider string        // sample, gemini or openai; empty means sample
	Model    string        // model identifier, provider default when empty
	Endpoint string        // base URL for openai-compatible servers
	APIKey   string        // credential for gemini and openai
	Timeout  time.Duration // per-call limit, none when zero
}

// New builds the generator described by cfg.
func New(ctx context.Context, cfg Config) (Generator, error) {
	var (
		g   Generator
		err error
	)

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderSample:
		g = Sample()
	case ProviderGemini:
		g, err = NewGemini(ctx, cfg.APIKey, cfg.Model)
	case ProviderOpenAI:
		g, err = NewOpenAI(cfg.Endpoint, cfg.APIKey, cfg.Model)
	default:
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "unknown generator provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Timeout > 0 {
		g = WithTimeout(g, cfg.Timeout)
	}
	return g, nil
}

// WithTimeout bounds every call to g by d.
func WithTimeout(g Generator, d time.Duration) Generator {
	return GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return g.Generate(ctx, prompt)
	})
}

// unavailable wraps err as a generation failure. Context errors are kept as
// the cause so callers can still tell a timeout apart.
func unavailable(err error, format string, args ...any) error {
	return perrors.Wrap(perrors.ErrCodeGenerationUnavailable, err, format, args...)
}

// checkContext reports a done context as a generation failure.
func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return unavailable(ctx.Err(), "generation cancelled")
	default:
		return nil
	}
}

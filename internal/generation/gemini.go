package generation

import (
	"context"
	"strings"

	"google.golang.org/genai"

	perrors "github.com/ankek/terraform-provider-plottoru/internal/errors"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-1.5-flash"

// Gemini generates responses with Google's Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini generator.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "gemini API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, unavailable(err, "failed to create Gemini client")
	}

	return &Gemini{client: client, model: model}, nil
}

// Generate sends prompt as a single user turn and returns the response text.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if err := checkContext(ctx); err != nil {
		return "", err
	}

	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return "", unavailable(err, "gemini %s request failed", g.model)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", unavailable(nil, "gemini %s returned no text", g.model)
	}
	return text, nil
}

// Name returns the generator name.
func (g *Gemini) Name() string {
	return "gemini:" + g.model
}

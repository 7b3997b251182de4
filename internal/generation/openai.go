package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	perrors "github.com/ankek/terraform-provider-plottoru/internal/errors"
)

// DefaultOpenAIModel is used when no model is configured.
const DefaultOpenAIModel = "gpt-4o-mini"

// maxErrorBody caps how much of a failed response body ends up in errors.
const maxErrorBody = 512

// OpenAI talks to any OpenAI-compatible chat completions endpoint.
type OpenAI struct {
	client   *retryablehttp.Client
	endpoint string
	apiKey   string
	model    string
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewOpenAI creates a generator for endpoint, e.g. "https://api.openai.com/v1".
func NewOpenAI(endpoint, apiKey, model string) (*OpenAI, error) {
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1"
	}
	if apiKey == "" {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "openai API key is required")
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 0 // one attempt per request
	client.Logger = nil
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &OpenAI{
		client:   client,
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		model:    model,
	}, nil
}

// Generate posts prompt as a single user message and returns the first choice.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	if err := checkContext(ctx); err != nil {
		return "", err
	}

	body, err := json.Marshal(chatRequest{
		Model:    o.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", unavailable(err, "failed to encode chat request")
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, o.endpoint+"/chat/completions", body)
	if err != nil {
		return "", unavailable(err, "failed to create chat request")
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", unavailable(err, "chat request to %s failed", o.endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", unavailable(fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(excerpt))), "chat endpoint rejected the request")
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", unavailable(err, "failed to decode chat response")
	}
	if len(decoded.Choices) == 0 || strings.TrimSpace(decoded.Choices[0].Message.Content) == "" {
		return "", unavailable(nil, "chat endpoint returned no content")
	}

	return decoded.Choices[0].Message.Content, nil
}

// Name returns the generator name.
func (o *OpenAI) Name() string {
	return "openai:" + o.model
}

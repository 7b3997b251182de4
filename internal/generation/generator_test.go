package generation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/ankek/terraform-provider-plottoru/internal/errors"
)

func TestSample(t *testing.T) {
	text, err := Sample().Generate(context.Background(), "ignored")
	require.NoError(t, err)
	assert.Contains(t, text, "アサヒスーパードライ")
	assert.Contains(t, text, "カルロロッシ(赤)")

	var items []map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &items))
	assert.Len(t, items, 6)
}

func TestCanned_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Canned{Text: "[]"}).Generate(ctx, "p")
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.ErrCodeGenerationUnavailable))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantType any
		wantCode perrors.Code
	}{
		{name: "default is sample", cfg: Config{}, wantType: &Canned{}},
		{name: "explicit sample", cfg: Config{Provider: "Sample"}, wantType: &Canned{}},
		{name: "openai", cfg: Config{Provider: "openai", APIKey: "k"}, wantType: &OpenAI{}},
		{name: "gemini without key", cfg: Config{Provider: "gemini"}, wantCode: perrors.ErrCodeInvalidInput},
		{name: "openai without key", cfg: Config{Provider: "openai"}, wantCode: perrors.ErrCodeInvalidInput},
		{name: "unknown provider", cfg: Config{Provider: "oracle"}, wantCode: perrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(context.Background(), tt.cfg)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, perrors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.wantType, g)
		})
	}
}

func TestWithTimeout(t *testing.T) {
	slow := GeneratorFunc(func(ctx context.Context, _ string) (string, error) {
		select {
		case <-ctx.Done():
			return "", unavailable(ctx.Err(), "slow generator gave up")
		case <-time.After(5 * time.Second):
			return "late", nil
		}
	})

	start := time.Now()
	_, err := WithTimeout(slow, 20*time.Millisecond).Generate(context.Background(), "p")
	require.Error(t, err)
	assert.True(t, perrors.Is(err, perrors.ErrCodeGenerationUnavailable))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestNewWrapsTimeout(t *testing.T) {
	g, err := New(context.Background(), Config{Timeout: time.Second})
	require.NoError(t, err)
	_, isCanned := g.(*Canned)
	assert.False(t, isCanned, "timeout should wrap the generator")

	text, err := g.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Contains(t, text, "山崎12年")
}

func TestOpenAI_Generate(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"[{\"name\":\"A\",\"x\":1,\"y\":2}]"}}]}`))
	}))
	defer srv.Close()

	g, err := NewOpenAI(srv.URL+"/v1/", "secret", "")
	require.NoError(t, err)

	text, err := g.Generate(context.Background(), "build a matrix")
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"A","x":1,"y":2}]`, text)
	assert.Equal(t, DefaultOpenAIModel, gotReq.Model)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, "build a matrix", gotReq.Messages[0].Content)
	assert.Equal(t, "openai:"+DefaultOpenAIModel, g.Name())
}

func TestOpenAI_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error is not retried",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "overloaded", http.StatusServiceUnavailable)
			},
		},
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "bad key", http.StatusUnauthorized)
			},
		},
		{
			name: "no choices",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"choices":[]}`))
			},
		},
		{
			name: "garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				tt.handler(w, r)
			}))
			defer srv.Close()

			g, err := NewOpenAI(srv.URL, "k", "m")
			require.NoError(t, err)

			_, err = g.Generate(context.Background(), "p")
			require.Error(t, err)
			assert.True(t, perrors.Is(err, perrors.ErrCodeGenerationUnavailable), "got %v", err)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestGemini_RequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "")
	require.Error(t, err)
	assert.Equal(t, perrors.ErrCodeInvalidInput, perrors.GetCode(err))
}

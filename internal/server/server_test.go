package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/ankek/terraform-provider-plottoru/internal/errors"
	"github.com/ankek/terraform-provider-plottoru/internal/generation"
	"github.com/ankek/terraform-provider-plottoru/internal/pipeline"
)

func newTestServer(t *testing.T, g generation.Generator) *httptest.Server {
	t.Helper()
	logger := pipeline.NewLogger(io.Discard, log.DebugLevel)
	ts := httptest.NewServer(New(pipeline.New(g), logger).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func decodeError(t *testing.T, resp *http.Response) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, generation.Sample())

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))
}

func TestPrompt(t *testing.T) {
	ts := newTestServer(t, generation.Sample())

	q := url.Values{"theme": {"カフェ"}, "x": {"価格"}, "xdesc": {"安い〜高い"}, "y": {"雰囲気"}}
	resp, err := http.Get(ts.URL + "/prompt?" + q.Encode())
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	text := string(body)
	assert.Contains(t, text, "カフェ")
	assert.Contains(t, text, "価格（安い〜高い）")
	assert.Contains(t, text, "雰囲気")
}

func TestMatrix_PNGDownload(t *testing.T) {
	ts := newTestServer(t, generation.Sample())

	resp, err := http.Get(ts.URL + "/matrix")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, "0", resp.Header.Get("X-Items-Dropped"))

	_, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "お酒_matrix.png", params["filename"])

	body, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(body, []byte("\x89PNG\r\n\x1a\n")))
}

func TestMatrix_SVGPost(t *testing.T) {
	ts := newTestServer(t, &generation.Canned{Text: `[{"name":"X","x":15,"y":15}]`})

	payload := `{"theme":"ラーメン","x_axis":{"name":"値段"},"y_axis":{"name":"こってり度"}}`
	resp, err := http.Post(ts.URL+"/matrix?format=svg", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "「ラーメン」の2軸マトリクス")
	assert.Contains(t, string(body), "こってり度")
}

func TestMatrixItems(t *testing.T) {
	ts := newTestServer(t, &generation.Canned{Text: "```json\n[{\"name\":\"A\",\"x\":10,\"y\":20},{\"name\":\"B\",\"x\":5}]\n```"})

	resp, err := http.Get(ts.URL + "/matrix/items")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Theme   string `json:"theme"`
		Items   []struct {
			Name string  `json:"name"`
			X    float64 `json:"x"`
			Y    float64 `json:"y"`
		} `json:"items"`
		Dropped int `json:"dropped"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "お酒", body.Theme)
	require.Len(t, body.Items, 1)
	assert.Equal(t, "A", body.Items[0].Name)
	assert.Equal(t, 1, body.Dropped)
}

func TestMatrix_Errors(t *testing.T) {
	down := generation.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return "", perrors.New(perrors.ErrCodeGenerationUnavailable, "service down")
	})

	tests := []struct {
		name       string
		gen        generation.Generator
		method     string
		path       string
		body       string
		wantStatus int
		wantCode   perrors.Code
	}{
		{
			name:       "generation unavailable",
			gen:        down,
			method:     http.MethodGet,
			path:       "/matrix",
			wantStatus: http.StatusBadGateway,
			wantCode:   perrors.ErrCodeGenerationUnavailable,
		},
		{
			name:       "no json in response",
			gen:        &generation.Canned{Text: "not json at all"},
			method:     http.MethodGet,
			path:       "/matrix",
			wantStatus: http.StatusBadRequest,
			wantCode:   perrors.ErrCodeNoJSONFound,
		},
		{
			name:       "unsupported format",
			gen:        generation.Sample(),
			method:     http.MethodGet,
			path:       "/matrix?format=gif",
			wantStatus: http.StatusBadRequest,
			wantCode:   perrors.ErrCodeUnsupportedFormat,
		},
		{
			name:       "malformed body",
			gen:        generation.Sample(),
			method:     http.MethodPost,
			path:       "/matrix/items",
			body:       `{"theme":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   perrors.ErrCodeInvalidInput,
		},
		{
			name:       "blank theme",
			gen:        generation.Sample(),
			method:     http.MethodPost,
			path:       "/matrix",
			body:       `{"theme":"   "}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   perrors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.gen)

			req, err := http.NewRequest(tt.method, ts.URL+tt.path, strings.NewReader(tt.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, decodeError(t, resp).Code)
		})
	}
}

func TestListenAndServe_Shutdown(t *testing.T) {
	s := New(pipeline.New(generation.Sample()), pipeline.NewLogger(io.Discard, log.InfoLevel))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	cancel()
	assert.NoError(t, <-done)
}

// Package server is the HTTP presentation shell around the chart pipeline.
//
// Routes:
//
//	GET      /healthz        liveness probe, answers "ok"
//	GET      /prompt         the instruction text for a request
//	GET|POST /matrix         the chart as a PNG (or ?format=svg) attachment
//	GET|POST /matrix/items   the parsed items as JSON
//
// GET requests read theme, x, xdesc, y and ydesc from the query string;
// POST requests send a JSON matrix.Request. Missing fields fall back to the
// defaults of the input form. Failures are answered with a JSON body
// {"code": ..., "message": ...}.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	perrors "github.com/ankek/terraform-provider-plottoru/internal/errors"
	"github.com/ankek/terraform-provider-plottoru/internal/matrix"
	"github.com/ankek/terraform-provider-plottoru/internal/pipeline"
	"github.com/ankek/terraform-provider-plottoru/internal/prompt"
	"github.com/ankek/terraform-provider-plottoru/internal/renderer"
)

// maxBodyBytes caps POST request bodies.
const maxBodyBytes = 64 << 10

// shutdownTimeout bounds how long in-flight requests may finish after the
// serve context is cancelled.
const shutdownTimeout = 10 * time.Second

// Server serves charts over HTTP. Each request runs its own pipeline pass.
type Server struct {
	pipeline *pipeline.Pipeline
	logger   *log.Logger
	router   chi.Router
}

// New creates a server around p. A nil logger means log.Default().
func New(p *pipeline.Pipeline, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{pipeline: p, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/prompt", s.handlePrompt)
	r.Route("/matrix", func(r chi.Router) {
		r.Get("/", s.handleMatrix)
		r.Post("/", s.handleMatrix)
		r.Get("/items", s.handleItems)
		r.Post("/items", s.handleItems)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok")
}

func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	req, err := readRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, prompt.ForRequest(req))
}

func (s *Server) handleMatrix(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if !renderer.IsSupportedFormat(format) {
		s.writeError(w, perrors.New(perrors.ErrCodeUnsupportedFormat, "unsupported format: %s", format))
		return
	}

	req, err := readRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	p := *s.pipeline
	p.Format = format
	res, err := p.Run(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{
		"filename": renderer.DefaultFilename(res.Request.Theme, res.Format),
	})
	w.Header().Set("Content-Type", renderer.MIMEType(res.Format))
	w.Header().Set("Content-Disposition", disposition)
	w.Header().Set("X-Items-Dropped", strconv.Itoa(res.Dropped))
	w.Write(res.Data)
}

// itemsResponse is the body of /matrix/items.
type itemsResponse struct {
	Theme   string         `json:"theme"`
	XAxis   string         `json:"x_axis"`
	YAxis   string         `json:"y_axis"`
	Items   matrix.ItemSet `json:"items"`
	Dropped int            `json:"dropped"`
	Clamped int            `json:"clamped"`
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	req, err := readRequest(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	res, err := s.pipeline.Items(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, itemsResponse{
		Theme:   res.Request.Theme,
		XAxis:   res.Request.XAxis.Name,
		YAxis:   res.Request.YAxis.Name,
		Items:   res.Items,
		Dropped: res.Dropped,
		Clamped: res.Clamped,
	})
}

// readRequest builds a matrix.Request from the query string or JSON body,
// starting from the form defaults.
func readRequest(r *http.Request) (matrix.Request, error) {
	req := matrix.DefaultRequest()

	if r.Method == http.MethodPost {
		dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&req); err != nil {
			return req, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "invalid request body")
		}
		return req, nil
	}

	q := r.URL.Query()
	if v := q.Get("theme"); v != "" {
		req.Theme = v
	}
	if v := q.Get("x"); v != "" {
		req.XAxis.Name = v
	}
	if v := q.Get("y"); v != "" {
		req.YAxis.Name = v
	}
	req.XAxis.Description = q.Get("xdesc")
	req.YAxis.Description = q.Get("ydesc")
	return req, nil
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/md2ifdam/pkg/errors"
	"github.com/matzehuels/md2ifdam/pkg/observability"
	"github.com/matzehuels/md2ifdam/pkg/pipeline"
)

// shutdownTimeout bounds graceful shutdown of the render service.
const shutdownTimeout = 10 * time.Second

// serveCommand creates the serve command running the HTTP render service.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Long: `Run the HTTP render service.

Endpoints:
  POST /render?format=svg   markdown request body, artifact response
  GET  /fonts               JSON list of the available font faces
  GET  /healthz             liveness probe

Set [cache] redis_url to share rendered artifacts between instances.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				c.Config.Serve.Addr = addr
			}
			return c.runServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srv := &http.Server{
		Addr:              c.Config.Serve.Addr,
		Handler:           newRouter(runner, c.Config, c.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("render service listening", "addr", srv.Addr, "session", runner.Session.ID)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("listen %s: %w", srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
		c.Logger.Info("shutting down render service")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// renderService handles the HTTP endpoints over one shared runner.
type renderService struct {
	runner  *pipeline.Runner
	cfg     Config
	logger  *log.Logger
	maxBody int64
}

// newRouter builds the chi router of the render service.
func newRouter(runner *pipeline.Runner, cfg Config, logger *log.Logger) http.Handler {
	s := &renderService{runner: runner, cfg: cfg, logger: logger, maxBody: cfg.Serve.MaxBody}
	if s.maxBody <= 0 {
		s.maxBody = DefaultConfig().Serve.MaxBody
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthz)
	r.Get("/fonts", s.fonts)
	r.Post("/render", s.render)
	return r
}

// observe logs every request and reports it to the HTTP hooks.
func (s *renderService) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		hooks := observability.HTTP()
		hooks.OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		dur := time.Since(start)

		hooks.OnResponse(ctx, r.Method, r.URL.Path, ww.Status(), dur)
		s.logger.Debug("request",
			"id", middleware.GetReqID(ctx),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", dur)
	})
}

func (s *renderService) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (s *renderService) fonts(w http.ResponseWriter, r *http.Request) {
	faces := s.runner.Session.Fonts().Catalog().Faces()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(faces); err != nil {
		s.logger.Warn("encode fonts", "error", err)
	}
}

// render compiles the markdown request body into the artifact named by the
// format query parameter (svg by default).
func (s *renderService) render(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}

	source, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		s.fail(w, r, http.StatusRequestEntityTooLarge, errors.Wrap(errors.ErrCodeInvalidInput, err, "read body"))
		return
	}

	opts := pipeline.Options{
		Name:    "request " + middleware.GetReqID(r.Context()),
		Layout:  s.cfg.Layout,
		Formats: []string{format},
		Refresh: r.URL.Query().Get("refresh") == "true",
		Logger:  s.logger,
	}
	result, err := s.runner.Execute(r.Context(), source, opts)
	if err != nil {
		s.fail(w, r, statusFor(err), err)
		return
	}

	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.Header().Set("X-Source-Hash", result.SourceHash)
	w.Header().Set("X-Cache", result.CacheStatus)
	_, _ = w.Write(result.Artifacts[format])
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.IsInvalid(err):
		return http.StatusBadRequest
	case errors.Is(err, errors.ErrCodeFontNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errors.ErrCodeUnsupported):
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

type errorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func (s *renderService) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("render failed", "id", middleware.GetReqID(r.Context()), "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	})
}

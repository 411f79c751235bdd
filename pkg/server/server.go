package server

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/enhance"
	"github.com/vango-dev/enhance/internal/dev"
	enhanceerrors "github.com/vango-dev/enhance/internal/errors"
)

// Server renders and serves pages.
type Server struct {
	config *Config
	logger *slog.Logger

	// mu serializes renders; an Enhancer must not render concurrently.
	mu       sync.Mutex
	enhancer *enhance.Enhancer

	handler http.Handler

	// httpServer is set once in New.
	httpServer *http.Server
}

// New creates a Server rendering pages through e.
func New(e *enhance.Enhancer, config *Config) (*Server, error) {
	config = config.withDefaults()
	s := &Server{
		config:   config,
		logger:   config.Logger.With("component", "server"),
		enhancer: e,
	}

	compressor, err := compress(config.Compression)
	if err != nil {
		return nil, enhanceerrors.New("E041").WithDetail("configuring compression").Wrap(err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.GetHead)
	r.Use(s.logRequests)

	if config.Metrics {
		h := config.MetricsHandler
		if h == nil {
			h = promhttp.Handler()
		}
		r.Method(http.MethodGet, "/metrics", h)
	}
	if config.Live != nil {
		r.Get(dev.ReloadPath, config.Live.HandleWebSocket)
	}
	r.Group(func(r chi.Router) {
		r.Use(compressor)
		r.Get("/*", s.handlePage)
	})

	s.handler = r
	s.httpServer = &http.Server{
		Addr:              config.Address,
		Handler:           r,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// SetEnhancer replaces the Enhancer used for later requests. It waits for
// an in-flight render to finish.
func (s *Server) SetEnhancer(e *enhance.Enhancer) {
	s.mu.Lock()
	s.enhancer = e
	s.mu.Unlock()
}

// Enhancer returns the current Enhancer.
func (s *Server) Enhancer() *enhance.Enhancer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enhancer
}

// Run listens on the configured address until ctx is done, then shuts down
// gracefully. Shutdown may be called from another goroutine instead; a
// Server runs at most once.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return enhanceerrors.New("E041").Wrap(err)
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if s.config.Live != nil {
		s.config.Live.Stop()
	}
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("shutdown error", "error", err)
		return err
	}
	s.logger.Info("server shutdown complete")
	return nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if s.serveAsset(w, r) {
		return
	}

	file, src, err := s.readPage(r.URL.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		s.logger.Error("page read failed", "path", r.URL.Path, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	out, err := s.render(enhance.WithName(r.Context(), r.URL.Path), string(src))
	if err != nil {
		s.logger.Error("render failed", "path", r.URL.Path, "file", file, "error", err)
		body := http.StatusText(http.StatusInternalServerError)
		if s.config.Live != nil {
			body = err.Error()
		}
		http.Error(w, body, http.StatusInternalServerError)
		return
	}

	doc := out.String()
	if s.config.Live != nil {
		doc = dev.InjectScript(doc)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write([]byte(doc))
}

func (s *Server) render(ctx context.Context, doc string) (enhance.Output, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enhancer.HTML(ctx, doc)
}

// readPage finds the page for urlPath. "/x" tries x.html then x/index.html.
func (s *Server) readPage(urlPath string) (string, []byte, error) {
	if s.config.Pages == nil {
		return "", nil, fs.ErrNotExist
	}

	for _, name := range pageCandidates(urlPath) {
		src, err := fs.ReadFile(s.config.Pages, name)
		if err == nil {
			return name, src, nil
		}
		if !errors.Is(err, fs.ErrNotExist) && !isDirError(s.config.Pages, name) {
			return name, nil, err
		}
	}
	return "", nil, fs.ErrNotExist
}

// pageCandidates maps a URL path to page file names, most specific first.
func pageCandidates(urlPath string) []string {
	clean := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if clean == "" {
		return []string{"index.html"}
	}
	if strings.HasSuffix(clean, ".html") {
		return []string{clean}
	}
	return []string{clean + ".html", clean + "/index.html"}
}

func isDirError(fsys fs.FS, name string) bool {
	info, err := fs.Stat(fsys, name)
	return err == nil && info.IsDir()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

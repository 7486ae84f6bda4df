package server

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/zgpcy/azure-spend-exporter/internal/azure"
	"github.com/zgpcy/azure-spend-exporter/internal/collector"
	"github.com/zgpcy/azure-spend-exporter/internal/config"
	"github.com/zgpcy/azure-spend-exporter/internal/logger"
	"github.com/zgpcy/azure-spend-exporter/internal/version"
	"github.com/zgpcy/azure-spend-exporter/internal/window"
)

//go:embed templates/index.html
var indexTemplate string

var indexPage = template.Must(template.New("index").Parse(indexTemplate))

// HTTP server timeout constants
const (
	DefaultReadTimeout   = 15 * time.Second // Maximum duration for reading the entire request
	DefaultIdleTimeout   = 60 * time.Second // Maximum amount of time to wait for the next request
	WriteTimeoutHeadroom = 15 * time.Second // Added to api_timeout so a slow query can still be answered
)

// ScrapeIDHeader echoes the id attached to every log line of a scrape
const ScrapeIDHeader = "X-Scrape-Id"

// Scraper runs one scrape per call
type Scraper interface {
	Scrape(ctx context.Context) collector.Result
}

// indexPageData holds template data for the index page
type indexPageData struct {
	Version    string
	Scope      string
	MetricName string
	Window     string
	APITimeout int
}

// Server represents the HTTP server
type Server struct {
	server  *http.Server
	scraper Scraper
	cfg     *config.Config
	logger  *logger.Logger
	clock   func() time.Time
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, scraper Scraper, log *logger.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: cfg.APITimeoutDuration() + WriteTimeoutHeadroom,
			IdleTimeout:  DefaultIdleTimeout,
		},
		scraper: scraper,
		cfg:     cfg,
		logger:  log,
		clock:   time.Now,
	}

	// Register handlers
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/metrics", s.handleMetrics)

	s.server.Handler = s.recoverPanics(mux)

	return s
}

// Handler returns the root handler, including panic recovery
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		"address", s.server.Addr,
		"write_timeout_seconds", s.server.WriteTimeout.Seconds())
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// handleMetrics runs a fresh scrape for every request. Failures are
// answered with 500 and the error text; nothing is cached.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	scrapeID := uuid.NewString()
	log := s.logger.WithFields("scrape_id", scrapeID)
	w.Header().Set(ScrapeIDHeader, scrapeID)

	start := time.Now()
	res := s.scraper.Scrape(logger.NewContext(r.Context(), log))

	if res.Outcome == collector.OutcomeFailure {
		fields := []any{
			"error", res.Err,
			"window", res.Window.String(),
			"duration_seconds", time.Since(start).Seconds(),
		}
		fields = append(fields, azure.ErrorFields(res.Err)...)
		log.Error("Scrape failed", append(fields, "stack", string(debug.Stack()))...)
		writeError(w, res.Err)
		return
	}

	// Encode before writing the status so an encoding error can still be a 500
	var buf bytes.Buffer
	if err := collector.Encode(&buf, res); err != nil {
		log.Error("Failed to encode metrics", "error", err)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", collector.ContentType())
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Error("Failed to write metrics response", "error", err)
		return
	}

	log.Debug("Scrape served",
		"outcome", res.Outcome.String(),
		"duration_seconds", time.Since(start).Seconds())
}

// handleIndex serves a simple landing page
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !allowRead(w, r) {
		return
	}

	data := indexPageData{
		Version:    version.Get().Version,
		Scope:      s.cfg.Azure.Scope(),
		MetricName: collector.MetricName,
		Window:     window.Calculate(s.clock()).String(),
		APITimeout: s.cfg.APITimeout,
	}

	var buf bytes.Buffer
	if err := indexPage.Execute(&buf, data); err != nil {
		s.logger.Error("Failed to execute index template", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Error("Failed to write index response", "error", err)
	}
}

// handleHealth handles health check requests (always returns 200 for liveness)
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`{"status":"healthy"}`)); err != nil {
		s.logger.Error("Failed to write health response", "error", err)
	}
}

// statusRecorder remembers whether a response has been started
type statusRecorder struct {
	http.ResponseWriter
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wroteHeader = true
	return r.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// recoverPanics turns a handler panic into a logged 500. A response that
// was already started is left as is.
func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w}
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			if p == http.ErrAbortHandler {
				panic(p)
			}
			s.logger.Error("Panic while handling request",
				"method", r.Method,
				"path", r.URL.Path,
				"panic", fmt.Sprint(p),
				"response_started", rec.wroteHeader,
				"stack", string(debug.Stack()))
			if !rec.wroteHeader {
				writeError(w, fmt.Errorf("internal error: %v", p))
			}
		}()
		next.ServeHTTP(rec, r)
	})
}

// allowRead rejects everything but GET and HEAD with 405
func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	return false
}

// writeError answers with 500 and "Error: <err>" as plain text
func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = fmt.Fprintf(w, "Error: %s", err)
}

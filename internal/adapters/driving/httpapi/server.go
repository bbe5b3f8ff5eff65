// Package httpapi exposes the ingestion and query pipeline as a JSON
// HTTP API. The handlers translate between HTTP and the driving ports;
// no pipeline logic lives here.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/core/ports/driving"
	"github.com/Harishr0608/Real-Time-Multi-Source-RAG-Chatbot/internal/logger"
)

const (
	// drainTimeout bounds how long a shutdown waits for in-flight requests.
	drainTimeout = 5 * time.Second

	readHeaderTimeout = 10 * time.Second
)

// Config wires the server to its listen address and the driving ports.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// UploadDir is where uploaded documents are stored before ingestion.
	UploadDir string

	Ingestor driving.Ingestor
	Answer   driving.AnswerService
	Sources  driving.SourceManager
	Health   driving.HealthChecker
}

// Server serves the JSON HTTP API.
type Server struct {
	addr      string
	uploadDir string

	ingestor driving.Ingestor
	answer   driving.AnswerService
	sources  driving.SourceManager
	health   driving.HealthChecker

	handler http.Handler
}

// NewServer creates the API server. The handler is built eagerly so
// tests can drive it without a listener.
func NewServer(cfg Config) *Server {
	s := &Server{
		addr:      cfg.Addr,
		uploadDir: cfg.UploadDir,
		ingestor:  cfg.Ingestor,
		answer:    cfg.Answer,
		sources:   cfg.Sources,
		health:    cfg.Health,
	}
	s.handler = withLogging(s.routes())
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address until ctx is cancelled, then
// drains in-flight requests before returning.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
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

	logger.Info("shutting down HTTP API, draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/sources", s.handleCreateSource)
	mux.HandleFunc("GET /api/sources", s.handleListSources)
	mux.HandleFunc("GET /api/sources/{id}", s.handleGetSource)
	mux.HandleFunc("GET /api/sources/{id}/chunks", s.handleSourceChunks)
	mux.HandleFunc("DELETE /api/sources/{id}", s.handleDeleteSource)
	mux.HandleFunc("POST /api/query", s.handleQuery)
	mux.HandleFunc("POST /api/sweep", s.handleSweep)
	mux.HandleFunc("GET /api/health", s.handleHealth)

	return mux
}

// statusRecorder captures the response code for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.Info("%s %s %d %s", r.Method, r.URL.Path, rec.status,
			time.Since(start).Round(time.Millisecond))
	})
}

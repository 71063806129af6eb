// Package server exposes the extraction pipeline over HTTP: document upload,
// job polling and result download (JSON or XLSX).
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mcatarino/order-extractor/internal/async"
	"github.com/mcatarino/order-extractor/internal/common"
	"github.com/mcatarino/order-extractor/internal/export"
	"github.com/mcatarino/order-extractor/internal/jobs"
	"github.com/mcatarino/order-extractor/internal/pipeline"
)

// Server holds the HTTP surface and its collaborators.
type Server struct {
	cfg       *common.Config
	store     jobs.Store
	processor *pipeline.Processor
	exporter  *export.Service
	queue     *async.Queue
	log       *slog.Logger
}

// New wires the HTTP server and starts the background workers. The logger
// may be nil.
func New(cfg *common.Config, store jobs.Store, processor *pipeline.Processor, exporter *export.Service, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{cfg: cfg, store: store, processor: processor, exporter: exporter, log: log}
	s.queue = async.NewQueue(s.runJob, log)
	return s
}

// Shutdown drains the job queue, bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) {
	s.queue.Shutdown(ctx)
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/health", s.handleHealth)
	r.Post("/process", s.handleProcess)
	r.Get("/jobs", s.handleListJobs)
	r.Route("/job/{id}", func(r chi.Router) {
		r.Get("/", s.handleJobStatus)
		r.Get("/json", s.handleJobJSON)
		r.Get("/excel", s.handleJobExcel)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("http.request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed_ms", time.Since(start).Milliseconds())
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/fmuoria/ai-recruiter/internal/export"
	"github.com/fmuoria/ai-recruiter/internal/logger"
	"github.com/fmuoria/ai-recruiter/internal/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// RankingsReader exposes the results of the current or last run.
type RankingsReader interface {
	Snapshot() []models.RankedCandidate
}

// StatusReader exposes the state of the background run.
type StatusReader interface {
	Status() models.RunStatus
}

// Server handles HTTP requests
type Server struct {
	rankings RankingsReader
	status   StatusReader
	logger   *zap.Logger
}

// NewServer creates a new API server
func NewServer(rankings RankingsReader, status StatusReader, log *zap.Logger) *Server {
	return &Server{
		rankings: rankings,
		status:   status,
		logger:   logger.WithFields(log),
	}
}

// Router returns the HTTP router
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /rankings", s.handleRankings)
	mux.HandleFunc("GET /rankings/export", s.handleExport)
	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("GET /health", s.handleHealth)

	return s.loggingMiddleware(mux)
}

// HTTPServer returns a server for Router bound to addr.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"message": "Freddie AI Recruiter API is running!",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// handleRankings returns the results gathered so far, possibly from a run
// still in progress.
func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, models.RankingsResponse{
		Rankings: s.rankings.Snapshot(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if s.status == nil {
		s.respondJSON(w, http.StatusOK, models.RunStatus{State: models.RunNotStarted})
		return
	}
	s.respondJSON(w, http.StatusOK, s.status.Status())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := export.WriteRankings(&buf, s.rankings.Snapshot()); err != nil {
		s.logger.Error("failed to export rankings", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "failed to export rankings")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="rankings.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn("failed to write export", zap.Error(err))
	}
}

// respondJSON sends a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

// respondError sends an error response
func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{
		"error": message,
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", r.RemoteAddr),
		)
	})
}

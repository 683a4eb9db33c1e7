// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the research pipeline over HTTP.
//
// Routes:
//
//	GET  /              liveness message
//	GET  /health        health report
//	POST /api/research  run the pipeline for {"query": "..."}
//	GET  /metrics       Prometheus exposition
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pdiddy/web-scout/internal/httputil"
	"github.com/pdiddy/web-scout/internal/llm"
	"github.com/pdiddy/web-scout/internal/stage"
	"github.com/pdiddy/web-scout/pkg/types"
)

// Request limits.
const (
	MaxBodyBytes  = 64 << 10
	MaxQueryChars = 2000
)

// RootMessage is returned by GET /.
const RootMessage = "AI Research Assistant API is running"

// Runner runs one research request.
type Runner interface {
	Run(ctx context.Context, query string) (*types.ResearchResult, error)
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string    `json:"status"`
	Version string    `json:"version"`
	Time    time.Time `json:"time"`
}

// Server holds the HTTP handlers.
type Server struct {
	runner  Runner
	logger  *zap.Logger
	version string
}

// New creates a Server around runner.
func New(runner Runner, logger *zap.Logger, version string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{runner: runner, logger: logger, version: version}
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.root)
	mux.HandleFunc("GET /health", s.health)
	mux.HandleFunc("POST /api/research", s.research)
	mux.Handle("GET /metrics", promhttp.Handler())

	return requestID(accessLog(s.logger, cors(recoverer(s.logger, mux))))
}

func (s *Server) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": RootMessage})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: s.version,
		Time:    time.Now().UTC(),
	})
}

func (s *Server) research(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With(zap.String("request_id", RequestIDFrom(r.Context())))

	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	var req types.ResearchRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.fail(w, logger, stage.Errorf(stage.KindRequest, "request body exceeds %d bytes", MaxBodyBytes))
			return
		}
		s.fail(w, logger, stage.Errorf(stage.KindRequest, "invalid JSON body: %v", err))
		return
	}

	query := strings.TrimSpace(req.Query)
	switch {
	case query == "":
		s.fail(w, logger, stage.Errorf(stage.KindRequest, "query is required"))
		return
	case utf8.RuneCountInString(query) > MaxQueryChars:
		s.fail(w, logger, stage.Errorf(stage.KindRequest, "query exceeds %d characters", MaxQueryChars))
		return
	}

	logger.Info("research started", zap.Int("query_chars", utf8.RuneCountInString(query)))
	res, err := s.runner.Run(r.Context(), query)
	if err != nil {
		s.fail(w, logger, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) fail(w http.ResponseWriter, logger *zap.Logger, err error) {
	code := StatusFor(err)
	kind := stage.KindOf(err)
	resp := types.ErrorResponse{
		Error: stage.MessageOf(err),
		Stage: string(kind),
	}
	var se *stage.Error
	if errors.As(err, &se) && se.Err != nil {
		resp.Detail = se.Err.Error()
	}
	if code >= 500 {
		logger.Error("research request failed", zap.Int("status", code), zap.String("stage", string(kind)), zap.Error(err))
	} else {
		logger.Info("research request rejected", zap.Int("status", code), zap.Error(err))
	}
	writeJSON(w, code, resp)
}

// StatusFor maps a pipeline error to an HTTP status: 400 for invalid
// requests, 502 when an upstream provider answered with an error status,
// 504 on deadline, otherwise 500.
func StatusFor(err error) int {
	if stage.KindOf(err) == stage.KindRequest {
		return http.StatusBadRequest
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	var statusErr *httputil.StatusError
	if errors.As(err, &statusErr) || llm.StatusCode(err) != 0 {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

// ListenAndServe serves h on cfg.Addr until ctx is cancelled, then shuts
// down gracefully within cfg.ShutdownTimeout. When ready is non-nil it
// receives the bound address once the listener is open.
func ListenAndServe(ctx context.Context, cfg types.ServerConfig, h http.Handler, logger *zap.Logger, ready chan<- string) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Addr, err)
	}

	srv := &http.Server{
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  2 * time.Minute,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()
	if ready != nil {
		ready <- ln.Addr().String()
	}

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

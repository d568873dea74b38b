// Package server implements a read-only HTTP API for inspecting a
// running duel
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/samuelfneumann/ropeduel/store"
)

// Defaults for the query parameters of the API
const (
	DefaultEpisodes = 20
	DefaultTop      = 10
)

// Server serves the snapshots of a Board. If a store.Store is given,
// episode listings are read from the store rather than from the Board.
type Server struct {
	board   *Board
	store   store.Store
	runID   string
	timeout time.Duration
	logger  *slog.Logger

	Mux *chi.Mux
}

// New returns a new Server with all routes registered. s may be nil.
func New(b *Board, s store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	srv := &Server{
		board:   b,
		store:   s,
		runID:   b.Status().RunID,
		timeout: 5 * time.Second,
		logger:  logger.With("component", "server"),
		Mux:     chi.NewRouter(),
	}
	srv.registerRoutes()
	return srv
}

func (s *Server) registerRoutes() {
	s.Mux.Use(s.logRequests)
	s.Mux.Use(s.recoverer)

	s.Mux.Get("/status", s.getStatus)
	s.Mux.Get("/episodes", s.getEpisodes)
	s.Mux.Route("/evolution", func(r chi.Router) {
		r.Get("/best", s.getBest)
		r.Get("/population", s.getPopulation)
	})
	s.Mux.Get("/qlearning/top", s.getTop)
}

// ListenAndServe serves the API on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("inspection api listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listenAndServe: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("listenAndServe: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listenAndServe: %w", err)
	}
	return nil
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		s.logger.Debug("handled request", "status", sw.status,
			"method", r.Method, "path", r.URL.Path,
			"duration", time.Since(start))
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				s.logger.Error("panic while handling request", "path",
					r.URL.Path, "error", err, "stack", string(debug.Stack()))
				s.internalServerError(w, r, fmt.Errorf("panic: %v", err))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// intParam returns the integer query parameter key, or def if it is
// absent
func intParam(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("query parameter %q must be a non-negative "+
			"integer", key)
	}
	return n, nil
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	s.successResponse(w, r, "status", s.board.Status())
}

func (s *Server) getEpisodes(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", DefaultEpisodes)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}

	if s.store == nil {
		s.successResponse(w, r, "episodes", s.board.Results(limit))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	results, err := s.store.List(ctx, s.runID, limit)
	if err != nil {
		s.internalServerError(w, r, err)
		return
	}
	s.successResponse(w, r, "episodes", results)
}

func (s *Server) getBest(w http.ResponseWriter, r *http.Request) {
	best, ok := s.board.Best()
	if !ok {
		s.notFound(w, r, "no chromosome has been evaluated yet")
		return
	}
	s.successResponse(w, r, "best chromosome", best)
}

func (s *Server) getPopulation(w http.ResponseWriter, r *http.Request) {
	population, history := s.board.Population()
	s.successResponse(w, r, "population", map[string]any{
		"generation": s.board.Status().Evolution.Generation,
		"population": population,
		"history":    history,
	})
}

func (s *Server) getTop(w http.ResponseWriter, r *http.Request) {
	n, err := intParam(r, "n", DefaultTop)
	if err != nil {
		s.badRequest(w, r, err)
		return
	}
	s.successResponse(w, r, "top q-values", s.board.Top(n))
}

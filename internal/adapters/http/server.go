// Package http exposes a small admin API over a session store.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/weekian/telegraf-session-redis/internal/logging"
	"github.com/weekian/telegraf-session-redis/pkg/bot"
	"github.com/weekian/telegraf-session-redis/pkg/domain"
	"github.com/weekian/telegraf-session-redis/pkg/ports"
)

// Server serves session inspection and update injection.
type Server struct {
	store    ports.SessionStore
	handler  bot.Handler
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithHandler enables POST /updates, running each update through h.
func WithHandler(h bot.Handler) Option {
	return func(s *Server) {
		s.handler = h
	}
}

// WithGatherer enables GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler creates the admin HTTP handler for store.
func NewHandler(store ports.SessionStore, opts ...Option) http.Handler {
	s := &Server{store: store, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.Health)
	r.Get("/sessions/{key}", s.GetSession)
	r.Delete("/sessions/{key}", s.DeleteSession)
	r.Post("/updates", s.PostUpdate)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}

// GetSession handles GET /sessions/{key}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	session, err := s.store.Load(r.Context(), key)
	if err != nil {
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		s.logger.Error("Load session failed", "key", key, "err", err)
		return
	}
	if session.IsEmpty() {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	writeJSON(w, s.logger, http.StatusOK, session)
}

// DeleteSession handles DELETE /sessions/{key}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := s.store.Clear(r.Context(), key); err != nil {
		http.Error(w, "Failed to clear session", http.StatusInternalServerError)
		s.logger.Error("Clear session failed", "key", key, "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PostUpdate handles POST /updates.
func (s *Server) PostUpdate(w http.ResponseWriter, r *http.Request) {
	if s.handler == nil {
		http.Error(w, "No update handler configured", http.StatusNotFound)
		return
	}

	var update domain.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("PostUpdate: Invalid request body", "err", err)
		return
	}

	if err := s.handler(r.Context(), bot.NewContext(update)); err != nil {
		http.Error(w, "Update failed", http.StatusInternalServerError)
		s.logger.Error("Update failed", "update_id", update.ID, "err", err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "err", err)
	}
}

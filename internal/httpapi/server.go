// Package httpapi serves the read-only status view of the monitor: the
// latest probe result and up/down state per target. The monitor itself is
// an outbound poller; nothing here mutates state.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/fers4t/kg-uptime-monitor/internal/domain"
	apimw "github.com/fers4t/kg-uptime-monitor/internal/httpapi/middleware"
	"github.com/fers4t/kg-uptime-monitor/internal/repo"
)

type Server struct {
	Logger   *zap.Logger
	Statuses repo.StatusStore
}

func NewServer(l *zap.Logger, statuses repo.StatusStore) *Server {
	return &Server{Logger: l, Statuses: statuses}
}

func (s *Server) Router(keys []string, rpm, burst int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(apimw.RateLimit(rpm, burst))
		r.Use(apimw.RequireKey(keys))
		r.Get("/api/status", s.handleListStatus)
		r.Get("/api/status/{id}", s.handleGetStatus)
	})

	return r
}

func (s *Server) handleListStatus(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Statuses.List(r.Context())
	if err != nil {
		s.Logger.Warn("status_list_error", zap.Error(err))
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(rows)
}

func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	id := domain.TargetID(chi.URLParam(r, "id"))
	row, err := s.Statuses.Get(r.Context(), id)
	if err != nil {
		s.Logger.Warn("status_get_error", zap.String("target_id", string(id)), zap.Error(err))
		http.Error(w, "get error", http.StatusInternalServerError)
		return
	}
	if row == nil {
		http.Error(w, "unknown target", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(row)
}

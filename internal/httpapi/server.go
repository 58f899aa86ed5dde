package httpapi

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kanhucharan/controllermon/internal/domain"
	"github.com/kanhucharan/controllermon/internal/httpapi/middleware"
	"github.com/kanhucharan/controllermon/internal/status"
)

// HistorySource serves the recent-transitions endpoint. Only the in-memory
// recorder implements it; with database-backed history the endpoint is
// simply not mounted.
type HistorySource interface {
	Recent(n int) []domain.Transition
}

// Server is the read-only status surface: JSON snapshot, HTML dashboard,
// Prometheus metrics. It never mutates monitor state.
type Server struct {
	Logger  *zap.Logger
	Table   *status.Table
	History HistorySource // may be nil

	RPM   int
	Burst int
}

func NewServer(l *zap.Logger, table *status.Table, hist HistorySource, rpm, burst int) *Server {
	return &Server{Logger: l, Table: table, History: hist, RPM: rpm, Burst: burst}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)
	r.Use(middleware.RateLimit(s.RPM, s.Burst))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/", s.handleDashboard)
	r.Get("/api/controllers", s.handleControllers)
	if s.History != nil {
		r.Get("/api/history", s.handleHistory)
	}
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) handleControllers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.Table.Current()); err != nil {
		s.Logger.Error("encode_controllers", zap.Error(err))
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	rows := s.History.Recent(100)
	if err := json.NewEncoder(w).Encode(rows); err != nil {
		s.Logger.Error("encode_history", zap.Error(err))
	}
}

// sortedEntries returns the snapshot in stable host order for rendering.
func sortedEntries(cur map[string]domain.StatusEntry) []domain.StatusEntry {
	out := make([]domain.StatusEntry, 0, len(cur))
	for _, e := range cur {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Host < out[j].Host })
	return out
}

package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hamed0406/slotwatch/internal/dates"
	apimw "github.com/hamed0406/slotwatch/internal/httpapi/middleware"
	"github.com/hamed0406/slotwatch/internal/repo"
	"github.com/hamed0406/slotwatch/internal/scheduler"
)

// StatusSource is satisfied by *scheduler.Poller.
type StatusSource interface {
	Status() scheduler.Status
}

type Server struct {
	Logger   *zap.Logger
	Status   StatusSource
	Alerts   repo.AlertStore
	Gatherer prometheus.Gatherer
}

func NewServer(l *zap.Logger, st StatusSource, alerts repo.AlertStore, g prometheus.Gatherer) *Server {
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	return &Server{Logger: l, Status: st, Alerts: alerts, Gatherer: g}
}

func (s *Server) Router(keys apimw.Keys, allowedOrigins []string, publicRPM, publicBurst int) http.Handler {
	r := chi.NewRouter()
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: allowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "X-API-Key"},
		}))
	} else {
		r.Use(cors.AllowAll().Handler)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(apimw.RateLimit(publicRPM, publicBurst))
		r.Use(apimw.RequireAny(keys))

		r.Get("/status", s.handleStatus)
		r.Get("/alerts", s.handleListAlerts)

		r.With(apimw.RequireAdmin(keys)).Delete("/alerts/{day}/{month}/{year}", s.handleForgetAlert)
	})
	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Status.Status())
}

func (s *Server) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	recs, err := s.Alerts.List(r.Context())
	if err != nil {
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// handleForgetAlert re-arms alerts for one date.
func (s *Server) handleForgetAlert(w http.ResponseWriter, r *http.Request) {
	raw := fmt.Sprintf("%s/%s/%s", chi.URLParam(r, "day"), chi.URLParam(r, "month"), chi.URLParam(r, "year"))
	d, err := dates.ParseDate(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	removed, err := s.Alerts.Forget(r.Context(), d)
	if err != nil {
		http.Error(w, "forget error", http.StatusInternalServerError)
		return
	}
	if !removed {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "date not alerted"})
		return
	}
	s.Logger.Info("alert_forgotten", zap.String("date", d.String()))
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

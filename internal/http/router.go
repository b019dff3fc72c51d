package http

import (
	"net/http"

	"github.com/MondainMessiah/daily-boss-checker/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(svc Runner, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := NewHandlers(svc)
	r.Get("/api/v1/status", h.Status)
	r.Get("/api/v1/report", h.Report)
	r.Post("/api/v1/run", h.Run)

	if m != nil {
		r.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	}

	return r
}

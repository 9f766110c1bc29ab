package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"vitiscli/internal/memo"
)

// MetricsHandler exposes the Prometheus scrape endpoint and memo cache statistics
type MetricsHandler struct {
	prometheus http.Handler
	cacheStats func() memo.Stats
}

// NewMetricsHandler creates a metrics handler. Either argument may be nil.
func NewMetricsHandler(prometheus http.Handler, cacheStats func() memo.Stats) *MetricsHandler {
	return &MetricsHandler{prometheus: prometheus, cacheStats: cacheStats}
}

// Routes sets up the metrics routes
func (h *MetricsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetMetrics)
	r.Get("/cache", h.GetCacheStats)
	return r
}

// GetMetrics serves the Prometheus exposition format
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	if h.prometheus == nil {
		http.Error(w, "metrics disabled", http.StatusNotFound)
		return
	}
	h.prometheus.ServeHTTP(w, r)
}

// GetCacheStats returns memo cache counters
func (h *MetricsHandler) GetCacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cacheStats == nil {
		render.JSON(w, r, memo.Stats{})
		return
	}
	render.JSON(w, r, h.cacheStats())
}

// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	service "github.com/okian/fitscore/internal/app"
	"github.com/okian/fitscore/pkg/metrics"
)

// HealthHandler serves the metrics scrape, which doubles as the liveness
// probe while the service is started.
type HealthHandler struct {
	statsProvider StatsProvider
	scrape        http.Handler
}

// NewHealthHandler creates a health handler over the custom registry.
func NewHealthHandler(statsProvider StatsProvider) *HealthHandler {
	return &HealthHandler{
		statsProvider: statsProvider,
		scrape:        promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleHealth handles GET /healthz. A stopped service answers 503;
// otherwise the Prometheus text is served after the stats refresh the record
// gauge.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !h.statsProvider.GetStats().Started {
		writeError(w, http.StatusServiceUnavailable, "unavailable", service.ErrNotStarted)
		return
	}
	h.scrape.ServeHTTP(w, r)
}

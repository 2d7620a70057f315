// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	service "github.com/okian/fitscore/internal/app"
)

// Service status values reported by /stats.
const (
	statusRunning = "running"
	statusStopped = "stopped"
)

// StatsProvider reports a snapshot of the service counters.
type StatsProvider interface {
	GetStats() service.Stats
}

// statsResponse is the /stats body: the service counters plus a status
// label derived from them.
type statsResponse struct {
	Status string `json:"status"`
	service.Stats
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	st := h.statsProvider.GetStats()
	status := statusStopped
	if st.Started {
		status = statusRunning
	}
	writeJSON(w, http.StatusOK, statsResponse{Status: status, Stats: st})
}

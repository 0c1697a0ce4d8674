package api

import (
	"net/http"

	"github.com/okian/scoreboard/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessProbe reports whether the backing store is connected.
type ReadinessProbe interface {
	Ready() bool
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	probe ReadinessProbe
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(probe ReadinessProbe) *HealthHandler {
	return &HealthHandler{probe: probe}
}

type healthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// HandleHealth handles GET /healthz. The process is healthy as long as it
// serves requests; the store is reported as "idle" until its lazy connection
// has been established, and checking never forces a dial.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeError(w, http.StatusMethodNotAllowed, msgMethodNotAllowed)
		return
	}
	store := "idle"
	if h.probe != nil && h.probe.Ready() {
		store = "ready"
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Store: store})
}

// MetricsHandler serves the custom Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}

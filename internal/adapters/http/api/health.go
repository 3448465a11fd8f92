package api

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/careertrack/pkg/logger"
	"github.com/okian/careertrack/pkg/metrics"
)

// Pinger reports backing-store health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	pinger Pinger
	log    logger.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(p Pinger, log logger.Logger) *HealthHandler {
	return &HealthHandler{pinger: p, log: log}
}

type healthResponse struct {
	Status string `json:"status"`
	DB     string `json:"db"`
}

// HandleHealth handles GET /healthz. It answers 503 when the database is
// unreachable.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		h.log.Warn(ctx, "health check failed", logger.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "degraded", DB: "down"})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", DB: "up"})
}

// HandleMetrics serves the Prometheus registry.
func HandleMetrics() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}

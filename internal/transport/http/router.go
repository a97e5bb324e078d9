package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"veristat/internal/platform/health"
	"veristat/internal/platform/middleware"
)

// NewRouter wires all public endpoints with middleware. The HTTP layer is a
// thin caller of the verification service; business logic stays out of it.
// httpMetrics may be nil, in which case no per-endpoint metrics are recorded.
func NewRouter(h *Handler, healthHandler *health.Handler, httpMetrics middleware.Observer, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	if httpMetrics != nil {
		r.Use(middleware.Latency(httpMetrics))
	}
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	// Verification endpoints
	r.Post("/verify/evaluate", h.handleEvaluate)
	r.Get("/verify/thresholds", h.handleThresholds)
	r.Post("/verify/thresholds/reload", h.handleThresholdsReload)

	// Operational endpoints
	healthHandler.Register(r)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swingeats_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swingeats_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	lifecycleOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swingeats_lifecycle_operations_total",
			Help: "Order and order item lifecycle operations by outcome",
		},
		[]string{"operation", "status"},
	)

	connectedClients = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "swingeats_ws_connected_clients",
			Help: "Open websocket clients by role",
		},
		[]string{"role"},
	)

	autoFlipCandidates = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "swingeats_autoflip_candidates",
			Help: "Cooking items past their predicted ready time at the last sweep",
		},
	)

	sweepFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swingeats_scheduler_sweep_failures_total",
			Help: "Scheduler sweeps that ended in an error or panic",
		},
		[]string{"sweep"},
	)
)

// Middleware records request counts and latency per route.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}
			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
			code := strconv.Itoa(status)

			httpRequestsTotal.WithLabelValues(c.Request().Method, path, code).Inc()
			httpRequestDuration.WithLabelValues(c.Request().Method, path, code).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordOperation(operation string, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	lifecycleOperations.WithLabelValues(operation, status).Inc()
}

func ClientConnected(role string) {
	connectedClients.WithLabelValues(role).Inc()
}

func ClientDisconnected(role string) {
	connectedClients.WithLabelValues(role).Dec()
}

func SetAutoFlipCandidates(n int) {
	autoFlipCandidates.Set(float64(n))
}

func SweepFailed(sweep string) {
	sweepFailures.WithLabelValues(sweep).Inc()
}

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func init() {
	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestDuration)
}

// Metrics records a request counter and latency histogram per route.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		// Route pattern, not the raw URL, to keep label cardinality low
		path := c.Route().Path
		method := c.Method()
		statusStr := strconv.Itoa(status)

		requestCounter.WithLabelValues(method, path, statusStr).Inc()
		requestDuration.WithLabelValues(method, path, statusStr).Observe(time.Since(start).Seconds())

		return err
	}
}

// MetricsHandler exposes the Prometheus registry for the /metrics route.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

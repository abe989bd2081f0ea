package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "points_wallet",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "points_wallet",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "path"},
	)

	transfersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "points_wallet",
			Subsystem: "transfers",
			Name:      "created_total",
			Help:      "Total number of transfers opened.",
		},
	)

	transfersSettled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "points_wallet",
			Subsystem: "transfers",
			Name:      "settled_total",
			Help:      "Total number of transfers settled.",
		},
	)

	transfersExpired = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "points_wallet",
			Subsystem: "transfers",
			Name:      "expired_total",
			Help:      "Total number of transfers expired, by sweep or lazily.",
		},
	)
)

func init() {
	Registry.MustRegister(httpRequests, httpDuration, transfersCreated, transfersSettled, transfersExpired)
}

func TransferCreated() {
	transfersCreated.Inc()
}

func TransferSettled() {
	transfersSettled.Inc()
}

func TransferExpired(count int64) {
	transfersExpired.Add(float64(count))
}

// Middleware records request counts and latency per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry for the /metrics route.
func Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

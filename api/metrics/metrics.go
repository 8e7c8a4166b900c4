package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, path and status.",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	commandsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "commands_dispatched_total",
		Help: "Commands dispatched by name and outcome (succeeded, rejected, failed).",
	}, []string{"command", "outcome"})

	notificationsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "domain_notifications_published_total",
		Help: "Business-rule violation notifications published per command.",
	}, []string{"command"})
)

// ObserveCommand records the outcome of one command dispatch.
func ObserveCommand(command, outcome string, notificationCount int) {
	commandsDispatched.WithLabelValues(command, outcome).Inc()
	if notificationCount > 0 {
		notificationsPublished.WithLabelValues(command).Add(float64(notificationCount))
	}
}

// Middleware records request counts and latencies per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

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
	// RequestDuration tracks HTTP request latency by method, path and status
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tenant_gateway_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	// GuardDecisions counts edge routing decisions by outcome
	GuardDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tenant_gateway_guard_decisions_total",
		Help: "Edge route guard decisions",
	}, []string{"action"})

	// TenantResolutions counts tenant resolution outcomes
	TenantResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tenant_gateway_tenant_resolutions_total",
		Help: "Tenant resolution outcomes",
	}, []string{"mode", "outcome"})

	// ActivityRecords counts audit log insert attempts
	ActivityRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tenant_gateway_activity_records_total",
		Help: "Admin activity log insert attempts",
	}, []string{"action", "outcome"})
)

// Handler returns the Prometheus scrape endpoint
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// Middleware observes request latency per route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		RequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}

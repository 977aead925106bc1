package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	reqDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "learnlab",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	reqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "learnlab", Name: "http_requests_total", Help: "Total HTTP requests"},
		[]string{"method", "path", "status"},
	)
	authzDenyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "learnlab", Name: "authz_denials_total", Help: "Denied operations by reason"},
		[]string{"operation", "reason"},
	)
	followToggleTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "learnlab", Name: "follow_toggles_total", Help: "Follow toggles by resulting state"},
		[]string{"result"},
	)
	likeConflictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "learnlab", Name: "like_conflicts_total", Help: "Like attempts rejected by the uniqueness constraint"},
	)
)

func init() {
	prometheus.MustRegister(reqDuration, reqTotal, authzDenyTotal, followToggleTotal, likeConflictTotal)
}

// MetricsMiddleware records request duration and counts per route template.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		dur := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		reqDuration.WithLabelValues(c.Request.Method, path, status).Observe(dur)
		reqTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

// recordDenial tags refused operations for the authz dashboards.
func recordDenial(operation, reason string) {
	authzDenyTotal.WithLabelValues(operation, reason).Inc()
}

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records per-request HTTP metrics.
type Collector struct {
	requests *prometheus.CounterVec
	latency  prometheus.Histogram
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "userservice_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "userservice_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(c.requests, c.latency)
	return c
}

// Middleware records every request against the matched route template.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		c.requests.WithLabelValues(
			ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status()),
		).Inc()
		c.latency.Observe(time.Since(start).Seconds())
	}
}

// Handler returns the Prometheus scrape handler.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

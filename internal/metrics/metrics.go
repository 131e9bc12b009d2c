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
	// HTTPRequests counts handled HTTP requests by method, path and status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reputation_http_requests_total",
		Help: "Total HTTP requests handled",
	}, []string{"method", "path", "status"})

	// HTTPDuration observes request latency by path
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reputation_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// MessagesSent counts successful outbound messages by channel and kind
	MessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reputation_messages_sent_total",
		Help: "Outbound messages successfully handed to a provider",
	}, []string{"channel", "kind"})

	// MessagesFailed counts failed outbound messages by channel and kind
	MessagesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reputation_messages_failed_total",
		Help: "Outbound messages that failed all providers",
	}, []string{"channel", "kind"})

	// LeadsCreated counts created leads by source
	LeadsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reputation_leads_created_total",
		Help: "Leads created by source",
	}, []string{"source"})

	// ReviewsSubmitted counts submitted reviews by rating
	ReviewsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reputation_reviews_submitted_total",
		Help: "Reviews submitted by rating",
	}, []string{"rating"})
)

// Middleware records request count and latency per route
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// Use the route template, not the raw URL, to keep cardinality bounded
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		HTTPRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler returns the Prometheus scrape handler wrapped for gin
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordSend updates send counters for one outbound message outcome
func RecordSend(channel, kind string, success bool) {
	if success {
		MessagesSent.WithLabelValues(channel, kind).Inc()
	} else {
		MessagesFailed.WithLabelValues(channel, kind).Inc()
	}
}

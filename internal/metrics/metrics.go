package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tourism_http_requests_total",
		Help: "HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "tourism_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	BookingsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tourism_bookings_created_total",
		Help: "Bookings created by kind",
	}, []string{"kind"})

	BookingsCancelled = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tourism_bookings_cancelled_total",
		Help: "Bookings cancelled by kind",
	}, []string{"kind"})

	Payments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tourism_payments_total",
		Help: "Payment callbacks by resulting status",
	}, []string{"status"})

	TranslationRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tourism_translation_requests_total",
		Help: "Translation requests by outcome (cache, upstream, error)",
	}, []string{"outcome"})

	EventPublishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tourism_event_publish_errors_total",
		Help: "Failed attempts to publish domain events",
	})
)

// Middleware records request count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		HTTPRequests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}

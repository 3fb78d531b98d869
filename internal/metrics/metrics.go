// Package metrics holds the Prometheus collectors for the API.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Results recorded on the OTP and login counters.
const (
	ResultSuccess  = "success"
	ResultNotFound = "not_found"
	ResultExpired  = "expired"
	ResultMismatch = "mismatch"
	ResultInvalid  = "invalid"
	ResultError    = "error"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	OTPIssuedTotal        prometheus.Counter
	OTPVerificationsTotal *prometheus.CounterVec
	OTPDeliveriesTotal    *prometheus.CounterVec
	LoginsTotal           *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates and registers all metrics on registry.
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invoice_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "invoice_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		OTPIssuedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "invoice_otp_issued_total",
				Help: "Total number of one-time codes issued",
			},
		),
		OTPVerificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invoice_otp_verifications_total",
				Help: "OTP verification attempts by result",
			},
			[]string{"result"},
		),
		OTPDeliveriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invoice_otp_deliveries_total",
				Help: "OTP deliveries by channel and result",
			},
			[]string{"channel", "result"},
		),
		LoginsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "invoice_logins_total",
				Help: "Staff password logins by result",
			},
			[]string{"result"},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.OTPIssuedTotal,
		m.OTPVerificationsTotal,
		m.OTPDeliveriesTotal,
		m.LoginsTotal,
	)
	return m
}

// NewNop returns metrics on a private registry, for tests and tools that
// never expose them.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

// Middleware records request count and latency. The route template is used
// as the path label so ids do not explode cardinality.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func (m *Metrics) RecordDelivery(channel string, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	m.OTPDeliveriesTotal.WithLabelValues(channel, result).Inc()
}

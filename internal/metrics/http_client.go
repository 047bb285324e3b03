// Package metrics exposes application metrics collectors.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpClientRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mintcore",
		Subsystem: "http_client",
		Name:      "requests_total",
		Help:      "Count of outbound requests to coin data providers and wallet signers.",
	}, []string{"service", "operation", "status"})
	httpClientRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mintcore",
		Subsystem: "http_client",
		Name:      "request_duration_seconds",
		Help:      "Duration of outbound requests to coin data providers and wallet signers.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"service", "operation", "status"})
)

// HTTPClient tracks metrics for calls to one remote service.
type HTTPClient struct {
	service string
}

// NewHTTPClient constructs a collector labelled with the remote service name.
func NewHTTPClient(service string) *HTTPClient {
	if service == "" {
		service = "unknown"
	}
	return &HTTPClient{service: service}
}

// Observe records a single request outcome and duration.
func (m HTTPClient) Observe(operation string, err error, started time.Time) {
	status := statusOf(err)
	httpClientRequestsTotal.WithLabelValues(m.service, operation, status).Inc()
	httpClientRequestDuration.WithLabelValues(m.service, operation, status).Observe(time.Since(started).Seconds())
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mintcore",
		Subsystem: "api",
		Name:      "requests_total",
		Help:      "Count of API requests.",
	}, []string{"route", "code"})
	apiRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mintcore",
		Subsystem: "api",
		Name:      "request_duration_seconds",
		Help:      "Duration of API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "code"})
)

// API tracks metrics for the HTTP API.
type API struct{}

func NewAPI() *API {
	return &API{}
}

func (API) Observe(route string, code int, started time.Time) {
	c := strconv.Itoa(code)
	apiRequestsTotal.WithLabelValues(route, c).Inc()
	apiRequestDuration.WithLabelValues(route, c).Observe(time.Since(started).Seconds())
}

package metrics

import (
	"time"

	"github.com/mintcoredev/mintcore/internal/mint/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mintBuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mintcore",
		Subsystem: "builder",
		Name:      "builds_total",
		Help:      "Count of genesis transaction builds.",
	}, []string{"network", "mode", "status"})

	mintBuildDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mintcore",
		Subsystem: "builder",
		Name:      "build_duration_seconds",
		Help:      "Duration of genesis transaction builds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "mode", "status"})

	mintBroadcastsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mintcore",
		Subsystem: "builder",
		Name:      "broadcasts_total",
		Help:      "Count of broadcast attempts.",
	}, []string{"network", "status"})

	mintBroadcastDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mintcore",
		Subsystem: "builder",
		Name:      "broadcast_duration_seconds",
		Help:      "Duration of broadcast attempts.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	mintBatchSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mintcore",
		Subsystem: "builder",
		Name:      "batch_size",
		Help:      "Number of schemas per batch build.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 8), // 1..128
	}, []string{"network", "status"})
)

// MintBuilder tracks metrics for the transaction builder.
type MintBuilder struct {
	network model.Network
}

// NewMintBuilder constructs a MintBuilder with sane defaults.
func NewMintBuilder(network model.Network) *MintBuilder {
	if network == "" {
		network = "unknown"
	}
	return &MintBuilder{network: network}
}

// ObserveBuild records one build outcome and duration.
func (m MintBuilder) ObserveBuild(mode model.Mode, err error, started time.Time) {
	if mode == "" {
		mode = "unknown"
	}
	status := statusOf(err)
	mintBuildsTotal.WithLabelValues(string(m.network), string(mode), status).Inc()
	mintBuildDuration.WithLabelValues(string(m.network), string(mode), status).
		Observe(time.Since(started).Seconds())
}

// ObserveBroadcast records one broadcast attempt.
func (m MintBuilder) ObserveBroadcast(err error, started time.Time) {
	status := statusOf(err)
	mintBroadcastsTotal.WithLabelValues(string(m.network), status).Inc()
	mintBroadcastDuration.WithLabelValues(string(m.network), status).
		Observe(time.Since(started).Seconds())
}

// ObserveBatch records the size of a batch build.
func (m MintBuilder) ObserveBatch(size int, err error) {
	mintBatchSize.WithLabelValues(string(m.network), statusOf(err)).Observe(float64(size))
}

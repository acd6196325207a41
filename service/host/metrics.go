package host

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics operation counters of the host
type Metrics struct {
	Operations *prometheus.CounterVec
	Duration   *prometheus.HistogramVec
	Events     prometheus.Counter
}

// NewMetrics register the host metrics on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lending_operations_total",
			Help: "Operations executed, by operation and result",
		}, []string{"operation", "result"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lending_operation_seconds",
			Help:    "Operation latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		Events: factory.NewCounter(prometheus.CounterOpts{
			Name: "lending_events_published_total",
			Help: "Events flushed after commit",
		}),
	}
}

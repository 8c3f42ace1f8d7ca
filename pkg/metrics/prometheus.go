package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	FetchAttempts    prometheus.Counter
	FetchRetries     prometheus.Counter
	FetchExhausted   prometheus.Counter
	PagesFetched     *prometheus.CounterVec
	RecordsCollected *prometheus.CounterVec
	TargetFailures   *prometheus.CounterVec
	RecordsAppended  prometheus.Counter
	TargetDuration   *prometheus.HistogramVec
}

// NewMetrics creates new prometheus metrics registered on reg.
// A nil reg uses a private registry, which keeps tests independent.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		FetchAttempts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_attempts_total",
			Help:      "The total number of HTTP attempts against the provider",
		}),
		FetchRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_retries_total",
			Help:      "The total number of retried provider requests",
		}),
		FetchExhausted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_exhausted_total",
			Help:      "The total number of requests that failed every retry",
		}),
		PagesFetched: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_fetched_total",
			Help:      "The total number of result pages fetched",
		}, []string{"source"}),
		RecordsCollected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_collected_total",
			Help:      "The total number of flight records collected",
		}, []string{"source"}),
		TargetFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "target_failures_total",
			Help:      "The total number of targets that failed",
		}, []string{"kind", "reason"}),
		RecordsAppended: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_appended_total",
			Help:      "The total number of new records appended to the dataset",
		}),
		TargetDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "target_collection_seconds",
			Help:      "Time taken to collect one target",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}, []string{"kind"}),
	}
}

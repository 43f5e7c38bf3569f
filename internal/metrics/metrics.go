package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cdrbot"

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Monitoring HTTP requests by endpoint and status code.",
		},
		[]string{"endpoint", "code"},
	)

	cdrQueries = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cdr_query_duration_seconds",
			Help:      "Latency of CDR table queries by kind.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"query"},
	)
)

// Register registers the process-wide collectors. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, cdrQueries)
	})
}

// IncHTTP counts one monitoring request.
func IncHTTP(endpoint, code string) {
	httpRequests.WithLabelValues(endpoint, code).Inc()
}

// ObserveQuery records how long a CDR query of the given kind took.
func ObserveQuery(query string, seconds float64) {
	cdrQueries.WithLabelValues(query).Observe(seconds)
}

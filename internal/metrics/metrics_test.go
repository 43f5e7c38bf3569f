package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	// Register should be safe to call multiple times
	Register()
	Register()

	before := testutil.ToFloat64(httpRequests.WithLabelValues("/healthz", "200"))
	assert.NotPanics(t, func() {
		IncHTTP("/healthz", "200")
	})
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("/healthz", "200")))

	assert.NotPanics(t, func() {
		ObserveQuery("all_calls", 0.01)
	})
	assert.Equal(t, 1, testutil.CollectAndCount(cdrQueries, "cdrbot_cdr_query_duration_seconds"))
}

package metrics

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRun(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg)
	start := time.Unix(1_700_000_000, 0)

	m.ObserveRun("succeeded", start, start.Add(30*time.Second))
	m.ObserveRun("failed", start, start.Add(time.Second))
	m.ObserveRun("succeeded", start, start.Add(time.Minute))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("succeeded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("failed")))
	assert.Equal(t, float64(start.Add(time.Minute).Unix()), testutil.ToFloat64(m.LastSuccessUnixTime))
}

func TestObserveDispatchAndCollected(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveDispatch("email", errors.New("relay down"))
	m.ObserveDispatch("slack", nil)
	m.ObserveCollected("techwatch", 12)
	m.ObserveCollected("techwatch", 7)
	m.ObserveSummarizeFailure()

	expected := `
# HELP weeklywatch_dispatch_total Alert deliveries by channel and result
# TYPE weeklywatch_dispatch_total counter
weeklywatch_dispatch_total{channel="email",result="failure"} 1
weeklywatch_dispatch_total{channel="slack",result="success"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "weeklywatch_dispatch_total"))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.CollectedItems.WithLabelValues("techwatch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SummarizeFailures))
}

func TestNilMetricsAreNoops(t *testing.T) {
	t.Parallel()

	var m *Metrics
	m.ObserveRun("succeeded", time.Now(), time.Now())
	m.ObserveCollected("x", 1)
	m.ObserveDispatch("x", nil)
	m.ObserveSummarizeFailure()
}

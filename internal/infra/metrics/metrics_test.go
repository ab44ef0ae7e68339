package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Login("ok")
	m.Login("ok")
	m.Resolve("invalid_token")
	m.CacheError("set")

	require.Equal(t, 2.0, testutil.ToFloat64(m.LoginsTotal.WithLabelValues("ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ResolvesTotal.WithLabelValues("invalid_token")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.CacheErrorsTotal.WithLabelValues("set")))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 3)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.Login("ok")
	m.Resolve("ok")
	m.CacheError("get")
}

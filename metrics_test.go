package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codestop/stopper"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	return testutil.ToFloat64(vec.WithLabelValues(labels...))
}

func TestMetricsObserve(t *testing.T) {
	m := NewMetrics()
	m.ObserveVerdict(stopper.LangJava, false)
	m.ObserveVerdict(stopper.LangJava, false)
	m.ObserveVerdict(stopper.LangJava, true)
	m.ObserveRun(stopper.LangGo, "accepted")

	assert.Equal(t, 2.0, counterValue(t, m.verdicts, "java", "rejected"))
	assert.Equal(t, 1.0, counterValue(t, m.verdicts, "java", "allowed"))
	assert.Equal(t, 1.0, counterValue(t, m.runs, "go", "accepted"))
}

// TestMetricsRegistriesAreIndependent verifies two Metrics never share series.
func TestMetricsRegistriesAreIndependent(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.ObserveVerdict(stopper.LangPython, true)

	assert.Equal(t, 0.0, counterValue(t, b.verdicts, "python", "allowed"))
}

func TestMetricsHandler(t *testing.T) {
	m := NewMetrics()
	m.ObserveVerdict(stopper.LangRust, false)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `codestop_stopper_verdicts_total{language="rust",result="rejected"} 1`)
}

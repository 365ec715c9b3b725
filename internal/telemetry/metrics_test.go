package telemetry

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"listfetch/internal/transform"
)

func TestMetrics_Observe(t *testing.T) {
	m := NewMetrics()
	m.ObserveFetch("ok", 20*time.Millisecond)
	m.ObserveFetch("decode_error", time.Millisecond)
	m.ObserveSnapshot(transform.Stats{Received: 10, Kept: 7, Dropped: 3, Groups: 2})
	m.ObserveSink("stdout", nil)
	m.ObserveSink("kafka", errors.New("broker down"))

	require.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.fetches.WithLabelValues("decode_error")))
	require.Equal(t, 7.0, testutil.ToFloat64(m.records.WithLabelValues("kept")))
	require.Equal(t, 2.0, testutil.ToFloat64(m.groups))
	require.Equal(t, 1.0, testutil.ToFloat64(m.sinks.WithLabelValues("kafka", "error")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveFetch("ok", time.Second)
	m.ObserveSnapshot(transform.Stats{})
	m.ObserveSink("stdout", nil)
}

func TestMetrics_Handler(t *testing.T) {
	m := NewMetrics()
	m.ObserveFetch("ok", time.Millisecond)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(body), `listfetch_fetch_total{outcome="ok"} 1`))
}

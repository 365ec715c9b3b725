package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"listfetch/internal/logging"
	"listfetch/internal/transform"
)

const namespace = "listfetch"

// Metrics is nil-safe: a nil *Metrics records nothing.
type Metrics struct {
	reg *prometheus.Registry

	fetches  *prometheus.CounterVec
	duration prometheus.Histogram
	records  *prometheus.GaugeVec
	groups   prometheus.Gauge
	sinks    *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Fetch cycles by outcome (ok, transport_error, decode_error, error).",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Wall time of one fetch and transform cycle.",
			Buckets:   prometheus.DefBuckets,
		}),
		records: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records",
			Help:      "Records in the last successful fetch (received, kept, dropped).",
		}, []string{"kind"}),
		groups: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "groups",
			Help:      "Groups in the last successful fetch.",
		}),
		sinks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sink_push_total",
			Help:      "Snapshot pushes per sink by outcome.",
		}, []string{"sink", "outcome"}),
	}
	m.reg.MustRegister(m.fetches, m.duration, m.records, m.groups, m.sinks)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

func (m *Metrics) ObserveFetch(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(outcome).Inc()
	m.duration.Observe(took.Seconds())
}

func (m *Metrics) ObserveSnapshot(st transform.Stats) {
	if m == nil {
		return
	}
	m.records.WithLabelValues("received").Set(float64(st.Received))
	m.records.WithLabelValues("kept").Set(float64(st.Kept))
	m.records.WithLabelValues("dropped").Set(float64(st.Dropped))
	m.groups.Set(float64(st.Groups))
}

func (m *Metrics) ObserveSink(name string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.sinks.WithLabelValues(name, outcome).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Expose serves /metrics on port in the background. Shut it down through the
// returned server.
func Expose(port int, m *Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.L().Error("metrics server stopped", "err", err)
		}
	}()
	return srv
}

func Shutdown(ctx context.Context, srv *http.Server) error {
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

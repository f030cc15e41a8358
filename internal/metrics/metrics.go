// Package metrics exposes Prometheus instruments for sessions, loads and
// message dispatch.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "locvista"

// Metrics owns an independent registry so tests and multiple servers do
// not collide on the default one.
type Metrics struct {
	registry *prometheus.Registry

	messages *prometheus.CounterVec
	dispatch *prometheus.HistogramVec
	sessions prometheus.Gauge
	loads    *prometheus.CounterVec
	records  prometheus.Gauge
	commits  prometheus.Gauge
	frames   prometheus.Counter
}

// New registers every instrument plus the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Session messages dispatched, by kind.",
		}, []string{"kind"}),
		dispatch: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dispatch_duration_seconds",
			Help:      "Time spent recomputing state for one message.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"kind"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Open websocket sessions.",
		}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Source loads, by result.",
		}, []string{"result"}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records",
			Help:      "Line records in the current dataset.",
		}),
		commits: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "commits",
			Help:      "Commits in the current dataset.",
		}),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_sent_total",
			Help:      "Frames written to websocket sessions.",
		}),
	}
	m.registry.MustRegister(
		m.messages, m.dispatch, m.sessions, m.loads, m.records, m.commits, m.frames,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe records one dispatched message. It matches app.Options.Observe.
func (m *Metrics) Observe(kind string, took time.Duration) {
	m.messages.WithLabelValues(kind).Inc()
	m.dispatch.WithLabelValues(kind).Observe(took.Seconds())
}

// SessionOpened and SessionClosed track the open session gauge.
func (m *Metrics) SessionOpened() { m.sessions.Inc() }

func (m *Metrics) SessionClosed() { m.sessions.Dec() }

// FrameSent counts an outbound frame.
func (m *Metrics) FrameSent() { m.frames.Inc() }

// LoadSucceeded records a successful load of the given size.
func (m *Metrics) LoadSucceeded(records, commits int) {
	m.loads.WithLabelValues("ok").Inc()
	m.records.Set(float64(records))
	m.commits.Set(float64(commits))
}

// LoadFailed records a failed load.
func (m *Metrics) LoadFailed() {
	m.loads.WithLabelValues("error").Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

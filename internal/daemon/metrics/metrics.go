// Package metrics exposes the KPI snapshot as Prometheus gauges.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/grovetools/pulse/internal/daemon/store"
)

const namespace = "pulse"

// Recorder mirrors store snapshots into a private Prometheus registry.
type Recorder struct {
	registry *prometheus.Registry

	overall       *prometheus.GaugeVec
	phaseValue    *prometheus.GaugeVec
	phaseUpdated  *prometheus.GaugeVec
	updates       prometheus.Counter
	streamClients prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry, including the Go
// runtime and process collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		overall: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "overall_score",
			Help:      "Derived overall score (health, progress, efficiency, quality).",
		}, []string{"score"}),
		phaseValue: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "phase_value",
			Help:      "Current value of a phase record field.",
		}, []string{"phase", "field"}),
		phaseUpdated: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "phase_last_updated_timestamp_seconds",
			Help:      "Unix time of the last update to a phase.",
		}, []string{"phase"}),
		updates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_updates_total",
			Help:      "Number of snapshots published by the store.",
		}),
		streamClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_clients",
			Help:      "Connected SSE and WebSocket clients.",
		}),
	}
}

// Observe sets every gauge from snap. It does not count as an update.
func (r *Recorder) Observe(snap store.Snapshot) {
	r.overall.WithLabelValues("health").Set(float64(snap.Overall.Health))
	r.overall.WithLabelValues("progress").Set(float64(snap.Overall.Progress))
	r.overall.WithLabelValues("efficiency").Set(float64(snap.Overall.Efficiency))
	r.overall.WithLabelValues("quality").Set(float64(snap.Overall.Quality))

	for _, phase := range store.AllPhases {
		for field, v := range store.FieldValues(snap.Phases.Record(phase)) {
			r.phaseValue.WithLabelValues(string(phase), field).Set(v)
		}
		r.phaseUpdated.WithLabelValues(string(phase)).Set(float64(snap.Phases.LastUpdated(phase).Unix()))
	}
}

// Attach primes the gauges from st and keeps them in sync with every
// update. The returned function detaches the recorder.
func (r *Recorder) Attach(st *store.Store) (detach func()) {
	r.Observe(st.Snapshot())
	return st.Subscribe(func(snap store.Snapshot) {
		r.updates.Inc()
		r.Observe(snap)
	})
}

// ClientConnected tracks a new stream client.
func (r *Recorder) ClientConnected() { r.streamClients.Inc() }

// ClientDisconnected tracks a stream client going away.
func (r *Recorder) ClientDisconnected() { r.streamClients.Dec() }

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

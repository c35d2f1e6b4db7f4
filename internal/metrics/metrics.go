// Package metrics exposes Prometheus instrumentation for the frame
// pipeline. All collectors live on a private registry so tests can
// create isolated instances.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the process-wide collectors.
type Metrics struct {
	registry *prometheus.Registry

	framesProcessed  prometheus.Counter
	bytesTransformed prometheus.Counter
	runsTotal        *prometheus.CounterVec
	activeRuns       prometheus.Gauge
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		framesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "framecloak",
			Name:      "frames_processed_total",
			Help:      "Total number of frames transformed and written.",
		}),
		bytesTransformed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "framecloak",
			Name:      "bytes_transformed_total",
			Help:      "Total number of frame bytes XORed.",
		}),
		runsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "framecloak",
			Name:      "runs_total",
			Help:      "Total number of finished runs by terminal state.",
		}, []string{"outcome"}),
		activeRuns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "framecloak",
			Name:      "active_runs",
			Help:      "Number of runs currently in flight.",
		}),
	}

	m.registry.MustRegister(
		m.framesProcessed,
		m.bytesTransformed,
		m.runsTotal,
		m.activeRuns,
	)
	return m
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// FrameWritten records one transformed frame of the given byte size.
func (m *Metrics) FrameWritten(frameBytes int) {
	m.framesProcessed.Inc()
	m.bytesTransformed.Add(float64(frameBytes))
}

// RunStarted increments the in-flight gauge.
func (m *Metrics) RunStarted() {
	m.activeRuns.Inc()
}

// RunFinished records a terminal state and decrements the in-flight
// gauge. The outcome label is the lowercase terminal state name.
func (m *Metrics) RunFinished(outcome string) {
	m.runsTotal.WithLabelValues(outcome).Inc()
	m.activeRuns.Dec()
}

package traceapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/roach88/algotrace/internal/ir"
)

const (
	metricsNamespace = "algotrace"
	metricsSubsystem = "api"
)

// Metrics holds the Prometheus collectors of the HTTP twin.
//
// All operations are thread-safe.
type Metrics struct {
	// RunsTotal counts finished runs.
	// Labels: kind (sort, search), algorithm, outcome (success, cancelled,
	// unreachable, attempts_exhausted)
	RunsTotal *prometheus.CounterVec

	// RunSteps observes the number of snapshots per run.
	// Labels: kind
	RunSteps *prometheus.HistogramVec

	// RunDurationSeconds observes engine wall time per run.
	// Labels: kind
	RunDurationSeconds *prometheus.HistogramVec

	// RequestErrorsTotal counts error envelopes sent.
	// Labels: reason
	RequestErrorsTotal *prometheus.CounterVec

	// ActiveStreams tracks open websocket streams.
	ActiveStreams prometheus.Gauge
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "runs_total",
			Help:      "Finished runs by kind, algorithm and outcome",
		}, []string{"kind", "algorithm", "outcome"}),
		RunSteps: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "run_steps",
			Help:      "Snapshots recorded per run",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"kind"}),
		RunDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "run_duration_seconds",
			Help:      "Engine wall time per run",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.1, 1, 10},
		}, []string{"kind"}),
		RequestErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "request_errors_total",
			Help:      "Error envelopes sent by reason",
		}, []string{"reason"}),
		ActiveStreams: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "active_streams",
			Help:      "Open websocket trace streams",
		}),
	}
}

// ObserveRun records one finished run.
func (m *Metrics) ObserveRun(kind, algorithm string, out ir.Outcome) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(kind, algorithm, outcomeLabel(out)).Inc()
	m.RunSteps.WithLabelValues(kind).Observe(float64(out.Steps))
	m.RunDurationSeconds.WithLabelValues(kind).Observe(out.Metrics.Elapsed.Seconds())
}

// ObserveError records one error envelope.
func (m *Metrics) ObserveError(reason string) {
	if m == nil {
		return
	}
	m.RequestErrorsTotal.WithLabelValues(reason).Inc()
}

func (m *Metrics) streamOpened() {
	if m != nil {
		m.ActiveStreams.Inc()
	}
}

func (m *Metrics) streamClosed() {
	if m != nil {
		m.ActiveStreams.Dec()
	}
}

func outcomeLabel(out ir.Outcome) string {
	if out.Success {
		return "success"
	}
	if out.Reason == ir.ReasonNone {
		return "failure"
	}
	return string(out.Reason)
}

package server

import (
	"github.com/iwvelando/tokenomics-planner/internal/planner"
	"github.com/iwvelando/tokenomics-planner/internal/schedule"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "tokenomics"
	metricsSubsystem = "planner"

	// unknownOpLabel replaces client-supplied operation names that are not
	// edit operations, bounding the label set.
	unknownOpLabel = "unknown"
)

// plannerMetrics holds the domain counters of one handler. Each handler owns a
// registry so that several handlers can coexist in one process.
type plannerMetrics struct {
	registry     *prometheus.Registry
	simulations  *prometheus.CounterVec
	warnings     *prometheus.CounterVec
	edits        *prometheus.CounterVec
	liveSessions prometheus.Gauge
}

func newPlannerMetrics() *plannerMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &plannerMetrics{
		registry: registry,
		simulations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "simulations_total",
				Help:      "Total number of unlock schedules computed",
			},
			[]string{"source"},
		),
		warnings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "warnings_total",
				Help:      "Total number of plan warnings raised",
			},
			[]string{"code"},
		),
		edits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "edits_total",
				Help:      "Total number of planner edits applied",
			},
			[]string{"op", "status"},
		),
		liveSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "live_sessions",
				Help:      "Number of open live planner sessions",
			},
		),
	}
}

func (m *plannerMetrics) observeResult(source string, result schedule.Result) {
	m.simulations.WithLabelValues(source).Inc()
	for _, w := range result.Metrics.Warnings {
		m.warnings.WithLabelValues(string(w.Code)).Inc()
	}
}

func (m *plannerMetrics) observeEdit(op planner.Op, err error) {
	label := unknownOpLabel
	if op.Valid() {
		label = string(op)
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.edits.WithLabelValues(label, status).Inc()
}

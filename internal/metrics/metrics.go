// Package metrics provides Prometheus metrics for the mesh engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the analyzer.
type Metrics struct {
	RunsTotal          *prometheus.CounterVec
	RunDuration        prometheus.Histogram
	ReposScanned       prometheus.Gauge
	ReposSkipped       prometheus.Gauge
	Recommendations    prometheus.Gauge
	ActionsTotal       *prometheus.CounterVec
	TotalMeshWeight    prometheus.Gauge

	registry *prometheus.Registry
}

// New creates and registers all metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mesh_runs_total",
				Help: "Total analysis runs by outcome.",
			},
			[]string{"status"},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mesh_run_duration_seconds",
				Help:    "Analysis run duration.",
				Buckets: prometheus.DefBuckets,
			},
		),
		ReposScanned: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "mesh_repositories_scanned",
				Help: "Repositories scored in the latest run.",
			},
		),
		ReposSkipped: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "mesh_repositories_skipped",
				Help: "Repositories skipped in the latest run due to fetch failures.",
			},
		),
		Recommendations: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "mesh_recommendations",
				Help: "Bridge recommendations produced by the latest run.",
			},
		),
		ActionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mesh_actions_total",
				Help: "Executed enhancement actions by result.",
			},
			[]string{"result"},
		),
		TotalMeshWeight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "mesh_total_weight",
				Help: "Sum of all mesh weights in the latest snapshot.",
			},
		),
		registry: reg,
	}

	reg.MustRegister(m.RunsTotal)
	reg.MustRegister(m.RunDuration)
	reg.MustRegister(m.ReposScanned)
	reg.MustRegister(m.ReposSkipped)
	reg.MustRegister(m.Recommendations)
	reg.MustRegister(m.ActionsTotal)
	reg.MustRegister(m.TotalMeshWeight)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRun increments the run counter and observes the duration.
func (m *Metrics) RecordRun(status string, seconds float64) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(seconds)
}

// RecordAction increments the action counter.
func (m *Metrics) RecordAction(result string) {
	m.ActionsTotal.WithLabelValues(result).Inc()
}

// SetSnapshotStats publishes gauges from the latest run.
func (m *Metrics) SetSnapshotStats(scanned, skipped, recommendations int, totalWeight float64) {
	m.ReposScanned.Set(float64(scanned))
	m.ReposSkipped.Set(float64(skipped))
	m.Recommendations.Set(float64(recommendations))
	m.TotalMeshWeight.Set(totalWeight)
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "warming_figures"

// Metrics holds the Prometheus counters, histograms, and gauges for a figure run.
type Metrics struct {
	ScenariosProcessed prometheus.Counter
	ScenarioErrors     prometheus.Counter
	DroppedBins        prometheus.Counter
	FiguresWritten     prometheus.Counter
	PipelineRunning    prometheus.Gauge
	LastSuccess        prometheus.Gauge

	ScenarioDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.ScenariosProcessed,
		m.ScenarioErrors,
		m.DroppedBins,
		m.FiguresWritten,
		m.PipelineRunning,
		m.LastSuccess,
		m.ScenarioDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests can
// build as many as they need.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

// WriteTextfile writes every registered metric to path in the text exposition
// format, for collection by node_exporter's textfile collector.
func WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}

func newMetrics() *Metrics {
	return &Metrics{
		ScenariosProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scenarios_processed_total",
			Help:      "Scenarios loaded, transformed and rendered.",
		}),
		ScenarioErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scenario_errors_total",
			Help:      "Scenarios that failed in any stage.",
		}),
		DroppedBins: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_bins_total",
			Help:      "Temperature bins lost because count and probability labels did not match.",
		}),
		FiguresWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "figures_written_total",
			Help:      "Image files written.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while the pipeline is running, 0 otherwise.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run that finished without error.",
		}),
		ScenarioDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scenario_duration_seconds",
			Help:      "Duration of one scenario's load-transform-render cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

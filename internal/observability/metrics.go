package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion service.
type Metrics struct {
	CyclesTotal          *prometheus.CounterVec // labels: outcome={success,failure}
	FetchFailures        *prometheus.CounterVec // labels: kind={transport,shape}
	ObservationsFetched  prometheus.Counter
	MeasurementsInserted prometheus.Counter
	StationsReplaced     prometheus.Counter
	CycleDuration        prometheus.Histogram
	SchedulerRunning     prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		CyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "cycles_total",
			Help:      "Completed fetch-normalize-persist cycles by outcome.",
		}, []string{"outcome"}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "fetch_failures_total",
			Help:      "Feed fetch failures by failure kind.",
		}, []string{"kind"}),
		ObservationsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "observations_fetched_total",
			Help:      "Raw station observations received from the feed.",
		}),
		MeasurementsInserted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "measurements_inserted_total",
			Help:      "Measurement rows actually inserted (duplicates excluded).",
		}),
		StationsReplaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "stations_replaced_total",
			Help:      "Station rows written by snapshot replacement.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_ingest",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a complete fetch-normalize-persist cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		SchedulerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_ingest",
			Name:      "scheduler_running",
			Help:      "1 while the cycle scheduler loop is active.",
		}),
	}

	prometheus.MustRegister(
		m.CyclesTotal,
		m.FetchFailures,
		m.ObservationsFetched,
		m.MeasurementsInserted,
		m.StationsReplaced,
		m.CycleDuration,
		m.SchedulerRunning,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		CyclesTotal:          prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_ingest", Name: "cycles_total"}, []string{"outcome"}),
		FetchFailures:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_ingest", Name: "fetch_failures_total"}, []string{"kind"}),
		ObservationsFetched:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_ingest", Name: "observations_fetched_total"}),
		MeasurementsInserted: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_ingest", Name: "measurements_inserted_total"}),
		StationsReplaced:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_ingest", Name: "stations_replaced_total"}),
		CycleDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_ingest", Name: "cycle_duration_seconds"}),
		SchedulerRunning:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "weather_ingest", Name: "scheduler_running"}),
	}
}

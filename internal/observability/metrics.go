package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the feed
// and the animation widgets.
type Metrics struct {
	SnapshotsPublished prometheus.Counter
	ManualRefreshes    prometheus.Counter
	SinkErrors         prometheus.Counter
	FeedRunning        prometheus.Gauge
	FeedSubscribers    prometheus.Gauge

	GenerationDuration prometheus.Histogram

	// Animation metrics.
	WidgetsMounted prometheus.Gauge
	StageAdvances  prometheus.Counter
	Frames         *prometheus.CounterVec // labels: result={rendered,skipped}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.SnapshotsPublished,
		m.ManualRefreshes,
		m.SinkErrors,
		m.FeedRunning,
		m.FeedSubscribers,
		m.GenerationDuration,
		m.WidgetsMounted,
		m.StageAdvances,
		m.Frames,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bloomwatch",
			Name:      "snapshots_published_total",
			Help:      "Total metric snapshots published to subscribers.",
		}),
		ManualRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bloomwatch",
			Name:      "manual_refreshes_total",
			Help:      "Total refreshes requested outside the schedule.",
		}),
		SinkErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bloomwatch",
			Name:      "sink_errors_total",
			Help:      "Total failures handing a snapshot to a sink.",
		}),
		FeedRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bloomwatch",
			Name:      "feed_running",
			Help:      "1 when the refresh scheduler is active, 0 when stopped.",
		}),
		FeedSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bloomwatch",
			Name:      "feed_subscribers",
			Help:      "Number of open snapshot subscriptions.",
		}),
		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bloomwatch",
			Name:      "snapshot_generation_duration_seconds",
			Help:      "Time spent generating and publishing one snapshot.",
			Buckets:   []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}),
		WidgetsMounted: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "bloomwatch",
			Name:      "widgets_mounted",
			Help:      "Number of mounted bloom-cycle widgets.",
		}),
		StageAdvances: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "bloomwatch",
			Name:      "stage_advances_total",
			Help:      "Total bloom-cycle stage transitions made by the play timer.",
		}),
		Frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bloomwatch",
			Name:      "frames_total",
			Help:      "Animation frames by result.",
		}, []string{"result"}),
	}
}

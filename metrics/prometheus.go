package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"time"
)

const namespace = "craftlauncher"

// PrometheusCollector keeps launcher metrics in its own registry so a run can be dumped to a textfile.
type PrometheusCollector struct {
	attempts       *prometheus.CounterVec
	attemptSeconds *prometheus.HistogramVec
	repaired       *prometheus.CounterVec
	updates        *prometheus.CounterVec
	downloaded     prometheus.Counter

	registry *prometheus.Registry
}

func NewPrometheusCollector() *PrometheusCollector {
	pc := &PrometheusCollector{
		registry: prometheus.NewRegistry(),
	}

	pc.attempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "launch_attempts_total",
			Help:      "Launch attempts by strategy and outcome",
		},
		[]string{"strategy", "outcome"},
	)

	pc.attemptSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "launch_attempt_duration_seconds",
			Help:      "Time from process start to verdict",
			Buckets:   []float64{0.1, 0.5, 1, 2, 3, 5, 10},
		},
		[]string{"strategy"},
	)

	pc.repaired = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_repaired_total",
			Help:      "Files restored from the reference tree",
		},
		[]string{"folder"},
	)

	pc.updates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "updates_total",
			Help:      "Update runs by result",
		},
		[]string{"result"},
	)

	pc.downloaded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downloaded_bytes_total",
			Help:      "Bytes downloaded from the content server",
		},
	)

	pc.registry.MustRegister(pc.attempts, pc.attemptSeconds, pc.repaired, pc.updates, pc.downloaded)

	return pc
}

func (pc *PrometheusCollector) LaunchAttempt(strategy string, outcome string, duration time.Duration) {
	pc.attempts.WithLabelValues(strategy, outcome).Inc()
	pc.attemptSeconds.WithLabelValues(strategy).Observe(duration.Seconds())
}

func (pc *PrometheusCollector) FilesRepaired(folder string, count int) {
	pc.repaired.WithLabelValues(folder).Add(float64(count))
}

func (pc *PrometheusCollector) UpdateResult(result string) {
	pc.updates.WithLabelValues(result).Inc()
}

func (pc *PrometheusCollector) Downloaded(bytes int64) {
	pc.downloaded.Add(float64(bytes))
}

// Gatherer exposes the collector's registry.
func (pc *PrometheusCollector) Gatherer() prometheus.Gatherer {
	return pc.registry
}

// WriteTextfile dumps the current values in the node exporter textfile format.
func (pc *PrometheusCollector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, pc.registry)
}

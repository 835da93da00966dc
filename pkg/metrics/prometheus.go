package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	loadsTotal    *prometheus.CounterVec
	warningsTotal *prometheus.CounterVec
	rowsRead      prometheus.Counter
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		loadsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eodfeed_loads_total",
				Help: "Total number of symbol loads by timeframe and outcome",
			},
			[]string{"timeframe", "status"},
		),
		warningsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eodfeed_warnings_total",
				Help: "Total number of load warnings by kind",
			},
			[]string{"kind"},
		),
		rowsRead: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "eodfeed_rows_read_total",
				Help: "Total number of stored rows read from disk or database",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "eodfeed_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordLoad records a completed symbol load.
func (r *Recorder) RecordLoad(timeframe, status string) {
	r.loadsTotal.WithLabelValues(timeframe, status).Inc()
}

// RecordWarning records a load warning occurrence.
func (r *Recorder) RecordWarning(kind string) {
	r.warningsTotal.WithLabelValues(kind).Inc()
}

// RecordRowsRead records rows fetched from storage.
func (r *Recorder) RecordRowsRead(n int) {
	r.rowsRead.Add(float64(n))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

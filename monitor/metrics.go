package monitor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus observability primitives for the ingestion
// pipeline.
type Metrics struct {
	uploads        *prometheus.CounterVec
	rowsIngested   *prometheus.CounterVec
	ingestDuration *prometheus.HistogramVec
}

// NewMetrics registers and returns the service metrics. Call once per
// process: registration on the default registry panics on duplicates.
func NewMetrics() *Metrics {
	uploads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "marketing_api_uploads_total",
		Help: "Upload outcomes by platform and status.",
	}, []string{"platform", "status"})

	rowsIngested := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "marketing_api_rows_ingested_total",
		Help: "Campaign report rows inserted, per platform.",
	}, []string{"platform"})

	ingestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "marketing_api_ingest_duration_seconds",
		Help:    "End-to-end ingestion latency per platform.",
		Buckets: prometheus.DefBuckets,
	}, []string{"platform"})

	prometheus.MustRegister(uploads, rowsIngested, ingestDuration)

	return &Metrics{
		uploads:        uploads,
		rowsIngested:   rowsIngested,
		ingestDuration: ingestDuration,
	}
}

// ObserveUpload records the outcome of one ingestion attempt. Nil receivers
// are no-ops so tests and the CLI can run without a registry.
func (m *Metrics) ObserveUpload(platform, status string, rows int, duration time.Duration) {
	if m == nil {
		return
	}
	m.uploads.WithLabelValues(platform, status).Inc()
	if rows > 0 {
		m.rowsIngested.WithLabelValues(platform).Add(float64(rows))
	}
	m.ingestDuration.WithLabelValues(platform).Observe(duration.Seconds())
}

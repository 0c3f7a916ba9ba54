package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics exposed by the server.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestErrors   *prometheus.CounterVec

	VectorsInserted prometheus.Counter
	VectorsDeleted  prometheus.Counter
	VectorsUpdated  prometheus.Counter
	VectorsSearched prometheus.Counter

	IndexSize     prometheus.Gauge
	IndexMaxLayer prometheus.Gauge

	SearchLatency    prometheus.Histogram
	SearchRecall     prometheus.Histogram
	SearchResultSize prometheus.Histogram

	BatchInsertTotal    prometheus.Counter
	BatchInsertDuration prometheus.Histogram
	BatchDeleteTotal    prometheus.Counter
	BatchDeleteDuration prometheus.Histogram

	GoroutinesCount prometheus.Gauge
	MemoryUsage     prometheus.Gauge
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vectordb_requests_total",
				Help: "Total number of requests by method and status",
			},
			[]string{"method", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vectordb_request_duration_seconds",
				Help:    "Request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method"},
		),
		RequestErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vectordb_request_errors_total",
				Help: "Total number of request errors by method and error type",
			},
			[]string{"method", "error_type"},
		),

		VectorsInserted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vectordb_vectors_inserted_total",
			Help: "Total number of vectors inserted",
		}),
		VectorsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vectordb_vectors_deleted_total",
			Help: "Total number of vectors deleted",
		}),
		VectorsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vectordb_vectors_updated_total",
			Help: "Total number of vectors updated",
		}),
		VectorsSearched: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vectordb_vectors_searched_total",
			Help: "Total number of search operations",
		}),

		IndexSize: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "vectordb_index_size",
			Help: "Number of live vectors in the collection",
		}),
		IndexMaxLayer: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "vectordb_index_max_layer",
			Help: "Top layer of the HNSW graph",
		}),

		SearchLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vectordb_search_latency_seconds",
			Help:    "Search latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		SearchRecall: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vectordb_search_recall",
			Help:    "Search recall against brute-force ground truth (0-1)",
			Buckets: []float64{.8, .85, .9, .92, .94, .95, .96, .97, .98, .99, 1.0},
		}),
		SearchResultSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vectordb_search_result_size",
			Help:    "Number of results returned by search",
			Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
		}),

		BatchInsertTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vectordb_batch_insert_total",
			Help: "Total number of batch insert operations",
		}),
		BatchInsertDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vectordb_batch_insert_duration_seconds",
			Help:    "Batch insert duration in seconds",
			Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		BatchDeleteTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vectordb_batch_delete_total",
			Help: "Total number of batch delete operations",
		}),
		BatchDeleteDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vectordb_batch_delete_duration_seconds",
			Help:    "Batch delete duration in seconds",
			Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60},
		}),

		GoroutinesCount: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "vectordb_goroutines",
			Help: "Current number of goroutines",
		}),
		MemoryUsage: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "vectordb_memory_bytes",
			Help: "Memory usage in bytes",
		}),
	}
}

// RecordRequest records a request with duration and status.
func (m *Metrics) RecordRequest(method, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, status).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordError records an error.
func (m *Metrics) RecordError(method, errorType string) {
	m.RequestErrors.WithLabelValues(method, errorType).Inc()
}

// RecordInsert records count vectors inserted.
func (m *Metrics) RecordInsert(count int) {
	m.VectorsInserted.Add(float64(count))
}

// RecordDelete records count vectors deleted.
func (m *Metrics) RecordDelete(count int) {
	m.VectorsDeleted.Add(float64(count))
}

// RecordUpdate records count vectors updated.
func (m *Metrics) RecordUpdate(count int) {
	m.VectorsUpdated.Add(float64(count))
}

// RecordSearch records one search operation's latency and result size.
func (m *Metrics) RecordSearch(duration time.Duration, resultSize int) {
	m.VectorsSearched.Inc()
	m.SearchLatency.Observe(duration.Seconds())
	m.SearchResultSize.Observe(float64(resultSize))
}

// RecordRecall records a measured recall sample against brute-force search.
func (m *Metrics) RecordRecall(recall float64) {
	m.SearchRecall.Observe(recall)
}

// UpdateIndexSize sets the current live vector count.
func (m *Metrics) UpdateIndexSize(size int) {
	m.IndexSize.Set(float64(size))
}

// UpdateIndexMaxLayer sets the graph's current top layer.
func (m *Metrics) UpdateIndexMaxLayer(maxLayer int) {
	m.IndexMaxLayer.Set(float64(maxLayer))
}

// RecordBatchInsert records one batch insert operation.
func (m *Metrics) RecordBatchInsert(duration time.Duration, count int) {
	m.BatchInsertTotal.Inc()
	m.BatchInsertDuration.Observe(duration.Seconds())
	m.VectorsInserted.Add(float64(count))
}

// RecordBatchDelete records one batch delete operation.
func (m *Metrics) RecordBatchDelete(duration time.Duration, count int) {
	m.BatchDeleteTotal.Inc()
	m.BatchDeleteDuration.Observe(duration.Seconds())
	m.VectorsDeleted.Add(float64(count))
}

// UpdateGoroutineCount sets the current goroutine count gauge.
func (m *Metrics) UpdateGoroutineCount(count int) {
	m.GoroutinesCount.Set(float64(count))
}

// UpdateMemoryUsage sets the current memory usage gauge, in bytes.
func (m *Metrics) UpdateMemoryUsage(bytes uint64) {
	m.MemoryUsage.Set(float64(bytes))
}

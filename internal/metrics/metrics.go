// Package metrics exposes prometheus collectors for event ingestion, page
// fetches and store operations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pfrederiksen/chapter-events/internal/storage"
)

const namespace = "chapter_events"

// Metrics holds the service collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ingested        *prometheus.CounterVec
	ingestFailures  *prometheus.CounterVec
	fetchDuration   prometheus.Histogram
	storeOperations *prometheus.CounterVec
}

// New registers the collectors, plus Go runtime and process collectors, on a
// fresh registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.ingested = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingested_total",
		Help:      "Events persisted, by ingestion path (scrape or manual).",
	}, []string{"path"})
	m.ingestFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ingest_failures_total",
		Help:      "Rejected submissions and failed deletes, by error kind.",
	}, []string{"kind"})
	m.fetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Duration of outbound event page fetches.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 15, 20},
	})
	m.storeOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_operations_total",
		Help:      "Event store reads and writes, by backend and result.",
	}, []string{"backend", "op", "result"})

	m.registry.MustRegister(
		m.ingested,
		m.ingestFailures,
		m.fetchDuration,
		m.storeOperations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors live on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Ingested counts a persisted event
func (m *Metrics) Ingested(path string) {
	if m == nil {
		return
	}
	m.ingested.WithLabelValues(path).Inc()
}

// IngestFailed counts a rejected operation
func (m *Metrics) IngestFailed(kind string) {
	if m == nil {
		return
	}
	m.ingestFailures.WithLabelValues(kind).Inc()
}

// ObserveFetch records how long a page fetch took, successful or not
func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.fetchDuration.Observe(d.Seconds())
}

// StoreOp implements storage.OpRecorder. Failures are labelled with the
// storage error kind when there is one.
func (m *Metrics) StoreOp(backend, op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
		if kind := storage.KindOf(err); kind != "" {
			result = string(kind)
		}
	}
	m.storeOperations.WithLabelValues(backend, op, result).Inc()
}

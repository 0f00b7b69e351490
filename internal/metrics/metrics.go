// Package metrics provides Prometheus metrics for a browsing session.
//
// A nil *Metrics is valid and records nothing, so components can take one
// unconditionally.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	listingsTotal   *prometheus.CounterVec
	listingDuration prometheus.Histogram
	cacheLookups    *prometheus.CounterVec

	searchesTotal  *prometheus.CounterVec
	searchDuration prometheus.Histogram
	searchNodes    prometheus.Counter
	searchResults  prometheus.Histogram

	pasteItemsTotal *prometheus.CounterVec
	trashItemsTotal *prometheus.CounterVec
}

// New registers the session metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		listingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "razorfs_listings_total",
				Help: "Directory listings by outcome",
			},
			[]string{"result"},
		),
		listingDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "razorfs_listing_duration_seconds",
				Help:    "Time to read and sort a directory",
				Buckets: prometheus.DefBuckets,
			},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "razorfs_listing_cache_lookups_total",
				Help: "Listing cache lookups by result",
			},
			[]string{"result"},
		),

		searchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "razorfs_searches_total",
				Help: "Searches by outcome",
			},
			[]string{"result"},
		),
		searchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "razorfs_search_duration_seconds",
				Help:    "Search wall time, excluding debounce",
				Buckets: prometheus.DefBuckets,
			},
		),
		searchNodes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "razorfs_search_nodes_visited_total",
				Help: "File system nodes visited by search traversal",
			},
		),
		searchResults: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "razorfs_search_results",
				Help:    "Results returned per completed search",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 200},
			},
		),

		pasteItemsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "razorfs_paste_items_total",
				Help: "Pasted items by operation and outcome",
			},
			[]string{"op", "result"},
		),
		trashItemsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "razorfs_trash_items_total",
				Help: "Items moved to trash by outcome",
			},
			[]string{"result"},
		),
	}
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

// RecordListing records one directory read.
func (m *Metrics) RecordListing(ok bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.listingsTotal.WithLabelValues(result(ok)).Inc()
	m.listingDuration.Observe(duration.Seconds())
}

// RecordCacheLookup records a listing cache hit or miss.
func (m *Metrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheLookups.WithLabelValues("hit").Inc()
		return
	}
	m.cacheLookups.WithLabelValues("miss").Inc()
}

// RecordSearch records a finished search. Canceled searches record no
// result count.
func (m *Metrics) RecordSearch(canceled bool, nodes int64, results int, duration time.Duration) {
	if m == nil {
		return
	}
	m.searchNodes.Add(float64(nodes))
	if canceled {
		m.searchesTotal.WithLabelValues("canceled").Inc()
		return
	}
	m.searchesTotal.WithLabelValues("completed").Inc()
	m.searchDuration.Observe(duration.Seconds())
	m.searchResults.Observe(float64(results))
}

// RecordPaste records per-item paste outcomes. op is "copy" or "cut".
func (m *Metrics) RecordPaste(op string, succeeded, failed int) {
	if m == nil {
		return
	}
	m.pasteItemsTotal.WithLabelValues(op, "ok").Add(float64(succeeded))
	m.pasteItemsTotal.WithLabelValues(op, "error").Add(float64(failed))
}

// RecordTrash records per-item trash outcomes.
func (m *Metrics) RecordTrash(succeeded, failed int) {
	if m == nil {
		return
	}
	m.trashItemsTotal.WithLabelValues("ok").Add(float64(succeeded))
	m.trashItemsTotal.WithLabelValues("error").Add(float64(failed))
}

// file: internal/metrics/metrics.go
// version: 1.0.0
// guid: c9e1a3b5-7d9f-4a1b-8c6d-8e0f2a4b6c8d

package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	resolutionStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "librorank",
		Name:      "resolutions_started_total",
		Help:      "Total number of catalog resolutions started",
	})
	resolutionAccepted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "librorank",
		Name:      "resolutions_accepted_total",
		Help:      "Total number of resolutions that produced an accepted record",
	})
	resolutionNoMatch = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "librorank",
		Name:      "resolutions_nomatch_total",
		Help:      "Total number of resolutions with no acceptable match",
	})
	resolutionFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "librorank",
		Name:      "resolutions_failed_total",
		Help:      "Total number of resolutions aborted by catalog fetch failures",
	})
	fetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "librorank",
		Name:      "catalog_fetch_duration_seconds",
		Help:      "Histogram of catalog fetch durations in seconds",
		Buckets:   prometheus.ExponentialBuckets(0.05, 1.6, 10),
	})

	libraryBooksGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "librorank",
		Name:      "library_books_total",
		Help:      "Current number of books in the reading list",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(resolutionStarted, resolutionAccepted, resolutionNoMatch,
			resolutionFailed, fetchDuration, libraryBooksGauge)
	})
}

// Resolution lifecycle helpers
func IncResolutionStarted()  { resolutionStarted.Inc() }
func IncResolutionAccepted() { resolutionAccepted.Inc() }
func IncResolutionNoMatch()  { resolutionNoMatch.Inc() }
func IncResolutionFailed()   { resolutionFailed.Inc() }
func ObserveFetchDuration(d time.Duration) {
	fetchDuration.Observe(d.Seconds())
}

// Gauges
func SetLibraryBooks(n int) { libraryBooksGauge.Set(float64(n)) }

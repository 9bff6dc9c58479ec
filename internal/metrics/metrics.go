// Package metrics declares the Prometheus collectors of the ownership service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "nft_ownership"

	CacheResultHit   = "hit"
	CacheResultMiss  = "miss"
	CacheResultShare = "share"
	CacheResultStore = "store_hit"

	FailureBalance  = "balance"
	FailureMetadata = "metadata"
)

// MetadataCacheTotal counts metadata cache lookups by outcome.
// [result].
var MetadataCacheTotal = MustRegisterCounterVec(
	"metadata_cache",
	"lookups_total",
	"Number of metadata cache lookups by result.",
	"result",
)

// ItemFailuresTotal counts per-item failures absorbed by the aggregator.
// [kind].
var ItemFailuresTotal = MustRegisterCounterVec(
	"resolver",
	"item_failures_total",
	"Number of per-item failures treated as absent ownership or unknown metadata.",
	"kind",
)

// InFlightGauge tracks fan-out units currently running.
var InFlightGauge = MustRegisterGauge(
	"resolver",
	"units_in_flight",
	"Number of ownership fan-out units currently running.",
)

// ResolutionDurationHistogram tracks the duration of ownership resolutions.
// [collection, network].
var ResolutionDurationHistogram = MustRegisterHistogramVec(
	"resolver",
	"resolution_duration_seconds",
	"Duration of ownership resolutions in seconds.",
	[]float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
	"collection", "network",
)

// SnapshotsTotal counts snapshot queue outcomes.
// [outcome].
var SnapshotsTotal = MustRegisterCounterVec(
	"snapshots",
	"total",
	"Number of ownership snapshots by outcome.",
	"outcome",
)

// MustRegisterCounterVec creates and registers a counter vector.
func MustRegisterCounterVec(subsystem, name, help string, labelNames ...string) *prometheus.CounterVec {
	m := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labelNames)
	prometheus.MustRegister(m)
	return m
}

// MustRegisterGauge creates and registers a gauge.
func MustRegisterGauge(subsystem, name, help string) prometheus.Gauge {
	m := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	})
	prometheus.MustRegister(m)
	return m
}

// MustRegisterHistogramVec creates and registers a histogram vector.
func MustRegisterHistogramVec(subsystem, name, help string, buckets []float64, labelNames ...string) *prometheus.HistogramVec {
	m := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labelNames)
	prometheus.MustRegister(m)
	return m
}

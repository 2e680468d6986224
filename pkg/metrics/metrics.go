// Package metrics exposes Prometheus collectors for the API process.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recordings_snapshot_cache_lookups_total",
			Help: "Recording snapshot cache lookups by result",
		},
		[]string{"result"},
	)

	snapshotFetchFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recordings_snapshot_fetch_failures_total",
			Help: "Recording list fetches that failed and were served empty",
		},
	)

	blobRemoveFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recordings_blob_remove_failures_total",
			Help: "Best-effort audio blob removals that failed",
		},
	)
)

func CacheHit()  { cacheLookups.WithLabelValues("hit").Inc() }
func CacheMiss() { cacheLookups.WithLabelValues("miss").Inc() }

func SnapshotFetchFailed() { snapshotFetchFailures.Inc() }

func BlobRemoveFailed() { blobRemoveFailures.Inc() }

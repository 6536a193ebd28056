// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vidtube",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "vidtube",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and method.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	ToggleOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vidtube",
		Name:      "toggle_outcomes_total",
		Help:      "Relation toggles by table and resulting state.",
	}, []string{"table", "state"})

	MediaCleanupTasks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vidtube",
		Name:      "media_cleanup_tasks_total",
		Help:      "Compensating media deletions by outcome (queued, deleted, failed).",
	}, []string{"outcome"})

	StatsCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "vidtube",
		Name:      "stats_cache_lookups_total",
		Help:      "Channel stats cache lookups by result (hit, miss, error).",
	}, []string{"result"})
)

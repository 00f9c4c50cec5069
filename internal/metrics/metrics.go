package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch results
const (
	FetchHit      = "hit"
	FetchUpstream = "upstream"
	FetchStale    = "stale"
	FetchError    = "error"
	FetchSkipped  = "client_only"
)

var (
	WidgetFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "owms",
			Subsystem: "widget",
			Name:      "fetches_total",
			Help:      "Widget data fetches by widget and result",
		},
		[]string{"widget_id", "result"},
	)

	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "owms",
			Subsystem: "widget",
			Name:      "upstream_latency_seconds",
			Help:      "OWMS API call latency for widget data",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		},
		[]string{"widget_id"},
	)

	RenderFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "owms",
			Subsystem: "widget",
			Name:      "render_failures_total",
			Help:      "Widgets rendered as error cards, by error code",
		},
		[]string{"widget_id", "code"},
	)

	PreferenceSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "owms",
			Subsystem: "preferences",
			Name:      "saves_total",
			Help:      "Preference writes by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)
)

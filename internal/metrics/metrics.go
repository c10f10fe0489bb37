package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	LogLinesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shoppulse",
			Name:      "log_lines_total",
			Help:      "Non-empty log lines seen by the parser, by format and result (matched|skipped).",
		},
		[]string{"format", "result"},
	)

	LogLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shoppulse",
			Name:      "log_loads_total",
			Help:      "Log files loaded, by format and outcome (ok|rejected|failed).",
		},
		[]string{"format", "outcome"},
	)

	AggregationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shoppulse",
			Name:      "aggregations_total",
			Help:      "Analytics bundles computed.",
		},
	)

	AggregationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "shoppulse",
			Name:      "aggregation_duration_seconds",
			Help:      "Time spent computing one analytics bundle.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shoppulse",
			Name:      "http_requests_total",
			Help:      "HTTP requests served, by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	RateLimitBlockTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shoppulse",
			Name:      "ratelimit_block_total",
			Help:      "Requests rejected by the per-IP rate limiter.",
		},
	)

	PanicsRecoveredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shoppulse",
			Name:      "http_panics_recovered_total",
			Help:      "Handler panics turned into 500 responses.",
		},
	)

	EventSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "shoppulse",
			Name:      "event_subscribers",
			Help:      "Open session event streams.",
		},
	)

	EventsDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "shoppulse",
			Name:      "events_dropped_total",
			Help:      "Session events not delivered because a subscriber was too slow.",
		},
	)

	SessionTransactions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "shoppulse",
			Name:      "session_transactions",
			Help:      "Transactions held by the currently loaded log (0 when none).",
		},
	)
)

var registerOnce sync.Once

// MustRegister registers the collectors with the default registry. Safe to call more than once.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			LogLinesTotal, LogLoadsTotal,
			AggregationsTotal, AggregationSeconds,
			HTTPRequestsTotal, RateLimitBlockTotal, PanicsRecoveredTotal,
			EventSubscribers, EventsDroppedTotal,
			SessionTransactions,
		)
	})
}

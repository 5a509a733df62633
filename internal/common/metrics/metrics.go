// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ChatRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_requests_total",
			Help: "Total number of chat requests by outcome",
		},
		[]string{"outcome"},
	)

	CompletionOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reading_completion_outcomes_total",
			Help: "Completion attempts by outcome (ok, timeout, failed, parse_failed, invalid)",
		},
		[]string{"outcome"},
	)

	CompletionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reading_completion_duration_seconds",
			Help:    "Duration of completion calls in seconds",
			Buckets: []float64{0.5, 1, 2, 4, 8, 12, 15, 20},
		},
		[]string{"outcome"},
	)

	TurnsForced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reading_turns_forced_total",
			Help: "Number of completions sent with the draw directive appended",
		},
	)

	CardsShown = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reading_cards_shown_total",
			Help: "Cards shown by canonical card id",
		},
		[]string{"card"},
	)

	LinkResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affiliate_link_resolutions_total",
			Help: "Affiliate link resolutions by source (lookup, fallback)",
		},
		[]string{"source"},
	)

	LinkCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affiliate_link_cache_lookups_total",
			Help: "Link cache lookups by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	AbsorbedErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "absorbed_errors_total",
			Help: "Errors converted to a fallback, by error code and recovery",
		},
		[]string{"error_code", "recovery"},
	)
)

// RecordAbsorbedError matches errors.Recorder.
func RecordAbsorbedError(code, recovery string) {
	AbsorbedErrors.WithLabelValues(code, recovery).Inc()
}

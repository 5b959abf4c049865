// Package observability provides Prometheus metrics and OpenTelemetry tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spincat_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "spincat_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// MemeSubmissions counts submission attempts by platform and outcome.
	MemeSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spincat_meme_submissions_total",
		Help: "Meme submissions by platform and outcome",
	}, []string{"platform", "outcome"})

	// MemeVotes counts accepted votes by direction.
	MemeVotes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spincat_meme_votes_total",
		Help: "Votes applied to memes by direction",
	}, []string{"type"})

	// MemeReviews counts moderation decisions by resulting status.
	MemeReviews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spincat_meme_reviews_total",
		Help: "Moderation decisions by resulting status",
	}, []string{"status"})

	// AdminLogins counts admin login attempts by outcome.
	AdminLogins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spincat_admin_logins_total",
		Help: "Admin login attempts by outcome",
	}, []string{"outcome"})

	// RateLimitRejections counts requests rejected by the per-route throttle.
	RateLimitRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spincat_rate_limit_rejections_total",
		Help: "Requests rejected by the per-route rate limiter",
	}, []string{"route"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values
const (
	OutcomeRecorded  = "recorded"
	OutcomeDuplicate = "duplicate"
	OutcomeRejected  = "rejected"
	OutcomeError     = "error"
	OutcomeQueued    = "queued"
	OutcomeDropped   = "dropped"
	OutcomePublished = "published"
	OutcomeFailed    = "failed"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventro_http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "eventro_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	CheckIns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventro_checkins_total",
		Help: "Check-in attempts by outcome.",
	}, []string{"outcome"})

	Distributions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventro_distributions_total",
		Help: "Item distribution attempts by outcome.",
	}, []string{"outcome"})

	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventro_notifications_total",
		Help: "Notification dispatch results by outcome.",
	}, []string{"outcome"})

	AIFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "eventro_ai_fallbacks_total",
		Help: "Edge function calls answered by the local fallback.",
	}, []string{"function"})
)

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

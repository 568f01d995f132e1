package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "angkasa"
)

var (
	requestDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

	// Alert Metrics
	AlertsShownTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_shown_total",
		Help:      "Count of alert dialogs presented, by kind.",
	}, []string{"kind"})

	AlertsResolvedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alerts_resolved_total",
		Help:      "Count of alert dialog resolutions, by kind and outcome.",
	}, []string{"kind", "outcome"})

	GuardedActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guarded_actions_total",
		Help:      "Count of confirmation-gated actions, by action and decision.",
	}, []string{"action", "decision"})

	// Store Metrics
	StoreSnapshotsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_snapshots_total",
		Help:      "Count of live snapshots fanned out to subscribers.",
	}, []string{"store", "scope"})

	SubscriptionsActive = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "subscriptions_active",
		Help:      "Number of live store subscriptions currently open.",
	}, []string{"store"})

	// Auth Metrics
	AuthAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Count of sign-in attempts, by result.",
	}, []string{"result"})

	VerificationMailsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verification_mails_total",
		Help:      "Count of verification emails requested, by result.",
	}, []string{"result"})

	// HTTP Metrics
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Time taken to serve an HTTP request.",
		Buckets:   requestDurationBuckets,
	}, []string{"method", "status"})
)

// Package metrics defines and registers all custom Prometheus metrics for the
// carjai client and its mock backend. It is the single source of truth for
// metric names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on package init
// via promauto; the mock backend exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "carjai"

// ── Backend client metrics ────────────────────────────────────────────────────

// BackendRequestsTotal counts outbound calls to the remote API.
// Labels:
//   - method: HTTP method
//   - kind: "ok", or the backend error kind (transport, decode, http, unknown)
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of backend API calls, by method and outcome kind.",
	},
	[]string{"method", "kind"},
)

// BackendRequestDuration measures round-trip time of backend calls.
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of backend API calls including body decoding.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method"},
)

// ── Session metrics ───────────────────────────────────────────────────────────

// SessionValidationsTotal counts committed validation outcomes.
// Labels:
//   - identity: "user" or "admin"
//   - result: "authenticated" or "anonymous"
var SessionValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_validations_total",
		Help:      "Total number of committed session validations, by identity and result.",
	},
	[]string{"identity", "result"},
)

// StaleCommitsDroppedTotal counts validation or signout results discarded
// because a newer operation had already committed.
var StaleCommitsDroppedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_commits_dropped_total",
		Help:      "Total number of out-of-order session results dropped.",
	},
	[]string{"identity"},
)

// ForeignSignoutsTotal counts mutual-logout attempts against the other identity.
// Labels:
//   - identity: the identity being signed out ("user" or "admin")
//   - result: "ok" or "failed"
var ForeignSignoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "foreign_signouts_total",
		Help:      "Total number of best-effort signouts of the opposite identity.",
	},
	[]string{"identity", "result"},
)

// ── Dispatcher metrics ────────────────────────────────────────────────────────

// TasksQueueDepth tracks the number of tasks waiting in each worker channel.
var TasksQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tasks_queue_depth",
		Help:      "Current number of tasks pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// TasksProcessedTotal counts background tasks by result ("ok" or "error").
var TasksProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_processed_total",
		Help:      "Total number of background tasks run by the dispatcher.",
	},
	[]string{"result"},
)

// ── Mock backend metrics ──────────────────────────────────────────────────────

// MockSigninsTotal counts sign-in attempts served by the mock backend.
// Labels:
//   - identity: "user" or "admin"
//   - result: "ok" or "rejected"
var MockSigninsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mock_signins_total",
		Help:      "Total number of sign-in attempts handled by the mock backend.",
	},
	[]string{"identity", "result"},
)

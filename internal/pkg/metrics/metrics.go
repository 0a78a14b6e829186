// Package metrics defines and registers all custom Prometheus metrics for the
// anti-fraud API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// init via promauto; the /metrics endpoint serves that registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "antifraud"

// ── Account metrics ───────────────────────────────────────────────────────────

// AccountsRegisteredTotal counts successful registrations.
// Label:
//   - role: the role granted at creation ("ADMINISTRATOR" or "MERCHANT")
var AccountsRegisteredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "accounts_registered_total",
		Help:      "Total number of accounts registered, by initial role.",
	},
	[]string{"role"},
)

// AccountChangesTotal counts role, lock and delete operations.
// Labels:
//   - action: "role", "lock", "unlock" or "delete"
//   - result: "ok" or a short failure reason (e.g. "not_found", "conflict")
var AccountChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_changes_total",
		Help:      "Total number of account state changes attempted, by action and result.",
	},
	[]string{"action", "result"},
)

// AuthFailuresTotal counts rejected authentication attempts.
// Label:
//   - reason: "invalid_credentials", "locked", "invalid_token"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of failed authentication attempts, by reason.",
	},
	[]string{"reason"},
)

// ── Transaction metrics ───────────────────────────────────────────────────────

// TransactionsClassifiedTotal counts classified transactions.
// Label:
//   - result: "ALLOWED", "MANUAL_PROCESSING" or "PROHIBITED"
var TransactionsClassifiedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_classified_total",
		Help:      "Total number of transactions classified, by risk tier.",
	},
	[]string{"result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEventsTotal counts audit events by outcome.
// Label:
//   - result: "recorded", "dropped", "failed", "publish_failed"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events handled, by result.",
	},
	[]string{"result"},
)

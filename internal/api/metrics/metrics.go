// Package metrics defines and registers all custom Prometheus metrics for
// the ledger API. It is the single source of truth for metric names, labels,
// and help strings; all metrics register with the default registry at import
// time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ledger"

// ── Transaction engine metrics ────────────────────────────────────────────────

// TransactionsCreatedTotal counts committed deposit/withdraw/transfer
// operations, labelled by transaction type.
var TransactionsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_created_total",
		Help:      "Total number of committed transactions, by type.",
	},
	[]string{"type"},
)

// TransactionsCancelledTotal counts committed cancellations, labelled by the
// type of the reversed transaction.
var TransactionsCancelledTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transactions_cancelled_total",
		Help:      "Total number of cancelled (reversed) transactions, by type.",
	},
	[]string{"type"},
)

// TransactionErrorsTotal counts engine operations that failed before commit.
// Label:
//   - reason: short failure class (e.g. "insufficient_funds", "not_found",
//     "blocked", "invalid_input", "storage_conflict", "internal")
var TransactionErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "transaction_errors_total",
		Help:      "Total number of failed engine operations, by reason.",
	},
	[]string{"reason"},
)

// TransactionDuration measures how long one engine operation takes from
// entry to commit, labelled by transaction type.
var TransactionDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "transaction_duration_seconds",
		Help:      "Duration of committed engine operations.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"type"},
)

// ── Account cache metrics ─────────────────────────────────────────────────────

// AccountCacheTotal counts account view cache lookups.
// Label:
//   - result: "hit" or "miss"
var AccountCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_cache_total",
		Help:      "Total number of account cache lookups, by result (hit/miss).",
	},
	[]string{"result"},
)

// ── Audit dispatcher metrics ──────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit entries waiting in each worker
// channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// Package metrics exposes Prometheus counters for the points ledger and the
// HTTP edge.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "afresh"

// ─── Ledger ─────────────────────────────────────────────────────────────────

// StepsRecorded counts step upserts.
var StepsRecorded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "steps_recorded_total",
	Help:      "Step entries written (inserts and overwrites).",
})

// ClaimOutcomes counts claim attempts by terminal outcome: committed,
// not_found, insufficient_points, conflict, error.
var ClaimOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "claims_total",
	Help:      "Reward claim attempts by outcome.",
}, []string{"outcome"})

// ClaimRetries counts claims retried after a store conflict.
var ClaimRetries = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "claim_retries_total",
	Help:      "Claims retried once after losing the ledger write lock.",
})

// NegativeBalance counts balances that had to be clamped to zero. Any
// increase means the ledger tables are corrupt.
var NegativeBalance = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "negative_balance_total",
	Help:      "Balance reads where fulfilled redemptions exceeded earned points.",
})

// ─── HTTP ───────────────────────────────────────────────────────────────────

// RequestDuration tracks API latency by route pattern and status class.
var RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "request_duration_seconds",
	Help:      "HTTP request duration in seconds.",
	Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
}, []string{"method", "status"})

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

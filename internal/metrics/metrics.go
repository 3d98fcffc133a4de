// Package metrics exposes Prometheus counters for the assistant's hot paths.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	turns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bankassist_turns_total",
			Help: "Conversation turns processed, by resolved intent and persona.",
		},
		[]string{"intent", "persona"},
	)
	oracleCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bankassist_oracle_calls_total",
			Help: "Language oracle calls, by outcome.",
		},
		[]string{"outcome"},
	)
	stateParseFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bankassist_state_parse_failures_total",
			Help: "Oracle replies whose STATE blob failed to parse as JSON.",
		},
	)
)

func init() {
	prometheus.MustRegister(turns, oracleCalls, stateParseFailures)
}

// IncTurn records one processed conversation turn.
func IncTurn(intent, persona string) {
	turns.WithLabelValues(intent, persona).Inc()
}

// IncOracleCall records one oracle call with outcome "ok" or "error".
func IncOracleCall(outcome string) {
	oracleCalls.WithLabelValues(outcome).Inc()
}

// IncStateParseFailure records one recovered state-blob parse failure.
func IncStateParseFailure() {
	stateParseFailures.Inc()
}

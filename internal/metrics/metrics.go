// Package metrics exposes Prometheus counters for the sync layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GatewayCalls counts remote store calls by entity, operation and
	// outcome ("ok" or "error").
	GatewayCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tripmate",
		Name:      "gateway_calls_total",
		Help:      "Remote store calls by entity, operation and outcome.",
	}, []string{"entity", "op", "status"})

	// Rollbacks counts optimistic mutations that were rolled back after
	// the remote store rejected the write.
	Rollbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tripmate",
		Name:      "optimistic_rollbacks_total",
		Help:      "Optimistic mutations rolled back by action.",
	}, []string{"action"})

	// Uploads counts binary uploads by outcome.
	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tripmate",
		Name:      "uploads_total",
		Help:      "Binary uploads by outcome.",
	}, []string{"status"})
)

// ObserveGatewayCall records one gateway call outcome.
func ObserveGatewayCall(entity, op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	GatewayCalls.WithLabelValues(entity, op, status).Inc()
}

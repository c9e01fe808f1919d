package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ServiceCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docdesk", Name: "service_calls_total", Help: "Service operations by entity, operation and outcome."},
		[]string{"entity", "op", "outcome"},
	)
	SimulatedLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Namespace: "docdesk", Name: "simulated_latency_seconds", Help: "Artificial delay applied per operation.",
			Buckets: []float64{0, 0.1, 0.3, 0.5, 0.7, 1, 2}},
		[]string{"op"},
	)
	IngestionTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docdesk", Name: "ingestion_transitions_total", Help: "Ingestion state transitions."},
		[]string{"from", "to"},
	)
	PollFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docdesk", Name: "poll_fetches_total", Help: "Ingestion list re-fetches issued by the poller."},
		[]string{"outcome"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docdesk", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "docdesk", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(ServiceCalls, SimulatedLatency, IngestionTransitions, PollFetches, RateLimitAllowed, RateLimitRejected)
}

// Outcome returns the outcome label for an operation result.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

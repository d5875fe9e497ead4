package metrics

import "github.com/prometheus/client_golang/prometheus"

// Namespace prefixes every jobmatch metric.
const Namespace = "jobmatch"

// LLM Prometheus metrics.
var (
	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "llm_requests_total",
			Help:      "Total number of LLM completion requests",
		},
		[]string{"model", "status"}, // status: success / routing_error / error / empty
	)

	LLMRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "llm_request_duration_seconds",
			Help:      "LLM completion request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 60},
		},
		[]string{"model"},
	)

	LLMTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "llm_tokens_total",
			Help:      "Total LLM tokens consumed",
		},
		[]string{"model", "type"}, // prompt / completion / total
	)

	LLMFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "llm_fallbacks_total",
			Help:      "Primary model routing failures answered by the fallback model",
		},
	)

	LLMRepairsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "llm_repairs_total",
			Help:      "Malformed verdict repair attempts",
		},
		[]string{"result"}, // repaired / failed
	)

	LLMCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "llm_cache_total",
			Help:      "Verdict cache hits and misses",
		},
		[]string{"result"}, // hit / miss
	)
)

var llmMetricsRegistered bool

// RegisterLLMMetrics registers Prometheus LLM metrics. Must be called once from main.
func RegisterLLMMetrics() {
	if llmMetricsRegistered {
		return
	}
	prometheus.MustRegister(LLMRequestsTotal)
	prometheus.MustRegister(LLMRequestDuration)
	prometheus.MustRegister(LLMTokensTotal)
	prometheus.MustRegister(LLMFallbacksTotal)
	prometheus.MustRegister(LLMRepairsTotal)
	prometheus.MustRegister(LLMCacheTotal)
	llmMetricsRegistered = true
}

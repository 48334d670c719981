package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		aiTokensIn,
		aiTokensOut,
		aiCostMicro,
		aiCallsLatencyMs,
	)
}

var (
	aiTokensIn = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_in",
			Help: "Sum of prompt (input) tokens per provider.",
		},
		[]string{"provider"},
	)

	aiTokensOut = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_out",
			Help: "Sum of completion (output) tokens per provider.",
		},
		[]string{"provider"},
	)

	aiCostMicro = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_cost_micro",
			Help: "Total micro-dollars spent per provider.",
		},
		[]string{"provider"},
	)

	aiCallsLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_calls_latency_ms",
			Help:    "AI call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"provider", "success"},
	)
)

// ObserveScanCall records token, cost and latency accounting for one
// metered AI analysis call.
func ObserveScanCall(provider string, tokensIn, tokensOut int, costMicro int64, latencyMs int, success bool) {
	p := norm(provider)
	aiTokensIn.WithLabelValues(p).Add(float64(tokensIn))
	aiTokensOut.WithLabelValues(p).Add(float64(tokensOut))
	aiCostMicro.WithLabelValues(p).Add(float64(costMicro))
	aiCallsLatencyMs.WithLabelValues(p, strconv.FormatBool(success)).Observe(float64(latencyMs))
}

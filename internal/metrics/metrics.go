// Package metrics expone contadores Prometheus del servicio.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scent_http_requests_total",
			Help: "Total HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scent_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		},
		[]string{"method", "route"},
	)

	SearchBranchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scent_search_branches_total",
			Help: "Search branches executed during analysis, by outcome",
		},
		[]string{"branch", "outcome"}, // outcome: ok, degraded
	)

	SearchBranchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scent_search_branch_duration_seconds",
			Help:    "Search branch latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"branch"},
	)

	LLMCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scent_llm_calls_total",
			Help: "LLM calls by purpose and result",
		},
		[]string{"purpose", "result"}, // purpose: analysis, reason
	)

	LLMCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scent_llm_call_duration_seconds",
			Help:    "LLM call latency in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
		},
		[]string{"purpose"},
	)

	AnalysisResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scent_analysis_results_total",
			Help: "Analysis requests by terminal state",
		},
		[]string{"result"}, // success, unparseable, invalid, llm_error, not_configured
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scent_rate_limited_total",
			Help: "Requests rejected by the analyze rate limiter",
		},
	)
)

// RecordHTTPRequest registra una request HTTP.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordBranch registra el resultado de una rama de búsqueda.
func RecordBranch(branch string, ok bool, duration time.Duration) {
	outcome := "ok"
	if !ok {
		outcome = "degraded"
	}
	SearchBranchesTotal.WithLabelValues(branch, outcome).Inc()
	SearchBranchDuration.WithLabelValues(branch).Observe(duration.Seconds())
}

func RecordLLMCall(purpose string, duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	LLMCallsTotal.WithLabelValues(purpose, result).Inc()
	LLMCallDuration.WithLabelValues(purpose).Observe(duration.Seconds())
}

func RecordAnalysisResult(result string) {
	AnalysisResultsTotal.WithLabelValues(result).Inc()
}


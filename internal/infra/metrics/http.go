package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(httpRequestsTotal, rateLimitRejections) }

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by route and status class.",
		},
		[]string{"route", "status"},
	)

	rateLimitRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "http_rate_limit_rejections_total",
			Help: "Requests rejected by the per-IP rate limiter.",
		},
	)
)

func IncHTTPRequest(route, status string) {
	httpRequestsTotal.WithLabelValues(route, norm(status)).Inc()
}

func IncRateLimited() { rateLimitRejections.Inc() }

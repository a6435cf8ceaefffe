package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AssignmentsTotal    = promauto.NewCounter(prometheus.CounterOpts{Namespace: "guriri_dispatch", Name: "assignments_total", Help: "Orders assigned to a courier"})
	AssignmentsUnfilled = promauto.NewCounter(prometheus.CounterOpts{Namespace: "guriri_dispatch", Name: "assignments_unfilled_total", Help: "Assignment passes that found no eligible courier"})
	LocationPings       = promauto.NewCounter(prometheus.CounterOpts{Namespace: "guriri_dispatch", Name: "location_pings_total", Help: "Courier location updates received"})
	DynamicFees         = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "guriri_dispatch",
		Name:      "dynamic_fee_brl",
		Help:      "Suggested courier fees in BRL",
		Buckets:   prometheus.LinearBuckets(5, 5, 8),
	})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "guriri_dispatch", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "guriri_dispatch",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

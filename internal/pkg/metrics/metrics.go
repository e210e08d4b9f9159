// Package metrics holds the Prometheus collectors the service exports.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// HTTPRequestsTotal counts requests by route, method and response status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration measures request latency by route and method.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// TransitionsTotal counts committed order status transitions by edge.
	TransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "order_status_transitions_total",
			Help: "Total number of committed order status transitions",
		},
		[]string{"from", "to"},
	)

	// OrdersByState is the last observed number of orders per state,
	// refreshed by the stats snapshot job.
	OrdersByState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "orders_by_state",
			Help: "Number of orders currently in each lifecycle state",
		},
		[]string{"estado"},
	)
)

// Register registers all collectors on the default registry.
func Register() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(TransitionsTotal)
	prometheus.MustRegister(OrdersByState)
}

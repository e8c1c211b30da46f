// Package metrics holds the prometheus collectors shared by the services.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry is the registry every collector of this module is registered on.
// It is served on /metrics.
var Registry = prometheus.NewRegistry()

var (
	// HTTPRequests counts handled requests by service, route and status code.
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Number of HTTP requests handled.",
	}, []string{"service", "route", "code"})

	// HTTPDuration observes request latency by service and route.
	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"service", "route"})

	// CacheLookups counts cache hits and misses by cache name.
	CacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Number of service cache lookups.",
	}, []string{"cache", "result"})

	// Notifications counts notification dispatches by result.
	Notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_total",
		Help: "Number of budget notifications dispatched.",
	}, []string{"result"})

	// BudgetExceeded counts expense logs that pushed a category over its cap.
	BudgetExceeded = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "budget_exceeded_total",
		Help: "Number of times a category total exceeded its budget.",
	})

	// EventsPublished counts published events by subject and result.
	EventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "events_published_total",
		Help: "Number of domain events published.",
	}, []string{"subject", "result"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		HTTPRequests,
		HTTPDuration,
		CacheLookups,
		Notifications,
		BudgetExceeded,
		EventsPublished,
	)
}

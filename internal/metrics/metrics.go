package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "innkeep",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint and status code.",
		},
		[]string{"endpoint", "code"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "innkeep",
			Name:      "bookings_created_total",
			Help:      "Successfully created bookings.",
		},
	)

	bookingsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "innkeep",
			Name:      "bookings_cancelled_total",
			Help:      "Cancelled bookings.",
		},
	)

	bookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "innkeep",
			Name:      "booking_conflicts_total",
			Help:      "Reservations rejected because no units were left.",
		},
	)

	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "innkeep",
			Name:      "cache_hits_total",
			Help:      "Cache lookups by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			httpRequests,
			bookingsCreated,
			bookingsCancelled,
			bookingConflicts,
			cacheHits,
		)
	})
}

// IncHTTP increments the request counter for an endpoint and status code.
func IncHTTP(endpoint, code string) {
	httpRequests.WithLabelValues(endpoint, code).Inc()
}

func IncBookingCreated()   { bookingsCreated.Inc() }
func IncBookingCancelled() { bookingsCancelled.Inc() }
func IncBookingConflict()  { bookingConflicts.Inc() }

// IncCache records a cache lookup outcome: "hit" or "miss".
func IncCache(outcome string) {
	cacheHits.WithLabelValues(outcome).Inc()
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	SubmissionsTotal *prometheus.CounterVec

	ValidationCacheHits   *prometheus.CounterVec
	ValidationCacheMisses *prometheus.CounterVec

	EventsPublished    prometheus.Counter
	EventsDeadLettered prometheus.Counter
	EventsDropped      prometheus.Counter
}

// New creates and registers all metrics against the given registerer. Tests
// pass a fresh prometheus.NewRegistry to avoid cross-test registration
// conflicts.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SubmissionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rating_service_submissions_total",
			Help: "Rating submissions by outcome",
		}, []string{"outcome"}),
		ValidationCacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rating_service_validation_cache_hits_total",
			Help: "Validation cache hits by entity type",
		}, []string{"entity"}),
		ValidationCacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rating_service_validation_cache_misses_total",
			Help: "Validation cache misses by entity type",
		}, []string{"entity"}),
		EventsPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "rating_service_events_published_total",
			Help: "Rating events delivered to the primary topic",
		}),
		EventsDeadLettered: factory.NewCounter(prometheus.CounterOpts{
			Name: "rating_service_events_dead_lettered_total",
			Help: "Rating events diverted to the dead-letter topic",
		}),
		EventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "rating_service_events_dropped_total",
			Help: "Rating events lost after both publish attempts failed",
		}),
	}
}

package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis command failures by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnect_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// GithubLookups counts external repository lookups by outcome
	// (ok, not_found, upstream_error).
	GithubLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devconnect_github_lookups_total",
		Help: "Total number of GitHub repository lookups by outcome",
	}, []string{"outcome"})

	// AuthFailures counts rejected requests at the session resolver. The label
	// stays coarse on purpose: the HTTP response never reveals the cause, and
	// neither should a public metrics endpoint per route.
	AuthFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "devconnect_auth_failures_total",
		Help: "Total number of requests rejected by the session resolver",
	})

	// ProfileUpsertRetries counts optimistic-lock retries during profile writes.
	ProfileUpsertRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "devconnect_profile_upsert_retries_total",
		Help: "Total number of version-conflict retries during profile writes",
	})

	// DBQueryDuration observes database query latency in seconds.
	DBQueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "devconnect_db_query_duration_seconds",
		Help:    "Database query duration in seconds",
		Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	})
)

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the Fiber handler that records HTTP metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}

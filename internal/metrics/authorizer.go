package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	authorizerRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hackchain",
		Subsystem: "authorizer",
		Name:      "runs_total",
		Help:      "Count of script authorization runs by verdict.",
	}, []string{"verdict"})

	authorizerRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hackchain",
		Subsystem: "authorizer",
		Name:      "run_duration_seconds",
		Help:      "Duration of script authorization runs, queueing included.",
		Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
	}, []string{"verdict"})

	authorizerWorkerRestartsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hackchain",
		Subsystem: "authorizer",
		Name:      "worker_restarts_total",
		Help:      "Count of crashed authorization workers that were replaced.",
	})
)

// Authorizer tracks metrics for the authorization worker pool.
type Authorizer struct{}

// NewAuthorizer constructs an Authorizer metrics collector.
func NewAuthorizer() *Authorizer {
	return &Authorizer{}
}

// ObserveRun records a finished run. An error replaces the verdict label.
func (m Authorizer) ObserveRun(verdict string, err error, started time.Time) {
	if err != nil {
		verdict = "error"
	}
	if verdict == "" {
		verdict = "unknown"
	}
	authorizerRunsTotal.WithLabelValues(verdict).Inc()
	authorizerRunDuration.WithLabelValues(verdict).Observe(time.Since(started).Seconds())
}

// ObserveRestart counts a replaced worker.
func (m Authorizer) ObserveRestart() {
	authorizerWorkerRestartsTotal.Inc()
}

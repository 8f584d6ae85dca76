package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	chainRepositoryOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hackchain",
		Subsystem: "chain_repository",
		Name:      "operations_total",
		Help:      "Count of ledger store operations.",
	}, []string{"operation", "status"})
	chainRepositoryOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hackchain",
		Subsystem: "chain_repository",
		Name:      "operation_duration_seconds",
		Help:      "Duration of ledger store operations.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"operation", "status"})
)

// ChainRepository tracks metrics for ledger store operations.
type ChainRepository struct{}

// NewChainRepository creates a ChainRepository metrics collector.
func NewChainRepository() *ChainRepository {
	return &ChainRepository{}
}

// Observe records duration and status of a ledger store operation.
func (m ChainRepository) Observe(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	chainRepositoryOperationsTotal.WithLabelValues(operation, status).Inc()
	chainRepositoryOperationDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}

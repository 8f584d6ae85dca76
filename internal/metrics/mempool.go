package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mempoolAcceptTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hackchain",
		Subsystem: "mempool",
		Name:      "accept_total",
		Help:      "Count of transactions offered to the pool.",
	}, []string{"status"})

	mempoolAcceptDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hackchain",
		Subsystem: "mempool",
		Name:      "accept_duration_seconds",
		Help:      "Duration of verifying and inserting a transaction.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	mempoolEvictedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hackchain",
		Subsystem: "mempool",
		Name:      "evicted_total",
		Help:      "Count of transactions evicted by higher fee ones.",
	})

	mempoolPending = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "hackchain",
		Subsystem: "mempool",
		Name:      "pending",
		Help:      "Number of transactions waiting to be minted.",
	})

	mempoolMintTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hackchain",
		Subsystem: "mempool",
		Name:      "mint_total",
		Help:      "Count of mint attempts.",
	}, []string{"status"})

	mempoolMintDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hackchain",
		Subsystem: "mempool",
		Name:      "mint_duration_seconds",
		Help:      "Duration of building and committing a block.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})

	mempoolMintSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hackchain",
		Subsystem: "mempool",
		Name:      "mint_size",
		Help:      "Number of pool transactions per minted block, coinbase excluded.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 13),
	})
)

// Mempool tracks metrics for the transaction pool and minting.
type Mempool struct{}

// NewMempool constructs a Mempool metrics collector.
func NewMempool() *Mempool {
	return &Mempool{}
}

// ObserveAccept records the outcome of offering a transaction.
func (m Mempool) ObserveAccept(err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	mempoolAcceptTotal.WithLabelValues(status).Inc()
	mempoolAcceptDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}

// ObserveEvict counts an eviction.
func (m Mempool) ObserveEvict() {
	mempoolEvictedTotal.Inc()
}

// SetPending publishes the pool size.
func (m Mempool) SetPending(n int) {
	mempoolPending.Set(float64(n))
}

// ObserveMint records a mint attempt with the number of drained transactions.
func (m Mempool) ObserveMint(err error, txs int, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	mempoolMintTotal.WithLabelValues(status).Inc()
	mempoolMintDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
	mempoolMintSize.Observe(float64(txs))
}

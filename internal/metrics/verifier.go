package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	verifierChecksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hackchain",
		Subsystem: "verifier",
		Name:      "checks_total",
		Help:      "Count of entity verifications.",
	}, []string{"entity", "status"})

	verifierCheckDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hackchain",
		Subsystem: "verifier",
		Name:      "check_duration_seconds",
		Help:      "Duration of entity verifications.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"entity", "status"})
)

// Verifier tracks metrics for transaction and block verification.
type Verifier struct{}

// NewVerifier constructs a Verifier metrics collector.
func NewVerifier() *Verifier {
	return &Verifier{}
}

// ObserveVerifyTX records a transaction verification.
func (m Verifier) ObserveVerifyTX(err error, started time.Time) {
	observeVerify("tx", err, started)
}

// ObserveVerifyBlock records a block verification.
func (m Verifier) ObserveVerifyBlock(err error, started time.Time) {
	observeVerify("block", err, started)
}

func observeVerify(entity string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	verifierChecksTotal.WithLabelValues(entity, status).Inc()
	verifierCheckDuration.WithLabelValues(entity, status).Observe(time.Since(started).Seconds())
}

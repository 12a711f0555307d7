package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records outcomes for the checkout and merge flows.
type CheckoutMetrics struct {
	finalizeDuration *prometheus.HistogramVec
	finalizeAttempts *prometheus.CounterVec
	finalizeRetries  prometheus.Counter
	replayHits       prometheus.Counter
	mergeOutcomes    *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	finalizeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_finalize_duration_seconds",
		Help:    "Duration of checkout finalize attempts in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	finalizeAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_finalize_attempts",
		Help: "Checkout finalize attempts by outcome.",
	}, []string{"outcome"})
	finalizeRetries := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_finalize_retries",
		Help: "Automatic finalize retries under an unchanged idempotency token.",
	})
	replayHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_idempotent_replays",
		Help: "Finalize requests answered from the stored idempotent response.",
	})
	mergeOutcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_merge_outcomes",
		Help: "Guest cart merge runs by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(finalizeDuration, finalizeAttempts, finalizeRetries, replayHits, mergeOutcomes)
	return &CheckoutMetrics{
		finalizeDuration: finalizeDuration,
		finalizeAttempts: finalizeAttempts,
		finalizeRetries:  finalizeRetries,
		replayHits:       replayHits,
		mergeOutcomes:    mergeOutcomes,
	}
}

// ObserveFinalize records one resolved finalize call.
func (c *CheckoutMetrics) ObserveFinalize(outcome string, duration time.Duration) {
	if c == nil || c.finalizeDuration == nil {
		return
	}
	label := normalizeLabel(outcome)
	c.finalizeDuration.WithLabelValues(label).Observe(duration.Seconds())
	c.finalizeAttempts.WithLabelValues(label).Inc()
}

// IncRetry counts one automatic retry within a finalize attempt.
func (c *CheckoutMetrics) IncRetry() {
	if c == nil || c.finalizeRetries == nil {
		return
	}
	c.finalizeRetries.Inc()
}

// IncReplay counts a finalize answered from the idempotency store.
func (c *CheckoutMetrics) IncReplay() {
	if c == nil || c.replayHits == nil {
		return
	}
	c.replayHits.Inc()
}

// IncMerge counts one merge coordinator run by outcome.
func (c *CheckoutMetrics) IncMerge(outcome string) {
	if c == nil || c.mergeOutcomes == nil {
		return
	}
	c.mergeOutcomes.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// CartMetrics counts cart store activity.
type CartMetrics struct {
	operations     *prometheus.CounterVec
	decodeFailures prometheus.Counter
	transfers      *prometheus.CounterVec
}

// NewCartMetrics registers the cart metrics on the provided registerer. A nil
// registerer yields a no-op recorder.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Cart store operations by operation and result.",
	}, []string{"op", "result"})
	decodeFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cart_decode_failures_total",
		Help: "Persisted carts that could not be decoded and were treated as empty.",
	})
	transfers := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_transfers_total",
		Help: "Guest to user cart transfers by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(operations, decodeFailures, transfers)
	return &CartMetrics{
		operations:     operations,
		decodeFailures: decodeFailures,
		transfers:      transfers,
	}
}

// ObserveOperation counts one cart operation. A nil err is recorded as ok.
func (c *CartMetrics) ObserveOperation(op string, err error) {
	if c == nil || c.operations == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	c.operations.WithLabelValues(normalizeLabel(op), result).Inc()
}

// IncDecodeFailure counts a corrupt persisted cart.
func (c *CartMetrics) IncDecodeFailure() {
	if c == nil || c.decodeFailures == nil {
		return
	}
	c.decodeFailures.Inc()
}

// IncTransfer counts a transfer attempt ("moved", "skipped" or "error").
func (c *CartMetrics) IncTransfer(outcome string) {
	if c == nil || c.transfers == nil {
		return
	}
	c.transfers.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records cart and order placement outcomes.
type CheckoutMetrics struct {
	ordersPlaced  *prometheus.CounterVec
	placeDuration prometheus.Histogram
	couponApplied *prometheus.CounterVec
	statusChanges *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	ordersPlaced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Order placement attempts by outcome.",
	}, []string{"outcome"})
	placeDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_placement_duration_seconds",
		Help:    "Duration of order placement in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	couponApplied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "coupon_applications_total",
		Help: "Coupon apply attempts by outcome.",
	}, []string{"outcome"})
	statusChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_changes_total",
		Help: "Order status updates by target status.",
	}, []string{"status"})
	reg.MustRegister(ordersPlaced, placeDuration, couponApplied, statusChanges)
	return &CheckoutMetrics{
		ordersPlaced:  ordersPlaced,
		placeDuration: placeDuration,
		couponApplied: couponApplied,
		statusChanges: statusChanges,
	}
}

// ObservePlacement records one placement attempt.
func (c *CheckoutMetrics) ObservePlacement(outcome string, duration time.Duration) {
	if c == nil || c.ordersPlaced == nil {
		return
	}
	c.ordersPlaced.WithLabelValues(normalizeLabel(outcome)).Inc()
	c.placeDuration.Observe(duration.Seconds())
}

// IncCouponApplication counts one coupon apply attempt.
func (c *CheckoutMetrics) IncCouponApplication(outcome string) {
	if c == nil || c.couponApplied == nil {
		return
	}
	c.couponApplied.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncStatusChange counts one order status update.
func (c *CheckoutMetrics) IncStatusChange(status string) {
	if c == nil || c.statusChanges == nil {
		return
	}
	c.statusChanges.WithLabelValues(normalizeLabel(status)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

// Package metrics defines the Prometheus collectors for checkout and loyalty.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the business counters recorded by the services.
type Metrics struct {
	OrdersCreated     prometheus.Counter
	Revenue           prometheus.Counter
	OrderTotal        prometheus.Histogram
	PointsAwarded     prometheus.Counter
	TierPromotions    *prometheus.CounterVec
	CouponRedemptions *prometheus.CounterVec
	OrderStatus       *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sweetspro",
			Name:      "orders_created_total",
			Help:      "Orders created at checkout.",
		}),
		Revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sweetspro",
			Name:      "revenue_total",
			Help:      "Sum of order totals in currency units.",
		}),
		OrderTotal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "sweetspro",
			Name:      "order_total",
			Help:      "Distribution of order totals in currency units.",
			Buckets:   []float64{1000, 2500, 5000, 10000, 20000, 50000},
		}),
		PointsAwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sweetspro",
			Name:      "loyalty_points_awarded_total",
			Help:      "Loyalty points credited to accounts.",
		}),
		TierPromotions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sweetspro",
			Name:      "loyalty_tier_promotions_total",
			Help:      "Membership promotions by target tier.",
		}, []string{"tier"}),
		CouponRedemptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sweetspro",
			Name:      "coupon_redemptions_total",
			Help:      "Coupons redeemed at checkout by discount type.",
		}, []string{"discount_type"}),
		OrderStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sweetspro",
			Name:      "order_status_changes_total",
			Help:      "Order status transitions by target status.",
		}, []string{"status"}),
	}
	reg.MustRegister(
		m.OrdersCreated,
		m.Revenue,
		m.OrderTotal,
		m.PointsAwarded,
		m.TierPromotions,
		m.CouponRedemptions,
		m.OrderStatus,
	)
	return m
}

// NewNop returns collectors registered with a throwaway registry, for tests
// and tools that do not expose /metrics.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

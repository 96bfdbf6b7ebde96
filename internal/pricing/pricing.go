// Package pricing derives delivery fees, coupon discounts and order totals
// from a cart subtotal. Every function is pure; results are recomputed on
// each call.
package pricing

import (
	"sweetspro/internal/models"
)

// Defaults used when a Calculator is built from an empty configuration.
const (
	DefaultFreeShippingThreshold int64 = 10000
	DefaultFlatDeliveryFee       int64 = 800
)

// Calculator computes delivery fees and totals.
type Calculator struct {
	FreeShippingThreshold int64
	FlatDeliveryFee       int64
}

// NewCalculator returns a Calculator. Negative arguments fall back to the defaults.
func NewCalculator(freeShippingThreshold, flatDeliveryFee int64) *Calculator {
	if freeShippingThreshold < 0 {
		freeShippingThreshold = DefaultFreeShippingThreshold
	}
	if flatDeliveryFee < 0 {
		flatDeliveryFee = DefaultFlatDeliveryFee
	}
	return &Calculator{
		FreeShippingThreshold: freeShippingThreshold,
		FlatDeliveryFee:       flatDeliveryFee,
	}
}

// DeliveryFee is zero when subtotal reaches the free shipping threshold,
// otherwise the flat fee.
func (c *Calculator) DeliveryFee(subtotal int64) int64 {
	if subtotal >= c.FreeShippingThreshold {
		return 0
	}
	return c.FlatDeliveryFee
}

// Total is subtotal plus delivery fee.
func (c *Calculator) Total(subtotal int64) int64 {
	return subtotal + c.DeliveryFee(subtotal)
}

// Quote is the price breakdown shown at checkout.
type Quote struct {
	Subtotal    int64  `json:"subtotal"`
	Discount    int64  `json:"discount"`
	CouponCode  string `json:"coupon_code,omitempty"`
	DeliveryFee int64  `json:"delivery_fee"`
	Total       int64  `json:"total"`
}

// Quote prices subtotal with an optional coupon. The delivery fee is taken
// from the undiscounted subtotal. When the coupon is ineligible the quote is
// still returned, without discount, together with ErrIneligibleCoupon.
func (c *Calculator) Quote(subtotal int64, coupon *models.Coupon) (Quote, error) {
	q := Quote{
		Subtotal:    subtotal,
		DeliveryFee: c.DeliveryFee(subtotal),
	}
	var err error
	if coupon != nil {
		var d Discount
		d, err = ApplyDiscount(subtotal, *coupon)
		if err == nil {
			q.Discount = d.Amount
			q.CouponCode = coupon.Code
		}
	}
	q.Total = q.Subtotal - q.Discount + q.DeliveryFee
	return q, err
}

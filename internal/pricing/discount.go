package pricing

import (
	"fmt"

	"sweetspro/internal/models"
)

// Discount is the outcome of applying a coupon to a subtotal.
type Discount struct {
	Amount int64 `json:"amount"`
	Final  int64 `json:"final"`
}

// ApplyDiscount computes the coupon discount for subtotal. A subtotal below
// the coupon's minimum purchase yields a zero discount and ErrIneligibleCoupon.
// Percentage discounts round down to a whole currency unit; fixed discounts
// never exceed the subtotal.
func ApplyDiscount(subtotal int64, coupon models.Coupon) (Discount, error) {
	if subtotal < coupon.MinPurchase {
		return Discount{Final: subtotal}, fmt.Errorf("%w: subtotal %d, minimum %d",
			models.ErrIneligibleCoupon, subtotal, coupon.MinPurchase)
	}

	var amount int64
	switch coupon.DiscountType {
	case models.DiscountPercentage:
		amount = subtotal * coupon.DiscountValue / 100
	case models.DiscountFixed:
		amount = min(coupon.DiscountValue, subtotal)
	default:
		return Discount{Final: subtotal}, fmt.Errorf("%w: unknown discount type %q",
			models.ErrInvalidDiscount, coupon.DiscountType)
	}
	amount = max(0, min(amount, subtotal))
	return Discount{Amount: amount, Final: subtotal - amount}, nil
}

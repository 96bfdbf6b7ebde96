package pricing

import (
	"testing"

	"sweetspro/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculator_DeliveryFee(t *testing.T) {
	c := NewCalculator(DefaultFreeShippingThreshold, DefaultFlatDeliveryFee)

	tests := []struct {
		subtotal int64
		fee      int64
		total    int64
	}{
		{0, 800, 800},
		{9999, 800, 10799},
		{10000, 0, 10000},
		{25000, 0, 25000},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.fee, c.DeliveryFee(tt.subtotal), "fee for %d", tt.subtotal)
		assert.Equal(t, tt.total, c.Total(tt.subtotal), "total for %d", tt.subtotal)
	}
}

func TestNewCalculator_NegativeFallsBack(t *testing.T) {
	c := NewCalculator(-1, -1)
	assert.Equal(t, DefaultFreeShippingThreshold, c.FreeShippingThreshold)
	assert.Equal(t, DefaultFlatDeliveryFee, c.FlatDeliveryFee)

	custom := NewCalculator(5000, 500)
	assert.Equal(t, int64(500), custom.DeliveryFee(4999))
	assert.Zero(t, custom.DeliveryFee(5000))
}

func TestApplyDiscount(t *testing.T) {
	tests := []struct {
		name     string
		subtotal int64
		coupon   models.Coupon
		amount   int64
		final    int64
		err      error
	}{
		{
			name:     "percentage",
			subtotal: 10000,
			coupon:   models.Coupon{DiscountType: models.DiscountPercentage, DiscountValue: 10},
			amount:   1000, final: 9000,
		},
		{
			name:     "percentage rounds down",
			subtotal: 1555,
			coupon:   models.Coupon{DiscountType: models.DiscountPercentage, DiscountValue: 15},
			amount:   233, final: 1322,
		},
		{
			name:     "fixed",
			subtotal: 6000,
			coupon:   models.Coupon{DiscountType: models.DiscountFixed, DiscountValue: 500, MinPurchase: 5000},
			amount:   500, final: 5500,
		},
		{
			name:     "fixed capped at subtotal",
			subtotal: 300,
			coupon:   models.Coupon{DiscountType: models.DiscountFixed, DiscountValue: 500},
			amount:   300, final: 0,
		},
		{
			name:     "exactly at minimum",
			subtotal: 3000,
			coupon:   models.Coupon{DiscountType: models.DiscountPercentage, DiscountValue: 10, MinPurchase: 3000},
			amount:   300, final: 2700,
		},
		{
			name:     "below minimum",
			subtotal: 4000,
			coupon:   models.Coupon{DiscountType: models.DiscountFixed, DiscountValue: 500, MinPurchase: 5000},
			amount:   0, final: 4000,
			err:      models.ErrIneligibleCoupon,
		},
		{
			name:     "unknown type",
			subtotal: 4000,
			coupon:   models.Coupon{DiscountType: "bogo", DiscountValue: 1},
			amount:   0, final: 4000,
			err:      models.ErrInvalidDiscount,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ApplyDiscount(tt.subtotal, tt.coupon)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.amount, d.Amount)
			assert.Equal(t, tt.final, d.Final)
		})
	}
}

func TestCalculator_Quote(t *testing.T) {
	c := NewCalculator(DefaultFreeShippingThreshold, DefaultFlatDeliveryFee)

	q, err := c.Quote(9150, nil)
	require.NoError(t, err)
	assert.Equal(t, Quote{Subtotal: 9150, DeliveryFee: 800, Total: 9950}, q)

	// The fee follows the subtotal before discount.
	welcome := &models.Coupon{Code: "WELCOME10", DiscountType: models.DiscountPercentage, DiscountValue: 10, MinPurchase: 3000}
	q, err = c.Quote(10000, welcome)
	require.NoError(t, err)
	assert.Equal(t, Quote{Subtotal: 10000, Discount: 1000, CouponCode: "WELCOME10", DeliveryFee: 0, Total: 9000}, q)

	q, err = c.Quote(2000, welcome)
	assert.ErrorIs(t, err, models.ErrIneligibleCoupon)
	assert.Equal(t, Quote{Subtotal: 2000, DeliveryFee: 800, Total: 2800}, q)
}

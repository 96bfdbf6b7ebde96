package models

import "time"

// DiscountType selects how a coupon's DiscountValue is interpreted.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a discount voucher. Everything but Used is immutable once issued.
type Coupon struct {
	ID            string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Code          string       `json:"code" gorm:"uniqueIndex;type:varchar(64)" validate:"required,min=3,max=64"`
	Title         string       `json:"title" validate:"required,max=100"`
	DiscountType  DiscountType `json:"discount_type" gorm:"type:varchar(16)" validate:"required,oneof=percentage fixed"`
	DiscountValue int64        `json:"discount_value" validate:"required,gt=0"`
	MinPurchase   int64        `json:"min_purchase" validate:"gte=0"`
	ExpiresAt     time.Time    `json:"expires_at"`
	Used          bool         `json:"used"`
	CreatedAt     time.Time    `json:"created_at"`
}

// Expired reports whether the coupon is past its expiry at now.
// A zero ExpiresAt never expires.
func (c *Coupon) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}

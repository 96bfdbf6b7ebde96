package models

import "time"

// OrderCreatedEvent is published after a successful checkout.
type OrderCreatedEvent struct {
	OrderID      string         `json:"order_id"`
	UserID       string         `json:"user_id"`
	Total        int64          `json:"total"`
	ItemCount    int            `json:"item_count"`
	CouponCode   string         `json:"coupon_code,omitempty"`
	PointsEarned int64          `json:"points_earned"`
	Tier         MembershipTier `json:"tier"`
	Promoted     bool           `json:"promoted"`
	Timestamp    time.Time      `json:"timestamp"`
}

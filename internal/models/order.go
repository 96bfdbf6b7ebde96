package models

import "time"

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an order in status s may move to next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OrderItem is a copy of a cart line taken at checkout time.
type OrderItem struct {
	ID           uint   `json:"-" gorm:"primaryKey"`
	OrderID      string `json:"-" gorm:"index;type:varchar(36)"`
	ProductID    string `json:"product_id" gorm:"type:varchar(36)"`
	ProductName  string `json:"product_name"`
	ProductPrice int64  `json:"product_price"` // Price at the time of order
	Quantity     int    `json:"quantity"`
}

// Subtotal returns price times quantity for the item.
func (i OrderItem) Subtotal() int64 {
	return i.ProductPrice * int64(i.Quantity)
}

// Order is an immutable snapshot of a cart at checkout. Only Status and
// UpdatedAt change after creation.
type Order struct {
	ID            string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        string      `json:"user_id" gorm:"index;type:varchar(36)"`
	Items         []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	Subtotal      int64       `json:"subtotal"`
	Discount      int64       `json:"discount"`
	CouponCode    string      `json:"coupon_code,omitempty"`
	DeliveryFee   int64       `json:"delivery_fee"`
	Total         int64       `json:"total"`
	PointsEarned  int64       `json:"points_earned"`
	PaymentMethod string      `json:"payment_method"`
	DeliveryDate  string      `json:"delivery_date"`
	DeliveryTime  string      `json:"delivery_time"`
	Status        OrderStatus `json:"status" gorm:"type:varchar(16)"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

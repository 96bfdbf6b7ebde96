package models

import "errors"

// Invalid input. The operation is rejected and state is left unchanged.
var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrInvalidPrice    = errors.New("price must be positive")
	ErrInvalidPoints   = errors.New("points must not be negative")
	ErrInvalidAmount   = errors.New("amount must not be negative")
	ErrInvalidStatus   = errors.New("invalid order status")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrInvalidDiscount = errors.New("invalid coupon discount")
)

// Coupon rejections. These are not fatal; the caller decides what to show.
var (
	ErrIneligibleCoupon = errors.New("subtotal below coupon minimum purchase")
	ErrCouponUsed       = errors.New("coupon already used")
	ErrCouponExpired    = errors.New("coupon expired")
)

// Missing references.
var (
	ErrProductNotFound = errors.New("product not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrOrderNotFound   = errors.New("order not found")
	ErrCouponNotFound  = errors.New("coupon not found")
	ErrLineNotFound    = errors.New("cart line not found")
)

// Conflicts with existing state.
var (
	ErrUsernameTaken     = errors.New("username already taken")
	ErrEmailTaken        = errors.New("email already registered")
	ErrCouponCodeTaken   = errors.New("coupon code already exists")
	ErrInvalidTransition = errors.New("order status transition not allowed")
)

package services

import (
	"context"
	"fmt"
	"time"

	"sweetspro/internal/loyalty"
	"sweetspro/internal/metrics"
	"sweetspro/internal/models"
	"sweetspro/internal/pricing"
	"sweetspro/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Checkout defaults applied when the request leaves a field empty.
const (
	DefaultPaymentMethod = "credit_card"
	DefaultDeliveryTime  = "unspecified"
	defaultDeliveryLead  = 3 * 24 * time.Hour
)

// OrderEventPublisher publishes order lifecycle events to a broker.
type OrderEventPublisher interface {
	PublishOrderCreated(event models.OrderCreatedEvent) error
}

// CheckoutRequest carries the customer's checkout choices.
type CheckoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=credit_card cash_on_delivery amazon_pay paypay"`
	DeliveryDate  string `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
	DeliveryTime  string `json:"delivery_time" validate:"omitempty,oneof=unspecified morning 14-16 16-18 18-20 19-21"`
	CouponCode    string `json:"coupon_code" validate:"omitempty,max=64"`
}

// CheckoutResult is the created order and the loyalty outcome of paying for it.
type CheckoutResult struct {
	Order   *models.Order  `json:"order"`
	Loyalty loyalty.Result `json:"loyalty"`
}

// OrderService turns carts into orders and manages their lifecycle.
type OrderService struct {
	orderRepo  repositories.OrderRepository
	userRepo   repositories.UserRepository
	carts      repositories.CartRepository
	checkout   repositories.CheckoutTransactor
	coupons    *CouponService
	calculator *pricing.Calculator
	engine     *loyalty.Engine
	locker     *AccountLocker
	publisher  OrderEventPublisher
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// OrderServiceDeps groups the collaborators of an OrderService.
type OrderServiceDeps struct {
	Orders     repositories.OrderRepository
	Users      repositories.UserRepository
	Carts      repositories.CartRepository
	Checkout   repositories.CheckoutTransactor
	Coupons    *CouponService
	Calculator *pricing.Calculator
	Engine     *loyalty.Engine
	Locker     *AccountLocker
	Publisher  OrderEventPublisher // may be nil
	Metrics    *metrics.Metrics
	Logger     *zap.Logger
}

// NewOrderService creates a new OrderService.
func NewOrderService(d OrderServiceDeps) *OrderService {
	return &OrderService{
		orderRepo:  d.Orders,
		userRepo:   d.Users,
		carts:      d.Carts,
		checkout:   d.Checkout,
		coupons:    d.Coupons,
		calculator: d.Calculator,
		engine:     d.Engine,
		locker:     d.Locker,
		publisher:  d.Publisher,
		metrics:    d.Metrics,
		logger:     d.Logger,
		now:        time.Now,
	}
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetUserOrders retrieves a user's orders, newest first.
func (s *OrderService) GetUserOrders(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUserID(userID)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// GetUserOrder retrieves an order that belongs to userID. Orders of other
// users are reported as not found.
func (s *OrderService) GetUserOrder(userID, id string) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order with ID %s: %w", id, models.ErrOrderNotFound)
	}
	return order, nil
}

// Checkout converts the user's cart into an order. It prices the cart with
// the optional coupon, then redeems the coupon, credits loyalty points for the
// paid total and stores the order snapshot as one unit: if any of those writes
// fails none of them is kept and the cart is left as it was. The cart is
// emptied and order.created published only after that unit commits; neither
// failing fails the checkout.
func (s *OrderService) Checkout(ctx context.Context, userID string, req CheckoutRequest) (*CheckoutResult, error) {
	unlock := s.locker.Lock(userID)
	defer unlock()

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, fmt.Errorf("checkout for user %s: %w", userID, models.ErrEmptyCart)
	}

	var coupon *models.Coupon
	if req.CouponCode != "" {
		if coupon, err = s.coupons.Redeemable(req.CouponCode); err != nil {
			return nil, err
		}
	}
	quote, err := s.calculator.Quote(cart.Subtotal(), coupon)
	if err != nil {
		return nil, err
	}

	order := s.buildOrder(userID, cart, quote, req)
	order.PointsEarned = s.engine.PointsFor(order.Total)

	var result loyalty.Result
	err = s.checkout.WithinCheckout(ctx, func(w repositories.CheckoutWriter) error {
		if coupon != nil {
			if err := w.Coupons.MarkUsed(coupon.ID); err != nil {
				return fmt.Errorf("failed to redeem coupon %s: %w", coupon.Code, err)
			}
			user.CouponIDs = append(user.CouponIDs, coupon.ID)
		}
		var err error
		if result, err = s.engine.AddPurchase(user, order.Total); err != nil {
			return fmt.Errorf("failed to credit purchase for order %s: %w", order.ID, err)
		}
		if err := w.Users.Update(user); err != nil {
			return fmt.Errorf("failed to save loyalty state for order %s: %w", order.ID, err)
		}
		if err := w.Orders.Create(order); err != nil {
			return fmt.Errorf("failed to create order in repository: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.carts.Delete(ctx, userID); err != nil {
		s.logger.Warn("failed to clear cart after checkout", zap.String("user_id", userID), zap.Error(err))
	}

	if coupon != nil {
		s.metrics.CouponRedemptions.WithLabelValues(string(coupon.DiscountType)).Inc()
	}
	s.record(order, result)
	s.publishCreated(order, cart.ItemCount(), result)

	return &CheckoutResult{Order: order, Loyalty: result}, nil
}

// UpdateOrderStatus moves an order to a new status if the transition is allowed.
func (s *OrderService) UpdateOrderStatus(id string, status models.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %s", models.ErrInvalidStatus, status)
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return err
	}
	if !order.Status.CanTransitionTo(status) {
		return fmt.Errorf("order %s from %s to %s: %w", id, order.Status, status, models.ErrInvalidTransition)
	}

	if err := s.orderRepo.UpdateStatus(id, order.Status, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	s.metrics.OrderStatus.WithLabelValues(string(status)).Inc()
	s.logger.Info("order status updated",
		zap.String("order_id", id),
		zap.String("from", string(order.Status)),
		zap.String("to", string(status)))
	return nil
}

func (s *OrderService) buildOrder(userID string, cart *models.Cart, quote pricing.Quote, req CheckoutRequest) *models.Order {
	now := s.now()
	orderID := uuid.New().String()

	items := make([]models.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		items = append(items, models.OrderItem{
			OrderID:      orderID,
			ProductID:    line.ProductID,
			ProductName:  line.ProductName,
			ProductPrice: line.UnitPrice,
			Quantity:     line.Quantity,
		})
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = DefaultPaymentMethod
	}
	deliveryTime := req.DeliveryTime
	if deliveryTime == "" {
		deliveryTime = DefaultDeliveryTime
	}
	deliveryDate := req.DeliveryDate
	if deliveryDate == "" {
		deliveryDate = now.Add(defaultDeliveryLead).Format(time.DateOnly)
	}

	return &models.Order{
		ID:            orderID,
		UserID:        userID,
		Items:         items,
		Subtotal:      quote.Subtotal,
		Discount:      quote.Discount,
		CouponCode:    quote.CouponCode,
		DeliveryFee:   quote.DeliveryFee,
		Total:         quote.Total,
		PaymentMethod: paymentMethod,
		DeliveryDate:  deliveryDate,
		DeliveryTime:  deliveryTime,
		Status:        models.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (s *OrderService) record(order *models.Order, result loyalty.Result) {
	s.metrics.OrdersCreated.Inc()
	s.metrics.Revenue.Add(float64(order.Total))
	s.metrics.OrderTotal.Observe(float64(order.Total))
	s.metrics.PointsAwarded.Add(float64(result.PointsEarned))
	if result.Promoted {
		s.metrics.TierPromotions.WithLabelValues(string(result.Tier)).Inc()
		s.logger.Info("membership promoted",
			zap.String("user_id", order.UserID),
			zap.String("from", string(result.PreviousTier)),
			zap.String("to", string(result.Tier)))
	}
	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.Int64("total", order.Total),
		zap.Int64("points_earned", result.PointsEarned))
}

func (s *OrderService) publishCreated(order *models.Order, itemCount int, result loyalty.Result) {
	if s.publisher == nil {
		s.logger.Debug("no event publisher configured, skipping order.created", zap.String("order_id", order.ID))
		return
	}
	event := models.OrderCreatedEvent{
		OrderID:      order.ID,
		UserID:       order.UserID,
		Total:        order.Total,
		ItemCount:    itemCount,
		CouponCode:   order.CouponCode,
		PointsEarned: result.PointsEarned,
		Tier:         result.Tier,
		Promoted:     result.Promoted,
		Timestamp:    order.CreatedAt,
	}
	if err := s.publisher.PublishOrderCreated(event); err != nil {
		s.logger.Warn("failed to publish order created event", zap.String("order_id", order.ID), zap.Error(err))
	}
}

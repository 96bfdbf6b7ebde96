package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"sweetspro/internal/models"
	"sweetspro/internal/repositories"
	"sweetspro/internal/services"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderService_Checkout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 3 x 3800 + 1 x 600 = 12000, which ships free.
	_, err := f.carts.AddItem(ctx, f.user.ID, f.cake.ID, 2)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, f.user.ID, f.macarons.ID, 1)
	require.NoError(t, err)
	_, err = f.carts.AddItem(ctx, f.user.ID, f.cake.ID, 1)
	require.NoError(t, err)

	f.publisher.On("PublishOrderCreated", mock.MatchedBy(func(e models.OrderCreatedEvent) bool {
		return e.UserID == f.user.ID && e.Total == 12000 && e.ItemCount == 4 && e.PointsEarned == 120
	})).Return(nil).Once()

	result, err := f.orders.Checkout(ctx, f.user.ID, services.CheckoutRequest{})
	require.NoError(t, err)

	order := result.Order
	assert.Equal(t, int64(12000), order.Subtotal)
	assert.Zero(t, order.DeliveryFee)
	assert.Zero(t, order.Discount)
	assert.Equal(t, int64(12000), order.Total)
	assert.Equal(t, int64(120), order.PointsEarned)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, services.DefaultPaymentMethod, order.PaymentMethod)
	assert.Equal(t, services.DefaultDeliveryTime, order.DeliveryTime)
	_, err = time.Parse(time.DateOnly, order.DeliveryDate)
	assert.NoError(t, err)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, int64(11400), order.Items[0].Subtotal())

	assert.Equal(t, int64(120), result.Loyalty.PointsEarned)
	assert.False(t, result.Loyalty.Promoted)

	stored, err := f.users.GetByID(f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(120), stored.Points)
	assert.Equal(t, int64(12000), stored.TotalSpent)

	cart, err := f.carts.GetCart(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Zero(t, cart.ItemCount)

	saved, err := f.orders.GetUserOrder(f.user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Total, saved.Total)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.OrdersCreated))
	assert.Equal(t, 12000.0, testutil.ToFloat64(f.metrics.Revenue))
	f.publisher.AssertExpectations(t)
}

func TestOrderService_CheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.orders.Checkout(context.Background(), f.user.ID, services.CheckoutRequest{})
	assert.ErrorIs(t, err, models.ErrEmptyCart)

	orders, err := f.orders.GetAllOrders()
	require.NoError(t, err)
	assert.Empty(t, orders)
	f.publisher.AssertNotCalled(t, "PublishOrderCreated", mock.Anything)
}

func TestOrderService_CheckoutWithCoupon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	coupon := f.addCoupon(t, models.Coupon{
		Code: "save500", Title: "500 off", DiscountType: models.DiscountFixed,
		DiscountValue: 500, MinPurchase: 5000,
	})
	f.publisher.On("PublishOrderCreated", mock.Anything).Return(nil)

	// 2 x 3800 = 7600; the fee is charged on the subtotal before discount.
	_, err := f.carts.AddItem(ctx, f.user.ID, f.cake.ID, 2)
	require.NoError(t, err)

	result, err := f.orders.Checkout(ctx, f.user.ID, services.CheckoutRequest{CouponCode: "SAVE500", PaymentMethod: "paypay"})
	require.NoError(t, err)
	assert.Equal(t, int64(7600), result.Order.Subtotal)
	assert.Equal(t, int64(500), result.Order.Discount)
	assert.Equal(t, "SAVE500", result.Order.CouponCode)
	assert.Equal(t, int64(800), result.Order.DeliveryFee)
	assert.Equal(t, int64(7900), result.Order.Total)
	assert.Equal(t, int64(79), result.Order.PointsEarned)
	assert.Equal(t, "paypay", result.Order.PaymentMethod)

	stored, err := f.users.GetByID(f.user.ID)
	require.NoError(t, err)
	assert.Contains(t, stored.CouponIDs, coupon.ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.CouponRedemptions.WithLabelValues("fixed")))

	// A redeemed coupon cannot be used again.
	_, err = f.carts.AddItem(ctx, f.user.ID, f.cake.ID, 2)
	require.NoError(t, err)
	_, err = f.orders.Checkout(ctx, f.user.ID, services.CheckoutRequest{CouponCode: "SAVE500"})
	assert.ErrorIs(t, err, models.ErrCouponUsed)
}

func TestOrderService_CheckoutRejectsIneligibleCoupon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addCoupon(t, models.Coupon{
		Code: "SAVE500", Title: "500 off", DiscountType: models.DiscountFixed,
		DiscountValue: 500, MinPurchase: 5000,
	})

	_, err := f.carts.AddItem(ctx, f.user.ID, f.cake.ID, 1)
	require.NoError(t, err)

	_, err = f.orders.Checkout(ctx, f.user.ID, services.CheckoutRequest{CouponCode: "SAVE500"})
	assert.ErrorIs(t, err, models.ErrIneligibleCoupon)

	// Nothing changed: the cart is intact and the coupon still available.
	cart, err := f.carts.GetCart(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.ItemCount)
	available, err := f.coupons.GetAvailableCoupons()
	require.NoError(t, err)
	assert.Len(t, available, 1)
	stored, err := f.users.GetByID(f.user.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.Points)
}

func TestOrderService_CheckoutUnknownAndExpiredCoupon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addCoupon(t, models.Coupon{
		Code: "OLD10", Title: "Expired", DiscountType: models.DiscountPercentage,
		DiscountValue: 10, ExpiresAt: time.Now().Add(-time.Hour),
	})
	_, err := f.carts.AddItem(ctx, f.user.ID, f.cake.ID, 1)
	require.NoError(t, err)

	_, err = f.orders.Checkout(ctx, f.user.ID, services.CheckoutRequest{CouponCode: "OLD10"})
	assert.ErrorIs(t, err, models.ErrCouponExpired)

	_, err = f.orders.Checkout(ctx, f.user.ID, services.CheckoutRequest{CouponCode: "NOPE"})
	assert.ErrorIs(t, err, models.ErrCouponNotFound)
}

func TestOrderService_CheckoutPromotesTier(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.publisher.On("PublishOrderCreated", mock.MatchedBy(func(e models.OrderCreatedEvent) bool {
		return e.Promoted && e.Tier == models.TierSilver
	})).Return(nil).Once()

	f.user.Points = 990
	require.NoError(t, f.users.Update(f.user))

	// 600 + 800 delivery = 1400 paid, 14 points.
	_, err := f.carts.AddItem(ctx, f.user.ID, f.macarons.ID, 1)
	require.NoError(t, err)

	result, err := f.orders.Checkout(ctx, f.user.ID, services.CheckoutRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1400), result.Order.Total)
	assert.Equal(t, int64(14), result.Loyalty.PointsEarned)
	assert.Equal(t, int64(1004), result.Loyalty.Points)
	assert.Equal(t, models.TierRegular, result.Loyalty.PreviousTier)
	assert.Equal(t, models.TierSilver, result.Loyalty.Tier)
	assert.True(t, result.Loyalty.Promoted)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.TierPromotions.WithLabelValues("silver")))
	f.publisher.AssertExpectations(t)
}

func TestOrderService_CheckoutSurvivesPublishFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.publisher.On("PublishOrderCreated", mock.Anything).Return(errors.New("broker down")).Once()

	_, err := f.carts.AddItem(ctx, f.user.ID, f.mousse.ID, 1)
	require.NoError(t, err)

	result, err := f.orders.Checkout(ctx, f.user.ID, services.CheckoutRequest{})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Order.ID)
	f.publisher.AssertExpectations(t)
}

func TestOrderService_ConcurrentCheckoutCreatesOneOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.publisher.On("PublishOrderCreated", mock.Anything).Return(nil)

	_, err := f.carts.AddItem(ctx, f.user.ID, f.cake.ID, 1)
	require.NoError(t, err)

	const attempts = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		empty     int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.orders.Checkout(ctx, f.user.ID, services.CheckoutRequest{})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, models.ErrEmptyCart):
				empty++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, empty)

	stored, err := f.users.GetByID(f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3800+800), stored.TotalSpent)
}

func TestOrderService_ConcurrentCheckoutSharedCoupon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.publisher.On("PublishOrderCreated", mock.Anything).Return(nil)
	coupon := f.addCoupon(t, models.Coupon{
		Code: "ONCE", Title: "500 off", DiscountType: models.DiscountFixed, DiscountValue: 500,
	})
	f.wrapCheckout(func(w repositories.CheckoutWriter) repositories.CheckoutWriter {
		w.Orders = slowOrders{OrderRepository: w.Orders, delay: 20 * time.Millisecond}
		return w
	})

	taro := &models.User{Username: "taro", Email: "taro@example.com", Password: "hash", MembershipTier: models.TierRegular}
	require.NoError(t, f.users.Create(taro))
	buyers := []string{f.user.ID, taro.ID}
	for _, id := range buyers {
		_, err := f.carts.AddItem(ctx, id, f.cake.ID, 1)
		require.NoError(t, err)
	}

	errs := make([]error, len(buyers))
	var wg sync.WaitGroup
	for i, id := range buyers {
		i, id := i, id
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.orders.Checkout(ctx, id, services.CheckoutRequest{CouponCode: "ONCE"})
		}()
	}
	wg.Wait()

	winner, loser := 0, 1
	if errs[0] != nil {
		winner, loser = 1, 0
	}
	require.NoError(t, errs[winner])
	require.ErrorIs(t, errs[loser], models.ErrCouponUsed)

	orders, err := f.orders.GetAllOrders()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, buyers[winner], orders[0].UserID)

	// 3800 - 500 + 800 delivery = 4100 paid.
	paid, err := f.users.GetByID(buyers[winner])
	require.NoError(t, err)
	assert.Equal(t, int64(41), paid.Points)
	assert.Equal(t, []string{coupon.ID}, paid.CouponIDs)

	unpaid, err := f.users.GetByID(buyers[loser])
	require.NoError(t, err)
	assert.Zero(t, unpaid.Points)
	assert.Empty(t, unpaid.CouponIDs)
	cart, err := f.carts.GetCart(ctx, buyers[loser])
	require.NoError(t, err)
	assert.Equal(t, 1, cart.ItemCount)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.OrdersCreated))
}

func TestOrderService_CheckoutKeepsNothingWhenSaveFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addCoupon(t, models.Coupon{
		Code: "SAVE500", Title: "500 off", DiscountType: models.DiscountFixed,
		DiscountValue: 500, MinPurchase: 5000,
	})
	diskFull := errors.New("disk full")
	f.wrapCheckout(func(w repositories.CheckoutWriter) repositories.CheckoutWriter {
		w.Users = failingUsers{UserRepository: w.Users, err: diskFull}
		return w
	})

	_, err := f.carts.AddItem(ctx, f.user.ID, f.cake.ID, 2)
	require.NoError(t, err)

	_, err = f.orders.Checkout(ctx, f.user.ID, services.CheckoutRequest{CouponCode: "SAVE500"})
	require.ErrorIs(t, err, diskFull)

	orders, err := f.orders.GetAllOrders()
	require.NoError(t, err)
	assert.Empty(t, orders)
	available, err := f.coupons.GetAvailableCoupons()
	require.NoError(t, err)
	assert.Len(t, available, 1, "coupon is still redeemable")
	stored, err := f.users.GetByID(f.user.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.Points)
	assert.Zero(t, stored.TotalSpent)
	cart, err := f.carts.GetCart(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.ItemCount)
	assert.Zero(t, testutil.ToFloat64(f.metrics.OrdersCreated))
	f.publisher.AssertNotCalled(t, "PublishOrderCreated", mock.Anything)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.publisher.On("PublishOrderCreated", mock.Anything).Return(nil)

	_, err := f.carts.AddItem(ctx, f.user.ID, f.mousse.ID, 1)
	require.NoError(t, err)
	result, err := f.orders.Checkout(ctx, f.user.ID, services.CheckoutRequest{})
	require.NoError(t, err)
	id := result.Order.ID

	for _, next := range []models.OrderStatus{
		models.OrderStatusConfirmed,
		models.OrderStatusPreparing,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
	} {
		require.NoError(t, f.orders.UpdateOrderStatus(id, next))
	}
	order, err := f.orders.GetOrderByID(id)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, order.Status)

	assert.ErrorIs(t, f.orders.UpdateOrderStatus(id, models.OrderStatusCancelled), models.ErrInvalidTransition)
	assert.ErrorIs(t, f.orders.UpdateOrderStatus(id, "lost"), models.ErrInvalidStatus)
	assert.ErrorIs(t, f.orders.UpdateOrderStatus("missing", models.OrderStatusConfirmed), models.ErrOrderNotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.OrderStatus.WithLabelValues("delivered")))
}

func TestOrderService_GetUserOrderHidesOtherUsers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.publisher.On("PublishOrderCreated", mock.Anything).Return(nil)

	_, err := f.carts.AddItem(ctx, f.user.ID, f.mousse.ID, 1)
	require.NoError(t, err)
	result, err := f.orders.Checkout(ctx, f.user.ID, services.CheckoutRequest{})
	require.NoError(t, err)

	_, err = f.orders.GetUserOrder("someone-else", result.Order.ID)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)

	orders, err := f.orders.GetUserOrders(f.user.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
}

func TestOrderService_ConcurrentStatusUpdatesOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.publisher.On("PublishOrderCreated", mock.Anything).Return(nil)

	_, err := f.carts.AddItem(ctx, f.user.ID, f.mousse.ID, 1)
	require.NoError(t, err)
	result, err := f.orders.Checkout(ctx, f.user.ID, services.CheckoutRequest{})
	require.NoError(t, err)
	id := result.Order.ID
	require.NoError(t, f.orders.UpdateOrderStatus(id, models.OrderStatusConfirmed))
	require.NoError(t, f.orders.UpdateOrderStatus(id, models.OrderStatusPreparing))

	targets := []models.OrderStatus{models.OrderStatusCancelled, models.OrderStatusShipped}
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, next := range targets {
		i, next := i, next
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = f.orders.UpdateOrderStatus(id, next)
		}()
	}
	wg.Wait()

	winner, loser := 0, 1
	if errs[0] != nil {
		winner, loser = 1, 0
	}
	require.NoError(t, errs[winner])
	assert.ErrorIs(t, errs[loser], models.ErrInvalidTransition)

	order, err := f.orders.GetOrderByID(id)
	require.NoError(t, err)
	assert.Equal(t, targets[winner], order.Status)
}

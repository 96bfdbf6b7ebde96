package services_test

import (
	"context"
	"testing"
	"time"

	"sweetspro/internal/loyalty"
	"sweetspro/internal/metrics"
	"sweetspro/internal/models"
	"sweetspro/internal/pricing"
	"sweetspro/internal/repositories"
	"sweetspro/internal/services"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockEventPublisher is a mock implementation of services.OrderEventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishOrderCreated(event models.OrderCreatedEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

// fixture wires every service over the in-memory repositories.
type fixture struct {
	users      *repositories.MockUserRepository
	products   *repositories.MockProductRepository
	orderRepo  *repositories.MockOrderRepository
	couponRepo *repositories.MockCouponRepository
	cartRepo   *repositories.MockCartRepository
	metrics    *metrics.Metrics
	publisher  *MockEventPublisher
	orderDeps  services.OrderServiceDeps

	carts    *services.CartService
	coupons  *services.CouponService
	orders   *services.OrderService
	accounts *services.AccountService
	reviews  *services.ReviewService

	user     *models.User
	cake     *models.Product // 3800
	mousse   *models.Product // 1550
	macarons *models.Product // 600
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:      repositories.NewMockUserRepository(),
		products:   repositories.NewMockProductRepository(),
		orderRepo:  repositories.NewMockOrderRepository(),
		couponRepo: repositories.NewMockCouponRepository(),
		cartRepo:   repositories.NewMockCartRepository(),
		metrics:    metrics.NewNop(),
		publisher:  new(MockEventPublisher),
	}
	logger := zap.NewNop()
	calculator := pricing.NewCalculator(pricing.DefaultFreeShippingThreshold, pricing.DefaultFlatDeliveryFee)
	engine := loyalty.NewEngine(loyalty.DefaultPointsUnit)
	locker := services.NewAccountLocker()

	f.carts = services.NewCartService(f.cartRepo, f.products, calculator, locker, logger)
	f.coupons = services.NewCouponService(f.couponRepo, f.cartRepo, calculator, logger)
	f.orderDeps = services.OrderServiceDeps{
		Orders:     f.orderRepo,
		Users:      f.users,
		Carts:      f.cartRepo,
		Checkout:   repositories.NewMemoryCheckoutTransactor(f.orderRepo, f.couponRepo, f.users),
		Coupons:    f.coupons,
		Calculator: calculator,
		Engine:     engine,
		Locker:     locker,
		Publisher:  f.publisher,
		Metrics:    f.metrics,
		Logger:     logger,
	}
	f.orders = services.NewOrderService(f.orderDeps)
	f.accounts = services.NewAccountService(f.users, f.products, engine, locker, f.metrics, logger)
	f.reviews = services.NewReviewService(repositories.NewMockReviewRepository(), f.products, f.users)

	f.user = &models.User{Username: "hanako", Email: "hanako@example.com", Password: "hash", MembershipTier: models.TierRegular}
	require.NoError(t, f.users.Create(f.user))
	f.cake = f.addProduct(t, "Hokkaido Cream Shortcake", "Shortcake", 3800)
	f.mousse = f.addProduct(t, "Pistachio Mousse", "Mousse Cake", 1550)
	f.macarons = f.addProduct(t, "Macaron Box", "Set Items", 600)
	return f
}

func (f *fixture) addProduct(t *testing.T, name, category string, price int64) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Category: category, Price: price, Stock: 10}
	require.NoError(t, f.products.Create(p))
	return p
}

// wrapCheckout rebuilds the order service with the checkout writer passed
// through wrap before use.
func (f *fixture) wrapCheckout(wrap func(w repositories.CheckoutWriter) repositories.CheckoutWriter) {
	f.orderDeps.Checkout = wrappedCheckout{inner: f.orderDeps.Checkout, wrap: wrap}
	f.orders = services.NewOrderService(f.orderDeps)
}

type wrappedCheckout struct {
	inner repositories.CheckoutTransactor
	wrap  func(w repositories.CheckoutWriter) repositories.CheckoutWriter
}

func (c wrappedCheckout) WithinCheckout(ctx context.Context, fn func(w repositories.CheckoutWriter) error) error {
	return c.inner.WithinCheckout(ctx, func(w repositories.CheckoutWriter) error {
		return fn(c.wrap(w))
	})
}

// slowOrders delays inserts the way a database round trip would.
type slowOrders struct {
	repositories.OrderRepository
	delay time.Duration
}

func (r slowOrders) Create(order *models.Order) error {
	time.Sleep(r.delay)
	return r.OrderRepository.Create(order)
}

// failingUsers rejects every user update.
type failingUsers struct {
	repositories.UserRepository
	err error
}

func (r failingUsers) Update(*models.User) error {
	return r.err
}

func (f *fixture) addCoupon(t *testing.T, c models.Coupon) *models.Coupon {
	t.Helper()
	require.NoError(t, f.coupons.CreateCoupon(&c))
	return &c
}

package repositories

import (
	"context"
	"sync"

	"sweetspro/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CheckoutWriter exposes the repositories a checkout writes through.
type CheckoutWriter struct {
	Orders  OrderRepository
	Coupons CouponRepository
	Users   UserRepository
}

// CheckoutTransactor runs fn so that every write made through the
// CheckoutWriter is committed together or not at all.
type CheckoutTransactor interface {
	WithinCheckout(ctx context.Context, fn func(w CheckoutWriter) error) error
}

// GORMCheckoutTransactor commits checkout writes in one database transaction.
type GORMCheckoutTransactor struct {
	db *gorm.DB
}

// NewGORMCheckoutTransactor creates a new instance of GORMCheckoutTransactor.
func NewGORMCheckoutTransactor(db *gorm.DB) *GORMCheckoutTransactor {
	return &GORMCheckoutTransactor{db: db}
}

// WithinCheckout rolls the transaction back when fn returns an error.
func (t *GORMCheckoutTransactor) WithinCheckout(ctx context.Context, fn func(w CheckoutWriter) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(CheckoutWriter{
			Orders:  NewGORMOrderRepository(tx),
			Coupons: NewGORMCouponRepository(tx),
			Users:   NewGORMUserRepository(tx),
		})
	})
}

// MemoryCheckoutTransactor serializes checkouts over the in-memory
// repositories and undoes the writes of a failed one.
type MemoryCheckoutTransactor struct {
	mu      sync.Mutex
	orders  *MockOrderRepository
	coupons *MockCouponRepository
	users   *MockUserRepository
}

// NewMemoryCheckoutTransactor creates a new instance of MemoryCheckoutTransactor.
func NewMemoryCheckoutTransactor(orders *MockOrderRepository, coupons *MockCouponRepository, users *MockUserRepository) *MemoryCheckoutTransactor {
	return &MemoryCheckoutTransactor{orders: orders, coupons: coupons, users: users}
}

// WithinCheckout runs fn and restores every record it wrote if it returns
// an error. Records fn did not write are left alone.
func (t *MemoryCheckoutTransactor) WithinCheckout(_ context.Context, fn func(w CheckoutWriter) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var log undoLog
	err := fn(CheckoutWriter{
		Orders:  undoOrders{MockOrderRepository: t.orders, log: &log},
		Coupons: undoCoupons{MockCouponRepository: t.coupons, log: &log},
		Users:   undoUsers{MockUserRepository: t.users, log: &log},
	})
	if err != nil {
		log.rollback()
		return err
	}
	return nil
}

type undoLog struct {
	steps []func()
}

// remember records how to put m[id] back to its current state.
func remember[V any](log *undoLog, mu *sync.RWMutex, m map[string]V, id string) {
	mu.RLock()
	prev, had := m[id]
	mu.RUnlock()
	log.steps = append(log.steps, func() {
		mu.Lock()
		defer mu.Unlock()
		if had {
			m[id] = prev
		} else {
			delete(m, id)
		}
	})
}

func (l *undoLog) rollback() {
	for i := len(l.steps) - 1; i >= 0; i-- {
		l.steps[i]()
	}
}

type undoOrders struct {
	*MockOrderRepository
	log *undoLog
}

func (r undoOrders) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	remember(r.log, &r.mu, r.orders, order.ID)
	return r.MockOrderRepository.Create(order)
}

func (r undoOrders) UpdateStatus(id string, from, to models.OrderStatus) error {
	remember(r.log, &r.mu, r.orders, id)
	return r.MockOrderRepository.UpdateStatus(id, from, to)
}

type undoCoupons struct {
	*MockCouponRepository
	log *undoLog
}

func (r undoCoupons) Create(coupon *models.Coupon) error {
	if coupon.ID == "" {
		coupon.ID = uuid.New().String()
	}
	remember(r.log, &r.mu, r.coupons, coupon.ID)
	return r.MockCouponRepository.Create(coupon)
}

func (r undoCoupons) MarkUsed(id string) error {
	remember(r.log, &r.mu, r.coupons, id)
	return r.MockCouponRepository.MarkUsed(id)
}

func (r undoCoupons) Delete(id string) error {
	remember(r.log, &r.mu, r.coupons, id)
	return r.MockCouponRepository.Delete(id)
}

type undoUsers struct {
	*MockUserRepository
	log *undoLog
}

func (r undoUsers) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	remember(r.log, &r.mu, r.users, user.ID)
	return r.MockUserRepository.Create(user)
}

func (r undoUsers) Update(user *models.User) error {
	remember(r.log, &r.mu, r.users, user.ID)
	return r.MockUserRepository.Update(user)
}

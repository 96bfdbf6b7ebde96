package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"sweetspro/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutStores struct {
	tx      CheckoutTransactor
	orders  OrderRepository
	coupons CouponRepository
	users   UserRepository
}

func gormCheckoutStores(t *testing.T) checkoutStores {
	db := openTestDB(t)
	return checkoutStores{
		tx:      NewGORMCheckoutTransactor(db),
		orders:  NewGORMOrderRepository(db),
		coupons: NewGORMCouponRepository(db),
		users:   NewGORMUserRepository(db),
	}
}

func memoryCheckoutStores(*testing.T) checkoutStores {
	orders, coupons, users := NewMockOrderRepository(), NewMockCouponRepository(), NewMockUserRepository()
	return checkoutStores{
		tx:      NewMemoryCheckoutTransactor(orders, coupons, users),
		orders:  orders,
		coupons: coupons,
		users:   users,
	}
}

func TestCheckoutTransactor(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) checkoutStores
	}{
		{"gorm", gormCheckoutStores},
		{"memory", memoryCheckoutStores},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := tt.setup(t)
			ctx := context.Background()

			user := &models.User{Username: "hanako", Email: "hanako@example.com", Password: "hash", MembershipTier: models.TierRegular}
			require.NoError(t, st.users.Create(user))
			coupon := &models.Coupon{Code: "ONCE", DiscountType: models.DiscountFixed, DiscountValue: 500}
			require.NoError(t, st.coupons.Create(coupon))

			write := func(w CheckoutWriter) (*models.Order, error) {
				if err := w.Coupons.MarkUsed(coupon.ID); err != nil {
					return nil, err
				}
				order := &models.Order{
					UserID: user.ID, Subtotal: 5000, Discount: 500, Total: 4500,
					Status: models.OrderStatusPending, CreatedAt: time.Now(),
				}
				if err := w.Orders.Create(order); err != nil {
					return nil, err
				}
				u, err := w.Users.GetByID(user.ID)
				if err != nil {
					return nil, err
				}
				u.Points += 45
				return order, w.Users.Update(u)
			}

			boom := errors.New("boom")
			err := st.tx.WithinCheckout(ctx, func(w CheckoutWriter) error {
				if _, err := write(w); err != nil {
					return err
				}
				return boom
			})
			require.ErrorIs(t, err, boom)

			orders, err := st.orders.GetByUserID(user.ID)
			require.NoError(t, err)
			assert.Empty(t, orders, "order rolled back")
			got, err := st.coupons.GetByID(coupon.ID)
			require.NoError(t, err)
			assert.False(t, got.Used, "coupon rolled back")
			u, err := st.users.GetByID(user.ID)
			require.NoError(t, err)
			assert.Zero(t, u.Points, "points rolled back")

			var created *models.Order
			require.NoError(t, st.tx.WithinCheckout(ctx, func(w CheckoutWriter) error {
				created, err = write(w)
				return err
			}))

			stored, err := st.orders.GetByID(created.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(4500), stored.Total)
			got, err = st.coupons.GetByID(coupon.ID)
			require.NoError(t, err)
			assert.True(t, got.Used)
			u, err = st.users.GetByID(user.ID)
			require.NoError(t, err)
			assert.Equal(t, int64(45), u.Points)

			err = st.tx.WithinCheckout(ctx, func(w CheckoutWriter) error {
				_, err := write(w)
				return err
			})
			assert.ErrorIs(t, err, models.ErrCouponUsed)
			orders, err = st.orders.GetByUserID(user.ID)
			require.NoError(t, err)
			assert.Len(t, orders, 1)
		})
	}
}

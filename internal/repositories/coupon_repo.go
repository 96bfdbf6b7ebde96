package repositories

import "sweetspro/internal/models"

// CouponRepository defines the interface for coupon data access.
type CouponRepository interface {
	GetAll() ([]models.Coupon, error)
	GetByID(id string) (*models.Coupon, error)
	GetByCode(code string) (*models.Coupon, error)
	Create(coupon *models.Coupon) error
	MarkUsed(id string) error
	Delete(id string) error
}

package repositories

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"sweetspro/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCouponRepository is a GORM implementation of CouponRepository.
type GORMCouponRepository struct {
	db *gorm.DB
}

// NewGORMCouponRepository creates a new instance of GORMCouponRepository.
func NewGORMCouponRepository(db *gorm.DB) *GORMCouponRepository {
	return &GORMCouponRepository{db: db}
}

// GetAll retrieves every coupon ordered by code.
func (r *GORMCouponRepository) GetAll() ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := r.db.Order("code").Find(&coupons).Error; err != nil {
		return nil, fmt.Errorf("failed to get all coupons: %w", err)
	}
	return coupons, nil
}

// GetByID retrieves a coupon by its ID.
func (r *GORMCouponRepository) GetByID(id string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.First(&coupon, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("coupon with ID %s: %w", id, models.ErrCouponNotFound)
		}
		return nil, fmt.Errorf("failed to get coupon by ID %s: %w", id, err)
	}
	return &coupon, nil
}

// GetByCode retrieves a coupon by code. Codes are stored upper-case.
func (r *GORMCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := r.db.First(&coupon, "code = ?", strings.ToUpper(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("coupon with code %s: %w", code, models.ErrCouponNotFound)
		}
		return nil, fmt.Errorf("failed to get coupon by code %s: %w", code, err)
	}
	return &coupon, nil
}

// Create inserts a coupon, rejecting duplicate codes.
func (r *GORMCouponRepository) Create(coupon *models.Coupon) error {
	coupon.Code = strings.ToUpper(coupon.Code)
	if _, err := r.GetByCode(coupon.Code); err == nil {
		return fmt.Errorf("coupon %s: %w", coupon.Code, models.ErrCouponCodeTaken)
	}
	if coupon.ID == "" {
		coupon.ID = uuid.New().String()
	}
	if coupon.CreatedAt.IsZero() {
		coupon.CreatedAt = time.Now()
	}
	if err := r.db.Create(coupon).Error; err != nil {
		return fmt.Errorf("failed to create coupon: %w", err)
	}
	return nil
}

// MarkUsed flags an unused coupon as used. The update is conditional so two
// concurrent checkouts cannot both redeem it.
func (r *GORMCouponRepository) MarkUsed(id string) error {
	res := r.db.Model(&models.Coupon{}).Where("id = ? AND used = ?", id, false).Update("used", true)
	if res.Error != nil {
		return fmt.Errorf("failed to mark coupon used: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(id); err != nil {
			return err
		}
		return fmt.Errorf("coupon with ID %s: %w", id, models.ErrCouponUsed)
	}
	return nil
}

// Delete removes a coupon by its ID.
func (r *GORMCouponRepository) Delete(id string) error {
	res := r.db.Delete(&models.Coupon{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete coupon: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("coupon with ID %s for deletion: %w", id, models.ErrCouponNotFound)
	}
	return nil
}

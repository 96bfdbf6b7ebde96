package repositories

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"sweetspro/internal/models"

	"github.com/google/uuid"
)

// MockCouponRepository is an in-memory implementation of CouponRepository.
type MockCouponRepository struct {
	coupons map[string]models.Coupon
	mu      sync.RWMutex
}

// NewMockCouponRepository creates a new instance of MockCouponRepository.
func NewMockCouponRepository() *MockCouponRepository {
	return &MockCouponRepository{
		coupons: make(map[string]models.Coupon),
	}
}

// GetAll returns every coupon ordered by code.
func (r *MockCouponRepository) GetAll() ([]models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	couponList := make([]models.Coupon, 0, len(r.coupons))
	for _, c := range r.coupons {
		couponList = append(couponList, c)
	}
	sort.Slice(couponList, func(i, j int) bool { return couponList[i].Code < couponList[j].Code })
	return couponList, nil
}

// GetByID returns a coupon by its ID.
func (r *MockCouponRepository) GetByID(id string) (*models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	coupon, ok := r.coupons[id]
	if !ok {
		return nil, fmt.Errorf("coupon with ID %s: %w", id, models.ErrCouponNotFound)
	}
	return &coupon, nil
}

// GetByCode returns a coupon by its code, ignoring case.
func (r *MockCouponRepository) GetByCode(code string) (*models.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.coupons {
		if strings.EqualFold(c.Code, code) {
			return &c, nil
		}
	}
	return nil, fmt.Errorf("coupon with code %s: %w", code, models.ErrCouponNotFound)
}

// Create adds a new coupon. Codes are unique regardless of case.
func (r *MockCouponRepository) Create(coupon *models.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.coupons {
		if strings.EqualFold(c.Code, coupon.Code) {
			return fmt.Errorf("coupon %s: %w", coupon.Code, models.ErrCouponCodeTaken)
		}
	}
	if coupon.ID == "" {
		coupon.ID = uuid.New().String()
	}
	if coupon.CreatedAt.IsZero() {
		coupon.CreatedAt = time.Now()
	}
	r.coupons[coupon.ID] = *coupon
	return nil
}

// MarkUsed flags a coupon as used. Using a coupon twice is an error.
func (r *MockCouponRepository) MarkUsed(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	coupon, ok := r.coupons[id]
	if !ok {
		return fmt.Errorf("coupon with ID %s: %w", id, models.ErrCouponNotFound)
	}
	if coupon.Used {
		return fmt.Errorf("coupon %s: %w", coupon.Code, models.ErrCouponUsed)
	}
	coupon.Used = true
	r.coupons[id] = coupon
	return nil
}

// Delete removes a coupon by its ID.
func (r *MockCouponRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.coupons[id]; !ok {
		return fmt.Errorf("coupon with ID %s for deletion: %w", id, models.ErrCouponNotFound)
	}
	delete(r.coupons, id)
	return nil
}

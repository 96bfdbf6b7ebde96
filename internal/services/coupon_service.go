package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"sweetspro/internal/models"
	"sweetspro/internal/pricing"
	"sweetspro/internal/repositories"

	"go.uber.org/zap"
)

// CouponService handles coupon issuance, lookup and redemption checks.
type CouponService struct {
	repo       repositories.CouponRepository
	carts      repositories.CartRepository
	calculator *pricing.Calculator
	logger     *zap.Logger
	now        func() time.Time
}

// NewCouponService creates a new CouponService.
func NewCouponService(
	repo repositories.CouponRepository,
	carts repositories.CartRepository,
	calculator *pricing.Calculator,
	logger *zap.Logger,
) *CouponService {
	return &CouponService{
		repo:       repo,
		carts:      carts,
		calculator: calculator,
		logger:     logger,
		now:        time.Now,
	}
}

// GetAllCoupons returns every coupon, used or not.
func (s *CouponService) GetAllCoupons() ([]models.Coupon, error) {
	return s.repo.GetAll()
}

// GetAvailableCoupons returns the coupons that are neither used nor expired.
func (s *CouponService) GetAvailableCoupons() ([]models.Coupon, error) {
	all, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	now := s.now()
	available := make([]models.Coupon, 0, len(all))
	for _, c := range all {
		if !c.Used && !c.Expired(now) {
			available = append(available, c)
		}
	}
	return available, nil
}

// CreateCoupon issues a new coupon. Codes are normalized to upper case and
// percentage coupons may not exceed 100.
func (s *CouponService) CreateCoupon(coupon *models.Coupon) error {
	coupon.Code = strings.ToUpper(strings.TrimSpace(coupon.Code))
	switch coupon.DiscountType {
	case models.DiscountPercentage:
		if coupon.DiscountValue <= 0 || coupon.DiscountValue > 100 {
			return fmt.Errorf("percentage %d: %w", coupon.DiscountValue, models.ErrInvalidDiscount)
		}
	case models.DiscountFixed:
		if coupon.DiscountValue <= 0 {
			return fmt.Errorf("amount %d: %w", coupon.DiscountValue, models.ErrInvalidDiscount)
		}
	default:
		return fmt.Errorf("type %q: %w", coupon.DiscountType, models.ErrInvalidDiscount)
	}
	if coupon.MinPurchase < 0 {
		return fmt.Errorf("minimum purchase %d: %w", coupon.MinPurchase, models.ErrInvalidAmount)
	}
	coupon.Used = false
	if err := s.repo.Create(coupon); err != nil {
		return err
	}
	s.logger.Info("coupon created", zap.String("code", coupon.Code), zap.String("type", string(coupon.DiscountType)))
	return nil
}

// Redeemable looks up a coupon by code and checks that it is unused and
// unexpired. It does not check the minimum purchase.
func (s *CouponService) Redeemable(code string) (*models.Coupon, error) {
	coupon, err := s.repo.GetByCode(strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if coupon.Used {
		return nil, fmt.Errorf("coupon %s: %w", coupon.Code, models.ErrCouponUsed)
	}
	if coupon.Expired(s.now()) {
		return nil, fmt.Errorf("coupon %s: %w", coupon.Code, models.ErrCouponExpired)
	}
	return coupon, nil
}

// Preview prices the user's current cart with the coupon. An ineligible
// coupon returns the undiscounted quote together with ErrIneligibleCoupon.
func (s *CouponService) Preview(ctx context.Context, userID, code string) (pricing.Quote, error) {
	coupon, err := s.Redeemable(code)
	if err != nil {
		return pricing.Quote{}, err
	}
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return pricing.Quote{}, err
	}
	return s.calculator.Quote(cart.Subtotal(), coupon)
}

// MarkUsed flags the coupon as redeemed.
func (s *CouponService) MarkUsed(id string) error {
	return s.repo.MarkUsed(id)
}

// DeleteCoupon removes a coupon.
func (s *CouponService) DeleteCoupon(id string) error {
	return s.repo.Delete(id)
}

package handlers

import (
	"errors"
	"fmt"

	"sweetspro/internal/middleware"
	"sweetspro/internal/models"
	"sweetspro/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CouponHandler handles HTTP requests for coupons.
type CouponHandler struct {
	service  *services.CouponService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCouponHandler creates a new CouponHandler.
func NewCouponHandler(service *services.CouponService, logger *zap.Logger) *CouponHandler {
	return &CouponHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the coupon routes behind auth.
func (h *CouponHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	couponRoutes := router.Group("/coupons", auth)
	couponRoutes.Get("/", h.HandleGetCoupons)
	couponRoutes.Post("/", h.HandleCreateCoupon)
	couponRoutes.Post("/preview", h.HandlePreview)
	couponRoutes.Delete("/:id", h.HandleDeleteCoupon)
}

// PreviewRequest is the body of POST /coupons/preview.
type PreviewRequest struct {
	Code string `json:"code" validate:"required"`
}

// HandleGetCoupons lists the coupons that can still be redeemed. Pass
// ?all=true to include used and expired ones.
func (h *CouponHandler) HandleGetCoupons(c *fiber.Ctx) error {
	var (
		coupons []models.Coupon
		err     error
	)
	if c.QueryBool("all") {
		coupons, err = h.service.GetAllCoupons()
	} else {
		coupons, err = h.service.GetAvailableCoupons()
	}
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve coupons", err)
	}
	return c.JSON(coupons)
}

func (h *CouponHandler) HandleCreateCoupon(c *fiber.Ctx) error {
	var coupon models.Coupon
	if ok, err := parseAndValidate(c, h.validate, &coupon); !ok {
		return err
	}
	coupon.ID = ""
	if err := h.service.CreateCoupon(&coupon); err != nil {
		return respondError(c, h.logger, "Could not create coupon", err)
	}
	return c.Status(fiber.StatusCreated).JSON(coupon)
}

// HandlePreview prices the current cart with a coupon code. When the cart
// is below the coupon's minimum purchase the undiscounted quote is returned
// alongside the 422.
func (h *CouponHandler) HandlePreview(c *fiber.Ctx) error {
	var req PreviewRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	quote, err := h.service.Preview(c.UserContext(), middleware.CurrentUserID(c), req.Code)
	if errors.Is(err, models.ErrIneligibleCoupon) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "Coupon is not applicable to this cart",
			"error":   err.Error(),
			"quote":   quote,
		})
	}
	if err != nil {
		return respondError(c, h.logger, "Could not apply coupon", err)
	}
	return c.JSON(quote)
}

func (h *CouponHandler) HandleDeleteCoupon(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteCoupon(id); err != nil {
		return respondError(c, h.logger, "Could not delete coupon", err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Coupon %s deleted successfully", id),
	})
}

package handlers

import (
	"sweetspro/internal/middleware"
	"sweetspro/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CartHandler handles HTTP requests for the current user's cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the cart routes behind auth.
func (h *CartHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	cartRoutes := router.Group("/cart", auth)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Delete("/", h.HandleClearCart)
	cartRoutes.Post("/items", h.HandleAddItem)
	cartRoutes.Patch("/items/:lineId", h.HandleUpdateItem)
	cartRoutes.Delete("/items/:lineId", h.HandleRemoveItem)
}

// AddItemRequest is the body of POST /cart/items.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// UpdateItemRequest is the body of PATCH /cart/items/:lineId. A quantity of
// zero removes the line.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// HandleGetCart returns the cart summary.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	summary, err := h.service.GetCart(c.UserContext(), middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve cart", err)
	}
	return c.JSON(summary)
}

// HandleAddItem adds a product to the cart, merging with an existing line.
func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	summary, err := h.service.AddItem(c.UserContext(), middleware.CurrentUserID(c), req.ProductID, req.Quantity)
	if err != nil {
		return respondError(c, h.logger, "Could not add item to cart", err)
	}
	return c.Status(fiber.StatusCreated).JSON(summary)
}

// HandleUpdateItem sets a line's quantity.
func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req UpdateItemRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	summary, err := h.service.UpdateItemQuantity(c.UserContext(), middleware.CurrentUserID(c), c.Params("lineId"), req.Quantity)
	if err != nil {
		return respondError(c, h.logger, "Could not update cart item", err)
	}
	return c.JSON(summary)
}

// HandleRemoveItem removes a line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	summary, err := h.service.RemoveItem(c.UserContext(), middleware.CurrentUserID(c), c.Params("lineId"))
	if err != nil {
		return respondError(c, h.logger, "Could not remove cart item", err)
	}
	return c.JSON(summary)
}

// HandleClearCart empties the cart.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	if err := h.service.ClearCart(c.UserContext(), middleware.CurrentUserID(c)); err != nil {
		return respondError(c, h.logger, "Could not clear cart", err)
	}
	return c.JSON(fiber.Map{"message": "Cart cleared"})
}

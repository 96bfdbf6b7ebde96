package handlers

import (
	"sweetspro/internal/middleware"
	"sweetspro/internal/models"
	"sweetspro/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for checkout and orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the checkout and order routes behind auth.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	router.Post("/checkout", auth, h.HandleCheckout)

	orderRoutes := router.Group("/orders", auth)
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// UpdateStatusRequest is the body of PATCH /orders/:id/status.
type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status" validate:"required"`
}

// HandleCheckout turns the current user's cart into an order.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	var req services.CheckoutRequest
	// An empty body checks out with defaults.
	if len(c.Body()) > 0 {
		if ok, err := parseAndValidate(c, h.validate, &req); !ok {
			return err
		}
	}

	result, err := h.service.Checkout(c.UserContext(), middleware.CurrentUserID(c), req)
	if err != nil {
		return respondError(c, h.logger, "Checkout failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(result)
}

// HandleGetOrders lists the current user's orders, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetUserOrders(middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve orders", err)
	}
	return c.JSON(orders)
}

// HandleGetOrderByID returns one of the current user's orders.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetUserOrder(middleware.CurrentUserID(c), c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "Order not found", err)
	}
	return c.JSON(order)
}

// HandleUpdateOrderStatus moves one of the current user's orders along its
// lifecycle.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}

	id := c.Params("id")
	if _, err := h.service.GetUserOrder(middleware.CurrentUserID(c), id); err != nil {
		return respondError(c, h.logger, "Order not found", err)
	}
	if err := h.service.UpdateOrderStatus(id, req.Status); err != nil {
		return respondError(c, h.logger, "Could not update order status", err)
	}

	order, err := h.service.GetOrderByID(id)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve order", err)
	}
	return c.JSON(order)
}

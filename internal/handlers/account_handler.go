package handlers

import (
	"sweetspro/internal/middleware"
	"sweetspro/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AccountHandler handles HTTP requests for the current user's account.
type AccountHandler struct {
	service  *services.AccountService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(service *services.AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the account routes behind auth.
func (h *AccountHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	accountRoutes := router.Group("/account", auth)
	accountRoutes.Get("/", h.HandleGetAccount)
	accountRoutes.Put("/", h.HandleUpdateProfile)
	accountRoutes.Get("/membership", h.HandleGetMembership)
	accountRoutes.Get("/favorites", h.HandleGetFavorites)
	accountRoutes.Post("/favorites/:productId", h.HandleToggleFavorite)
}

// HandleGetAccount returns the current user's profile and loyalty fields.
func (h *AccountHandler) HandleGetAccount(c *fiber.Ctx) error {
	user, err := h.service.GetAccount(middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve account", err)
	}
	return c.JSON(user)
}

// HandleUpdateProfile overwrites the supplied profile fields.
func (h *AccountHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req services.ProfileUpdate
	if ok, err := parseAndValidate(c, h.validate, &req); !ok {
		return err
	}
	user, err := h.service.UpdateProfile(middleware.CurrentUserID(c), req)
	if err != nil {
		return respondError(c, h.logger, "Could not update profile", err)
	}
	return c.JSON(user)
}

// HandleGetMembership reports the tier and the distance to the next one.
func (h *AccountHandler) HandleGetMembership(c *fiber.Ctx) error {
	progress, err := h.service.Membership(middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve membership", err)
	}
	return c.JSON(progress)
}

// HandleGetFavorites lists the current user's favorite products.
func (h *AccountHandler) HandleGetFavorites(c *fiber.Ctx) error {
	products, err := h.service.GetFavorites(middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve favorites", err)
	}
	return c.JSON(products)
}

// HandleToggleFavorite adds the product to favorites, or removes it if it
// is already there.
func (h *AccountHandler) HandleToggleFavorite(c *fiber.Ctx) error {
	toggle, err := h.service.ToggleFavorite(middleware.CurrentUserID(c), c.Params("productId"))
	if err != nil {
		return respondError(c, h.logger, "Could not update favorites", err)
	}
	return c.JSON(toggle)
}

package handlers

import (
	"errors"
	"fmt"

	"sweetspro/internal/models"
	"sweetspro/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// statusFor maps a service error onto an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrCouponNotFound),
		errors.Is(err, models.ErrLineNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrUsernameTaken),
		errors.Is(err, models.ErrEmailTaken),
		errors.Is(err, models.ErrCouponCodeTaken),
		errors.Is(err, models.ErrInvalidTransition):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrIneligibleCoupon),
		errors.Is(err, models.ErrCouponUsed),
		errors.Is(err, models.ErrCouponExpired):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrInvalidPrice),
		errors.Is(err, models.ErrInvalidPoints),
		errors.Is(err, models.ErrInvalidAmount),
		errors.Is(err, models.ErrInvalidStatus),
		errors.Is(err, models.ErrInvalidRating),
		errors.Is(err, models.ErrInvalidDiscount),
		errors.Is(err, models.ErrEmptyCart):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return fiber.StatusUnauthorized
	}
	return fiber.StatusInternalServerError
}

// respondError writes the {message, error} body used by every handler.
// Unexpected errors are logged and their detail is not exposed.
func respondError(c *fiber.Ctx, logger *zap.Logger, message string, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		logger.Error(message, zap.String("path", c.Path()), zap.Error(err))
		return c.Status(status).JSON(fiber.Map{
			"message": message,
		})
	}
	logger.Debug(message, zap.String("path", c.Path()), zap.Error(err))
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

// parseAndValidate decodes the request body into dst and validates it. On
// failure it writes the 400 response and returns false.
func parseAndValidate(c *fiber.Ctx, validate *validator.Validate, dst any) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"error":   err.Error(),
			})
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return true, nil
}

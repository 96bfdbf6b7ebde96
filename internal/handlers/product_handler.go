package handlers

import (
	"fmt"

	"sweetspro/internal/middleware"
	"sweetspro/internal/models"
	"sweetspro/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for the catalog and product reviews.
type ProductHandler struct {
	service  *services.ProductService
	reviews  *services.ReviewService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, reviews *services.ReviewService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		reviews:  reviews,
		validate: validator.New(),
		logger:   logger,
	}
}

// RegisterRoutes registers the product routes. Reads are public; writes go
// through auth.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", auth, h.HandleCreateProduct)
	productRoutes.Put("/:id", auth, h.HandleUpdateProduct)
	productRoutes.Delete("/:id", auth, h.HandleDeleteProduct)

	productRoutes.Get("/:id/reviews", h.HandleGetReviews)
	productRoutes.Post("/:id/reviews", auth, h.HandleCreateReview)
}

// HandleGetProducts lists products, optionally filtered by ?category=.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts(c.Query("category"))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, fmt.Sprintf("Product with ID %s not found", c.Params("id")), err)
	}
	return c.JSON(product)
}

// HandleCreateProduct lists a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if ok, err := parseAndValidate(c, h.validate, &product); !ok {
		return err
	}
	product.ID = ""
	if err := h.service.CreateProduct(&product); err != nil {
		return respondError(c, h.logger, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct replaces a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if ok, err := parseAndValidate(c, h.validate, &product); !ok {
		return err
	}
	product.ID = c.Params("id")
	if err := h.service.UpdateProduct(&product); err != nil {
		return respondError(c, h.logger, "Could not update product", err)
	}
	updated, err := h.service.GetProductByID(product.ID)
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve product", err)
	}
	return c.JSON(updated)
}

// HandleDeleteProduct delists a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.DeleteProduct(id); err != nil {
		return respondError(c, h.logger, "Could not delete product", err)
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Product %s deleted successfully", id),
	})
}

// HandleGetReviews lists a product's reviews and average rating.
func (h *ProductHandler) HandleGetReviews(c *fiber.Ctx) error {
	reviews, err := h.reviews.GetProductReviews(c.Params("id"))
	if err != nil {
		return respondError(c, h.logger, "Could not retrieve reviews", err)
	}
	return c.JSON(reviews)
}

// HandleCreateReview adds the current user's review of a product.
func (h *ProductHandler) HandleCreateReview(c *fiber.Ctx) error {
	var review models.Review
	if ok, err := parseAndValidate(c, h.validate, &review); !ok {
		return err
	}
	review.ProductID = c.Params("id")
	if err := h.reviews.AddReview(middleware.CurrentUserID(c), &review); err != nil {
		return respondError(c, h.logger, "Could not add review", err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

package services

import (
	"fmt"

	"sweetspro/internal/models"
	"sweetspro/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products, or those of one category when
// category is not empty.
func (s *ProductService) GetAllProducts(category string) ([]models.Product, error) {
	if category != "" {
		return s.repo.GetByCategory(category)
	}
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct lists a new product.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if product.Price <= 0 {
		return fmt.Errorf("product %s: %w", product.Name, models.ErrInvalidPrice)
	}
	return s.repo.Create(product)
}

// UpdateProduct replaces an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if product.Price <= 0 {
		return fmt.Errorf("product %s: %w", product.Name, models.ErrInvalidPrice)
	}
	return s.repo.Update(product)
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id string) error {
	return s.repo.Delete(id)
}

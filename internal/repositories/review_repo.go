package repositories

import "sweetspro/internal/models"

// ReviewRepository defines the interface for product review data access.
type ReviewRepository interface {
	GetByProductID(productID string) ([]models.Review, error)
	Create(review *models.Review) error
}

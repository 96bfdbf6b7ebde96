package repositories

import (
	"sync"
	"time"

	"sweetspro/internal/models"

	"github.com/google/uuid"
)

// MockReviewRepository is an in-memory implementation of ReviewRepository.
// Reviews are kept newest first per product.
type MockReviewRepository struct {
	reviews map[string][]models.Review
	mu      sync.RWMutex
}

// NewMockReviewRepository creates a new instance of MockReviewRepository.
func NewMockReviewRepository() *MockReviewRepository {
	return &MockReviewRepository{
		reviews: make(map[string][]models.Review),
	}
}

// GetByProductID returns the reviews of a product, newest first.
func (r *MockReviewRepository) GetByProductID(productID string) ([]models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]models.Review{}, r.reviews[productID]...), nil
}

// Create prepends a review to its product's list.
func (r *MockReviewRepository) Create(review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}
	r.reviews[review.ProductID] = append([]models.Review{*review}, r.reviews[review.ProductID]...)
	return nil
}

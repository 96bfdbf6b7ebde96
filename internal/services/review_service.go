package services

import (
	"fmt"

	"sweetspro/internal/models"
	"sweetspro/internal/repositories"
)

// ProductReviews is a product's reviews with their average rating.
type ProductReviews struct {
	ProductID     string          `json:"product_id"`
	AverageRating float64         `json:"average_rating"`
	Count         int             `json:"count"`
	Reviews       []models.Review `json:"reviews"`
}

// ReviewService handles product reviews.
type ReviewService struct {
	reviews  repositories.ReviewRepository
	products repositories.ProductRepository
	users    repositories.UserRepository
}

// NewReviewService creates a new ReviewService.
func NewReviewService(
	reviews repositories.ReviewRepository,
	products repositories.ProductRepository,
	users repositories.UserRepository,
) *ReviewService {
	return &ReviewService{reviews: reviews, products: products, users: users}
}

// AddReview records a review by userID. The reviewer's display name is the
// account name, or the username when no name is set.
func (s *ReviewService) AddReview(userID string, review *models.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return fmt.Errorf("rating %d: %w", review.Rating, models.ErrInvalidRating)
	}
	if _, err := s.products.GetByID(review.ProductID); err != nil {
		return err
	}
	user, err := s.users.GetByID(userID)
	if err != nil {
		return err
	}

	review.ID = ""
	review.UserID = user.ID
	review.UserName = user.Name
	if review.UserName == "" {
		review.UserName = user.Username
	}
	return s.reviews.Create(review)
}

// GetProductReviews returns a product's reviews, newest first, with the
// average rating. The average is 0 when there are no reviews.
func (s *ReviewService) GetProductReviews(productID string) (ProductReviews, error) {
	if _, err := s.products.GetByID(productID); err != nil {
		return ProductReviews{}, err
	}
	reviews, err := s.reviews.GetByProductID(productID)
	if err != nil {
		return ProductReviews{}, err
	}
	return ProductReviews{
		ProductID:     productID,
		AverageRating: AverageRating(reviews),
		Count:         len(reviews),
		Reviews:       reviews,
	}, nil
}

// AverageRating returns the mean rating, or 0 for no reviews.
func AverageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}

package repositories

import (
	"context"

	"sweetspro/internal/models"
)

// CartRepository stores one session cart per user.
type CartRepository interface {
	// Get returns the user's cart, or a new empty cart if none is stored.
	Get(ctx context.Context, userID string) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	Delete(ctx context.Context, userID string) error
}

package repositories

import (
	"context"
	"sync"

	"sweetspro/internal/models"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	carts map[string]models.Cart
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string]models.Cart),
	}
}

// Get returns a copy of the user's cart.
func (r *MockCartRepository) Get(_ context.Context, userID string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[userID]
	if !ok {
		return models.NewCart(userID), nil
	}
	cart.Lines = append([]models.CartLine{}, cart.Lines...)
	return &cart, nil
}

// Save stores a copy of cart.
func (r *MockCartRepository) Save(_ context.Context, cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *cart
	stored.Lines = append([]models.CartLine{}, cart.Lines...)
	r.carts[cart.UserID] = stored
	return nil
}

// Delete drops the user's cart.
func (r *MockCartRepository) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.carts, userID)
	return nil
}

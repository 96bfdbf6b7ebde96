package services

import (
	"context"
	"fmt"

	"sweetspro/internal/models"
	"sweetspro/internal/pricing"
	"sweetspro/internal/repositories"

	"go.uber.org/zap"
)

// CartSummary is a cart together with its derived totals.
type CartSummary struct {
	UserID      string            `json:"user_id"`
	Lines       []models.CartLine `json:"lines"`
	ItemCount   int               `json:"item_count"`
	Subtotal    int64             `json:"subtotal"`
	DeliveryFee int64             `json:"delivery_fee"`
	Total       int64             `json:"total"`
}

// CartService manages each user's session cart.
type CartService struct {
	carts      repositories.CartRepository
	products   repositories.ProductRepository
	calculator *pricing.Calculator
	locker     *AccountLocker
	logger     *zap.Logger
}

// NewCartService creates a new CartService.
func NewCartService(
	carts repositories.CartRepository,
	products repositories.ProductRepository,
	calculator *pricing.Calculator,
	locker *AccountLocker,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		carts:      carts,
		products:   products,
		calculator: calculator,
		locker:     locker,
		logger:     logger,
	}
}

// Summarize derives item count, subtotal, delivery fee and total from cart.
func (s *CartService) Summarize(cart *models.Cart) CartSummary {
	subtotal := cart.Subtotal()
	return CartSummary{
		UserID:      cart.UserID,
		Lines:       cart.Lines,
		ItemCount:   cart.ItemCount(),
		Subtotal:    subtotal,
		DeliveryFee: s.calculator.DeliveryFee(subtotal),
		Total:       s.calculator.Total(subtotal),
	}
}

// GetCart returns the user's cart summary.
func (s *CartService) GetCart(ctx context.Context, userID string) (CartSummary, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return CartSummary{}, err
	}
	return s.Summarize(cart), nil
}

// AddItem adds qty units of a product to the user's cart.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, qty int) (CartSummary, error) {
	if qty <= 0 {
		return CartSummary{}, fmt.Errorf("add %d of product %s: %w", qty, productID, models.ErrInvalidQuantity)
	}
	product, err := s.products.GetByID(productID)
	if err != nil {
		return CartSummary{}, err
	}

	return s.mutate(ctx, userID, func(cart *models.Cart) error {
		_, err := cart.AddToCart(*product, qty)
		return err
	})
}

// RemoveItem deletes a line from the user's cart.
func (s *CartService) RemoveItem(ctx context.Context, userID, lineID string) (CartSummary, error) {
	return s.mutate(ctx, userID, func(cart *models.Cart) error {
		return cart.RemoveFromCart(lineID)
	})
}

// UpdateItemQuantity replaces a line's quantity; zero removes the line.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, lineID string, qty int) (CartSummary, error) {
	return s.mutate(ctx, userID, func(cart *models.Cart) error {
		return cart.UpdateQuantity(lineID, qty)
	})
}

// ClearCart empties the user's cart.
func (s *CartService) ClearCart(ctx context.Context, userID string) error {
	unlock := s.locker.Lock(userID)
	defer unlock()
	return s.carts.Delete(ctx, userID)
}

// mutate loads the cart under the account lock, applies fn and saves the
// result. The cart is not saved when fn fails.
func (s *CartService) mutate(ctx context.Context, userID string, fn func(*models.Cart) error) (CartSummary, error) {
	unlock := s.locker.Lock(userID)
	defer unlock()

	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return CartSummary{}, err
	}
	if err := fn(cart); err != nil {
		return CartSummary{}, err
	}
	if err := s.carts.Save(ctx, cart); err != nil {
		return CartSummary{}, err
	}
	s.logger.Debug("cart updated",
		zap.String("user_id", userID),
		zap.Int("lines", len(cart.Lines)),
		zap.Int64("subtotal", cart.Subtotal()))
	return s.Summarize(cart), nil
}

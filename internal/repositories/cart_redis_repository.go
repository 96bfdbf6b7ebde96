package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sweetspro/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	cartKeyPrefix = "cart:"
	cartTTL       = 7 * 24 * time.Hour
)

// RedisCartRepository keeps carts as JSON documents in Redis. Each save
// refreshes the key's expiry so abandoned carts age out.
type RedisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartRepository creates a new instance of RedisCartRepository.
func NewRedisCartRepository(client *redis.Client) *RedisCartRepository {
	return &RedisCartRepository{client: client, ttl: cartTTL}
}

// Get loads the user's cart.
func (r *RedisCartRepository) Get(ctx context.Context, userID string) (*models.Cart, error) {
	data, err := r.client.Get(ctx, cartKeyPrefix+userID).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.NewCart(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for user %s: %w", userID, err)
	}

	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart for user %s: %w", userID, err)
	}
	if cart.Lines == nil {
		cart.Lines = []models.CartLine{}
	}
	return &cart, nil
}

// Save writes the cart and refreshes its expiry.
func (r *RedisCartRepository) Save(ctx context.Context, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart for user %s: %w", cart.UserID, err)
	}
	if err := r.client.Set(ctx, cartKeyPrefix+cart.UserID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart for user %s: %w", cart.UserID, err)
	}
	return nil
}

// Delete removes the user's cart.
func (r *RedisCartRepository) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cartKeyPrefix+userID).Err(); err != nil {
		return fmt.Errorf("failed to delete cart for user %s: %w", userID, err)
	}
	return nil
}

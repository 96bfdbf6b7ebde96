package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"sweetspro/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// GetAll returns all orders, newest first.
func (r *MockOrderRepository) GetAll() ([]models.Order, error) {
	return r.filter(func(models.Order) bool { return true }), nil
}

// GetByUserID returns a user's orders, newest first.
func (r *MockOrderRepository) GetByUserID(userID string) ([]models.Order, error) {
	return r.filter(func(o models.Order) bool { return o.UserID == userID }), nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, models.ErrOrderNotFound)
	}
	order.Items = append([]models.OrderItem(nil), order.Items...)
	return &order, nil
}

// Create adds a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.UpdatedAt = order.CreatedAt
	stored := *order
	stored.Items = append([]models.OrderItem(nil), order.Items...)
	r.orders[order.ID] = stored
	return nil
}

// UpdateStatus moves an order from one status to another.
func (r *MockOrderRepository) UpdateStatus(id string, from, to models.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return fmt.Errorf("order with ID %s for status update: %w", id, models.ErrOrderNotFound)
	}
	if order.Status != from {
		return fmt.Errorf("order %s is no longer %s: %w", id, from, models.ErrInvalidTransition)
	}
	order.Status = to
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return nil
}

func (r *MockOrderRepository) filter(keep func(models.Order) bool) []models.Order {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orderList := make([]models.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if keep(order) {
			orderList = append(orderList, order)
		}
	}
	sort.Slice(orderList, func(i, j int) bool {
		return orderList[i].CreatedAt.After(orderList[j].CreatedAt)
	})
	return orderList
}

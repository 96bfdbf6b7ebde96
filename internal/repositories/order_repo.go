package repositories

import (
	"sweetspro/internal/models"
)

// OrderRepository defines the interface for order data access.
// Orders are immutable apart from their status.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByUserID(userID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	UpdateStatus(id string, from, to models.OrderStatus) error
}

package repositories

import (
	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// Create persists the order and all of its items atomically: either every
	// row is committed or none are.
	Create(order *models.Order) error
	// GetByUser returns the user's orders newest first, items included.
	GetByUser(userID uint) ([]models.Order, error)
	// GetByID returns the order only if it belongs to the given user.
	GetByID(id uint, userID uint) (*models.Order, error)
	UpdateStatus(id uint, status string) error
}

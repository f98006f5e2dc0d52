package repositories

import "storefront/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	// GetByID returns an active user by primary key.
	GetByID(id uint) (*models.User, error)
	// GetByUsername and GetByEmail see inactive users too, so registration
	// conflict checks hold across soft-deleted accounts.
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	// GetByIdentifier matches a single identifier against both the username
	// and email columns, restricted to active users.
	GetByIdentifier(identifier string) (*models.User, error)
	UpdateLastLogin(id uint) error
	UpdatePassword(id uint, passwordHash string) error
	// UpdateProfile applies a column-whitelisted set of profile fields.
	UpdateProfile(id uint, fields map[string]interface{}) error
}

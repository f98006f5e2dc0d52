package repositories

import (
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database. A unique-index violation on the
// username or email column is reported as ErrDuplicate.
func (r *GORMUserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves an active user by primary key.
func (r *GORMUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ? AND is_active = ?", id, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID %d: %w", id, err)
	}
	return &user, nil
}

// GetByUsername retrieves a user by their username.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by username %s: %w", username, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetByIdentifier retrieves an active user whose username or email equals the
// given identifier.
func (r *GORMUserRepository) GetByIdentifier(identifier string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "(username = ? OR email = ?) AND is_active = ?", identifier, identifier, true).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by identifier: %w", err)
	}
	return &user, nil
}

// UpdateLastLogin stamps the user's last successful login.
func (r *GORMUserRepository) UpdateLastLogin(id uint) error {
	now := time.Now()
	res := r.db.Model(&models.User{}).Where("id = ?", id).Update("last_login", &now)
	if res.Error != nil {
		return fmt.Errorf("failed to update last login for user %d: %w", id, res.Error)
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *GORMUserRepository) UpdatePassword(id uint, passwordHash string) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Update("password", passwordHash)
	if res.Error != nil {
		return fmt.Errorf("failed to update password for user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateProfile applies the given fields to the user row. Callers are expected
// to pass only whitelisted column names; the map keys are used verbatim as
// columns with bound parameters.
func (r *GORMUserRepository) UpdateProfile(id uint, fields map[string]interface{}) error {
	res := r.db.Model(&models.User{}).Where("id = ? AND is_active = ?", id, true).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update profile for user %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

package repositories

import (
	"errors"
	"fmt"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// GORMWishlistRepository is a GORM implementation of WishlistRepository.
type GORMWishlistRepository struct {
	db *gorm.DB
}

// NewGORMWishlistRepository creates a new instance of GORMWishlistRepository.
func NewGORMWishlistRepository(db *gorm.DB) *GORMWishlistRepository {
	return &GORMWishlistRepository{
		db: db,
	}
}

// Add inserts a wishlist entry. The composite unique index on
// (user_id, product_id) rejects duplicates that slip past the service check;
// those surface as ErrDuplicate.
func (r *GORMWishlistRepository) Add(entry *models.WishlistEntry) error {
	if err := r.db.Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to add wishlist entry: %w", err)
	}
	return nil
}

// Remove deletes the pair. Zero rows affected is still a success.
func (r *GORMWishlistRepository) Remove(userID uint, productID int64) error {
	res := r.db.Delete(&models.WishlistEntry{}, "user_id = ? AND product_id = ?", userID, productID)
	if res.Error != nil {
		return fmt.Errorf("failed to remove wishlist entry: %w", res.Error)
	}
	return nil
}

// List returns the user's entries newest first.
func (r *GORMWishlistRepository) List(userID uint) ([]models.WishlistEntry, error) {
	var entries []models.WishlistEntry
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist for user %d: %w", userID, err)
	}
	return entries, nil
}

// Contains reports whether the pair is present.
func (r *GORMWishlistRepository) Contains(userID uint, productID int64) (bool, error) {
	var count int64
	err := r.db.Model(&models.WishlistEntry{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check wishlist for user %d: %w", userID, err)
	}
	return count > 0, nil
}

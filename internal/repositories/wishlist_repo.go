package repositories

import "storefront/internal/models"

// WishlistRepository defines the interface for wishlist data access.
type WishlistRepository interface {
	Add(entry *models.WishlistEntry) error
	// Remove deletes the pair if present; removing an absent pair is not an
	// error.
	Remove(userID uint, productID int64) error
	// List returns the user's entries newest first.
	List(userID uint) ([]models.WishlistEntry, error)
	Contains(userID uint, productID int64) (bool, error)
}

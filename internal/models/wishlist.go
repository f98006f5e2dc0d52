package models

import "time"

// WishlistEntry marks a product a user has saved. At most one entry may exist
// per (user, product) pair, enforced by the composite unique index.
type WishlistEntry struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:idx_wishlist_user_product"`
	ProductID int64     `json:"product_id" gorm:"uniqueIndex:idx_wishlist_user_product"`
	CreatedAt time.Time `json:"created_at"`
}

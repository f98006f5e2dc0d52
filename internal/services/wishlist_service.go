package services

import (
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// WishlistService handles business logic for the wishlist.
type WishlistService struct {
	repo repositories.WishlistRepository
}

// NewWishlistService creates a new WishlistService.
func NewWishlistService(repo repositories.WishlistRepository) *WishlistService {
	return &WishlistService{
		repo: repo,
	}
}

// Add saves the product for the user. Adding a product that is already present
// is reported as a conflict rather than silently succeeding.
func (s *WishlistService) Add(userID uint, productID int64) error {
	exists, err := s.repo.Contains(userID, productID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: item already in wishlist", ErrAlreadyExists)
	}
	if err := s.repo.Add(&models.WishlistEntry{UserID: userID, ProductID: productID}); err != nil {
		// A racing add can lose to the unique index after the check above.
		if errors.Is(err, repositories.ErrDuplicate) {
			return fmt.Errorf("%w: item already in wishlist", ErrAlreadyExists)
		}
		return err
	}
	return nil
}

// Remove deletes the pair. Removing an absent pair still succeeds, which keeps
// client logic simple.
func (s *WishlistService) Remove(userID uint, productID int64) error {
	return s.repo.Remove(userID, productID)
}

// List returns the user's entries newest first.
func (s *WishlistService) List(userID uint) ([]models.WishlistEntry, error) {
	return s.repo.List(userID)
}

// Contains reports whether the product is on the user's wishlist.
func (s *WishlistService) Contains(userID uint, productID int64) (bool, error) {
	return s.repo.Contains(userID, productID)
}

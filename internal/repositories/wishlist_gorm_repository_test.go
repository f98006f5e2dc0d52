package repositories_test

import (
	"testing"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/stretchr/testify/assert"
)

func TestGORMWishlistRepository_AddAndContains(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMWishlistRepository(db)

	assert.NoError(t, repo.Add(&models.WishlistEntry{UserID: 1, ProductID: 3}))

	found, err := repo.Contains(1, 3)
	assert.NoError(t, err)
	assert.True(t, found)

	found, err = repo.Contains(1, 4)
	assert.NoError(t, err)
	assert.False(t, found)

	// The other user's wishlist is unaffected.
	found, err = repo.Contains(2, 3)
	assert.NoError(t, err)
	assert.False(t, found)
}

func TestGORMWishlistRepository_Add_DuplicateRejectedByIndex(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMWishlistRepository(db)

	assert.NoError(t, repo.Add(&models.WishlistEntry{UserID: 1, ProductID: 3}))

	// A duplicate that skips the service-level check still cannot create a
	// second row, and the constraint loss reads as ErrDuplicate.
	err := repo.Add(&models.WishlistEntry{UserID: 1, ProductID: 3})
	assert.ErrorIs(t, err, repositories.ErrDuplicate)

	var count int64
	db.Model(&models.WishlistEntry{}).Where("user_id = ? AND product_id = ?", 1, 3).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGORMWishlistRepository_Remove(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMWishlistRepository(db)

	assert.NoError(t, repo.Add(&models.WishlistEntry{UserID: 1, ProductID: 3}))
	assert.NoError(t, repo.Remove(1, 3))

	found, err := repo.Contains(1, 3)
	assert.NoError(t, err)
	assert.False(t, found)

	// Removing a pair that is not there is still a success.
	assert.NoError(t, repo.Remove(1, 999))
}

func TestGORMWishlistRepository_List_NewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMWishlistRepository(db)

	first := &models.WishlistEntry{UserID: 1, ProductID: 3}
	second := &models.WishlistEntry{UserID: 1, ProductID: 5}
	assert.NoError(t, repo.Add(first))
	assert.NoError(t, repo.Add(second))
	assert.NoError(t, repo.Add(&models.WishlistEntry{UserID: 2, ProductID: 3}))

	db.Model(first).Update("created_at", time.Now().Add(-time.Hour))

	entries, err := repo.List(1)
	assert.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, int64(5), entries[0].ProductID)
	assert.Equal(t, int64(3), entries[1].ProductID)
}

package repositories

import (
	"fmt"
	"time"

	"storefront/internal/models"

	"gorm.io/gorm"
)

// GORMResetTokenRepository is a GORM implementation of ResetTokenRepository.
type GORMResetTokenRepository struct {
	db *gorm.DB
}

// NewGORMResetTokenRepository creates a new instance of GORMResetTokenRepository.
func NewGORMResetTokenRepository(db *gorm.DB) *GORMResetTokenRepository {
	return &GORMResetTokenRepository{
		db: db,
	}
}

// Create stores a freshly issued reset token.
func (r *GORMResetTokenRepository) Create(token *models.PasswordResetToken) error {
	if err := r.db.Create(token).Error; err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

// Redeem claims the token and updates the owning user's password in a single
// transaction. The conditional UPDATE on the used flag is what makes the token
// single-use under concurrent redemption: only the request that flips
// used=false to used=true proceeds, the loser sees zero rows affected.
func (r *GORMResetTokenRepository) Redeem(token string, passwordHash string) (bool, error) {
	redeemed := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.PasswordResetToken{}).
			Where("token = ? AND used = ? AND expires_at > ?", token, false, time.Now()).
			Update("used", true)
		if res.Error != nil {
			return fmt.Errorf("failed to claim reset token: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}

		var row models.PasswordResetToken
		if err := tx.First(&row, "token = ?", token).Error; err != nil {
			return fmt.Errorf("failed to load claimed reset token: %w", err)
		}

		userRes := tx.Model(&models.User{}).Where("id = ?", row.UserID).Update("password", passwordHash)
		if userRes.Error != nil {
			return fmt.Errorf("failed to update password for user %d: %w", row.UserID, userRes.Error)
		}
		if userRes.RowsAffected == 0 {
			return fmt.Errorf("reset token %d references missing user %d", row.ID, row.UserID)
		}

		redeemed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return redeemed, nil
}

package repositories

import "storefront/internal/models"

// ResetTokenRepository defines the interface for password-reset token access.
type ResetTokenRepository interface {
	Create(token *models.PasswordResetToken) error
	// Redeem atomically claims an unused, unexpired token and replaces the
	// owning user's password hash. It returns false when no such token exists,
	// which covers unknown, expired and already-used tokens alike.
	Redeem(token string, passwordHash string) (bool, error)
}

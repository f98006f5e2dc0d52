package models

import "time"

// User represents a customer account.
type User struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Username string `json:"username" gorm:"uniqueIndex;type:varchar(50)" validate:"required,min=3,max=50"`
	Email    string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password string `json:"-" gorm:"type:varchar(255)"` // bcrypt hash, never serialized
	FullName string `json:"full_name,omitempty" gorm:"type:varchar(255)"`
	Phone    string `json:"phone,omitempty" gorm:"type:varchar(50)"`
	Address  string `json:"address,omitempty" gorm:"type:varchar(500)"`
	// Soft-delete marker: inactive users are excluded from logins and lookups.
	IsActive  bool       `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// PasswordResetToken is a single-use, time-limited credential-recovery artifact.
// Used is monotonic: once set it is never cleared, so a token can authorize at
// most one password update.
type PasswordResetToken struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Token     string    `json:"-" gorm:"uniqueIndex;type:varchar(64)"`
	UserID    uint      `json:"user_id" gorm:"index"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
}

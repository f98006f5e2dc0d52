package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"time"

	"storefront/internal/mailer"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost        = 12
	minPasswordLength = 8
	resetTokenBytes   = 32 // 256 bits of randomness, hex-encoded
	resetTokenTTL     = time.Hour
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// AuthService handles registration, login, credential changes and the
// password-reset token lifecycle.
type AuthService struct {
	userRepo  repositories.UserRepository
	tokenRepo repositories.ResetTokenRepository
	mailer    mailer.Mailer
	logger    *zap.Logger
}

// NewAuthService creates a new AuthService. The mailer may be nil, in which
// case reset tokens are issued but not delivered (useful in tests).
func NewAuthService(userRepo repositories.UserRepository, tokenRepo repositories.ResetTokenRepository, m mailer.Mailer, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		mailer:    m,
		logger:    logger.Named("auth"),
	}
}

// Register validates the input, checks for conflicts, hashes the password and
// stores the new user. The plaintext password is never stored or logged.
func (s *AuthService) Register(username, email, password, fullName string) (uint, error) {
	if len(username) < 3 || len(username) > 50 {
		return 0, fmt.Errorf("%w: username must be between 3 and 50 characters", ErrInvalidInput)
	}
	if !usernamePattern.MatchString(username) {
		return 0, fmt.Errorf("%w: username may only contain letters, digits and underscores", ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return 0, fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}
	if len(password) < minPasswordLength {
		return 0, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	if _, err := s.userRepo.GetByUsername(username); err == nil {
		return 0, fmt.Errorf("%w: username already taken", ErrAlreadyExists)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return 0, err
	}
	if _, err := s.userRepo.GetByEmail(email); err == nil {
		return 0, fmt.Errorf("%w: email already registered", ErrAlreadyExists)
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return 0, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return 0, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		FullName: fullName,
		IsActive: true,
	}
	if err := s.userRepo.Create(user); err != nil {
		// A racing registration can slip past the lookups above and lose to
		// the unique index instead; that is still a conflict, not a failure.
		if errors.Is(err, repositories.ErrDuplicate) {
			return 0, fmt.Errorf("%w: username or email already registered", ErrAlreadyExists)
		}
		return 0, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", username))
	return user.ID, nil
}

// Login verifies the identifier (username or email) and password against an
// active account. On success the last-login timestamp is updated and the user
// is returned with the password hash stripped.
func (s *AuthService) Login(identifier, password string) (*models.User, error) {
	user, err := s.userRepo.GetByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.userRepo.UpdateLastLogin(user.ID); err != nil {
		s.logger.Warn("failed to update last login", zap.Uint("user_id", user.ID), zap.Error(err))
	}

	user.Password = ""
	return user, nil
}

// ChangePassword replaces the user's password after verifying the current one.
func (s *AuthService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: user", ErrNotFound)
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(userID, string(hashed))
}

// ForgotPassword issues a reset token for the given email if it belongs to an
// active account. The outcome is identical to the caller either way, so the
// endpoint cannot be used to probe which addresses are registered. The token
// leaves the system only through the mailer.
func (s *AuthService) ForgotPassword(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: invalid email address", ErrInvalidInput)
	}

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}
	if !user.IsActive {
		return nil
	}

	raw := make([]byte, resetTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := &models.PasswordResetToken{
		Token:     hex.EncodeToString(raw),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(resetTokenTTL),
		Used:      false,
	}
	if err := s.tokenRepo.Create(token); err != nil {
		return err
	}

	if s.mailer != nil {
		if err := s.mailer.SendPasswordReset(user.Email, user.FullName, token.Token); err != nil {
			// Delivery failures stay internal; surfacing them would leak
			// which addresses exist.
			s.logger.Error("failed to deliver reset token", zap.Uint("user_id", user.ID), zap.Error(err))
		}
	}

	s.logger.Info("reset token issued", zap.Uint("user_id", user.ID))
	return nil
}

// ResetPassword redeems a reset token and replaces the owning user's password.
// A token is accepted at most once, before its expiry; the used flag and the
// password update commit together.
func (s *AuthService) ResetPassword(token, newPassword string) error {
	if token == "" {
		return fmt.Errorf("%w: token is required", ErrInvalidInput)
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLength)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	redeemed, err := s.tokenRepo.Redeem(token, string(hashed))
	if err != nil {
		return err
	}
	if !redeemed {
		return ErrInvalidResetToken
	}
	return nil
}

// GetUser returns an active user with the password hash stripped.
func (s *AuthService) GetUser(userID uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// UpdateProfile applies the provided profile fields. Nil pointers mean "leave
// unchanged"; at least one field must be given. Column names are whitelisted
// here, never taken from the request.
func (s *AuthService) UpdateProfile(userID uint, fullName, email, phone, address *string) error {
	fields := make(map[string]interface{})
	if fullName != nil {
		fields["full_name"] = *fullName
	}
	if email != nil {
		if _, err := mail.ParseAddress(*email); err != nil {
			return fmt.Errorf("%w: invalid email address", ErrInvalidInput)
		}
		if existing, err := s.userRepo.GetByEmail(*email); err == nil && existing.ID != userID {
			return fmt.Errorf("%w: email already registered", ErrAlreadyExists)
		} else if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		fields["email"] = *email
	}
	if phone != nil {
		fields["phone"] = *phone
	}
	if address != nil {
		fields["address"] = *address
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields to update", ErrInvalidInput)
	}

	if err := s.userRepo.UpdateProfile(userID, fields); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: user", ErrNotFound)
		}
		return err
	}
	return nil
}

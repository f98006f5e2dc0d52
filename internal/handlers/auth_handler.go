package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"

	"storefront/internal/services"
)

// AuthHandler handles HTTP requests for authentication and the session
// lifecycle.
type AuthHandler struct {
	authService *services.AuthService
	store       *session.Store
	validate    *validator.Validate
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, store *session.Store, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		store:       store,
		validate:    validator.New(),
		logger:      logger.Named("http.auth"),
	}
}

// RegisterRoutes registers the authentication routes. requireAuth guards the
// operations that need an established session.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
	authRoutes.Post("/logout", h.HandleLogout)
	authRoutes.Get("/session", h.HandleCheckSession)
	authRoutes.Post("/forgot-password", h.HandleForgotPassword)
	authRoutes.Post("/reset-password", h.HandleResetPassword)
	authRoutes.Post("/change-password", requireAuth, h.HandleChangePassword)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirm_password"`
	FullName        string `json:"full_name"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}
	if req.ConfirmPassword != "" && req.Password != req.ConfirmPassword {
		return badRequest(c, "Passwords do not match")
	}

	userID, err := h.authService.Register(req.Username, req.Email, req.Password, req.FullName)
	if err != nil {
		return failWith(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Registration successful",
		"user_id": userID,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	UsernameOrEmail string `json:"username_or_email" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

// HandleLogin verifies credentials and establishes the session. The session id
// is regenerated on success so a pre-login cookie cannot be fixed onto the
// authenticated session.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	user, err := h.authService.Login(req.UsernameOrEmail, req.Password)
	if err != nil {
		return failWith(c, err)
	}

	sess, err := h.store.Get(c)
	if err != nil {
		h.logger.Error("failed to open session", zap.Error(err))
		return failWith(c, err)
	}
	if err := sess.Regenerate(); err != nil {
		h.logger.Error("failed to regenerate session", zap.Error(err))
		return failWith(c, err)
	}
	sess.Set("user_id", user.ID)
	sess.Set("username", user.Username)
	sess.Set("email", user.Email)
	sess.Set("logged_in", true)
	if err := sess.Save(); err != nil {
		h.logger.Error("failed to save session", zap.Error(err))
		return failWith(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"user":    user,
	})
}

// HandleLogout destroys the session.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err == nil {
		if err := sess.Destroy(); err != nil {
			h.logger.Warn("failed to destroy session", zap.Error(err))
		}
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Logged out successfully",
	})
}

// HandleCheckSession reports whether the request carries an authenticated
// session. It never errors.
func (h *AuthHandler) HandleCheckSession(c *fiber.Ctx) error {
	sess, err := h.store.Get(c)
	if err == nil {
		if loggedIn, _ := sess.Get("logged_in").(bool); loggedIn {
			return c.JSON(fiber.Map{
				"success":   true,
				"logged_in": true,
				"user": fiber.Map{
					"id":       sess.Get("user_id"),
					"username": sess.Get("username"),
					"email":    sess.Get("email"),
				},
			})
		}
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"logged_in": false,
	})
}

// ForgotPasswordRequest represents the request body for forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

// HandleForgotPassword issues a reset token. The response is the same whether
// or not the email is registered.
func (h *AuthHandler) HandleForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	if err := h.authService.ForgotPassword(req.Email); err != nil {
		return failWith(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "If the email is registered, a password reset link has been sent",
	})
}

// ResetPasswordRequest represents the request body for reset-password.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// HandleResetPassword redeems a reset token.
func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	if err := h.authService.ResetPassword(req.Token, req.NewPassword); err != nil {
		return failWith(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password has been reset",
	})
}

// ChangePasswordRequest represents the request body for change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// HandleChangePassword replaces the password of the logged-in user.
func (h *AuthHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, validationMessage(err))
	}

	if err := h.authService.ChangePassword(currentUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		// The shared credentials message names username/email, which makes no
		// sense for a password change.
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Current password is incorrect",
			})
		}
		return failWith(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Password changed successfully",
	})
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"storefront/internal/services"
)

// UserHandler handles HTTP requests for the logged-in user's profile.
type UserHandler struct {
	authService *services.AuthService
	store       *session.Store
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, store *session.Store) *UserHandler {
	return &UserHandler{
		authService: authService,
		store:       store,
	}
}

// RegisterRoutes registers the profile routes. The router is expected to be
// guarded by the session middleware.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/me", h.HandleGetUser)
	userRoutes.Post("/me", h.HandleUpdateProfile)
}

// HandleGetUser returns the logged-in user's record, hash stripped.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.authService.GetUser(currentUserID(c))
	if err != nil {
		return failWith(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "User retrieved",
		"user":    user,
	})
}

// UpdateProfileRequest represents the request body for a profile update.
// Absent fields are left unchanged.
type UpdateProfileRequest struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
}

// HandleUpdateProfile applies the provided profile fields. When the email
// changes, the copy held in the session is refreshed too.
func (h *UserHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	err := h.authService.UpdateProfile(currentUserID(c), req.FullName, req.Email, req.Phone, req.Address)
	if err != nil {
		return failWith(c, err)
	}

	if req.Email != nil {
		if sess, err := h.store.Get(c); err == nil {
			sess.Set("email", *req.Email)
			_ = sess.Save()
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Profile updated successfully",
	})
}

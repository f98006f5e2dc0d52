package handlers

import (
	"github.com/gofiber/fiber/v2"

	"storefront/internal/services"
)

// WishlistHandler handles HTTP requests for the wishlist.
type WishlistHandler struct {
	service *services.WishlistService
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(service *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{
		service: service,
	}
}

// RegisterRoutes registers the wishlist routes. The router is expected to be
// guarded by the session middleware.
func (h *WishlistHandler) RegisterRoutes(router fiber.Router) {
	wishlistRoutes := router.Group("/wishlist")
	wishlistRoutes.Get("/", h.HandleList)
	wishlistRoutes.Post("/", h.HandleAdd)
	wishlistRoutes.Delete("/", h.HandleRemove)
}

// HandleList returns the user's wishlist newest first.
func (h *WishlistHandler) HandleList(c *fiber.Ctx) error {
	entries, err := h.service.List(currentUserID(c))
	if err != nil {
		return failWith(c, err)
	}
	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Wishlist retrieved",
		"wishlist": entries,
	})
}

// WishlistRequest represents the request body for add and remove.
type WishlistRequest struct {
	ProductID int64 `json:"product_id"`
}

// HandleAdd saves a product to the wishlist.
func (h *WishlistHandler) HandleAdd(c *fiber.Ctx) error {
	var req WishlistRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ProductID <= 0 {
		return badRequest(c, "Product ID is required")
	}

	if err := h.service.Add(currentUserID(c), req.ProductID); err != nil {
		return failWith(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Added to wishlist",
	})
}

// HandleRemove deletes a product from the wishlist. Removing a product that is
// not present still succeeds.
func (h *WishlistHandler) HandleRemove(c *fiber.Ctx) error {
	var req WishlistRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.ProductID <= 0 {
		return badRequest(c, "Product ID is required")
	}

	if err := h.service.Remove(currentUserID(c), req.ProductID); err != nil {
		return failWith(c, err)
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Removed from wishlist",
	})
}

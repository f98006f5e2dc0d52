package handlers

import (
	"errors"

	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// failWith maps a service error onto the HTTP status taxonomy. Errors outside
// the taxonomy become a generic 500; the underlying cause stays in the logs
// and is never sent to the client.
func failWith(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Something went wrong"

	switch {
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrAlreadyExists),
		errors.Is(err, services.ErrInvalidResetToken):
		status = fiber.StatusBadRequest
		message = err.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		status = fiber.StatusUnauthorized
		message = "Invalid username/email or password"
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
		message = err.Error()
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// badRequest reports a malformed or invalid request body.
func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// validationMessage flattens the first validator error into a readable string.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return "Field '" + verrs[0].Field() + "' failed on the '" + verrs[0].Tag() + "' rule"
	}
	return "Validation failed"
}

// currentUserID reads the identity the session middleware resolved.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("user_id").(uint)
	return id
}

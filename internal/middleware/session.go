package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// RequireAuth resolves the session cookie and rejects unauthenticated
// requests. The resolved user id is stored in the request-scoped Locals so
// handlers never touch the session directly.
func RequireAuth(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Not authenticated",
			})
		}

		loggedIn, _ := sess.Get("logged_in").(bool)
		userID, ok := sess.Get("user_id").(uint)
		if !loggedIn || !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Not authenticated",
			})
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}

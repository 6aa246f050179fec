package middleware

import "github.com/gofiber/fiber/v2"

// NoCache marks responses as not storable. Used on auth and status routes
// whose bodies change with every review.
func NoCache() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate")
		c.Set("Pragma", "no-cache")
		c.Set("Expires", "0")

		return err
	}
}

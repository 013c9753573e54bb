package middleware

import (
	"log"

	"github.com/gofiber/fiber/v2"
)

// ServiceTokenMiddleware guards privileged routes (catalog seeding, manual
// unlocks). Requests must carry the shared X-Service-Token issued to the
// gateway; everything else is rejected before reaching a handler.
func ServiceTokenMiddleware(token string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token == "" {
			log.Printf("❌ [AUTH] SERVICE_TOKEN not configured, rejecting %s", c.Path())
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "service token not configured",
			})
		}
		if c.Get("X-Service-Token") != token {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or invalid X-Service-Token",
			})
		}
		return c.Next()
	}
}

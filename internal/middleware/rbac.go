package middleware

import (
	"github.com/gofiber/fiber/v2"

	"agentsleads/internal/domain"
)

func RequireRole(requiredRole domain.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		viewer := GetViewer(c)
		if viewer == nil {
			return Unauthorized("User not found")
		}

		if !viewer.HasRole(requiredRole) {
			return Forbidden("Insufficient permissions for this operation")
		}

		return c.Next()
	}
}

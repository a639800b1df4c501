package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mhutchens/flaretrack/internal/models"
)

const (
	authCookieName = "flaretrack_auth"
	contextUserKey = "current_user"
)

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok
}

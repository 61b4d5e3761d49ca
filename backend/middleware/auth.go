package middleware

import (
	"germanlearn/backend/config"
	"germanlearn/backend/utils"

	"github.com/gofiber/fiber/v2"
)

const userIDKey = "user_id"

// AuthMiddleware rejects requests without a valid access token and stores
// the caller's id for the handlers.
func AuthMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := utils.ExtractUserIDFromToken(c, cfg)
		if err != nil {
			return utils.Unauthorized(c, err.Error())
		}
		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// UserID returns the id AuthMiddleware stored, if any.
func UserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(userIDKey).(uint)
	return id, ok && id != 0
}

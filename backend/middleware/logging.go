package middleware

import (
	"germanlearn/backend/utils"
	"time"

	"github.com/gofiber/fiber/v2"
)

// LoggingMiddleware writes one structured line per request. It expects the
// requestid middleware to run first.
func LoggingMiddleware(logger *utils.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		kv := []interface{}{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start).String(),
			"ip", c.IP(),
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		}
		if userID, ok := UserID(c); ok {
			kv = append(kv, "user_id", userID)
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			logger.Error("request", kv...)
		case status >= fiber.StatusBadRequest:
			logger.Warn("request", kv...)
		default:
			logger.Info("request", kv...)
		}

		return err
	}
}

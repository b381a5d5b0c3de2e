package middleware

import (
	log "log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// NewLoggingMiddleware logs one line per request, levelled by status class.
func NewLoggingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Let the app's error handler set the final status first.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
			err = nil
		}

		status := c.Response().StatusCode()
		attrs := []any{
			"request_id", GetRequestID(c),
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"ip", c.IP(),
			"response_size", len(c.Response().Body()),
		}

		switch {
		case status >= 500:
			log.Error("Server error", attrs...)
		case status >= 400:
			log.Warn("Client error", attrs...)
		default:
			log.Info("Success", attrs...)
		}
		return err
	}
}

// Package middleware holds the fiber handlers wrapped around every dashboard route.
package middleware

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

type Middleware struct {
	limiter *rateLimiter
}

// New builds the middleware set. perSecond <= 0 disables rate limiting.
func New(perSecond float64, burst int) *Middleware {
	m := &Middleware{}
	if perSecond > 0 {
		if burst < 1 {
			burst = 1
		}
		m.limiter = newRateLimiter(rate.Limit(perSecond), burst)
	}
	return m
}

// Use installs request ids, logging and rate limiting, in that order.
func (m *Middleware) Use(app fiber.Router) {
	app.Use(NewRequestIDMiddleware(), NewLoggingMiddleware(), fiber.Handler(m.NewRateLimiter))
}

func GetRequestID(ctx *fiber.Ctx) string {
	requestID, ok := ctx.Locals(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

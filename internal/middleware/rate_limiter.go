package middleware

import (
	log "log/slog"
	"net/http"
	"sync"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"

	"lull/pkg/response"
)

var ErrTooManyRequests = response.NewError(http.StatusTooManyRequests, "too many requests")

type rateLimiter struct {
	mu        sync.Mutex
	bucket    map[string]*rate.Limiter
	rate      rate.Limit
	burstSize int
}

func newRateLimiter(r rate.Limit, burst int) *rateLimiter {
	return &rateLimiter{
		bucket:    make(map[string]*rate.Limiter),
		rate:      r,
		burstSize: burst,
	}
}

func (r *rateLimiter) limiterFor(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.bucket[ip]
	if !ok {
		l = rate.NewLimiter(r.rate, r.burstSize)
		r.bucket[ip] = l
	}
	return l
}

// NewRateLimiter rejects a client IP with 429 once it exceeds its bucket.
func (m *Middleware) NewRateLimiter(ctx *fiber.Ctx) error {
	if m.limiter == nil {
		return ctx.Next()
	}
	ip := ctx.IP()
	if !m.limiter.limiterFor(ip).Allow() {
		log.Warn("Too many requests", "ip", ip, "request_id", GetRequestID(ctx))
		return ctx.Status(response.Status(ErrTooManyRequests)).JSON(fiber.Map{
			"error": ErrTooManyRequests.Error(),
		})
	}
	return ctx.Next()
}

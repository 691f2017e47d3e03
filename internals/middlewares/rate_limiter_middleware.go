package middlewares

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"qbank_backend/internals/configs"
	"qbank_backend/internals/middlewares/auth"
)

// keyByIdentity rate-limits per verified API key, falling back to IP before
// authentication has run.
func keyByIdentity(c *fiber.Ctx) string {
	if id, ok := c.Locals(auth.LocalsIdentity).(string); ok && id != "" {
		return id
	}
	return c.IP()
}

// Global limiter for all read endpoints
func GlobalRateLimiter() fiber.Handler {
	max := envInt("RATE_LIMIT_MAX", 120)
	window := envInt("RATE_LIMIT_WINDOW_SECONDS", 60)
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        time.Duration(window) * time.Second,
		KeyGenerator:      keyByIdentity,
		LimiterMiddleware: limiter.SlidingWindow{},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many requests. Please try again later.",
			})
		},
	})
}

// Stricter limiter for mutating admin routes
func WriteRateLimiter() fiber.Handler {
	max := envInt("WRITE_RATE_LIMIT_MAX", 30)
	window := envInt("WRITE_RATE_LIMIT_WINDOW_SECONDS", 60)
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        time.Duration(window) * time.Second,
		KeyGenerator:      keyByIdentity,
		LimiterMiddleware: limiter.SlidingWindow{},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many write requests. Please slow down.",
			})
		},
	})
}

func envInt(key string, def int) int {
	if v := configs.GetEnv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

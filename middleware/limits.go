package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimitConfig configures the per-IP limiter.
type RateLimitConfig struct {
	Max        int           // requests allowed per window
	Expiration time.Duration // window length
	Message    string
}

// DefaultRateLimit applies to mutation routes unless overridden by config.
var DefaultRateLimit = RateLimitConfig{
	Max:        100,
	Expiration: 15 * time.Minute,
	Message:    "Too many requests, try again later",
}

// CreateRateLimiter limits requests per client IP. A non-positive Max disables limiting.
func CreateRateLimiter(config RateLimitConfig) fiber.Handler {
	if config.Max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	if config.Expiration <= 0 {
		config.Expiration = DefaultRateLimit.Expiration
	}
	if config.Message == "" {
		config.Message = DefaultRateLimit.Message
	}

	return limiter.New(limiter.Config{
		Max:        config.Max,
		Expiration: config.Expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error":       true,
				"message":     config.Message,
				"retry_after": int(config.Expiration.Seconds()),
			})
		},
	})
}

// BodySizeLimit rejects requests whose body exceeds maxSize bytes.
func BodySizeLimit(maxSize int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if maxSize > 0 && len(c.Body()) > maxSize {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"error":    true,
				"message":  "Request body exceeds the allowed size",
				"max_size": maxSize,
			})
		}
		return c.Next()
	}
}

// SecurityHeaders sets the standard hardening headers on every response.
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Content-Security-Policy", "default-src 'self'")
		return c.Next()
	}
}

package ratelimit

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// Handler limits requests per client IP on the routes it guards. A limiter
// failure (e.g. Redis unreachable) fails open so an infrastructure outage
// does not lock callers out.
func Handler(limiter Limiter, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, err := limiter.Allow(c.UserContext(), c.IP())
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}
		if !allowed {
			return apperrors.NewRateLimited("too many requests, please try again later")
		}
		return c.Next()
	}
}

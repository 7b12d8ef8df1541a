package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/api/http/handlers"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Profile        *handlers.ProfileHandler
	Upload         *handlers.UploadHandler
	AuthMiddleware *auth.Middleware
	RateLimiter    fiber.Handler
}

// RegisterRoutes wires HTTP routes. Role gates always run after the
// authentication middleware, never on their own.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	protected := api.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/profile", cfg.Profile.Profile)
	protected.Get("/admin", auth.RequireRole(domain.RoleAdmin), cfg.Profile.Admin)

	uploads := protected.Group("/upload", cfg.RateLimiter)
	uploads.Post("", cfg.Upload.Upload)
	uploads.Get("", cfg.Upload.List)
}

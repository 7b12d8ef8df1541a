package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/auth"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// ProfileHandler serves the protected demo resources.
type ProfileHandler struct{}

// NewProfileHandler constructs handler.
func NewProfileHandler() *ProfileHandler {
	return &ProfileHandler{}
}

// Profile handles GET /api/profile. Requires authentication only.
func (h *ProfileHandler) Profile(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthenticated("authentication required")
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Welcome %s", identity.Subject),
		"role":    identity.Role,
	})
}

// Admin handles GET /api/admin. Requires the admin role.
func (h *ProfileHandler) Admin(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Welcome Admin! You have full access.",
	})
}

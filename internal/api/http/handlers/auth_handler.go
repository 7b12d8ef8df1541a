package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/api/dto"
	"github.com/spec-kit/auth-service/internal/service"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// AuthHandler exposes registration and login endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, err := h.auth.Register(c.UserContext(), req.Username, req.Password, req.Role)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"message": "account registered successfully",
			"account": fiber.Map{
				"username": account.Username,
				"role":     account.Role,
			},
		},
	})
}

// Login handles POST /api/auth/login.
//
// Unknown usernames and wrong passwords both come back as invalid
// credentials so the endpoint cannot be used to enumerate accounts. The
// service keeps the two apart internally.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, token, expiresAt, err := h.auth.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return apperrors.NewInvalidCredentials()
		}
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.AuthResponse{
			Token:     token,
			ExpiresAt: expiresAt,
			Subject:   account.Username,
			Role:      string(account.Role),
		},
	})
}

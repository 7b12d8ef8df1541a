package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/domain"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

func newTestApp(tm *TokenManager, routes func(app *fiber.App, mw *Middleware)) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"code": domainErr.Code})
		},
	})
	routes(app, NewMiddleware(tm, zap.NewNop()))
	return app
}

func protectedApp(tm *TokenManager) *fiber.App {
	return newTestApp(tm, func(app *fiber.App, mw *Middleware) {
		app.Get("/profile", mw.Handle, func(c *fiber.Ctx) error {
			identity, ok := IdentityFromContext(c)
			if !ok {
				return apperrors.NewInternalError(nil)
			}
			return c.JSON(fiber.Map{"subject": identity.Subject, "role": identity.Role})
		})
		app.Get("/admin", mw.Handle, RequireRole(domain.RoleAdmin), func(c *fiber.Ctx) error {
			return c.SendStatus(http.StatusOK)
		})
	})
}

func doRequest(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return resp
}

func TestMiddlewareRejectsMissingToken(t *testing.T) {
	app := protectedApp(NewTokenManager(testSecret, time.Hour, 0))

	resp := doRequest(t, app, "/profile", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestMiddlewareRejectsBadScheme(t *testing.T) {
	app := protectedApp(NewTokenManager(testSecret, time.Hour, 0))

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Basic abc123")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestMiddlewareRejectsInvalidToken(t *testing.T) {
	app := protectedApp(NewTokenManager(testSecret, time.Hour, 0))

	resp := doRequest(t, app, "/profile", "not.a.token")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestMiddlewareRejectsExpiredToken(t *testing.T) {
	issuedAt := time.Unix(1700000000, 0).UTC()
	issuer := NewTokenManagerWithClock(testSecret, time.Hour, 0, fixedClock(issuedAt))
	token, _, err := issuer.Issue("alice", domain.RoleUser, time.Minute)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	verifier := NewTokenManagerWithClock(testSecret, time.Hour, 0, fixedClock(issuedAt.Add(time.Hour)))
	app := protectedApp(verifier)

	resp := doRequest(t, app, "/profile", token)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestMiddlewareAttachesIdentity(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, 0)
	token, _, err := tm.Issue("alice", domain.RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	app := protectedApp(tm)
	resp := doRequest(t, app, "/profile", token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestRoleGateForbidsNonAdmin(t *testing.T) {
	tm := NewTokenManager(testSecret, time.Hour, 0)
	userToken, _, err := tm.Issue("alice", domain.RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	adminToken, _, err := tm.Issue("root", domain.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	app := protectedApp(tm)

	if resp := doRequest(t, app, "/admin", userToken); resp.StatusCode != http.StatusForbidden {
		t.Fatalf("user on admin route: expected 403, got %d", resp.StatusCode)
	}
	if resp := doRequest(t, app, "/admin", adminToken); resp.StatusCode != http.StatusOK {
		t.Fatalf("admin on admin route: expected 200, got %d", resp.StatusCode)
	}
}

package middleware

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"job-tracker/internal/domain/user"
	"job-tracker/internal/pkg/jwt"
	"job-tracker/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type memUsers map[uuid.UUID]user.User

func (m memUsers) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := m[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}

func newTestApp(t *testing.T, users memUsers, guards ...fiber.Handler) (*fiber.App, *jwt.HMACService) {
	t.Helper()

	svc := jwt.NewHMACService(jwt.Options{
		Issuer:           "test",
		AccessSecret:     "access-secret",
		RefreshSecret:    "refresh-secret",
		AccessExpiresIn:  time.Minute,
		RefreshExpiresIn: time.Hour,
	})

	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())

	app.Use(NewAuthMiddleware(svc, users).Middleware())
	for _, g := range guards {
		app.Use(g)
	}
	app.Get("/private", func(c fiber.Ctx) error {
		actor, ok := ActorFromCtx(c)
		if !ok {
			t.Fatalf("expected actor in locals")
		}
		return response.Success(c, fiber.StatusOK, response.MessageOK, string(actor.Role))
	})
	return app, svc
}

func doGet(t *testing.T, app *fiber.App, token string) response.SemanticResponse {
	t.Helper()

	req := httptest.NewRequest("GET", "/private", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()

	var sr response.SemanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if sr.Status != resp.StatusCode {
		t.Fatalf("body status %d does not match HTTP status %d", sr.Status, resp.StatusCode)
	}
	return sr
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	app, _ := newTestApp(t, memUsers{})
	if sr := doGet(t, app, ""); sr.Status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", sr.Status)
	}
}

func TestAuthMiddleware_RefreshTokenRejected(t *testing.T) {
	id := uuid.New()
	app, svc := newTestApp(t, memUsers{id: {ID: id, Role: user.RoleJobSeeker, IsActive: true}})

	tok, err := svc.GenerateRefreshToken(id)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if sr := doGet(t, app, tok); sr.Status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401 for refresh token, got %d", sr.Status)
	}
}

func TestAuthMiddleware_ResolvesRoleFromStore(t *testing.T) {
	id := uuid.New()
	app, svc := newTestApp(t, memUsers{id: {ID: id, Role: user.RoleRecruiter, IsActive: true}})

	tok, _ := svc.GenerateAccessToken(id, "r@example.com")
	sr := doGet(t, app, tok)
	if sr.Status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", sr.Status, sr.Message)
	}
	if sr.Data != string(user.RoleRecruiter) {
		t.Fatalf("expected recruiter role, got %v", sr.Data)
	}
}

func TestAuthMiddleware_InactiveUser(t *testing.T) {
	id := uuid.New()
	app, svc := newTestApp(t, memUsers{id: {ID: id, Role: user.RoleJobSeeker, IsActive: false}})

	tok, _ := svc.GenerateAccessToken(id, "x@example.com")
	if sr := doGet(t, app, tok); sr.Status != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", sr.Status)
	}
}

func TestAuthMiddleware_UnknownUser(t *testing.T) {
	app, svc := newTestApp(t, memUsers{})

	tok, _ := svc.GenerateAccessToken(uuid.New(), "gone@example.com")
	if sr := doGet(t, app, tok); sr.Status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", sr.Status)
	}
}

func TestRequireRoles(t *testing.T) {
	seeker, admin := uuid.New(), uuid.New()
	users := memUsers{
		seeker: {ID: seeker, Role: user.RoleJobSeeker, IsActive: true},
		admin:  {ID: admin, Role: user.RoleAdmin, IsActive: true},
	}
	app, svc := newTestApp(t, users, RequireRoles(user.RoleAdmin))

	tok, _ := svc.GenerateAccessToken(seeker, "s@example.com")
	if sr := doGet(t, app, tok); sr.Status != fiber.StatusForbidden {
		t.Fatalf("expected 403 for job seeker, got %d", sr.Status)
	}

	tok, _ = svc.GenerateAccessToken(admin, "a@example.com")
	if sr := doGet(t, app, tok); sr.Status != fiber.StatusOK {
		t.Fatalf("expected 200 for admin, got %d", sr.Status)
	}
}

func TestErrorMiddleware_HidesServerErrors(t *testing.T) {
	app := fiber.New()
	app.Use(NewErrorMiddleware(nil).Middleware())
	app.Get("/boom", func(c fiber.Ctx) error {
		return NewAppError(fiber.StatusInternalServerError, "db password leaked", nil, nil)
	})
	app.Get("/panic", func(c fiber.Ctx) error {
		panic("boom")
	})

	for _, path := range []string{"/boom", "/panic"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("%s: request error: %v", path, err)
		}
		var sr response.SemanticResponse
		_ = json.NewDecoder(resp.Body).Decode(&sr)
		resp.Body.Close()

		if sr.Status != fiber.StatusInternalServerError {
			t.Fatalf("%s: expected 500, got %d", path, sr.Status)
		}
		if sr.Message != response.MessageInternalServerError {
			t.Fatalf("%s: expected generic message, got %q", path, sr.Message)
		}
	}
}

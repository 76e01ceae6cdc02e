package middleware

import (
	"context"
	"errors"
	"strings"

	"job-tracker/internal/domain/user"
	"job-tracker/internal/pkg/jwt"
	"job-tracker/internal/workflow"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const CtxActorKey = "actor"

type userGetter interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error)
}

type AuthMiddleware struct {
	jwt   jwt.Service
	users userGetter
}

func NewAuthMiddleware(jwtSvc jwt.Service, users userGetter) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc, users: users}
}

// Middleware resolves the bearer token to a live user. The role is read from
// the user row rather than the token so role changes apply immediately.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.jwt.ValidateAccessToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}

		usr, err := m.users.GetUserByID(c.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
			}
			return NewAppError(fiber.StatusInternalServerError, "", nil, err)
		}
		if !usr.IsActive {
			return NewAppError(fiber.StatusForbidden, "Account is inactive", nil, nil)
		}

		c.Locals(CtxActorKey, workflow.Actor{ID: usr.ID, Role: usr.Role})
		return c.Next()
	}
}

// RequireRoles rejects callers whose role is not listed. It must run after
// AuthMiddleware.
func RequireRoles(roles ...user.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		actor, ok := ActorFromCtx(c)
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}
		for _, r := range roles {
			if actor.Role == r {
				return c.Next()
			}
		}
		return NewAppError(fiber.StatusForbidden, "Forbidden", nil, nil)
	}
}

func ActorFromCtx(c fiber.Ctx) (workflow.Actor, bool) {
	actor, ok := c.Locals(CtxActorKey).(workflow.Actor)
	return actor, ok
}

func BearerToken(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}

	return token, true
}

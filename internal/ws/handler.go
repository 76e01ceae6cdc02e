package ws

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"job-tracker/internal/domain/user"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// TokenVerifier resolves an access token to a user id.
type TokenVerifier interface {
	VerifyAccessToken(token string) (uuid.UUID, error)
}

// UserStore loads the account behind a verified token.
type UserStore interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error)
}

// Handler upgrades HTTP requests to websocket clients. A missing token gives
// an anonymous client that only hears broadcast; a bad token, an unknown
// account or a deactivated one is rejected before the upgrade.
type Handler struct {
	registry *Registry
	verifier TokenVerifier
	users    UserStore
	opts     ClientOptions
	logger   logrus.FieldLogger
	upgrader websocket.Upgrader
}

func NewHandler(registry *Registry, verifier TokenVerifier, users UserStore, opts ClientOptions, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = registry.logger
	}
	return &Handler{
		registry: registry,
		verifier: verifier,
		users:    users,
		opts:     opts,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := uuid.Nil
	var role user.Role
	if token := tokenFromRequest(r); token != "" {
		u, status := h.authenticate(r.Context(), token)
		if status != http.StatusOK {
			http.Error(w, http.StatusText(status), status)
			return
		}
		userID, role = u.ID, u.Role
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("ws upgrade failed")
		return
	}

	client := NewClient(h.registry, conn, userID, role, h.opts)
	if err := h.registry.Connect(client); err != nil {
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		_ = conn.Close()
		return
	}
	go client.WritePump()
	go client.ReadPump()
}

// authenticate mirrors the HTTP auth middleware: the token must verify and
// the account must still exist and be active.
func (h *Handler) authenticate(ctx context.Context, token string) (user.User, int) {
	if h.verifier == nil || h.users == nil {
		return user.User{}, http.StatusUnauthorized
	}
	id, err := h.verifier.VerifyAccessToken(token)
	if err != nil {
		return user.User{}, http.StatusUnauthorized
	}
	u, err := h.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, http.StatusUnauthorized
		}
		h.logger.WithError(err).WithField("user_id", id).Error("ws load user failed")
		return user.User{}, http.StatusInternalServerError
	}
	if !u.IsActive {
		return user.User{}, http.StatusForbidden
	}
	return u, http.StatusOK
}

func tokenFromRequest(r *http.Request) string {
	if t := strings.TrimSpace(r.URL.Query().Get("token")); t != "" {
		return t
	}
	auth := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

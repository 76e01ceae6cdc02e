package user

import (
	"context"
	"errors"
	"testing"

	"job-tracker/internal/domain/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type memUsers map[uuid.UUID]user.User

func (m memUsers) ExistsByEmail(context.Context, string) (bool, error) { return false, nil }
func (m memUsers) CreateUser(_ context.Context, u user.User) error     { m[u.ID] = u; return nil }
func (m memUsers) GetUserByEmail(context.Context, string) (user.User, error) {
	return user.User{}, user.ErrNotFound
}
func (m memUsers) GetUserByID(_ context.Context, id uuid.UUID) (user.User, error) {
	u, ok := m[id]
	if !ok {
		return user.User{}, user.ErrNotFound
	}
	return u, nil
}
func (m memUsers) UpdateUser(_ context.Context, u user.User) error { m[u.ID] = u; return nil }

func seed(m memUsers, role user.Role) user.User {
	u := user.User{ID: uuid.New(), Email: uuid.NewString() + "@example.com", PasswordHash: "hash", FullName: "Someone", Role: role, IsActive: true}
	m[u.ID] = u
	return u
}

func TestService_GetMeSanitizes(t *testing.T) {
	users := memUsers{}
	u := seed(users, user.RoleJobSeeker)
	svc := NewService(users, bcrypt.MinCost)

	got, err := svc.GetMe(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.PasswordHash != "" {
		t.Fatalf("expected sanitized user")
	}
	if _, err := svc.GetMe(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_UpdateMe(t *testing.T) {
	users := memUsers{}
	u := seed(users, user.RoleJobSeeker)
	svc := NewService(users, bcrypt.MinCost)

	name, phone, pw := "  New Name ", "+62 811", "new-password"
	got, err := svc.UpdateMe(context.Background(), u.ID, UpdateMeInput{FullName: &name, Phone: &phone, Password: &pw})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got.FullName != "New Name" || got.Phone != "+62 811" {
		t.Fatalf("unexpected profile: %+v", got)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(users[u.ID].PasswordHash), []byte(pw)); err != nil {
		t.Fatalf("expected password updated: %v", err)
	}

	blank := " "
	if _, err := svc.UpdateMe(context.Background(), u.ID, UpdateMeInput{FullName: &blank}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_AdminChanges(t *testing.T) {
	users := memUsers{}
	admin := seed(users, user.RoleAdmin)
	target := seed(users, user.RoleJobSeeker)
	svc := NewService(users, bcrypt.MinCost)

	got, err := svc.SetRole(context.Background(), admin.ID, target.ID, user.RoleRecruiter)
	if err != nil || got.Role != user.RoleRecruiter {
		t.Fatalf("expected recruiter, got %+v %v", got, err)
	}
	got, err = svc.SetActive(context.Background(), admin.ID, target.ID, false)
	if err != nil || got.IsActive {
		t.Fatalf("expected inactive, got %+v %v", got, err)
	}

	if _, err := svc.SetRole(context.Background(), admin.ID, admin.ID, user.RoleJobSeeker); !errors.Is(err, ErrSelfChange) {
		t.Fatalf("expected ErrSelfChange, got %v", err)
	}
	if _, err := svc.SetRole(context.Background(), admin.ID, target.ID, user.Role("owner")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.SetActive(context.Background(), admin.ID, uuid.New(), true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
